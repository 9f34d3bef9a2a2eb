package services

// RequestQueue is the strict FIFO backlog of booking-request ids. Karma
// plays no role here; priority only applies once a request is deferred
// to a waiting list.
type RequestQueue struct {
	ids []string
}

func NewRequestQueue() *RequestQueue {
	return &RequestQueue{}
}

func (q *RequestQueue) Enqueue(id string) {
	q.ids = append(q.ids, id)
}

// DrainSnapshot hands back exactly the entries present at call time, in
// insertion order, and starts a fresh backlog. Requests enqueued while
// the caller processes the snapshot land in the next drain.
func (q *RequestQueue) DrainSnapshot() []string {
	batch := q.ids
	q.ids = nil
	return batch
}

func (q *RequestQueue) Len() int {
	return len(q.ids)
}
