package services

import (
	"container/heap"
	"errors"
	"time"

	"office-booking/internal/status"
	"office-booking/models"
)

// DeskScope is the waiting-list key shared by all desks. Rooms each get
// their own list keyed by room id.
const DeskScope = "__desks__"

type waitEntry struct {
	priority   int // negative karma: highest karma sorts first
	seq        int64
	bookingID  string
	userID     string
	karma      int
	enqueuedAt time.Time
}

type entryHeap []*waitEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(*waitEntry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return entry
}

// WaitlistManager keeps one karma-ordered list per contested scope.
// Entries whose booking has been deleted from the ledger are skipped at
// pop time rather than eagerly purged.
type WaitlistManager struct {
	ledger *Ledger
	lists  map[string]*entryHeap
	order  []string
	clock  func() time.Time
	seq    int64
}

func NewWaitlistManager(ledger *Ledger) *WaitlistManager {
	return &WaitlistManager{
		ledger: ledger,
		lists:  make(map[string]*entryHeap),
		clock:  time.Now,
	}
}

func (m *WaitlistManager) list(scope string) *entryHeap {
	h, ok := m.lists[scope]
	if !ok {
		h = &entryHeap{}
		heap.Init(h)
		m.lists[scope] = h
		m.order = append(m.order, scope)
	}
	return h
}

// Enqueue captures the owner's karma at enqueue time; later karma
// changes do not reorder existing entries.
func (m *WaitlistManager) Enqueue(scope string, booking *models.Booking) {
	m.seq++
	heap.Push(m.list(scope), &waitEntry{
		priority:   -booking.User.KarmaPoints,
		seq:        m.seq,
		bookingID:  booking.ID,
		userID:     booking.User.ID,
		karma:      booking.User.KarmaPoints,
		enqueuedAt: m.clock(),
	})
}

// PopBest removes and returns the best-ranked live entry: highest karma
// first, earlier enqueue breaking ties. Stale entries for deleted
// bookings are dropped along the way.
func (m *WaitlistManager) PopBest(scope string) (string, error) {
	h, ok := m.lists[scope]
	if !ok {
		return "", status.ErrEmptyWaitlist
	}
	for h.Len() > 0 {
		entry := heap.Pop(h).(*waitEntry)
		if _, err := m.ledger.Get(entry.bookingID); err != nil {
			if errors.Is(err, status.ErrNotFound) {
				continue
			}
			return "", err
		}
		return entry.bookingID, nil
	}
	return "", status.ErrEmptyWaitlist
}

// PeekBest returns the best-ranked live entry without removing it,
// discarding any stale entries found on top.
func (m *WaitlistManager) PeekBest(scope string) (string, error) {
	h, ok := m.lists[scope]
	if !ok {
		return "", status.ErrEmptyWaitlist
	}
	for h.Len() > 0 {
		top := (*h)[0]
		if _, err := m.ledger.Get(top.bookingID); err != nil {
			heap.Pop(h)
			continue
		}
		return top.bookingID, nil
	}
	return "", status.ErrEmptyWaitlist
}

// Depths reports the raw entry count per scope, stale entries included.
func (m *WaitlistManager) Depths() map[string]int {
	depths := make(map[string]int, len(m.lists))
	for scope, h := range m.lists {
		depths[scope] = h.Len()
	}
	return depths
}

// Snapshot returns the live entries of every scope in rank order.
func (m *WaitlistManager) Snapshot() []models.WaitlistSnapshot {
	snapshots := make([]models.WaitlistSnapshot, 0, len(m.order))
	for _, scope := range m.order {
		h := m.lists[scope]

		ranked := make(entryHeap, len(*h))
		copy(ranked, *h)
		heap.Init(&ranked)

		snap := models.WaitlistSnapshot{Scope: scope}
		for ranked.Len() > 0 {
			entry := heap.Pop(&ranked).(*waitEntry)
			if _, err := m.ledger.Get(entry.bookingID); err != nil {
				continue
			}
			snap.Entries = append(snap.Entries, models.WaitlistEntry{
				BookingID:   entry.bookingID,
				UserID:      entry.userID,
				KarmaPoints: entry.karma,
				EnqueuedAt:  entry.enqueuedAt,
			})
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots
}
