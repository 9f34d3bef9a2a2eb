package services

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"office-booking/config"
	"office-booking/internal/status"
	"office-booking/models"
	"office-booking/monitoring"
)

// BookingService is the allocation engine. It owns the catalog, the
// booking ledger, the FIFO request queue and the waiting lists; every
// operation runs under one mutex because queue draining and waiting-list
// promotion both read-then-write the shared structures.
type BookingService struct {
	mu sync.Mutex

	cfg       *config.Config
	catalog   *Catalog
	ledger    *Ledger
	queue     *RequestQueue
	waitlists *WaitlistManager
	monitor   *monitoring.Monitor
	rng       *rand.Rand

	// now is swappable in tests
	now func() time.Time
}

// DrainResult summarizes one allocation pass.
type DrainResult struct {
	Processed int `json:"processed"`
	Confirmed int `json:"confirmed"`
	Deferred  int `json:"deferred"`
	Skipped   int `json:"skipped"`
}

func NewBookingService(cfg *config.Config, monitor *monitoring.Monitor, rng *rand.Rand) *BookingService {
	ledger := NewLedger()
	return &BookingService{
		cfg:       cfg,
		catalog:   NewCatalog(),
		ledger:    ledger,
		queue:     NewRequestQueue(),
		waitlists: NewWaitlistManager(ledger),
		monitor:   monitor,
		rng:       rng,
		now:       time.Now,
	}
}

// RegisterUser adds or replaces a catalog user. A non-positive karma
// score means "unset" and gets the configured default.
func (s *BookingService) RegisterUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.KarmaPoints <= 0 {
		user.KarmaPoints = s.cfg.DefaultKarmaPoints
	}
	s.catalog.AddUser(user)
}

func (s *BookingService) RegisterResource(resource *models.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource.Kind {
	case models.ResourceDesk, models.ResourceRoom:
	default:
		return fmt.Errorf("resource %s has unknown kind %q", resource.ID, resource.Kind)
	}
	if resource.Kind == models.ResourceRoom {
		resource.DeskFamily = ""
	}
	s.catalog.AddResource(resource)
	return nil
}

func (s *BookingService) UnregisterUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.RemoveUser(id)
}

func (s *BookingService) UnregisterResource(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.RemoveResource(id)
}

// SubmitBooking validates a request against the catalog, records a
// pending booking and queues it for the next allocation pass. The
// requested desk is advisory; allocation may substitute another desk.
func (s *BookingService) SubmitBooking(userID, resourceID string, start, end time.Time,
	coworkerIDs []string) (*models.Booking, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.catalog.User(userID)
	if err != nil {
		return nil, err
	}
	resource, err := s.catalog.Resource(resourceID)
	if err != nil {
		return nil, err
	}

	var coworkers []*models.User
	for _, id := range coworkerIDs {
		coworker, err := s.catalog.User(id)
		if err != nil {
			return nil, fmt.Errorf("coworker: %w", err)
		}
		coworkers = append(coworkers, coworker)
	}

	if !start.Before(end) {
		return nil, fmt.Errorf("start must precede end: %w", status.ErrInvalidTimeRange)
	}

	return s.enqueueBooking(user, resource, models.TimeRange{Start: start, End: end}, coworkers)
}

// SubmitRoomBooking is the room-specific entry point with the alignment
// rule: both instants on the hour or half-hour, duration between the
// configured minimum and maximum. Validation happens before any ledger
// write.
func (s *BookingService) SubmitRoomBooking(userID, roomID string, start, end time.Time) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.catalog.User(userID)
	if err != nil {
		return nil, err
	}
	room, err := s.catalog.Resource(roomID)
	if err != nil {
		return nil, err
	}
	if room.Kind != models.ResourceRoom {
		return nil, fmt.Errorf("room %s: %w", roomID, status.ErrNotFound)
	}

	if err := s.validateRoomRange(start, end); err != nil {
		return nil, err
	}

	return s.enqueueBooking(user, room, models.TimeRange{Start: start, End: end}, nil)
}

func (s *BookingService) validateRoomRange(start, end time.Time) error {
	if !onHalfHour(start) || !onHalfHour(end) {
		return fmt.Errorf("room bookings must start and end on the hour or half-hour: %w",
			status.ErrInvalidTimeRange)
	}
	duration := end.Sub(start)
	if duration < s.cfg.MinRoomBooking || duration > s.cfg.MaxRoomBooking {
		return fmt.Errorf("room booking duration must be between %s and %s: %w",
			s.cfg.MinRoomBooking, s.cfg.MaxRoomBooking, status.ErrInvalidTimeRange)
	}
	return nil
}

func onHalfHour(t time.Time) bool {
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return false
	}
	return t.Minute() == 0 || t.Minute() == 30
}

func (s *BookingService) enqueueBooking(user *models.User, resource *models.Resource,
	tr models.TimeRange, coworkers []*models.User) (*models.Booking, error) {

	now := s.now()
	deadline := tr.Start.Add(s.checkInWindow(resource.Kind))

	booking, err := s.ledger.Create(user, resource, tr, coworkers, now, deadline)
	if err != nil {
		return nil, err
	}
	s.queue.Enqueue(booking.ID)
	return booking, nil
}

func (s *BookingService) checkInWindow(kind models.ResourceKind) time.Duration {
	if kind == models.ResourceRoom {
		return s.cfg.RoomCheckInWindow
	}
	return s.cfg.DeskCheckInWindow
}

// DrainQueue processes every request queued before the call, in FIFO
// order. Requests created during the pass wait for the next drain.
func (s *BookingService) DrainQueue() DrainResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result DrainResult
	for _, id := range s.queue.DrainSnapshot() {
		result.Processed++

		booking, err := s.ledger.Get(id)
		if err != nil {
			// Deleted while queued; not an error.
			result.Skipped++
			continue
		}
		if booking.Status != models.StatusPending {
			result.Skipped++
			continue
		}

		if s.allocate(booking) {
			result.Confirmed++
		} else {
			result.Deferred++
		}
	}

	if result.Processed > 0 {
		log.Printf("Drained %d requests: %d confirmed, %d deferred, %d skipped",
			result.Processed, result.Confirmed, result.Deferred, result.Skipped)
	}
	return result
}

// allocate resolves one pending booking: confirm it on a resource or
// defer it to a waiting list. Returns true on confirmation.
func (s *BookingService) allocate(booking *models.Booking) bool {
	if booking.Resource.Kind == models.ResourceRoom {
		return s.allocateRoom(booking)
	}
	if len(booking.Coworkers) > 0 {
		return s.allocateDeskGroup(booking)
	}
	return s.allocateDeskSolo(booking)
}

func (s *BookingService) allocateRoom(booking *models.Booking) bool {
	room := booking.Resource
	if s.ledger.OverlapExists(room.ID, booking.Time, booking.ID) {
		s.waitlists.Enqueue(room.ID, booking)
		s.monitor.TrackAllocation("room", "waitlisted")
		return false
	}

	booking.Status = models.StatusConfirmed
	s.monitor.TrackAllocation("room", "confirmed")
	return true
}

// allocateDeskSolo implements pooled desk allocation: the requested desk
// is ignored and any desk without an active booking qualifies, picked
// uniformly at random. Desk occupancy is all-or-nothing per day.
func (s *BookingService) allocateDeskSolo(booking *models.Booking) bool {
	var free []*models.Resource
	for _, desk := range s.catalog.Desks() {
		if !s.ledger.Occupied(desk.ID, booking.ID) {
			free = append(free, desk)
		}
	}

	if len(free) == 0 {
		s.waitlists.Enqueue(DeskScope, booking)
		s.monitor.TrackAllocation("desk", "waitlisted")
		return false
	}

	booking.Resource = free[s.rng.Intn(len(free))]
	booking.Status = models.StatusConfirmed
	s.monitor.TrackAllocation("desk", "confirmed")
	return true
}

// allocateDeskGroup searches desk families in catalog order for one with
// enough members free over the exact requested range, then fans the
// group out across distinct desks of that family. On failure only the
// primary booking joins the shared desk waiting list.
func (s *BookingService) allocateDeskGroup(booking *models.Booking) bool {
	groupSize := 1 + len(booking.Coworkers)

	for _, family := range s.catalog.DeskFamilies() {
		if len(family.Desks) < groupSize {
			continue
		}

		var free []*models.Resource
		for _, desk := range family.Desks {
			if !s.ledger.OverlapExists(desk.ID, booking.Time, booking.ID) {
				free = append(free, desk)
			}
		}
		if len(free) < groupSize {
			continue
		}

		booking.Resource = free[0]
		booking.Status = models.StatusConfirmed

		for i, coworker := range booking.Coworkers {
			fanned, err := s.ledger.Create(coworker, free[i+1], booking.Time, nil,
				booking.CreatedAt, booking.CheckInDeadline)
			if err != nil {
				log.Printf("Error creating coworker booking for %s: %v", coworker.ID, err)
				continue
			}
			fanned.Status = models.StatusConfirmed
		}

		s.monitor.TrackAllocation("desk_group", "confirmed")
		return true
	}

	s.waitlists.Enqueue(DeskScope, booking)
	s.monitor.TrackAllocation("desk_group", "waitlisted")
	return false
}

func (s *BookingService) QueryBooking(id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Get(id)
}

// RemoveBooking deletes one record. Stale queue and waiting-list ids are
// skipped lazily by their readers.
func (s *BookingService) RemoveBooking(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Remove(id)
}

func (s *BookingService) RemoveBookingsByResource(resourceID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.RemoveByResource(resourceID)
}

func (s *BookingService) RemoveBookingsByKind(kind models.ResourceKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.RemoveByKind(kind)
}

// ResetKarmaPoints restores every user to the configured default score.
func (s *BookingService) ResetKarmaPoints() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.catalog.Users() {
		user.KarmaPoints = s.cfg.DefaultKarmaPoints
	}
}

func (s *BookingService) WaitlistSnapshots() []models.WaitlistSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waitlists.Snapshot()
}

// Stats implements the monitoring provider contract.
func (s *BookingService) Stats() models.EngineStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.EngineStats{
		QueueDepth:       s.queue.Len(),
		WaitlistDepths:   s.waitlists.Depths(),
		BookingsByStatus: s.ledger.CountByStatus(),
		LastUpdated:      s.now(),
	}
}
