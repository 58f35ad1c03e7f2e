package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"staysphere-backend/internal/apperror"
	"staysphere-backend/internal/model"
)

// Filter selects bookings for a projection. Zero fields match everything.
type Filter struct {
	PropertyID int64
	HostID     int64
	GuestID    int64
}

func (f Filter) matches(b model.Booking) bool {
	return (f.PropertyID == 0 || b.PropertyID == f.PropertyID) &&
		(f.HostID == 0 || b.HostID == f.HostID) &&
		(f.GuestID == 0 || b.GuestID == f.GuestID)
}

// StatusChange is a compare-and-set of a booking's status.
type StatusChange struct {
	BookingID int64
	From      model.BookingStatus
	To        model.BookingStatus
	Reason    string
	Actor     string
	At        time.Time
}

// Repository persists bookings and their status history.
type Repository interface {
	// Create assigns b an ID and stores it with its initial event.
	Create(ctx context.Context, b *model.Booking) error
	Get(ctx context.Context, id int64) (model.Booking, error)
	// List returns matching bookings ordered by check-in, then ID.
	List(ctx context.Context, f Filter) ([]model.Booking, error)
	// UpdateStatus applies c only if the booking is still in c.From, and
	// appends the matching event in the same step.
	UpdateStatus(ctx context.Context, c StatusChange) (model.Booking, error)
	Events(ctx context.Context, bookingID int64) ([]model.BookingEvent, error)
}

func staleStatusError(id int64, expected, actual model.BookingStatus) error {
	return fmt.Errorf("%w: booking %d is %s, expected %s", apperror.ErrInvalidTransition, id, actual, expected)
}

// createdEvent is the first history entry of every booking.
func createdEvent(b model.Booking) model.BookingEvent {
	return model.BookingEvent{
		BookingID: b.ID,
		To:        b.Status,
		Actor:     Actor{Role: RoleGuest, ID: b.GuestID}.String(),
		At:        b.CreatedAt,
	}
}

func sortBookings(bookings []model.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].CheckIn.Equal(bookings[j].CheckIn) {
			return bookings[i].CheckIn.Before(bookings[j].CheckIn)
		}
		return bookings[i].ID < bookings[j].ID
	})
}

// memoryRepository keeps bookings in process memory.
type memoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	nextEvID int64
	bookings map[int64]model.Booking
	events   map[int64][]model.BookingEvent
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		bookings: make(map[int64]model.Booking),
		events:   make(map[int64][]model.BookingEvent),
	}
}

func (r *memoryRepository) Create(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	b.ID = r.nextID
	r.bookings[b.ID] = *b
	r.appendEvent(createdEvent(*b))
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id int64) (model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return model.Booking{}, fmt.Errorf("%w: booking %d", apperror.ErrNotFound, id)
	}
	return b, nil
}

func (r *memoryRepository) List(_ context.Context, f Filter) ([]model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Booking, 0)
	for _, b := range r.bookings {
		if f.matches(b) {
			out = append(out, b)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, c StatusChange) (model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[c.BookingID]
	if !ok {
		return model.Booking{}, fmt.Errorf("%w: booking %d", apperror.ErrNotFound, c.BookingID)
	}
	if b.Status != c.From {
		return b, staleStatusError(b.ID, c.From, b.Status)
	}

	b.Status = c.To
	b.DeclineReason = c.Reason
	b.UpdatedAt = c.At
	r.bookings[b.ID] = b
	r.appendEvent(model.BookingEvent{BookingID: b.ID, From: c.From, To: c.To, Reason: c.Reason, Actor: c.Actor, At: c.At})
	return b, nil
}

func (r *memoryRepository) Events(_ context.Context, bookingID int64) ([]model.BookingEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.bookings[bookingID]; !ok {
		return nil, fmt.Errorf("%w: booking %d", apperror.ErrNotFound, bookingID)
	}
	events := make([]model.BookingEvent, len(r.events[bookingID]))
	copy(events, r.events[bookingID])
	return events, nil
}

// appendEvent must be called with r.mu held.
func (r *memoryRepository) appendEvent(ev model.BookingEvent) {
	r.nextEvID++
	ev.ID = r.nextEvID
	r.events[ev.BookingID] = append(r.events[ev.BookingID], ev)
}
