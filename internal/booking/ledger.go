// Package booking owns booking records, their lifecycle and the calendar
// side effects of moving between states.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"staysphere-backend/internal/apperror"
	"staysphere-backend/internal/availability"
	"staysphere-backend/internal/directory"
	"staysphere-backend/internal/keylock"
	"staysphere-backend/internal/model"
	"staysphere-backend/internal/notification"
)

// DefaultMaxNights is the longest stay accepted when no policy is given.
const DefaultMaxNights = 28

// Dispatcher queues a notice for delivery without blocking.
type Dispatcher interface {
	Dispatch(n notification.Notice) bool
}

// Policy holds the booking rules taken from configuration.
type Policy struct {
	MaxNights         int
	CleaningFee       model.Money
	ServiceFeePercent int
}

// Request is a guest's request to stay at a property.
type Request struct {
	PropertyID int64
	GuestID    int64
	CheckIn    model.Date
	CheckOut   model.Date
	Guests     int
}

// Ledger creates bookings and drives them through their lifecycle.
type Ledger struct {
	repo       Repository
	engine     *availability.Engine
	dir        directory.Directory
	dispatcher Dispatcher
	pricer     Pricer
	maxNights  int
	locks      *keylock.Map[int64]
	now        func() time.Time
	log        zerolog.Logger
}

// NewLedger wires a ledger to its collaborators.
func NewLedger(repo Repository, engine *availability.Engine, dir directory.Directory, dispatcher Dispatcher, policy Policy, log zerolog.Logger) *Ledger {
	if policy.MaxNights <= 0 {
		policy.MaxNights = DefaultMaxNights
	}
	return &Ledger{
		repo:       repo,
		engine:     engine,
		dir:        dir,
		dispatcher: dispatcher,
		pricer:     Pricer{CleaningFee: policy.CleaningFee, ServiceFeePercent: policy.ServiceFeePercent},
		maxNights:  policy.MaxNights,
		locks:      keylock.New[int64](),
		now:        func() time.Time { return time.Now().UTC() },
		log:        log,
	}
}

// CreatePending validates req and stores a pending booking. The calendar is
// only checked, not reserved: a pending request holds no dates.
func (l *Ledger) CreatePending(ctx context.Context, req Request) (model.Booking, error) {
	if err := availability.ValidateStay(req.CheckIn, req.CheckOut); err != nil {
		return model.Booking{}, err
	}
	nights := req.CheckIn.DaysUntil(req.CheckOut)
	if nights > l.maxNights {
		return model.Booking{}, fmt.Errorf("%w: %d nights exceeds the maximum of %d", apperror.ErrInvalidRange, nights, l.maxNights)
	}
	if req.Guests < 1 {
		return model.Booking{}, fmt.Errorf("%w: at least one guest is required", apperror.ErrInvalidInput)
	}

	property, err := l.dir.Property(ctx, req.PropertyID)
	if err != nil {
		return model.Booking{}, err
	}
	if _, err := l.dir.Guest(ctx, req.GuestID); err != nil {
		return model.Booking{}, err
	}
	if req.Guests > property.MaxGuests {
		return model.Booking{}, fmt.Errorf("%w: %d guests requested, property %d allows %d",
			apperror.ErrCapacityExceeded, req.Guests, property.ID, property.MaxGuests)
	}

	free, err := l.engine.IsRangeFree(ctx, property.ID, req.CheckIn, req.CheckOut)
	if err != nil {
		return model.Booking{}, err
	}
	if !free {
		return model.Booking{}, fmt.Errorf("%w: property %d from %s to %s",
			apperror.ErrNotAvailable, property.ID, req.CheckIn, req.CheckOut)
	}

	now := l.now()
	b := model.Booking{
		PropertyID:     property.ID,
		GuestID:        req.GuestID,
		HostID:         property.HostID,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		Guests:         req.Guests,
		PriceBreakdown: l.pricer.Quote(property.PricePerNight, nights),
		Status:         model.BookingPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	b.TotalPrice = b.PriceBreakdown.Total

	if err := l.repo.Create(ctx, &b); err != nil {
		return model.Booking{}, err
	}
	l.log.Info().Int64("booking_id", b.ID).Int64("property_id", b.PropertyID).
		Int64("guest_id", b.GuestID).Int("nights", nights).Msg("booking requested")
	return b, nil
}

// Transition moves a booking to target on behalf of actor.
//
// Confirming reserves the dates. If they were taken in the meantime the
// booking is declined with ReasonDatesNoLongerAvailable, and the declined
// booking is returned together with apperror.ErrNotAvailable. Cancelling a
// confirmed booking releases its dates. Each committed change dispatches one
// notice after every lock has been released.
func (l *Ledger) Transition(ctx context.Context, id int64, target model.BookingStatus, actor Actor) (model.Booking, error) {
	b, committed, err := l.transition(ctx, id, target, actor)
	if committed {
		l.notify(ctx, b)
	}
	return b, err
}

func (l *Ledger) transition(ctx context.Context, id int64, target model.BookingStatus, actor Actor) (model.Booking, bool, error) {
	unlock := l.locks.Lock(id)
	defer unlock()

	b, err := l.repo.Get(ctx, id)
	if err != nil {
		return model.Booking{}, false, err
	}
	if err := checkTransition(b, target, actor); err != nil {
		return b, false, err
	}

	switch target {
	case model.BookingConfirmed:
		return l.confirm(ctx, b, actor)
	case model.BookingCancelled:
		return l.cancel(ctx, b, actor)
	default:
		updated, err := l.repo.UpdateStatus(ctx, l.change(b, target, "", actor))
		if err != nil {
			return updated, false, err
		}
		l.logTransition(b, updated, actor)
		return updated, true, nil
	}
}

func (l *Ledger) confirm(ctx context.Context, b model.Booking, actor Actor) (model.Booking, bool, error) {
	if err := l.engine.Reserve(ctx, b.PropertyID, b.CheckIn, b.CheckOut); err != nil {
		if !errors.Is(err, apperror.ErrNotAvailable) {
			return b, false, err
		}

		declined, derr := l.repo.UpdateStatus(ctx, l.change(b, model.BookingDeclined, ReasonDatesNoLongerAvailable, SystemActor))
		if derr != nil {
			return declined, false, fmt.Errorf("failed to decline booking %d after conflict: %w", b.ID, derr)
		}
		l.logTransition(b, declined, SystemActor)
		return declined, true, err
	}

	updated, err := l.repo.UpdateStatus(ctx, l.change(b, model.BookingConfirmed, "", actor))
	if err != nil {
		if rerr := l.engine.Release(ctx, b.PropertyID, b.CheckIn, b.CheckOut); rerr != nil {
			l.log.Error().Err(rerr).Int64("booking_id", b.ID).Msg("failed to release dates after confirm failed")
		}
		return updated, false, err
	}
	l.logTransition(b, updated, actor)
	return updated, true, nil
}

func (l *Ledger) cancel(ctx context.Context, b model.Booking, actor Actor) (model.Booking, bool, error) {
	updated, err := l.repo.UpdateStatus(ctx, l.change(b, model.BookingCancelled, "", actor))
	if err != nil {
		return updated, false, err
	}
	// A failed release leaves the dates booked, never double-booked.
	if err := l.engine.Release(ctx, b.PropertyID, b.CheckIn, b.CheckOut); err != nil {
		l.log.Error().Err(err).Int64("booking_id", b.ID).Int64("property_id", b.PropertyID).
			Msg("failed to release dates of cancelled booking")
	}
	l.logTransition(b, updated, actor)
	return updated, true, nil
}

func (l *Ledger) change(b model.Booking, to model.BookingStatus, reason string, actor Actor) StatusChange {
	return StatusChange{
		BookingID: b.ID,
		From:      b.Status,
		To:        to,
		Reason:    reason,
		Actor:     actor.String(),
		At:        l.now(),
	}
}

func (l *Ledger) logTransition(before, after model.Booking, actor Actor) {
	l.log.Info().Int64("booking_id", after.ID).Str("from", string(before.Status)).
		Str("to", string(after.Status)).Str("actor", actor.String()).
		Str("reason", after.DeclineReason).Msg("booking transitioned")
}

// notify resolves display names and queues the notice. Missing directory
// rows fall back to generic names; the notice is still sent.
func (l *Ledger) notify(ctx context.Context, b model.Booking) {
	ctx = context.WithoutCancel(ctx)
	n := notification.NewNotice(b.ID, string(b.Status))

	if guest, err := l.dir.Guest(ctx, b.GuestID); err == nil {
		n.GuestContact = guest.Email
		if guest.Name != "" {
			n.GuestName = guest.Name
		}
	} else {
		l.log.Warn().Err(err).Int64("booking_id", b.ID).Msg("guest lookup for notice failed")
	}
	if property, err := l.dir.Property(ctx, b.PropertyID); err == nil && property.Title != "" {
		n.PropertyName = property.Title
	}
	if host, err := l.dir.Host(ctx, b.HostID); err == nil && host.Name != "" {
		n.HostName = host.Name
	}

	l.dispatcher.Dispatch(n)
}

// Get returns one booking.
func (l *Ledger) Get(ctx context.Context, id int64) (model.Booking, error) {
	return l.repo.Get(ctx, id)
}

// ListByProperty returns the bookings of a property.
func (l *Ledger) ListByProperty(ctx context.Context, propertyID int64) ([]model.Booking, error) {
	return l.repo.List(ctx, Filter{PropertyID: propertyID})
}

// ListByHost returns the bookings across all of a host's properties.
func (l *Ledger) ListByHost(ctx context.Context, hostID int64) ([]model.Booking, error) {
	return l.repo.List(ctx, Filter{HostID: hostID})
}

// ListByGuest returns the bookings a guest has made.
func (l *Ledger) ListByGuest(ctx context.Context, guestID int64) ([]model.Booking, error) {
	return l.repo.List(ctx, Filter{GuestID: guestID})
}

// Events returns the status history of a booking, oldest first.
func (l *Ledger) Events(ctx context.Context, id int64) ([]model.BookingEvent, error) {
	return l.repo.Events(ctx, id)
}
