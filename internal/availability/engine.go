// Package availability answers whether a stay fits a property's calendar and
// performs the calendar side of reservations.
package availability

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"staysphere-backend/internal/apperror"
	"staysphere-backend/internal/calendar"
	"staysphere-backend/internal/keylock"
	"staysphere-backend/internal/model"
)

// Engine serializes every calendar read and write of a property behind that
// property's lock. Different properties never contend.
type Engine struct {
	store calendar.Store
	locks *keylock.Map[int64]
	log   zerolog.Logger
}

// NewEngine creates an engine over the given calendar store.
func NewEngine(store calendar.Store, log zerolog.Logger) *Engine {
	return &Engine{
		store: store,
		locks: keylock.New[int64](),
		log:   log,
	}
}

// ValidateStay checks a half-open stay interval [checkIn, checkOut).
func ValidateStay(checkIn, checkOut model.Date) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return fmt.Errorf("%w: check-in and check-out are required", apperror.ErrInvalidRange)
	}
	if !checkOut.After(checkIn) {
		return fmt.Errorf("%w: check-out %s must be after check-in %s", apperror.ErrInvalidRange, checkOut, checkIn)
	}
	return nil
}

// IsRangeFree reports whether every night in [checkIn, checkOut) is available.
// The check-out day itself is not consumed.
func (e *Engine) IsRangeFree(ctx context.Context, propertyID int64, checkIn, checkOut model.Date) (bool, error) {
	if err := ValidateStay(checkIn, checkOut); err != nil {
		return false, err
	}

	unlock := e.locks.Lock(propertyID)
	defer unlock()

	return e.isFree(ctx, propertyID, checkIn, checkOut)
}

func (e *Engine) isFree(ctx context.Context, propertyID int64, checkIn, checkOut model.Date) (bool, error) {
	records, err := e.store.Get(ctx, propertyID, checkIn, checkOut.AddDays(-1))
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.Status != model.StatusAvailable {
			return false, nil
		}
	}
	return true, nil
}

// Reserve re-checks [checkIn, checkOut) and marks it booked in one step.
func (e *Engine) Reserve(ctx context.Context, propertyID int64, checkIn, checkOut model.Date) error {
	if err := ValidateStay(checkIn, checkOut); err != nil {
		return err
	}

	unlock := e.locks.Lock(propertyID)
	defer unlock()

	free, err := e.isFree(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return err
	}
	if !free {
		return fmt.Errorf("%w: property %d from %s to %s", apperror.ErrNotAvailable, propertyID, checkIn, checkOut)
	}

	if err := e.store.SetRange(ctx, propertyID, checkIn, checkOut.AddDays(-1), model.StatusBooked); err != nil {
		return fmt.Errorf("failed to mark dates booked: %w", err)
	}
	e.log.Debug().Int64("property_id", propertyID).
		Stringer("check_in", checkIn).Stringer("check_out", checkOut).
		Msg("dates reserved")
	return nil
}

// Release marks [checkIn, checkOut) available again.
func (e *Engine) Release(ctx context.Context, propertyID int64, checkIn, checkOut model.Date) error {
	if err := ValidateStay(checkIn, checkOut); err != nil {
		return err
	}

	unlock := e.locks.Lock(propertyID)
	defer unlock()

	if err := e.store.SetRange(ctx, propertyID, checkIn, checkOut.AddDays(-1), model.StatusAvailable); err != nil {
		return fmt.Errorf("failed to release dates: %w", err)
	}
	e.log.Debug().Int64("property_id", propertyID).
		Stringer("check_in", checkIn).Stringer("check_out", checkOut).
		Msg("dates released")
	return nil
}

// Calendar returns the property's records for [start, endInclusive].
func (e *Engine) Calendar(ctx context.Context, propertyID int64, start, endInclusive model.Date) ([]model.AvailabilityRecord, error) {
	unlock := e.locks.Lock(propertyID)
	defer unlock()

	return e.store.Get(ctx, propertyID, start, endInclusive)
}

// SetAvailability applies a host's calendar edit to [start, endInclusive].
// Hosts may open or close dates but never create or overwrite a booked date;
// those only change through reservations.
func (e *Engine) SetAvailability(ctx context.Context, propertyID int64, start, endInclusive model.Date, status model.AvailabilityStatus) error {
	if status != model.StatusAvailable && status != model.StatusUnavailable {
		return fmt.Errorf("%w: hosts may only set dates available or unavailable", apperror.ErrInvalidInput)
	}
	if err := calendar.ValidateRange(start, endInclusive); err != nil {
		return err
	}

	unlock := e.locks.Lock(propertyID)
	defer unlock()

	records, err := e.store.Get(ctx, propertyID, start, endInclusive)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.Status == model.StatusBooked {
			return fmt.Errorf("%w: %s is booked", apperror.ErrNotAvailable, r.Date)
		}
	}
	return e.store.SetRange(ctx, propertyID, start, endInclusive, status)
}
