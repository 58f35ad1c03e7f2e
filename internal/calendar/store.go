// Package calendar stores the per-property, per-date availability status.
// It knows nothing about bookings.
package calendar

import (
	"context"
	"fmt"
	"sync"

	"staysphere-backend/internal/apperror"
	"staysphere-backend/internal/model"
)

// MaxRangeDays bounds a single read or write so a malformed request cannot
// expand into an unbounded number of rows.
const MaxRangeDays = 732

// Store defines the calendar persistence operations.
type Store interface {
	// Get returns one record per date in [start, endInclusive] in date order.
	// Dates without a stored record are reported as available.
	Get(ctx context.Context, propertyID int64, start, endInclusive model.Date) ([]model.AvailabilityRecord, error)
	// Set upserts the status of a single date.
	Set(ctx context.Context, propertyID int64, date model.Date, status model.AvailabilityStatus) error
	// SetRange upserts every date in [start, endInclusive]. Either all dates
	// are written or none are.
	SetRange(ctx context.Context, propertyID int64, start, endInclusive model.Date, status model.AvailabilityStatus) error
}

// ValidateRange checks a closed date interval.
func ValidateRange(start, endInclusive model.Date) error {
	if start.IsZero() || endInclusive.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", apperror.ErrInvalidRange)
	}
	if endInclusive.Before(start) {
		return fmt.Errorf("%w: end %s is before start %s", apperror.ErrInvalidRange, endInclusive, start)
	}
	if start.DaysUntil(endInclusive) >= MaxRangeDays {
		return fmt.Errorf("%w: range exceeds %d days", apperror.ErrInvalidRange, MaxRangeDays)
	}
	return nil
}

func validateStatus(status model.AvailabilityStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown availability status %q", apperror.ErrInvalidInput, status)
	}
	return nil
}

// fill expands stored records into one record per date of the range.
func fill(propertyID int64, start, endInclusive model.Date, stored map[model.Date]model.AvailabilityStatus) []model.AvailabilityRecord {
	records := make([]model.AvailabilityRecord, 0, start.DaysUntil(endInclusive)+1)
	for d := start; !d.After(endInclusive); d = d.AddDays(1) {
		status, ok := stored[d]
		if !ok {
			status = model.StatusAvailable
		}
		records = append(records, model.AvailabilityRecord{PropertyID: propertyID, Date: d, Status: status})
	}
	return records
}

// memoryStore keeps the calendar in process memory.
type memoryStore struct {
	mu   sync.RWMutex
	days map[int64]map[model.Date]model.AvailabilityStatus
}

// NewMemoryStore creates an empty in-memory calendar.
func NewMemoryStore() Store {
	return &memoryStore{days: make(map[int64]map[model.Date]model.AvailabilityStatus)}
}

func (s *memoryStore) Get(_ context.Context, propertyID int64, start, endInclusive model.Date) ([]model.AvailabilityRecord, error) {
	if err := ValidateRange(start, endInclusive); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return fill(propertyID, start, endInclusive, s.days[propertyID]), nil
}

func (s *memoryStore) Set(ctx context.Context, propertyID int64, date model.Date, status model.AvailabilityStatus) error {
	return s.SetRange(ctx, propertyID, date, date, status)
}

func (s *memoryStore) SetRange(_ context.Context, propertyID int64, start, endInclusive model.Date, status model.AvailabilityStatus) error {
	if err := ValidateRange(start, endInclusive); err != nil {
		return err
	}
	if err := validateStatus(status); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	days, ok := s.days[propertyID]
	if !ok {
		days = make(map[model.Date]model.AvailabilityStatus)
		s.days[propertyID] = days
	}
	for d := start; !d.After(endInclusive); d = d.AddDays(1) {
		days[d] = status
	}
	return nil
}
