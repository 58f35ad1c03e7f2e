// Package parse turns raw request input into typed values.
package parse

import (
	"fmt"
	"strconv"
	"strings"

	"staysphere-backend/internal/apperror"
	"staysphere-backend/internal/model"
)

// ID parses a positive decimal identifier.
func ID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", apperror.ErrInvalidInput, name, raw)
	}
	return id, nil
}

// Date parses a required YYYY-MM-DD value.
func Date(raw, name string) (model.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Date{}, fmt.Errorf("%w: %s is required", apperror.ErrInvalidRange, name)
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", apperror.ErrInvalidRange, name, raw)
	}
	return d, nil
}

// BookingStatus parses a lifecycle status name, case-insensitively.
func BookingStatus(raw string) (model.BookingStatus, error) {
	s := model.BookingStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case model.BookingPending, model.BookingConfirmed, model.BookingDeclined, model.BookingCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown booking status %q", apperror.ErrInvalidInput, raw)
}

// AvailabilityStatus parses a calendar status name, case-insensitively.
func AvailabilityStatus(raw string) (model.AvailabilityStatus, error) {
	s := model.AvailabilityStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown availability status %q", apperror.ErrInvalidInput, raw)
	}
	return s, nil
}
