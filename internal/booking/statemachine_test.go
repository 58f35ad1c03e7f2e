package booking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"staysphere-backend/internal/apperror"
	"staysphere-backend/internal/model"
)

func TestCanTransition(t *testing.T) {
	statuses := []model.BookingStatus{model.BookingPending, model.BookingConfirmed, model.BookingDeclined, model.BookingCancelled}
	legal := map[[2]model.BookingStatus]bool{
		{model.BookingPending, model.BookingConfirmed}:   true,
		{model.BookingPending, model.BookingDeclined}:    true,
		{model.BookingConfirmed, model.BookingCancelled}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			assert.Equal(t, legal[[2]model.BookingStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, Terminal(model.BookingPending))
	assert.False(t, Terminal(model.BookingConfirmed))
	assert.True(t, Terminal(model.BookingDeclined))
	assert.True(t, Terminal(model.BookingCancelled))
}

func TestCheckTransition(t *testing.T) {
	pending := model.Booking{ID: 42, HostID: 1, GuestID: 100, Status: model.BookingPending}
	confirmed := pending
	confirmed.Status = model.BookingConfirmed

	testCases := []struct {
		name    string
		booking model.Booking
		target  model.BookingStatus
		actor   Actor
		wantErr error
	}{
		{name: "host confirms own booking", booking: pending, target: model.BookingConfirmed, actor: Actor{RoleHost, 1}},
		{name: "host declines own booking", booking: pending, target: model.BookingDeclined, actor: Actor{RoleHost, 1}},
		{name: "system declines", booking: pending, target: model.BookingDeclined, actor: SystemActor},
		{name: "guest cancels", booking: confirmed, target: model.BookingCancelled, actor: Actor{RoleGuest, 100}},
		{name: "host cancels", booking: confirmed, target: model.BookingCancelled, actor: Actor{RoleHost, 1}},
		{name: "other host confirms", booking: pending, target: model.BookingConfirmed, actor: Actor{RoleHost, 2}, wantErr: apperror.ErrPermissionDenied},
		{name: "guest confirms", booking: pending, target: model.BookingConfirmed, actor: Actor{RoleGuest, 100}, wantErr: apperror.ErrPermissionDenied},
		{name: "system confirms", booking: pending, target: model.BookingConfirmed, actor: SystemActor, wantErr: apperror.ErrPermissionDenied},
		{name: "other guest cancels", booking: confirmed, target: model.BookingCancelled, actor: Actor{RoleGuest, 101}, wantErr: apperror.ErrPermissionDenied},
		{name: "cancel pending", booking: pending, target: model.BookingCancelled, actor: Actor{RoleGuest, 100}, wantErr: apperror.ErrInvalidTransition},
		{name: "confirm twice", booking: confirmed, target: model.BookingConfirmed, actor: Actor{RoleHost, 1}, wantErr: apperror.ErrInvalidTransition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkTransition(tc.booking, tc.target, tc.actor)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestActorString(t *testing.T) {
	assert.Equal(t, "host:3", Actor{Role: RoleHost, ID: 3}.String())
	assert.Equal(t, "guest:7", Actor{Role: RoleGuest, ID: 7}.String())
	assert.Equal(t, "system", SystemActor.String())
}
