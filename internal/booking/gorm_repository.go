package booking

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"staysphere-backend/internal/apperror"
	"staysphere-backend/internal/model"
)

// gormRepository implements Repository using GORM.
type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-backed booking repository.
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		ev := createdEvent(*b)
		if err := tx.Create(&ev).Error; err != nil {
			return fmt.Errorf("failed to record booking %d creation: %w", b.ID, err)
		}
		return nil
	})
}

func (r *gormRepository) Get(ctx context.Context, id int64) (model.Booking, error) {
	return getBooking(r.db.WithContext(ctx), id)
}

func getBooking(db *gorm.DB, id int64) (model.Booking, error) {
	var b model.Booking
	err := db.First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return b, fmt.Errorf("%w: booking %d", apperror.ErrNotFound, id)
	}
	if err != nil {
		return b, fmt.Errorf("failed to fetch booking %d: %w", id, err)
	}
	return b, nil
}

func (r *gormRepository) List(ctx context.Context, f Filter) ([]model.Booking, error) {
	q := r.db.WithContext(ctx).Model(&model.Booking{})
	if f.PropertyID != 0 {
		q = q.Where("property_id = ?", f.PropertyID)
	}
	if f.HostID != 0 {
		q = q.Where("host_id = ?", f.HostID)
	}
	if f.GuestID != 0 {
		q = q.Where("guest_id = ?", f.GuestID)
	}

	bookings := make([]model.Booking, 0)
	if err := q.Order("check_in ASC").Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, c StatusChange) (model.Booking, error) {
	var updated model.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Booking{}).
			Where("id = ? AND status = ?", c.BookingID, c.From).
			Updates(map[string]any{
				"status":         c.To,
				"decline_reason": c.Reason,
				"updated_at":     c.At,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update booking %d: %w", c.BookingID, res.Error)
		}
		if res.RowsAffected == 0 {
			current, err := getBooking(tx, c.BookingID)
			if err != nil {
				return err
			}
			updated = current
			return staleStatusError(c.BookingID, c.From, current.Status)
		}

		ev := model.BookingEvent{BookingID: c.BookingID, From: c.From, To: c.To, Reason: c.Reason, Actor: c.Actor, At: c.At}
		if err := tx.Create(&ev).Error; err != nil {
			return fmt.Errorf("failed to record booking %d event: %w", c.BookingID, err)
		}

		var err error
		updated, err = getBooking(tx, c.BookingID)
		return err
	})
	return updated, err
}

func (r *gormRepository) Events(ctx context.Context, bookingID int64) ([]model.BookingEvent, error) {
	if _, err := r.Get(ctx, bookingID); err != nil {
		return nil, err
	}

	events := make([]model.BookingEvent, 0)
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("occurred_at ASC").Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch events for booking %d: %w", bookingID, err)
	}
	return events, nil
}
