package calendar

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staysphere-backend/internal/model"
)

// gormStore implements Store on top of the availability_records table.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed calendar store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Get(ctx context.Context, propertyID int64, start, endInclusive model.Date) ([]model.AvailabilityRecord, error) {
	if err := ValidateRange(start, endInclusive); err != nil {
		return nil, err
	}

	var rows []model.AvailabilityRecord
	if err := s.db.WithContext(ctx).
		Where("property_id = ? AND date >= ? AND date <= ?", propertyID, start, endInclusive).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch availability for property %d: %w", propertyID, err)
	}

	stored := make(map[model.Date]model.AvailabilityStatus, len(rows))
	for _, r := range rows {
		stored[r.Date] = r.Status
	}
	return fill(propertyID, start, endInclusive, stored), nil
}

func (s *gormStore) Set(ctx context.Context, propertyID int64, date model.Date, status model.AvailabilityStatus) error {
	return s.SetRange(ctx, propertyID, date, date, status)
}

func (s *gormStore) SetRange(ctx context.Context, propertyID int64, start, endInclusive model.Date, status model.AvailabilityStatus) error {
	if err := ValidateRange(start, endInclusive); err != nil {
		return err
	}
	if err := validateStatus(status); err != nil {
		return err
	}

	now := time.Now().UTC()
	records := make([]model.AvailabilityRecord, 0, start.DaysUntil(endInclusive)+1)
	for d := start; !d.After(endInclusive); d = d.AddDays(1) {
		records = append(records, model.AvailabilityRecord{
			PropertyID: propertyID,
			Date:       d,
			Status:     status,
			UpdatedAt:  now,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return batchUpsertRecords(tx, records)
	})
}

func batchUpsertRecords(tx *gorm.DB, records []model.AvailabilityRecord) error {
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "property_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&records).Error; err != nil {
		return fmt.Errorf("batch upsert availability failed: %w", err)
	}
	return nil
}
