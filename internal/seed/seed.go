// Package seed loads fixture hosts, guests, properties and host-blocked
// dates into the database.
package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staysphere-backend/internal/calendar"
	"staysphere-backend/internal/model"
)

// Fixtures is the layout of a seed file.
type Fixtures struct {
	Hosts        []model.Host       `yaml:"hosts"`
	Guests       []model.Guest      `yaml:"guests"`
	Properties   []model.Property   `yaml:"properties"`
	Availability []AvailabilitySpan `yaml:"availability"`
}

// AvailabilitySpan sets status on every date of [Start, End].
type AvailabilitySpan struct {
	PropertyID int64                    `yaml:"property_id"`
	Start      string                   `yaml:"start"`
	End        string                   `yaml:"end"`
	Status     model.AvailabilityStatus `yaml:"status"`
}

// Read parses a seed file.
func Read(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &f, nil
}

// Apply upserts the fixtures. Directory rows are written in one transaction;
// availability spans go through store so they follow calendar validation.
func Apply(ctx context.Context, db *gorm.DB, store calendar.Store, f *Fixtures) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, f.Hosts, "name", "email", "updated_at"); err != nil {
			return fmt.Errorf("failed to seed hosts: %w", err)
		}
		if err := upsert(tx, f.Guests, "name", "email", "updated_at"); err != nil {
			return fmt.Errorf("failed to seed guests: %w", err)
		}
		if err := upsert(tx, f.Properties, "host_id", "title", "location", "max_guests", "price_per_night", "updated_at"); err != nil {
			return fmt.Errorf("failed to seed properties: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, span := range f.Availability {
		start, err := model.ParseDate(span.Start)
		if err != nil {
			return fmt.Errorf("property %d: %w", span.PropertyID, err)
		}
		end, err := model.ParseDate(span.End)
		if err != nil {
			return fmt.Errorf("property %d: %w", span.PropertyID, err)
		}
		if err := store.SetRange(ctx, span.PropertyID, start, end, span.Status); err != nil {
			return fmt.Errorf("failed to seed availability of property %d: %w", span.PropertyID, err)
		}
	}
	return nil
}

func upsert[T any](tx *gorm.DB, rows []T, columns ...string) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&rows).Error
}
