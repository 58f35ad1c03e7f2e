package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"staysphere-backend/internal/apperror"
	"staysphere-backend/internal/model"
)

func TestGormDirectory(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, db.AutoMigrate(&model.Host{}, &model.Guest{}, &model.Property{}))
	require.NoError(t, db.Create(&model.Host{ID: 1, Name: "Maya"}).Error)
	require.NoError(t, db.Create(&model.Guest{ID: 5, Name: "Leo", Email: "leo@example.com"}).Error)
	require.NoError(t, db.Create(&model.Property{ID: 10, HostID: 1, Title: "Cliff House", MaxGuests: 4, PricePerNight: 12000}).Error)

	ctx := context.Background()
	dir := NewGormDirectory(db, time.Minute)

	p, err := dir.Property(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Cliff House", p.Title)
	assert.Equal(t, 4, p.MaxGuests)

	// Cached lookups survive changes to the underlying row until they expire.
	require.NoError(t, db.Model(&model.Property{}).Where("id = ?", 10).Update("title", "Renamed").Error)
	p, err = dir.Property(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Cliff House", p.Title)

	g, err := dir.Guest(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "leo@example.com", g.Email)

	h, err := dir.Host(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Maya", h.Name)

	_, err = dir.Host(ctx, 99)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	all, err := dir.Properties(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryDirectory(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory(
		[]model.Property{{ID: 2, HostID: 1}, {ID: 1, HostID: 1}},
		[]model.Host{{ID: 1, Name: "Maya"}},
		nil,
	)

	all, err := dir.Properties(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)

	_, err = dir.Guest(ctx, 1)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
