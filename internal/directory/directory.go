// Package directory provides read-only lookups of properties, hosts and guests.
package directory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"staysphere-backend/internal/apperror"
	"staysphere-backend/internal/model"
)

// Directory resolves the collaborators a booking refers to.
type Directory interface {
	Property(ctx context.Context, id int64) (model.Property, error)
	Properties(ctx context.Context) ([]model.Property, error)
	Host(ctx context.Context, id int64) (model.Host, error)
	Guest(ctx context.Context, id int64) (model.Guest, error)
}

// gormDirectory reads from the database and caches single-row lookups.
type gormDirectory struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewGormDirectory creates a database-backed directory whose lookups are
// cached for ttl.
func NewGormDirectory(db *gorm.DB, ttl time.Duration) Directory {
	return &gormDirectory{
		db:    db,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (g *gormDirectory) Property(ctx context.Context, id int64) (model.Property, error) {
	return lookup[model.Property](ctx, g, "property", id)
}

func (g *gormDirectory) Host(ctx context.Context, id int64) (model.Host, error) {
	return lookup[model.Host](ctx, g, "host", id)
}

func (g *gormDirectory) Guest(ctx context.Context, id int64) (model.Guest, error) {
	return lookup[model.Guest](ctx, g, "guest", id)
}

func (g *gormDirectory) Properties(ctx context.Context) ([]model.Property, error) {
	var properties []model.Property
	if err := g.db.WithContext(ctx).Order("id ASC").Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func lookup[T any](ctx context.Context, g *gormDirectory, kind string, id int64) (T, error) {
	key := fmt.Sprintf("%s:%d", kind, id)
	if cached, found := g.cache.Get(key); found {
		return cached.(T), nil
	}

	var row T
	err := g.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, fmt.Errorf("%w: %s %d", apperror.ErrNotFound, kind, id)
	}
	if err != nil {
		return row, fmt.Errorf("failed to look up %s %d: %w", kind, id, err)
	}

	g.cache.SetDefault(key, row)
	return row, nil
}

// memoryDirectory serves fixed records, mainly for tests.
type memoryDirectory struct {
	properties map[int64]model.Property
	hosts      map[int64]model.Host
	guests     map[int64]model.Guest
}

// NewMemoryDirectory creates a directory over the given records.
func NewMemoryDirectory(properties []model.Property, hosts []model.Host, guests []model.Guest) Directory {
	m := &memoryDirectory{
		properties: make(map[int64]model.Property, len(properties)),
		hosts:      make(map[int64]model.Host, len(hosts)),
		guests:     make(map[int64]model.Guest, len(guests)),
	}
	for _, p := range properties {
		m.properties[p.ID] = p
	}
	for _, h := range hosts {
		m.hosts[h.ID] = h
	}
	for _, g := range guests {
		m.guests[g.ID] = g
	}
	return m
}

func (m *memoryDirectory) Property(_ context.Context, id int64) (model.Property, error) {
	p, ok := m.properties[id]
	if !ok {
		return p, fmt.Errorf("%w: property %d", apperror.ErrNotFound, id)
	}
	return p, nil
}

func (m *memoryDirectory) Properties(_ context.Context) ([]model.Property, error) {
	out := make([]model.Property, 0, len(m.properties))
	for _, p := range m.properties {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryDirectory) Host(_ context.Context, id int64) (model.Host, error) {
	h, ok := m.hosts[id]
	if !ok {
		return h, fmt.Errorf("%w: host %d", apperror.ErrNotFound, id)
	}
	return h, nil
}

func (m *memoryDirectory) Guest(_ context.Context, id int64) (model.Guest, error) {
	g, ok := m.guests[id]
	if !ok {
		return g, fmt.Errorf("%w: guest %d", apperror.ErrNotFound, id)
	}
	return g, nil
}
