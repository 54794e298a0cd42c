// Package nav builds the site navigation and the classification picker from
// the classification table, caching the list in memory.
package nav

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"cse_motors/internal/model"
)

// Lister is the store call the cache is filled from.
type Lister interface {
	List(ctx context.Context) ([]model.Classification, error)
}

// Item is one navigation link.
type Item struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Option is one entry of a classification <select>.
type Option struct {
	ID       int    `json:"classification_id"`
	Name     string `json:"classification_name"`
	Selected bool   `json:"selected"`
}

// Builder serves navigation data from a TTL cache.
type Builder struct {
	lister Lister
	ttl    time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	cached    []model.Classification
	fetchedAt time.Time
	// gen counts invalidations; a fetch started under an older gen is not stored.
	gen uint64
}

// NewBuilder creates a Builder. A non-positive ttl disables caching.
func NewBuilder(lister Lister, ttl time.Duration) *Builder {
	return &Builder{lister: lister, ttl: ttl, now: time.Now}
}

func (b *Builder) classifications(ctx context.Context) ([]model.Classification, error) {
	b.mu.RLock()
	if b.cached != nil && b.ttl > 0 && b.now().Sub(b.fetchedAt) < b.ttl {
		list := b.cached
		b.mu.RUnlock()
		return list, nil
	}
	gen := b.gen
	b.mu.RUnlock()

	list, err := b.lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifications: %w", err)
	}
	if list == nil {
		list = []model.Classification{}
	}

	b.mu.Lock()
	if b.gen == gen {
		b.cached = list
		b.fetchedAt = b.now()
	}
	b.mu.Unlock()
	return list, nil
}

// Invalidate drops the cached list; call after classifications change.
func (b *Builder) Invalidate() {
	b.mu.Lock()
	b.cached = nil
	b.gen++
	b.mu.Unlock()
}

// Nav returns the Home link followed by one link per classification.
func (b *Builder) Nav(ctx context.Context) ([]Item, error) {
	list, err := b.classifications(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(list)+1)
	items = append(items, Item{Name: "Home", URL: "/"})
	for _, c := range list {
		items = append(items, Item{Name: c.Name, URL: "/inv/type/" + strconv.Itoa(c.ID)})
	}
	return items, nil
}

// ClassificationList returns picker options with selectedID marked.
func (b *Builder) ClassificationList(ctx context.Context, selectedID int) ([]Option, error) {
	list, err := b.classifications(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(list))
	for _, c := range list {
		options = append(options, Option{ID: c.ID, Name: c.Name, Selected: c.ID == selectedID})
	}
	return options, nil
}
