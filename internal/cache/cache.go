// Package cache keeps recently served day note lists in memory, keyed by
// date key. Entries are invalidated whenever a note is created for that day
// and cleared when the note store is replaced wholesale.
package cache

import (
	"container/list"
	"sync"
	"time"

	"ejournal/internal/models"
)

const MaxCacheSize = 150

type cacheEntry struct {
	key       string
	notes     []models.Note
	timestamp time.Time
}

type Cache struct {
	mu      sync.RWMutex
	items   map[string]*list.Element
	order   *list.List
	maxSize int
}

func New() *Cache {
	return &Cache{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		maxSize: MaxCacheSize,
	}
}

func (c *Cache) Get(dateKey string) ([]models.Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if elem, ok := c.items[dateKey]; ok {
		entry := elem.Value.(*cacheEntry)
		return entry.notes, true
	}
	return nil, false
}

func (c *Cache) Set(dateKey string, notes []models.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[dateKey]; ok {
		c.order.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.notes = notes
		entry.timestamp = time.Now()
		return
	}

	if c.order.Len() >= c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			entry := oldest.Value.(*cacheEntry)
			delete(c.items, entry.key)
			c.order.Remove(oldest)
		}
	}

	entry := &cacheEntry{
		key:       dateKey,
		notes:     notes,
		timestamp: time.Now(),
	}
	elem := c.order.PushFront(entry)
	c.items[dateKey] = elem
}

func (c *Cache) Invalidate(dateKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[dateKey]; ok {
		delete(c.items, dateKey)
		c.order.Remove(elem)
	}
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order = list.New()
}
