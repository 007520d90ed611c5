package character

import (
	"slices"
	"sync"

	"github.com/KirkDiggler/charforge/internal/entities"
)

const defaultResultCacheSize = 512

// resultCache keeps the latest validation result per draft. The oldest
// draft is evicted once limit is reached.
type resultCache struct {
	mu      sync.Mutex
	limit   int
	order   []string
	results map[string]*entities.ValidationResult
}

func newResultCache(limit int) *resultCache {
	if limit < 1 {
		limit = defaultResultCacheSize
	}
	return &resultCache{
		limit:   limit,
		results: make(map[string]*entities.ValidationResult),
	}
}

func (c *resultCache) get(draftID string) (*entities.ValidationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.results[draftID]
	return result, ok
}

func (c *resultCache) put(draftID string, result *entities.ValidationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.results[draftID]; ok {
		c.order = slices.DeleteFunc(c.order, func(id string) bool { return id == draftID })
	}
	c.results[draftID] = result
	c.order = append(c.order, draftID)

	for len(c.order) > c.limit {
		delete(c.results, c.order[0])
		c.order = c.order[1:]
	}
}

func (c *resultCache) forget(draftID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.results[draftID]; !ok {
		return
	}
	delete(c.results, draftID)
	c.order = slices.DeleteFunc(c.order, func(id string) bool { return id == draftID })
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}
