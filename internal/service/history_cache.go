package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
)

// historyCache memoizes SumAssignedDays results per (team scope, shift
// type, history window) triple — one entry per shift type, since each
// carries its own fairness-weighted total. A high-traffic team scope
// repeatedly previewing the same horizon would otherwise re-scan the shift
// table once per shift type on every call.
type historyCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]historyCacheEntry
}

type historyCacheEntry struct {
	days       map[entity.EmployeeID]float64
	computedAt time.Time
}

func newHistoryCache(ttl time.Duration) *historyCache {
	return &historyCache{ttl: ttl, entries: make(map[string]historyCacheEntry)}
}

func historyCacheKey(teamScope string, shiftType entity.ShiftTypeID, start, end time.Time) string {
	return fmt.Sprintf("%s|%s|%s|%s", teamScope, shiftType, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
}

func (c *historyCache) get(teamScope string, shiftType entity.ShiftTypeID, start, end time.Time) (map[entity.EmployeeID]float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[historyCacheKey(teamScope, shiftType, start, end)]
	if !ok || entity.Now().Sub(entry.computedAt) > c.ttl {
		return nil, false
	}
	return entry.days, true
}

func (c *historyCache) set(teamScope string, shiftType entity.ShiftTypeID, start, end time.Time, days map[entity.EmployeeID]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[historyCacheKey(teamScope, shiftType, start, end)] = historyCacheEntry{days: days, computedAt: entity.Now()}
}
