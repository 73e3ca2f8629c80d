package memcadm

import "sync/atomic"

// SessionStats contains client-side counters for one DataSource session.
// All fields are safe for concurrent access.
type SessionStats struct {
	Gets       uint64 // Total Get operations
	GetHits    uint64 // Get operations that found the key
	Stores     uint64 // Total storage operations (set/add/replace/append/prepend)
	Deletes    uint64 // Total Delete operations
	Touches    uint64 // Total Touch operations
	Arithmetic uint64 // Total Incr/Decr operations
	Queries    uint64 // Total raw Query operations
	Reconnects uint64 // Automatic reconnects after a dropped connection
	Errors     uint64 // Total errors across all operations
}

// sessionStatsCollector provides internal methods for updating session stats.
// Not exported - the DataSource updates its own stats.
type sessionStatsCollector struct {
	stats *SessionStats
}

func newSessionStatsCollector() *sessionStatsCollector {
	return &sessionStatsCollector{
		stats: &SessionStats{},
	}
}

func (c *sessionStatsCollector) recordGet(hit bool) {
	atomic.AddUint64(&c.stats.Gets, 1)
	if hit {
		atomic.AddUint64(&c.stats.GetHits, 1)
	}
}

func (c *sessionStatsCollector) recordStore() {
	atomic.AddUint64(&c.stats.Stores, 1)
}

func (c *sessionStatsCollector) recordDelete() {
	atomic.AddUint64(&c.stats.Deletes, 1)
}

func (c *sessionStatsCollector) recordTouch() {
	atomic.AddUint64(&c.stats.Touches, 1)
}

func (c *sessionStatsCollector) recordArithmetic() {
	atomic.AddUint64(&c.stats.Arithmetic, 1)
}

func (c *sessionStatsCollector) recordQuery() {
	atomic.AddUint64(&c.stats.Queries, 1)
}

func (c *sessionStatsCollector) recordReconnect() {
	atomic.AddUint64(&c.stats.Reconnects, 1)
}

func (c *sessionStatsCollector) recordError() {
	atomic.AddUint64(&c.stats.Errors, 1)
}

func (c *sessionStatsCollector) snapshot() SessionStats {
	return SessionStats{
		Gets:       atomic.LoadUint64(&c.stats.Gets),
		GetHits:    atomic.LoadUint64(&c.stats.GetHits),
		Stores:     atomic.LoadUint64(&c.stats.Stores),
		Deletes:    atomic.LoadUint64(&c.stats.Deletes),
		Touches:    atomic.LoadUint64(&c.stats.Touches),
		Arithmetic: atomic.LoadUint64(&c.stats.Arithmetic),
		Queries:    atomic.LoadUint64(&c.stats.Queries),
		Reconnects: atomic.LoadUint64(&c.stats.Reconnects),
		Errors:     atomic.LoadUint64(&c.stats.Errors),
	}
}
