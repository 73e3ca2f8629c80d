package memcadm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatsCollector(t *testing.T) {
	c := newSessionStatsCollector()

	c.recordGet(true)
	c.recordGet(false)
	c.recordStore()
	c.recordDelete()
	c.recordTouch()
	c.recordArithmetic()
	c.recordQuery()
	c.recordReconnect()
	c.recordError()

	stats := c.snapshot()
	assert.Equal(t, uint64(2), stats.Gets)
	assert.Equal(t, uint64(1), stats.GetHits)
	assert.Equal(t, uint64(1), stats.Stores)
	assert.Equal(t, uint64(1), stats.Deletes)
	assert.Equal(t, uint64(1), stats.Touches)
	assert.Equal(t, uint64(1), stats.Arithmetic)
	assert.Equal(t, uint64(1), stats.Queries)
	assert.Equal(t, uint64(1), stats.Reconnects)
	assert.Equal(t, uint64(1), stats.Errors)
}

func TestSessionStatsSnapshotIsCopy(t *testing.T) {
	c := newSessionStatsCollector()
	c.recordGet(true)

	before := c.snapshot()
	c.recordGet(true)

	assert.Equal(t, uint64(1), before.Gets)
	assert.Equal(t, uint64(2), c.snapshot().Gets)
}
