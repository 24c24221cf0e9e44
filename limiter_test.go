package sheetmirror

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock drives a limiter without real sleeping.
type testClock struct {
	now   time.Time
	slept []time.Duration
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(1000, 0)}
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

func newTestLimiter(q Quota) (*limiter, *testClock) {
	clock := newTestClock()
	l := &limiter{
		quota: [2]Quota{classRead: q, classWrite: q},
		now:   clock.Now,
		sleep: clock.Sleep,
	}
	l.windowEnds[classRead] = clock.now.Add(q.Window)
	l.windowEnds[classWrite] = clock.now.Add(q.Window)
	return l, clock
}

func TestLimiter_UnderQuotaNeverBlocks(t *testing.T) {
	l, clock := newTestLimiter(Quota{Limit: 10, Window: 100 * time.Second})
	for i := 0; i < 8; i++ { // limit - slack
		l.permit(classRead)
	}
	assert.Empty(t, clock.slept)
}

func TestLimiter_BlocksAtQuota(t *testing.T) {
	l, clock := newTestLimiter(Quota{Limit: 10, Window: 100 * time.Second})
	for i := 0; i < 8; i++ {
		l.permit(classRead)
	}
	clock.now = clock.now.Add(40 * time.Second)
	l.permit(classRead)

	require.Len(t, clock.slept, 1)
	assert.Equal(t, 60*time.Second, clock.slept[0])
	assert.LessOrEqual(t, clock.slept[0], 100*time.Second)
	// The blocking call opened a fresh window with itself as call one.
	assert.Equal(t, 1, l.count[classRead])
}

func TestLimiter_NoSleepWhenWindowAlreadyPassed(t *testing.T) {
	l, clock := newTestLimiter(Quota{Limit: 10, Window: 100 * time.Second})
	for i := 0; i < 8; i++ {
		l.permit(classRead)
	}
	clock.now = clock.now.Add(200 * time.Second)
	l.permit(classRead)

	assert.Empty(t, clock.slept)
	assert.Equal(t, 1, l.count[classRead])
	assert.Equal(t, clock.now.Add(100*time.Second), l.windowEnds[classRead])
}

func TestLimiter_ClassesAreIndependent(t *testing.T) {
	l, clock := newTestLimiter(Quota{Limit: 10, Window: 100 * time.Second})
	for i := 0; i < 8; i++ {
		l.permit(classRead)
	}
	for i := 0; i < 8; i++ {
		l.permit(classWrite)
	}
	assert.Empty(t, clock.slept)
}

func TestLimiter_DefaultQuota(t *testing.T) {
	q := DefaultQuota()
	assert.Equal(t, 100, q.Limit)
	assert.Equal(t, 100*time.Second, q.Window)
}
