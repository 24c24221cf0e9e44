package sheetmirror

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Quota is a call budget per window for one operation class.
type Quota struct {
	Limit  int
	Window time.Duration
}

// Default remote quotas: 100 calls per 100 seconds for each class.
const (
	DefaultQuotaLimit  = 100
	DefaultQuotaWindow = 100 * time.Second
)

// quotaSlack is headroom kept under the limit so a racing call on the
// service side cannot push us over.
const quotaSlack = 2

// DefaultQuota returns the default per-class quota.
func DefaultQuota() Quota {
	return Quota{Limit: DefaultQuotaLimit, Window: DefaultQuotaWindow}
}

type opClass int

const (
	classRead opClass = iota
	classWrite
)

func (c opClass) String() string {
	if c == classWrite {
		return "write"
	}
	return "read"
}

// limiter tracks a sliding call window per operation class and stalls the
// caller when the next call would cross the quota. It is not safe for
// concurrent use; the mirror is driven by a single owner.
type limiter struct {
	quota      [2]Quota
	count      [2]int
	windowEnds [2]time.Time

	// injectable for tests
	now   func() time.Time
	sleep func(time.Duration)
}

func newLimiter(read, write Quota) *limiter {
	l := &limiter{
		quota: [2]Quota{classRead: read, classWrite: write},
		now:   time.Now,
		sleep: time.Sleep,
	}
	l.windowEnds[classRead] = l.now().Add(read.Window)
	l.windowEnds[classWrite] = l.now().Add(write.Window)
	return l
}

// permit accounts one call of the given class. The first limit-slack calls
// of a window return immediately; the next call sleeps until the window
// expiry, then opens a fresh window counting itself as its first call.
// The stall is an intentional wait, not an error.
func (l *limiter) permit(c opClass) {
	l.count[c]++
	if l.count[c] <= l.quota[c].Limit-quotaSlack {
		return
	}
	if pause := l.windowEnds[c].Sub(l.now()); pause > 0 {
		log.Warnf("pausing %s to stay under the remote %s quota", pause, c)
		l.sleep(pause)
	}
	l.windowEnds[c] = l.now().Add(l.quota[c].Window)
	l.count[c] = 1
}
