package checkout

import (
	"fmt"
	"sync"
	"time"
)

// Numberer issues human-readable receipt numbers of the form
// <prefix>-<yyyymmdd>-<seq>. The sequence restarts each day. One Numberer is
// shared by every terminal of a store.
type Numberer struct {
	mu     sync.Mutex
	prefix string
	day    string
	seq    int
}

// NewNumberer creates a Numberer for prefix.
func NewNumberer(prefix string) *Numberer {
	return &Numberer{prefix: prefix}
}

// Next returns the number for a receipt created at t.
func (n *Numberer) Next(t time.Time) string {
	day := t.Format("20060102")

	n.mu.Lock()
	defer n.mu.Unlock()

	if day != n.day {
		n.day = day
		n.seq = 0
	}
	n.seq++
	return fmt.Sprintf("%s-%s-%04d", n.prefix, day, n.seq)
}
