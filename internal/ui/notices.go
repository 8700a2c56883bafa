package ui

import (
	"sync"
	"time"
)

// DefaultNoticeDuration is how long a notice stays visible.
const DefaultNoticeDuration = 3 * time.Second

// Level distinguishes confirmations from failures.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a transient message shown to the user.
type Notice struct {
	ID      uint64
	Level   Level
	Message string
}

// Notices holds the visible notices and dismisses each one after a fixed duration.
type Notices struct {
	mu        sync.Mutex
	ttl       time.Duration
	nextID    uint64
	items     []Notice
	onExpire  func()
	afterFunc func(time.Duration, func())
}

// NewNotices creates a board. onExpire runs after a notice is dismissed, outside the board lock.
func NewNotices(ttl time.Duration, onExpire func()) *Notices {
	if ttl <= 0 {
		ttl = DefaultNoticeDuration
	}
	return &Notices{
		ttl:      ttl,
		onExpire: onExpire,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Post shows a notice and schedules its dismissal.
func (n *Notices) Post(level Level, message string) Notice {
	n.mu.Lock()
	n.nextID++
	notice := Notice{ID: n.nextID, Level: level, Message: message}
	n.items = append(n.items, notice)
	n.mu.Unlock()

	n.afterFunc(n.ttl, func() { n.dismiss(notice.ID) })
	return notice
}

// Active returns the notices currently visible, oldest first.
func (n *Notices) Active() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notice, len(n.items))
	copy(out, n.items)
	return out
}

func (n *Notices) dismiss(id uint64) {
	n.mu.Lock()
	removed := false
	for i, item := range n.items {
		if item.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			removed = true
			break
		}
	}
	n.mu.Unlock()

	if removed && n.onExpire != nil {
		n.onExpire()
	}
}
