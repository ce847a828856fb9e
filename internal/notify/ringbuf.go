package notify

import "sync"

// DefaultHistory is the default number of notifications kept for the log view.
const DefaultHistory = 64

// ring is a fixed-size circular buffer of Notifications.
type ring struct {
	mu    sync.Mutex
	buf   []Notification
	size  int
	head  int // next write position
	count int // number of valid entries (0..size)
}

func newRing(size int) *ring {
	if size <= 0 {
		size = DefaultHistory
	}
	return &ring{buf: make([]Notification, size), size: size}
}

// push adds n, overwriting the oldest entry when full.
func (r *ring) push(n Notification) {
	r.mu.Lock()
	r.buf[r.head] = n
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
	r.mu.Unlock()
}

// last returns the n most recent entries in chronological order.
func (r *ring) last(n int) []Notification {
	if n <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		return nil
	}
	if n > r.count {
		n = r.count
	}

	result := make([]Notification, n)
	start := (r.head - n + r.size) % r.size
	if start+n <= r.size {
		copy(result, r.buf[start:start+n])
	} else {
		first := r.size - start
		copy(result, r.buf[start:])
		copy(result[first:], r.buf[:n-first])
	}
	return result
}

func (r *ring) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
