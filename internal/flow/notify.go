package flow

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

type Toast struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Center keeps short-lived toasts in FIFO order and fans them out to subscribers.
type Center struct {
	duration time.Duration
	now      func() time.Time

	mu     sync.Mutex
	toasts []Toast
	subs   map[int]chan Toast
	nextID int
}

func NewCenter(duration time.Duration) *Center {
	return &Center{
		duration: duration,
		now:      time.Now,
		subs:     make(map[int]chan Toast),
	}
}

func (c *Center) Success(message string) {
	c.push(SeveritySuccess, message)
}

func (c *Center) Error(message string) {
	c.push(SeverityError, message)
}

func (c *Center) push(sev Severity, message string) Toast {
	now := c.now()
	toast := Toast{
		ID:        uuid.NewString(),
		Severity:  sev,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.duration),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(now)
	c.toasts = append(c.toasts, toast)

	for _, ch := range c.subs {
		select {
		case ch <- toast:
		default:
		}
	}
	return toast
}

// Active returns the toasts that have not expired yet, oldest first.
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(c.now())
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

// Watch returns the active toasts and subscribes under one lock, so no toast falls between
// the snapshot and the channel.
func (c *Center) Watch(buffer int) ([]Toast, <-chan Toast, func()) {
	c.mu.Lock()
	c.pruneLocked(c.now())
	active := make([]Toast, len(c.toasts))
	copy(active, c.toasts)
	ch, cancel := c.subscribeLocked(buffer)
	c.mu.Unlock()
	return active, ch, cancel
}

// Subscribe delivers every new toast to the returned channel. Toasts are dropped for a
// subscriber whose buffer is full. The cancel func closes the channel.
func (c *Center) Subscribe(buffer int) (<-chan Toast, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscribeLocked(buffer)
}

func (c *Center) subscribeLocked(buffer int) (<-chan Toast, func()) {
	ch := make(chan Toast, buffer)
	id := c.nextID
	c.nextID++
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (c *Center) pruneLocked(now time.Time) {
	i := 0
	for i < len(c.toasts) && !now.Before(c.toasts[i].ExpiresAt) {
		i++
	}
	if i > 0 {
		c.toasts = append(c.toasts[:0], c.toasts[i:]...)
	}
}
