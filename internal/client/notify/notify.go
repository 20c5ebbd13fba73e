// Package notify is the single toast implementation for the client: every
// flow reports its outcome here, tagged with a kind, and the renderer decides
// how to show it. Toasts self-destroy after a fixed TTL.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind tags a toast with its severity.
type Kind int

const (
	Success Kind = iota
	Error
	Warning
	Info
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

func (k Kind) badge() string {
	switch k {
	case Success:
		return "[ OK ]"
	case Error:
		return "[FAIL]"
	case Warning:
		return "[WARN]"
	default:
		return "[INFO]"
	}
}

// Toast is one transient notification.
type Toast struct {
	ID      string
	Kind    Kind
	Message string
	Details string
	TTL     time.Duration
}

// Notifier receives flow outcomes. Exactly one toast is expected per
// completed operation.
type Notifier interface {
	Notify(kind Kind, message, details string)
	Close()
}

// Printer renders toasts as single lines on a writer and tracks the active
// set until each toast's TTL elapses. All timers are cancelled on Close so a
// torn-down view never fires stale dismissals.
type Printer struct {
	w   io.Writer
	ttl time.Duration

	mu     sync.Mutex
	active map[string]*Toast
	timers map[string]*time.Timer
	closed bool
}

func NewPrinter(w io.Writer, ttl time.Duration) *Printer {
	return &Printer{
		w:      w,
		ttl:    ttl,
		active: make(map[string]*Toast),
		timers: make(map[string]*time.Timer),
	}
}

// Notify renders the toast and schedules its dismissal.
func (p *Printer) Notify(kind Kind, message, details string) {
	t := &Toast{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: message,
		Details: details,
		TTL:     p.ttl,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	line := fmt.Sprintf("%s %s", kind.badge(), message)
	if details != "" {
		line += ": " + details
	}
	fmt.Fprintln(p.w, line)

	p.active[t.ID] = t
	p.timers[t.ID] = time.AfterFunc(t.TTL, func() { p.dismiss(t.ID) })
}

func (p *Printer) dismiss(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.active, id)
	delete(p.timers, id)
}

// Active returns the toasts whose TTL has not elapsed yet.
func (p *Printer) Active() []Toast {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Toast, 0, len(p.active))
	for _, t := range p.active {
		out = append(out, *t)
	}
	return out
}

// Close cancels all pending dismissal timers and drops the active set.
func (p *Printer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	for id, timer := range p.timers {
		timer.Stop()
		delete(p.timers, id)
		delete(p.active, id)
	}
}
