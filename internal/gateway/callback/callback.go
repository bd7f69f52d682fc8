// Package callback implements the Callback Pipeline (C9): registered
// webhook targets notified after a gateway-proxied request completes,
// structured as a filter-then-execute pipeline, generalizing the
// teacher's async-queue dispatch pattern (internal/notify's
// enqueue-then-background-worker split) into an ordered in-process run.
package callback

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ExecutionMode selects how a Pipeline.Run admits a Callback once it
// passes filtering.
type ExecutionMode int

const (
	// FireAndForget spawns one goroutine per admitted callback; no
	// ordering guarantee between callbacks of this mode.
	FireAndForget ExecutionMode = iota
	// Awaited runs admitted callbacks sequentially, in registration
	// order, before Run returns.
	Awaited
)

// Callback is a registered outbound notification target.
type Callback struct {
	ID             uuid.UUID
	Name           string
	URL            string
	Methods        []string
	StatusRange    [2]int
	HeaderMatchers map[string]string
	Mode           ExecutionMode
}

// admitsMethod reports whether method is in c.Methods, or c.Methods is
// empty (meaning: every method).
func (c Callback) admitsMethod(method string) bool {
	if len(c.Methods) == 0 {
		return true
	}
	for _, m := range c.Methods {
		if m == method {
			return true
		}
	}
	return false
}

func (c Callback) admitsStatus(status int) bool {
	if c.StatusRange == ([2]int{}) {
		return true
	}
	return status >= c.StatusRange[0] && status <= c.StatusRange[1]
}

func (c Callback) admitsHeaders(headers http.Header) bool {
	for key, want := range c.HeaderMatchers {
		if headers.Get(key) != want {
			return false
		}
	}
	return true
}

func (c Callback) admits(cctx CallbackContext) bool {
	return c.admitsMethod(cctx.Method) && c.admitsStatus(cctx.Status) && c.admitsHeaders(cctx.Headers)
}

// CallbackContext is the immutable snapshot of a completed proxied
// request a Callback is notified with. It deliberately carries no
// http.ResponseWriter: the response has already been written to the
// client by the time the pipeline runs, and callbacks must not be able to
// influence it.
type CallbackContext struct {
	RequestID uuid.UUID
	Method    string
	Path      string
	Status    int
	Headers   http.Header
	StartedAt time.Time
}

// Sender delivers one admitted callback notification. A concrete HTTP
// poster implements this in production; tests supply a fake.
type Sender interface {
	Send(cctx CallbackContext, cb Callback) error
}

// Pipeline runs the registered Callbacks for every completed request.
type Pipeline struct {
	Callbacks []Callback
	Sender    Sender
	Logger    *slog.Logger
}

func NewPipeline(callbacks []Callback, sender Sender, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Callbacks: callbacks, Sender: sender, Logger: logger}
}

// Run filters the registered callbacks against cctx, then dispatches the
// FireAndForget ones concurrently (no cross-callback ordering) while
// running the Awaited ones sequentially in registration order. Awaited
// callbacks run after every FireAndForget one has been spawned, not
// necessarily after they've completed — Awaited exists to let a caller
// block on delivery, not to serialize with fire-and-forget work.
func (p *Pipeline) Run(cctx CallbackContext) {
	var wg sync.WaitGroup
	var awaited []Callback

	for _, cb := range p.Callbacks {
		if !cb.admits(cctx) {
			continue
		}
		if cb.Mode == Awaited {
			awaited = append(awaited, cb)
			continue
		}
		wg.Add(1)
		go func(cb Callback) {
			defer wg.Done()
			p.deliver(cctx, cb)
		}(cb)
	}

	for _, cb := range awaited {
		p.deliver(cctx, cb)
	}
	wg.Wait()
}

func (p *Pipeline) deliver(cctx CallbackContext, cb Callback) {
	if err := p.Sender.Send(cctx, cb); err != nil {
		p.Logger.Warn("callback: delivery failed", "callback", cb.Name, "request_id", cctx.RequestID, "error", err)
	}
}
