package callback

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordingSender struct {
	mu  sync.Mutex
	got []string
}

func (s *recordingSender) Send(cctx CallbackContext, cb Callback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, cb.Name)
	return nil
}

func (s *recordingSender) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.got))
	copy(out, s.got)
	return out
}

func TestPipelineFiltersByMethodStatusAndHeaders(t *testing.T) {
	sender := &recordingSender{}
	pipeline := NewPipeline([]Callback{
		{Name: "matches", Methods: []string{"POST"}, StatusRange: [2]int{200, 299}, Mode: Awaited},
		{Name: "wrong-method", Methods: []string{"GET"}, Mode: Awaited},
		{Name: "wrong-status", StatusRange: [2]int{400, 499}, Mode: Awaited},
		{Name: "wrong-header", HeaderMatchers: map[string]string{"x-tenant": "other"}, Mode: Awaited},
	}, sender, nil)

	headers := http.Header{}
	headers.Set("x-tenant", "acme")
	pipeline.Run(CallbackContext{
		RequestID: uuid.New(),
		Method:    "POST",
		Status:    201,
		Headers:   headers,
		StartedAt: time.Now(),
	})

	assert.Equal(t, []string{"matches"}, sender.names())
}

func TestPipelineRunsAwaitedSequentiallyInRegistrationOrder(t *testing.T) {
	sender := &recordingSender{}
	pipeline := NewPipeline([]Callback{
		{Name: "first", Mode: Awaited},
		{Name: "second", Mode: Awaited},
		{Name: "third", Mode: Awaited},
	}, sender, nil)

	pipeline.Run(CallbackContext{RequestID: uuid.New(), Method: "GET", Status: 200})

	assert.Equal(t, []string{"first", "second", "third"}, sender.names())
}

func TestPipelineFireAndForgetAllDeliveredBeforeRunReturns(t *testing.T) {
	sender := &recordingSender{}
	callbacks := make([]Callback, 0, 20)
	for i := 0; i < 20; i++ {
		callbacks = append(callbacks, Callback{Name: uuid.NewString(), Mode: FireAndForget})
	}
	pipeline := NewPipeline(callbacks, sender, nil)

	pipeline.Run(CallbackContext{RequestID: uuid.New(), Method: "GET", Status: 200})

	assert.Len(t, sender.names(), 20)
}

func TestCallbackEmptyMethodsAdmitsEverything(t *testing.T) {
	cb := Callback{Name: "catch-all"}
	assert.True(t, cb.admits(CallbackContext{Method: "DELETE", Status: 503}))
}
