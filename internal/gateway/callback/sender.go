package callback

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPSender posts a CallbackContext as a JSON body to a Callback's URL,
// grounding the request timeout on the teacher's IoTService http.Client
// pattern (internal/auth/iot_service.go).
type HTTPSender struct {
	Client *http.Client
}

func NewHTTPSender() *HTTPSender {
	return &HTTPSender{Client: &http.Client{Timeout: 10 * time.Second}}
}

type webhookPayload struct {
	RequestID string      `json:"request_id"`
	Method    string      `json:"method"`
	Path      string      `json:"path"`
	Status    int         `json:"status"`
	Headers   http.Header `json:"headers"`
	StartedAt time.Time   `json:"started_at"`
	Callback  string      `json:"callback"`
}

func (s *HTTPSender) Send(cctx CallbackContext, cb Callback) error {
	body, err := json.Marshal(webhookPayload{
		RequestID: cctx.RequestID.String(),
		Method:    cctx.Method,
		Path:      cctx.Path,
		Status:    cctx.Status,
		Headers:   cctx.Headers,
		StartedAt: cctx.StartedAt,
		Callback:  cb.Name,
	})
	if err != nil {
		return fmt.Errorf("encode callback payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, cb.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver callback: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("callback target %s responded %d", cb.URL, resp.StatusCode)
	}
	return nil
}
