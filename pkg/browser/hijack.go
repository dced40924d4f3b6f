package browser

import (
	"fmt"
	"net/http"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/thesyncim/flowcheck/pkg/flow"
)

// Route answers every request matching mock with its fixed response for the
// rest of the session. Requests never reach the network.
func (s *Session) Route(mock flow.MockResponse) error {
	if err := mock.Validate(); err != nil {
		return err
	}
	status := mock.Status
	if status == 0 {
		status = http.StatusOK
	}
	body := []byte(mock.Body)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("route %s: session closed", mock.Pattern)
	}

	start := s.router == nil
	if start {
		s.router = s.page.HijackRequests()
	}

	err := s.router.Add(mock.Glob(), "", func(h *rod.Hijack) {
		if !mock.Matches(h.Request.Method(), h.Request.URL().String()) {
			h.ContinueRequest(&proto.FetchContinueRequest{})
			return
		}
		h.Response.Payload().ResponseCode = status
		h.Response.SetHeader("Content-Type", mock.ContentType)
		h.Response.SetBody(body)

		s.mu.Lock()
		s.served[mock.Pattern]++
		s.mu.Unlock()
		s.logger.Debug("mock served", "pattern", mock.Pattern, "method", h.Request.Method(), "url", h.Request.URL().String())
	})
	if err != nil {
		return fmt.Errorf("route %s: %w", mock.Pattern, err)
	}
	if start {
		go s.router.Run()
	}
	return nil
}

// Served reports how many requests the mock registered under pattern has
// answered so far.
func (s *Session) Served(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.served[pattern]
}
