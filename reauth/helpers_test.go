package reauth

import (
	"context"
	"fmt"
	"sync"

	"github.com/gaborage/go-courier/endpoint"
	"github.com/gaborage/go-courier/httpclient"
	"github.com/gaborage/go-courier/logger"
)

// testLogger returns a logger that discards everything.
func testLogger() logger.Logger {
	return logger.New("disabled", false)
}

// stubOutcome is one scripted result for the stub client.
type stubOutcome struct {
	resp *httpclient.Response
	err  error
}

// okOutcome yields a 200 response with the given body.
func okOutcome(body string) stubOutcome {
	return stubOutcome{resp: &httpclient.Response{StatusCode: 200, Body: []byte(body)}}
}

// tokenOutcome yields a successful refresh response carrying token.
func tokenOutcome(token string) stubOutcome {
	return okOutcome(fmt.Sprintf(`{"token":%q,"expires_in":3600}`, token))
}

// statusOutcome yields a non-2xx response with its status error, the way the
// real executor reports them.
func statusOutcome(code int) stubOutcome {
	body := []byte("denied")
	return stubOutcome{
		resp: &httpclient.Response{StatusCode: code, Body: body},
		err:  httpclient.NewStatusError(code, body),
	}
}

// transportOutcome yields a connectivity failure.
func transportOutcome() stubOutcome {
	return stubOutcome{err: httpclient.NewTransportError("connection refused", nil)}
}

// stubClient replays scripted outcomes in order and records every descriptor
// it executes. Once the script is exhausted it returns empty 200 responses.
type stubClient struct {
	mu     sync.Mutex
	calls  []*endpoint.Descriptor
	script []stubOutcome
}

func (s *stubClient) Execute(_ context.Context, desc *endpoint.Descriptor) (*httpclient.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, desc)
	if len(s.script) == 0 {
		return &httpclient.Response{StatusCode: 200}, nil
	}
	out := s.script[0]
	s.script = s.script[1:]
	return out.resp, out.err
}

func (s *stubClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubClient) call(i int) *endpoint.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[i]
}
