// v0
// internal/reasoning/stub.go
package reasoning

import (
	"context"
	"sync"
)

// Stub is a scripted Engine used by tests and the offline demo mode. It is
// deterministic: the same sequence of requests yields the same responses.
type Stub struct {
	// Responses keyed by entity id; entities without an entry get Default.
	Responses map[string]Response
	Default   Response
	// Fail lists entity ids whose calls return ErrUnavailable.
	Fail map[string]bool

	mu    sync.Mutex
	calls []Request
}

func (s *Stub) Infer(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()

	if s.Fail[req.EntityID] {
		return Response{}, ErrUnavailable
	}
	if r, ok := s.Responses[req.EntityID]; ok {
		return r, nil
	}
	return s.Default, nil
}

// Calls returns a copy of the recorded requests.
func (s *Stub) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.calls))
	copy(out, s.calls)
	return out
}
