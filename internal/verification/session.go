package verification

import (
	"context"
	"sync"
)

// SearchSession holds the state of one user's verification page: the last query,
// its result, and whether a search is running. Only one search runs at a time.
type SearchSession struct {
	verifier *Verifier

	mu          sync.Mutex
	query       string
	result      *Result
	hasSearched bool
	verifying   bool
}

func NewSearchSession(verifier *Verifier) *SearchSession {
	return &SearchSession{verifier: verifier}
}

// Search verifies query against c and publishes the result to the session.
// An empty query leaves the session untouched apart from the query text.
func (s *SearchSession) Search(ctx context.Context, query string, c Collections) (Result, Notification, error) {
	s.mu.Lock()
	if s.verifying {
		s.mu.Unlock()
		return Result{}, Notification{}, ErrSearchInProgress
	}
	s.query = query
	if Normalize(query) == "" {
		s.mu.Unlock()
		return s.verifier.Verify(ctx, query, c)
	}
	s.verifying = true
	s.mu.Unlock()

	result, n, err := s.verifier.Verify(ctx, query, c)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifying = false
	if err != nil {
		return Result{}, n, err
	}
	s.result = &result
	s.hasSearched = true
	return result, n, nil
}

// Reset clears the query and the last result.
func (s *SearchSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = ""
	s.result = nil
	s.hasSearched = false
}

func (s *SearchSession) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Result returns the last published result, or nil before the first search.
func (s *SearchSession) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

func (s *SearchSession) HasSearched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasSearched
}

func (s *SearchSession) Verifying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifying
}
