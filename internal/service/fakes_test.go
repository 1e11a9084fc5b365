package service

import (
	"context"
	"errors"
)

type stubResponse struct {
	text string
	err  error
}

// stubCompleter replays scripted responses and counts calls
type stubCompleter struct {
	responses []stubResponse
	calls     int
	systems   []string
	prompts   []string
}

func (s *stubCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	s.systems = append(s.systems, system)
	s.prompts = append(s.prompts, prompt)
	i := s.calls
	s.calls++
	if i >= len(s.responses) {
		return "", errors.New("unexpected completion call")
	}
	return s.responses[i].text, s.responses[i].err
}

// fakeSearcher answers by exact query and records what was asked
type fakeSearcher struct {
	results map[string][]SearchResult
	errs    map[string]error
	queries []string
}

func (f *fakeSearcher) Name() string { return "fake" }

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]SearchResult, error) {
	f.queries = append(f.queries, query)
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}
