package generation

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonwraymond/storycache/cache"
)

// MockGenerator is a deterministic offline generator.
type MockGenerator struct {
	// Err, if set, is returned by the next FailTimes calls (every call
	// when FailTimes is zero).
	Err       error
	FailTimes int

	mu            sync.Mutex
	segmentCalls  int
	choiceCalls   int
	failuresSoFar int
}

// NewMockGenerator returns a generator that always succeeds.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Name returns the backend label.
func (m *MockGenerator) Name() string { return "mock" }

// GenerateSegment returns a segment derived from sc.
func (m *MockGenerator) GenerateSegment(_ context.Context, sc cache.StoryContext) (string, error) {
	m.mu.Lock()
	m.segmentCalls++
	err := m.nextErr()
	m.mu.Unlock()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("In a %s %s tale, %s pauses at the edge of %s.",
		orDefault(sc.Tone, "quiet"),
		orDefault(sc.Genre, "nameless"),
		orDefault(sc.Character, "the traveller"),
		orDefault(sc.Setting, "the unknown"),
	), nil
}

// GenerateChoices returns three fixed choices.
func (m *MockGenerator) GenerateChoices(_ context.Context, _ cache.StoryContext, _ string) ([]string, error) {
	m.mu.Lock()
	m.choiceCalls++
	err := m.nextErr()
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return []string{"Press onward", "Wait and listen", "Turn back"}, nil
}

// Calls returns the number of segment and choice generations so far.
func (m *MockGenerator) Calls() (segments, choices int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.segmentCalls, m.choiceCalls
}

// nextErr must be called with m.mu held.
func (m *MockGenerator) nextErr() error {
	if m.Err == nil {
		return nil
	}
	if m.FailTimes > 0 && m.failuresSoFar >= m.FailTimes {
		return nil
	}
	m.failuresSoFar++
	return m.Err
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
