package story

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/storycache/cache"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateSegment(ctx context.Context, sc cache.StoryContext) (string, error) {
	args := m.Called(ctx, sc)
	return args.String(0), args.Error(1)
}

func (m *mockGenerator) GenerateChoices(ctx context.Context, sc cache.StoryContext, segment string) ([]string, error) {
	args := m.Called(ctx, sc, segment)
	choices, _ := args.Get(0).([]string)
	return choices, args.Error(1)
}

// gatedGenerator blocks segment generation until release is closed.
type gatedGenerator struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newGatedGenerator() *gatedGenerator {
	return &gatedGenerator{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (g *gatedGenerator) GenerateSegment(ctx context.Context, _ cache.StoryContext) (string, error) {
	g.calls.Add(1)
	select {
	case g.started <- struct{}{}:
	default:
	}
	select {
	case <-g.release:
		return "the gate opens", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (g *gatedGenerator) GenerateChoices(context.Context, cache.StoryContext, string) ([]string, error) {
	return []string{"enter"}, nil
}

var testContext = cache.StoryContext{
	UserID:    "u1",
	Genre:     "fantasy",
	Tone:      "dark",
	Character: "knight",
	Setting:   "castle",
}

func newTestCache(t *testing.T) *cache.ContextCache {
	t.Helper()
	c, err := cache.NewContextCache(cache.Config{TTL: time.Minute, MaxEntries: 10})
	require.NoError(t, err)
	return c
}
