package story

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/storycache/cache"
	"github.com/jonwraymond/storycache/observe"
	"github.com/jonwraymond/storycache/resilience"
)

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(nil, &mockGenerator{})
	assert.ErrorIs(t, err, ErrNilStore)

	_, err = NewService(newTestCache(t), nil)
	assert.ErrorIs(t, err, ErrNilGenerator)
}

func TestService_SegmentReadThrough(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("GenerateSegment", mock.Anything, testContext).Return("  The knight wakes.  ", nil).Once()

	c := newTestCache(t)
	svc, err := NewService(c, gen)
	require.NoError(t, err)

	got, err := svc.Segment(context.Background(), testContext)
	require.NoError(t, err)
	assert.Equal(t, "The knight wakes.", got)

	again, err := svc.Segment(context.Background(), testContext)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	stored, ok := c.GetStorySegment(context.Background(), testContext)
	assert.True(t, ok)
	assert.Equal(t, got, stored)
	gen.AssertNumberOfCalls(t, "GenerateSegment", 1)
}

func TestService_SegmentErrorNotCached(t *testing.T) {
	boom := errors.New("backend down")
	gen := &mockGenerator{}
	gen.On("GenerateSegment", mock.Anything, testContext).Return("", boom).Once()
	gen.On("GenerateSegment", mock.Anything, testContext).Return("recovered", nil).Once()

	c := newTestCache(t)
	svc, err := NewService(c, gen)
	require.NoError(t, err)

	_, err = svc.Segment(context.Background(), testContext)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len(cache.KindSegment))

	got, err := svc.Segment(context.Background(), testContext)
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	gen.AssertExpectations(t)
}

func TestService_EmptyGeneration(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("GenerateSegment", mock.Anything, testContext).Return("   ", nil)

	retry := resilience.NewRetry(resilience.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond})
	svc, err := NewService(newTestCache(t), gen, WithExecutor(resilience.NewExecutor(resilience.WithRetry(retry))))
	require.NoError(t, err)

	_, err = svc.Segment(context.Background(), testContext)
	require.ErrorIs(t, err, ErrEmptyGeneration)
	gen.AssertNumberOfCalls(t, "GenerateSegment", 1)
}

func TestService_MissingUser(t *testing.T) {
	svc, err := NewService(newTestCache(t), &mockGenerator{})
	require.NoError(t, err)

	_, err = svc.Segment(context.Background(), cache.StoryContext{Genre: "noir"})
	assert.ErrorIs(t, err, ErrMissingUser)

	_, err = svc.Choices(context.Background(), cache.StoryContext{Genre: "noir"})
	assert.ErrorIs(t, err, ErrMissingUser)
}

func TestService_ChoicesUsesSegment(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("GenerateSegment", mock.Anything, testContext).Return("A door creaks.", nil).Once()
	gen.On("GenerateChoices", mock.Anything, testContext, "A door creaks.").
		Return([]string{"Open it", "Walk away"}, nil).Once()

	c := newTestCache(t)
	svc, err := NewService(c, gen)
	require.NoError(t, err)

	choices, err := svc.Choices(context.Background(), testContext)
	require.NoError(t, err)
	assert.Equal(t, []string{"Open it", "Walk away"}, choices)

	// Mutating the returned slice must not reach the cache.
	choices[0] = "mutated"
	again, err := svc.Choices(context.Background(), testContext)
	require.NoError(t, err)
	assert.Equal(t, []string{"Open it", "Walk away"}, again)

	seg, ok := c.GetStorySegment(context.Background(), testContext)
	assert.True(t, ok)
	assert.Equal(t, "A door creaks.", seg)
	gen.AssertExpectations(t)
}

func TestService_ChoicesReusesCachedSegment(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("GenerateChoices", mock.Anything, testContext, "cached segment").
		Return([]string{"one"}, nil).Once()

	c := newTestCache(t)
	c.SetStorySegment(context.Background(), testContext, "cached segment")
	svc, err := NewService(c, gen)
	require.NoError(t, err)

	_, err = svc.Choices(context.Background(), testContext)
	require.NoError(t, err)
	gen.AssertNotCalled(t, "GenerateSegment", mock.Anything, mock.Anything)
}

func TestService_EmptyChoices(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("GenerateSegment", mock.Anything, testContext).Return("seg", nil)
	gen.On("GenerateChoices", mock.Anything, testContext, "seg").Return([]string{}, nil)

	c := newTestCache(t)
	svc, err := NewService(c, gen)
	require.NoError(t, err)

	_, err = svc.Choices(context.Background(), testContext)
	require.ErrorIs(t, err, ErrEmptyGeneration)
	assert.Equal(t, 0, c.Len(cache.KindChoices))
}

func TestService_CancelledCallerDoesNotFailSharedGeneration(t *testing.T) {
	gen := newGatedGenerator()
	c := newTestCache(t)
	svc, err := NewService(c, gen)
	require.NoError(t, err)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Segment(ctxA, testContext)
		errA <- err
	}()
	<-gen.started

	type result struct {
		seg string
		err error
	}
	resB := make(chan result, 1)
	go func() {
		seg, err := svc.Segment(context.Background(), testContext)
		resB <- result{seg, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	require.ErrorIs(t, <-errA, context.Canceled)

	close(gen.release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, "the gate opens", b.seg)
	assert.Equal(t, int32(1), gen.calls.Load())

	seg, ok := c.GetStorySegment(context.Background(), testContext)
	assert.True(t, ok, "generation finished after the first caller left should still be cached")
	assert.Equal(t, "the gate opens", seg)
}

func TestService_CancelledCallerReturnsPromptly(t *testing.T) {
	gen := newGatedGenerator()
	svc, err := NewService(newTestCache(t), gen)
	require.NoError(t, err)
	defer close(gen.release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Choices(ctx, testContext)
		done <- err
	}()
	<-gen.started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Choices did not return after its context was cancelled")
	}
}

func TestService_ConcurrentMissesShareGeneration(t *testing.T) {
	gen := newGatedGenerator()
	svc, err := NewService(newTestCache(t), gen)
	require.NoError(t, err)

	const callers = 8
	results := make([]string, callers)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = svc.Segment(context.Background(), testContext)
	}()
	<-gen.started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = svc.Segment(context.Background(), testContext)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	assert.Equal(t, int32(1), gen.calls.Load())
	for i, r := range results {
		assert.Equal(t, "the gate opens", r, "caller %d", i)
	}
}

func TestService_CircuitBreakerOpens(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("GenerateSegment", mock.Anything, mock.Anything).Return("", errors.New("fail"))

	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		MaxFailures:  1,
		ResetTimeout: time.Hour,
	})
	svc, err := NewService(newTestCache(t), gen, WithExecutor(resilience.NewExecutor(resilience.WithCircuitBreaker(cb))))
	require.NoError(t, err)

	_, err = svc.Segment(context.Background(), testContext)
	require.Error(t, err)

	_, err = svc.Segment(context.Background(), testContext)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	gen.AssertNumberOfCalls(t, "GenerateSegment", 1)
}

func TestService_ObservesGeneration(t *testing.T) {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	gen := &mockGenerator{}
	gen.On("GenerateSegment", mock.Anything, testContext).Return("seg", nil)

	svc, err := NewService(newTestCache(t), gen,
		WithMiddleware(observe.NewMiddleware(nil, nil, logger)),
		WithBackend("mock"),
		WithIDGenerator(func() string { return "gen-1" }),
	)
	require.NoError(t, err)

	_, err = svc.Segment(context.Background(), testContext)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "story generation completed")
	assert.Contains(t, out, `"story.backend":"mock"`)
	assert.Contains(t, out, `"story.generation_id":"gen-1"`)
	assert.NotContains(t, out, "u1")
}

func TestService_Reset(t *testing.T) {
	c := newTestCache(t)
	c.SetStorySegment(context.Background(), testContext, "seg")
	c.SetChoices(context.Background(), testContext, []string{"a"})

	svc, err := NewService(c, &mockGenerator{})
	require.NoError(t, err)
	svc.Reset(context.Background())

	assert.Equal(t, 0, c.Len(cache.KindSegment))
	assert.Equal(t, 0, c.Len(cache.KindChoices))
}

func TestFlightKey_SeparatesKinds(t *testing.T) {
	seg := flightKey(cache.KindSegment, testContext)
	cho := flightKey(cache.KindChoices, testContext)
	assert.NotEqual(t, seg, cho)
	assert.True(t, strings.HasPrefix(seg, "segment|"))
}
