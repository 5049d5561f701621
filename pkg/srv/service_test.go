package srv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	name     string
	startErr error
	mu       *sync.Mutex
	order    *[]string
}

func (s *recordingService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *recordingService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.order = append(*s.order, s.name)
	return nil
}

func TestRun_ShutsDownInReverseOrderOnCancel(t *testing.T) {
	var mu sync.Mutex
	var order []string
	a := &recordingService{name: "a", mu: &mu, order: &order}
	b := &recordingService{name: "b", mu: &mu, order: &order}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := Run(ctx, time.Second, a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, order)
}

func TestRun_ReturnsStartError(t *testing.T) {
	var mu sync.Mutex
	var order []string
	boom := errors.New("listen failed")
	a := &recordingService{name: "a", mu: &mu, order: &order}
	b := &recordingService{name: "b", startErr: boom, mu: &mu, order: &order}

	err := Run(context.Background(), time.Second, a, b)
	require.ErrorIs(t, err, boom)
	assert.ElementsMatch(t, []string{"a", "b"}, order)
}

func TestNewCleanup(t *testing.T) {
	called := false
	svc := NewCleanup(func() error {
		called = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, Run(ctx, time.Second, svc))
	assert.True(t, called)
}

type finishingService struct {
	shutdown bool
}

func (s *finishingService) Start(ctx context.Context) error {
	return nil
}

func (s *finishingService) Shutdown(ctx context.Context) error {
	s.shutdown = true
	return nil
}

func TestRun_ReturnsWhenStartEndsCleanly(t *testing.T) {
	var mu sync.Mutex
	var order []string
	waiting := &recordingService{name: "cleanup", mu: &mu, order: &order}
	finished := &finishingService{}

	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), time.Second, waiting, finished)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after a service stopped")
	}
	assert.True(t, finished.shutdown)
	assert.Equal(t, []string{"cleanup"}, order)
}
