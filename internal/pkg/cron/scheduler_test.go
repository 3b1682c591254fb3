package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var ok, failed int32
	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&ok, 1)
		return nil
	})
	s.AddJob("failing", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&failed, 1)
		return errors.New("boom")
	})

	s.RunOnce(context.Background())

	assert.EqualValues(t, 1, atomic.LoadInt32(&ok))
	assert.EqualValues(t, 1, atomic.LoadInt32(&failed), "a failing job does not stop the others")
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}

	// A second Stop is a no-op.
	s.Stop()
}
