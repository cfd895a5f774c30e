package main

import (
	"context"
	"testing"
	"time"

	"github.com/maxnilz/stockwatch/errors"
	"github.com/stretchr/testify/require"
)

type tickJob struct {
	ch  chan time.Time
	err error
}

func (j *tickJob) Name() string { return "tick" }

func (j *tickJob) Run(_ context.Context) error {
	select {
	case j.ch <- time.Now():
	default:
	}
	return j.err
}

func TestSchedulerEvery(t *testing.T) {
	s := NewScheduler(DefaultLogger)
	job := &tickJob{ch: make(chan time.Time, 4)}
	require.NoError(t, s.Every(time.Second, job))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-job.ch:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on context cancel")
	}
	s.Stop()
}

func TestSchedulerKeepsGoingAfterJobFailure(t *testing.T) {
	s := NewScheduler(DefaultLogger)
	job := &tickJob{ch: make(chan time.Time, 4), err: errors.Newf(errors.FetchFailed, nil, "boom")}
	require.NoError(t, s.Every(time.Second, job))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// the interval is the only retry backoff: a failed run must be
	// followed by another one
	for i := 0; i < 2; i++ {
		select {
		case <-job.ch:
		case <-time.After(3 * time.Second):
			t.Fatalf("run #%d did not happen", i+1)
		}
	}
}

func TestSchedulerRejectsInvalidSpec(t *testing.T) {
	s := NewScheduler(DefaultLogger)
	err := s.Schedule("not-a-spec", &tickJob{ch: make(chan time.Time, 1)})
	require.Error(t, err)
	require.Equal(t, errors.InvalidConfig, errors.Code(err))
}
