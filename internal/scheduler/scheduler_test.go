package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingJob struct {
	name string
	runs atomic.Int32
	err  error
	ran  chan struct{}
}

func newCountingJob(name string) *countingJob {
	return &countingJob{name: name, ran: make(chan struct{}, 16)}
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	select {
	case j.ran <- struct{}{}:
	default:
	}
	return j.err
}

func TestAddJob_InvalidSchedule(t *testing.T) {
	t.Parallel()
	s := New(0)
	if err := s.AddJob("every tuesday", newCountingJob("clean")); err == nil {
		t.Fatal("Expected an error for an invalid schedule")
	}
	// Five-field specs are rejected: the seconds field is mandatory.
	if err := s.AddJob("*/5 * * * *", newCountingJob("clean")); err == nil {
		t.Fatal("Expected an error for a schedule without seconds")
	}
}

func TestAddJob_DuplicateName(t *testing.T) {
	t.Parallel()
	s := New(0)
	if err := s.AddJob("0 0 3 * * *", newCountingJob("clean")); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	if err := s.AddJob("0 0 4 * * *", newCountingJob("clean")); err == nil {
		t.Fatal("Expected an error for a duplicate job name")
	}
}

func TestRunJobNow(t *testing.T) {
	t.Parallel()
	s := New(0)
	job := newCountingJob("clean")
	job.err = errors.New("boom")
	if err := s.AddJob("0 0 3 * * *", job); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}

	if err := s.RunJobNow("clean"); !errors.Is(err, job.err) {
		t.Fatalf("Expected the job error, got %v", err)
	}
	if job.runs.Load() != 1 {
		t.Errorf("Expected 1 run, got %d", job.runs.Load())
	}
	if err := s.RunJobNow("missing"); err == nil {
		t.Fatal("Expected an error for an unknown job")
	}
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	t.Parallel()
	s := New(time.Minute)
	job := newCountingJob("clean")
	if err := s.AddJob("* * * * * *", job); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}

	s.Start()
	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Stop(ctx); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	}()

	select {
	case <-job.ran:
	case <-time.After(3 * time.Second):
		t.Fatal("Job did not run within 3 seconds")
	}
}

func TestScheduler_StopWhenNotStarted(t *testing.T) {
	t.Parallel()
	if err := New(0).Stop(context.Background()); err != nil {
		t.Fatalf("Stop on a stopped scheduler should be a no-op, got %v", err)
	}
}
