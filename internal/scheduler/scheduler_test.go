package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func resetScheduler(t *testing.T) {
	t.Helper()
	service = nil
	serviceOnce = sync.Once{}
	serviceErr = nil
	t.Cleanup(func() {
		if service != nil {
			_ = service.Stop()
		}
		service = nil
		serviceOnce = sync.Once{}
		serviceErr = nil
	})
}

func TestAddJobBeforeInit(t *testing.T) {
	resetScheduler(t)

	if _, err := AddJob("match_reminders", "*/15 * * * *", func(context.Context) {}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := Start(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized from Start, got %v", err)
	}
}

func TestAddJobValidation(t *testing.T) {
	resetScheduler(t)
	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	if _, err := AddJob(" ", "*/15 * * * *", func(context.Context) {}); !errors.Is(err, ErrEmptyJobName) {
		t.Fatalf("expected ErrEmptyJobName, got %v", err)
	}
	if _, err := AddJob("match_reminders", "", func(context.Context) {}); !errors.Is(err, ErrEmptyCronExpr) {
		t.Fatalf("expected ErrEmptyCronExpr, got %v", err)
	}
	if _, err := AddJob("match_reminders", "not a cron", func(context.Context) {}); err == nil {
		t.Fatalf("expected invalid cron expression to be rejected")
	}

	job, err := AddJob("match_reminders", "*/15 * * * *", func(context.Context) {})
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	if job.Name() != "match_reminders" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
}

func TestStopIsIdempotent(t *testing.T) {
	resetScheduler(t)
	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestAddJobRejectsDuplicateNames(t *testing.T) {
	resetScheduler(t)
	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	if _, err := AddJob("match_reminders", "*/15 * * * *", func(context.Context) {}); err != nil {
		t.Fatalf("add job: %v", err)
	}
	if _, err := AddJob(" match_reminders ", "*/5 * * * *", func(context.Context) {}); !errors.Is(err, ErrDuplicateJob) {
		t.Fatalf("expected ErrDuplicateJob, got %v", err)
	}
}

func TestRunNowAndStopCancelsTaskContext(t *testing.T) {
	resetScheduler(t)
	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	ctxs := make(chan context.Context, 1)
	if _, err := AddJob("match_reminders", "0 0 1 1 *", func(ctx context.Context) {
		ctxs <- ctx
	}); err != nil {
		t.Fatalf("add job: %v", err)
	}
	if err := Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	svc, err := ServiceInstance()
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	if err := svc.RunNow("unknown"); err == nil {
		t.Fatalf("expected error for unknown job")
	}
	if err := svc.RunNow("match_reminders"); err != nil {
		t.Fatalf("run now: %v", err)
	}

	var taskCtx context.Context
	select {
	case taskCtx = <-ctxs:
	case <-time.After(5 * time.Second):
		t.Fatalf("job did not run")
	}
	if taskCtx.Err() != nil {
		t.Fatalf("task context cancelled while scheduler running")
	}

	if err := Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if taskCtx.Err() == nil {
		t.Fatalf("expected task context cancelled after stop")
	}
}
