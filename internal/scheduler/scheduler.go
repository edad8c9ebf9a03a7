package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	service     *Service
	serviceOnce sync.Once
	serviceErr  error
)

var (
	ErrNotInitialized = errors.New("scheduler not initialized")
	ErrEmptyJobName   = errors.New("job name is required")
	ErrEmptyCronExpr  = errors.New("cron expression is required")
	ErrDuplicateJob   = errors.New("job already registered")
)

// Task is the body of a background job. ctx is cancelled when the scheduler
// stops so a run in flight can give up early.
type Task func(ctx context.Context)

// Service runs the background tournament jobs on one gocron scheduler.
type Service struct {
	scheduler gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc

	mu   sync.Mutex
	jobs map[string]gocron.Job

	stopOnce sync.Once
	stopErr  error
}

// Init initializes the scheduler singleton.
func Init() error {
	serviceOnce.Do(func() {
		service, serviceErr = newService()
		if serviceErr == nil {
			log.Info().Msg("Scheduler initialized")
		}
	})
	return serviceErr
}

func newService() (*Service, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					log.Error().
						Str("job_id", jobID.String()).
						Str("job_name", jobName).
						Interface("panic", recoverData).
						Msg("Scheduler job panicked")
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		scheduler: sched,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]gocron.Job),
	}, nil
}

// ServiceInstance returns the initialized scheduler singleton.
func ServiceInstance() (*Service, error) {
	if service == nil && serviceErr == nil {
		return nil, ErrNotInitialized
	}
	return service, serviceErr
}

// Start begins running scheduled jobs on the singleton scheduler.
func Start() error {
	svc, err := ServiceInstance()
	if err != nil {
		return err
	}
	svc.Start()
	return nil
}

// Stop shuts down the singleton scheduler.
func Stop() error {
	svc, err := ServiceInstance()
	if err != nil {
		return err
	}
	return svc.Stop()
}

// AddJob registers a cron job with the singleton scheduler.
func AddJob(name, cronExpr string, task Task, opts ...gocron.JobOption) (gocron.Job, error) {
	svc, err := ServiceInstance()
	if err != nil {
		return nil, err
	}
	return svc.AddJob(name, cronExpr, task, opts...)
}

func (s *Service) Start() {
	if s == nil {
		log.Error().Msg("Scheduler start requested before initialization")
		return
	}
	log.Info().Int("jobs", s.jobCount()).Msg("Scheduler starting")
	s.scheduler.Start()
}

// Stop cancels running tasks, then waits for gocron to shut down. Safe to
// call more than once.
func (s *Service) Stop() error {
	if s == nil {
		return ErrNotInitialized
	}
	s.stopOnce.Do(func() {
		log.Info().Msg("Scheduler stopping")
		s.cancel()
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}

// AddJob registers a cron job. Names are unique per scheduler and jobs run in
// singleton mode unless opts override it.
func (s *Service) AddJob(name, cronExpr string, task Task, opts ...gocron.JobOption) (gocron.Job, error) {
	if s == nil {
		return nil, ErrNotInitialized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyJobName
	}
	if strings.TrimSpace(cronExpr) == "" {
		return nil, ErrEmptyCronExpr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	jobLogger := log.With().Str("job_name", name).Str("cron", cronExpr).Logger()

	run := func() {
		if s.ctx.Err() != nil {
			return
		}
		start := time.Now()
		task(jobLogger.WithContext(s.ctx))
		jobLogger.Debug().Dur("duration", time.Since(start)).Msg("Scheduler job finished")
	}

	jobOpts := append([]gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}, opts...)
	job, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(run),
		jobOpts...,
	)
	if err != nil {
		jobLogger.Error().Err(err).Msg("Failed to register scheduler job")
		return nil, err
	}
	s.jobs[name] = job
	jobLogger.Info().Msg("Scheduler job registered")
	return job, nil
}

// RunNow triggers a registered job outside its schedule.
func (s *Service) RunNow(name string) error {
	if s == nil {
		return ErrNotInitialized
	}
	s.mu.Lock()
	job, ok := s.jobs[strings.TrimSpace(name)]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return job.RunNow()
}

func (s *Service) jobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
