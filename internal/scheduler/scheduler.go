package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/constants"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type entry struct {
	task    Task
	entryID cron.EntryID
}

// Scheduler runs delayed and recurring sends through the ordinary send,
// bulk and sync services.
type Scheduler struct {
	cron    *cron.Cron
	sender  service.SendService
	bulk    service.BulkService
	syncer  service.SyncService
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time

	mu    sync.Mutex
	tasks map[string]*entry
}

func New(sender service.SendService, bulk service.BulkService, syncer service.SyncService,
	metrics *metrics.Metrics, logger *zap.Logger, config *config.Config) (*Scheduler, error) {
	location := time.Local
	if tz := config.Scheduler.Timezone; tz != "" {
		loaded, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("failed to load scheduler timezone %q: %w", tz, err)
		}
		location = loaded
	}

	cronLogger := cronLog{logger: logger.Sugar()}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger)),
		),
		sender:  sender,
		bulk:    bulk,
		syncer:  syncer,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		tasks:   make(map[string]*entry),
	}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop prevents new runs and waits for running jobs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out with jobs still running")
		return ctx.Err()
	}
}

func (s *Scheduler) ScheduleAt(task Task, at time.Time) (Task, error) {
	if !at.After(s.now()) {
		return Task{}, invalid(ErrPastTrigger)
	}

	task.At = &at
	task.Cron = ""
	return s.add(task, once{at: at})
}

func (s *Scheduler) ScheduleCron(task Task, spec string) (Task, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return Task{}, invalid(fmt.Errorf("%w: %v", ErrInvalidCron, err))
	}

	task.At = nil
	task.Cron = spec
	return s.add(task, schedule)
}

func (s *Scheduler) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[id]
	if !ok {
		return service.NewServiceError(constants.ErrCodeScheduleNotFound, ErrTaskNotFound)
	}

	s.cron.Remove(e.entryID)
	delete(s.tasks, id)
	s.logger.Info("Scheduled task cancelled", zap.String("taskID", id))

	return nil
}

func (s *Scheduler) Get(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[id]
	if !ok {
		return Task{}, service.NewServiceError(constants.ErrCodeScheduleNotFound, ErrTaskNotFound)
	}

	return s.snapshot(e), nil
}

// List returns the pending tasks, oldest first.
func (s *Scheduler) List() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]Task, 0, len(s.tasks))
	for _, e := range s.tasks {
		tasks = append(tasks, s.snapshot(e))
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	return tasks
}

func (s *Scheduler) add(task Task, schedule cron.Schedule) (Task, error) {
	if err := task.validate(); err != nil {
		return Task{}, invalid(err)
	}

	task.ID = uuid.NewString()
	task.CreatedAt = s.now()
	task.Runs = 0
	task.LastRunAt = nil
	task.LastError = ""

	s.mu.Lock()
	defer s.mu.Unlock()

	id := task.ID
	entryID := s.cron.Schedule(schedule, cron.FuncJob(func() { s.run(id) }))
	e := &entry{task: task, entryID: entryID}
	s.tasks[id] = e

	s.logger.Info("Task scheduled",
		zap.String("taskID", id),
		zap.String("kind", string(task.Kind)),
		zap.String("cron", task.Cron),
		zap.Timep("at", task.At))

	return s.snapshot(e), nil
}

func (s *Scheduler) run(id string) {
	s.mu.Lock()
	e, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	task := e.task
	s.mu.Unlock()

	err := s.execute(context.Background(), task)

	status := "success"
	if err != nil {
		status = "failed"
		s.logger.Error("Scheduled task failed",
			zap.String("taskID", id),
			zap.String("kind", string(task.Kind)),
			zap.Error(err))
	}
	s.metrics.RecordScheduledRun(string(task.Kind), status)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok = s.tasks[id]
	if !ok {
		return
	}

	ran := s.now()
	e.task.Runs++
	e.task.LastRunAt = &ran
	e.task.LastError = ""
	if err != nil {
		e.task.LastError = err.Error()
	}

	if e.task.oneShot() {
		s.cron.Remove(e.entryID)
		delete(s.tasks, id)
	}
}

func (s *Scheduler) execute(ctx context.Context, task Task) error {
	switch task.Kind {
	case KindMessage:
		_, err := s.sender.SendText(ctx, service.SendTextCommand{Phone: task.Phone, Body: task.Body})
		return err

	case KindBulk:
		result, err := s.bulk.SendToContacts(ctx, service.BulkSendCommand{Body: task.Body, Status: task.Status})
		if err == nil {
			s.logger.Info("Scheduled bulk send finished",
				zap.String("taskID", task.ID),
				zap.Int("sent", result.Sent),
				zap.Int("failed", result.Failed))
		}
		return err

	case KindSync:
		_, err := s.syncer.Sync(ctx)
		return err

	default:
		return ErrUnknownKind
	}
}

// snapshot must be called with mu held.
func (s *Scheduler) snapshot(e *entry) Task {
	task := e.task
	if next := s.cron.Entry(e.entryID).Next; !next.IsZero() {
		task.NextRunAt = &next
	} else if task.At != nil {
		at := *task.At
		task.NextRunAt = &at
	}
	return task
}

func invalid(err error) error {
	return service.NewServiceError(constants.ErrCodeInvalidSchedule, err)
}

// cronLog routes the cron library's logging into zap.
type cronLog struct {
	logger *zap.SugaredLogger
}

func (l cronLog) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLog) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
