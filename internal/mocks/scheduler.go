package mocks

import (
	"time"

	"github.com/Behyna/whatsapp-relay/internal/scheduler"
	"github.com/stretchr/testify/mock"
)

type Scheduler struct {
	mock.Mock
}

func (s *Scheduler) ScheduleAt(task scheduler.Task, at time.Time) (scheduler.Task, error) {
	args := s.Called(task, at)
	return args.Get(0).(scheduler.Task), args.Error(1)
}

func (s *Scheduler) ScheduleCron(task scheduler.Task, spec string) (scheduler.Task, error) {
	args := s.Called(task, spec)
	return args.Get(0).(scheduler.Task), args.Error(1)
}

func (s *Scheduler) Cancel(id string) error {
	args := s.Called(id)
	return args.Error(0)
}

func (s *Scheduler) List() []scheduler.Task {
	args := s.Called()
	tasks, _ := args.Get(0).([]scheduler.Task)
	return tasks
}
