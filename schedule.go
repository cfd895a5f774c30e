package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/maxnilz/stockwatch/errors"
	"github.com/robfig/cron/v3"
)

type Job interface {
	Name() string
	Run(ctx context.Context) error
}

func NewScheduler(logger Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Scheduler fires jobs on cron schedules. Jobs run inline on the
// scheduler goroutine, one at a time: the wait between ticks is the
// only suspension point, and cancelling the context is the only way to
// stop mid-wait.
type Scheduler struct {
	jobs []*scheduledJob

	sync.Mutex
	running bool

	logger Logger
}

type scheduledJob struct {
	job      Job
	schedule cron.Schedule
	next     time.Time
}

// Every schedules job at the given fixed interval.
func (s *Scheduler) Every(interval time.Duration, job Job) error {
	return s.Schedule(fmt.Sprintf("@every %s", interval), job)
}

func (s *Scheduler) Schedule(spec string, job Job) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return errors.Newf(errors.InvalidConfig, err, "invalid cron spec")
	}
	s.jobs = append(s.jobs, &scheduledJob{job: job, schedule: schedule})
	return nil
}

func (s *Scheduler) Run(ctx context.Context) {
	s.Lock()
	if s.running {
		s.Unlock()
		return
	}
	s.running = true
	s.Unlock()
	s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	now := time.Now()
	for _, it := range s.jobs {
		it.next = it.schedule.Next(now)
		s.logger.Debug("schedule", "now", now, "job", it.job.Name(), "next", it.next)
	}
	for {
		sort.Sort(byTime(s.jobs))
		var timer *time.Timer
		if len(s.jobs) == 0 || s.jobs[0].next.IsZero() {
			// If there are no entries yet, just sleep - it still handles
			// stop requests.
			timer = time.NewTimer(100000 * time.Hour)
		} else {
			timer = time.NewTimer(s.jobs[0].next.Sub(now))
		}

		select {
		case now = <-timer.C:
			// Run every job whose next time was less than now.
			for _, it := range s.jobs {
				if it.next.After(now) || it.next.IsZero() {
					break
				}
				s.runJob(ctx, it.job)
				it.next = it.schedule.Next(now)
				s.logger.Debug("schedule job", "now", now, "job", it.job.Name(), "next", it.next)
			}
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	if err := job.Run(ctx); err != nil {
		s.logger.Error(err, "job failed", "job", job.Name())
	}
}

func (s *Scheduler) Stop() {
	s.Lock()
	defer s.Unlock()
	s.running = false
}

// byTime sorts the job array by next fire time, with zero times at the end.
type byTime []*scheduledJob

func (s byTime) Len() int      { return len(s) }
func (s byTime) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s byTime) Less(i, j int) bool {
	if s[i].next.IsZero() {
		return false
	}
	if s[j].next.IsZero() {
		return true
	}
	return s[i].next.Before(s[j].next)
}
