package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"DataDigest/internal/ports"
)

// CronScheduler fires a job once a day at the minute and hour of a
// "M H * * *" expression, evaluated in its location.
type CronScheduler struct {
	minute   int
	hour     int
	location *time.Location
	now      func() time.Time

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler parses a daily cron expression; other field values are rejected.
func NewCronScheduler(expr string, loc *time.Location) (*CronScheduler, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("cron expression %q: want 5 fields", expr)
	}
	for _, f := range fields[2:] {
		if f != "*" {
			return nil, fmt.Errorf("cron expression %q: only daily schedules are supported", expr)
		}
	}

	minute, err := strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("cron expression %q: invalid minute", expr)
	}
	hour, err := strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return nil, fmt.Errorf("cron expression %q: invalid hour", expr)
	}

	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{minute: minute, hour: hour, location: loc, now: time.Now}, nil
}

// NextRun returns the first trigger time strictly after t.
func (c *CronScheduler) NextRun(t time.Time) time.Time {
	local := t.In(c.location)
	next := time.Date(local.Year(), local.Month(), local.Day(), c.hour, c.minute, 0, 0, c.location)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, c.hour, c.minute, 0, 0, c.location)
	}
	return next
}

// Start runs job at every trigger until ctx is done or Stop is called.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		return nil
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	c.stop, c.done = stop, done

	go func() {
		defer close(done)
		for {
			wait := c.NextRun(c.now()).Sub(c.now())
			timer := time.NewTimer(wait)
			select {
			case t := <-timer.C:
				job(t.In(c.location))
			case <-ctx.Done():
				timer.Stop()
				return
			case <-stop:
				timer.Stop()
				return
			}
		}
	}()

	return nil
}

// Stop halts the timer goroutine and waits for a running job to return.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
