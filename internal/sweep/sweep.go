// Package sweep is the overdue detector: on each external trigger it
// finds TODOs whose alert moment newly fell inside the look-back window
// and hands them to the dispatcher.
package sweep

import (
	"context"
	"log"
	"time"

	"github.com/Okano804/ChatTODO/internal/clock"
	dom "github.com/Okano804/ChatTODO/internal/domain"
	"github.com/Okano804/ChatTODO/internal/notify"
)

// Store is the slice of the repository the sweeper needs.
type Store interface {
	DueInWindow(ctx context.Context, th dom.Threshold, from, to time.Time) ([]dom.Todo, error)
}

// Dispatcher sends one alert, or one digest, at most once per flag.
type Dispatcher interface {
	Dispatch(ctx context.Context, id string, th dom.Threshold) notify.Outcome
	DispatchDigest(ctx context.Context, todos []dom.Todo) notify.Outcome
}

// Detail is one dispatch attempt inside a sweep, reported back to the
// scheduled trigger.
type Detail struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Threshold string `json:"threshold"`
	OK        bool   `json:"ok"`
	Reason    string `json:"reason,omitempty"`
}

// Summary is the result of one sweep. Success is false only when the
// scan itself failed; individual dispatch failures land in Details.
type Summary struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Details []Detail `json:"details,omitempty"`
}

type Sweeper struct {
	store    Store
	disp     Dispatcher
	clk      clock.Clock
	interval time.Duration
}

func New(store Store, disp Dispatcher, clk clock.Clock, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, disp: disp, clk: clk, interval: interval}
}

// Sweep scans every threshold over the window (now-interval, now]: a TODO
// is eligible for threshold th when deadline-lead falls inside the window,
// it is incomplete and th's flag is unset. The bounded look-back keeps a
// sweep from rescanning transitions an earlier run already handled; the
// atomic claim in the dispatcher covers overlapping runs.
//
// With digest=true the overdue threshold is aggregated into a single
// email instead of per-TODO mail; reminder thresholds stay per-TODO.
func (s *Sweeper) Sweep(ctx context.Context, digest bool) Summary {
	now := s.clk.Now()
	sum := Summary{Success: true}

	for _, th := range dom.Thresholds {
		// Shift the window by the lead: deadline-lead in (now-interval, now]
		// is the same as deadline in (now-interval+lead, now+lead].
		from := now.Add(-s.interval).Add(th.Lead)
		to := now.Add(th.Lead)
		todos, err := s.store.DueInWindow(ctx, th, from, to)
		if err != nil {
			log.Printf("sweep scan failed: threshold=%s: %v", th.Name, err)
			sum.Success = false
			continue
		}
		if digest && th.Name == dom.ThresholdOverdue.Name {
			sum.merge(s.digestOverdue(ctx, todos))
			continue
		}
		for _, t := range todos {
			sum.add(t, th, s.disp.Dispatch(ctx, t.ID, th))
		}
	}
	return sum
}

// CatchUp dispatches the overdue alert for a single TODO right away,
// used by create/edit when the stored deadline is already in the past
// instead of waiting for the next scheduled sweep.
func (s *Sweeper) CatchUp(ctx context.Context, id string) notify.Outcome {
	return s.disp.Dispatch(ctx, id, dom.ThresholdOverdue)
}

func (s *Sweeper) digestOverdue(ctx context.Context, todos []dom.Todo) Summary {
	sum := Summary{Success: true}
	if len(todos) == 0 {
		return sum
	}
	out := s.disp.DispatchDigest(ctx, todos)
	for _, t := range todos {
		sum.add(t, dom.ThresholdOverdue, out)
	}
	return sum
}

func (sum *Summary) add(t dom.Todo, th dom.Threshold, out notify.Outcome) {
	d := Detail{ID: t.ID, Task: t.TaskContent, Threshold: th.Name, OK: out.OK, Reason: out.Skipped}
	if out.Err != nil {
		// One TODO's failure never aborts the rest of the sweep.
		log.Printf("dispatch failed: todo=%s threshold=%s: %v", t.ID, th.Name, out.Err)
		d.Reason = out.Err.Error()
	}
	if out.OK && out.Skipped == "" {
		sum.Count++
	}
	sum.Details = append(sum.Details, d)
}

func (sum *Summary) merge(other Summary) {
	if !other.Success {
		sum.Success = false
	}
	sum.Count += other.Count
	sum.Details = append(sum.Details, other.Details...)
}
