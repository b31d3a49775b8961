package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/Okano804/ChatTODO/internal/clock"
	dom "github.com/Okano804/ChatTODO/internal/domain"
	"github.com/Okano804/ChatTODO/internal/notify"
)

// windowStore filters an in-memory set with the same (from, to] semantics
// as the SQL query and records the windows it was asked for.
type windowStore struct {
	todos   []dom.Todo
	windows map[string][2]time.Time
	scanErr error
}

func (s *windowStore) DueInWindow(_ context.Context, th dom.Threshold, from, to time.Time) ([]dom.Todo, error) {
	if s.windows == nil {
		s.windows = map[string][2]time.Time{}
	}
	s.windows[th.Name] = [2]time.Time{from, to}
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	var out []dom.Todo
	for _, t := range s.todos {
		if t.IsCompleted || t.Notified(th) {
			continue
		}
		if t.Deadline.After(from) && !t.Deadline.After(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

type recordingDispatcher struct {
	dispatched []string // "id/threshold"
	digests    [][]dom.Todo
	fail       bool
}

func (d *recordingDispatcher) Dispatch(_ context.Context, id string, th dom.Threshold) notify.Outcome {
	d.dispatched = append(d.dispatched, id+"/"+th.Name)
	if d.fail {
		return notify.Outcome{Err: errors.New("smtp down")}
	}
	return notify.Outcome{OK: true, EmailID: "email-1"}
}

func (d *recordingDispatcher) DispatchDigest(_ context.Context, todos []dom.Todo) notify.Outcome {
	d.digests = append(d.digests, todos)
	return notify.Outcome{OK: true, EmailID: "email-1"}
}

var now = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func todoAt(id string, deadline time.Time) dom.Todo {
	return dom.Todo{ID: id, TaskContent: "task " + id, CreatorEmail: id + "@example.com", Deadline: deadline}
}

func TestSweepSelectsOnlyNewlyOverdue(t *testing.T) {
	is := is.New(t)
	handled := todoAt("old", now.Add(-2*time.Minute))
	handled.NotifiedOverdue = true // prior sweep already took it
	store := &windowStore{todos: []dom.Todo{
		handled,
		todoAt("fresh", now.Add(-30*time.Second)),
		todoAt("future", now.Add(10*time.Minute)),
	}}
	disp := &recordingDispatcher{}
	s := New(store, disp, clock.Fixed(now), time.Minute)

	sum := s.Sweep(context.Background(), false)
	is.True(sum.Success)
	is.Equal(sum.Count, 1)
	is.Equal(disp.dispatched, []string{"fresh/overdue"})
}

func TestSweepWindowBoundaries(t *testing.T) {
	is := is.New(t)
	store := &windowStore{todos: []dom.Todo{
		todoAt("at-now", now),                   // deadline == now: inclusive
		todoAt("at-edge", now.Add(-time.Minute)), // deadline == now-interval: exclusive
	}}
	disp := &recordingDispatcher{}
	s := New(store, disp, clock.Fixed(now), time.Minute)

	sum := s.Sweep(context.Background(), false)
	is.True(sum.Success)
	is.Equal(disp.dispatched, []string{"at-now/overdue"})

	// The overdue window itself must be exactly (now-interval, now].
	w := store.windows[dom.ThresholdOverdue.Name]
	is.Equal(w[0], now.Add(-time.Minute))
	is.Equal(w[1], now)
}

func TestSweepShiftsWindowByLead(t *testing.T) {
	is := is.New(t)
	// Deadline 30 minutes out: the 30min reminder fires now, nothing else.
	store := &windowStore{todos: []dom.Todo{todoAt("t1", now.Add(30 * time.Minute))}}
	disp := &recordingDispatcher{}
	s := New(store, disp, clock.Fixed(now), time.Minute)

	sum := s.Sweep(context.Background(), false)
	is.True(sum.Success)
	is.Equal(disp.dispatched, []string{"t1/30min"})

	w := store.windows[dom.Threshold1Day.Name]
	is.Equal(w[0], now.Add(-time.Minute).Add(24*time.Hour))
	is.Equal(w[1], now.Add(24*time.Hour))
}

func TestSweepOrdersByDeadlineAndSurvivesFailures(t *testing.T) {
	is := is.New(t)
	store := &windowStore{todos: []dom.Todo{
		todoAt("b", now.Add(-20*time.Second)),
		todoAt("a", now.Add(-40*time.Second)),
	}}
	disp := &recordingDispatcher{fail: true}
	s := New(store, disp, clock.Fixed(now), time.Minute)

	sum := s.Sweep(context.Background(), false)
	is.True(sum.Success) // scan succeeded; dispatch failures are per-todo
	is.Equal(sum.Count, 0)
	// Fake store preserves slice order; the SQL orders by deadline ASC.
	is.Equal(len(disp.dispatched), 2)
	is.Equal(len(sum.Details), 2)
	is.Equal(sum.Details[0].Reason, "smtp down")
}

func TestSweepDigestAggregatesOverdue(t *testing.T) {
	is := is.New(t)
	store := &windowStore{todos: []dom.Todo{
		todoAt("a", now.Add(-30*time.Second)),
		todoAt("b", now.Add(-10*time.Second)),
	}}
	disp := &recordingDispatcher{}
	s := New(store, disp, clock.Fixed(now), time.Minute)

	sum := s.Sweep(context.Background(), true)
	is.True(sum.Success)
	is.Equal(len(disp.digests), 1)
	is.Equal(len(disp.digests[0]), 2)
	is.Equal(len(disp.dispatched), 0) // no per-todo overdue mail in digest mode
}

func TestSweepScanFailureMarksSummary(t *testing.T) {
	is := is.New(t)
	store := &windowStore{scanErr: errors.New("pg down")}
	disp := &recordingDispatcher{}
	s := New(store, disp, clock.Fixed(now), time.Minute)

	sum := s.Sweep(context.Background(), false)
	is.True(!sum.Success)
	is.Equal(sum.Count, 0)
}

func TestCatchUpDispatchesOverdueImmediately(t *testing.T) {
	is := is.New(t)
	disp := &recordingDispatcher{}
	s := New(&windowStore{}, disp, clock.Fixed(now), time.Minute)

	out := s.CatchUp(context.Background(), "t1")
	is.True(out.OK)
	is.Equal(disp.dispatched, []string{"t1/overdue"})
}
