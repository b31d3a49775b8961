// Package notify decides whether an alert is still owed for a TODO,
// renders it and delivers it, recording the send so repeated triggers
// stay silent.
package notify

import (
	"context"
	"errors"
	"log"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/Okano804/ChatTODO/internal/clock"
	dom "github.com/Okano804/ChatTODO/internal/domain"
)

// Store is the slice of the repository the dispatcher needs.
type Store interface {
	GetByID(ctx context.Context, id string) (dom.Todo, error)
	ClaimNotification(ctx context.Context, id string, th dom.Threshold) (bool, error)
}

// Outcome describes one dispatch attempt. It is a value, never a panic:
// callers on the fire-and-forget path log it and move on.
type Outcome struct {
	OK      bool
	Skipped string // non-empty when no mail was owed (completed, already sent, ...)
	EmailID string
	Err     error
}

type Dispatcher struct {
	store  Store
	mailer Mailer
	zone   clock.Zone
	boss   string
}

func NewDispatcher(store Store, mailer Mailer, zone clock.Zone, bossEmail string) *Dispatcher {
	return &Dispatcher{store: store, mailer: mailer, zone: zone, boss: bossEmail}
}

// Dispatch sends the alert for one TODO and threshold, at most once.
// It re-fetches the row so a toggle or edit racing the sweep is seen,
// then claims the flag atomically; only the claim winner sends.
func (d *Dispatcher) Dispatch(ctx context.Context, id string, th dom.Threshold) Outcome {
	t, err := d.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Outcome{Skipped: "todo not found"}
		}
		return Outcome{Err: err}
	}
	if t.IsCompleted {
		// Completed todos never notify; treated as a no-op success.
		return Outcome{OK: true, Skipped: "already completed"}
	}

	claimed, err := d.store.ClaimNotification(ctx, id, th)
	if err != nil {
		return Outcome{Err: err}
	}
	if !claimed {
		return Outcome{OK: true, Skipped: "already notified"}
	}

	subject, html, err := d.renderSingle(t, th)
	if err != nil {
		return Outcome{Err: err}
	}
	emailID, err := d.mailer.Send(ctx, d.recipients(t.CreatorEmail), subject, html)
	if err != nil {
		return Outcome{Err: err}
	}
	log.Printf("notification sent: todo=%s threshold=%s email=%s", t.ID, th.Name, emailID)
	return Outcome{OK: true, EmailID: emailID}
}

// DispatchDigest sends one aggregate overdue email for a sweep's worth of
// todos. Each todo is claimed individually first; only claim winners are
// listed, so an overlapping sweep cannot double-report any of them.
func (d *Dispatcher) DispatchDigest(ctx context.Context, todos []dom.Todo) Outcome {
	var included []dom.Todo
	for _, t := range todos {
		claimed, err := d.store.ClaimNotification(ctx, t.ID, dom.ThresholdOverdue)
		if err != nil {
			log.Printf("digest claim failed: todo=%s: %v", t.ID, err)
			continue
		}
		if claimed {
			included = append(included, t)
		}
	}
	if len(included) == 0 {
		return Outcome{OK: true, Skipped: "nothing to notify"}
	}

	subject, html, err := d.renderDigest(included)
	if err != nil {
		return Outcome{Err: err}
	}
	to := d.recipients(creatorEmails(included)...)
	emailID, err := d.mailer.Send(ctx, to, subject, html)
	if err != nil {
		return Outcome{Err: err}
	}
	log.Printf("digest sent: todos=%d email=%s", len(included), emailID)
	return Outcome{OK: true, EmailID: emailID}
}

// recipients is boss plus creators, deduplicated, boss first.
func (d *Dispatcher) recipients(creators ...string) []string {
	seen := map[string]bool{d.boss: true}
	out := []string{d.boss}
	for _, c := range creators {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func creatorEmails(todos []dom.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.CreatorEmail)
	}
	sort.Strings(out)
	return out
}
