package domain

import "time"

// Domain entity: the single source of truth for a tracked TODO.
// Does not depend on Gin, Postgres or Redis.
type Todo struct {
	ID           string
	CreatorName  string
	CreatorEmail string
	TaskContent  string
	Deadline     time.Time
	IsCompleted  bool

	NotifiedOverdue bool
	Notified1Day    bool
	Notified6Hour   bool
	Notified2Hour   bool
	Notified1Hour   bool
	Notified30Min   bool

	CreatedAt time.Time
}

// Notified reports whether the alert for the given threshold was already sent.
func (t Todo) Notified(th Threshold) bool {
	switch th.Name {
	case ThresholdOverdue.Name:
		return t.NotifiedOverdue
	case Threshold1Day.Name:
		return t.Notified1Day
	case Threshold6Hour.Name:
		return t.Notified6Hour
	case Threshold2Hour.Name:
		return t.Notified2Hour
	case Threshold1Hour.Name:
		return t.Notified1Hour
	case Threshold30Min.Name:
		return t.Notified30Min
	}
	return false
}
