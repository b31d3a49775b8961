package repo

import (
	"context"
	"fmt"
	"time"

	dom "github.com/Okano804/ChatTODO/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, id string) (dom.Todo, error)
	List(ctx context.Context) ([]dom.Todo, error)
	Update(ctx context.Context, id string, taskContent string, deadline time.Time) (dom.Todo, error)
	SetCompleted(ctx context.Context, id string, completed bool) (dom.Todo, error)
	Delete(ctx context.Context, id string) error

	// DueInWindow returns incomplete todos whose deadline falls in (from, to]
	// and whose flag for th is still unset, soonest deadline first.
	DueInWindow(ctx context.Context, th dom.Threshold, from, to time.Time) ([]dom.Todo, error)
	// Overdue returns incomplete todos past their deadline at `before`,
	// soonest deadline first.
	Overdue(ctx context.Context, before time.Time) ([]dom.Todo, error)
	// ClaimNotification atomically flips the flag for th from false to true
	// and reports whether this caller won the flip. A completed todo is
	// never claimable.
	ClaimNotification(ctx context.Context, id string, th dom.Threshold) (bool, error)
}

const todoColumns = `id, creator_name, creator_email, task_content, deadline, is_completed,
		notified_overdue, notified_1day, notified_6hour, notified_2hour, notified_1hour, notified_30min,
		created_at`

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (id, creator_name, creator_email, task_content, deadline)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + todoColumns
	row := r.db.QueryRow(ctx, query, uuid.NewString(), t.CreatorName, t.CreatorEmail, t.TaskContent, t.Deadline)
	return scanTodo(row)
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	return scanTodo(r.db.QueryRow(ctx, query, id))
}

func (r *PGTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	// Incomplete first, soonest deadline first.
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY is_completed ASC, deadline ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTodos(rows)
}

func (r *PGTodoRepo) Update(ctx context.Context, id string, taskContent string, deadline time.Time) (dom.Todo, error) {
	query := `
		UPDATE todos SET task_content = $2, deadline = $3
		WHERE id = $1
		RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRow(ctx, query, id, taskContent, deadline))
}

func (r *PGTodoRepo) SetCompleted(ctx context.Context, id string, completed bool) (dom.Todo, error) {
	query := `
		UPDATE todos SET is_completed = $2
		WHERE id = $1
		RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRow(ctx, query, id, completed))
}

func (r *PGTodoRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	return err
}

func (r *PGTodoRepo) DueInWindow(ctx context.Context, th dom.Threshold, from, to time.Time) ([]dom.Todo, error) {
	col, err := flagColumn(th)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + todoColumns + `
		FROM todos
		WHERE is_completed = FALSE AND ` + col + ` = FALSE
		  AND deadline > $1 AND deadline <= $2
		ORDER BY deadline ASC`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTodos(rows)
}

func (r *PGTodoRepo) Overdue(ctx context.Context, before time.Time) ([]dom.Todo, error) {
	query := `SELECT ` + todoColumns + `
		FROM todos
		WHERE is_completed = FALSE AND deadline <= $1
		ORDER BY deadline ASC`
	rows, err := r.db.Query(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTodos(rows)
}

func (r *PGTodoRepo) ClaimNotification(ctx context.Context, id string, th dom.Threshold) (bool, error) {
	col, err := flagColumn(th)
	if err != nil {
		return false, err
	}
	// Single conditional update: only one caller sees RowsAffected == 1,
	// and only that caller goes on to send the email.
	tag, err := r.db.Exec(ctx,
		`UPDATE todos SET `+col+` = TRUE WHERE id = $1 AND `+col+` = FALSE AND is_completed = FALSE`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// flagColumn maps a threshold to its column. The whitelist keeps threshold
// names out of SQL string interpolation.
func flagColumn(th dom.Threshold) (string, error) {
	switch th.Name {
	case dom.ThresholdOverdue.Name:
		return "notified_overdue", nil
	case dom.Threshold1Day.Name:
		return "notified_1day", nil
	case dom.Threshold6Hour.Name:
		return "notified_6hour", nil
	case dom.Threshold2Hour.Name:
		return "notified_2hour", nil
	case dom.Threshold1Hour.Name:
		return "notified_1hour", nil
	case dom.Threshold30Min.Name:
		return "notified_30min", nil
	}
	return "", fmt.Errorf("unknown threshold %q", th.Name)
}

func scanTodo(row pgx.Row) (dom.Todo, error) {
	var t dom.Todo
	err := row.Scan(
		&t.ID, &t.CreatorName, &t.CreatorEmail, &t.TaskContent, &t.Deadline, &t.IsCompleted,
		&t.NotifiedOverdue, &t.Notified1Day, &t.Notified6Hour, &t.Notified2Hour, &t.Notified1Hour, &t.Notified30Min,
		&t.CreatedAt,
	)
	return t, err
}

func scanTodos(rows pgx.Rows) ([]dom.Todo, error) {
	var list []dom.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
