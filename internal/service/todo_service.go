package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/Okano804/ChatTODO/internal/cache"
	"github.com/Okano804/ChatTODO/internal/clock"
	dom "github.com/Okano804/ChatTODO/internal/domain"
	"github.com/Okano804/ChatTODO/internal/repo"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrMissingField = errors.New("creator_name, creator_email and task_content are required")
)

// CatchUpFunc triggers the immediate overdue check after a mutation; it
// adapts the sweeper without the service importing it.
type CatchUpFunc func(ctx context.Context, id string) (ok bool, reason string)

type TodoService struct {
	repo    repo.TodoRepo
	cache   *cache.TodoCache
	clk     clock.Clock
	catchUp CatchUpFunc
	sf      singleflight.Group

	// dispatchTimeout bounds the detached fire-and-forget dispatch.
	dispatchTimeout time.Duration
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
// catchUp may be nil in tests that don't exercise notifications.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache, clk clock.Clock, catchUp CatchUpFunc) *TodoService {
	return &TodoService{repo: r, cache: c, clk: clk, catchUp: catchUp, dispatchTimeout: 30 * time.Second}
}

func (s *TodoService) Create(ctx context.Context, creatorName, creatorEmail, taskContent string, deadline time.Time) (dom.Todo, error) {
	creatorName = strings.TrimSpace(creatorName)
	creatorEmail = strings.TrimSpace(creatorEmail)
	taskContent = strings.TrimSpace(taskContent)
	if creatorName == "" || creatorEmail == "" || taskContent == "" {
		return dom.Todo{}, ErrMissingField
	}

	t, err := s.repo.Create(ctx, dom.Todo{
		CreatorName:  creatorName,
		CreatorEmail: creatorEmail,
		TaskContent:  taskContent,
		Deadline:     deadline,
	})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	// A deadline that is already past gets its alert now, not at the
	// next scheduled sweep.
	s.notifyIfOverdue(t)
	return t, nil
}

func (s *TodoService) List(ctx context.Context) ([]dom.Todo, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("list", func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.List(ctx)
}

func (s *TodoService) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

// Update edits content and/or deadline. Nil means "leave unchanged".
func (s *TodoService) Update(ctx context.Context, id string, taskContent *string, deadline *time.Time) (dom.Todo, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return dom.Todo{}, err
	}
	newContent := existing.TaskContent
	if taskContent != nil {
		newContent = strings.TrimSpace(*taskContent)
		if newContent == "" {
			return dom.Todo{}, ErrMissingField
		}
	}
	newDeadline := existing.Deadline
	if deadline != nil {
		newDeadline = *deadline
	}

	t, err := s.repo.Update(ctx, id, newContent, newDeadline)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	// An edit can move the deadline into the past; notify right away.
	s.notifyIfOverdue(t)
	return t, nil
}

func (s *TodoService) SetCompleted(ctx context.Context, id string, completed bool) (dom.Todo, error) {
	t, err := s.repo.SetCompleted(ctx, id, completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// Overdue lists incomplete todos already past their deadline.
func (s *TodoService) Overdue(ctx context.Context) ([]dom.Todo, error) {
	now := s.clk.Now()
	if s.cache != nil {
		v, err, _ := s.sf.Do("overdue", func() (interface{}, error) {
			if list, err := s.cache.GetOverdue(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.Overdue(ctx, now)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetOverdue(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.Overdue(ctx, now)
}

// notifyIfOverdue fires the catch-up dispatch without blocking the
// mutation response. The goroutine gets its own context: the dispatch
// completes or fails on its own, and a failure only ever reaches the log.
func (s *TodoService) notifyIfOverdue(t dom.Todo) {
	if s.catchUp == nil || t.IsCompleted || t.Deadline.After(s.clk.Now()) {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
		defer cancel()
		if ok, reason := s.catchUp(ctx, t.ID); !ok {
			log.Printf("catch-up notification failed: todo=%s: %s", t.ID, reason)
		}
	}()
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}
