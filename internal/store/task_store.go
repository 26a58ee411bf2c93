package store

import (
	"context"
	"log"
	"sync"

	"github.com/devtrack/taskboard/internal/client"
	"github.com/devtrack/taskboard/internal/models"
	"github.com/devtrack/taskboard/internal/notify"
)

// TaskStore is the authoritative in-memory cache of the task list and
// developer roster for the current identity. Every mutation awaits the
// server call, then awaits a full reload before returning; local state
// is never patched incrementally.
//
// Two operations running concurrently may interleave their reloads, and
// the last reload to finish determines the visible collection. That is
// an accepted race for a single-session client, not a bug to fix
// silently.
type TaskStore struct {
	api      *client.Client
	notifier notify.Notifier
	logger   *log.Logger

	mu         sync.Mutex
	user       *models.User
	tasks      []models.Task
	developers []models.Developer
	loading    bool
}

func NewTaskStore(api *client.Client, notifier notify.Notifier, logger *log.Logger) *TaskStore {
	return &TaskStore{
		api:      api,
		notifier: notifier,
		logger:   logger,
	}
}

// Bind subscribes the store to identity changes: a present identity
// loads both collections, an absent one clears them so nothing from a
// previous identity leaks into the next session.
func (s *TaskStore) Bind(ctx context.Context, auth *AuthStore) {
	auth.Subscribe(func(u *models.User) {
		if u == nil {
			s.clear()
			return
		}

		s.mu.Lock()
		s.user = u
		s.mu.Unlock()

		if err := s.LoadTasks(ctx); err != nil {
			s.logger.Printf("load tasks on identity change: %v", err)
		}
		if err := s.LoadDevelopers(ctx); err != nil {
			s.logger.Printf("load developers on identity change: %v", err)
		}
	})
}

// Tasks returns a copy of the cached task list.
func (s *TaskStore) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Developers returns a copy of the cached roster.
func (s *TaskStore) Developers() []models.Developer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Developer, len(s.developers))
	copy(out, s.developers)
	return out
}

// Loading reports whether any store operation is in flight.
func (s *TaskStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *TaskStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.tasks = nil
	s.developers = nil
}

func (s *TaskStore) identity() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *TaskStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// LoadTasks replaces the cached task list from the server. Without an
// identity it is a no-op and makes no request. On failure the cached
// list is left as-is — stale but intact — so a transient error does not
// blank the board.
func (s *TaskStore) LoadTasks(ctx context.Context) error {
	if s.identity() == nil {
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	tasks, err := s.api.Tasks(ctx)
	if err != nil {
		s.logger.Printf("load tasks: %v", err)
		s.notifier.Failure("Could not load tasks.")
		return err
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

// LoadDevelopers replaces the cached roster; same failure policy as
// LoadTasks.
func (s *TaskStore) LoadDevelopers(ctx context.Context) error {
	if s.identity() == nil {
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	developers, err := s.api.Developers(ctx)
	if err != nil {
		s.logger.Printf("load developers: %v", err)
		s.notifier.Failure("Could not load developers.")
		return err
	}

	s.mu.Lock()
	s.developers = developers
	s.mu.Unlock()
	return nil
}

// AddTask creates a task, then reloads the list. On failure the error
// is returned so the caller can keep its input.
func (s *TaskStore) AddTask(ctx context.Context, req client.TaskRequest) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if _, err := s.api.AddTask(ctx, req); err != nil {
		s.logger.Printf("add task: %v", err)
		s.notifier.Failure("Could not add task.")
		return err
	}

	return s.LoadTasks(ctx)
}

// UpdateTask applies a partial update, reloads the list, and returns
// the updated task as the server echoed it.
func (s *TaskStore) UpdateTask(ctx context.Context, id int64, patch client.TaskPatch) (*models.Task, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	updated, err := s.api.UpdateTask(ctx, id, patch)
	if err != nil {
		s.logger.Printf("update task %d: %v", id, err)
		s.notifier.Failure("Could not update task.")
		return nil, err
	}

	if err := s.LoadTasks(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes a task, then reloads the list.
func (s *TaskStore) DeleteTask(ctx context.Context, id int64) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.DeleteTask(ctx, id); err != nil {
		s.logger.Printf("delete task %d: %v", id, err)
		s.notifier.Failure("Could not delete task.")
		return err
	}

	return s.LoadTasks(ctx)
}

// AssignTask assigns a task to a developer, then reloads the list.
func (s *TaskStore) AssignTask(ctx context.Context, taskID int64, developerID string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.AssignTask(ctx, taskID, developerID); err != nil {
		s.logger.Printf("assign task %d: %v", taskID, err)
		s.notifier.Failure("Could not assign task.")
		return err
	}

	return s.LoadTasks(ctx)
}

// AddDeveloperToTeam adds a developer to a manager's team, then reloads
// the task list. The team roster itself lives on the identity, so the
// caller refreshes it through AuthStore.FetchUser.
func (s *TaskStore) AddDeveloperToTeam(ctx context.Context, developerID, managerID string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.AddDeveloperToTeam(ctx, managerID, developerID); err != nil {
		s.logger.Printf("add developer %s to team: %v", developerID, err)
		s.notifier.Failure("Could not add developer to team.")
		return err
	}

	return s.LoadTasks(ctx)
}
