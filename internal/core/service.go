package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"weektrack/pkg/domain"
)

// Gateway loads and saves the serialized tree. Implementations live in
// internal/persistence and internal/infra.
type Gateway interface {
	// Load returns the last saved blob. found is false when nothing was saved yet.
	Load(ctx context.Context) (blob string, found bool, err error)
	// Save replaces the stored blob.
	Save(ctx context.Context, blob string) error
}

// Option configures a Service.
type Option func(*Service)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the wall clock used for metric durations.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithMetrics installs a metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithIDGenerator overrides identifier generation for new entities.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Service) {
		if gen != nil {
			s.store.newID = gen
		}
	}
}

// Service applies store mutations one at a time and writes a full snapshot
// through the gateway after each successful one. Persistence is best-effort:
// a failed save is logged and counted but the in-memory tree stays authoritative.
type Service struct {
	mu      sync.Mutex
	store   *ProjectStore
	gateway Gateway
	logger  Logger
	clock   Clock
	metrics MetricsRecorder
}

func newService(gw Gateway, opts ...Option) *Service {
	s := &Service{
		store:   NewProjectStore(nil),
		gateway: gw,
		logger:  noopLogger{},
		clock:   ClockFunc(time.Now),
		metrics: noopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService returns a service without persistence.
func NewInMemoryService(opts ...Option) *Service {
	return newService(nil, opts...)
}

// Open restores the tree from the gateway. When no snapshot exists yet the
// example project is seeded and persisted immediately. A snapshot that cannot
// be decoded is reported instead of being overwritten.
func Open(ctx context.Context, gw Gateway, opts ...Option) (*Service, error) {
	if gw == nil {
		return nil, fmt.Errorf("open service: nil gateway")
	}
	s := newService(gw, opts...)
	start := s.clock.Now()
	blob, found, err := gw.Load(ctx)
	if err != nil {
		s.metrics.Observe(ctx, "load", false, s.clock.Now().Sub(start))
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if !found || strings.TrimSpace(blob) == "" {
		p := s.store.SeedSample()
		s.logger.Info("no snapshot found, seeded example project", "project_id", p.ID)
		s.persist(ctx)
		s.metrics.Observe(ctx, "load", true, s.clock.Now().Sub(start))
		return s, nil
	}
	if err := s.store.Restore(blob); err != nil {
		s.metrics.Observe(ctx, "load", false, s.clock.Now().Sub(start))
		return nil, err
	}
	s.logger.Debug("snapshot restored", "projects", s.store.Len(), "bytes", len(blob))
	s.metrics.Observe(ctx, "load", true, s.clock.Now().Sub(start))
	return s, nil
}

// FindProject returns a copy of the project with id.
func (s *Service) FindProject(id domain.ID) (domain.Project, bool) { return s.store.FindProject(id) }

// Projects returns a snapshot of every project for rendering.
func (s *Service) Projects() []domain.Project { return s.store.Projects() }

// Export serializes the current tree.
func (s *Service) Export() (string, error) { return s.store.Serialize() }

// Import replaces the whole tree with blob and persists it.
func (s *Service) Import(ctx context.Context, blob string) error {
	return s.mutate(ctx, "import", func(st *ProjectStore) error {
		return st.Restore(blob)
	})
}

// AddProject creates a project with its default week and category.
func (s *Service) AddProject(ctx context.Context, name string) (domain.Project, error) {
	var created domain.Project
	err := s.mutate(ctx, "add_project", func(st *ProjectStore) error {
		var err error
		created, err = st.AddProject(name)
		return err
	})
	return created, err
}

// AddWeek appends the next week to a project.
func (s *Service) AddWeek(ctx context.Context, projectID domain.ID, dates string) (domain.Week, error) {
	var created domain.Week
	err := s.mutate(ctx, "add_week", func(st *ProjectStore) error {
		var err error
		created, err = st.AddWeek(projectID, dates)
		return err
	})
	return created, err
}

// AddCategory appends a category to a week.
func (s *Service) AddCategory(ctx context.Context, projectID domain.ID, weekNumber int, name string) (domain.Category, error) {
	var created domain.Category
	err := s.mutate(ctx, "add_category", func(st *ProjectStore) error {
		var err error
		created, err = st.AddCategory(projectID, weekNumber, name)
		return err
	})
	return created, err
}

// AddTask appends a task to a category of the project's latest week.
func (s *Service) AddTask(ctx context.Context, projectID domain.ID, categoryName, description string) (domain.Task, error) {
	var created domain.Task
	err := s.mutate(ctx, "add_task", func(st *ProjectStore) error {
		var err error
		created, err = st.AddTask(projectID, categoryName, description)
		return err
	})
	return created, err
}

// ToggleTaskCompletion flips a task's completed flag.
func (s *Service) ToggleTaskCompletion(ctx context.Context, taskID domain.ID) (domain.Task, error) {
	var updated domain.Task
	err := s.mutate(ctx, "toggle_task", func(st *ProjectStore) error {
		var err error
		updated, err = st.ToggleTaskCompletion(taskID)
		return err
	})
	return updated, err
}

// RenameEntity renames a project, week, category or task.
func (s *Service) RenameEntity(ctx context.Context, kind domain.EntityKind, addr domain.Address, newName string) error {
	return s.mutate(ctx, "rename_"+string(kind), func(st *ProjectStore) error {
		return st.RenameEntity(kind, addr, newName)
	})
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, taskID domain.ID) error {
	return s.mutate(ctx, "delete_task", func(st *ProjectStore) error {
		return st.DeleteTask(taskID)
	})
}

// DeleteCategory removes every category with the given name from a week.
func (s *Service) DeleteCategory(ctx context.Context, projectID domain.ID, weekNumber int, name string) (int, error) {
	var removed int
	err := s.mutate(ctx, "delete_category", func(st *ProjectStore) error {
		var err error
		removed, err = st.DeleteCategory(projectID, weekNumber, name)
		return err
	})
	return removed, err
}

// DeleteWeek removes a week and everything below it.
func (s *Service) DeleteWeek(ctx context.Context, projectID domain.ID, weekNumber int) (int, error) {
	var removed int
	err := s.mutate(ctx, "delete_week", func(st *ProjectStore) error {
		var err error
		removed, err = st.DeleteWeek(projectID, weekNumber)
		return err
	})
	return removed, err
}

// DeleteProject removes a project and its subtree.
func (s *Service) DeleteProject(ctx context.Context, projectID domain.ID) error {
	return s.mutate(ctx, "delete_project", func(st *ProjectStore) error {
		return st.DeleteProject(projectID)
	})
}

func (s *Service) mutate(ctx context.Context, op string, fn func(*ProjectStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := s.clock.Now()
	if err := fn(s.store); err != nil {
		s.logRejected(op, err)
		s.metrics.Observe(ctx, op, false, s.clock.Now().Sub(start))
		return err
	}
	s.persist(ctx)
	s.metrics.Observe(ctx, op, true, s.clock.Now().Sub(start))
	return nil
}

func (s *Service) logRejected(op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Warn("operation target not found", "operation", op, "error", err)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrDuplicate):
		s.logger.Info("operation rejected", "operation", op, "error", err)
	default:
		s.logger.Error("operation failed", "operation", op, "error", err)
	}
}

// persist writes the snapshot. Failures are logged and recorded, never returned.
func (s *Service) persist(ctx context.Context) {
	if s.gateway == nil {
		return
	}
	start := s.clock.Now()
	blob, err := s.store.Serialize()
	if err == nil {
		err = s.gateway.Save(ctx, blob)
	}
	if err != nil {
		s.logger.Error("persist snapshot failed", "error", err)
		s.metrics.Observe(ctx, "persist", false, s.clock.Now().Sub(start))
		return
	}
	s.logger.Debug("snapshot persisted", "bytes", len(blob))
	s.metrics.Observe(ctx, "persist", true, s.clock.Now().Sub(start))
}
