package core

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"weektrack/pkg/domain"
)

// ProjectStore holds the project tree in memory. Every read returns a deep
// copy so callers never hold a live reference into the tree.
type ProjectStore struct {
	mu       sync.RWMutex
	projects []domain.Project
	newID    IDGenerator
}

// NewProjectStore constructs an empty store. A nil generator selects NewTimeOrderedID.
func NewProjectStore(gen IDGenerator) *ProjectStore {
	if gen == nil {
		gen = NewTimeOrderedID
	}
	return &ProjectStore{
		projects: []domain.Project{},
		newID:    gen,
	}
}

// Projects returns a snapshot of all projects in creation order.
func (s *ProjectStore) Projects() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Project, len(s.projects))
	for i, p := range s.projects {
		out[i] = p.Clone()
	}
	return out
}

// Len returns the number of projects.
func (s *ProjectStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

// FindProject returns the project with the given identifier.
func (s *ProjectStore) FindProject(id domain.ID) (domain.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := s.project(id); p != nil {
		return p.Clone(), true
	}
	return domain.Project{}, false
}

// FindWeek returns the week with the given number inside a project.
func (s *ProjectStore) FindWeek(projectID domain.ID, number int) (domain.Week, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.project(projectID)
	if p == nil {
		return domain.Week{}, false
	}
	if w := weekRef(p, number); w != nil {
		return w.Clone(), true
	}
	return domain.Week{}, false
}

// FindLatestWeek returns the last week appended to the project.
func (s *ProjectStore) FindLatestWeek(projectID domain.ID) (domain.Week, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.project(projectID)
	if p == nil {
		return domain.Week{}, false
	}
	if w := latestWeekRef(p); w != nil {
		return w.Clone(), true
	}
	return domain.Week{}, false
}

// FindCategory returns the first category named name in the addressed week.
func (s *ProjectStore) FindCategory(projectID domain.ID, weekNumber int, name string) (domain.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.project(projectID)
	if p == nil {
		return domain.Category{}, false
	}
	w := weekRef(p, weekNumber)
	if w == nil {
		return domain.Category{}, false
	}
	if c := categoryRef(w, name); c != nil {
		return c.Clone(), true
	}
	return domain.Category{}, false
}

// FindTask scans every project for the task.
func (s *ProjectStore) FindTask(id domain.ID) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t := s.task(id); t != nil {
		return *t, true
	}
	return domain.Task{}, false
}

// The helpers below return pointers into the tree and require s.mu to be held.

func (s *ProjectStore) project(id domain.ID) *domain.Project {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return &s.projects[i]
		}
	}
	return nil
}

func (s *ProjectStore) task(id domain.ID) *domain.Task {
	for pi := range s.projects {
		p := &s.projects[pi]
		for wi := range p.Weeks {
			w := &p.Weeks[wi]
			for ci := range w.Categories {
				c := &w.Categories[ci]
				for ti := range c.Tasks {
					if c.Tasks[ti].ID == id {
						return &c.Tasks[ti]
					}
				}
			}
		}
	}
	return nil
}

func weekRef(p *domain.Project, number int) *domain.Week {
	for i := range p.Weeks {
		if p.Weeks[i].Number == number {
			return &p.Weeks[i]
		}
	}
	return nil
}

func latestWeekRef(p *domain.Project) *domain.Week {
	if len(p.Weeks) == 0 {
		return nil
	}
	return &p.Weeks[len(p.Weeks)-1]
}

func categoryRef(w *domain.Week, name string) *domain.Category {
	for i := range w.Categories {
		if w.Categories[i].Name == name {
			return &w.Categories[i]
		}
	}
	return nil
}

func projectNotFound(id domain.ID) error {
	return domain.NotFoundError{Entity: domain.KindProject, Key: id.String()}
}

func weekNotFound(projectID domain.ID, number int) error {
	return domain.NotFoundError{Entity: domain.KindWeek, Key: fmt.Sprintf("%s/%d", projectID, number)}
}

func categoryNotFound(projectID domain.ID, number int, name string) error {
	return domain.NotFoundError{Entity: domain.KindCategory, Key: fmt.Sprintf("%s/%d/%s", projectID, number, name)}
}

func taskNotFound(id domain.ID) error {
	return domain.NotFoundError{Entity: domain.KindTask, Key: id.String()}
}

// required trims v and rejects it when nothing is left. Invalid UTF-8 is
// rejected too since JSON encoding would rewrite it to U+FFFD.
func required(field, v string) (string, error) {
	if !utf8.ValidString(v) {
		return "", domain.ValidationError{Field: field, Reason: "must be valid UTF-8"}
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", domain.ValidationError{Field: field}
	}
	return v, nil
}
