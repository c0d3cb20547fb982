package core

import (
	"fmt"
	"math"
	"slices"

	"weektrack/pkg/domain"
)

func (s *ProjectStore) newWeek(number int, dates, categoryName string) domain.Week {
	return domain.Week{
		ID:         s.newID(),
		Number:     number,
		Dates:      dates,
		Categories: []domain.Category{s.newCategory(categoryName)},
	}
}

func (s *ProjectStore) newCategory(name string) domain.Category {
	return domain.Category{ID: s.newID(), Name: name, Tasks: []domain.Task{}}
}

// AddProject appends a project seeded with week 1 and a "General Tasks" category.
func (s *ProjectStore) AddProject(name string) (domain.Project, error) {
	name, err := required("project name", name)
	if err != nil {
		return domain.Project{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.Project{
		ID:    s.newID(),
		Name:  name,
		Weeks: []domain.Week{s.newWeek(1, domain.DefaultWeekDates, domain.DefaultProjectCategory)},
	}
	s.projects = append(s.projects, p)
	return p.Clone(), nil
}

// AddWeek appends a week numbered one past the project's last week.
func (s *ProjectStore) AddWeek(projectID domain.ID, dates string) (domain.Week, error) {
	dates, err := required("week dates", dates)
	if err != nil {
		return domain.Week{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.project(projectID)
	if p == nil {
		return domain.Week{}, projectNotFound(projectID)
	}
	number := 1
	if last := latestWeekRef(p); last != nil {
		if last.Number >= math.MaxInt {
			return domain.Week{}, domain.ValidationError{Field: "week number", Reason: "is out of range"}
		}
		number = last.Number + 1
	}
	w := s.newWeek(number, dates, domain.DefaultWeekCategoryName)
	p.Weeks = append(p.Weeks, w)
	return w.Clone(), nil
}

// AddCategory appends an empty category to the addressed week. Names must be
// unique among the week's categories.
func (s *ProjectStore) AddCategory(projectID domain.ID, weekNumber int, name string) (domain.Category, error) {
	name, err := required("category name", name)
	if err != nil {
		return domain.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.project(projectID)
	if p == nil {
		return domain.Category{}, projectNotFound(projectID)
	}
	w := weekRef(p, weekNumber)
	if w == nil {
		return domain.Category{}, weekNotFound(projectID, weekNumber)
	}
	if categoryRef(w, name) != nil {
		return domain.Category{}, domain.DuplicateError{Entity: domain.KindCategory, Key: name}
	}
	c := s.newCategory(name)
	w.Categories = append(w.Categories, c)
	return c.Clone(), nil
}

// AddTask appends an incomplete task to the named category of the project's
// latest week. New tasks always land in the most recently added week.
func (s *ProjectStore) AddTask(projectID domain.ID, categoryName, description string) (domain.Task, error) {
	description, err := required("task description", description)
	if err != nil {
		return domain.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.project(projectID)
	if p == nil {
		return domain.Task{}, projectNotFound(projectID)
	}
	w := latestWeekRef(p)
	if w == nil {
		return domain.Task{}, domain.NotFoundError{Entity: domain.KindWeek, Key: fmt.Sprintf("%s/latest", projectID)}
	}
	c := categoryRef(w, categoryName)
	if c == nil {
		return domain.Task{}, categoryNotFound(projectID, w.Number, categoryName)
	}
	t := domain.Task{ID: s.newID(), Description: description}
	c.Tasks = append(c.Tasks, t)
	return t, nil
}

// ToggleTaskCompletion flips the completed flag of the first task carrying id.
func (s *ProjectStore) ToggleTaskCompletion(id domain.ID) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.task(id)
	if t == nil {
		return domain.Task{}, taskNotFound(id)
	}
	t.Completed = !t.Completed
	return *t, nil
}

// RenameEntity dispatches a rename by kind. For weeks the new name replaces
// the date label, never the number. An empty name leaves the tree untouched.
func (s *ProjectStore) RenameEntity(kind domain.EntityKind, addr domain.Address, newName string) error {
	switch kind {
	case domain.KindProject:
		return s.RenameProject(addr.ProjectID, newName)
	case domain.KindTask:
		return s.RenameTask(addr.TaskID, newName)
	case domain.KindWeek:
		return s.RenameWeek(addr.ProjectID, addr.WeekNumber, newName)
	case domain.KindCategory:
		return s.RenameCategory(addr.ProjectID, addr.WeekNumber, addr.CategoryName, newName)
	default:
		return fmt.Errorf("rename %q: unknown entity kind: %w", kind, domain.ErrValidation)
	}
}

// RenameProject replaces the project's name.
func (s *ProjectStore) RenameProject(id domain.ID, name string) error {
	name, err := required("project name", name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.project(id)
	if p == nil {
		return projectNotFound(id)
	}
	p.Name = name
	return nil
}

// RenameTask replaces the task's description.
func (s *ProjectStore) RenameTask(id domain.ID, description string) error {
	description, err := required("task description", description)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.task(id)
	if t == nil {
		return taskNotFound(id)
	}
	t.Description = description
	return nil
}

// RenameWeek replaces the week's date label.
func (s *ProjectStore) RenameWeek(projectID domain.ID, number int, dates string) error {
	dates, err := required("week dates", dates)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.project(projectID)
	if p == nil {
		return projectNotFound(projectID)
	}
	w := weekRef(p, number)
	if w == nil {
		return weekNotFound(projectID, number)
	}
	w.Dates = dates
	return nil
}

// RenameCategory changes a category's name. Callers holding composite
// addresses for its tasks must re-derive them afterwards.
func (s *ProjectStore) RenameCategory(projectID domain.ID, number int, oldName, newName string) error {
	newName, err := required("category name", newName)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.project(projectID)
	if p == nil {
		return projectNotFound(projectID)
	}
	w := weekRef(p, number)
	if w == nil {
		return weekNotFound(projectID, number)
	}
	c := categoryRef(w, oldName)
	if c == nil {
		return categoryNotFound(projectID, number, oldName)
	}
	if newName == c.Name {
		return nil
	}
	if categoryRef(w, newName) != nil {
		return domain.DuplicateError{Entity: domain.KindCategory, Key: newName}
	}
	c.Name = newName
	return nil
}

// DeleteTask removes the first task carrying id.
func (s *ProjectStore) DeleteTask(id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for pi := range s.projects {
		p := &s.projects[pi]
		for wi := range p.Weeks {
			w := &p.Weeks[wi]
			for ci := range w.Categories {
				c := &w.Categories[ci]
				if i := slices.IndexFunc(c.Tasks, func(t domain.Task) bool { return t.ID == id }); i >= 0 {
					c.Tasks = slices.Delete(c.Tasks, i, i+1)
					return nil
				}
			}
		}
	}
	return taskNotFound(id)
}

// DeleteCategory removes every category in the week whose name matches and
// returns how many were removed. Snapshots written before names were unique
// may hold duplicates; all of them go, together with their tasks.
func (s *ProjectStore) DeleteCategory(projectID domain.ID, number int, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.project(projectID)
	if p == nil {
		return 0, projectNotFound(projectID)
	}
	w := weekRef(p, number)
	if w == nil {
		return 0, weekNotFound(projectID, number)
	}
	before := len(w.Categories)
	w.Categories = slices.DeleteFunc(w.Categories, func(c domain.Category) bool { return c.Name == name })
	removed := before - len(w.Categories)
	if removed == 0 {
		return 0, categoryNotFound(projectID, number, name)
	}
	return removed, nil
}

// DeleteWeek removes every week in the project with the given number.
func (s *ProjectStore) DeleteWeek(projectID domain.ID, number int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.project(projectID)
	if p == nil {
		return 0, projectNotFound(projectID)
	}
	before := len(p.Weeks)
	p.Weeks = slices.DeleteFunc(p.Weeks, func(w domain.Week) bool { return w.Number == number })
	removed := before - len(p.Weeks)
	if removed == 0 {
		return 0, weekNotFound(projectID, number)
	}
	return removed, nil
}

// DeleteProject removes the project and its whole subtree.
func (s *ProjectStore) DeleteProject(id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.projects)
	s.projects = slices.DeleteFunc(s.projects, func(p domain.Project) bool { return p.ID == id })
	if len(s.projects) == before {
		return projectNotFound(id)
	}
	return nil
}
