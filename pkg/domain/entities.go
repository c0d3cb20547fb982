// Package domain defines the persistent entities, identifiers, and error
// types shared by the weektrack project store and its adapters.
package domain

// EntityKind identifies one of the four nested entity levels.
type EntityKind string

// Supported entity kinds used for addressing, renames, and error reporting.
const (
	// KindProject identifies a project record.
	KindProject EntityKind = "project"
	// KindWeek identifies a week inside a project.
	KindWeek EntityKind = "week"
	// KindCategory identifies a category inside a week.
	KindCategory EntityKind = "category"
	// KindTask identifies a task inside a category.
	KindTask EntityKind = "task"
)

// Seed values applied when projects and weeks are created.
const (
	DefaultWeekDates        = "Start Date - End Date"
	DefaultProjectCategory  = "General Tasks"
	DefaultWeekCategoryName = "New Week Tasks"
)

// Project is the outermost entity. It owns its weeks exclusively.
type Project struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Weeks []Week `json:"weeks"`
}

// Week groups categories under a human-facing number and a free-form date label.
// Number doubles as the addressing key within its project and never changes
// after creation.
type Week struct {
	ID         ID         `json:"id,omitempty"`
	Number     int        `json:"number"`
	Dates      string     `json:"dates"`
	Categories []Category `json:"categories"`
}

// Category is a named list of tasks within a week.
type Category struct {
	ID    ID     `json:"id,omitempty"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// Task is a single checklist item.
type Task struct {
	ID          ID     `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Address locates an entity for polymorphic operations such as renames.
// Projects use ProjectID, tasks use TaskID, weeks use (ProjectID, WeekNumber),
// and categories use (ProjectID, WeekNumber, CategoryName).
type Address struct {
	ProjectID    ID
	TaskID       ID
	WeekNumber   int
	CategoryName string
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	cp := p
	cp.Weeks = make([]Week, len(p.Weeks))
	for i, w := range p.Weeks {
		cp.Weeks[i] = w.Clone()
	}
	return cp
}

// Clone returns a deep copy of the week.
func (w Week) Clone() Week {
	cp := w
	cp.Categories = make([]Category, len(w.Categories))
	for i, c := range w.Categories {
		cp.Categories[i] = c.Clone()
	}
	return cp
}

// Clone returns a deep copy of the category.
func (c Category) Clone() Category {
	cp := c
	cp.Tasks = append(make([]Task, 0, len(c.Tasks)), c.Tasks...)
	return cp
}

// Progress reports how many of the project's tasks are completed.
func (p Project) Progress() (done, total int) {
	for _, w := range p.Weeks {
		for _, c := range w.Categories {
			for _, t := range c.Tasks {
				total++
				if t.Completed {
					done++
				}
			}
		}
	}
	return done, total
}

// FindWeek returns the first week with the given number.
func FindWeek(p Project, number int) (Week, bool) {
	for _, w := range p.Weeks {
		if w.Number == number {
			return w, true
		}
	}
	return Week{}, false
}

// LatestWeek returns the most recently appended week, which is not
// necessarily the numerically highest one.
func LatestWeek(p Project) (Week, bool) {
	if len(p.Weeks) == 0 {
		return Week{}, false
	}
	return p.Weeks[len(p.Weeks)-1], true
}

// FindCategory returns the first category whose name matches exactly.
func FindCategory(w Week, name string) (Category, bool) {
	for _, c := range w.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// FindTask returns the first task in tasks carrying id.
func FindTask(tasks []Task, id ID) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
