package core

import "weektrack/pkg/domain"

// SeedSample appends the example project shown on first run: one week, two
// categories, and four tasks of which the first is completed.
func (s *ProjectStore) SeedSample() domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := func(desc string, done bool) domain.Task {
		return domain.Task{ID: s.newID(), Description: desc, Completed: done}
	}
	p := domain.Project{
		ID:   s.newID(),
		Name: "DSP/CV Group Project",
		Weeks: []domain.Week{{
			ID:     s.newID(),
			Number: 12,
			Dates:  "Oct 20 - Oct 26",
			Categories: []domain.Category{
				{
					ID:   s.newID(),
					Name: "Emerging Tech",
					Tasks: []domain.Task{
						task("Ordered selfie stick", true),
						task("TRAINING FOR CV MODELS!!", false),
					},
				},
				{
					ID:   s.newID(),
					Name: "DSP LAB",
					Tasks: []domain.Task{
						task("2ND PHASE OF DSP PROJECT (Wiener, Spectral, Hybrid)", false),
						task("PROJECT PROGRESS REPORT (NOV 4)", false),
					},
				},
			},
		}},
	}
	s.projects = append(s.projects, p)
	return p.Clone()
}
