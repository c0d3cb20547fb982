package core

import (
	"bytes"
	"encoding/json"
	"fmt"

	"weektrack/pkg/domain"
)

// SnapshotVersion is written into every serialized document.
const SnapshotVersion = 1

type snapshotDocument struct {
	Version  int              `json:"version"`
	Projects []domain.Project `json:"projects"`
}

// Serialize encodes the whole tree as a JSON document.
func (s *ProjectStore) Serialize() (string, error) {
	doc := snapshotDocument{Version: SnapshotVersion, Projects: s.Projects()}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(b), nil
}

// Deserialize rebuilds a store from a blob produced by Serialize. It also
// accepts the bare project array written by earlier releases.
func Deserialize(blob string) (*ProjectStore, error) {
	s := NewProjectStore(nil)
	if err := s.Restore(blob); err != nil {
		return nil, err
	}
	return s, nil
}

// Restore replaces the tree with the decoded blob. On error the current tree is kept.
func (s *ProjectStore) Restore(blob string) error {
	projects, err := decodeSnapshot([]byte(blob))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range projects {
		s.normalize(&projects[i])
	}
	s.projects = projects
	return nil
}

func decodeSnapshot(b []byte) ([]domain.Project, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, fmt.Errorf("decode snapshot: empty blob")
	}
	if b[0] == '[' {
		var legacy []domain.Project
		if err := json.Unmarshal(b, &legacy); err != nil {
			return nil, fmt.Errorf("decode legacy snapshot: %w", err)
		}
		if legacy == nil {
			legacy = []domain.Project{}
		}
		return legacy, nil
	}
	var doc snapshotDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Version > SnapshotVersion {
		return nil, fmt.Errorf("decode snapshot: unsupported version %d", doc.Version)
	}
	if doc.Projects == nil {
		doc.Projects = []domain.Project{}
	}
	return doc.Projects, nil
}

// normalize replaces nil lists with empty ones and assigns identifiers that
// older snapshots did not carry. Caller holds s.mu.
func (s *ProjectStore) normalize(p *domain.Project) {
	if p.ID.IsZero() {
		p.ID = s.newID()
	}
	if p.Weeks == nil {
		p.Weeks = []domain.Week{}
	}
	for wi := range p.Weeks {
		w := &p.Weeks[wi]
		if w.ID.IsZero() {
			w.ID = s.newID()
		}
		if w.Categories == nil {
			w.Categories = []domain.Category{}
		}
		for ci := range w.Categories {
			c := &w.Categories[ci]
			if c.ID.IsZero() {
				c.ID = s.newID()
			}
			if c.Tasks == nil {
				c.Tasks = []domain.Task{}
			}
			for ti := range c.Tasks {
				if c.Tasks[ti].ID.IsZero() {
					c.Tasks[ti].ID = s.newID()
				}
			}
		}
	}
}
