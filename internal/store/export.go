package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/quotex/internal/model"
)

// DefaultExportLimit is the number of stories written by Export
const DefaultExportLimit = 100

// Fixtures is a portable snapshot of part of the store
type Fixtures struct {
	Stories    []model.Story     `json:"stories"`
	Paragraphs []model.Paragraph `json:"paragraphs"`
	Sources    []model.Source    `json:"sources"`
}

// Snapshot collects the first limit stories with their paragraphs and the
// sources attributed to those paragraphs
func (s *Store) Snapshot(limit int) (*Fixtures, error) {
	stories, err := s.Stories(limit)
	if err != nil {
		return nil, err
	}

	f := &Fixtures{Stories: make([]model.Story, 0, len(stories))}
	seen := make(map[uint]bool)
	for _, st := range stories {
		for _, p := range st.Paragraphs {
			for _, src := range p.Sources {
				if !seen[src.ID] {
					seen[src.ID] = true
					f.Sources = append(f.Sources, src)
				}
			}
			f.Paragraphs = append(f.Paragraphs, p)
		}
		st.Paragraphs = nil
		f.Stories = append(f.Stories, st)
	}
	return f, nil
}

// Export writes stories.json, paragraphs.json and sources.json to dir
func (s *Store) Export(dir string, limit int) (*Fixtures, error) {
	f, err := s.Snapshot(limit)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	files := []struct {
		name string
		data any
	}{
		{"stories.json", f.Stories},
		{"paragraphs.json", f.Paragraphs},
		{"sources.json", f.Sources},
	}
	for _, file := range files {
		if err := writeJSON(filepath.Join(dir, file.name), file.data); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Import loads fixtures written by Export into the store. Stories whose URL
// is already stored are skipped along with their paragraphs.
func (s *Store) Import(dir string) (int, error) {
	var f Fixtures
	for name, dst := range map[string]any{
		"stories.json":    &f.Stories,
		"paragraphs.json": &f.Paragraphs,
		"sources.json":    &f.Sources,
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", name, err)
		}
		if err := json.Unmarshal(data, dst); err != nil {
			return 0, fmt.Errorf("decode %s: %w", name, err)
		}
	}

	byStory := make(map[uint][]model.Paragraph)
	for _, p := range f.Paragraphs {
		byStory[p.StoryID] = append(byStory[p.StoryID], p)
	}

	imported := 0
	for _, st := range f.Stories {
		oldID := st.ID
		st.ID = 0
		st.Paragraphs = nil
		for _, p := range byStory[oldID] {
			p.ID, p.StoryID, p.Sources = 0, 0, nil
			st.Paragraphs = append(st.Paragraphs, p)
		}

		created, err := s.SaveStory(&st)
		if err != nil {
			return imported, err
		}
		if !created {
			continue
		}
		imported++

		if err := s.restoreSources(&st, oldID, f.Paragraphs); err != nil {
			return imported, err
		}
	}
	return imported, nil
}

// restoreSources re-attaches exported sources to the freshly created
// paragraphs of a story, matching paragraphs by position
func (s *Store) restoreSources(st *model.Story, oldID uint, exported []model.Paragraph) error {
	byPosition := make(map[int]*model.Paragraph, len(st.Paragraphs))
	for i := range st.Paragraphs {
		byPosition[st.Paragraphs[i].Order] = &st.Paragraphs[i]
	}

	for _, old := range exported {
		if old.StoryID != oldID {
			continue
		}
		p, ok := byPosition[old.Order]
		if !ok {
			continue
		}
		for _, src := range old.Sources {
			source, err := s.GetOrCreateSource(src.Name)
			if err != nil {
				return err
			}
			if err := s.AddParagraphSource(p, source); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
