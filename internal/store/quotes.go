package store

import (
	"fmt"

	"github.com/ppiankov/quotex/internal/model"
)

// Quote is a paragraph labeled as a quote together with its story
type Quote struct {
	Paragraph model.Paragraph
	Story     model.Story
}

// Quotes lists paragraphs labeled as quotes. A non-empty source restricts
// the list to paragraphs attributed to a speaker whose name contains it,
// ignoring case.
func (s *Store) Quotes(source string, limit int) ([]Quote, error) {
	q := s.db.Model(&model.Paragraph{}).
		Preload("Sources").
		Where("paragraphs.quote = ?", true).
		Order("paragraphs.story_id, paragraphs.position")

	if source != "" {
		q = q.Where(`paragraphs.id IN (
			SELECT ps.paragraph_id FROM paragraph_sources ps
			JOIN sources ON sources.id = ps.source_id
			WHERE sources.name LIKE ?)`, "%"+source+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var ps []model.Paragraph
	if err := q.Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}

	storyIDs := make([]uint, 0, len(ps))
	seen := make(map[uint]bool)
	for _, p := range ps {
		if !seen[p.StoryID] {
			seen[p.StoryID] = true
			storyIDs = append(storyIDs, p.StoryID)
		}
	}

	stories := make(map[uint]model.Story, len(storyIDs))
	if len(storyIDs) > 0 {
		var rows []model.Story
		if err := s.db.Where("id IN ?", storyIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("load quote stories: %w", err)
		}
		for _, st := range rows {
			stories[st.ID] = st
		}
	}

	quotes := make([]Quote, 0, len(ps))
	for _, p := range ps {
		quotes = append(quotes, Quote{Paragraph: p, Story: stories[p.StoryID]})
	}
	return quotes, nil
}
