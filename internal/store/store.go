// Package store persists stories, paragraphs and sources in SQLite
package store

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/ppiankov/quotex/internal/features"
	"github.com/ppiankov/quotex/internal/logging"
	"github.com/ppiankov/quotex/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// Store is the record store
type Store struct {
	db     *gorm.DB
	logger *log.Logger
}

// Open opens (creating if needed) the database at path and migrates it
func Open(path string, logger *log.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// SQLite allows a single writer
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Story{}, &model.Source{}, &model.Paragraph{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Store{db: db, logger: logging.OrDiscard(logger)}, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error, what string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("load %s %v: %w", what, id, err)
}

func preloadParagraphs(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// SaveStory stores a new story with its paragraphs. A story whose URL is
// already stored is returned as is with created=false.
func (s *Store) SaveStory(story *model.Story) (bool, error) {
	if story.URL != "" {
		var existing model.Story
		err := s.db.Where("url = ?", story.URL).First(&existing).Error
		if err == nil {
			*story = existing
			return false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("look up story %s: %w", story.URL, err)
		}
	}

	for i := range story.Paragraphs {
		p := &story.Paragraphs[i]
		if err := p.Validate(); err != nil {
			return false, err
		}
		setNumWords(p)
	}

	if err := s.db.Create(story).Error; err != nil {
		return false, fmt.Errorf("create story: %w", err)
	}

	s.logger.Debug("stored story", "id", story.ID, "paragraphs", len(story.Paragraphs))
	return true, nil
}

// Story loads a story with its ordered paragraphs and their sources
func (s *Store) Story(id uint) (*model.Story, error) {
	var story model.Story
	err := s.db.
		Preload("Paragraphs", preloadParagraphs).
		Preload("Paragraphs.Sources").
		First(&story, id).Error
	if err != nil {
		return nil, notFound(err, "story", id)
	}
	return &story, nil
}

// Stories loads up to limit stories in id order; limit <= 0 loads all
func (s *Store) Stories(limit int) ([]model.Story, error) {
	q := s.db.
		Preload("Paragraphs", preloadParagraphs).
		Preload("Paragraphs.Sources").
		Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var stories []model.Story
	if err := q.Find(&stories).Error; err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}

// StoryIDs returns every story id in order
func (s *Store) StoryIDs() ([]uint, error) {
	var ids []uint
	if err := s.db.Model(&model.Story{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list story ids: %w", err)
	}
	return ids, nil
}

// Paragraph loads one paragraph with its sources
func (s *Store) Paragraph(id uint) (*model.Paragraph, error) {
	var p model.Paragraph
	if err := s.db.Preload("Sources").First(&p, id).Error; err != nil {
		return nil, notFound(err, "paragraph", id)
	}
	return &p, nil
}

func (s *Store) paragraphs(where string, args ...any) ([]*model.Paragraph, error) {
	var ps []*model.Paragraph
	err := s.db.Preload("Sources").
		Where(where, args...).
		Order("story_id, position").
		Find(&ps).Error
	if err != nil {
		return nil, fmt.Errorf("list paragraphs: %w", err)
	}
	return ps, nil
}

// TrainingParagraphs returns the labeled rows marked for training
func (s *Store) TrainingParagraphs() ([]*model.Paragraph, error) {
	ps, err := s.paragraphs("for_training = ?", true)
	if err != nil {
		return nil, err
	}
	return model.Filter(ps, model.IsTrainingRow), nil
}

// UnclassifiedParagraphs returns paragraphs with an unknown quote label
func (s *Store) UnclassifiedParagraphs() ([]*model.Paragraph, error) {
	return s.paragraphs("quote IS NULL")
}

// SaveParagraph writes a paragraph's own columns. Source associations are
// managed through AddParagraphSource.
func (s *Store) SaveParagraph(p *model.Paragraph) error {
	if err := p.Validate(); err != nil {
		return err
	}
	setNumWords(p)
	if err := s.db.Omit("Sources").Save(p).Error; err != nil {
		return fmt.Errorf("save paragraph %d: %w", p.ID, err)
	}
	return nil
}

// SaveParagraphs writes several paragraphs in one transaction
func (s *Store) SaveParagraphs(ps []*model.Paragraph) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range ps {
			if err := p.Validate(); err != nil {
				return err
			}
			setNumWords(p)
			if err := tx.Omit("Sources").Save(p).Error; err != nil {
				return fmt.Errorf("save paragraph %d: %w", p.ID, err)
			}
		}
		return nil
	})
}

// GetOrCreateSource returns the source named name, creating it if needed
func (s *Store) GetOrCreateSource(name string) (*model.Source, error) {
	var src model.Source
	if err := s.db.Where(model.Source{Name: name}).FirstOrCreate(&src).Error; err != nil {
		return nil, fmt.Errorf("get or create source %q: %w", name, err)
	}
	return &src, nil
}

// AddParagraphSource associates src with p. Existing associations are left
// untouched.
func (s *Store) AddParagraphSource(p *model.Paragraph, src *model.Source) error {
	if p.HasSource(src.Name) {
		return nil
	}
	if err := s.db.Model(p).Association("Sources").Append(src); err != nil {
		return fmt.Errorf("associate source %q with paragraph %d: %w", src.Name, p.ID, err)
	}
	return nil
}

// Sources returns every source ordered by name
func (s *Store) Sources() ([]model.Source, error) {
	var sources []model.Source
	if err := s.db.Order("name").Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return sources, nil
}

func setNumWords(p *model.Paragraph) {
	n := features.QuotedWordCount(p.Text)
	p.NumWords = &n
}
