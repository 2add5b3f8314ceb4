package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/quotex/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "quotex.db"), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleStory(url string) *model.Story {
	return &model.Story{
		Title: "Council approves budget",
		URL:   url,
		Paragraphs: []model.Paragraph{
			{Order: 1, Text: `"It was a hard year," said Jane Doe.`},
			{Order: 0, Text: "The council approved the budget on Tuesday."},
			{Order: 2, Text: `Doe added: "We will do better."`, Quote: boolPtr(true), ForTraining: true},
		},
	}
}

func TestSaveStory_AndLoad(t *testing.T) {
	s := openTestStore(t)

	story := sampleStory("/news/budget")
	created, err := s.SaveStory(story)
	if err != nil || !created {
		t.Fatalf("SaveStory = %v, %v", created, err)
	}

	loaded, err := s.Story(story.ID)
	if err != nil {
		t.Fatalf("Story failed: %v", err)
	}
	if len(loaded.Paragraphs) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(loaded.Paragraphs))
	}
	for i, p := range loaded.Paragraphs {
		if p.Order != i {
			t.Errorf("paragraphs not ordered by position: %d at %d", p.Order, i)
		}
	}
	if loaded.Paragraphs[1].NumWords == nil || *loaded.Paragraphs[1].NumWords != 5 {
		t.Errorf("expected NumWords=5, got %v", loaded.Paragraphs[1].NumWords)
	}
	if loaded.Paragraphs[0].Quote != nil {
		t.Error("expected unknown quote label to round-trip as nil")
	}
}

func TestSaveStory_SkipsKnownURL(t *testing.T) {
	s := openTestStore(t)

	first := sampleStory("/news/dup")
	if _, err := s.SaveStory(first); err != nil {
		t.Fatal(err)
	}

	second := sampleStory("/news/dup")
	created, err := s.SaveStory(second)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("expected duplicate URL to be skipped")
	}
	if second.ID != first.ID {
		t.Errorf("expected existing story id %d, got %d", first.ID, second.ID)
	}
}

func TestSaveStory_RejectsUnlabeledTrainingRow(t *testing.T) {
	s := openTestStore(t)

	story := &model.Story{Title: "x", Paragraphs: []model.Paragraph{{Text: "t", ForTraining: true}}}
	if _, err := s.SaveStory(story); !errors.Is(err, model.ErrTrainingRowUnlabeled) {
		t.Errorf("expected ErrTrainingRowUnlabeled, got %v", err)
	}
}

func TestStory_NotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Story(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Paragraph(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestParagraphQueries(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.SaveStory(sampleStory("/news/q")); err != nil {
		t.Fatal(err)
	}

	training, err := s.TrainingParagraphs()
	if err != nil {
		t.Fatal(err)
	}
	if len(training) != 1 {
		t.Errorf("expected 1 training row, got %d", len(training))
	}

	unclassified, err := s.UnclassifiedParagraphs()
	if err != nil {
		t.Fatal(err)
	}
	if len(unclassified) != 2 {
		t.Fatalf("expected 2 unclassified rows, got %d", len(unclassified))
	}

	unclassified[0].SetPrediction(false, 0.9)
	unclassified[1].SetPrediction(true, 0.7)
	if err := s.SaveParagraphs(unclassified); err != nil {
		t.Fatalf("SaveParagraphs failed: %v", err)
	}

	left, _ := s.UnclassifiedParagraphs()
	if len(left) != 0 {
		t.Errorf("expected no unclassified rows left, got %d", len(left))
	}

	p, err := s.Paragraph(unclassified[1].ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Score == nil || *p.Score != 0.7 || !*p.Quote {
		t.Errorf("prediction not persisted: %+v", p)
	}
}

func TestSaveParagraph_Label(t *testing.T) {
	s := openTestStore(t)
	story := sampleStory("/news/label")
	if _, err := s.SaveStory(story); err != nil {
		t.Fatal(err)
	}

	p, _ := s.Paragraph(story.Paragraphs[0].ID)
	p.SetPrediction(true, 0.6)
	if err := s.SaveParagraph(p); err != nil {
		t.Fatal(err)
	}

	p.Label(false, true)
	if err := s.SaveParagraph(p); err != nil {
		t.Fatal(err)
	}

	reloaded, _ := s.Paragraph(p.ID)
	if reloaded.Score != nil || *reloaded.Quote || !reloaded.ForTraining {
		t.Errorf("expected human label without score, got %+v", reloaded)
	}
}

func TestSources_Idempotent(t *testing.T) {
	s := openTestStore(t)
	story := sampleStory("/news/src")
	if _, err := s.SaveStory(story); err != nil {
		t.Fatal(err)
	}

	a, err := s.GetOrCreateSource("Jane Doe")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.GetOrCreateSource("Jane Doe")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != b.ID {
		t.Errorf("expected one source, got ids %d and %d", a.ID, b.ID)
	}

	p := &story.Paragraphs[0]
	for i := 0; i < 2; i++ {
		if err := s.AddParagraphSource(p, a); err != nil {
			t.Fatal(err)
		}
	}

	// a fresh copy without in-memory sources must not duplicate the row
	fresh, _ := s.Paragraph(p.ID)
	fresh.Sources = nil
	if err := s.AddParagraphSource(fresh, a); err != nil {
		t.Fatal(err)
	}

	reloaded, _ := s.Paragraph(p.ID)
	if len(reloaded.Sources) != 1 || reloaded.Sources[0].Name != "Jane Doe" {
		t.Errorf("expected a single Jane Doe association, got %+v", reloaded.Sources)
	}

	sources, _ := s.Sources()
	if len(sources) != 1 {
		t.Errorf("expected 1 source, got %d", len(sources))
	}
}

func TestQuotes(t *testing.T) {
	s := openTestStore(t)
	story := sampleStory("/news/quotes")
	if _, err := s.SaveStory(story); err != nil {
		t.Fatal(err)
	}

	jane, _ := s.GetOrCreateSource("Jane Doe")
	var quote *model.Paragraph
	for i := range story.Paragraphs {
		if story.Paragraphs[i].Quote != nil {
			quote = &story.Paragraphs[i]
		}
	}
	if err := s.AddParagraphSource(quote, jane); err != nil {
		t.Fatal(err)
	}

	all, err := s.Quotes("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Story.URL != "/news/quotes" {
		t.Fatalf("unexpected quotes %+v", all)
	}

	filtered, _ := s.Quotes("jane", 0)
	if len(filtered) != 1 || !filtered[0].Paragraph.HasSource("Jane Doe") {
		t.Errorf("expected case-insensitive source match, got %+v", filtered)
	}

	none, _ := s.Quotes("Smith", 0)
	if len(none) != 0 {
		t.Errorf("expected no quotes for unknown source, got %d", len(none))
	}
}

func TestExportImport(t *testing.T) {
	s := openTestStore(t)
	for _, url := range []string{"/news/a", "/news/b", "/news/c"} {
		st := sampleStory(url)
		if _, err := s.SaveStory(st); err != nil {
			t.Fatal(err)
		}
		src, _ := s.GetOrCreateSource("Jane Doe")
		if err := s.AddParagraphSource(&st.Paragraphs[0], src); err != nil {
			t.Fatal(err)
		}
	}

	dir := filepath.Join(t.TempDir(), "fixtures")
	f, err := s.Export(dir, 2)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(f.Stories) != 2 || len(f.Paragraphs) != 6 || len(f.Sources) != 1 {
		t.Errorf("unexpected snapshot sizes: %d stories, %d paragraphs, %d sources",
			len(f.Stories), len(f.Paragraphs), len(f.Sources))
	}
	for _, name := range []string{"stories.json", "paragraphs.json", "sources.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	other := openTestStore(t)
	n, err := other.Import(dir)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported stories, got %d", n)
	}

	training, _ := other.TrainingParagraphs()
	if len(training) != 2 {
		t.Errorf("expected labels to survive import, got %d training rows", len(training))
	}

	ids, _ := other.StoryIDs()
	story, err := other.Story(ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if !story.Paragraphs[1].HasSource("Jane Doe") {
		t.Errorf("expected source attribution to survive import, got %+v", story.Paragraphs[1].Sources)
	}

	again, _ := other.Import(dir)
	if again != 0 {
		t.Errorf("expected re-import to skip known stories, got %d", again)
	}
}
