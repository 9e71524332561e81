// Package portfolio assembles the per-kind shelves over one data directory and applies the
// rules that span slots, such as a manual move switching the public view to manual order.
package portfolio

import (
	"context"
	"fmt"
	"time"

	"folio/internal/model"
	"folio/internal/store"

	"go.uber.org/zap"
)

type Options struct {
	Logger *zap.Logger
	// Journal enables the sqlite mutation journal in the data dir.
	Journal    bool
	JournalMax int
	// Now overrides the clock used for project date defaults.
	Now func() time.Time
}

type Service struct {
	Layout store.Layout

	Projects       *Shelf[model.Project]
	Skills         *Shelf[model.Skill]
	Certifications *Shelf[model.Certification]

	settings *store.Settings
	journal  *store.Journal
	log      *zap.Logger
}

func Open(ctx context.Context, dir string, opts Options) (*Service, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	layout := store.Layout{Dir: dir}

	var journal *store.Journal
	if opts.Journal {
		j, err := store.OpenJournal(ctx, layout.JournalPath(), store.JournalOptions{Max: opts.JournalMax, Logger: log})
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		journal = j
	}

	so := store.Options{Logger: log, Journal: journal}
	settings := store.NewSettings(layout.SettingsPath(), so)

	s := &Service{
		Layout:   layout,
		settings: settings,
		journal:  journal,
		log:      log,
	}
	s.Projects = newShelf[model.Project](model.KindProjects, layout, settings, so)
	s.Projects.prepare = projectDoc(now)
	s.Skills = newShelf[model.Skill](model.KindSkills, layout, settings, so)
	s.Certifications = newShelf[model.Certification](model.KindCertifications, layout, settings, so)
	return s, nil
}

func newShelf[T model.Record[T]](kind model.Kind, layout store.Layout, settings *store.Settings, opts store.Options) *Shelf[T] {
	return &Shelf[T]{
		kind:       kind,
		Records:    store.NewCollection[T](kind, layout.RecordsPath(kind), opts),
		Categories: store.NewRegistry(kind, layout.RegistryPath(kind), opts),
		settings:   settings,
	}
}

func (s *Service) Close() error {
	return s.journal.Close()
}

func (s *Service) Settings() *store.Settings { return s.settings }

// Journal is nil when journaling is disabled.
func (s *Service) Journal() *store.Journal { return s.journal }

func (s *Service) Events(ctx context.Context, opts store.ListOptions) ([]store.Event, error) {
	return s.journal.List(ctx, opts)
}

// Catalog returns the kind-agnostic view of one shelf.
func (s *Service) Catalog(k model.Kind) (Catalog, error) {
	switch k {
	case model.KindProjects:
		return s.Projects, nil
	case model.KindSkills:
		return s.Skills, nil
	case model.KindCertifications:
		return s.Certifications, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", model.ErrInvalidInput, k)
}

// Catalogs returns every shelf in model.Kinds order.
func (s *Service) Catalogs() []Catalog {
	return []Catalog{s.Projects, s.Skills, s.Certifications}
}
