package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"folio/internal/model"

	"go.uber.org/zap"
)

// Settings is the site config.json slot. It is shared with the public site, so every key is kept
// as-is; only the sort-mode keys are interpreted here.
type Settings struct {
	path    string
	log     *zap.Logger
	journal *Journal

	mu sync.Mutex
}

func NewSettings(path string, opts Options) *Settings {
	return &Settings{
		path:    path,
		log:     opts.logger().With(zap.String("slot", "settings")),
		journal: opts.Journal,
	}
}

// PublicSortKey is the config key holding the visitor-facing sort mode for k, e.g. "project_sort_by".
func PublicSortKey(k model.Kind) string { return k.Singular() + "_sort_by" }

// AdminSortKey is the config key holding the admin sort mode for k, e.g. "admin_project_sort_by".
func AdminSortKey(k model.Kind) string { return "admin_" + k.Singular() + "_sort_by" }

func defaultPublicSort(k model.Kind) model.SortMode {
	if k == model.KindProjects {
		return model.SortByDate
	}
	return model.SortManual
}

// Raw returns a copy of the whole config document. Missing or unreadable config reads as empty.
func (s *Settings) Raw() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Settings) load() map[string]any {
	doc, err := s.read()
	if err != nil {
		s.log.Warn("settings unreadable, using defaults", zap.String("path", s.path), zap.Error(err))
		return map[string]any{}
	}
	return doc
}

// read returns the stored document. A missing file is an empty document; any other failure is
// returned.
func (s *Settings) read() (map[string]any, error) {
	doc := map[string]any{}
	if err := readSlot(s.path, &doc); err != nil {
		if isNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// SortModes returns the public and admin sort modes for k. Unknown stored values read as manual.
func (s *Settings) SortModes(k model.Kind) (public, admin model.SortMode) {
	doc := s.Raw()
	public = defaultPublicSort(k)
	admin = model.SortManual
	if v, ok := doc[PublicSortKey(k)]; ok {
		public = model.NormalizeSortMode(fmt.Sprint(v))
	}
	if v, ok := doc[AdminSortKey(k)]; ok {
		admin = model.NormalizeSortMode(fmt.Sprint(v))
	}
	return public, admin
}

func (s *Settings) SetPublicSort(k model.Kind, m model.SortMode) error {
	return s.setSort(k, PublicSortKey(k), m)
}

func (s *Settings) SetAdminSort(k model.Kind, m model.SortMode) error {
	return s.setSort(k, AdminSortKey(k), m)
}

func (s *Settings) setSort(k model.Kind, key string, m model.SortMode) error {
	if _, err := model.ParseSortMode(string(m)); err != nil {
		return err
	}
	changed, err := s.set(key, string(m))
	if err != nil {
		return err
	}
	if changed {
		s.journal.record(k, 0, EventSettingsSort, map[string]string{"key": key, "value": string(m)})
	}
	return nil
}

// set writes one key, skipping the write when the value is unchanged. An existing document that
// cannot be read is left alone; the site's other keys live in it.
func (s *Settings) set(key string, value any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return false, fmt.Errorf("settings: refusing to overwrite unreadable %s: %w", filepath.Base(s.path), err)
	}
	if cur, ok := doc[key]; ok && fmt.Sprint(cur) == fmt.Sprint(value) {
		return false, nil
	}
	doc[key] = value

	// Keep the previous document next to the new one; a hand-edited config is easy to lose.
	if prev, err := os.ReadFile(s.path); err == nil && len(strings.TrimSpace(string(prev))) > 0 {
		dir := filepath.Dir(s.path)
		_ = atomicWriteFile(dir, settingsFileName+".bak.*.tmp", s.path+".bak", prev, 0o644)
	}
	if err := writeSlot(s.path, doc); err != nil {
		return false, fmt.Errorf("settings: %w", err)
	}
	return true, nil
}
