package store

import (
	"path/filepath"
	"strings"

	"folio/internal/model"
)

const (
	settingsFileName = "config.json"
	JournalFileName  = "journal.sqlite"
)

// Layout resolves slot file names inside a data directory. The names match the files the public
// site reads, so a data dir can be shared with it.
type Layout struct {
	Dir string
}

func (l Layout) RecordsPath(k model.Kind) string {
	return filepath.Join(l.Dir, string(k)+".json")
}

// RegistryPath returns the category registry file for k. Project categories predate the other
// kinds and live in plain "categories.json".
func (l Layout) RegistryPath(k model.Kind) string {
	if k == model.KindProjects {
		return filepath.Join(l.Dir, "categories.json")
	}
	return filepath.Join(l.Dir, k.Singular()+"_categories.json")
}

func (l Layout) SettingsPath() string {
	return filepath.Join(l.Dir, settingsFileName)
}

func (l Layout) JournalPath() string {
	return filepath.Join(l.Dir, JournalFileName)
}

// FileRole tells what a data dir file holds.
type FileRole string

const (
	RoleRecords  FileRole = "records"
	RoleRegistry FileRole = "categories"
	RoleSettings FileRole = "settings"
)

// ClassifyFile maps a base file name to its role and kind. ok is false for files the store does
// not own (temp files, the journal, unrelated site data).
func ClassifyFile(name string) (role FileRole, kind model.Kind, ok bool) {
	name = filepath.Base(name)
	if name == settingsFileName {
		return RoleSettings, "", true
	}
	if !strings.HasSuffix(name, ".json") {
		return "", "", false
	}
	var l Layout
	for _, k := range model.Kinds() {
		switch name {
		case filepath.Base(l.RecordsPath(k)):
			return RoleRecords, k, true
		case filepath.Base(l.RegistryPath(k)):
			return RoleRegistry, k, true
		}
	}
	return "", "", false
}
