package store

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed seed/*.json
var seedFS embed.FS

// SeedDefaults writes the default content for every slot that does not exist yet in dir and
// returns the base names it created. Existing files are never touched.
func SeedDefaults(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	ents, err := seedFS.ReadDir("seed")
	if err != nil {
		return nil, err
	}
	created := []string{}
	for _, e := range ents {
		dest := filepath.Join(dir, e.Name())
		if _, err := os.Stat(dest); err == nil {
			continue
		} else if !isNotExist(err) {
			return created, err
		}
		b, err := seedFS.ReadFile("seed/" + e.Name())
		if err != nil {
			return created, err
		}
		if err := atomicWriteFile(dir, e.Name()+".*.tmp", dest, b, 0o644); err != nil {
			return created, fmt.Errorf("seed %s: %w", e.Name(), err)
		}
		created = append(created, e.Name())
	}
	return created, nil
}
