// Package publish exports the public view of a portfolio as a tree of markdown files.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"folio/internal/portfolio"
)

type WriteOptions struct {
	Overwrite bool
	// Admin renders listings in the admin sort mode instead of the public one.
	Admin bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteSite writes index.md, one <kind>.md listing per catalog and one <kind>/<id>.md page per
// listed record. Existing files are only replaced with Overwrite.
func WriteSite(catalogs []portfolio.Catalog, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	listings := make([]portfolio.Listing, 0, len(catalogs))
	for _, c := range catalogs {
		listings = append(listings, c.Listing(opt.Admin))
	}

	written := []string{}
	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderIndexMarkdown(listings)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	written = append(written, indexPath)

	for _, l := range listings {
		p := filepath.Join(toDir, string(l.Kind)+".md")
		if err := writeFile(p, []byte(RenderListingMarkdown(l)), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)

		recDir := filepath.Join(toDir, string(l.Kind))
		if err := os.MkdirAll(recDir, 0o755); err != nil {
			return WriteResult{}, err
		}
		entries := []portfolio.Entry{}
		for _, g := range l.Groups {
			entries = append(entries, g.Entries...)
		}
		entries = append(entries, l.Loose...)
		for _, e := range entries {
			p := filepath.Join(recDir, strconv.Itoa(e.ID)+".md")
			if err := writeFile(p, []byte(RecordMarkdown(e)), opt.Overwrite); err != nil {
				return WriteResult{}, err
			}
			written = append(written, p)
		}
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
