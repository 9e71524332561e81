// Package tui is the terminal admin panel: grouped listings per kind with in-category moves and
// admin sort switching.
package tui

import (
	"context"
	"errors"

	"folio/internal/model"
	"folio/internal/portfolio"
	"folio/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	// Kind selects the initially shown kind. Defaults to the first catalog.
	Kind model.Kind
	// Changes, when set, triggers reloads after external edits to the data dir.
	Changes <-chan watch.Change
	Logger  *zap.Logger
}

func Run(ctx context.Context, catalogs []portfolio.Catalog, opts Options) error {
	if len(catalogs) == 0 {
		return errors.New("tui: no catalogs")
	}
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(catalogs, opts.Kind, opts.Changes, opts.Logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
