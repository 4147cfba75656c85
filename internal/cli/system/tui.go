package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/tui"
	"github.com/julianstephens/habitgrid/internal/watch"
)

type TuiCmd struct {
	NoWatch bool `help:"Do not reload when the data file changes on disk."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(true); err != nil {
		return err
	}
	defer ctx.Close()

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes <-chan struct{}
	if fb, ok := ctx.Provider.(storage.FileBacked); ok && !c.NoWatch {
		w, err := watch.New(fb.DataFile(), constants.WatchDebounce)
		if err != nil {
			logger.Warn("File watching unavailable", "error", err)
		} else if err := w.Start(runCtx); err != nil {
			logger.Warn("Failed to watch data file", "path", fb.DataFile(), "error", err)
			w.Stop()
		} else {
			defer w.Stop()
			changes = w.Changes()
		}
	}

	p := tea.NewProgram(tui.NewModel(ctx.Store, changes), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
