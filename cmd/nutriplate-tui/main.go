// Command nutriplate-tui analyzes family meals from the terminal.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guttosm/nutriplate/config"
	"github.com/guttosm/nutriplate/internal/analysis"
	"github.com/guttosm/nutriplate/internal/app"
	"github.com/guttosm/nutriplate/internal/logger"
	"github.com/guttosm/nutriplate/internal/media"
	"github.com/guttosm/nutriplate/internal/tui"
)

const logFile = "nutriplate-tui.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	// The terminal belongs to the program, so logs go to a file.
	f, err := tea.LogToFile(logFile, "nutriplate")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close() //nolint:errcheck // best effort on exit
	logger.InitWithWriter(cfg.Log.Level, false, f)

	generator, err := app.NewGenerator(cfg.Analysis)
	if err != nil {
		return err
	}
	client := analysis.NewClient(generator, analysis.WithModel(cfg.Analysis.Model))

	m := tui.New(client, tui.WithImageOptions(media.Options{
		MaxDimension: cfg.Image.MaxDimension,
		Quality:      cfg.Image.Quality,
	}))

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
