// cmd/studytrack/main.go
//
// Entry point for the studytrack dashboard.
//
// Flow:
// 1. Resolve configuration (env overrides, grading scale, paths)
// 2. Prepare the .studytrack directory and the curriculum template
// 3. Load the state file, or seed a fresh curriculum on first run
// 4. Hand the state to the TUI and run it

package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lbehrendt/studytrack/internal/config"
	"github.com/lbehrendt/studytrack/internal/logbook"
	"github.com/lbehrendt/studytrack/internal/store"
	"github.com/lbehrendt/studytrack/internal/template"
	"github.com/lbehrendt/studytrack/internal/tui"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fail("resolve working directory: %v", err)
	}
	cfg, err := config.New(cwd)
	if err != nil {
		fail("%v", err)
	}
	if err := config.InitStudyDir(cwd); err != nil {
		fail("%v", err)
	}
	if err := template.Ensure(cfg.TemplatePath()); err != nil {
		fail("write default template: %v", err)
	}

	book, err := logbook.New(cfg.LogPath())
	if err != nil {
		fail("open session log: %v", err)
	}

	st := store.New(cfg.DataPath)
	state, err := loadOrSeed(cfg, st, book)
	if err != nil {
		fail("%v", err)
	}

	p := tea.NewProgram(tui.NewApp(cfg, st, state, book), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fail("run dashboard: %v", err)
	}
}

// loadOrSeed reads the state file. An absent file is the normal first run and
// seeds a fresh curriculum from the template; every other failure is reported
// with enough context that the user can decide what to do with the file. The
// dashboard never overwrites a file it could not read.
func loadOrSeed(cfg *config.Config, st *store.Store, book *logbook.Logbook) (store.State, error) {
	state, err := st.Load()
	switch {
	case err == nil:
		return state, nil

	case errors.Is(err, store.ErrFileAbsent):
		tpl, terr := template.Load(cfg.TemplatePath())
		if terr != nil {
			return store.State{}, fmt.Errorf("first run, but template unusable: %w", terr)
		}
		c, berr := tpl.Build()
		if berr != nil {
			return store.State{}, fmt.Errorf("first run, but template unusable: %w", berr)
		}
		state = store.State{Curriculum: c}
		if serr := st.Save(state); serr != nil {
			return store.State{}, serr
		}
		book.Info("Seeded curriculum %q from %s", c.Name, cfg.TemplatePath())
		return state, nil

	case errors.Is(err, store.ErrParse), errors.Is(err, store.ErrValidation), errors.Is(err, store.ErrUnsupportedVersion):
		book.Error("Refusing to start: %v", err)
		return store.State{}, fmt.Errorf("%w\n\nThe file at %s was left untouched. Repair it, move it away to start fresh, or point STUDYTRACK_DATA elsewhere.", err, st.Path())

	default:
		return store.State{}, err
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "studytrack: "+format+"\n", args...)
	os.Exit(1)
}
