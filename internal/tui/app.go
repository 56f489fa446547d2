// internal/tui/app.go
//
// The dashboard shell. It follows The Elm Architecture that bubbletea
// provides: the App model holds all UI state plus the owned application
// state (curriculum and goal); Update reacts to messages; View renders.
//
// Every mutation flows through the domain's public API and, on success,
// auto-saves through the store before the next command is accepted. Failures
// surface in the footer and the session log; nothing here terminates the
// process.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lbehrendt/studytrack/internal/aggregate"
	"github.com/lbehrendt/studytrack/internal/config"
	"github.com/lbehrendt/studytrack/internal/curriculum"
	"github.com/lbehrendt/studytrack/internal/logbook"
	"github.com/lbehrendt/studytrack/internal/store"
)

// appMode represents which "screen" we're on.
type appMode int

const (
	modeMenu       appMode = iota // main action menu
	modeBrowse                    // read-only module browser
	modePickModule                // choosing a module for update or removal
	modePickAction                // choosing a transition for the chosen module
	modeForm                      // grade entry, add module, or goal form
	modeGrades                    // grades overview table
)

// pickPurpose says why the module picker is open.
type pickPurpose int

const (
	purposeUpdate pickPurpose = iota
	purposeRemove
)

// App is the main application model; it owns the in-process application
// state for the whole session.
type App struct {
	cfg   *config.Config
	scale curriculum.Scale
	store *store.Store
	book  *logbook.Logbook
	state store.State

	mode    appMode
	purpose pickPurpose

	mainMenu   list.Model
	moduleMenu list.Model
	actionMenu list.Model
	form       *form

	selectedID string
	statusMsg  string

	width  int
	height int
}

type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

type moduleItem struct {
	id    string
	title string
	desc  string
}

func (i moduleItem) Title() string       { return i.title }
func (i moduleItem) Description() string { return i.desc }
func (i moduleItem) FilterValue() string { return i.id + " " + i.title }

type actionItem struct {
	event string
	title string
	desc  string
}

func (i actionItem) Title() string       { return i.title }
func (i actionItem) Description() string { return i.desc }
func (i actionItem) FilterValue() string { return i.title }

// NewApp creates the dashboard model around an already-loaded state.
func NewApp(cfg *config.Config, st *store.Store, state store.State, book *logbook.Logbook) *App {
	mainMenu := list.New(buildMainMenu(), list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "⬡ STUDYTRACK"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)

	moduleMenu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	moduleMenu.SetShowStatusBar(false)

	actionMenu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	actionMenu.Title = "Choose Action"
	actionMenu.SetShowStatusBar(false)
	actionMenu.SetFilteringEnabled(false)

	app := &App{
		cfg:        cfg,
		scale:      cfg.Scale(),
		store:      st,
		book:       book,
		state:      state,
		mode:       modeMenu,
		mainMenu:   mainMenu,
		moduleMenu: moduleMenu,
		actionMenu: actionMenu,
	}
	app.logInfo("Session opened · %s", state.Curriculum.Name)
	return app
}

func buildMainMenu() []list.Item {
	return []list.Item{
		menuItem{title: "Browse Modules", desc: "All modules across semesters"},
		menuItem{title: "Update Module Status", desc: "Enroll, complete, recognize, withdraw, reset"},
		menuItem{title: "Add Module", desc: "Add a module to a semester"},
		menuItem{title: "Remove Module", desc: "Delete a module from the curriculum"},
		menuItem{title: "Grades Overview", desc: "Graded and recognized modules"},
		menuItem{title: "Study Goals", desc: "Set or clear GPA and ECTS targets"},
		menuItem{title: "Save", desc: "Write state to disk now"},
		menuItem{title: "Quit", desc: "Leave the dashboard"},
	}
}

func (a *App) logInfo(format string, args ...any) {
	if a.book != nil {
		a.book.Info(format, args...)
	}
}

func (a *App) logWarn(format string, args ...any) {
	if a.book != nil {
		a.book.Warn(format, args...)
	}
}

func (a *App) logError(format string, args ...any) {
	if a.book != nil {
		a.book.Error(format, args...)
	}
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeLists()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.mode == modeMenu {
				return a, tea.Quit
			}
		case "esc":
			if a.mode != modeMenu {
				return a.returnToMenu("")
			}
		case "enter":
			return a.handleEnter()
		case "tab", "down":
			if a.mode == modeForm {
				a.form.advance()
				return a, nil
			}
		case "shift+tab", "up":
			if a.mode == modeForm {
				a.form.retreat()
				return a, nil
			}
		}
	}

	var cmd tea.Cmd
	switch a.mode {
	case modeMenu:
		a.mainMenu, cmd = a.mainMenu.Update(msg)
	case modeBrowse, modePickModule:
		a.moduleMenu, cmd = a.moduleMenu.Update(msg)
	case modePickAction:
		a.actionMenu, cmd = a.actionMenu.Update(msg)
	case modeForm:
		cmd = a.form.Update(msg)
	}
	return a, cmd
}

func (a *App) handleEnter() (tea.Model, tea.Cmd) {
	switch a.mode {
	case modeMenu:
		return a.handleMenuSelection()
	case modePickModule:
		return a.handleModulePicked()
	case modePickAction:
		return a.handleActionPicked()
	case modeForm:
		if a.form.advance() {
			return a.submitForm()
		}
		return a, nil
	case modeBrowse, modeGrades:
		return a.returnToMenu("")
	}
	return a, nil
}

func (a *App) handleMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	switch item.title {
	case "Browse Modules":
		a.openModuleMenu(modeBrowse, "Modules")
	case "Update Module Status":
		a.purpose = purposeUpdate
		a.openModuleMenu(modePickModule, "Update Which Module?")
	case "Add Module":
		a.form = newForm(formAddModule, "Add Module",
			formField{label: "Semester", placeholder: "1"},
			formField{label: "Module ID", placeholder: "MAT101"},
			formField{label: "Name", placeholder: "Mathematik I"},
			formField{label: "ECTS", placeholder: "6"},
		)
		a.mode = modeForm
	case "Remove Module":
		a.purpose = purposeRemove
		a.openModuleMenu(modePickModule, "Remove Which Module?")
	case "Grades Overview":
		a.mode = modeGrades
	case "Study Goals":
		a.openGoalForm()
	case "Save":
		if err := a.store.Save(a.state); err != nil {
			a.statusMsg = fmt.Sprintf("Save failed: %v", err)
			a.logError("Manual save failed: %v", err)
		} else {
			a.statusMsg = "State saved"
			a.logInfo("Manual save")
		}
	case "Quit":
		a.logInfo("Session closed")
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) openModuleMenu(mode appMode, title string) {
	a.refreshModuleMenu()
	a.moduleMenu.Title = title
	a.moduleMenu.SetFilteringEnabled(true)
	a.mode = mode
	a.resizeLists()
}

func (a *App) refreshModuleMenu() {
	modules := a.state.Curriculum.Modules()
	items := make([]list.Item, 0, len(modules))
	for _, sem := range a.state.Curriculum.Semesters {
		for _, m := range sem.Modules {
			desc := fmt.Sprintf("Semester %s · %s ECTS · %s", sem.Label, formatECTS(m.ECTS), m.Status.Label())
			if m.Grade != nil {
				desc += fmt.Sprintf(" · grade %.1f", *m.Grade)
			}
			items = append(items, moduleItem{
				id:    m.ID,
				title: fmt.Sprintf("%s · %s", m.ID, m.Name),
				desc:  desc,
			})
		}
	}
	a.moduleMenu.SetItems(items)
	if len(items) > 0 {
		a.moduleMenu.Select(0)
	}
}

func (a *App) handleModulePicked() (tea.Model, tea.Cmd) {
	item, ok := a.moduleMenu.SelectedItem().(moduleItem)
	if !ok {
		return a, nil
	}
	a.selectedID = item.id
	if a.purpose == purposeRemove {
		a.applyAndSave(fmt.Sprintf("Removed %s", item.id), func() error {
			return a.state.Curriculum.RemoveModule(item.id)
		})
		return a.returnToMenu(a.statusMsg)
	}
	m, err := a.state.Curriculum.FindModule(item.id)
	if err != nil {
		a.statusMsg = err.Error()
		return a.returnToMenu(a.statusMsg)
	}
	a.actionMenu.SetItems(actionsFor(m))
	a.actionMenu.Select(0)
	a.actionMenu.Title = fmt.Sprintf("%s · currently %s", m.ID, m.Status.Label())
	a.mode = modePickAction
	a.resizeLists()
	return a, nil
}

// actionsFor lists the transitions the state machine permits from the
// module's current status. The domain still guards every application.
func actionsFor(m *curriculum.Module) []list.Item {
	switch m.Status {
	case curriculum.StatusPlanned:
		return []list.Item{
			actionItem{event: "enroll", title: "Enroll", desc: "Start the module"},
			actionItem{event: "recognize", title: "Recognize", desc: "Credit transfer, grade optional"},
		}
	case curriculum.StatusEnrolled:
		return []list.Item{
			actionItem{event: "complete", title: "Complete", desc: "Finish with a grade"},
			actionItem{event: "withdraw", title: "Withdraw", desc: "Back to planned"},
		}
	default:
		return []list.Item{
			actionItem{event: "reset", title: "Reset", desc: "Administrative: reopen, clears grade"},
		}
	}
}

func (a *App) handleActionPicked() (tea.Model, tea.Cmd) {
	item, ok := a.actionMenu.SelectedItem().(actionItem)
	if !ok {
		return a, nil
	}
	switch item.event {
	case "enroll":
		a.applyAndSave(fmt.Sprintf("%s enrolled", a.selectedID), func() error {
			return a.state.Curriculum.Enroll(a.selectedID)
		})
		return a.returnToMenu(a.statusMsg)
	case "withdraw":
		a.applyAndSave(fmt.Sprintf("%s withdrawn", a.selectedID), func() error {
			return a.state.Curriculum.Withdraw(a.selectedID)
		})
		return a.returnToMenu(a.statusMsg)
	case "reset":
		a.applyAndSave(fmt.Sprintf("%s reset to planned", a.selectedID), func() error {
			return a.state.Curriculum.Reset(a.selectedID)
		})
		return a.returnToMenu(a.statusMsg)
	case "complete":
		a.form = newForm(formComplete, fmt.Sprintf("Complete %s", a.selectedID),
			formField{label: "Grade", placeholder: "1.7"})
		a.mode = modeForm
	case "recognize":
		a.form = newForm(formRecognize, fmt.Sprintf("Recognize %s", a.selectedID),
			formField{label: "Grade (optional)", placeholder: "leave empty for ungraded credit"})
		a.mode = modeForm
	}
	return a, nil
}

func (a *App) openGoalForm() {
	var gpaInitial, ectsInitial, deadlineInitial string
	if a.state.Goal.TargetGPA != nil {
		gpaInitial = fmt.Sprintf("%.1f", *a.state.Goal.TargetGPA)
	}
	if t := a.state.Goal.ECTSTarget; t != nil {
		ectsInitial = formatECTS(t.ECTS)
		deadlineInitial = t.Deadline.Format("2006-01-02")
	}
	a.form = newForm(formGoal, "Study Goals",
		formField{label: "Target GPA (empty clears)", placeholder: "2.0", initial: gpaInitial},
		formField{label: "Target ECTS (empty clears)", placeholder: "180", initial: ectsInitial},
		formField{label: "ECTS deadline (YYYY-MM-DD)", placeholder: "2027-09-30", initial: deadlineInitial},
	)
	a.mode = modeForm
}

func (a *App) submitForm() (tea.Model, tea.Cmd) {
	f := a.form
	switch f.kind {
	case formComplete:
		grade, err := parseDecimal(f.value(0))
		if err != nil {
			a.statusMsg = err.Error()
			return a, nil
		}
		a.applyAndSave(fmt.Sprintf("%s completed with grade %.1f", a.selectedID, grade), func() error {
			return a.state.Curriculum.Complete(a.selectedID, grade, a.scale)
		})
		return a.returnToMenu(a.statusMsg)

	case formRecognize:
		var grade *float64
		if raw := f.value(0); raw != "" {
			g, err := parseDecimal(raw)
			if err != nil {
				a.statusMsg = err.Error()
				return a, nil
			}
			grade = &g
		}
		a.applyAndSave(fmt.Sprintf("%s recognized", a.selectedID), func() error {
			return a.state.Curriculum.Recognize(a.selectedID, grade, a.scale)
		})
		return a.returnToMenu(a.statusMsg)

	case formAddModule:
		ects, err := parseDecimal(f.value(3))
		if err != nil {
			a.statusMsg = "ECTS: " + err.Error()
			return a, nil
		}
		semester := f.value(0)
		spec := curriculum.ModuleSpec{ID: strings.ToUpper(f.value(1)), Name: f.value(2), ECTS: ects}
		a.applyAndSave(fmt.Sprintf("Added %s to semester %s", spec.ID, semester), func() error {
			_, err := a.state.Curriculum.AddModule(semester, spec)
			return err
		})
		return a.returnToMenu(a.statusMsg)

	case formGoal:
		goal, err := a.parseGoalForm(f)
		if err != nil {
			a.statusMsg = err.Error()
			return a, nil
		}
		a.applyAndSave("Study goals updated", func() error {
			a.state.Goal = goal
			return nil
		})
		return a.returnToMenu(a.statusMsg)
	}
	return a.returnToMenu("")
}

func (a *App) parseGoalForm(f *form) (curriculum.StudyGoal, error) {
	var goal curriculum.StudyGoal
	if raw := f.value(0); raw != "" {
		gpa, err := parseDecimal(raw)
		if err != nil {
			return goal, fmt.Errorf("target GPA: %v", err)
		}
		if !a.scale.Contains(gpa) {
			return goal, fmt.Errorf("target GPA %.1f outside scale %.1f..%.1f", gpa, a.scale.Best, a.scale.Worst)
		}
		goal.TargetGPA = &gpa
	}
	if raw := f.value(1); raw != "" {
		ects, err := parseDecimal(raw)
		if err != nil {
			return goal, fmt.Errorf("target ECTS: %v", err)
		}
		if ects <= 0 {
			return goal, fmt.Errorf("target ECTS must be positive")
		}
		deadline, err := time.Parse("2006-01-02", f.value(2))
		if err != nil {
			return goal, fmt.Errorf("deadline: use YYYY-MM-DD")
		}
		target := curriculum.ECTSTarget{
			ECTS:         ects,
			Deadline:     deadline,
			SetAt:        time.Now(),
			BaselineECTS: aggregate.Summarize(a.state.Curriculum).ECTSEarned,
		}
		// Editing an existing target keeps its original baseline.
		if prev := a.state.Goal.ECTSTarget; prev != nil && prev.ECTS == ects && prev.Deadline.Equal(deadline) {
			target.SetAt = prev.SetAt
			target.BaselineECTS = prev.BaselineECTS
		}
		goal.ECTSTarget = &target
	}
	return goal, nil
}

// applyAndSave runs a domain mutation and, on success, persists the whole
// state before control returns to the user. It reports success so tests can
// assert on outcomes.
func (a *App) applyAndSave(action string, mutate func() error) bool {
	if err := mutate(); err != nil {
		a.statusMsg = err.Error()
		a.logWarn("%s refused: %v", action, err)
		return false
	}
	if err := a.store.Save(a.state); err != nil {
		a.statusMsg = fmt.Sprintf("%s, but save failed: %v", action, err)
		a.logError("Save failed after %q: %v", action, err)
		return false
	}
	a.statusMsg = action + " · saved"
	a.logInfo("%s · saved", action)
	return true
}

func (a *App) returnToMenu(status string) (tea.Model, tea.Cmd) {
	a.mode = modeMenu
	a.form = nil
	a.selectedID = ""
	a.statusMsg = status
	return a, nil
}

func (a *App) resizeLists() {
	if a.width <= 0 || a.height <= 0 {
		return
	}
	w := maxInt(20, a.width-44)
	h := maxInt(10, a.height-14)
	a.mainMenu.SetSize(w, h)
	a.moduleMenu.SetSize(w, h)
	a.actionMenu.SetSize(w, h)
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	rightWidth := maxInt(34, width/3)
	leftWidth := width - rightWidth - 4
	if leftWidth < 30 {
		leftWidth = width
		rightWidth = 0
	}

	var content string
	switch a.mode {
	case modeMenu:
		content = a.mainMenu.View()
	case modeBrowse, modePickModule:
		content = a.moduleMenu.View()
	case modePickAction:
		content = a.actionMenu.View()
	case modeForm:
		content = a.form.View()
	case modeGrades:
		content = a.renderGradesOverview()
	}

	leftBox := boxStyle.Width(maxInt(20, leftWidth)).Render(content)
	body := leftBox
	if rightWidth > 0 {
		summary := aggregate.Summarize(a.state.Curriculum)
		report := aggregate.EvaluateGoal(a.state.Goal, summary, a.scale, time.Now())
		rightBox := boxStyle.Width(maxInt(20, rightWidth)).
			Render(summaryPanel(a.state.Curriculum.Name, summary, report, a.state.Goal, rightWidth-4))
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	}

	sections := []string{headerStyle.Render("⬡ STUDYTRACK"), body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, footerStyle.Render(a.statusMsg))
	return strings.Join(sections, "\n")
}

func (a *App) renderGradesOverview() string {
	var graded []*curriculum.Module
	for _, m := range a.state.Curriculum.Modules() {
		if m.Status == curriculum.StatusCompleted || m.Status == curriculum.StatusRecognized {
			graded = append(graded, m)
		}
	}
	summary := aggregate.Summarize(a.state.Curriculum)
	if len(graded) == 0 {
		return mutedStyle.Render("No completed or recognized modules yet.")
	}
	return strings.Join([]string{
		panelTitleStyle.Render("Grades Overview"),
		gradeSummary(summary),
		"",
		moduleTable(graded),
		"",
		mutedStyle.Render("Recognized modules earn credits but never count toward the GPA."),
	}, "\n")
}

func (a *App) renderLogPanel() string {
	if a.book == nil {
		return ""
	}
	lines, total := a.book.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	head := panelTitleStyle.Render(fmt.Sprintf("LOG · last %d of %d", len(lines), total))
	body := logStyle.Render(strings.Join(lines, "\n"))
	return boxStyle.Render(head + "\n" + body)
}
