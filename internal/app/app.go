package app

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/henri123lemoine/eatsplit/internal/config"
	"github.com/henri123lemoine/eatsplit/internal/debug"
	"github.com/henri123lemoine/eatsplit/internal/ledger"
	"github.com/henri123lemoine/eatsplit/internal/ui"
)

// State represents the current UI state.
type State int

const (
	StateList State = iota
	StateAddFriend
	StateSplit
	StateFilter
	StateHelp
)

// statusTTL is how long a status line stays visible.
const statusTTL = 3 * time.Second

// Model is the main application model.
type Model struct {
	// Configuration
	config *config.Config

	// Data
	ledger   ledger.State
	filtered []ledger.Friend
	cursor   int

	// Overlay state; the forms are derived from the ledger
	state State

	// Add-friend form
	nameInput  textinput.Model
	imageInput textinput.Model
	addFocus   int

	// Split form
	splitForm    ledger.SplitForm
	billInput    textinput.Model
	expenseInput textinput.Model
	splitFocus   int

	// Filter
	filterInput textinput.Model

	// UI
	width      int
	height     int
	keys       KeyMap
	showDetail bool
	status     string
	statusSeq  int

	shouldQuit bool
}

// New creates a new Model around an existing ledger.
func New(cfg *config.Config, l ledger.State) Model {
	nameInput := textinput.New()
	nameInput.Placeholder = "Zoe"
	nameInput.CharLimit = 50

	imageInput := textinput.New()
	imageInput.Placeholder = cfg.General.ImageTemplate
	imageInput.CharLimit = 200

	billInput := textinput.New()
	billInput.Placeholder = "0"
	billInput.CharLimit = 15

	expenseInput := textinput.New()
	expenseInput.Placeholder = "0"
	expenseInput.CharLimit = 15

	filterInput := textinput.New()
	filterInput.Placeholder = "filter..."
	filterInput.CharLimit = 50

	m := Model{
		config:       cfg,
		ledger:       l,
		keys:         KeyMapFromConfig(&cfg.Keys),
		nameInput:    nameInput,
		imageInput:   imageInput,
		billInput:    billInput,
		expenseInput: expenseInput,
		filterInput:  filterInput,
		splitForm:    ledger.NewSplitForm(),
		showDetail:   false,
		state:        StateList,
	}
	m.applyFilter()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Ledger returns the current ledger state.
func (m Model) Ledger() ledger.State {
	return m.ledger
}

// ShouldQuit returns true if the app should quit.
func (m Model) ShouldQuit() bool {
	return m.shouldQuit
}

// currentState derives the visible state. Help and filter overlay
// everything; otherwise the ledger decides which form is open.
func (m Model) currentState() State {
	switch m.state {
	case StateHelp, StateFilter:
		return m.state
	}
	if m.ledger.AddPanelOpen() {
		return StateAddFriend
	}
	if _, ok := m.ledger.Selected(); ok {
		return StateSplit
	}
	return StateList
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.shouldQuit = true
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Quit) && m.currentState() == StateList {
			m.shouldQuit = true
			return m, tea.Quit
		}
		return m.handleKeyPress(msg)

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles key presses based on current state.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.currentState() {
	case StateList:
		return m.handleListKeys(msg)
	case StateAddFriend:
		return m.handleAddKeys(msg)
	case StateSplit:
		return m.handleSplitKeys(msg)
	case StateFilter:
		return m.handleFilterKeys(msg)
	case StateHelp:
		return m.handleHelpKeys(msg)
	}
	return m, nil
}

// handleListKeys handles key presses in the list view.
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
	case key.Matches(msg, m.keys.End):
		m.cursor = len(m.filtered) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Select):
		if f, ok := m.cursorFriend(); ok {
			return m.selectFriend(f.ID)
		}
	case key.Matches(msg, m.keys.Add):
		return m.toggleAddPanel()
	case key.Matches(msg, m.keys.Filter):
		m.state = StateFilter
		m.filterInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Help):
		m.state = StateHelp
		return m, nil
	case key.Matches(msg, m.keys.Detail):
		m.showDetail = !m.showDetail
		return m, nil
	}
	return m, nil
}

// handleHelpKeys handles key presses in the help view.
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	m.state = StateList
	return m, nil
}

// selectFriend applies the select/deselect toggle and prepares a fresh
// split form when a friend becomes selected.
func (m Model) selectFriend(id string) (tea.Model, tea.Cmd) {
	m.ledger = m.ledger.Select(id)

	f, selected := m.ledger.Selected()
	debug.Action("select", map[string]any{"id": id, "selected": selected})
	if !selected {
		m.billInput.Blur()
		m.expenseInput.Blur()
		return m, nil
	}

	m.nameInput.Blur()
	m.imageInput.Blur()
	m.splitForm = ledger.NewSplitForm()
	m.splitForm.SetPayer(m.config.DefaultPayer())
	m.billInput.Reset()
	m.expenseInput.Reset()
	m.splitFocus = ui.FieldBill
	m.focusSplitField()
	m.moveCursorTo(f.ID)
	return m, textinput.Blink
}

// toggleAddPanel opens or closes the add-friend form.
func (m Model) toggleAddPanel() (tea.Model, tea.Cmd) {
	m.ledger = m.ledger.ToggleAddPanel()
	debug.Action("toggle-add-panel", map[string]any{"open": m.ledger.AddPanelOpen()})

	if !m.ledger.AddPanelOpen() {
		m.nameInput.Blur()
		m.imageInput.Blur()
		return m, nil
	}

	m.billInput.Blur()
	m.expenseInput.Blur()
	m.nameInput.Reset()
	m.imageInput.SetValue(m.config.General.ImageTemplate)
	m.addFocus = ui.FieldName
	m.focusAddField()
	return m, textinput.Blink
}

// handleAddKeys handles key presses in the add-friend form.
func (m Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.toggleAddPanel()
	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
		m.addFocus = 1 - m.addFocus
		m.focusAddField()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Submit):
		next, f, err := m.ledger.AddFriend(m.nameInput.Value(), m.imageInput.Value())
		if err != nil {
			// Incomplete forms are not submitted; the panel stays open.
			debug.Action("add-rejected", map[string]any{"err": err})
			return m, nil
		}
		m.ledger = next
		debug.Action("add", map[string]any{"id": f.ID, "name": f.Name})
		m.nameInput.Blur()
		m.imageInput.Blur()
		m.applyFilter()
		m.moveCursorTo(f.ID)
		return m.setStatus(fmt.Sprintf("Added %s", f.Name))
	}

	var cmd tea.Cmd
	if m.addFocus == ui.FieldName {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.imageInput, cmd = m.imageInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusAddField() {
	if m.addFocus == ui.FieldName {
		m.nameInput.Focus()
		m.imageInput.Blur()
	} else {
		m.imageInput.Focus()
		m.nameInput.Blur()
	}
}

// handleSplitKeys handles key presses in the split-bill form. The add
// binding never reaches the numeric inputs, so it opens the add panel
// straight from here.
func (m Model) handleSplitKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected, _ := m.ledger.Selected()

	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.selectFriend(selected.ID)
	case key.Matches(msg, m.keys.Add):
		return m.toggleAddPanel()
	case key.Matches(msg, m.keys.SwitchPrev), key.Matches(msg, m.keys.SwitchNext):
		return m.switchFriend(key.Matches(msg, m.keys.SwitchNext))
	case key.Matches(msg, m.keys.NextField):
		m.splitFocus = (m.splitFocus + 1) % 3
		m.focusSplitField()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.PrevField):
		m.splitFocus = (m.splitFocus + 2) % 3
		m.focusSplitField()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Submit):
		return m.submitSplit(selected)
	}

	var cmd tea.Cmd
	switch m.splitFocus {
	case ui.FieldBill:
		m.billInput, cmd = m.billInput.Update(msg)
		if !m.splitForm.SetBill(m.billInput.Value()) {
			m.billInput.SetValue(m.splitForm.BillText())
		}
	case ui.FieldYourExpense:
		m.expenseInput, cmd = m.expenseInput.Update(msg)
		if !m.splitForm.SetYourExpense(m.expenseInput.Value()) {
			m.expenseInput.SetValue(m.splitForm.YourExpenseText())
		}
	case ui.FieldPayer:
		if key.Matches(msg, m.keys.TogglePayer) {
			m.splitForm.TogglePayer()
		}
	}
	return m, cmd
}

// switchFriend selects the friend above or below the current selection,
// which replaces the selection and resets the form.
func (m Model) switchFriend(forward bool) (tea.Model, tea.Cmd) {
	if len(m.filtered) < 2 {
		return m, nil
	}
	i := m.cursor - 1
	if forward {
		i = m.cursor + 1
	}
	if i < 0 || i >= len(m.filtered) {
		return m, nil
	}
	m.cursor = i
	return m.selectFriend(m.filtered[i].ID)
}

func (m Model) submitSplit(f ledger.Friend) (tea.Model, tea.Cmd) {
	if !m.splitForm.Ready() {
		return m, nil
	}

	split := m.splitForm.Split()
	next, err := m.ledger.SplitBill(split)
	if err != nil {
		debug.Action("split-rejected", map[string]any{"id": f.ID, "err": err})
		return m, nil
	}
	m.ledger = next
	m.billInput.Blur()
	m.expenseInput.Blur()
	m.applyFilter()

	updated, _ := m.ledger.Friend(f.ID)
	debug.Action("split", map[string]any{
		"id":      f.ID,
		"bill":    split.Bill,
		"yours":   split.YourExpense,
		"payer":   split.PaidBy,
		"balance": updated.Balance,
	})
	return m.setStatus(updated.Describe(m.config.General.Currency))
}

func (m *Model) focusSplitField() {
	m.billInput.Blur()
	m.expenseInput.Blur()
	switch m.splitFocus {
	case ui.FieldBill:
		m.billInput.Focus()
	case ui.FieldYourExpense:
		m.expenseInput.Focus()
	}
}

// handleFilterKeys handles key presses in filter mode.
func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = StateList
		m.filterInput.Reset()
		m.applyFilter()
		return m, nil
	case tea.KeyEnter:
		m.state = StateList
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyFilter()
	return m, cmd
}

// friendSource implements fuzzy.Source for friend name matching.
type friendSource []ledger.Friend

func (s friendSource) String(i int) string {
	return s[i].Name
}

func (s friendSource) Len() int {
	return len(s)
}

// applyFilter filters friends based on current filter input using fuzzy matching.
func (m *Model) applyFilter() {
	friends := m.ledger.Friends()
	filter := m.filterInput.Value()
	if filter == "" {
		m.filtered = friends
	} else {
		matches := fuzzy.FindFrom(filter, friendSource(friends))

		m.filtered = nil
		for _, match := range matches {
			m.filtered = append(m.filtered, friends[match.Index])
		}
	}

	// Ensure cursor is in bounds
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) cursorFriend() (ledger.Friend, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return ledger.Friend{}, false
	}
	return m.filtered[m.cursor], true
}

func (m *Model) moveCursorTo(id string) {
	if i := slices.IndexFunc(m.filtered, func(f ledger.Friend) bool { return f.ID == id }); i >= 0 {
		m.cursor = i
	}
}

func (m Model) setStatus(s string) (tea.Model, tea.Cmd) {
	m.statusSeq++
	m.status = s
	seq := m.statusSeq
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

// visibleCount estimates how many friend rows fit on screen.
func (m Model) visibleCount() int {
	perRow := 2
	if m.config.UI.ShowImages {
		perRow++
	}
	if m.showDetail {
		// Leave room for the detail panel under the cursor row.
		perRow++
	}
	n := (m.height - 10) / perRow
	if n < 1 {
		n = 1
	}
	return n
}

func (m Model) helpSections() []ui.HelpSection {
	titles := []string{"Navigation", "Friends", "Forms", "General"}
	var sections []ui.HelpSection
	for i, group := range m.keys.helpSections() {
		section := ui.HelpSection{Title: titles[i]}
		for _, b := range group {
			h := b.Help()
			section.Bindings = append(section.Bindings, ui.HelpBinding{Keys: h.Key, Desc: h.Desc})
		}
		sections = append(sections, section)
	}
	return sections
}

// View renders the UI.
func (m Model) View() string {
	visible := m.visibleCount()
	offset := 0
	if m.cursor >= visible {
		offset = m.cursor - visible + 1
	}

	p := ui.RenderParams{
		State:        int(m.currentState()),
		Friends:      m.filtered,
		Cursor:       m.cursor,
		SelectedID:   m.ledger.SelectedID(),
		ViewOffset:   offset,
		VisibleCount: visible,
		Width:        m.width,
		Height:       m.height,
		Currency:     m.config.General.Currency,
		Totals:       m.ledger.Totals(),
		ShowTotals:   m.config.UI.ShowTotals,
		ShowImages:   m.config.UI.ShowImages,
		ShowDetail:   m.showDetail,
		FilterInput:  m.filterInput.View(),
		FilterValue:  m.filterInput.Value(),
		AddNameInput: m.nameInput.View(),
		AddImgInput:  m.imageInput.View(),
		AddFocus:     m.addFocus,
		Status:       m.status,
		HelpSections: m.helpSections(),
	}

	if f, ok := m.ledger.Selected(); ok {
		p.Split = &ui.SplitParams{
			Friend:        f,
			BillInput:     m.billInput.View(),
			ExpenseInput:  m.expenseInput.View(),
			FriendExpense: m.splitForm.FriendExpense(),
			YourExpense:   m.splitForm.YourExpense(),
			Payer:         m.splitForm.Payer(),
			Focus:         m.splitFocus,
		}
	}

	return ui.Render(p)
}
