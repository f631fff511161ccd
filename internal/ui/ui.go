package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/haldane/eegx/internal/forms"
	"github.com/haldane/eegx/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ActionListView ViewState = iota
	FormView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	store    *services.SessionStore
	catalog  *services.SchemaCatalog
	interval time.Duration
	logger   *log.Logger

	view   ViewState
	width  int
	height int

	actionList list.Model
	doc        services.SessionDocument

	action string
	forms  []*sectionForm
	active int

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, store *services.SessionStore, catalog *services.SchemaCatalog, interval time.Duration, logger *log.Logger) *Model {
	return &Model{
		ctx:      ctx,
		view:     ActionListView,
		store:    store,
		catalog:  catalog,
		interval: interval,
		logger:   logger,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by loading (or creating) the backend session.
func (m *Model) Init() tea.Cmd {
	return m.loadSession()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.actionList.Width() == 0 {
			m.actionList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ActionListView:
			return m.handleActionListKeys(msg)
		case FormView:
			return m.handleFormKeys(msg)
		}

	case sessionLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.doc = msg.doc

		actions := forms.Actions()
		items := make([]list.Item, len(actions))
		for i, action := range actions {
			items[i] = actionItem{action: action}
		}
		m.actionList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.actionList.Title = "Pipeline Actions"
		m.actionList.SetSize(m.width-4, m.height-8)
		return m, nil

	case formBuiltMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ActionListView
			return m, nil
		}
		m.action = msg.action
		m.forms = msg.forms
		m.active = 0
		m.view = FormView
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view == ActionListView && m.actionList.Width() == 0 {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit", m.err))
	}

	switch m.view {
	case ActionListView:
		return m.renderActionList()
	case FormView:
		return m.renderForm()
	default:
		return ""
	}
}

func (m *Model) handleActionListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.actionList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(actionItem); ok {
				return m, m.openForm(item.action)
			}
		}
	}

	var cmd tea.Cmd
	m.actionList, cmd = m.actionList.Update(msg)
	return m, cmd
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.closeForms()
		return m, tea.Quit
	case "esc":
		m.closeForms()
		m.view = ActionListView
		return m, nil
	case "tab":
		if len(m.forms) > 0 {
			m.active = (m.active + 1) % len(m.forms)
		}
		return m, nil
	case "shift+tab":
		if len(m.forms) > 0 {
			m.active = (m.active - 1 + len(m.forms)) % len(m.forms)
		}
		return m, nil
	case "up":
		if f := m.activeForm(); f != nil {
			f.focusWidget(f.focus - 1)
		}
		return m, nil
	case "down":
		if f := m.activeForm(); f != nil {
			f.focusWidget(f.focus + 1)
		}
		return m, nil
	}

	if f := m.activeForm(); f != nil {
		return m, f.update(msg)
	}
	return m, nil
}

func (m *Model) activeForm() *sectionForm {
	if len(m.forms) == 0 || m.active >= len(m.forms) {
		return nil
	}
	return m.forms[m.active]
}

// closeForms stops every section scheduler. Leaving a form is the only path
// out of editing, so this is where debounce timers die.
func (m *Model) closeForms() {
	for _, f := range m.forms {
		f.close()
	}
	m.forms = nil
	m.action = ""
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != ActionListView {
		return m, nil
	}
	var cmd tea.Cmd
	m.actionList, cmd = m.actionList.Update(msg)
	return m, cmd
}

func (m *Model) loadSession() tea.Cmd {
	return func() tea.Msg {
		doc, err := m.store.Load(m.ctx)
		return sessionLoadedMsg{doc: doc, err: err}
	}
}

// openForm fetches the schemas an action depends on and wires one section
// tab per schema, hydrated from the loaded session document.
func (m *Model) openForm(action string) tea.Cmd {
	return func() tea.Msg {
		sections := forms.RequiredSections(action)

		built := make([]*sectionForm, 0, len(sections))
		for _, section := range sections {
			endpoint, err := forms.SectionEndpoint(section)
			if err != nil {
				return formBuiltMsg{action: action, err: err}
			}

			schema, err := m.catalog.Fetch(m.ctx, endpoint)
			if err != nil {
				return formBuiltMsg{action: action, err: err}
			}

			built = append(built, newSectionForm(section, schema, m.store, m.interval, m.logger, m.doc.Section(endpoint)))
		}

		return formBuiltMsg{action: action, forms: built}
	}
}

func (m *Model) renderActionList() string {
	var errLine string
	if m.err != nil {
		errLine = "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s%s\n\n%s", m.actionList.View(), errLine, helpView)
}

func (m *Model) renderForm() string {
	title := styles.title.Render(m.action)

	if len(m.forms) == 0 {
		note := styles.help.Render("This action has no adjustable settings.")
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
		return fmt.Sprintf("%s\n%s\n\n%s", title, note, helpView)
	}

	tabs := make([]string, len(m.forms))
	for i, f := range m.forms {
		if i == m.active {
			tabs[i] = styles.tabOn.Render(f.section)
		} else {
			tabs[i] = styles.tabOff.Render(f.section)
		}
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.nextTab, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n%s",
		title,
		strings.Join(tabs, " "),
		m.forms[m.active].view(),
		helpView,
	)
}
