package tui

import (
	"fmt"
	"strings"

	"github.com/andy/contactbook/internal/app"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenContacts Screen = iota
	ScreenBirthdays
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenContacts:
		return "Contacts"
	case ScreenBirthdays:
		return "Birthdays"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	contacts  tea.Model
	birthdays tea.Model
	settings  tea.Model

	checkedFirstRun bool

	err error
}

// New creates a new root model
func New(a *app.App) Model {
	return Model{
		app:           a,
		currentScreen: ScreenContacts,
		contacts:      NewContactsModel(a),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkFirstRun(), m.contacts.Init())
}

// checkFirstRun reports whether the book is still empty
func (m *Model) checkFirstRun() tea.Cmd {
	svc := m.app.ContactService
	return func() tea.Msg {
		return firstRunCheckMsg{hasContacts: svc.Count() > 0}
	}
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	switch screen {
	case ScreenContacts:
		if m.contacts == nil {
			m.contacts = NewContactsModel(m.app)
			return m.contacts.Init()
		}
	case ScreenBirthdays:
		if m.birthdays == nil {
			m.birthdays = NewBirthdaysModel(m.app)
			return m.birthdays.Init()
		}
	case ScreenSettings:
		if m.settings == nil {
			m.settings = NewSettingsModel(m.app)
			return m.settings.Init()
		}
	default:
		return nil
	}
	return func() tea.Msg { return RefreshDataMsg{} }
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

func (m *Model) activeScreen() tea.Model {
	switch m.currentScreen {
	case ScreenContacts:
		return m.contacts
	case ScreenBirthdays:
		return m.birthdays
	case ScreenSettings:
		return m.settings
	}
	return nil
}

func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.activeScreen().(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit
			case key.Matches(msg, DefaultKeyMap.Contacts):
				m.currentScreen = ScreenContacts
				return m, m.initScreen(ScreenContacts)
			case key.Matches(msg, DefaultKeyMap.Birthdays):
				m.currentScreen = ScreenBirthdays
				return m, m.initScreen(ScreenBirthdays)
			case key.Matches(msg, DefaultKeyMap.Settings):
				m.currentScreen = ScreenSettings
				return m, m.initScreen(ScreenSettings)
			}
		}

	case firstRunCheckMsg:
		if !m.checkedFirstRun && !msg.hasContacts {
			m.checkedFirstRun = true
			m.currentScreen = ScreenContacts
			return m, func() tea.Msg { return OpenNewContactFormMsg{} }
		}
		m.checkedFirstRun = true
		return m, nil

	case SwitchScreenMsg:
		m.currentScreen = msg.Screen
		return m, m.initScreen(msg.Screen)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentScreen {
	case ScreenContacts:
		if m.contacts != nil {
			m.contacts, cmd = m.contacts.Update(msg)
		}
	case ScreenBirthdays:
		if m.birthdays != nil {
			m.birthdays, cmd = m.birthdays.Update(msg)
		}
	case ScreenSettings:
		if m.settings != nil {
			m.settings, cmd = m.settings.Update(msg)
		}
	}

	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	today := m.app.ContactService.Today().Format("02.01.2006")
	header := headerStyle.Render(fmt.Sprintf("contactbook - %s", m.currentScreen)) +
		subtitleStyle.Render("  "+today)
	footer := footerStyle.Render("[C]ontacts  [B]irthdays  [,]Settings  [Q]uit")

	content := "Loading..."
	if screen := m.activeScreen(); screen != nil {
		content = screen.View()
	}

	errorDisplay := ""
	if m.err != nil {
		errorDisplay = errorStyle.Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	innerWidth := max(m.width-6, 20) // border (2) + padding (4)
	dividerWidth := max(innerWidth-12, 10)
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(strings.Repeat("─", dividerWidth))

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
