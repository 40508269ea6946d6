package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andy/contactbook/internal/app"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldPageSize = iota
	settingsFieldUpcomingDays
	settingsFieldMinYear
	settingsFieldMaxYear
	settingsFieldCount
)

var settingsLabels = []string{"Contacts Per Page:", "Upcoming Window (days):", "Earliest Birth Year:", "Latest Birth Year:"}

type settingsSavedMsg struct {
	err error
}

// SettingsModel shows and edits the listing and birthday settings
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	fields     []textinput.Model
	fieldFocus int
	err        error
	statusMsg  string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) initForm() {
	cfg := m.app.Config
	m.fields = []textinput.Model{
		settingsFieldPageSize:     newInput("2", 4, 10),
		settingsFieldUpcomingDays: newInput("30, 0 for all", 4, 16),
		settingsFieldMinYear:      newInput("1900", 4, 10),
		settingsFieldMaxYear:      newInput("0 for the current year", 4, 24),
	}
	m.fields[settingsFieldPageSize].SetValue(strconv.Itoa(cfg.Display.PageSize))
	m.fields[settingsFieldUpcomingDays].SetValue(strconv.Itoa(cfg.Birthday.UpcomingDays))
	m.fields[settingsFieldMinYear].SetValue(strconv.Itoa(cfg.Birthday.MinYear))
	m.fields[settingsFieldMaxYear].SetValue(strconv.Itoa(cfg.Birthday.MaxYear))

	m.fieldFocus = settingsFieldPageSize
}

// saveSettings validates the form, writes the config file and hands the new
// birthday rules to the contact service. The previous config is restored
// when anything fails.
func (m *SettingsModel) saveSettings() tea.Cmd {
	values := make([]int, settingsFieldCount)
	for i := range values {
		v, err := strconv.Atoi(strings.TrimSpace(m.fields[i].Value()))
		if err != nil {
			return savedCmd(fmt.Errorf("%s must be a whole number", strings.TrimSuffix(settingsLabels[i], ":")))
		}
		values[i] = v
	}

	cfg := *m.app.Config
	cfg.Display.PageSize = values[settingsFieldPageSize]
	cfg.Birthday.UpcomingDays = values[settingsFieldUpcomingDays]
	cfg.Birthday.MinYear = values[settingsFieldMinYear]
	cfg.Birthday.MaxYear = values[settingsFieldMaxYear]
	if err := cfg.Validate(); err != nil {
		return savedCmd(err)
	}

	prev := *m.app.Config
	*m.app.Config = cfg
	if err := m.app.SaveConfig(); err != nil {
		*m.app.Config = prev
		return savedCmd(fmt.Errorf("failed to save config: %w", err))
	}
	m.app.ContactService.SetBirthdayRules(cfg.Birthday)

	return savedCmd(nil)
}

func savedCmd(err error) tea.Cmd {
	return func() tea.Msg { return settingsSavedMsg{err: err} }
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		m.err = nil
		if msg.String() == "enter" {
			m.mode = settingsModeEdit
			m.statusMsg = ""
			m.initForm()
			return m, m.fields[m.fieldFocus].Focus()
		}
	}

	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = settingsModeView
		m.err = nil
		m.statusMsg = "Settings saved"
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + settingsFieldCount) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == settingsFieldCount-1 {
				return m, m.saveSettings()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveSettings()
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}

	cfg := m.app.Config
	labelStyle := lipgloss.NewStyle().Bold(true).Width(26)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)

	maxYear := strconv.Itoa(cfg.Birthday.MaxYear)
	if cfg.Birthday.MaxYear == 0 {
		maxYear = "current year"
	}
	window := strconv.Itoa(cfg.Birthday.UpcomingDays)
	if cfg.Birthday.UpcomingDays == 0 {
		window = "all"
	}

	values := []string{strconv.Itoa(cfg.Display.PageSize), window, strconv.Itoa(cfg.Birthday.MinYear), maxYear}
	for i, label := range settingsLabels {
		s += fmt.Sprintf("  %s %s\n", labelStyle.Render(label), valueStyle.Render(values[i]))
	}

	s += "\n" + helpStyle.Render("  enter: edit settings")
	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Settings") + "\n\n"

	for i, label := range settingsLabels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")
	return s
}
