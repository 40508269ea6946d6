package tui

import (
	"fmt"

	"github.com/andy/contactbook/internal/app"
	"github.com/andy/contactbook/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// BirthdaysModel lists contacts by days until their next birthday
type BirthdaysModel struct {
	app       *app.App
	reminders []service.BirthdayReminder
	showAll   bool
	loading   bool
}

type birthdaysDataMsg struct {
	reminders []service.BirthdayReminder
}

// NewBirthdaysModel creates a new birthdays screen model
func NewBirthdaysModel(a *app.App) tea.Model {
	return &BirthdaysModel{app: a, loading: true}
}

func (m *BirthdaysModel) Init() tea.Cmd {
	return m.loadBirthdays()
}

func (m *BirthdaysModel) window() int {
	if m.showAll {
		return 0
	}
	return m.app.Config.Birthday.UpcomingDays
}

func (m *BirthdaysModel) loadBirthdays() tea.Cmd {
	svc := m.app.ContactService
	within := m.window()
	return func() tea.Msg {
		return birthdaysDataMsg{reminders: svc.UpcomingBirthdays(within)}
	}
}

func (m *BirthdaysModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadBirthdays()

	case birthdaysDataMsg:
		m.loading = false
		m.reminders = msg.reminders
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, DefaultKeyMap.Window) {
			m.showAll = !m.showAll
			m.loading = true
			return m, m.loadBirthdays()
		}
	}
	return m, nil
}

func (m *BirthdaysModel) View() string {
	if m.loading {
		return "Loading birthdays..."
	}

	title := fmt.Sprintf("Birthdays in the next %d days", m.window())
	if m.showAll {
		title = "All birthdays"
	}
	s := titleStyle.Render(title) + "\n\n"

	if len(m.reminders) == 0 {
		s += subtitleStyle.Render("  Nothing coming up.") + "\n"
	}

	for _, rem := range m.reminders {
		line := fmt.Sprintf("  %-24s %s  turns %-3d %s",
			truncateStr(rem.Record.Name().Value(), 24),
			rem.Next.Format("02.01.2006"),
			rem.Turns,
			formatDays(rem.Days),
		)
		switch {
		case rem.Days == 0:
			s += todayStyle.Render(line) + "\n"
		case rem.Days <= 7:
			s += upcomingStyle.Render(line) + "\n"
		default:
			s += line + "\n"
		}
	}

	s += "\n" + helpStyle.Render("  w: toggle window/all")
	return s
}
