package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andy/contactbook/internal/app"
	"github.com/andy/contactbook/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type contactMode int

const (
	contactModeList contactMode = iota
	contactModeNew
	contactModeAddPhone
	contactModeBirthday
	contactModeConfirmDelete
)

// new contact form field indices
const (
	fieldName = iota
	fieldPhone
	fieldBirthday
	fieldCount
)

// ContactsModel shows the directory one page at a time with forms to add
// contacts, append phones, set birthdays, and delete contacts
type ContactsModel struct {
	app       *app.App
	pages     []domain.Page
	total     int
	paginator paginator.Model
	cursor    int
	loading   bool
	err       error
	statusMsg string

	// Form state
	mode           contactMode
	fields         []textinput.Model
	fieldFocus     int
	input          textinput.Model
	target         string // contact the single-field form or delete applies to
	autoNewContact bool
}

type contactsDataMsg struct {
	pages []domain.Page
	total int
	err   error
}

type contactSavedMsg struct {
	status string
	err    error
}

// NewContactsModel creates a new contacts screen model
func NewContactsModel(a *app.App) tea.Model {
	p := paginator.New()
	p.Type = paginator.Dots
	p.PerPage = a.Config.Display.PageSize
	p.ActiveDot = lipgloss.NewStyle().Foreground(primaryColor).Render("•")
	p.InactiveDot = subtitleStyle.Render("•")

	return &ContactsModel{
		app:       a,
		paginator: p,
		loading:   true,
	}
}

// IsCapturingInput returns true while a form or confirmation is open
func (m *ContactsModel) IsCapturingInput() bool {
	return m.mode != contactModeList
}

func (m *ContactsModel) Init() tea.Cmd {
	return m.loadContacts()
}

func (m *ContactsModel) loadContacts() tea.Cmd {
	svc := m.app.ContactService
	perPage := m.paginator.PerPage
	return func() tea.Msg {
		pages, err := svc.Pages(perPage)
		if err != nil {
			return contactsDataMsg{err: err}
		}
		return contactsDataMsg{pages: pages, total: svc.Count()}
	}
}

// selected returns the record under the cursor, or nil
func (m *ContactsModel) selected() *domain.Record {
	if m.paginator.Page >= len(m.pages) {
		return nil
	}
	page := m.pages[m.paginator.Page]
	if m.cursor >= len(page) {
		return nil
	}
	return page[m.cursor]
}

func newInput(placeholder string, limit, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = width
	return ti
}

func (m *ContactsModel) openNewForm() tea.Cmd {
	m.mode = contactModeNew
	m.err = nil
	m.fields = []textinput.Model{
		fieldName:     newInput("Anna Maria", 100, 40),
		fieldPhone:    newInput("+38(050)123-45-67 (optional)", 30, 30),
		fieldBirthday: newInput("dd.mm.yyyy (optional)", 10, 20),
	}
	m.fieldFocus = fieldName
	return m.fields[fieldName].Focus()
}

func (m *ContactsModel) openSingleForm(mode contactMode, r *domain.Record) tea.Cmd {
	m.mode = mode
	m.err = nil
	m.target = r.Name().Value()
	switch mode {
	case contactModeAddPhone:
		m.input = newInput("+38(050)123-45-67", 30, 30)
	case contactModeBirthday:
		m.input = newInput("dd.mm.yyyy, empty to clear", 10, 20)
		m.input.SetValue(r.Birthday().Value())
	}
	return m.input.Focus()
}

func (m *ContactsModel) saveNew() tea.Cmd {
	svc := m.app.ContactService
	name := m.fields[fieldName].Value()
	phone := m.fields[fieldPhone].Value()
	birthday := m.fields[fieldBirthday].Value()
	return func() tea.Msg {
		r, err := svc.Add(context.Background(), name, phone, birthday)
		if err != nil {
			return contactSavedMsg{err: err}
		}
		return contactSavedMsg{status: fmt.Sprintf("Added: %s", r.Name())}
	}
}

func (m *ContactsModel) saveSingle() tea.Cmd {
	svc := m.app.ContactService
	mode, name, value := m.mode, m.target, m.input.Value()
	return func() tea.Msg {
		ctx := context.Background()
		switch mode {
		case contactModeAddPhone:
			if err := svc.AppendPhone(ctx, name, value); err != nil {
				return contactSavedMsg{err: err}
			}
			return contactSavedMsg{status: fmt.Sprintf("Phone %s added to %s", strings.TrimSpace(value), name)}
		case contactModeBirthday:
			if err := svc.SetBirthday(ctx, name, value); err != nil {
				return contactSavedMsg{err: err}
			}
			return contactSavedMsg{status: fmt.Sprintf("Birthday updated: %s", name)}
		}
		return nil
	}
}

func (m *ContactsModel) deleteTarget() tea.Cmd {
	svc := m.app.ContactService
	name := m.target
	return func() tea.Msg {
		if err := svc.Delete(context.Background(), name); err != nil {
			return contactSavedMsg{err: err}
		}
		return contactSavedMsg{status: fmt.Sprintf("Deleted: %s", name)}
	}
}

func (m *ContactsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(OpenNewContactFormMsg); ok {
		if m.loading {
			m.autoNewContact = true
			return m, nil
		}
		return m, m.openNewForm()
	}

	if saved, ok := msg.(contactSavedMsg); ok {
		if saved.err != nil {
			m.err = saved.err
			if m.mode == contactModeConfirmDelete {
				m.mode = contactModeList
			}
			return m, nil
		}
		m.mode = contactModeList
		m.err = nil
		m.statusMsg = saved.status
		m.loading = true
		return m, m.loadContacts()
	}

	switch m.mode {
	case contactModeNew:
		return m.updateNewForm(msg)
	case contactModeAddPhone, contactModeBirthday:
		return m.updateSingleForm(msg)
	case contactModeConfirmDelete:
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		if size := m.app.Config.Display.PageSize; size != m.paginator.PerPage {
			m.paginator.PerPage = size
			m.paginator.Page = 0
			m.cursor = 0
		}
		m.loading = true
		return m, m.loadContacts()

	case contactsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.pages = msg.pages
			m.total = msg.total
			m.paginator.TotalPages = max(len(m.pages), 1)
			if m.paginator.Page >= m.paginator.TotalPages {
				m.paginator.Page = m.paginator.TotalPages - 1
			}
			m.clampCursor()
		}
		if m.autoNewContact {
			m.autoNewContact = false
			return m, m.openNewForm()
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		m.statusMsg = ""
		m.err = nil

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			m.cursor++
			m.clampCursor()
		case key.Matches(msg, DefaultKeyMap.Left):
			m.paginator.PrevPage()
			m.cursor = 0
		case key.Matches(msg, DefaultKeyMap.Right):
			m.paginator.NextPage()
			m.cursor = 0
		case key.Matches(msg, DefaultKeyMap.New):
			return m, m.openNewForm()
		case key.Matches(msg, DefaultKeyMap.AddPhone):
			if r := m.selected(); r != nil {
				return m, m.openSingleForm(contactModeAddPhone, r)
			}
		case key.Matches(msg, DefaultKeyMap.Birthday):
			if r := m.selected(); r != nil {
				return m, m.openSingleForm(contactModeBirthday, r)
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if r := m.selected(); r != nil {
				m.mode = contactModeConfirmDelete
				m.target = r.Name().Value()
			}
		}
	}

	return m, nil
}

func (m *ContactsModel) clampCursor() {
	size := 0
	if m.paginator.Page < len(m.pages) {
		size = len(m.pages[m.paginator.Page])
	}
	if m.cursor >= size {
		m.cursor = max(0, size-1)
	}
}

func (m *ContactsModel) updateNewForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.mode = contactModeList
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % fieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + fieldCount) % fieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == fieldCount-1 {
				return m, m.saveNew()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveNew()
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *ContactsModel) updateSingleForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.mode = contactModeList
			m.err = nil
			return m, nil
		case "enter", "ctrl+s":
			return m, m.saveSingle()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ContactsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			return m, m.deleteTarget()
		default:
			m.mode = contactModeList
		}
	}
	return m, nil
}

func (m *ContactsModel) View() string {
	switch m.mode {
	case contactModeNew:
		return m.viewNewForm()
	case contactModeAddPhone, contactModeBirthday:
		return m.viewSingleForm()
	}
	return m.viewList()
}

func (m *ContactsModel) viewNewForm() string {
	var s string

	if m.total == 0 {
		s += titleStyle.Render("Welcome to contactbook!") + "\n"
		s += subtitleStyle.Render("  Add your first contact to get started.") + "\n\n"
	} else {
		s += titleStyle.Render("New Contact") + "\n\n"
	}

	labels := []string{"Name:", "Phone:", "Birthday:"}
	for i, label := range labels {
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

func (m *ContactsModel) viewSingleForm() string {
	title := "Add Phone"
	if m.mode == contactModeBirthday {
		title = "Set Birthday"
	}

	s := titleStyle.Render(title) + subtitleStyle.Render("  "+m.target) + "\n\n"
	s += "  " + m.input.View() + "\n\n"
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}
	s += helpStyle.Render("  enter: save  esc: cancel")
	return s
}

func (m *ContactsModel) viewList() string {
	if m.loading {
		return "Loading contacts..."
	}

	s := titleStyle.Render("Contacts") + subtitleStyle.Render(fmt.Sprintf("  (%d)", m.total)) + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	if m.total == 0 {
		s += subtitleStyle.Render("  No contacts yet. Press 'n' to add one.") + "\n"
		return s
	}

	today := m.app.ContactService.Today()
	if m.paginator.Page < len(m.pages) {
		for i, r := range m.pages[m.paginator.Page] {
			s += m.renderRecord(i, r, today) + "\n"
		}
	}

	s += "\n  " + m.paginator.View() + "\n"

	if m.mode == contactModeConfirmDelete {
		s += "\n" + warningStyle.Render(fmt.Sprintf("  Delete %s? [y/N]", m.target)) + "\n"
		return s
	}

	s += "\n" + helpStyle.Render("  j/k: move  h/l: page  n: new  p: add phone  s: birthday  d: delete")
	return s
}

func (m *ContactsModel) renderRecord(index int, r *domain.Record, today time.Time) string {
	selected := index == m.cursor

	indicator := "  "
	nameStyle := lipgloss.NewStyle()
	if selected {
		indicator = "> "
		nameStyle = nameStyle.Bold(true).Foreground(primaryColor)
	}

	phones := orDash(truncateStr(strings.Join(r.Phones(), ", "), 50))
	birthday := orDash(r.Birthday().Value())
	if days, err := r.DaysToBirthday(today); err == nil {
		birthday += " (" + formatDays(days) + ")"
	}

	line1 := nameStyle.Render(indicator + r.Name().Value())
	line2 := subtitleStyle.Render(fmt.Sprintf("    Phones: %s  |  Birthday: %s", phones, birthday))
	return line1 + "\n" + line2
}
