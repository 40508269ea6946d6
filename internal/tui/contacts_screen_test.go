package tui

import (
	"context"
	"testing"
	"time"

	"github.com/andy/contactbook/internal/app"
	"github.com/andy/contactbook/internal/config"
	"github.com/andy/contactbook/internal/domain"
	"github.com/andy/contactbook/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRepo struct{}

func (memoryRepo) Load(ctx context.Context) (*domain.Directory, error) {
	return domain.NewDirectory(), nil
}

func (memoryRepo) Save(ctx context.Context, dir *domain.Directory) error { return nil }

func newTestApp(t *testing.T, names ...string) *app.App {
	t.Helper()
	cfg := config.DefaultConfig()
	clock := domain.FixedClock(time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC))
	svc := service.NewContactService(domain.NewDirectory(), memoryRepo{}, clock, cfg.Birthday, zap.NewNop())
	for _, n := range names {
		_, err := svc.Add(context.Background(), n, "", "")
		require.NoError(t, err)
	}
	return &app.App{Config: cfg, Clock: clock, ContactService: svc, Logger: zap.NewNop()}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settle runs cmd and feeds its message back until nothing is left
func settle(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		m, cmd = m.Update(msg)
	}
	return m
}

func loadedContacts(t *testing.T, a *app.App) *ContactsModel {
	t.Helper()
	m := NewContactsModel(a)
	return settle(t, m, m.Init()).(*ContactsModel)
}

func TestContacts_Pagination(t *testing.T) {
	m := loadedContacts(t, newTestApp(t, "Anna", "Boris", "Clara"))

	assert.Equal(t, 2, m.paginator.TotalPages)
	assert.Equal(t, "Anna", m.selected().Name().Value())

	m.Update(runes("j"))
	assert.Equal(t, "Boris", m.selected().Name().Value())
	m.Update(runes("j"))
	assert.Equal(t, "Boris", m.selected().Name().Value())

	m.Update(runes("l"))
	assert.Equal(t, 1, m.paginator.Page)
	assert.Equal(t, "Clara", m.selected().Name().Value())
	assert.Contains(t, m.View(), "Clara")
	assert.NotContains(t, m.View(), "Anna")
}

func TestContacts_NewContactForm(t *testing.T) {
	a := newTestApp(t)
	m := loadedContacts(t, a)
	assert.Contains(t, m.View(), "No contacts yet")

	m.Update(runes("n"))
	require.True(t, m.IsCapturingInput())

	m.Update(runes("anna"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(runes("12x"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	settle(t, m, cmd)

	require.ErrorIs(t, m.err, domain.ErrPhoneInvalid)
	assert.True(t, m.IsCapturingInput())

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(runes("20.06.1990"))
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	settle(t, m, cmd)

	assert.False(t, m.IsCapturingInput())
	assert.Equal(t, "Added: Anna", m.statusMsg)
	r, err := a.ContactService.Get("Anna")
	require.NoError(t, err)
	assert.Equal(t, []string{"12"}, r.Phones())
	assert.Contains(t, m.View(), "20.06.1990 (in 5 days)")
}

func TestContacts_AddPhoneAndDelete(t *testing.T) {
	a := newTestApp(t, "Anna", "Boris")
	m := loadedContacts(t, a)

	m.Update(runes("p"))
	m.Update(runes("555"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	settle(t, m, cmd)
	r, err := a.ContactService.Get("Anna")
	require.NoError(t, err)
	assert.Equal(t, []string{"555"}, r.Phones())

	m.Update(runes("j"))
	m.Update(runes("d"))
	assert.Contains(t, m.View(), "Delete Boris? [y/N]")
	_, cmd = m.Update(runes("y"))
	settle(t, m, cmd)

	assert.Equal(t, 1, a.ContactService.Count())
	assert.Equal(t, "Deleted: Boris", m.statusMsg)
	assert.Equal(t, "Anna", m.selected().Name().Value())
}

func TestRoot_FirstRunOpensForm(t *testing.T) {
	a := newTestApp(t)
	root := New(a)

	var model tea.Model = root
	model = settle(t, model, root.contacts.Init())
	model, cmd := model.Update(firstRunCheckMsg{hasContacts: false})
	require.NotNil(t, cmd)
	model, _ = model.Update(cmd())

	contacts := model.(Model).contacts.(*ContactsModel)
	assert.True(t, contacts.IsCapturingInput())

	// global keys are typed into the form instead of switching screens
	model, _ = model.Update(runes("b"))
	assert.Equal(t, ScreenContacts, model.(Model).currentScreen)
}

func TestRoot_SwitchToBirthdays(t *testing.T) {
	a := newTestApp(t)
	_, err := a.ContactService.Add(context.Background(), "Anna", "", "16.06.1990")
	require.NoError(t, err)

	var model tea.Model = New(a)
	model, cmd := model.Update(runes("b"))
	model = settle(t, model, cmd)

	root := model.(Model)
	assert.Equal(t, ScreenBirthdays, root.currentScreen)
	view := root.birthdays.View()
	assert.Contains(t, view, "Anna")
	assert.Contains(t, view, "turns 35")
	assert.Contains(t, view, "tomorrow")
}
