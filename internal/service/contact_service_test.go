package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/andy/contactbook/internal/config"
	"github.com/andy/contactbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mock implementation
type mockDirectoryRepo struct {
	saved   *domain.Directory
	saves   int
	saveErr error
}

func (m *mockDirectoryRepo) Load(ctx context.Context) (*domain.Directory, error) {
	if m.saved == nil {
		return domain.NewDirectory(), nil
	}
	return m.saved, nil
}

func (m *mockDirectoryRepo) Save(ctx context.Context, dir *domain.Directory) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = dir
	m.saves++
	return nil
}

var testToday = time.Date(2025, time.June, 15, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*contactService, *mockDirectoryRepo) {
	t.Helper()
	repo := &mockDirectoryRepo{}
	svc := NewContactService(
		domain.NewDirectory(),
		repo,
		domain.FixedClock(testToday),
		config.BirthdayConfig{MinYear: 1900},
		zap.NewNop(),
	)
	return svc.(*contactService), repo
}

func TestAdd_NormalizesAndSaves(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	r, err := svc.Add(ctx, "  anna maria ", " 12345 ", "15.03.1990")
	require.NoError(t, err)

	assert.Equal(t, "Anna Maria", r.Name().Value())
	assert.Equal(t, []string{"12345"}, r.Phones())
	assert.Equal(t, "15.03.1990", r.Birthday().Value())
	assert.Equal(t, 1, repo.saves)
	assert.True(t, repo.saved.Has("Anna Maria"))
}

func TestAdd_OptionalFields(t *testing.T) {
	svc, _ := newTestService(t)

	r, err := svc.Add(context.Background(), "Boris", "", "")
	require.NoError(t, err)
	assert.Empty(t, r.Phones())
	assert.False(t, r.Birthday().IsSet())
}

func TestAdd_Errors(t *testing.T) {
	tests := []struct {
		name     string
		contact  string
		phone    string
		birthday string
		want     error
	}{
		{"digit in name", "R2D2", "", "", domain.ErrNameInvalid},
		{"blank name", "   ", "", "", domain.ErrNameInvalid},
		{"bad phone", "Clara", "call me", "", domain.ErrPhoneInvalid},
		{"bad birthday", "Clara", "", "31.04.2020", domain.ErrBirthdayInvalid},
		{"year before min", "Clara", "", "01.01.1899", domain.ErrBirthdayInvalid},
		{"year after current", "Clara", "", "01.01.2026", domain.ErrBirthdayInvalid},
		{"duplicate name", "anna", "", "", domain.ErrDuplicateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			_, err := svc.Add(context.Background(), "Anna", "", "")
			require.NoError(t, err)

			_, err = svc.Add(context.Background(), tt.contact, tt.phone, tt.birthday)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, 1, svc.Count())
			assert.Equal(t, 1, repo.saves, "failed add must not save")
		})
	}
}

func TestAdd_ConfiguredMaxYear(t *testing.T) {
	svc, _ := newTestService(t)
	svc.SetBirthdayRules(config.BirthdayConfig{MinYear: 1950, MaxYear: 2000})

	require.ErrorIs(t, svc.ValidateBirthday("31.12.1949"), domain.ErrBirthdayInvalid)
	require.NoError(t, svc.ValidateBirthday("01.01.1950"))

	_, err := svc.Add(context.Background(), "Anna", "", "01.01.2001")
	require.ErrorIs(t, err, domain.ErrBirthdayInvalid)

	_, err = svc.Add(context.Background(), "Anna", "", "31.12.2000")
	require.NoError(t, err)
}

func TestAdd_SaveFailure(t *testing.T) {
	svc, repo := newTestService(t)
	repo.saveErr = errors.New("disk full")

	_, err := svc.Add(context.Background(), "Anna", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 0, svc.Count(), "failed save must not keep the contact")

	repo.saveErr = nil
	_, err = svc.Add(context.Background(), "Anna", "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Count())
	assert.True(t, repo.saved.Has("Anna"))
}

func TestMutations_RollBackOnSaveFailure(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(ctx context.Context, svc *contactService) error
	}{
		{"delete", func(ctx context.Context, svc *contactService) error {
			return svc.Delete(ctx, "Anna")
		}},
		{"append phone", func(ctx context.Context, svc *contactService) error {
			return svc.AppendPhone(ctx, "Anna", "67890")
		}},
		{"change phone", func(ctx context.Context, svc *contactService) error {
			return svc.ChangePhone(ctx, "Anna", "12345", "11111")
		}},
		{"delete phone", func(ctx context.Context, svc *contactService) error {
			return svc.DeletePhone(ctx, "Anna", "12345")
		}},
		{"set birthday", func(ctx context.Context, svc *contactService) error {
			return svc.SetBirthday(ctx, "Anna", "")
		}},
		{"replace", func(ctx context.Context, svc *contactService) error {
			return svc.Replace(ctx, domain.NewDirectory())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, repo := newTestService(t)
			_, err := svc.Add(ctx, "Anna", "12345", "15.03.1990")
			require.NoError(t, err)

			repo.saveErr = errors.New("disk full")
			require.Error(t, tt.mutate(ctx, svc))

			r, err := svc.Get("Anna")
			require.NoError(t, err)
			assert.Equal(t, 1, svc.Count())
			assert.Equal(t, []string{"12345"}, r.Phones())
			assert.Equal(t, "15.03.1990", r.Birthday().Value())

			repo.saveErr = nil
			require.NoError(t, tt.mutate(ctx, svc), "retry after a failed save succeeds")
		})
	}
}

func TestReads_ReturnCopies(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	added, err := svc.Add(ctx, "Anna", "12345", "15.03.1990")
	require.NoError(t, err)
	added.DeletePhone("12345")

	got, err := svc.Get("Anna")
	require.NoError(t, err)
	svc.List()[0].DeletePhone("12345")
	pages, err := svc.Pages(1)
	require.NoError(t, err)
	pages[0][0].SetBirthday(domain.Birthday{})
	selected, err := svc.SelectRecord(1)
	require.NoError(t, err)
	selected.DeletePhone("12345")
	svc.FindByName("Anna")[0].DeletePhone("12345")
	svc.UpcomingBirthdays(0)[0].Record.SetBirthday(domain.Birthday{})

	again, err := svc.Get("Anna")
	require.NoError(t, err)
	assert.Equal(t, got.Phones(), again.Phones())
	assert.Equal(t, []string{"12345"}, again.Phones())
	assert.Equal(t, "15.03.1990", again.Birthday().Value())
}

func TestPages_ConcurrentAppendPhone(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Add(ctx, "Anna", "100", "")
	require.NoError(t, err)

	pages, err := svc.Pages(2)
	require.NoError(t, err)
	r := pages[0][0]

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 200 {
			_ = svc.AppendPhone(ctx, "Anna", strconv.Itoa(1000+i))
		}
	}()
	for range 200 {
		assert.Equal(t, []string{"100"}, r.Phones())
	}
	wg.Wait()

	live, err := svc.Get("Anna")
	require.NoError(t, err)
	assert.Equal(t, 201, live.PhoneCount())
}

func TestPhoneOperations(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	_, err := svc.Add(ctx, "Anna", "12345", "")
	require.NoError(t, err)

	require.NoError(t, svc.AppendPhone(ctx, "Anna", "67890"))
	require.ErrorIs(t, svc.AppendPhone(ctx, "Anna", "67890"), domain.ErrDuplicatePhone)
	require.ErrorIs(t, svc.AppendPhone(ctx, "Anna", "x"), domain.ErrPhoneInvalid)
	require.ErrorIs(t, svc.AppendPhone(ctx, "Nobody", "1"), domain.ErrRecordNotFound)

	require.NoError(t, svc.ChangePhone(ctx, "anna", "12345", "11111"))
	r, err := svc.Get("Anna")
	require.NoError(t, err)
	assert.Equal(t, []string{"67890", "11111"}, r.Phones())

	require.ErrorIs(t, svc.ChangePhone(ctx, "Anna", "00000", "22222"), domain.ErrPhoneNotFound)
	require.ErrorIs(t, svc.ChangePhone(ctx, "Anna", "67890", "11111"), domain.ErrDuplicatePhone)

	require.NoError(t, svc.DeletePhone(ctx, "Anna", "67890"))
	require.ErrorIs(t, svc.DeletePhone(ctx, "Anna", "67890"), domain.ErrPhoneNotFound)
	assert.Equal(t, []string{"11111"}, r.Phones())

	// add, append, change, delete
	assert.Equal(t, 4, repo.saves)
}

func TestDeleteAndSetBirthday(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Add(ctx, "Anna", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.SetBirthday(ctx, "Anna", "20.06.1990"))
	days, err := svc.DaysToBirthday("Anna")
	require.NoError(t, err)
	assert.Equal(t, 5, days)

	require.ErrorIs(t, svc.SetBirthday(ctx, "Anna", "99.99.1990"), domain.ErrBirthdayInvalid)

	require.NoError(t, svc.SetBirthday(ctx, "Anna", ""))
	_, err = svc.DaysToBirthday("Anna")
	require.ErrorIs(t, err, domain.ErrBirthdayAbsent)

	require.NoError(t, svc.Delete(ctx, "Anna"))
	require.ErrorIs(t, svc.Delete(ctx, "Anna"), domain.ErrRecordNotFound)
	assert.Zero(t, svc.Count())
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Add(ctx, "Anna", "111", "")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "Boris", "", "")
	require.NoError(t, err)

	r, err := svc.SelectRecord(2)
	require.NoError(t, err)
	assert.Equal(t, "Boris", r.Name().Value())

	_, err = svc.SelectRecord(3)
	require.ErrorIs(t, err, domain.ErrSelectionOutOfRange)

	anna, err := svc.SelectRecord(1)
	require.NoError(t, err)
	phone, err := svc.SelectPhone(anna, 1)
	require.NoError(t, err)
	assert.Equal(t, "111", phone)

	_, err = svc.SelectPhone(anna, 2)
	require.ErrorIs(t, err, domain.ErrSelectionOutOfRange)
	_, err = svc.SelectPhone(anna, 0)
	require.ErrorIs(t, err, domain.ErrSelectionOutOfRange)
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	for _, c := range []struct{ name, phone string }{
		{"Anna", "+38(050)111"},
		{"Annabel", "0672220000"},
		{"Boris", "0501112233"},
	} {
		_, err := svc.Add(ctx, c.name, c.phone, "")
		require.NoError(t, err)
	}

	names := func(rs []*domain.Record) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Name().Value())
		}
		return out
	}

	assert.Equal(t, []string{"Anna", "Annabel"}, names(svc.FindByName("Ann")))
	assert.Empty(t, svc.FindByName("ann"), "search is case sensitive")
	assert.Equal(t, []string{"Anna", "Boris"}, names(svc.FindByPhone("111")))
	assert.Equal(t, []string{"Anna"}, names(svc.FindByPhone("(050)")), "fragments are literal")
}

func TestPages(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	for _, n := range []string{"A", "B", "C", "D", "E"} {
		_, err := svc.Add(ctx, n, "", "")
		require.NoError(t, err)
	}

	pages, err := svc.Pages(2)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Len(t, pages[2], 1)

	_, err = svc.Pages(0)
	require.ErrorIs(t, err, domain.ErrInvalidPageSize)
}

func TestUpcomingBirthdays(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Add(ctx, "Later", "", "01.01.1990")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "Today", "", "15.06.2000")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "Soon", "", "20.06.1985")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "Unknown", "", "")
	require.NoError(t, err)

	all := svc.UpcomingBirthdays(0)
	require.Len(t, all, 3)
	assert.Equal(t, "Today", all[0].Record.Name().Value())
	assert.Equal(t, 0, all[0].Days)
	assert.Equal(t, 25, all[0].Turns)
	assert.Equal(t, "Soon", all[1].Record.Name().Value())
	assert.Equal(t, 5, all[1].Days)
	assert.Equal(t, "Later", all[2].Record.Name().Value())
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), all[2].Next)
	assert.Equal(t, 36, all[2].Turns)

	window := svc.UpcomingBirthdays(30)
	assert.Len(t, window, 2)
}

func TestReplaceAndView(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	dir := domain.NewDirectory()
	n, _ := domain.NewName("Zoe")
	r, _ := domain.NewRecord(n, domain.Phone{}, domain.Birthday{})
	dir.AddRecord(r)

	require.NoError(t, svc.Replace(ctx, dir))
	assert.Same(t, dir, repo.saved)

	err := svc.View(func(d *domain.Directory) error {
		assert.Equal(t, []string{"Zoe"}, d.Names())
		return nil
	})
	require.NoError(t, err)
}

func TestValidateNameAndBirthday(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	_, err := svc.Add(ctx, "Anna", "", "")
	require.NoError(t, err)

	name, err := svc.ValidateName("  boris ")
	require.NoError(t, err)
	assert.Equal(t, "Boris", name)

	_, err = svc.ValidateName("anna")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	_, err = svc.ValidateName("R2D2")
	assert.ErrorIs(t, err, domain.ErrNameInvalid)

	assert.NoError(t, svc.ValidateBirthday(""))
	assert.NoError(t, svc.ValidateBirthday("01.01.2000"))
	assert.ErrorIs(t, svc.ValidateBirthday("01.01.1899"), domain.ErrBirthdayInvalid)
	assert.ErrorIs(t, svc.ValidateBirthday("31.02.2000"), domain.ErrBirthdayInvalid)

	assert.Equal(t, 1, repo.saves)
}
