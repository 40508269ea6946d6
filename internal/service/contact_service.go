package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/andy/contactbook/internal/config"
	"github.com/andy/contactbook/internal/domain"
	"github.com/andy/contactbook/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ContactService applies the caller-level rules around the directory and
// saves it after every change. A change whose save fails is rolled back.
// Records returned by the read methods are copies.
type ContactService interface {
	// Add creates a contact. Empty phone or birthday means "not provided".
	Add(ctx context.Context, name, phone, birthday string) (*domain.Record, error)

	// ValidateName returns the name as it would be stored, or why Add
	// would reject it
	ValidateName(name string) (string, error)

	// ValidateBirthday reports whether Add would accept the birthday
	ValidateBirthday(birthday string) error

	// Delete removes a contact
	Delete(ctx context.Context, name string) error

	// AppendPhone adds a phone to a contact
	AppendPhone(ctx context.Context, name, phone string) error

	// ChangePhone replaces one of a contact's phones
	ChangePhone(ctx context.Context, name, oldPhone, newPhone string) error

	// DeletePhone removes one of a contact's phones
	DeletePhone(ctx context.Context, name, phone string) error

	// SetBirthday replaces a contact's birthday; empty clears it
	SetBirthday(ctx context.Context, name, birthday string) error

	// Replace swaps the whole directory, e.g. after a restore or import
	Replace(ctx context.Context, dir *domain.Directory) error

	Get(name string) (*domain.Record, error)
	List() []*domain.Record
	Count() int
	Pages(size int) ([]domain.Page, error)

	// SelectRecord and SelectPhone resolve 1-based menu choices
	SelectRecord(index int) (*domain.Record, error)
	SelectPhone(record *domain.Record, index int) (string, error)

	FindByName(fragment string) []*domain.Record
	FindByPhone(fragment string) []*domain.Record

	// DaysToBirthday counts days from today to the contact's next birthday
	DaysToBirthday(name string) (int, error)

	// UpcomingBirthdays lists contacts by days to their next birthday.
	// within limits the window in days; 0 lists everyone with a birthday.
	UpcomingBirthdays(within int) []BirthdayReminder

	// View runs fn with read access to the directory
	View(fn func(dir *domain.Directory) error) error

	// Today returns the service clock's current date
	Today() time.Time

	// SetBirthdayRules changes the accepted birth year range
	SetBirthdayRules(rules config.BirthdayConfig)
}

// BirthdayReminder is one row of the upcoming birthdays report
type BirthdayReminder struct {
	Record *domain.Record
	Next   time.Time
	Days   int
	Turns  int
}

type contactService struct {
	mu       sync.Mutex
	dir      *domain.Directory
	repo     repository.DirectoryRepository
	clock    domain.Clock
	birthday config.BirthdayConfig
	logger   *zap.Logger
	title    cases.Caser
}

// NewContactService creates a contact service over an already loaded directory
func NewContactService(
	dir *domain.Directory,
	repo repository.DirectoryRepository,
	clock domain.Clock,
	birthday config.BirthdayConfig,
	logger *zap.Logger,
) ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &contactService{
		dir:      dir,
		repo:     repo,
		clock:    clock,
		birthday: birthday,
		logger:   logger.Named("contacts"),
		title:    cases.Title(language.Und),
	}
}

// normalizeName trims and title-cases user input the way names are stored
func (s *contactService) normalizeName(name string) string {
	return s.title.String(strings.TrimSpace(name))
}

// parseBirthday validates input and applies the configured year bounds
func (s *contactService) parseBirthday(input string) (domain.Birthday, error) {
	b, err := domain.NewBirthday(input)
	if err != nil || !b.IsSet() {
		return b, err
	}

	minYear := s.birthday.MinYear
	maxYear := s.birthday.MaxYearFor(s.clock.Now())
	if y := b.Date().Year(); y < minYear || y > maxYear {
		return domain.Birthday{}, fmt.Errorf("%w: year %d outside %d..%d", domain.ErrBirthdayInvalid, y, minYear, maxYear)
	}
	return b, nil
}

// lookup finds a record by its exact key, then by the normalized form
func (s *contactService) lookup(name string) (*domain.Record, error) {
	r, err := s.dir.Get(name)
	if errors.Is(err, domain.ErrRecordNotFound) {
		if alt := s.normalizeName(name); alt != name {
			if r, altErr := s.dir.Get(alt); altErr == nil {
				return r, nil
			}
		}
	}
	return r, err
}

func (s *contactService) save(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.dir); err != nil {
		s.logger.Error("failed to save contacts", zap.Error(err))
		return fmt.Errorf("failed to save contacts: %w", err)
	}
	return nil
}

// commit saves the directory, restoring backup when the save fails
func (s *contactService) commit(ctx context.Context, backup *domain.Directory) error {
	if err := s.save(ctx); err != nil {
		s.dir = backup
		return err
	}
	return nil
}

func cloneRecords(records []*domain.Record) []*domain.Record {
	out := make([]*domain.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// newName validates a name for a contact that does not exist yet
func (s *contactService) newName(name string) (domain.Name, error) {
	n, err := domain.NewName(s.normalizeName(name))
	if err != nil {
		return domain.Name{}, err
	}
	if s.dir.Has(n.Value()) {
		return domain.Name{}, fmt.Errorf("%w: %q", domain.ErrDuplicateName, n.Value())
	}
	return n, nil
}

func (s *contactService) ValidateName(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.newName(name)
	if err != nil {
		return "", err
	}
	return n.Value(), nil
}

func (s *contactService) ValidateBirthday(birthday string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.parseBirthday(birthday)
	return err
}

func (s *contactService) Add(ctx context.Context, name, phone, birthday string) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.newName(name)
	if err != nil {
		return nil, err
	}

	var p domain.Phone
	if strings.TrimSpace(phone) != "" {
		if p, err = domain.NewPhone(phone); err != nil {
			return nil, err
		}
	}

	b, err := s.parseBirthday(birthday)
	if err != nil {
		return nil, err
	}

	r, err := domain.NewRecord(n, p, b)
	if err != nil {
		return nil, err
	}

	backup := s.dir.Clone()
	s.dir.AddRecord(r)
	if err := s.commit(ctx, backup); err != nil {
		return nil, err
	}
	s.logger.Info("contact added",
		zap.String("name", n.Value()),
		zap.Int("phones", r.PhoneCount()),
		zap.Bool("birthday", b.IsSet()))

	return r.Clone(), nil
}

func (s *contactService) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.lookup(name)
	if err != nil {
		return err
	}
	backup := s.dir.Clone()
	if err := s.dir.Remove(r.Name().Value()); err != nil {
		return err
	}
	if err := s.commit(ctx, backup); err != nil {
		return err
	}
	s.logger.Info("contact deleted", zap.String("name", r.Name().Value()))
	return nil
}

func (s *contactService) AppendPhone(ctx context.Context, name, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.lookup(name)
	if err != nil {
		return err
	}
	p, err := domain.NewPhone(phone)
	if err != nil {
		return err
	}
	if r.HasPhone(p.Value()) {
		return fmt.Errorf("%w: %q", domain.ErrDuplicatePhone, p.Value())
	}
	backup := s.dir.Clone()
	r.AddPhone(p)
	if err := s.commit(ctx, backup); err != nil {
		return err
	}
	s.logger.Info("phone added", zap.String("name", r.Name().Value()), zap.String("phone", p.Value()))
	return nil
}

func (s *contactService) ChangePhone(ctx context.Context, name, oldPhone, newPhone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.lookup(name)
	if err != nil {
		return err
	}
	p, err := domain.NewPhone(newPhone)
	if err != nil {
		return err
	}
	backup := s.dir.Clone()
	if _, err := r.UpdatePhone(oldPhone, p); err != nil {
		return err
	}
	if err := s.commit(ctx, backup); err != nil {
		return err
	}
	s.logger.Info("phone changed",
		zap.String("name", r.Name().Value()),
		zap.String("old", strings.TrimSpace(oldPhone)),
		zap.String("new", p.Value()))
	return nil
}

func (s *contactService) DeletePhone(ctx context.Context, name, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.lookup(name)
	if err != nil {
		return err
	}
	if !r.HasPhone(phone) {
		return fmt.Errorf("%w: %q", domain.ErrPhoneNotFound, strings.TrimSpace(phone))
	}
	backup := s.dir.Clone()
	r.DeletePhone(phone)
	if err := s.commit(ctx, backup); err != nil {
		return err
	}
	s.logger.Info("phone deleted", zap.String("name", r.Name().Value()), zap.String("phone", strings.TrimSpace(phone)))
	return nil
}

func (s *contactService) SetBirthday(ctx context.Context, name, birthday string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.lookup(name)
	if err != nil {
		return err
	}
	b, err := s.parseBirthday(birthday)
	if err != nil {
		return err
	}
	backup := s.dir.Clone()
	r.SetBirthday(b)
	if err := s.commit(ctx, backup); err != nil {
		return err
	}
	s.logger.Info("birthday set", zap.String("name", r.Name().Value()), zap.Bool("cleared", !b.IsSet()))
	return nil
}

func (s *contactService) Replace(ctx context.Context, dir *domain.Directory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.dir
	s.dir = dir
	if err := s.commit(ctx, backup); err != nil {
		return err
	}
	s.logger.Info("directory replaced", zap.Int("contacts", dir.Len()))
	return nil
}

func (s *contactService) Get(name string) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

func (s *contactService) List() []*domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneRecords(s.dir.Records())
}

func (s *contactService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dir.Len()
}

func (s *contactService) Pages(size int) ([]domain.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pages, err := s.dir.Paginate(size)
	if err != nil {
		return nil, err
	}
	var out []domain.Page
	for page := range pages {
		out = append(out, cloneRecords(page))
	}
	return out, nil
}

func (s *contactService) SelectRecord(index int) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.dir.At(index)
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

func (s *contactService) SelectPhone(record *domain.Record, index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	phone, ok := record.PhoneAt(index - 1)
	if !ok {
		return "", fmt.Errorf("%w: %d not in 1..%d", domain.ErrSelectionOutOfRange, index, record.PhoneCount())
	}
	return phone, nil
}

func (s *contactService) FindByName(fragment string) []*domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	fragment = strings.TrimSpace(fragment)
	var found []*domain.Record
	for name, r := range s.dir.All() {
		if strings.Contains(name, fragment) {
			found = append(found, r.Clone())
		}
	}
	return found
}

func (s *contactService) FindByPhone(fragment string) []*domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	fragment = strings.TrimSpace(fragment)
	var found []*domain.Record
	for _, r := range s.dir.All() {
		if slices.ContainsFunc(r.Phones(), func(p string) bool { return strings.Contains(p, fragment) }) {
			found = append(found, r.Clone())
		}
	}
	return found
}

func (s *contactService) DaysToBirthday(name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.lookup(name)
	if err != nil {
		return 0, err
	}
	return r.DaysToBirthday(s.clock.Now())
}

func (s *contactService) UpcomingBirthdays(within int) []BirthdayReminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	var out []BirthdayReminder
	for _, r := range s.dir.All() {
		b := r.Birthday()
		if !b.IsSet() {
			continue
		}
		d := b.Date()
		next := domain.NextOccurrence(now, d.Day(), d.Month())
		days := domain.DaysUntil(now, d.Day(), d.Month())
		if within > 0 && days > within {
			continue
		}
		out = append(out, BirthdayReminder{
			Record: r.Clone(),
			Next:   next,
			Days:   days,
			Turns:  next.Year() - d.Year(),
		})
	}

	slices.SortStableFunc(out, func(a, b BirthdayReminder) int {
		return cmp.Compare(a.Days, b.Days)
	})
	return out
}

func (s *contactService) View(fn func(dir *domain.Directory) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.dir)
}

func (s *contactService) Today() time.Time {
	return s.clock.Now()
}

func (s *contactService) SetBirthdayRules(rules config.BirthdayConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.birthday = rules
	s.logger.Info("birthday rules changed", zap.Int("min_year", rules.MinYear), zap.Int("max_year", rules.MaxYear))
}
