package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andy/contactbook/internal/db"
	"github.com/andy/contactbook/internal/domain"
)

// DirectoryRepo is a SQLite implementation of DirectoryRepository
type DirectoryRepo struct {
	db *db.DB
}

// NewDirectoryRepo creates a new DirectoryRepo
func NewDirectoryRepo(database *db.DB) *DirectoryRepo {
	return &DirectoryRepo{db: database}
}

// storedContact is one contacts row before validation
type storedContact struct {
	name     string
	birthday sql.NullString
	phones   []string
}

// Load reads every contact and rebuilds the directory in stored order.
// A row that no longer passes validation is reported as an error.
func (r *DirectoryRepo) Load(ctx context.Context) (*domain.Directory, error) {
	contacts, err := r.loadContacts(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.loadPhones(ctx, contacts); err != nil {
		return nil, err
	}

	dir := domain.NewDirectory()
	for _, c := range contacts {
		record, err := c.toRecord()
		if err != nil {
			return nil, fmt.Errorf("invalid stored contact %q: %w", c.name, err)
		}
		dir.AddRecord(record)
	}

	return dir, nil
}

func (r *DirectoryRepo) loadContacts(ctx context.Context) ([]*storedContact, error) {
	query := `
		SELECT name, birthday
		FROM contacts
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*storedContact, 0)
	for rows.Next() {
		c := &storedContact{}
		if err := rows.Scan(&c.name, &c.birthday); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

func (r *DirectoryRepo) loadPhones(ctx context.Context, contacts []*storedContact) error {
	byName := make(map[string]*storedContact, len(contacts))
	for _, c := range contacts {
		byName[c.name] = c
	}

	query := `
		SELECT contact_name, phone
		FROM contact_phones
		ORDER BY contact_name, position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to list phones: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, phone string
		if err := rows.Scan(&name, &phone); err != nil {
			return fmt.Errorf("failed to scan phone: %w", err)
		}
		if c, ok := byName[name]; ok {
			c.phones = append(c.phones, phone)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating phones: %w", err)
	}

	return nil
}

func (c *storedContact) toRecord() (*domain.Record, error) {
	name, err := domain.NewName(c.name)
	if err != nil {
		return nil, err
	}

	birthday, err := domain.NewBirthday(c.birthday.String)
	if err != nil {
		return nil, err
	}

	record, err := domain.NewRecord(name, domain.Phone{}, birthday)
	if err != nil {
		return nil, err
	}

	for _, raw := range c.phones {
		phone, err := domain.NewPhone(raw)
		if err != nil {
			return nil, err
		}
		record.AddPhone(phone)
	}

	return record, nil
}

// Save replaces the stored contacts with dir in a single transaction
func (r *DirectoryRepo) Save(ctx context.Context, dir *domain.Directory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Order matters due to foreign keys
	for _, table := range []string{"contact_phones", "contacts"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	contactStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contacts (name, position, birthday, updated_at)
		VALUES (?, ?, ?, datetime('now'))
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare contact insert: %w", err)
	}
	defer contactStmt.Close()

	phoneStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contact_phones (contact_name, position, phone)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare phone insert: %w", err)
	}
	defer phoneStmt.Close()

	position := 0
	for name, record := range dir.All() {
		var birthday sql.NullString
		if b := record.Birthday(); b.IsSet() {
			birthday = sql.NullString{String: b.Value(), Valid: true}
		}

		if _, err := contactStmt.ExecContext(ctx, name, position, birthday); err != nil {
			return fmt.Errorf("failed to save contact %q: %w", name, err)
		}

		for i, phone := range record.Phones() {
			if _, err := phoneStmt.ExecContext(ctx, name, i, phone); err != nil {
				return fmt.Errorf("failed to save phone %q of %q: %w", phone, name, err)
			}
		}
		position++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit contacts: %w", err)
	}

	return nil
}
