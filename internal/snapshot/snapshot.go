// Package snapshot encodes the whole contact directory as a single YAML
// document, used for backups and restores.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/andy/contactbook/internal/domain"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FormatVersion is written into every snapshot and checked on decode.
const FormatVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

type document struct {
	Version  int       `yaml:"version"`
	Contacts []contact `yaml:"contacts"`
}

type contact struct {
	Name     string   `yaml:"name"`
	Phones   []string `yaml:"phones,omitempty"`
	Birthday string   `yaml:"birthday,omitempty"`
}

// Encode serializes dir, preserving record and phone order
func Encode(dir *domain.Directory) ([]byte, error) {
	doc := document{
		Version:  FormatVersion,
		Contacts: make([]contact, 0, dir.Len()),
	}
	for name, r := range dir.All() {
		doc.Contacts = append(doc.Contacts, contact{
			Name:     name,
			Phones:   r.Phones(),
			Birthday: r.Birthday().Value(),
		})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode rebuilds a directory from data. Every field is validated again, so
// a tampered snapshot fails with the matching domain error.
func Decode(data []byte) (*domain.Directory, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	dir := domain.NewDirectory()
	for i, c := range doc.Contacts {
		r, err := c.toRecord()
		if err != nil {
			return nil, fmt.Errorf("snapshot contact #%d: %w", i+1, err)
		}
		if dir.Has(r.Name().Value()) {
			return nil, fmt.Errorf("snapshot contact #%d: %w: %q", i+1, domain.ErrDuplicateName, c.Name)
		}
		dir.AddRecord(r)
	}
	return dir, nil
}

func (c contact) toRecord() (*domain.Record, error) {
	name, err := domain.NewName(c.Name)
	if err != nil {
		return nil, err
	}
	birthday, err := domain.NewBirthday(c.Birthday)
	if err != nil {
		return nil, err
	}
	r, err := domain.NewRecord(name, domain.Phone{}, birthday)
	if err != nil {
		return nil, err
	}
	for _, raw := range c.Phones {
		p, err := domain.NewPhone(raw)
		if err != nil {
			return nil, err
		}
		if !r.AddPhone(p) {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicatePhone, p.Value())
		}
	}
	return r, nil
}

// WriteFile encodes dir into path on fsys, creating missing parent
// directories
func WriteFile(fsys afero.Fs, path string, dir *domain.Directory) error {
	data, err := Encode(dir)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// ReadFile decodes the snapshot at path. A missing file yields an empty
// directory.
func ReadFile(fsys afero.Fs, path string) (*domain.Directory, error) {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewDirectory(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data)
}
