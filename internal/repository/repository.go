package repository

import (
	"context"

	"github.com/andy/contactbook/internal/domain"
)

// DirectoryRepository persists the whole contact directory.
// Save replaces everything stored; Load returns an empty directory when
// nothing has been saved yet.
type DirectoryRepository interface {
	Load(ctx context.Context) (*domain.Directory, error)
	Save(ctx context.Context, dir *domain.Directory) error
}
