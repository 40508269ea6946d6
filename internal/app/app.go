package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/andy/contactbook/internal/config"
	"github.com/andy/contactbook/internal/crypto"
	"github.com/andy/contactbook/internal/db"
	"github.com/andy/contactbook/internal/domain"
	"github.com/andy/contactbook/internal/logging"
	"github.com/andy/contactbook/internal/repository"
	"github.com/andy/contactbook/internal/service"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// ErrEmptyKey is returned when the first-run prompt gets no key
var ErrEmptyKey = errors.New("encryption key cannot be empty")

// App is the dependency injection container for all application components
type App struct {
	Config     *config.Config
	ConfigPath string // where SaveConfig writes; empty means the default path
	DB         *db.DB
	Logger     *zap.Logger
	Fs         afero.Fs
	Clock      domain.Clock

	DirectoryRepo  repository.DirectoryRepository
	ContactService service.ContactService
}

// Options tweak how the container is built
type Options struct {
	// Verbose raises the log level to debug
	Verbose bool
}

// New loads the default config and builds the application
func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a, err := NewWithConfig(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	a.ConfigPath = config.DefaultConfigPath()
	return a, nil
}

// NewWithConfig builds the application from a provided config.
// Startup order: directories, logger, encryption key, database, migrations,
// then the stored directory. A directory that fails validation is fatal.
func NewWithConfig(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := logging.New(cfg.Log, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	key, err := encryptionKey(crypto.NewKeyring())
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	database, err := db.Open(cfg.Database.Path, key)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a, err := assemble(ctx, cfg, database, repository.NewDirectoryRepo(database), domain.RealClock{}, logger)
	if err != nil {
		database.Close()
		_ = logger.Sync()
		return nil, err
	}
	return a, nil
}

// assemble loads the stored directory and wires the service around it
func assemble(
	ctx context.Context,
	cfg *config.Config,
	database *db.DB,
	repo repository.DirectoryRepository,
	clock domain.Clock,
	logger *zap.Logger,
) (*App, error) {
	dir, err := repo.Load(ctx)
	if err != nil {
		logger.Error("stored contacts are unreadable", zap.Error(err))
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	logger.Info("contacts loaded", zap.Int("count", dir.Len()))

	return &App{
		Config:         cfg,
		DB:             database,
		Logger:         logger,
		Fs:             afero.NewOsFs(),
		Clock:          clock,
		DirectoryRepo:  repo,
		ContactService: service.NewContactService(dir, repo, clock, cfg.Birthday, logger),
	}, nil
}

// Close flushes the logger and closes the database
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	path := a.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return a.Config.Save(path)
}

// encryptionKey returns the stored key, prompting for a new one on first run
func encryptionKey(kr crypto.Keyring) (string, error) {
	key, err := kr.GetKey()
	if err == nil {
		return key, nil
	}

	fmt.Println("Setting up contact book encryption for the first time...")
	key, err = promptForKey()
	if err != nil {
		return "", fmt.Errorf("failed to set encryption key: %w", err)
	}

	if err := kr.SetKey(key); err != nil {
		return "", fmt.Errorf("failed to store encryption key: %w", err)
	}
	return key, nil
}

// promptForKey asks twice for a new key without echoing it
func promptForKey() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal to prompt on; set %s", crypto.EnvKey)
	}

	fmt.Println()
	fmt.Println("Your contacts will be encrypted with a password.")
	fmt.Println("The password is kept in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for the contact book: ")

	key, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(key) == 0 {
		return "", ErrEmptyKey
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(key) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Encryption configured")
	fmt.Println()

	return string(key), nil
}
