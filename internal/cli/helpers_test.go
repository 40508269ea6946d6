package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/andy/contactbook/internal/app"
	"github.com/andy/contactbook/internal/config"
	"github.com/andy/contactbook/internal/domain"
	"github.com/andy/contactbook/internal/service"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRepo struct {
	saves int
}

func (m *memoryRepo) Load(ctx context.Context) (*domain.Directory, error) {
	return domain.NewDirectory(), nil
}

func (m *memoryRepo) Save(ctx context.Context, dir *domain.Directory) error {
	m.saves++
	return nil
}

var testToday = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg := config.DefaultConfig()
	clock := domain.FixedClock(testToday)
	repo := &memoryRepo{}
	return &app.App{
		Config:         cfg,
		Logger:         zap.NewNop(),
		Fs:             afero.NewMemMapFs(),
		Clock:          clock,
		DirectoryRepo:  repo,
		ContactService: service.NewContactService(domain.NewDirectory(), repo, clock, cfg.Birthday, zap.NewNop()),
	}
}

func seed(t *testing.T, a *app.App, name, phone, birthday string) {
	t.Helper()
	_, err := a.ContactService.Add(context.Background(), name, phone, birthday)
	require.NoError(t, err)
}

// runCLI executes the root command against a with fresh flag state
func runCLI(t *testing.T, a *app.App, stdin string, args ...string) (string, error) {
	t.Helper()
	SetApp(a)
	t.Cleanup(func() { SetApp(nil) })
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
