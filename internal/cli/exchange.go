package cli

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"

	"github.com/andy/contactbook/internal/domain"
	"github.com/andy/contactbook/internal/exchange"
	"github.com/andy/contactbook/internal/snapshot"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const (
	formatVCard    = "vcf"
	formatCalendar = "ics"
	formatYAML     = "yaml"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export contacts as vCard, birthdays as iCalendar, or a YAML backup",
	Long: `Export the contact book.

Examples:
  contactbook export --format vcf --out contacts.vcf
  contactbook export --format ics --out birthdays.ics
  contactbook export --format yaml --out backup.yaml
  contactbook export --format vcf                      # to stdout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("out")
		toStdout := path == "" || path == "-"

		if format == formatYAML && !toStdout {
			err := appInstance.ContactService.View(func(dir *domain.Directory) error {
				return snapshot.WriteFile(appInstance.Fs, path, dir)
			})
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d contact(s) to %s\n", appInstance.ContactService.Count(), path)
			return nil
		}

		data, err := encodeDirectory(format)
		if err != nil {
			return err
		}

		if toStdout {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}

		if err := exchange.WriteFile(appInstance.Fs, path, data); err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d contact(s) to %s\n", appInstance.ContactService.Count(), path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import contacts from a vCard file or a YAML backup",
	Long: `Import contacts. By default imported contacts are merged in and names
that already exist are skipped. With --replace the whole contact book is
replaced by the file's contents.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		replace, _ := cmd.Flags().GetBool("replace")
		out := cmd.OutOrStdout()

		incoming, skipped, err := readDirectory(format, args[0])
		if err != nil {
			return err
		}

		merged := incoming
		if !replace {
			merged, skipped = mergeInto(incoming, skipped)
		}

		if err := appInstance.ContactService.Replace(context.Background(), merged); err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		for _, s := range skipped {
			fmt.Fprintf(out, "  skipped: %v\n", s)
		}
		fmt.Fprintf(out, "✓ Imported %d contact(s), skipped %d\n", incoming.Len()-countDuplicates(skipped), len(skipped))
		return nil
	},
}

func encodeDirectory(format string) ([]byte, error) {
	var data []byte
	err := appInstance.ContactService.View(func(dir *domain.Directory) error {
		switch format {
		case formatVCard:
			var buf bytes.Buffer
			if err := exchange.ExportVCard(&buf, dir); err != nil {
				return err
			}
			data = buf.Bytes()
		case formatCalendar:
			cal, err := exchange.BirthdayCalendar(dir, appInstance.ContactService.Today())
			if err != nil {
				return err
			}
			data = cal
		case formatYAML:
			doc, err := snapshot.Encode(dir)
			if err != nil {
				return err
			}
			data = doc
		default:
			return fmt.Errorf("unknown export format %q (use vcf, ics or yaml)", format)
		}
		return nil
	})
	return data, err
}

func readDirectory(format, path string) (*domain.Directory, []error, error) {
	fsys := appInstance.Fs
	switch format {
	case formatVCard:
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return exchange.ImportVCard(bytes.NewReader(data))
	case formatYAML:
		exists, err := afero.Exists(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if !exists {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, fs.ErrNotExist)
		}
		dir, err := snapshot.ReadFile(fsys, path)
		return dir, nil, err
	default:
		return nil, nil, fmt.Errorf("unknown import format %q (use vcf or yaml)", format)
	}
}

// duplicateSkip marks an incoming record whose name already exists
type duplicateSkip struct {
	name string
}

func (d duplicateSkip) Error() string {
	return fmt.Sprintf("%v: %q", domain.ErrDuplicateName, d.name)
}

func (d duplicateSkip) Unwrap() error {
	return domain.ErrDuplicateName
}

// mergeInto appends incoming records to a copy of the current directory,
// skipping names that are already taken
func mergeInto(incoming *domain.Directory, skipped []error) (*domain.Directory, []error) {
	merged := domain.NewDirectory()
	_ = appInstance.ContactService.View(func(dir *domain.Directory) error {
		for _, r := range dir.All() {
			merged.AddRecord(r.Clone())
		}
		return nil
	})

	for name, r := range incoming.All() {
		if merged.Has(name) {
			skipped = append(skipped, duplicateSkip{name: name})
			continue
		}
		merged.AddRecord(r)
	}
	return merged, skipped
}

func countDuplicates(skipped []error) int {
	n := 0
	for _, s := range skipped {
		if _, ok := s.(duplicateSkip); ok {
			n++
		}
	}
	return n
}

func init() {
	exportCmd.Flags().StringP("format", "f", formatVCard, "vcf, ics or yaml")
	exportCmd.Flags().StringP("out", "o", "", "output file (stdout when empty)")

	importCmd.Flags().StringP("format", "f", formatVCard, "vcf or yaml")
	importCmd.Flags().Bool("replace", false, "replace the whole contact book instead of merging")
}
