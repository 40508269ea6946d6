package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andy/contactbook/internal/domain"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every contact",
	Long: `Delete every contact from the database. The encryption key and the
configuration are kept.

Examples:
  contactbook reset          # asks for confirmation
  contactbook reset --yes    # no questions asked`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		out := cmd.OutOrStdout()

		if !yes && !confirmPrompt(cmd.InOrStdin(), out, "This will delete ALL contacts. Continue?") {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		count := appInstance.ContactService.Count()
		if err := appInstance.ContactService.Replace(context.Background(), domain.NewDirectory()); err != nil {
			return fmt.Errorf("failed to reset contacts: %w", err)
		}

		fmt.Fprintf(out, "Deleted %d contact(s).\n", count)
		return nil
	},
}

func confirmPrompt(in io.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s [y/N] ", message)
	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}
