package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andy/contactbook/internal/domain"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		phone, _ := cmd.Flags().GetString("phone")
		birthday, _ := cmd.Flags().GetString("birthday")

		r, err := appInstance.ContactService.Add(context.Background(), args[0], phone, birthday)
		if err != nil {
			return fmt.Errorf("failed to add contact: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Contact added: %s\n", r)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts page by page",
	RunE: func(cmd *cobra.Command, args []string) error {
		size, _ := cmd.Flags().GetInt("page-size")
		if !cmd.Flags().Changed("page-size") {
			size = appInstance.Config.Display.PageSize
		}
		out := cmd.OutOrStdout()

		pages, err := appInstance.ContactService.Pages(size)
		if err != nil {
			return err
		}

		if len(pages) == 0 {
			fmt.Fprintln(out, "No contacts found")
			return nil
		}

		n := 0
		for i, page := range pages {
			fmt.Fprintf(out, "Page %d/%d\n", i+1, len(pages))
			for _, r := range page {
				n++
				fmt.Fprintf(out, "%3d. %s\n", n, r)
			}
		}

		fmt.Fprintf(out, "\nTotal: %d contact(s)\n", n)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show one contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := appInstance.ContactService.Get(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:     %s\n", r.Name())
		phones := r.Phones()
		if len(phones) == 0 {
			fmt.Fprintln(out, "Phones:   none")
		}
		for i, p := range phones {
			fmt.Fprintf(out, "Phone %d:  %s\n", i+1, p)
		}
		birthday := r.Birthday().Value()
		if birthday == "" {
			birthday = "not set"
		}
		fmt.Fprintf(out, "Birthday: %s\n", birthday)
		if days, err := r.DaysToBirthday(appInstance.ContactService.Today()); err == nil {
			fmt.Fprintf(out, "Next in:  %s\n", formatDays(days))
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.ContactService.Delete(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete contact: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Contact deleted: %s\n", args[0])
		return nil
	},
}

var findCmd = &cobra.Command{
	Use:       "find {name|phone} [fragment]",
	Short:     "Find contacts by part of a name or phone",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"name", "phone"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var found []*domain.Record
		switch args[0] {
		case "name":
			found = appInstance.ContactService.FindByName(args[1])
		case "phone":
			found = appInstance.ContactService.FindByPhone(args[1])
		default:
			return fmt.Errorf("unknown search field %q (use name or phone)", args[0])
		}

		printRecords(cmd.OutOrStdout(), found)
		return nil
	},
}

func printRecords(out io.Writer, records []*domain.Record) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No contacts found")
		return
	}

	fmt.Fprintf(out, "%-4s %-24s %-36s %-10s\n", "#", "Name", "Phones", "Birthday")
	fmt.Fprintln(out, strings.Repeat("-", 76))
	for i, r := range records {
		phones := strings.Join(r.Phones(), ", ")
		if phones == "" {
			phones = "-"
		}
		birthday := r.Birthday().Value()
		if birthday == "" {
			birthday = "-"
		}
		fmt.Fprintf(out, "%-4d %-24s %-36s %-10s\n", i+1, truncate(r.Name().Value(), 24), truncate(phones, 36), birthday)
	}
	fmt.Fprintf(out, "\nTotal: %d contact(s)\n", len(records))
}

// truncate shortens s to maxLen runes, marking the cut with "..."
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func formatDays(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

func init() {
	addCmd.Flags().StringP("phone", "p", "", "phone number (digits and + ( ) -)")
	addCmd.Flags().StringP("birthday", "b", "", "birthday as dd.mm.yyyy")

	listCmd.Flags().Int("page-size", 0, "contacts per page (default from config)")
}
