package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/andy/contactbook/internal/domain"
	"github.com/spf13/cobra"
)

var birthdayCmd = &cobra.Command{
	Use:   "birthday",
	Short: "Birthdays: set them and count the days",
}

var birthdaySetCmd = &cobra.Command{
	Use:   "set [name] [dd.mm.yyyy]",
	Short: "Set or clear a contact's birthday",
	Long:  `Set a contact's birthday. Pass an empty string to clear it.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.ContactService.SetBirthday(context.Background(), args[0], args[1]); err != nil {
			return fmt.Errorf("failed to set birthday: %w", err)
		}

		if args[1] == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Birthday cleared for %s\n", args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Birthday of %s set to %s\n", args[0], args[1])
		return nil
	},
}

var birthdayDaysCmd = &cobra.Command{
	Use:   "days [name]",
	Short: "Days until a contact's next birthday",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := appInstance.ContactService.DaysToBirthday(args[0])
		if errors.Is(err, domain.ErrBirthdayAbsent) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s has no birthday recorded\n", args[0])
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s until the next birthday\n", args[0], formatDays(days))
		return nil
	},
}

var birthdayUpcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List upcoming birthdays",
	RunE: func(cmd *cobra.Command, args []string) error {
		within, _ := cmd.Flags().GetInt("days")
		if !cmd.Flags().Changed("days") {
			within = appInstance.Config.Birthday.UpcomingDays
		}
		all, _ := cmd.Flags().GetBool("all")
		if all {
			within = 0
		}
		out := cmd.OutOrStdout()

		reminders := appInstance.ContactService.UpcomingBirthdays(within)
		if len(reminders) == 0 {
			fmt.Fprintln(out, "No upcoming birthdays")
			return nil
		}

		fmt.Fprintf(out, "%-24s %-12s %-6s %-10s\n", "Name", "Date", "Turns", "In")
		fmt.Fprintln(out, "------------------------------------------------------")
		for _, rem := range reminders {
			fmt.Fprintf(out, "%-24s %-12s %-6d %-10s\n",
				truncate(rem.Record.Name().Value(), 24),
				rem.Next.Format(domain.BirthdayLayout),
				rem.Turns,
				formatDays(rem.Days),
			)
		}
		return nil
	},
}

func init() {
	birthdayUpcomingCmd.Flags().Int("days", 0, "window in days (default from config)")
	birthdayUpcomingCmd.Flags().Bool("all", false, "list every contact with a birthday")

	birthdayCmd.AddCommand(birthdaySetCmd)
	birthdayCmd.AddCommand(birthdayDaysCmd)
	birthdayCmd.AddCommand(birthdayUpcomingCmd)
}
