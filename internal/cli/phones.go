package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var phoneCmd = &cobra.Command{
	Use:   "phone",
	Short: "Manage a contact's phone numbers",
	Long:  `Append, change, and delete phone numbers of an existing contact.`,
}

var phoneAddCmd = &cobra.Command{
	Use:   "add [name] [phone]",
	Short: "Append a phone number",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.ContactService.AppendPhone(context.Background(), args[0], args[1]); err != nil {
			return fmt.Errorf("failed to add phone: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Phone %s added to %s\n", args[1], args[0])
		return nil
	},
}

var phoneChangeCmd = &cobra.Command{
	Use:   "change [name] [old] [new]",
	Short: "Replace a phone number",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.ContactService.ChangePhone(context.Background(), args[0], args[1], args[2]); err != nil {
			return fmt.Errorf("failed to change phone: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Phone %s changed to %s\n", args[1], args[2])
		return nil
	},
}

var phoneDeleteCmd = &cobra.Command{
	Use:   "delete [name] [phone]",
	Short: "Delete a phone number",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.ContactService.DeletePhone(context.Background(), args[0], args[1]); err != nil {
			return fmt.Errorf("failed to delete phone: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Phone %s deleted from %s\n", args[1], args[0])
		return nil
	},
}

func init() {
	phoneCmd.AddCommand(phoneAddCmd)
	phoneCmd.AddCommand(phoneChangeCmd)
	phoneCmd.AddCommand(phoneDeleteCmd)
}
