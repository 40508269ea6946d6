package cli

import (
	"context"

	"github.com/andy/contactbook/internal/app"
	"github.com/spf13/cobra"
)

var appInstance *app.App

// newApp builds the application on first use; replaced in tests
var newApp = app.New

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "contactbook",
	Short: "A local, encrypted contact book",
	Long: `Contactbook keeps names, phone numbers and birthdays in an encrypted
local database and tells you how many days remain until each birthday.

By default, running contactbook without arguments launches the interactive TUI.
Use subcommands for one-off operations, or "contactbook shell" for the menu.`,
	SilenceUsage:      true,
	PersistentPreRunE: ensureApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

// ensureApp initializes the app unless the command only prints help
func ensureApp(cmd *cobra.Command, args []string) error {
	if appInstance != nil {
		return nil
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "help" || c.Name() == "completion" {
			return nil
		}
	}

	a, err := newApp(context.Background(), app.Options{Verbose: verbose})
	if err != nil {
		return err
	}
	appInstance = a
	return nil
}

// Close releases the app if one was created
func Close() error {
	if appInstance == nil {
		return nil
	}
	return appInstance.Close()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "write debug entries to the log file")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(phoneCmd)
	rootCmd.AddCommand(birthdayCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(resetCmd)
}
