package main

import (
	"fmt"
	"os"

	"github.com/andy/contactbook/internal/cli"
)

func main() {
	// The app is built lazily by the root command so help never prompts for a key
	err := cli.Execute()
	if closeErr := cli.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
