package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "scraper",
		Short:         "Find the cheapest standard drink across liquor retailers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(searchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
