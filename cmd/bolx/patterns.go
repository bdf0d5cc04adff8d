package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bolx/internal/extraction"
)

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns [FIELD]",
		Short: "Print the extraction patterns in priority order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPatterns(cmd.OutOrStdout(), extraction.DefaultCatalog(), args)
		},
	}
}

func printPatterns(w io.Writer, catalog *extraction.Catalog, args []string) error {
	fields := catalog.Fields()
	if len(args) == 1 {
		if len(catalog.Patterns(args[0])) == 0 {
			return fmt.Errorf("unknown field %q", args[0])
		}
		fields = args
	}
	for _, field := range fields {
		fmt.Fprintf(w, "%s:\n", field)
		for i, p := range catalog.Patterns(field) {
			fmt.Fprintf(w, "  %d. %s\n", i+1, p)
		}
	}
	return nil
}
