package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"syster/internal/stdlib"
)

var stdlibCmd = &cobra.Command{
	Use:   "stdlib",
	Short: "Describe the bundled standard library",
	Args:  cobra.NoArgs,
	RunE:  runStdlib,
}

func runStdlib(cmd *cobra.Command, args []string) error {
	man, files, err := stdlib.Load()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s %s (%s), %d files\n", man.Name, man.Version, man.Language, len(files))
	for _, f := range files {
		fmt.Fprintf(os.Stdout, "  %-24s %s\n", strings.TrimPrefix(f.Path, stdlib.PathPrefix), f.Description)
	}
	return nil
}
