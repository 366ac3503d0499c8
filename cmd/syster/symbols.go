package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"syster/internal/host"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols <file>",
	Short: "List a file's declarations flat, with qualified names",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func runSymbols(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd, filepath.Dir(args[0]), nil)
	if err != nil {
		return err
	}
	f, err := sess.findFile(args[0])
	if err != nil {
		return err
	}
	items, err := sess.host.Outline(f)
	if err != nil {
		return err
	}
	printSymbols(os.Stdout, items, "")
	return nil
}

func printSymbols(w io.Writer, items []*host.OutlineItem, prefix string) {
	for _, it := range items {
		qname := it.Name
		if prefix != "" {
			qname = prefix + "::" + it.Name
		}
		fmt.Fprintf(w, "%-16s %s  %d:%d\n", kindLabel(it), qname,
			it.NameLoc.Start.Line, it.NameLoc.Start.Col)
		printSymbols(w, it.Children, qname)
	}
}
