package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"syster/internal/ast"
	"syster/internal/host"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Print the declaration tree of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

func runOutline(cmd *cobra.Command, args []string) error {
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
	printOutline(os.Stdout, items, 0)
	return nil
}

func printOutline(w io.Writer, items []*host.OutlineItem, depth int) {
	for _, it := range items {
		line := fmt.Sprintf("%s%s %s  %d:%d",
			strings.Repeat("  ", depth), kindLabel(it), it.Name,
			it.NameLoc.Start.Line, it.NameLoc.Start.Col)
		if it.Deprecated {
			line += "  (deprecated)"
		}
		fmt.Fprintln(w, line)
		printOutline(w, it.Children, depth+1)
	}
}

// kindLabel renders an item the way source spells it: "part def" for a
// definition, bare "part" for a usage, "package" for a package.
func kindLabel(it *host.OutlineItem) string {
	if it.Usage || it.Kind == ast.DefPackage {
		return it.Kind.String()
	}
	return it.Kind.String() + " def"
}
