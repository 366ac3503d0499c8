package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"syster/internal/host"
	"syster/internal/source"
)

var renameCmd = &cobra.Command{
	Use:   "rename <file>:<line>:<col> <new-name>",
	Short: "Rename the symbol at a position across the workspace",
	Long:  `Rename computes every edit the new name requires, including alias targets and qualified reference segments. Without --write it only previews the edits`,
	Args:  cobra.ExactArgs(2),
	RunE:  runRename,
}

func init() {
	renameCmd.Flags().Bool("write", false, "apply the edits to disk")
}

func runRename(cmd *cobra.Command, args []string) error {
	path, pos, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	newName := args[1]
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}

	sess, err := openSession(cmd, filepath.Dir(path), nil)
	if err != nil {
		return err
	}
	f, err := sess.findFile(path)
	if err != nil {
		return err
	}
	off, err := sess.host.OffsetAt(f, pos)
	if err != nil {
		return err
	}

	res, err := sess.host.RenameAt(f, off, newName)
	if err != nil {
		return err
	}

	order, groups := groupEdits(res.Edits)
	if !write {
		for _, fid := range order {
			txt, err := sess.host.Store().Text(fid)
			if err != nil {
				return err
			}
			for _, e := range groups[fid] {
				start, _ := sess.host.Store().Resolve(e.Span)
				old := string(txt.Content[e.Span.Start:e.Span.End])
				fmt.Fprintf(os.Stdout, "%s:%d:%d: %s -> %s\n",
					sess.display(e.Path), start.Line, start.Col, old, e.NewText)
			}
		}
		fmt.Fprintf(os.Stdout, "would change %d site(s) in %d file(s); pass --write to apply\n",
			len(res.Edits), len(order))
		return nil
	}

	for _, fid := range order {
		txt, err := sess.host.Store().Text(fid)
		if err != nil {
			return err
		}
		updated, err := host.ApplyEdits(txt.Content, fid, groups[fid])
		if err != nil {
			return err
		}
		if err := os.WriteFile(sess.host.Store().PathOf(fid), updated, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", sess.display(sess.host.Store().PathOf(fid)), err)
		}
	}
	fmt.Fprintf(os.Stdout, "renamed %s -> %s: %d site(s) in %d file(s)\n",
		res.OldName, res.NewName, len(res.Edits), len(order))
	return nil
}

// groupEdits buckets edits per file, keeping the result's file order.
func groupEdits(edits []host.Edit) ([]source.FileID, map[source.FileID][]host.Edit) {
	var order []source.FileID
	groups := make(map[source.FileID][]host.Edit)
	for _, e := range edits {
		if _, ok := groups[e.File]; !ok {
			order = append(order, e.File)
		}
		groups[e.File] = append(groups[e.File], e)
	}
	return order, groups
}
