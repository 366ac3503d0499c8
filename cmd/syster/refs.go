package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"syster/internal/host"
)

var refsCmd = &cobra.Command{
	Use:   "refs <file>:<line>:<col>",
	Short: "List every reference to the symbol at a position",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefs,
}

func init() {
	refsCmd.Flags().Bool("include-decl", true, "include the declaration site")
}

func runRefs(cmd *cobra.Command, args []string) error {
	path, pos, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	includeDecl, err := cmd.Flags().GetBool("include-decl")
	if err != nil {
		return fmt.Errorf("failed to get include-decl flag: %w", err)
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

	locs, err := sess.host.ReferencesAt(f, off, includeDecl)
	if err != nil {
		if errors.Is(err, host.ErrNoSymbol) {
			return fmt.Errorf("no symbol at %s", args[0])
		}
		return err
	}
	for _, loc := range locs {
		fmt.Fprintln(os.Stdout, sess.locString(loc))
	}
	if len(locs) == 0 {
		quiet, qerr := quietEnabled(cmd)
		if qerr != nil {
			return qerr
		}
		if !quiet {
			fmt.Fprintln(os.Stdout, "no references")
		}
	}
	return nil
}
