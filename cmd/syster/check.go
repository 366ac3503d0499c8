package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"syster/internal/diag"
	"syster/internal/diagfmt"
	"syster/internal/observ"
	"syster/internal/project"
	"syster/internal/source"
	"syster/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [directory]",
	Short: "Analyze a workspace and report diagnostics",
	Long:  `Check locates syster.toml upward from the given directory (default "."), loads every matched file and reports syntax and semantic diagnostics for the whole workspace`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|msgpack)")
	checkCmd.Flags().String("ui", "auto", "progress display while checking (auto|on|off)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := quietEnabled(cmd)
	if err != nil {
		return err
	}
	useColor, err := colorEnabled(cmd)
	if err != nil {
		return err
	}

	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	tm := observ.NewTimer()
	sess, err := openSession(cmd, dir, tm)
	if err != nil {
		// Manifest problems are findings over the project, not tool
		// failures; render them the way file diagnostics render.
		if errors.Is(err, project.ErrInvalidManifest) || errors.Is(err, project.ErrBadPattern) {
			renderManifestError(cmd, err, useColor)
			return errFindings
		}
		return err
	}

	stop := phase(tm, "analyze")
	var ds []diag.Diagnostic
	if shouldUseTUI(mode) && format == "pretty" && !quiet {
		ds, err = checkWithUI(cmd.Context(), sess)
	} else {
		ds, err = sess.host.WorkspaceDiagnostics(cmd.Context(), nil)
	}
	if err != nil {
		return err
	}
	ds = append(sess.loadDiags, ds...)
	stop(fmt.Sprintf("%d findings", len(ds)))

	stop = phase(tm, "render")
	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         pathMode,
		IncludeNotes:     withNotes,
		IncludeFixes:     suggest,
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, ds, sess.host.Store(), diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: withNotes,
			ShowFixes: suggest,
		})
		if !quiet {
			errs, warns := countBySeverity(ds)
			fmt.Fprintf(os.Stdout, "checked %d files: %d error(s), %d warning(s)\n", len(sess.files), errs, warns)
		}
	case "short":
		if output := diag.FormatShortDiagnostics(ds, sess.host.Store(), withNotes); output != "" {
			fmt.Fprintln(os.Stdout, output)
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, ds, sess.host.Store(), jsonOpts); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "msgpack":
		rep := diagfmt.BuildReport(diagfmt.ReportMeta{
			Version: version.Semantic,
			Root:    sess.root,
			Files:   len(sess.files),
			Timings: timingsReport(tm, showTimings),
		}, ds, sess.host.Store(), jsonOpts)
		if err := diagfmt.WriteMsgpack(os.Stdout, &rep); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	stop("")

	if showTimings && format == "pretty" {
		fmt.Fprint(os.Stderr, tm.Summary())
	}

	if errs, _ := countBySeverity(ds); errs > 0 {
		// Findings are already on screen; keep cobra from adding noise.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errFindings
	}
	return nil
}

func renderManifestError(cmd *cobra.Command, err error, useColor bool) {
	d := project.Diagnose(err)
	diagfmt.Pretty(os.Stdout, []diag.Diagnostic{d}, source.NewStore(), diagfmt.PrettyOpts{Color: useColor})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
}

func countBySeverity(ds []diag.Diagnostic) (errs, warns int) {
	for i := range ds {
		switch ds[i].Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	return errs, warns
}

func timingsReport(tm *observ.Timer, enabled bool) *observ.Report {
	if !enabled {
		return nil
	}
	rep := tm.Report()
	return &rep
}

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}
