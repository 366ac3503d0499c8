package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"syster/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "syster",
	Short: "SysML v2 language intelligence",
	Long:  `Syster answers editor queries over SysML v2 workspaces: diagnostics, navigation, completion and rename, recomputed incrementally as files change`,
}

// errFindings marks a run that printed error diagnostics. Findings exit
// with code 1; operational failures exit with code 2.
var errFindings = errors.New("")

func main() {
	// Версия для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(stdlibCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum diagnostics to report (0=default)")

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errFindings) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
