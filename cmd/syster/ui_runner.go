package main

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"syster/internal/diag"
	"syster/internal/host"
	"syster/internal/ui"
)

type checkOutcome struct {
	diags []diag.Diagnostic
	err   error
}

// checkWithUI runs the workspace walk behind a progress display. The
// walk goroutine owns the events channel and closes it after the last
// callback; the model quits on close.
func checkWithUI(ctx context.Context, sess *session) ([]diag.Diagnostic, error) {
	events := make(chan host.Progress, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		ds, err := sess.host.WorkspaceDiagnostics(ctx, func(p host.Progress) {
			p.Path = sess.display(p.Path)
			events <- p
		})
		outcomeCh <- checkOutcome{diags: ds, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking "+filepath.Base(sess.root), sess.files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.diags, uiErr
	}
	return outcome.diags, outcome.err
}
