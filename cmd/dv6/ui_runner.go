package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"dv6/internal/driver"
	"dv6/internal/pipeline"
	"dv6/internal/ui"
)

type checkOutcome struct {
	summary *pipeline.Summary
	err     error
}

// runCheckWithUI runs the check pipeline behind the progress view. The
// pipeline feeds events into a channel the model drains; the outcome is
// collected once the view exits.
func runCheckWithUI(ctx context.Context, title string, req pipeline.Request) (*pipeline.Summary, error) {
	files, err := driver.ListFiles(req.Dir)
	if err != nil {
		return nil, err
	}

	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		req.Progress = pipeline.ChannelSink{Ch: events}
		sum, err := pipeline.Check(ctx, req)
		outcomeCh <- checkOutcome{summary: sum, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.summary, uiErr
	}
	return outcome.summary, outcome.err
}
