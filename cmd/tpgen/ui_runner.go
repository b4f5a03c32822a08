package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"tpgen/internal/pipeline"
	"tpgen/internal/ui"
)

type generateOutcome struct {
	result *pipeline.Result
	err    error
}

func runGenerateWithUI(ctx context.Context, out io.Writer, title string, req *pipeline.Request) (*pipeline.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("missing generate request")
	}
	events := make(chan pipeline.Event, 64)
	outcomeCh := make(chan generateOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Sink = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Generate(ctx, &reqCopy)
		outcomeCh <- generateOutcome{result: res, err: err}
		close(events)
	}()

	targets := []string{req.HeaderPath, req.ImplPath}
	if req.AllowlistPath != "" {
		targets = append(targets, req.AllowlistPath)
	}
	model := ui.NewProgressModel(title, targets, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
