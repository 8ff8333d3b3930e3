package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"

	"github.com/banshee-data/seedterrain/internal/pipeline"
)

// progressSink advances a terminal progress bar once per frame.
type progressSink struct {
	bar *pterm.ProgressbarPrinter
}

func newProgressSink(w io.Writer, total int) (*progressSink, error) {
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Rendering frames").
		WithWriter(w).
		Start()
	if err != nil {
		return nil, fmt.Errorf("failed to start progress bar: %w", err)
	}
	return &progressSink{bar: bar}, nil
}

// Consume shows the frame title and advances the bar.
func (p *progressSink) Consume(_ context.Context, f pipeline.Frame) error {
	p.bar.UpdateTitle(fmt.Sprintf("Frame %d/%d", f.Index+1, f.Total))
	p.bar.Increment()
	return nil
}

// Stop clears the live bar.
func (p *progressSink) Stop() {
	if _, err := p.bar.Stop(); err != nil {
		pterm.Error.Println(err)
	}
}

// confirmPrompt asks a yes/no question on the terminal. Aborting the prompt
// counts as no.
func confirmPrompt(question string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
