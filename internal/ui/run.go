package ui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"bitflags/internal/driver"
)

// RunFiles runs a directory pass while the progress view renders to out.
// run receives the sink to pass in driver.Options.Progress.
func RunFiles(
	ctx context.Context,
	title string,
	files []string,
	out io.Writer,
	run func(ctx context.Context, sink driver.ProgressSink) ([]*driver.Result, error),
) ([]*driver.Result, error) {
	events := make(chan driver.Event, 256)
	type outcome struct {
		results []*driver.Result
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := run(ctx, driver.ChannelSink{Ch: events})
		done <- outcome{results: res, err: err}
		close(events)
	}()

	program := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the producer from blocking on a full channel
		go func() {
			for range events {
			}
		}()
	}
	res := <-done
	if uiErr != nil {
		return res.results, uiErr
	}
	return res.results, res.err
}
