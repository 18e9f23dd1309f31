package summary

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Run drives ctrl for caseID without a terminal UI.
//
// Commands run on their own goroutines; their messages are applied to ctrl
// one at a time on the calling goroutine, in completion order. Run returns
// once no command is outstanding, or when ctx is done.
func Run(ctx context.Context, ctrl *Controller, caseID string) (Snapshot, error) {
	msgs := make(chan tea.Msg)
	var g errgroup.Group
	pending := 0

	dispatch := func(cmd tea.Cmd) {
		if cmd == nil {
			return
		}
		pending++
		g.Go(func() error {
			select {
			case msgs <- cmd():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	dispatch(ctrl.SetCaseID(ctx, caseID))

	for pending > 0 {
		select {
		case msg := <-msgs:
			pending--
			for _, cmd := range apply(ctrl, msg) {
				dispatch(cmd)
			}
		case <-ctx.Done():
			_ = g.Wait()
			return ctrl.Snapshot(), ctx.Err()
		}
	}

	return ctrl.Snapshot(), g.Wait()
}

// apply feeds msg to ctrl, unpacking batches.
func apply(ctrl *Controller, msg tea.Msg) []tea.Cmd {
	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		return msg
	default:
		return []tea.Cmd{ctrl.Update(msg)}
	}
}
