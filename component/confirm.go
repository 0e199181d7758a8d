// Package component holds interactive prompts shared by commands.
package component

import (
	"context"
	"errors"
	"fmt"

	"github.com/Killavus/devcert/component/models"
	"github.com/Killavus/devcert/ui"
)

var ErrCancelled = errors.New("prompt cancelled")

// UserInteractionError reports a prompt that did not receive an answer.
type UserInteractionError struct {
	Prompt string
	Err    error
}

func (e *UserInteractionError) Error() string {
	return fmt.Sprintf("prompt %q: %s", e.Prompt, e.Err)
}

func (e *UserInteractionError) Unwrap() error { return e.Err }

type Confirm struct {
	Prompt  string
	Default bool

	// NonInteractive answers Default without prompting.
	NonInteractive bool
}

func (c *Confirm) Confirm(ctx context.Context, drv *ui.Driver) (bool, error) {
	if c.NonInteractive {
		return c.Default, nil
	}

	choicec := make(chan bool, 1)
	cancelc := make(chan struct{})

	drv.Activate(ctx, &models.Confirm{
		Prompt:  c.Prompt,
		Default: c.Default,

		ChoiceCh: choicec,
		CancelCh: cancelc,
	})

	select {
	case answer := <-choicec:
		return answer, nil
	case <-cancelc:
		return false, &UserInteractionError{Prompt: c.Prompt, Err: ErrCancelled}
	case <-ctx.Done():
		return false, &UserInteractionError{Prompt: c.Prompt, Err: context.Cause(ctx)}
	}
}
