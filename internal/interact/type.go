package interact

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/humanoid"
)

// Type clicks into the element, focuses it, and dispatches the text per a
// generated typing schedule. After dispatch the field's actual value is
// compared against the intended text (verify-after-type); on mismatch the
// field is cleared and the full string retried exactly once before the
// verification failure is surfaced.
func (x *Executor) Type(ctx context.Context, cur *Cursor, elem *schemas.ResolvedElement, spec schemas.LocatorSpec, text string) error {
	if err := x.Click(ctx, cur, elem, spec); err != nil {
		return err
	}
	// The click normally lands focus; this guarantees it for elements with
	// custom focus handling.
	if err := x.page.Focus(ctx, elem.Selector); err != nil {
		return schemas.WrapError(schemas.ErrCodeElementNotInteractable, err,
			"cannot focus %q", elem.Selector)
	}
	if err := x.sleep(ctx, x.human.Delay(humanoid.DelayPreType)); err != nil {
		return err
	}

	if err := x.dispatchText(ctx, text); err != nil {
		return err
	}
	ok, err := x.verifyValue(ctx, elem.Selector, text)
	if err != nil {
		return err
	}
	if ok {
		x.human.RecordAction(1 + float64(len(text))/20)
		return nil
	}

	// One clear-and-retry before giving up.
	x.logger.Debug("Typed text did not stick, clearing and retrying once",
		zap.String("selector", elem.Selector))
	if err := x.page.Clear(ctx, elem.Selector); err != nil {
		return schemas.WrapError(schemas.ErrCodeElementNotInteractable, err,
			"cannot clear %q", elem.Selector)
	}
	if err := x.sleep(ctx, x.human.Delay(humanoid.DelayPreType)); err != nil {
		return err
	}
	if err := x.dispatchText(ctx, text); err != nil {
		return err
	}
	ok, err = x.verifyValue(ctx, elem.Selector, text)
	if err != nil {
		return err
	}
	if !ok {
		return schemas.NewError(schemas.ErrCodeInputVerificationFailed,
			"typed text did not stick in %q after retry", elem.Selector)
	}
	x.human.RecordAction(1 + float64(len(text))/20)
	return nil
}

// dispatchText sends one full typing schedule, checking cancellation before
// every keystroke and honoring each generated delay.
func (x *Executor) dispatchText(ctx context.Context, text string) error {
	var schedule []humanoid.Keystroke
	if x.cfg.SimulateTypos {
		schedule = x.human.TypingScheduleWithTypos(text)
	} else {
		schedule = x.human.TypingSchedule(text)
	}
	for _, ks := range schedule {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := x.page.SendKeys(ctx, ks.Key); err != nil {
			return err
		}
		if err := x.sleep(ctx, ks.Delay); err != nil {
			return err
		}
	}
	return nil
}

func (x *Executor) verifyValue(ctx context.Context, selector, want string) (bool, error) {
	value, err := x.page.Value(ctx, selector)
	if err != nil {
		return false, schemas.WrapError(schemas.ErrCodeActionTimeout, err,
			"cannot verify value of %q", selector)
	}
	return value == want, nil
}
