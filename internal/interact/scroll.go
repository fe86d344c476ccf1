package interact

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/wayfarer/api/schemas"
)

// Scroll moves the page by delta pixels in small incremental wheel steps
// with pauses between them, never a single jump. Cancellation is checked
// before every step.
func (x *Executor) Scroll(ctx context.Context, cur *Cursor, delta float64) error {
	plan := x.human.ScrollPlan(delta)
	for _, step := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		event := schemas.MouseEventData{
			Type:   schemas.MouseWheel,
			X:      cur.Pos.X,
			Y:      cur.Pos.Y,
			Button: schemas.ButtonNone,
			DeltaY: step.DeltaY,
		}
		if err := x.page.DispatchMouseEvent(ctx, event); err != nil {
			return err
		}
		if err := x.sleep(ctx, step.Pause); err != nil {
			return err
		}
	}
	x.human.RecordAction(0.5)
	return nil
}

// ScrollIntoView scrolls in bounded increments until the element's box sits
// inside the readable band, re-reading geometry after every pass because
// layout can shift under lazy loading.
func (x *Executor) ScrollIntoView(ctx context.Context, cur *Cursor, elem *schemas.ResolvedElement) error {
	for i := 0; i < x.cfg.MaxScrollIterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		geom, err := x.geometry(ctx, elem)
		if err != nil {
			return err
		}
		top := geom.Vertices[1]
		if top >= x.cfg.ReadableBandTop && top <= x.cfg.ReadableBandBottom {
			return nil
		}
		delta := top - (x.cfg.ReadableBandTop+x.cfg.ReadableBandBottom)/2
		if err := x.Scroll(ctx, cur, delta); err != nil {
			return err
		}
	}
	x.logger.Debug("Element still outside readable band after max iterations",
		zap.String("selector", elem.Selector))
	return schemas.NewError(schemas.ErrCodeElementNotInteractable,
		"element %q could not be scrolled into view", elem.Selector)
}
