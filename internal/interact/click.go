package interact

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/humanoid"
)

// Click moves the virtual cursor to a randomized point inside the element's
// box along a generated trajectory, then presses and releases with humanized
// pre/post delays. A cancelled sequence returns the cancellation outcome,
// never a partial success.
func (x *Executor) Click(ctx context.Context, cur *Cursor, elem *schemas.ResolvedElement, spec schemas.LocatorSpec) error {
	elem, err := x.attached(ctx, elem, spec)
	if err != nil {
		return err
	}
	geom, err := x.geometry(ctx, elem)
	if err != nil {
		return err
	}

	target := x.human.TargetPoint(geom)
	if err := x.moveAlongPath(ctx, cur, target); err != nil {
		return err
	}

	if err := x.sleep(ctx, x.human.Delay(humanoid.DelayPreClick)); err != nil {
		return err
	}
	if err := x.pressRelease(ctx, target); err != nil {
		return err
	}
	if err := x.sleep(ctx, x.human.Delay(humanoid.DelayPostClick)); err != nil {
		return err
	}

	x.human.RecordAction(1.0)
	x.logger.Debug("Click completed",
		zap.String("selector", elem.Selector),
		zap.Float64("x", target.X), zap.Float64("y", target.Y))
	return nil
}

// moveAlongPath dispatches a full pointer trajectory, checking cancellation
// before every waypoint and preserving the generated relative delays in
// dispatch order. The cursor tracks the last dispatched waypoint.
func (x *Executor) moveAlongPath(ctx context.Context, cur *Cursor, target humanoid.Vector2D) error {
	path := x.human.PointerPath(cur.Pos, target)
	for _, wp := range path {
		if err := ctx.Err(); err != nil {
			return err
		}
		event := schemas.MouseEventData{
			Type:   schemas.MouseMove,
			X:      wp.Pos.X,
			Y:      wp.Pos.Y,
			Button: schemas.ButtonNone,
		}
		if err := x.page.DispatchMouseEvent(ctx, event); err != nil {
			return err
		}
		cur.Pos = wp.Pos
		if err := x.sleep(ctx, wp.Delay); err != nil {
			return err
		}
	}
	cur.Pos = target
	return nil
}

// pressRelease performs the down/hold/up sequence of a left click.
func (x *Executor) pressRelease(ctx context.Context, at humanoid.Vector2D) error {
	press := schemas.MouseEventData{
		Type:       schemas.MousePress,
		X:          at.X,
		Y:          at.Y,
		Button:     schemas.ButtonLeft,
		Buttons:    1,
		ClickCount: 1,
	}
	if err := x.page.DispatchMouseEvent(ctx, press); err != nil {
		return err
	}
	if err := x.sleep(ctx, x.human.ClickHold()); err != nil {
		return err
	}
	release := schemas.MouseEventData{
		Type:       schemas.MouseRelease,
		X:          at.X,
		Y:          at.Y,
		Button:     schemas.ButtonLeft,
		ClickCount: 1,
	}
	return x.page.DispatchMouseEvent(ctx, release)
}
