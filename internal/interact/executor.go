// Package interact executes resolved actions (click, type, scroll, read)
// through the humanoid motion and timing models instead of instantaneous
// primitive calls. It owns no page state beyond the session's virtual
// cursor, which the caller threads explicitly through every call.
package interact

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/extract"
	"github.com/xkilldash9x/wayfarer/internal/humanoid"
	"github.com/xkilldash9x/wayfarer/internal/locate"
	"github.com/xkilldash9x/wayfarer/internal/page"
)

// Action names one executable interaction.
type Action string

const (
	ActionClick  Action = "click"
	ActionType   Action = "type"
	ActionScroll Action = "scroll"
	ActionRead   Action = "read"
)

// Params carries the per-action inputs.
type Params struct {
	// Text is the string to type for ActionType.
	Text string
	// ScrollDelta is the vertical distance for ActionScroll; zero scrolls
	// the element into view instead.
	ScrollDelta float64
	// Extraction parameterizes ActionRead.
	Extraction schemas.ExtractionSpec
}

// ActionResult is the typed outcome of a completed interaction.
type ActionResult struct {
	Action     Action
	Extraction *schemas.ExtractionResult
	Elapsed    time.Duration
}

// Cursor is the session-scoped virtual pointer position. It is threaded
// explicitly through calls rather than held globally, so independent
// sessions never share motion state.
type Cursor struct {
	Pos humanoid.Vector2D
}

// Config tunes execution behavior.
type Config struct {
	// SimulateTypos enables realistic corrected-typo typing schedules.
	SimulateTypos bool `mapstructure:"simulate_typos" yaml:"simulate_typos"`
	// MaxScrollIterations bounds scroll-into-view loops.
	MaxScrollIterations int `mapstructure:"max_scroll_iterations" yaml:"max_scroll_iterations"`
	// ReadableBandTop and ReadableBandBottom bound the viewport strip where
	// an element counts as comfortably in view.
	ReadableBandTop    float64 `mapstructure:"readable_band_top" yaml:"readable_band_top"`
	ReadableBandBottom float64 `mapstructure:"readable_band_bottom" yaml:"readable_band_bottom"`
}

func DefaultConfig() Config {
	return Config{
		SimulateTypos:       true,
		MaxScrollIterations: 15,
		ReadableBandTop:     80,
		ReadableBandBottom:  620,
	}
}

// Executor drives actions against resolved elements. Strictly sequential:
// one interaction at a time per session, cancellation checked at every
// waypoint and keystroke.
type Executor struct {
	page   page.Page
	engine *locate.Engine
	human  *humanoid.Humanoid
	cfg    Config
	logger *zap.Logger
}

func NewExecutor(p page.Page, engine *locate.Engine, human *humanoid.Humanoid, cfg Config, logger *zap.Logger) *Executor {
	if cfg.MaxScrollIterations <= 0 {
		cfg.MaxScrollIterations = DefaultConfig().MaxScrollIterations
	}
	if cfg.ReadableBandBottom <= cfg.ReadableBandTop {
		d := DefaultConfig()
		cfg.ReadableBandTop, cfg.ReadableBandBottom = d.ReadableBandTop, d.ReadableBandBottom
	}
	return &Executor{
		page:   p,
		engine: engine,
		human:  human,
		cfg:    cfg,
		logger: logger.Named("interact"),
	}
}

// Perform dispatches one action against a resolved element. The originating
// spec is carried along so a stale handle can be re-resolved once.
func (x *Executor) Perform(ctx context.Context, cur *Cursor, elem *schemas.ResolvedElement, spec schemas.LocatorSpec, action Action, params Params) (*ActionResult, error) {
	start := time.Now()
	result := &ActionResult{Action: action}

	var err error
	switch action {
	case ActionClick:
		err = x.Click(ctx, cur, elem, spec)
	case ActionType:
		err = x.Type(ctx, cur, elem, spec, params.Text)
	case ActionScroll:
		if params.ScrollDelta != 0 {
			err = x.Scroll(ctx, cur, params.ScrollDelta)
		} else {
			err = x.ScrollIntoView(ctx, cur, elem)
		}
	case ActionRead:
		result.Extraction, err = x.Read(ctx, elem, params.Extraction)
	default:
		err = schemas.NewError(schemas.ErrCodeConfiguration, "unknown action %q", action)
	}
	if err != nil {
		return nil, err
	}
	result.Elapsed = time.Since(start)
	return result, nil
}

// Read performs a read-type interaction. No motion is involved; extraction
// logic does the work and the result inherits the element's provenance.
func (x *Executor) Read(ctx context.Context, elem *schemas.ResolvedElement, spec schemas.ExtractionSpec) (*schemas.ExtractionResult, error) {
	return extract.Extract(ctx, x.page, elem, spec)
}

// attached re-checks the handle, allowing the engine's single internal
// stale-element retry.
func (x *Executor) attached(ctx context.Context, elem *schemas.ResolvedElement, spec schemas.LocatorSpec) (*schemas.ResolvedElement, error) {
	fresh, err := x.engine.EnsureAttached(ctx, elem, spec)
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

// geometry fetches the element's box and rejects elements that cannot be
// interacted with.
func (x *Executor) geometry(ctx context.Context, elem *schemas.ResolvedElement) (*schemas.ElementGeometry, error) {
	geom, err := x.page.BoundingBox(ctx, elem.Selector)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, schemas.WrapError(schemas.ErrCodeActionTimeout, err, "geometry read timed out")
		}
		return nil, schemas.WrapError(schemas.ErrCodeElementNotInteractable, err,
			"no geometry for %q", elem.Selector)
	}
	if geom.Width <= 0 || geom.Height <= 0 {
		return nil, schemas.NewError(schemas.ErrCodeElementNotInteractable,
			"element %q has zero size", elem.Selector)
	}
	if len(geom.Vertices) < 8 {
		return nil, schemas.NewError(schemas.ErrCodeElementNotInteractable,
			"element %q has no usable content quad", elem.Selector)
	}
	return geom, nil
}

// sleep routes a pause through the page so cancellation interrupts it.
func (x *Executor) sleep(ctx context.Context, d time.Duration) error {
	return x.page.Sleep(ctx, d)
}
