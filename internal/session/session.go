// Package session composes the page, the discovery engine, and the
// interaction executor into one logical browsing session with its own
// behavioral persona and virtual cursor.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/config"
	"github.com/xkilldash9x/wayfarer/internal/humanoid"
	"github.com/xkilldash9x/wayfarer/internal/interact"
	"github.com/xkilldash9x/wayfarer/internal/locate"
	"github.com/xkilldash9x/wayfarer/internal/page"
)

// Session owns one tab's worth of state: a page handle, a persona, a
// cursor, and a pacing limiter. Interactions within a session are strictly
// sequential; independent sessions run concurrently without sharing any
// motion or fatigue state.
type Session struct {
	ID string

	mu      sync.Mutex
	page    page.Page
	engine  *locate.Engine
	exec    *interact.Executor
	human   *humanoid.Humanoid
	cursor  interact.Cursor
	limiter *rate.Limiter
	logger  *zap.Logger

	navTimeout time.Duration
}

// New builds a session over an already-attached page. Each call samples a
// fresh persona, so two sessions created from the same config still move
// and type differently.
func New(p page.Page, cfg config.Interface, logger *zap.Logger) *Session {
	id := uuid.New().String()
	log := logger.Named("session").With(zap.String("session_id", id))

	human := humanoid.New(cfg.Humanoid(), cfg.Timing(), nil)
	engine := locate.NewEngine(p, cfg.Locate(), log)
	exec := interact.NewExecutor(p, engine, human, cfg.Interact(), log)

	sc := cfg.Session()
	return &Session{
		ID:         id,
		page:       p,
		engine:     engine,
		exec:       exec,
		human:      human,
		limiter:    rate.NewLimiter(rate.Limit(sc.ActionsPerSecond), sc.ActionBurst),
		logger:     log,
		navTimeout: cfg.Browser().NavigationTimeout,
	}
}

// Navigate loads a URL and waits for the frame to settle. The navigation
// bumps the page epoch, which invalidates any cached resolutions.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.navTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.navTimeout)
		defer cancel()
	}
	s.logger.Info("Navigating", zap.String("url", url))
	if err := s.page.Navigate(ctx, url); err != nil {
		return schemas.WrapError(schemas.ErrCodeActionTimeout, err, "navigation to %s failed", url)
	}
	// A fresh page deserves a reading pause before any interaction.
	return s.page.Sleep(ctx, s.human.Delay(humanoid.DelayThinkingPause))
}

// Resolve runs the discovery cascade for a locator.
func (s *Session) Resolve(ctx context.Context, spec schemas.LocatorSpec) (*schemas.ResolvedElement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Resolve(ctx, spec)
}

// Perform resolves the locator if needed and executes one action through
// the humanized executor, paced by the session limiter.
func (s *Session) Perform(ctx context.Context, spec schemas.LocatorSpec, action interact.Action, params interact.Params) (*interact.ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	elem, err := s.engine.Resolve(ctx, spec)
	if err != nil {
		return nil, err
	}
	if action == interact.ActionClick || action == interact.ActionType {
		if err := s.exec.ScrollIntoView(ctx, &s.cursor, elem); err != nil {
			return nil, err
		}
	}
	return s.exec.Perform(ctx, &s.cursor, elem, spec, action, params)
}

// Click is shorthand for Perform with ActionClick.
func (s *Session) Click(ctx context.Context, spec schemas.LocatorSpec) error {
	_, err := s.Perform(ctx, spec, interact.ActionClick, interact.Params{})
	return err
}

// Type is shorthand for Perform with ActionType.
func (s *Session) Type(ctx context.Context, spec schemas.LocatorSpec, text string) error {
	_, err := s.Perform(ctx, spec, interact.ActionType, interact.Params{Text: text})
	return err
}

// Scroll moves the page by delta pixels in humanized increments.
func (s *Session) Scroll(ctx context.Context, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.exec.Scroll(ctx, &s.cursor, delta)
}

// Extract resolves a locator and reads structured content from it without
// any pointer motion.
func (s *Session) Extract(ctx context.Context, spec schemas.LocatorSpec, extraction schemas.ExtractionSpec) (*schemas.ExtractionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	elem, err := s.engine.Resolve(ctx, spec)
	if err != nil {
		return nil, err
	}
	return s.exec.Read(ctx, elem, extraction)
}

// Settle pauses for a thinking-scale delay. Callers use it after actions
// that trigger asynchronous rendering, such as submitting a search.
func (s *Session) Settle(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page.Sleep(ctx, s.human.Delay(humanoid.DelayThinkingPause))
}

// Fatigue exposes the persona's current fatigue level for diagnostics.
func (s *Session) Fatigue() float64 { return s.human.Fatigue() }

// Logger returns the session-scoped logger.
func (s *Session) Logger() *zap.Logger { return s.logger }
