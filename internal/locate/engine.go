package locate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/page"
)

// Config tunes the discovery cascade. Every threshold is configuration, not
// a constant; the defaults are starting points to tune empirically.
type Config struct {
	// SmartAttributeThreshold is the minimum smart-attribute score accepted.
	SmartAttributeThreshold float64 `mapstructure:"smart_attribute_threshold" yaml:"smart_attribute_threshold"`
	// HeuristicThreshold is the minimum semantic score accepted. It sits
	// above the smart-attribute bar because heuristic role detection is the
	// least reliable strategy.
	HeuristicThreshold float64 `mapstructure:"heuristic_threshold" yaml:"heuristic_threshold"`
	// FuzzyMinOverlap is the minimum token overlap for the fuzzy content
	// tier.
	FuzzyMinOverlap float64 `mapstructure:"fuzzy_min_overlap" yaml:"fuzzy_min_overlap"`
	// DefaultTimeout bounds a resolution attempt when the spec carries none.
	DefaultTimeout time.Duration `mapstructure:"default_timeout" yaml:"default_timeout"`
	// CacheEnabled opts into the short-lived (scope, spec) cache.
	CacheEnabled bool `mapstructure:"cache_enabled" yaml:"cache_enabled"`
	// CacheTTL bounds how long a cached resolution may be reused.
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	// Weights feed the semantic analyzer.
	Weights Weights `mapstructure:"weights" yaml:"weights"`
}

func DefaultConfig() Config {
	return Config{
		SmartAttributeThreshold: 0.5,
		HeuristicThreshold:      0.6,
		FuzzyMinOverlap:         0.5,
		DefaultTimeout:          10 * time.Second,
		CacheEnabled:            false,
		CacheTTL:                15 * time.Second,
		Weights:                 DefaultWeights(),
	}
}

// Engine resolves locator specs into physical elements by running the
// strategy cascade: direct selector, smart-attribute, content-match, then
// heuristic role detection. The first strategy to clear its threshold wins;
// strategies are never combined or voted, which keeps every resolution
// auditable through its recorded strategy tag.
type Engine struct {
	page     page.Page
	analyzer *Analyzer
	cfg      Config
	logger   *zap.Logger
	cache    *resolutionCache
}

func NewEngine(p page.Page, cfg Config, logger *zap.Logger) *Engine {
	e := &Engine{
		page:     p,
		analyzer: NewAnalyzer(cfg.Weights),
		cfg:      cfg,
		logger:   logger.Named("locate"),
	}
	if cfg.CacheEnabled {
		e.cache = newResolutionCache(cfg.CacheTTL)
	}
	return e
}

// Resolve runs the cascade for one spec. An empty spec fails immediately
// with a configuration error, before the page is touched.
func (e *Engine) Resolve(ctx context.Context, spec schemas.LocatorSpec) (*schemas.ResolvedElement, error) {
	if spec.IsEmpty() {
		return nil, schemas.NewError(schemas.ErrCodeConfiguration,
			"locator spec needs at least one of selectors, role, or text hint")
	}

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = e.cfg.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	epoch := e.page.NavigationEpoch()
	if e.cache != nil {
		if elem, ok := e.cache.get(spec.CacheKey(), epoch); ok {
			e.logger.Debug("Resolution served from cache",
				zap.String("selector", elem.Selector), zap.String("strategy", string(elem.Strategy)))
			return &elem, nil
		}
	}

	start := time.Now()
	elem, attempts, err := e.cascade(ctx, spec)
	if err != nil {
		return nil, err
	}
	if elem == nil {
		return nil, &schemas.InteractionError{
			Code:      schemas.ErrCodeElementNotFound,
			Msg:       "all applicable strategies exhausted",
			Attempted: attempts,
		}
	}

	elem.Scope = spec.Scope
	elem.Role = spec.Role
	elem.Elapsed = time.Since(start)
	if e.cache != nil {
		e.cache.put(spec.CacheKey(), *elem, epoch)
	}
	e.logger.Debug("Element resolved",
		zap.String("selector", elem.Selector),
		zap.String("strategy", string(elem.Strategy)),
		zap.Float64("confidence", elem.Confidence),
		zap.Duration("elapsed", elem.Elapsed))
	return elem, nil
}

// cascade tries each strategy that has a basis to run, in strict priority
// order, and stops at the first qualifying candidate. Each applicable
// strategy works inside its own slice of whatever budget is left, so a
// wedged page call in one tier cannot starve the tiers below it.
func (e *Engine) cascade(ctx context.Context, spec schemas.LocatorSpec) (*schemas.ResolvedElement, []schemas.StrategyAttempt, error) {
	hasDirect := len(spec.Selectors) > 0
	hasSmart := spec.Role != schemas.RoleUnspecified || spec.TextHint != ""
	hasContent := spec.TextHint != ""
	hasHeuristic := spec.Role != schemas.RoleUnspecified

	remaining := 0
	for _, on := range []bool{hasDirect, hasSmart, hasContent, hasHeuristic} {
		if on {
			remaining++
		}
	}

	stageCtx := func() (context.Context, context.CancelFunc) {
		deadline, ok := ctx.Deadline()
		if !ok || remaining <= 0 {
			return context.WithCancel(ctx)
		}
		return context.WithTimeout(ctx, time.Until(deadline)/time.Duration(remaining))
	}

	// The fallback strategies share one snapshot harvest. A stage whose
	// slice expires mid-harvest skips; the next stage retries.
	var snapshot []page.ElementInfo
	harvested := false
	harvest := func(sctx context.Context) bool {
		if harvested {
			return true
		}
		snap, err := e.page.Snapshot(sctx, spec.Scope)
		if err != nil {
			e.logger.Debug("Snapshot harvest failed", zap.Error(err))
			return false
		}
		snapshot = snap
		harvested = true
		return true
	}

	var attempts []schemas.StrategyAttempt

	// 1. Direct selector match. An exact structural match is maximal
	// confidence; no scoring needed.
	if hasDirect {
		sctx, cancel := stageCtx()
		elem, attempt := e.tryDirect(sctx, spec)
		cancel()
		remaining--
		attempts = append(attempts, attempt)
		if elem != nil {
			return elem, attempts, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, attempts, e.timeoutError(err, attempts)
		}
	}

	// 2. Smart-attribute match.
	if hasSmart {
		sctx, cancel := stageCtx()
		attempt := schemas.StrategyAttempt{Strategy: schemas.StrategySmartAttribute}
		if harvest(sctx) {
			candidates := scoreSmartAttributes(snapshot, spec.Role, spec.TextHint)
			attempt.Candidates = len(candidates)
			if best := bestSmart(candidates); best != nil {
				attempt.BestScore = best.score
				if best.score >= e.cfg.SmartAttributeThreshold {
					cancel()
					return &schemas.ResolvedElement{
						Selector:    best.info.Selector,
						Fingerprint: page.Fingerprint(best.info),
						Strategy:    schemas.StrategySmartAttribute,
						Confidence:  best.score,
					}, append(attempts, attempt), nil
				}
			}
		}
		cancel()
		remaining--
		attempts = append(attempts, attempt)
		if err := ctx.Err(); err != nil {
			return nil, attempts, e.timeoutError(err, attempts)
		}
	}

	// 3. Content-based match.
	if hasContent {
		sctx, cancel := stageCtx()
		attempt := schemas.StrategyAttempt{Strategy: schemas.StrategyContentMatch}
		if harvest(sctx) {
			matches := matchContent(snapshot, spec.TextHint, e.cfg.FuzzyMinOverlap)
			attempt.Candidates = len(matches)
			if best := bestContent(matches); best != nil {
				attempt.BestScore = best.confidence()
				cancel()
				return &schemas.ResolvedElement{
					Selector:    best.info.Selector,
					Fingerprint: page.Fingerprint(best.info),
					Strategy:    schemas.StrategyContentMatch,
					Confidence:  best.confidence(),
				}, append(attempts, attempt), nil
			}
		}
		cancel()
		remaining--
		attempts = append(attempts, attempt)
		if err := ctx.Err(); err != nil {
			return nil, attempts, e.timeoutError(err, attempts)
		}
	}

	// 4. Heuristic role detection, the least reliable strategy, with the
	// higher bar to clear.
	if hasHeuristic {
		sctx, cancel := stageCtx()
		attempt := schemas.StrategyAttempt{Strategy: schemas.StrategyHeuristicRole}
		if harvest(sctx) {
			scored := e.analyzer.Score(snapshot, spec.Role)
			attempt.Candidates = len(scored)
			if len(scored) > 0 {
				top := scored[0]
				attempt.BestScore = top.Score
				if top.Score >= e.cfg.HeuristicThreshold {
					cancel()
					return &schemas.ResolvedElement{
						Selector:    top.Element.Selector,
						Fingerprint: page.Fingerprint(top.Element),
						Strategy:    schemas.StrategyHeuristicRole,
						Confidence:  top.Score,
					}, append(attempts, attempt), nil
				}
			}
		}
		cancel()
		remaining--
		attempts = append(attempts, attempt)
		if err := ctx.Err(); err != nil {
			return nil, attempts, e.timeoutError(err, attempts)
		}
	}

	return nil, attempts, nil
}

// tryDirect exhausts the caller's selectors in order within the stage's
// context.
func (e *Engine) tryDirect(ctx context.Context, spec schemas.LocatorSpec) (*schemas.ResolvedElement, schemas.StrategyAttempt) {
	attempt := schemas.StrategyAttempt{Strategy: schemas.StrategyDirect}
	for _, sel := range spec.Selectors {
		if ctx.Err() != nil {
			return nil, attempt
		}
		infos, err := e.page.Query(ctx, spec.Scope, sel)
		if err != nil {
			e.logger.Debug("Direct selector query failed", zap.String("selector", sel), zap.Error(err))
			continue
		}
		attempt.Candidates += len(infos)
		if len(infos) > 0 {
			attempt.BestScore = 1.0
			return &schemas.ResolvedElement{
				Selector:    firstSelector(infos[0], sel),
				Fingerprint: page.Fingerprint(infos[0]),
				Strategy:    schemas.StrategyDirect,
				Confidence:  1.0,
			}, attempt
		}
	}
	return nil, attempt
}

// EnsureAttached verifies a previously resolved handle still points at the
// same node, transparently re-running the full cascade once when it does
// not. This is the single allowed internal retry; a failed re-resolution
// escalates as a stale-element error.
func (e *Engine) EnsureAttached(ctx context.Context, elem *schemas.ResolvedElement, spec schemas.LocatorSpec) (*schemas.ResolvedElement, error) {
	detached, err := e.page.Detached(ctx, elem.Selector, elem.Fingerprint)
	if err != nil {
		return nil, schemas.WrapError(schemas.ErrCodeActionTimeout, err, "staleness check failed")
	}
	if !detached {
		return elem, nil
	}

	e.logger.Debug("Element detached, re-running discovery once", zap.String("selector", elem.Selector))
	if e.cache != nil {
		e.cache.invalidate(spec.CacheKey())
	}
	fresh, rerr := e.Resolve(ctx, spec)
	if rerr != nil {
		return nil, schemas.WrapError(schemas.ErrCodeStaleElement, rerr,
			"element went stale and re-resolution failed")
	}
	return fresh, nil
}

func (e *Engine) timeoutError(cause error, attempts []schemas.StrategyAttempt) error {
	return &schemas.InteractionError{
		Code:      schemas.ErrCodeElementNotFound,
		Msg:       "resolution timed out",
		Attempted: attempts,
		Err:       cause,
	}
}

// firstSelector prefers the harvested unique path but falls back to the raw
// selector the caller supplied.
func firstSelector(info page.ElementInfo, raw string) string {
	if info.Selector != "" {
		return info.Selector
	}
	return raw
}

func bestSmart(candidates []smartCandidate) *smartCandidate {
	var best *smartCandidate
	for i := range candidates {
		if best == nil || candidates[i].score > best.score {
			best = &candidates[i]
		}
	}
	return best
}

func bestContent(matches []contentMatch) *contentMatch {
	var best *contentMatch
	for i := range matches {
		if best == nil ||
			matches[i].tier < best.tier ||
			(matches[i].tier == best.tier && matches[i].overlap > best.overlap) {
			best = &matches[i]
		}
	}
	return best
}
