package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/wayfarer/internal/observability"
	"github.com/xkilldash9x/wayfarer/internal/page"
	"github.com/xkilldash9x/wayfarer/internal/session"
	"github.com/xkilldash9x/wayfarer/internal/site"
)

var (
	runParams   []string
	runSessions int
	runHeadful  bool
)

var runCmd = &cobra.Command{
	Use:   "run <module>",
	Short: "Execute a site module task in one or more independent sessions.",
	Long: `Runs the named site module (see "wayfarer modules") with the given
parameters. With --sessions > 1 the same task runs concurrently in fully
independent sessions, each with its own tab, persona, and cursor.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(cmd.Context(), args[0])
	},
}

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List registered site modules.",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range newRegistry().Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringArrayVarP(&runParams, "param", "p", nil, "module parameter as key=value (repeatable)")
	runCmd.Flags().IntVar(&runSessions, "sessions", 1, "number of concurrent independent sessions")
	runCmd.Flags().BoolVar(&runHeadful, "headful", false, "run the browser with a visible window")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(modulesCmd)
}

func newRegistry() *site.Registry {
	logger := observability.GetLogger()
	return site.NewRegistry(
		site.NewSearchModule(logger),
		site.NewExtractModule(logger),
	)
}

func runTask(ctx context.Context, moduleName string) error {
	logger := observability.GetLogger()
	params, err := parseParams(runParams)
	if err != nil {
		return err
	}
	if runSessions < 1 {
		runSessions = 1
	}
	if runHeadful {
		cfg.SetBrowserHeadless(false)
	}

	registry := newRegistry()
	if _, err := registry.Get(moduleName); err != nil {
		return err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions()...)
	defer allocCancel()

	g, gctx := errgroup.WithContext(allocCtx)
	results := make([]*site.Result, runSessions)
	for i := 0; i < runSessions; i++ {
		g.Go(func() error {
			tabCtx, tabCancel := chromedp.NewContext(gctx)
			defer tabCancel()
			// Force the browser (or tab) to actually start.
			if err := chromedp.Run(tabCtx); err != nil {
				return fmt.Errorf("browser start: %w", err)
			}

			p := page.NewCDPPage(tabCtx, logger)
			s := session.New(p, cfg, logger)
			s.Logger().Info("Session started", zap.String("module", moduleName))

			res, err := registry.Run(gctx, s, moduleName, params)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if runSessions == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}

// allocatorOptions maps the browser config onto chromedp exec options.
func allocatorOptions() []chromedp.ExecAllocatorOption {
	bc := cfg.Browser()
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.WindowSize(bc.WindowWidth, bc.WindowHeight),
	}
	if bc.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if bc.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(bc.UserAgent))
	}
	return opts
}

func parseParams(raw []string) (site.Params, error) {
	params := site.Params{}
	for _, kv := range raw {
		key, value, found := strings.Cut(kv, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --param %q, want key=value", kv)
		}
		params[key] = value
	}
	return params, nil
}
