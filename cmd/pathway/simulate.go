package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pathway/internal/config"
	"github.com/vango-dev/pathway/internal/errors"
	"github.com/vango-dev/pathway/pkg/history"
	"github.com/vango-dev/pathway/pkg/router"
)

// step is one parsed simulate argument.
type step struct {
	raw    string
	action history.Action
	req    router.Request
	delta  int
}

func simulateCmd(g *globals) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "simulate <step>...",
		Short: "Replay navigation steps on an in-memory history",
		Long: `Run a router over an in-memory history and apply each step in order,
printing one line per navigation attempt and the final history.

Steps:
  push:/path       navigate to a path
  replace:/path    navigate, replacing the current entry
  name:user?id=7   navigate to a named route with parameters
  back, forward    move through history
  go:N             move N entries

Examples:
  pathway simulate push:/about name:user?id=7 back back forward`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			logger, err := g.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runSimulate(cmd.Context(), cmd.OutOrStdout(), cfg, logger, start, steps)
		},
	}

	cmd.Flags().StringVar(&start, "start", "/", "Initial history entry")

	return cmd
}

func parseSteps(args []string) ([]step, error) {
	steps := make([]step, 0, len(args))
	for _, arg := range args {
		s, err := parseStep(arg)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func parseStep(arg string) (step, error) {
	kind, rest, _ := strings.Cut(arg, ":")
	s := step{raw: arg}

	switch kind {
	case "push":
		s.action = history.Push
		s.req = router.To(rest)
	case "replace":
		s.action = history.Replace
		s.req = router.To(rest)
	case "name":
		name, rawQuery, _ := strings.Cut(rest, "?")
		if name == "" {
			return step{}, errors.New("X141").WithDetailf("%q has no route name", arg)
		}
		values, err := url.ParseQuery(rawQuery)
		if err != nil {
			return step{}, errors.New("X141").WithDetailf("%q: %v", arg, err)
		}
		params := make(map[string]string, len(values))
		for k := range values {
			params[k] = values.Get(k)
		}
		s.action = history.Push
		s.req = router.Named(name, params)
	case "back":
		s.action, s.delta = history.Pop, -1
	case "forward":
		s.action, s.delta = history.Pop, 1
	case "go":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return step{}, errors.New("X141").WithDetailf("%q: go needs an integer", arg)
		}
		s.action, s.delta = history.Pop, n
	default:
		return step{}, errors.New("X141").WithDetailf("%q", arg)
	}
	return s, nil
}

func runSimulate(ctx context.Context, w io.Writer, cfg *config.Config, logger *slog.Logger, start string, steps []step) error {
	if ctx == nil {
		ctx = context.Background()
	}

	opts, err := cfg.RouterOptions(func(s *router.RouteState) {
		logger.Debug("route callback", "route", s.Name, "path", displayPath(s.Path))
	})
	if err != nil {
		return err
	}
	mem := history.NewMemory(history.WithInitialEntries(start))
	opts.History = mem
	opts.Components = headlessComponents(cfg.ComponentKeys(), logger)
	opts.Logger = logger
	opts.Middleware = []router.Middleware{printOutcomes(w)}

	r, err := router.New(opts)
	if err != nil {
		return err
	}
	defer r.Close()

	r.Mount(ctx, nil)
	for _, s := range steps {
		switch s.action {
		case history.Pop:
			r.Go(s.delta)
		case history.Replace:
			r.Replace(ctx, s.req)
		default:
			r.Navigate(ctx, s.req)
		}
	}

	fmt.Fprintln(w)
	for i, loc := range mem.Entries() {
		marker := " "
		if i == mem.Index() {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %d %s\n", marker, i, loc.Href())
	}
	return nil
}

// printOutcomes writes one line per navigation attempt.
func printOutcomes(w io.Writer) router.Middleware {
	return router.MiddlewareFunc(func(nav *router.Navigation, next func() error) error {
		err := next()
		target := describeRequest(nav.Request)
		if nav.To != nil {
			target = displayPath(nav.To.Path)
		}
		fmt.Fprintf(w, "%-8s %-24s %s\n", nav.Action, target, nav.Outcome)
		return err
	})
}
