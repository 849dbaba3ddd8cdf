package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pathway/internal/config"
	"github.com/vango-dev/pathway/internal/errors"
	"github.com/vango-dev/pathway/pkg/history"
	"github.com/vango-dev/pathway/pkg/router"
)

type matchResult struct {
	Route     string            `json:"route,omitempty"`
	Pattern   string            `json:"pattern"`
	Path      string            `json:"path"`
	Params    map[string]string `json:"params,omitempty"`
	Query     string            `json:"query,omitempty"`
	Hash      string            `json:"hash,omitempty"`
	Component string            `json:"component,omitempty"`
}

func matchCmd(g *globals) *cobra.Command {
	var (
		name   string
		params map[string]string
		query  string
		hash   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "match [path]",
		Short: "Resolve a path or route name against the route table",
		Long: `Resolve a path or a named route the way the router would before
navigating, and print the resulting route state.

The base path and locale prefix are stripped from paths that carry them.

Examples:
  pathway match /users/7?tab=posts
  pathway match --name user --param id=7
  pathway match /app/en/about --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req router.Request
			switch {
			case name != "" && len(args) > 0:
				return errors.New("X140").WithDetail("pass a path or --name, not both")
			case name != "":
				req = router.Named(name, params)
			case len(args) == 1:
				req = router.To(args[0])
				if len(params) > 0 {
					req = req.WithParams(params)
				}
			default:
				return errors.New("X140").WithDetail("a path or --name is required")
			}
			if query != "" {
				req = req.WithQuery(query)
			}
			if hash != "" {
				req = req.WithHash(hash)
			}

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			logger, err := g.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runMatch(cmd.OutOrStdout(), cfg, logger, req, asJSON)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Route name to build instead of a path")
	cmd.Flags().StringToStringVarP(&params, "param", "p", nil, "Route parameter, k=v (repeatable)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Query string")
	cmd.Flags().StringVar(&hash, "hash", "", "Fragment")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func runMatch(w io.Writer, cfg *config.Config, logger *slog.Logger, req router.Request, asJSON bool) error {
	opts, err := cfg.RouterOptions(func(*router.RouteState) {})
	if err != nil {
		return err
	}
	opts.History = history.NewMemory()
	opts.Components = headlessComponents(cfg.ComponentKeys(), logger)
	opts.Logger = logger

	r, err := router.New(opts)
	if err != nil {
		return err
	}
	defer r.Close()

	res, err := r.Resolve(req)
	if err != nil {
		return err
	}

	result := matchResult{
		Route:     res.State.Name,
		Pattern:   res.Route.Path,
		Path:      displayPath(res.State.Path),
		Params:    res.State.Params,
		Query:     res.State.Query,
		Hash:      res.State.Hash,
		Component: res.Handler.ComponentKey(),
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if result.Route != "" {
		fmt.Fprintf(tw, "route\t%s\n", result.Route)
	}
	fmt.Fprintf(tw, "pattern\t%s\n", result.Pattern)
	fmt.Fprintf(tw, "path\t%s\n", result.Path)
	if len(result.Params) > 0 {
		fmt.Fprintf(tw, "params\t%s\n", formatParams(result.Params))
	}
	if result.Query != "" {
		fmt.Fprintf(tw, "query\t%s\n", result.Query)
	}
	if result.Hash != "" {
		fmt.Fprintf(tw, "hash\t%s\n", result.Hash)
	}
	if result.Component != "" {
		fmt.Fprintf(tw, "component\t%s\n", result.Component)
	}
	return tw.Flush()
}

func formatParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + params[k]
	}
	return strings.Join(parts, " ")
}
