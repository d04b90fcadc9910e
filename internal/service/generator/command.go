package generator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/GooGuTeam/g0v0-client-versions/internal/catalog"
	"github.com/GooGuTeam/g0v0-client-versions/internal/config"
	"github.com/GooGuTeam/g0v0-client-versions/internal/definition"
	"github.com/GooGuTeam/g0v0-client-versions/internal/logger"
	"github.com/GooGuTeam/g0v0-client-versions/internal/service/resolver"
	"github.com/GooGuTeam/g0v0-client-versions/internal/source"
	"github.com/GooGuTeam/g0v0-client-versions/internal/source/github"
	"github.com/GooGuTeam/g0v0-client-versions/internal/version"
)

// Options contains inputs for the generator entry point.
type Options struct {
	// ConfigPath is an optional path to a settings YAML file.
	ConfigPath string
	// ClientsDir overrides the configured client definition directory.
	ClientsDir string
	// OutputDir overrides the configured output directory.
	OutputDir string
	// LogLevel overrides the configured log level.
	LogLevel string
	// Source overrides the release source, used by tests. When nil, a
	// GitHub client is built from the configuration.
	Source source.Source
}

// generator holds the state of a single catalog generation run.
// It is unexported—callers should use Run, which encapsulates setup.
type generator struct {
	cfg  *config.Config
	sets []definition.Set
	res  *resolver.Resolver
}

// Run executes the full generation workflow: load definitions, resolve
// every client, assemble and write the catalogs. Clients that fail to
// resolve are reported through the returned error, but output is still
// written for every client that succeeded.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "version-catalog")

	gen, err := newGenerator(ctx, opts)
	if err != nil {
		return err
	}

	if err = gen.run(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "Catalog generation completed successfully")

	return nil
}

// newGenerator loads configuration and definitions and wires the resolver.
func newGenerator(ctx context.Context, opts *Options) (*generator, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.ClientsDir != "" {
		cfg.ClientsDir = opts.ClientsDir
	}

	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	if lvl, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(lvl)
	}

	sets, err := definition.LoadDir(cfg.ClientsDir)
	if err != nil {
		return nil, fmt.Errorf("load client definitions: %w", err)
	}

	if err = checkMergeScope(sets); err != nil {
		return nil, err
	}

	src := opts.Source
	if src == nil {
		src = github.NewClient(github.Options{
			BaseURL:   cfg.APIBaseURL,
			Token:     config.Token(),
			Timeout:   cfg.RequestTimeout,
			UserAgent: "g0v0-client-versions/" + version.Short(),
		})
	}

	return &generator{
		cfg:  cfg,
		sets: sets,
		res:  resolver.New(src, cfg.Concurrency),
	}, nil
}

// checkMergeScope rejects duplicate client names across all definition
// files before any network work happens. The combined catalog cannot
// hold two clients with the same name.
func checkMergeScope(sets []definition.Set) error {
	seen := make(map[string]struct{})

	for _, set := range sets {
		for _, def := range set.Definitions {
			if _, ok := seen[def.Name]; ok {
				return &catalog.DuplicateClientError{Client: def.Name}
			}

			seen[def.Name] = struct{}{}
		}
	}

	return nil
}

// clientTask is one client to resolve, tied back to its definition set.
type clientTask struct {
	setIndex int
	def      definition.Definition
}

// clientResult is the per-client outcome written by exactly one worker.
type clientResult struct {
	table catalog.PlatformVersions
	err   error
}

// run resolves all clients, assembles the catalogs, and writes output.
func (g *generator) run(ctx context.Context) error {
	tasks := make([]clientTask, 0)
	for setIndex, set := range g.sets {
		for _, def := range set.Definitions {
			tasks = append(tasks, clientTask{setIndex: setIndex, def: def})
		}
	}

	logger.InfoKV(ctx, "Resolving clients",
		"clients", len(tasks), "definition_files", len(g.sets))

	results := make([]clientResult, len(tasks))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.cfg.Concurrency)

	for i := range tasks {
		group.Go(func() error {
			table, err := g.res.Resolve(groupCtx, tasks[i].def)
			results[i] = clientResult{table: table, err: err}

			// Client failures are isolated; they surface after assembly.
			return nil
		})
	}

	_ = group.Wait()

	return g.assemble(ctx, tasks, results)
}

// assemble merges per-client tables into catalogs and writes all output
// files, then reports any client failures collected along the way.
func (g *generator) assemble(ctx context.Context, tasks []clientTask, results []clientResult) error {
	perSet := make([]catalog.Catalog, len(g.sets))
	for i := range perSet {
		perSet[i] = catalog.New()
	}

	var failures []error

	for i, tsk := range tasks {
		result := results[i]
		if result.err != nil {
			logger.ErrorKV(ctx, "Client resolution failed",
				"client", tsk.def.Name, "error", result.err)

			failures = append(failures, result.err)

			continue
		}

		if err := perSet[tsk.setIndex].Add(tsk.def.Name, result.table); err != nil {
			return err
		}
	}

	combined, err := catalog.Merge(perSet...)
	if err != nil {
		return err
	}

	combinedPath := filepath.Join(g.cfg.OutputDir, catalog.CombinedFilename)
	if err := catalog.Write(combinedPath, combined); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Wrote combined catalog",
		"path", combinedPath, "clients", combined.Clients(), "entries", combined.Entries())

	for i, set := range g.sets {
		if !set.Community {
			continue
		}

		path := filepath.Join(g.cfg.OutputDir, set.Name+".json")
		if err := catalog.Write(path, perSet[i]); err != nil {
			return err
		}

		logger.InfoKV(ctx, "Wrote community catalog", "path", path, "clients", perSet[i].Clients())
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d clients failed to resolve: %w",
			len(failures), len(tasks), errors.Join(failures...))
	}

	return nil
}
