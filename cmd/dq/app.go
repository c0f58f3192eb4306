package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jacoelho/dq/internal/config"
	"github.com/jacoelho/dq/internal/document"
	"github.com/jacoelho/dq/internal/exit"
	"github.com/jacoelho/dq/internal/ratelimit"
	"github.com/jacoelho/dq/internal/render"
	"github.com/jacoelho/dq/pkg/pathquery"
	"github.com/jacoelho/dq/pkg/pathquery/fuzzy"
	"github.com/jacoelho/dq/pkg/pathquery/jsonpath"
)

// App evaluates one parsed configuration against its sources.
type App struct {
	config  *config.Config
	engine  *pathquery.Engine
	fetcher *document.Fetcher
	output  io.Writer
}

func newApp(cfg *config.Config) (*App, *exit.Status) {
	engine := pathquery.New()
	if cfg.Fuzzy {
		if err := engine.Register(fuzzy.Descriptor()); err != nil {
			return nil, exit.Runtimef("Error: %v", err)
		}
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimit > 0 {
		limiter = ratelimit.New(cfg.RateLimit)
	}

	return &App{
		config:  cfg,
		engine:  engine,
		fetcher: document.NewFetcher(cfg.HTTPClient(), limiter),
		output:  os.Stdout,
	}, nil
}

// SetOutput redirects match output, which normally goes to stdout.
func (a *App) SetOutput(w io.Writer) {
	a.output = w
}

// Run compiles the expression and executes the configured mode.
func (a *App) Run(ctx context.Context) *exit.Status {
	path, status := a.compile()
	if status != nil {
		return status
	}

	if a.config.PrintAST {
		return a.printAST(path)
	}
	if a.config.ToJSONPath {
		return a.printJSONPath(path)
	}

	return a.query(ctx, path)
}

// compile turns the expression argument into a Path, either by parsing it
// or by decoding serialized AST records.
func (a *App) compile() (pathquery.Path, *exit.Status) {
	if a.config.FromAST {
		var records []pathquery.Record
		if err := json.Unmarshal([]byte(a.config.Expression), &records); err != nil {
			return nil, exit.Usagef("Error: invalid AST records: %v", err)
		}
		path, err := a.engine.UnmarshalAST(records)
		if err != nil {
			return nil, exit.Usagef("Error: %v", err)
		}
		return path, nil
	}

	path, err := a.engine.Parse(a.config.Expression)
	if err != nil {
		return nil, exit.Usagef("Error: %v", err)
	}
	return path, nil
}

func (a *App) printAST(path pathquery.Path) *exit.Status {
	records, err := a.engine.MarshalAST(path)
	if err != nil {
		return exit.Runtimef("Error: %v", err)
	}
	out, err := json.Marshal(records)
	if err != nil {
		return exit.Runtimef("Error: %v", err)
	}
	fmt.Fprintln(a.output, string(out))
	return exit.Matched()
}

func (a *App) printJSONPath(path pathquery.Path) *exit.Status {
	expr, err := jsonpath.Expression(path)
	if err != nil {
		return exit.Usagef("Error: %v", err)
	}
	fmt.Fprintln(a.output, expr)
	return exit.Matched()
}

func (a *App) query(ctx context.Context, path pathquery.Path) *exit.Status {
	started := time.Now()
	report := render.NewReport(path.String())

	for _, source := range a.config.Sources {
		if err := ctx.Err(); err != nil {
			return exit.Runtimef("Error: %v", err)
		}

		docs, err := a.fetcher.Load(ctx, source, a.config.Input)
		if err != nil {
			return exit.Runtimef("Error: %v", err)
		}

		matches, err := a.evaluate(path, docs)
		if err != nil {
			return exit.Runtimef("Error: %v", err)
		}
		report.Add(source, matches)
	}
	report.SetDuration(time.Since(started))

	if err := render.NewWithWriter(a.output, a.config.Output).Render(report); err != nil {
		return exit.Runtimef("Error: %v", err)
	}

	if report.MatchCount() == 0 {
		return exit.NoMatches()
	}
	return exit.Matched()
}

// evaluate runs the path over every document of one source. Under -first
// evaluation stops at the first match.
func (a *App) evaluate(path pathquery.Path, docs []any) ([]any, error) {
	var matches []any
	for _, doc := range docs {
		if a.config.First {
			match, err := a.engine.FindFirstPath(path, doc)
			if errors.Is(err, pathquery.ErrNoMatch) {
				continue
			}
			if err != nil {
				return nil, err
			}
			return []any{match}, nil
		}

		found, err := a.engine.FindAllPath(path, doc)
		if err != nil {
			return nil, err
		}
		matches = append(matches, found...)
	}
	return matches, nil
}
