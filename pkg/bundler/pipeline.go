package bundler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NVIDIA/shellpack/pkg/bundler/registry"
	"github.com/NVIDIA/shellpack/pkg/bundler/result"
	"github.com/NVIDIA/shellpack/pkg/bundler/settings"
	"github.com/NVIDIA/shellpack/pkg/bundler/types"
	"github.com/NVIDIA/shellpack/pkg/errors"
)

// pipelineRun is the Resolver handed to strategies during one Make call.
// It is not safe for concurrent use; strategies run sequentially.
type pipelineRun struct {
	registry *registry.Registry
	settings *settings.Settings
	output   *result.Output

	done   map[types.PackageType][]result.Artifact
	active map[types.PackageType]bool
	stack  []types.PackageType
}

var _ registry.Resolver = (*pipelineRun)(nil)

// Resolve runs the strategy for pt unless it already ran in this pipeline run.
func (p *pipelineRun) Resolve(ctx context.Context, pt types.PackageType) ([]result.Artifact, error) {
	if arts, ok := p.done[pt]; ok {
		slog.Debug("reusing package type artifacts", "type", pt)
		return arts, nil
	}
	if p.active[pt] {
		chain := make([]string, 0, len(p.stack)+1)
		for _, t := range p.stack {
			chain = append(chain, t.String())
		}
		chain = append(chain, pt.String())
		return nil, errors.NewWithContext(errors.ErrCodeInternal,
			"dependency cycle between package types",
			map[string]any{"chain": strings.Join(chain, " -> ")})
	}

	strategy, ok := p.registry.Get(pt)
	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("no strategy registered for package type %s", pt),
			map[string]any{"type": pt.String()})
	}

	p.active[pt] = true
	p.stack = append(p.stack, pt)
	defer func() {
		delete(p.active, pt)
		p.stack = p.stack[:len(p.stack)-1]
	}()

	arts, err := p.execute(ctx, strategy)
	if err != nil {
		return nil, err
	}
	p.done[pt] = arts
	return arts, nil
}

// execute runs a single strategy, records its result and metrics.
func (p *pipelineRun) execute(ctx context.Context, strategy registry.Strategy) ([]result.Artifact, error) {
	pt := strategy.Type()
	start := time.Now()
	res := result.New(pt)
	p.output.Results = append(p.output.Results, res)

	slog.Debug("executing strategy", "type", pt)

	arts, err := strategy.Bundle(ctx, p.settings, p)
	res.Duration = time.Since(start)
	strategyDuration.WithLabelValues(pt.String()).Observe(res.Duration.Seconds())

	if err != nil {
		res.AddError(err)
		p.output.AddError(pt, err)
		strategyRuns.WithLabelValues(pt.String(), outcomeFailure).Inc()

		slog.Error("strategy failed",
			"type", pt,
			"error", err,
		)
		return nil, err
	}

	for _, a := range arts {
		res.AddArtifact(a)
	}
	res.MarkSuccess()
	strategyRuns.WithLabelValues(pt.String(), outcomeSuccess).Inc()
	artifactsProduced.WithLabelValues(pt.String()).Add(float64(len(arts)))

	slog.Info("strategy completed",
		"type", pt,
		"artifacts", len(arts),
		"duration", res.Duration.Round(time.Millisecond),
	)
	return arts, nil
}
