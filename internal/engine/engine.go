// Package engine classifies batches of captured surface snapshots and
// turns the scenarios into reports. The classifier core is stateless,
// so snapshots are processed concurrently without coordination beyond a
// bound on parallelism.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fillscope/fillscope-cli/api/schemas"
	"github.com/fillscope/fillscope-cli/internal/autofill/extract"
	"github.com/fillscope/fillscope-cli/internal/autofill/fields"
	"github.com/fillscope/fillscope-cli/internal/autofill/strategy"
	"github.com/fillscope/fillscope-cli/internal/config"
	"github.com/fillscope/fillscope-cli/internal/trust"
)

// Snapshot is one captured form, already flattened to raw nodes, plus
// the request metadata the host supplied.
type Snapshot struct {
	// Source labels where the snapshot came from (file path or capture
	// id); it is echoed into the report.
	Source string `json:"source,omitempty"`
	// Surface is the package id of the app rendering the fields.
	Surface string `json:"surface"`
	// Manual is true when the user explicitly requested autofill.
	Manual bool `json:"manual"`
	// Nodes in document-traversal order.
	Nodes []fields.Node `json:"nodes"`
}

// Engine runs the classifier over snapshots.
type Engine struct {
	cfg      config.EngineConfig
	policy   *trust.Policy
	strategy *strategy.Strategy
	logger   *zap.Logger
}

// New wires an Engine. A nil logger disables logging.
func New(cfg config.EngineConfig, policy *trust.Policy, logger *zap.Logger) *Engine {
	cfg.SetDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == nil {
		policy = trust.NewPolicy(nil)
	}
	return &Engine{
		cfg:      cfg,
		policy:   policy,
		strategy: strategy.New(logger),
		logger:   logger.Named("Engine"),
	}
}

// ClassifyBatch classifies every snapshot and returns one result per
// snapshot in input order. Classification itself cannot fail; the error
// only reports context cancellation.
func (e *Engine) ClassifyBatch(ctx context.Context, snapshots []Snapshot) ([]schemas.ClassificationResult, error) {
	results := make([]schemas.ClassificationResult, len(snapshots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, snap := range snapshots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.Classify(snap)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Classify runs one snapshot through extraction, the trust policy and
// the rule engine.
func (e *Engine) Classify(snap Snapshot) schemas.ClassificationResult {
	requestID := uuid.New().String()
	logger := e.logger.With(zap.String("request_id", requestID), zap.String("surface", snap.Surface))

	form := extract.FromNodes(snap.Nodes)
	singleOrigin := e.policy.SingleOriginOnly(snap.Surface)

	result := schemas.ClassificationResult{
		RequestID:        requestID,
		ObservedAt:       time.Now().UTC(),
		Source:           snap.Source,
		Surface:          snap.Surface,
		SingleOriginMode: singleOrigin,
		ManualRequest:    snap.Manual,
		FieldCount:       len(form.Fields),
		IgnoredCount:     len(form.Ignored),
	}

	scn, ok := e.strategy.Classify(form.Fields, singleOrigin, snap.Manual)
	if !ok {
		logger.Debug("No scenario detected", zap.Int("fields", len(form.Fields)))
		return result
	}

	result.Matched = true
	result.Scenario = buildScenarioReport(scn)
	logger.Info("Scenario detected",
		zap.String("kind", string(result.Scenario.Kind)),
		zap.Int("fields", len(result.Scenario.Fields)),
	)
	return result
}

// ClassifyForm is the non-batch entry point for callers that already
// extracted a field list and resolved the origin mode themselves.
func (e *Engine) ClassifyForm(form extract.Form, singleOrigin, manual bool) (schemas.ClassificationResult, bool) {
	result := schemas.ClassificationResult{
		RequestID:        uuid.New().String(),
		ObservedAt:       time.Now().UTC(),
		SingleOriginMode: singleOrigin,
		ManualRequest:    manual,
		FieldCount:       len(form.Fields),
		IgnoredCount:     len(form.Ignored),
	}
	scn, ok := e.strategy.Classify(form.Fields, singleOrigin, manual)
	if !ok {
		return result, false
	}
	result.Matched = true
	result.Scenario = buildScenarioReport(scn)
	return result, true
}
