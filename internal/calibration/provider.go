package calibration

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchup-engine/internal/metrics"
)

// Provider lazily loads each calibration set exactly once per process.
// Concurrent first callers share a single in-flight fetch. A failed or
// absent document pins the set to nil permanently: there is no retry, no
// refresh, and no TTL. Accessors return nil when a set is unavailable, which
// consumers treat as "use the hardcoded defaults".
type Provider struct {
	source Source
	logger *logrus.Logger

	ageGroupOnce sync.Once
	ageGroup     *AgeGroupParams

	probabilityOnce sync.Once
	probability     *ProbabilityParams

	marginOnce sync.Once
	margin     *MarginParamsV2

	confidenceOnce sync.Once
	confidence     *ConfidenceParamsV2
}

// NewProvider creates a provider over the given document source.
func NewProvider(source Source, logger *logrus.Logger) *Provider {
	return &Provider{source: source, logger: logger}
}

// AgeGroup returns the age-group parameter set, or nil when unavailable.
func (p *Provider) AgeGroup(ctx context.Context) *AgeGroupParams {
	p.ageGroupOnce.Do(func() {
		var params AgeGroupParams
		if p.load(ctx, DocAgeGroup, &params) {
			p.ageGroup = &params
		}
	})
	return p.ageGroup
}

// Probability returns the probability parameter set, or nil when unavailable.
func (p *Provider) Probability(ctx context.Context) *ProbabilityParams {
	p.probabilityOnce.Do(func() {
		var params ProbabilityParams
		if p.load(ctx, DocProbability, &params) {
			p.probability = &params
		}
	})
	return p.probability
}

// Margin returns the v2 margin parameter set, or nil when unavailable.
func (p *Provider) Margin(ctx context.Context) *MarginParamsV2 {
	p.marginOnce.Do(func() {
		var params MarginParamsV2
		if p.load(ctx, DocMarginV2, &params) {
			p.margin = &params
		}
	})
	return p.margin
}

// Confidence returns the v2 confidence parameter set, or nil when unavailable.
func (p *Provider) Confidence(ctx context.Context) *ConfidenceParamsV2 {
	p.confidenceOnce.Do(func() {
		var params ConfidenceParamsV2
		if p.load(ctx, DocConfidenceV2, &params) {
			p.confidence = &params
		}
	})
	return p.confidence
}

// Available reports whether all four calibration sets loaded. Used by
// readiness checks; a false result is informational, not fatal.
func (p *Provider) Available(ctx context.Context) bool {
	return p.AgeGroup(ctx) != nil &&
		p.Probability(ctx) != nil &&
		p.Margin(ctx) != nil &&
		p.Confidence(ctx) != nil
}

// load fetches and parses one document. A false return means the set stays
// nil for the life of the process; the prediction caller never sees the
// error, it is logged and absorbed here.
func (p *Provider) load(ctx context.Context, name string, out interface{}) bool {
	if p.source == nil {
		return false
	}

	data, err := p.source.Fetch(ctx, name)
	if err != nil {
		metrics.CalibrationLoadFailuresTotal.WithLabelValues(name).Inc()
		if p.logger != nil {
			p.logger.WithError(err).WithField("document", name).
				Warn("Calibration document unavailable, using defaults")
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		metrics.CalibrationLoadFailuresTotal.WithLabelValues(name).Inc()
		if p.logger != nil {
			p.logger.WithError(err).WithField("document", name).
				Warn("Calibration document unparseable, using defaults")
		}
		return false
	}

	if p.logger != nil {
		p.logger.WithField("document", name).Debug("Calibration document loaded")
	}
	return true
}
