package scheduler

import (
	"context"
	"time"

	"leadwatch_backend/platform/logger"
)

const defaultDetectInterval = time.Minute

// Detector runs one detection pass per watch-target kind.
type Detector interface {
	DetectStaticPool(ctx context.Context) error
	DetectSources(ctx context.Context) error
}

// DetectPoller periodically polls the directory for new lead assignments.
// The first pass runs immediately so a restart does not wait a full interval.
type DetectPoller struct {
	detector Detector
	interval time.Duration
	log      *logger.Logger
}

func NewDetectPoller(detector Detector, interval time.Duration, log *logger.Logger) *DetectPoller {
	if interval <= 0 {
		interval = defaultDetectInterval
	}

	return &DetectPoller{
		detector: detector,
		interval: interval,
		log:      log.WithJob("detect"),
	}
}

func (p *DetectPoller) Run(ctx context.Context) {
	if p == nil || p.detector == nil {
		return
	}

	p.detect(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.detect(ctx)
		}
	}
}

// detect runs both passes; a failed pass ends early and the next tick retries.
func (p *DetectPoller) detect(ctx context.Context) {
	if err := p.detector.DetectStaticPool(ctx); err != nil {
		p.log.Warn("static pool detection pass ended early", "error", err)
	}
	if err := p.detector.DetectSources(ctx); err != nil {
		p.log.Warn("source detection pass ended early", "error", err)
	}
}
