package core

import (
	"context"

	"go.uber.org/zap"
)

// ScanService drives the external scan engine and reduces its findings.
type ScanService struct {
	engine ScanEngine
	logger *zap.Logger
}

// NewScanService creates a new scan service
func NewScanService(engine ScanEngine, logger *zap.Logger) *ScanService {
	return &ScanService{
		engine: engine,
		logger: logger,
	}
}

// CheckURL runs the scan sequence against a target and reduces the findings
// into a summary. An engine failure is treated as "no data": the summary
// falls back to Safe at Low risk rather than surfacing an error to the
// caller.
func (s *ScanService) CheckURL(ctx context.Context, target string) *AlertSummary {
	findings, err := s.engine.Scan(ctx, target)
	if err != nil {
		s.logger.Warn("Scan engine failed, reducing as empty findings",
			zap.String("target", target),
			zap.Error(err))
		findings = nil
	}

	return ReduceAlerts(findings)
}
