package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	billing "illuminator-billing/internal/billing/domain"
	"illuminator-billing/internal/billing/infrastructure/report"
	"illuminator-billing/internal/observability/metrics"
)

// Settings is the configuration slice one processing run needs.
type Settings struct {
	Mapping      billing.AreaMapping
	Rules        billing.RuleSet
	RateOverride *float64
	FallbackRate float64
}

// SettingsProvider supplies the current settings. Implementations may
// hot-reload behind this; each run reads them exactly once.
type SettingsProvider interface {
	BillingSettings() Settings
}

// Result is the outcome of one processing run. Either Summaries or
// Gaps is populated: a non-empty gap list means the engine refused to
// bill against an incomplete mapping, and the caller should drive a
// mapping repair before re-invoking.
type Result struct {
	RunID     string                 `json:"run_id"`
	Stats     report.Stats           `json:"stats"`
	Summaries []billing.DailySummary `json:"summaries,omitempty"`
	Gaps      []billing.MappingGap   `json:"unmapped_scenarios,omitempty"`
}

// Service orchestrates parse, mapping audit, overlap resolution and
// aggregation for uploaded usage reports. Stateless across runs.
type Service struct {
	settings SettingsProvider
	logger   *log.Logger
}

// NewService constructs the billing service.
func NewService(settings SettingsProvider, logger *log.Logger) (*Service, error) {
	if settings == nil {
		return nil, errors.New("billing service: nil settings provider")
	}
	if logger == nil {
		return nil, errors.New("billing service: nil logger")
	}
	return &Service{settings: settings, logger: logger}, nil
}

// ProcessCSV runs the pipeline on a CSV export.
func (s *Service) ProcessCSV(ctx context.Context, r io.Reader, rateOverride *float64) (*Result, error) {
	events, err := report.ParseCSV(r)
	if err != nil {
		metrics.ObserveReport(metrics.ResultError, 0)
		return nil, err
	}
	return s.process(ctx, events, rateOverride)
}

// ProcessXLSX runs the pipeline on an XLSX export.
func (s *Service) ProcessXLSX(ctx context.Context, r io.Reader, rateOverride *float64) (*Result, error) {
	events, err := report.ParseXLSX(r)
	if err != nil {
		metrics.ObserveReport(metrics.ResultError, 0)
		return nil, err
	}
	return s.process(ctx, events, rateOverride)
}

// Process runs the pipeline on already-normalized events.
func (s *Service) Process(ctx context.Context, events []billing.UsageEvent, rateOverride *float64) (*Result, error) {
	return s.process(ctx, events, rateOverride)
}

func (s *Service) process(ctx context.Context, events []billing.UsageEvent, rateOverride *float64) (*Result, error) {
	_ = ctx // the pipeline is pure and never blocks

	start := time.Now()
	settings := s.settings.BillingSettings()
	result := &Result{
		RunID: uuid.NewString(),
		Stats: report.CollectStats(events),
	}
	metrics.AddReportRows(len(events))

	gaps := billing.FindUnmappedScenarios(events, settings.Mapping)
	if len(gaps) > 0 {
		result.Gaps = gaps
		metrics.AddMappingGaps(len(gaps))
		metrics.ObserveReport(metrics.ResultMappingGaps, time.Since(start))
		s.logger.Printf("billing run %s refused: %d unmapped scenarios", result.RunID, len(gaps))
		return result, nil
	}

	override := rateOverride
	if override == nil {
		override = settings.RateOverride
	}
	aggregator, err := billing.NewAggregator(settings.Mapping, settings.Rules, override, settings.FallbackRate)
	if err != nil {
		metrics.ObserveReport(metrics.ResultError, time.Since(start))
		return nil, fmt.Errorf("billing run %s: %w", result.RunID, err)
	}

	summaries, err := aggregator.GenerateDailySummaries(events)
	if err != nil {
		metrics.ObserveReport(metrics.ResultError, time.Since(start))
		return nil, fmt.Errorf("billing run %s: %w", result.RunID, err)
	}
	result.Summaries = summaries

	var anomalies int
	for _, summary := range summaries {
		anomalies += summary.Anomalies
	}
	if anomalies > 0 {
		metrics.AddBillingAnomalies(anomalies)
		s.logger.Printf("billing run %s: %d events with negative billable minutes", result.RunID, anomalies)
	}

	metrics.ObserveReport(metrics.ResultSuccess, time.Since(start))
	s.logger.Printf("billing run %s: %d rows -> %d summaries", result.RunID, len(events), len(summaries))
	return result, nil
}
