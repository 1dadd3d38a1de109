package application

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	billing "illuminator-billing/internal/billing/domain"
)

type stubSettings struct {
	settings Settings
}

func (s stubSettings) BillingSettings() Settings { return s.settings }

func testService(t *testing.T, settings Settings) *Service {
	t.Helper()
	service, err := NewService(stubSettings{settings: settings}, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

const sampleCSV = `Illuminator Central Usage Report
Club,Facility,Lighting,Turn on,Turn off,Rated power (kW)
Riverside,Admiral Park,North 50 lux,05/03/2026 09:00:00,05/03/2026 10:00:00,1.2
Riverside,Admiral Park,North 100 lux,05/03/2026 09:30:00,05/03/2026 10:00:00,1.67
`

func fullSettings() Settings {
	rate := 0.263
	return Settings{
		Mapping: billing.AreaMapping{
			"Admiral Park - North 50 lux":  "Field 1",
			"Admiral Park - North 100 lux": "Field 1",
		},
		Rules: billing.RuleSet{
			"Admiral Park - North 100 lux": {Includes: []string{"Admiral Park - North 50 lux"}},
		},
		RateOverride: &rate,
		FallbackRate: 0.263,
	}
}

func TestProcessCSVProducesSummaries(t *testing.T) {
	service := testService(t, fullSettings())

	result, err := service.ProcessCSV(context.Background(), strings.NewReader(sampleCSV), nil)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.RunID == "" {
		t.Fatalf("expected a run id")
	}
	if len(result.Gaps) != 0 {
		t.Fatalf("unexpected gaps %v", result.Gaps)
	}
	if len(result.Summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(result.Summaries))
	}
	if result.Summaries[0].TotalCost != 0.38 {
		t.Fatalf("unexpected total cost %v", result.Summaries[0].TotalCost)
	}
	if result.Stats.Rows != 2 {
		t.Fatalf("unexpected stats %+v", result.Stats)
	}
}

func TestProcessRefusesOnMappingGaps(t *testing.T) {
	settings := fullSettings()
	delete(settings.Mapping, "Admiral Park - North 50 lux")
	service := testService(t, settings)

	result, err := service.ProcessCSV(context.Background(), strings.NewReader(sampleCSV), nil)
	if err != nil {
		t.Fatalf("gap refusal must not be an error: %v", err)
	}
	if len(result.Summaries) != 0 {
		t.Fatalf("no summaries may be produced while gaps exist")
	}
	if len(result.Gaps) != 1 || result.Gaps[0].Scenario != "Admiral Park - North 50 lux" {
		t.Fatalf("unexpected gaps %v", result.Gaps)
	}
}

func TestProcessCSVPropagatesParseErrors(t *testing.T) {
	service := testService(t, fullSettings())
	if _, err := service.ProcessCSV(context.Background(), strings.NewReader("title\nWrong,Header\n"), nil); err == nil {
		t.Fatalf("expected a schema error")
	}
}

func TestProcessRequestRateBeatsConfiguredOverride(t *testing.T) {
	service := testService(t, fullSettings())
	requestRate := 0.526 // double the configured rate

	result, err := service.ProcessCSV(context.Background(), strings.NewReader(sampleCSV), &requestRate)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	// 0.16 and 0.22 become 0.32 and 0.44 at the doubled rate.
	if result.Summaries[0].TotalCost != 0.76 {
		t.Fatalf("request rate must override config, got cost %v", result.Summaries[0].TotalCost)
	}
}

func TestNewServiceValidation(t *testing.T) {
	if _, err := NewService(nil, log.New(io.Discard, "", 0)); err == nil {
		t.Fatalf("expected error for nil settings provider")
	}
	if _, err := NewService(stubSettings{}, nil); err == nil {
		t.Fatalf("expected error for nil logger")
	}
}
