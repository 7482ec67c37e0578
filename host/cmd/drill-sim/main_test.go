package main

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"soildrill/config"
	"soildrill/drill"
)

func TestRunScenarios(t *testing.T) {
	tests := []struct {
		scenario string
		cycles   int
		want     []drill.Outcome
	}{
		{"nominal", 3, []drill.Outcome{drill.OutcomeComplete, drill.OutcomeComplete, drill.OutcomeComplete}},
		{"sensor-timeout", 2, []drill.Outcome{drill.OutcomeError, drill.OutcomeComplete}},
		{"retraction-stall", 1, []drill.Outcome{drill.OutcomeError}},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			opts := Options{Scenario: tt.scenario, Cycles: tt.cycles}
			reports, err := run(context.Background(), config.Default(), opts, zerolog.Nop())
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if len(reports) != len(tt.want) {
				t.Fatalf("Expected %d reports, got %d", len(tt.want), len(reports))
			}
			for i, r := range reports {
				if r.Outcome != tt.want[i] {
					t.Errorf("Cycle %d: expected %s, got %s", i+1, tt.want[i], r.Outcome)
				}
				if r.Cycle != uint32(i+1) {
					t.Errorf("Expected cycle number %d, got %d", i+1, r.Cycle)
				}
			}
		})
	}
}

func TestRunUnknownScenario(t *testing.T) {
	_, err := run(context.Background(), config.Default(), Options{Scenario: "nope", Cycles: 1}, zerolog.Nop())
	if !errors.Is(err, config.ErrUnknownScenario) {
		t.Errorf("Expected ErrUnknownScenario, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := run(ctx, config.Default(), Options{Scenario: "nominal", Cycles: 2}, zerolog.Nop())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("Expected no reports, got %d", len(reports))
	}
}
