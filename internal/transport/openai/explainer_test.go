package openai

import (
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/listcheck/internal/domain/decision"
	domsub "github.com/kailas-cloud/listcheck/internal/domain/submission"
	domval "github.com/kailas-cloud/listcheck/internal/domain/validation"
)

func makeSubmission() domsub.Submission {
	result := domval.NewResult(
		decision.NewField(decision.Warning, "Category differs from the common head-office category.").
			WithPrediction("Beers", 0.82),
		decision.NewField(decision.Pass, "Price is within the typical band.").
			WithBand(decision.NewBand(5.00, 3.75, 6.25)),
		decision.NewField(decision.HardStop, "Age verification must be set to 'Yes'."),
		decision.RequiresCorrection,
		nil,
	)
	return domsub.New(
		7,
		domval.NewInput("Premium Lager 4x440ml", "Soft Drinks", 4.80, "No"),
		result,
		"", nil, true,
		time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	)
}

func TestBuildPrompt_RendersDecisionsVerbatim(t *testing.T) {
	prompt := buildPrompt(makeSubmission())

	// The prompt must restate the engine's output, not re-derive it.
	for _, want := range []string{
		"Product name: Premium Lager 4x440ml",
		"Store category: Soft Drinks",
		"Store price: £4.80",
		"Store age verification: No",
		"Overall decision: requires_correction",
		"Decision: warning",
		"Decision: pass",
		"Decision: hard_stop",
		"Typical head-office value: Beers",
		"Confidence: 82%",
		"Typical median price: £5.00",
		"Band: £3.75 to £6.25",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_InstructsExplainOnly(t *testing.T) {
	prompt := buildPrompt(makeSubmission())

	for _, want := range []string{
		"ALREADY decided everything",
		"### For the store",
		"### For head office",
		"Use UK English",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestNewExplainer_Defaults(t *testing.T) {
	e := NewExplainer(&Config{APIKey: "test", Model: "gpt-4.1-nano"})
	if e.model != "gpt-4.1-nano" {
		t.Errorf("model = %q", e.model)
	}
	if e.client == nil {
		t.Error("expected a client")
	}
}
