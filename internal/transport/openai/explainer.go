// Package openai generates plain-language explanations of validation
// results via an OpenAI-compatible chat completion API.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listcheck/internal/domain"
	"github.com/kailas-cloud/listcheck/internal/domain/decision"
	domsub "github.com/kailas-cloud/listcheck/internal/domain/submission"
	"github.com/kailas-cloud/listcheck/internal/metrics"
)

const systemPrompt = "You explain validation results clearly to supermarket staff."

// Explainer renders the engine's decisions into a two-audience markdown
// summary. It restates the decisions verbatim and never changes them: the
// prompt carries the finished result, and the output is stored alongside
// it, not instead of it.
type Explainer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the explanation provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewExplainer creates an OpenAI-compatible explanation provider.
func NewExplainer(cfg *Config) *Explainer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Explainer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Explain implements usecase/submission.Explainer.
func (e *Explainer) Explain(ctx context.Context, sub domsub.Submission) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(sub)},
		},
	}

	start := time.Now()

	resp, err := e.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.ExplainerRequestsTotal.WithLabelValues(e.model, "error").Inc()
		return "", fmt.Errorf("%w: %w", domain.ErrExplainerUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		metrics.ExplainerRequestsTotal.WithLabelValues(e.model, "error").Inc()
		return "", fmt.Errorf("%w: empty completion response", domain.ErrExplainerUnavailable)
	}

	metrics.ExplainerRequestsTotal.WithLabelValues(e.model, "success").Inc()
	metrics.ExplainerRequestDuration.WithLabelValues(e.model).Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}

// buildPrompt renders the submission and its validation snapshot. The model
// is told the rules engine has already decided everything.
func buildPrompt(sub domsub.Submission) string {
	product := sub.Product()
	result := sub.Result()

	var b strings.Builder
	b.WriteString("You are helping a supermarket chain explain product validation results.\n\n")
	b.WriteString("The rules engine has ALREADY decided everything. Your job is ONLY to explain\n")
	b.WriteString("those decisions in clear language. Do not invent new rules, and do not change\n")
	b.WriteString("the outcome.\n\n")

	b.WriteString("Submission:\n")
	fmt.Fprintf(&b, "- Product name: %s\n", product.Name())
	fmt.Fprintf(&b, "- Store category: %s\n", product.Category())
	fmt.Fprintf(&b, "- Store price: £%.2f\n", product.Price())
	fmt.Fprintf(&b, "- Store age verification: %s\n\n", product.AgeFlag())

	b.WriteString("Validation result (from rules engine):\n")
	fmt.Fprintf(&b, "- Overall decision: %s\n\n", result.Verdict())

	writeField(&b, "Category check", result.Category())
	writeField(&b, "Price check", result.Price())
	writeField(&b, "Age verification check", result.AgeVerification())

	b.WriteString("Write your answer **in markdown** with this exact structure:\n\n")
	b.WriteString("### For the store\n")
	b.WriteString("- 2-4 short bullet points explaining:\n")
	b.WriteString("  - whether the product can go through automatically, needs fixing, or will be reviewed;\n")
	b.WriteString("  - what (if anything) the store needs to change;\n")
	b.WriteString("  - keep it friendly and non-technical.\n\n")
	b.WriteString("### For head office\n")
	b.WriteString("- 2-4 short bullet points explaining:\n")
	b.WriteString("  - why the engine reached this decision;\n")
	b.WriteString("  - which parts were most important (category, price, age check);\n")
	b.WriteString("  - anything they should double-check if there are warnings.\n\n")
	b.WriteString("Use UK English. Be concise. Do not include any other headings or sections.")

	return b.String()
}

func writeField(b *strings.Builder, title string, f decision.Field) {
	fmt.Fprintf(b, "%s:\n", title)
	fmt.Fprintf(b, "- Decision: %s\n", f.Level())
	fmt.Fprintf(b, "- Message: %s\n", f.Message())
	if predicted, ok := f.Predicted(); ok {
		fmt.Fprintf(b, "- Typical head-office value: %s\n", predicted)
	}
	if confidence, ok := f.Confidence(); ok {
		fmt.Fprintf(b, "- Confidence: %.0f%%\n", confidence*100)
	}
	if band, ok := f.Band(); ok {
		fmt.Fprintf(b, "- Typical median price: £%.2f\n", band.Median())
		fmt.Fprintf(b, "- Band: £%.2f to £%.2f\n", band.Lower(), band.Upper())
	}
	b.WriteString("\n")
}
