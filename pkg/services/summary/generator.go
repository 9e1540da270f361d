package summary

import (
	"context"
	"strings"

	"github.com/de-tools/timesheet-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Model results shorter than this are treated as a failed generation.
const minModelSummaryLen = 10

// ContentGenerator is the remote-model dependency of the Generator.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, apiKey, activities string) (string, error)
}

// Generator produces executive summaries. Remote failures never escape this
// boundary: every path degrades to the local heuristic, so callers always
// receive non-empty text.
type Generator struct {
	client ContentGenerator
}

func NewGenerator(client ContentGenerator) *Generator {
	return &Generator{client: client}
}

// Generate summarizes the flattened activities text. An empty apiKey skips
// the remote call entirely.
func (g *Generator) Generate(ctx context.Context, activities, apiKey string) domain.SummaryResult {
	logger := zerolog.Ctx(ctx)

	if strings.TrimSpace(activities) == "" {
		return domain.SummaryResult{Text: NoActivitiesText, Source: domain.SummarySourceLocal}
	}

	if apiKey == "" {
		logger.Debug().Msg("no summarizer credential, using local fallback")
		return domain.SummaryResult{Text: LocalSummary(activities), Source: domain.SummarySourceLocal}
	}

	text, err := g.client.GenerateContent(ctx, apiKey, activities)
	if err != nil {
		logger.Warn().Err(err).Msg("model summary failed, falling back to local summarizer")
		return domain.SummaryResult{Text: LocalSummary(activities), Source: domain.SummarySourceLocal}
	}

	text = strings.TrimSpace(text)
	if len(text) < minModelSummaryLen {
		logger.Warn().Int("len", len(text)).Msg("model summary too short, falling back to local summarizer")
		return domain.SummaryResult{Text: LocalSummary(activities), Source: domain.SummarySourceLocal}
	}

	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	return domain.SummaryResult{Text: text, Source: domain.SummarySourceModel}
}
