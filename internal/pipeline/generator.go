package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/premstats/premstats/internal/schema"
)

// invalidMarker is the literal token the model returns when no SQL can be
// produced. Matching is case-insensitive after fence stripping and trimming.
const invalidMarker = "invalid"

const generatorPromptFmt = `You are a Natural language to SQL bot for a database of Premier League Matches.
You must only output a single SQL query to answer the user's question.

Instructions:
- if the question cannot be answered given the database schema, return "invalid"
- if the question is invalid, return "invalid"
- only ever produce a single read-only SELECT statement, never modify data
- first season of the premier league in our database was %s
- ignore "division" in the schema
- the "prem" is short for the Premier League
- Use the full names of teams (Man United is Manchester United, etc.)
- recall that the current date in YYYY-MM-DD format is %s
- when asked for a season, you must query season_name with "%s" format
- full_time_result is either "H" (home win), "A" (away win), or "D" (draw)
- half_time_result is either "H" (home win), "A" (away win), or "D" (draw)

%s`

// renderGeneratorPrompt builds the system prompt for SQL generation. The
// current date is injected so relative-date questions resolve correctly.
func renderGeneratorPrompt(now time.Time) string {
	return fmt.Sprintf(generatorPromptFmt,
		schema.EarliestSeason,
		now.Format("2006-01-02"),
		schema.SeasonNameFormat,
		schema.Descriptor(),
	)
}

// generateSQL turns the user question into SQL text, or reports
// ErrUnanswerable when the model returns the invalid marker.
func (p *Pipeline) generateSQL(ctx context.Context, question string) (string, error) {
	p.metrics.CountCompletionCall()
	raw, err := p.llm.Complete(ctx, renderGeneratorPrompt(p.now()), question)
	if err != nil {
		return "", stageError(StageGeneration, err)
	}

	sqlText := stripFences(raw)
	if strings.EqualFold(strings.TrimSpace(sqlText), invalidMarker) {
		return "", ErrUnanswerable
	}

	p.logger.WithField("sql", sqlText).Debug("generated SQL from question")
	return sqlText, nil
}

// stripFences removes markdown code-fence sequences from model output. The
// model is an untrusted text generator, so the reply may or may not wrap the
// statement in fences.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```sql", "")
	s = strings.ReplaceAll(s, "```", " ")
	return strings.TrimSpace(s)
}
