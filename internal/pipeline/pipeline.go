// Package pipeline implements the natural-language query pipeline: a user
// question is translated to SQL by a completion model, executed read-only
// against the match database, and the reduced result rows are turned back
// into prose by a second completion call.
//
// Each Ask invocation is stateless and strictly sequential; invocations
// never share state, so the pipeline can serve any number of concurrent
// requests.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/premstats/premstats/internal/llm"
	"github.com/premstats/premstats/internal/metrics"
)

// SynthesisFailedMessage is returned with the reduced rows when the second
// completion call fails: the data is still useful without the summary.
const SynthesisFailedMessage = "I found the data you asked for but couldn't put together a summary just now. Here are the raw results."

// Config carries the injectable collaborators for a Pipeline.
type Config struct {
	Completer llm.Completer
	Store     RowQuerier
	Logger    *logrus.Logger
	Metrics   *metrics.Metrics

	// Now supplies the current date for the generation prompt. Defaults to
	// time.Now; tests substitute a fixed clock.
	Now func() time.Time
}

// Pipeline answers free-text questions about the match database.
type Pipeline struct {
	llm     llm.Completer
	store   RowQuerier
	logger  *logrus.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New builds a Pipeline from config.
func New(cfg Config) *Pipeline {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Pipeline{
		llm:     cfg.Completer,
		store:   cfg.Store,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		now:     cfg.Now,
	}
}

// Answer is the terminal success result of one pipeline invocation.
type Answer struct {
	// Message is the synthesized prose, or a fixed note when synthesis was
	// skipped or degraded.
	Message string `json:"message"`
	// Data carries the full raw rows on a synthesized answer, or the reduced
	// rows when synthesis was skipped or degraded.
	Data []Row `json:"data"`
	// ShortCircuit reports that synthesis was skipped because the reduced
	// payload was too large.
	ShortCircuit bool `json:"-"`
}

// Ask runs the four pipeline stages for one question. It returns
// ErrUnanswerable when the model judged the question out of scope, a
// *StageError when an external dependency failed, and an Answer otherwise.
// A synthesis failure is degraded into a successful Answer carrying the
// reduced rows and a fixed note.
func (p *Pipeline) Ask(ctx context.Context, question string) (*Answer, error) {
	start := time.Now()
	sqlText, err := p.generateSQL(ctx, question)
	p.metrics.ObserveStage(string(StageGeneration), time.Since(start))
	if err != nil {
		p.metrics.CountOutcome(outcomeFor(err))
		return nil, err
	}

	start = time.Now()
	rs, err := p.execute(ctx, sqlText)
	p.metrics.ObserveStage(string(StageExecution), time.Since(start))
	if err != nil {
		p.metrics.CountOutcome(metrics.OutcomeExecutionFailure)
		return nil, err
	}

	reduced := Reduce(rs)

	start = time.Now()
	message, shortCircuit, err := p.synthesize(ctx, question, reduced)
	p.metrics.ObserveStage(string(StageSynthesis), time.Since(start))
	if err != nil {
		p.logger.WithError(err).Warn("answer synthesis failed, returning reduced rows")
		p.metrics.CountOutcome(metrics.OutcomeSynthesisDegraded)
		return &Answer{Message: SynthesisFailedMessage, Data: reduced}, nil
	}

	if shortCircuit {
		p.metrics.CountOutcome(metrics.OutcomeShortCircuit)
		return &Answer{Message: message, Data: reduced, ShortCircuit: true}, nil
	}

	p.metrics.CountOutcome(metrics.OutcomeAnswered)
	return &Answer{Message: message, Data: rs.Rows}, nil
}

func outcomeFor(err error) string {
	if errors.Is(err, ErrUnanswerable) {
		return metrics.OutcomeUnanswerable
	}
	return metrics.OutcomeGenerationFailure
}
