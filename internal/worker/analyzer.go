// Package worker runs the per-delivery analysis pipeline: decode and
// validate the envelope, assemble context, synthesize, persist. The queue
// delivers at least once, so every step here must tolerate replays; the
// report store's unique key is what makes the whole path effectively
// exactly-once.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/theguesswho/financial-news-platform/internal/model"
	"github.com/theguesswho/financial-news-platform/pkg/llm"
)

// SynthesisUnavailable is persisted as the thesis when the model call fails.
// The pipeline always makes forward progress; it never blocks on its least
// reliable dependency.
const SynthesisUnavailable = "Analysis unavailable: the synthesis service could not process this event."

// maxPrimaryTextLen bounds filing text handed to the model.
const maxPrimaryTextLen = 4000

// Outcome is the terminal state of one delivery attempt.
type Outcome string

const (
	// OutcomePersisted means a new report was stored.
	OutcomePersisted Outcome = "persisted"
	// OutcomeDuplicate means a report for this URL already existed; the
	// delivery was a replay and completed successfully with no side effect.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeDropped means the message was malformed or suppressed; it must
	// not be redelivered.
	OutcomeDropped Outcome = "dropped"
	// OutcomeFailed means a recoverable error; the caller should requeue.
	OutcomeFailed Outcome = "failed"
	// OutcomeExhausted means the event failed too many times; the caller
	// should dead-letter it instead of requeueing.
	OutcomeExhausted Outcome = "exhausted"
)

type ContextAssembler interface {
	Assemble(ticker, primaryText string) (model.ContextSnapshot, error)
}

type ReportStore interface {
	CreateIfAbsent(report *model.Report) (bool, error)
}

type AttemptStore interface {
	GetFilingByURL(filingURL string) (*model.Filing, error)
	SaveError(sourceURL string, errMsg string, errType string) error
	GetErrorCount(sourceURL string) (int, error)
}

type Analyzer struct {
	assembler  ContextAssembler
	llm        llm.Client
	reports    ReportStore
	attempts   AttemptStore
	maxRetries int
}

func NewAnalyzer(assembler ContextAssembler, client llm.Client, reports ReportStore, attempts AttemptStore) *Analyzer {
	return &Analyzer{
		assembler:  assembler,
		llm:        client,
		reports:    reports,
		attempts:   attempts,
		maxRetries: 3,
	}
}

// Process handles one raw queue message through to a terminal outcome.
// OutcomeFailed is the only outcome the caller should retry.
func (a *Analyzer) Process(ctx context.Context, raw string) (Outcome, error) {
	var env model.Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return OutcomeDropped, fmt.Errorf("malformed message: %w", err)
	}
	if err := env.Validate(); err != nil {
		return OutcomeDropped, err
	}

	count, err := a.attempts.GetErrorCount(env.URL)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("read error count: %w", err)
	}
	if count >= a.maxRetries {
		return OutcomeExhausted, fmt.Errorf("event exceeded %d attempts", a.maxRetries)
	}

	primaryText, err := a.primaryText(env)
	if err != nil {
		a.recordError(env.URL, err, "fact_error")
		return OutcomeFailed, err
	}

	snapshot, err := a.assembler.Assemble(env.Ticker, primaryText)
	if err != nil {
		a.recordError(env.URL, err, "context_error")
		return OutcomeFailed, err
	}

	thesis := a.synthesize(ctx, primaryText, snapshot)

	report := &model.Report{
		SourceURL: env.URL,
		Ticker:    env.Ticker,
		Thesis:    thesis,
		Context:   snapshot,
	}
	created, err := a.reports.CreateIfAbsent(report)
	if err != nil {
		a.recordError(env.URL, err, "store_error")
		return OutcomeFailed, err
	}

	if !created {
		return OutcomeDuplicate, nil
	}
	return OutcomePersisted, nil
}

// primaryText picks the text the model analyzes. Filing events read the
// extracted press release back from the fact store; everything else comes
// straight off the envelope.
func (a *Analyzer) primaryText(env model.Envelope) (string, error) {
	if env.EventType != model.EventSECFiling {
		return env.PrimaryText(), nil
	}

	filing, err := a.attempts.GetFilingByURL(env.URL)
	if err != nil {
		return "", fmt.Errorf("read filing: %w", err)
	}
	if filing == nil || filing.PrimaryText == "" || filing.PrimaryText == model.FilingTextUnavailable {
		return env.PrimaryText(), nil
	}

	text := filing.PrimaryText
	if len(text) > maxPrimaryTextLen {
		text = text[:maxPrimaryTextLen]
	}
	return text, nil
}

// synthesize never fails past this boundary: model errors and empty answers
// degrade to the sentinel thesis, which is still persisted.
func (a *Analyzer) synthesize(ctx context.Context, primaryText string, snapshot model.ContextSnapshot) string {
	thesis, err := a.llm.Synthesize(ctx, primaryText, marketContext(snapshot))
	if err != nil {
		slog.Error("synthesis failed, storing sentinel", "ticker", snapshot.Ticker, "error", err)
		return SynthesisUnavailable
	}
	if thesis == "" {
		slog.Warn("synthesis returned empty text, storing sentinel", "ticker", snapshot.Ticker)
		return SynthesisUnavailable
	}
	return thesis
}

// marketContext renders the snapshot as the context block of the synthesis
// prompt.
func marketContext(snapshot model.ContextSnapshot) string {
	context := snapshot.ValuationContext
	if snapshot.AnalystConsensus != "" {
		context += " " + snapshot.AnalystConsensus
	}

	if len(snapshot.FinancialSnapshot.Revenue) > 0 ||
		len(snapshot.FinancialSnapshot.TotalDebt) > 0 ||
		len(snapshot.FinancialSnapshot.FreeCashFlow) > 0 {
		trends, err := json.Marshal(snapshot.FinancialSnapshot)
		if err == nil {
			context += " Financial snapshot (last 8 quarters): " + string(trends)
		}
	}

	return context
}

func (a *Analyzer) recordError(sourceURL string, cause error, errType string) {
	if err := a.attempts.SaveError(sourceURL, cause.Error(), errType); err != nil {
		slog.Error("recording processing error failed", "source_url", sourceURL, "error", err)
	}
}
