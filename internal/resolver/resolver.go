// Package resolver maps free-text mentions to tracked tickers. It is
// deliberately conservative: a wrong resolution becomes a permanently stored
// report, so anything ambiguous is treated as no match.
package resolver

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/theguesswho/financial-news-platform/pkg/llm"
)

type Resolver struct {
	llm llm.Client

	// names holds the canonical company names presented to the model,
	// sorted for a stable prompt.
	names []string

	// nameToTicker is the case-folded reverse map. Built iterating tickers
	// in ascending order with first-writer-wins, so a company name shared by
	// two tickers deterministically resolves to the smallest ticker.
	nameToTicker map[string]string
}

func New(directory map[string]string, client llm.Client) *Resolver {
	tickers := make([]string, 0, len(directory))
	for ticker := range directory {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	names := make([]string, 0, len(tickers))
	nameToTicker := make(map[string]string, len(tickers))
	for _, ticker := range tickers {
		name := directory[ticker]
		names = append(names, name)
		folded := strings.ToLower(name)
		if _, taken := nameToTicker[folded]; !taken {
			nameToTicker[folded] = ticker
		}
	}
	sort.Strings(names)

	return &Resolver{
		llm:          client,
		names:        names,
		nameToTicker: nameToTicker,
	}
}

// Resolve returns the ticker the text is primarily about, or ok=false. Any
// model answer that is not exactly a directory name after case folding
// resolves to no match, including the "N/A" sentinel, partial matches, and
// hallucinated names. Model failures also resolve to no match; they are
// logged and never propagate.
func (r *Resolver) Resolve(ctx context.Context, text string) (ticker string, ok bool) {
	if text == "" {
		return "", false
	}

	answer, err := r.llm.Identify(ctx, text, r.names)
	if err != nil {
		slog.Error("entity identification failed", "error", err)
		return "", false
	}

	if answer == llm.NoMatch {
		return "", false
	}

	ticker, ok = r.nameToTicker[strings.ToLower(answer)]
	return ticker, ok
}
