package llm

import (
	"context"
	"fmt"
	"strings"
)

// NoMatch is the sentinel the identification prompt demands when no listed
// company is the primary subject of the text.
const NoMatch = "N/A"

const identifySystemPrompt = `You are an expert financial entity recognition service. Your sole task is to determine if a news headline is directly and primarily about one of the specific companies from the provided list.

Is the headline PRIMARILY about one of those companies?
- If yes, respond with ONLY the official company name from the list that is the main subject.
- If the headline mentions a company but only in a minor context (e.g., "analyst at JP Morgan says..."), or if it's about general market trends, or if no company from the list is mentioned, respond with "N/A".
Respond with the company name or "N/A" and nothing else.`

const synthesizeSystemPrompt = `You are a neutral financial analyst for an objective newswire. Your task is to write a 2-5 sentence news snippet synthesizing the provided data points.
Do not invent information or speculate on future stock prices.
If the data points are contradictory (e.g., good news but stock is down), highlight the contradiction.
If they are aligned (e.g., bad news and stock is down), suggest the correlation.
If the market context states that no data is available, state only what the primary source says.
Generate the news snippet based only on the data provided.`

// Client is the narrow surface the pipeline needs from a text model. Both
// calls are stateless textual transforms; everything downstream is tested
// against stubs of this interface.
type Client interface {
	// Identify returns the one company name from companies that the text is
	// primarily about, or NoMatch. The caller validates the answer against
	// its own directory; this method performs no lookup.
	Identify(ctx context.Context, text string, companies []string) (string, error)

	// Synthesize combines a primary fact with market context into a short
	// analyst-style snippet.
	Synthesize(ctx context.Context, primaryText, marketContext string) (string, error)
}

func identifyUserPrompt(text string, companies []string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following headline:\n")
	fmt.Fprintf(&sb, "%q\n\n", text)
	sb.WriteString("Now, consider this specific list of companies:\n")
	sb.WriteString(strings.Join(companies, ", "))
	return sb.String()
}

func synthesizeUserPrompt(primaryText, marketContext string) string {
	var sb strings.Builder
	sb.WriteString("DATA POINTS:\n")
	fmt.Fprintf(&sb, "- Primary Source (from company press release): %q\n", primaryText)
	fmt.Fprintf(&sb, "- Market Context: %q\n", marketContext)
	return sb.String()
}

// normalizeAnswer strips the decoration models add around a bare answer:
// whitespace, quoting, and a trailing period.
func normalizeAnswer(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}
