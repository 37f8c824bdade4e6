package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
)

type fakeLLM struct {
	answer    string
	err       error
	companies []string
}

func (f *fakeLLM) Identify(ctx context.Context, text string, companies []string) (string, error) {
	f.companies = companies
	return f.answer, f.err
}

func (f *fakeLLM) Synthesize(ctx context.Context, primaryText, marketContext string) (string, error) {
	return "", errors.New("not used")
}

var directory = map[string]string{
	"ACME": "Acme Corp",
	"GLBX": "Globex Corporation",
}

func TestResolveExactName(t *testing.T) {
	r := New(directory, &fakeLLM{answer: "Acme Corp"})

	ticker, ok := r.Resolve(context.Background(), "Acme Corp beats earnings")

	assert.Equal(t, true, ok)
	assert.Equal(t, "ACME", ticker)
}

func TestResolveCaseFolded(t *testing.T) {
	r := New(directory, &fakeLLM{answer: "acme corp"})

	ticker, ok := r.Resolve(context.Background(), "acme corp rallies")

	assert.Equal(t, true, ok)
	assert.Equal(t, "ACME", ticker)
}

func TestResolveSentinel(t *testing.T) {
	r := New(directory, &fakeLLM{answer: "N/A"})

	_, ok := r.Resolve(context.Background(), "Markets close mixed")

	assert.Equal(t, false, ok)
}

func TestResolveHallucinatedName(t *testing.T) {
	r := New(directory, &fakeLLM{answer: "Initech"})

	_, ok := r.Resolve(context.Background(), "Initech announces layoffs")

	assert.Equal(t, false, ok)
}

func TestResolvePartialMatch(t *testing.T) {
	r := New(directory, &fakeLLM{answer: "Acme"})

	_, ok := r.Resolve(context.Background(), "Acme Corp beats earnings")

	assert.Equal(t, false, ok)
}

func TestResolveModelFailure(t *testing.T) {
	r := New(directory, &fakeLLM{err: errors.New("rate limited")})

	_, ok := r.Resolve(context.Background(), "Acme Corp beats earnings")

	assert.Equal(t, false, ok)
}

func TestResolveEmptyText(t *testing.T) {
	llm := &fakeLLM{answer: "Acme Corp"}
	r := New(directory, llm)

	_, ok := r.Resolve(context.Background(), "")

	assert.Equal(t, false, ok)
	assert.Equal(t, 0, len(llm.companies))
}

func TestResolveDuplicateNameTieBreak(t *testing.T) {
	dup := map[string]string{
		"ZZZZ": "Acme Corp",
		"ACME": "acme corp",
	}
	r := New(dup, &fakeLLM{answer: "Acme Corp"})

	ticker, ok := r.Resolve(context.Background(), "Acme Corp beats earnings")

	assert.Equal(t, true, ok)
	assert.Equal(t, "ACME", ticker)
}

func TestPromptReceivesSortedNames(t *testing.T) {
	llm := &fakeLLM{answer: "N/A"}
	r := New(directory, llm)

	r.Resolve(context.Background(), "some headline")

	assert.Equal(t, []string{"Acme Corp", "Globex Corporation"}, llm.companies)
}
