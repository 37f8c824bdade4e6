package model

import (
	"errors"
	"fmt"
)

const (
	EventSignificantNews = "SIGNIFICANT_NEWS"
	EventSECFiling       = "SEC_FILING"
	EventScheduled       = "SCHEDULED"
)

// Envelope is the normalized analysis-request message carried on the queue.
// URL doubles as the report idempotency key downstream.
type Envelope struct {
	EventType string `json:"eventType"`
	Ticker    string `json:"ticker"`
	Headline  string `json:"headline,omitempty"`
	Form      string `json:"form,omitempty"`
	URL       string `json:"url"`
}

// Validate checks the envelope at the queue boundary. Malformed messages are
// rejected before any side effect, not trusted implicitly.
func (e Envelope) Validate() error {
	switch e.EventType {
	case EventSignificantNews, EventSECFiling, EventScheduled:
	default:
		return fmt.Errorf("unknown event type %q", e.EventType)
	}
	if e.Ticker == "" {
		return errors.New("envelope is missing ticker")
	}
	if e.URL == "" {
		return errors.New("envelope is missing url")
	}
	return nil
}

// PrimaryText is the text handed to synthesis for this event.
func (e Envelope) PrimaryText() string {
	switch e.EventType {
	case EventSECFiling:
		if e.Headline != "" {
			return e.Headline
		}
		form := e.Form
		if form == "" {
			form = "filing"
		}
		return fmt.Sprintf("A new %s was submitted, but the press release text could not be extracted.", form)
	case EventScheduled:
		return fmt.Sprintf("Scheduled review of recent trading activity for %s.", e.Ticker)
	default:
		if e.Headline == "" {
			return "News headline was not provided."
		}
		return e.Headline
	}
}
