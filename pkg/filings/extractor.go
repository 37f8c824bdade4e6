package filings

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	secBaseURL = "https://www.sec.gov"

	// pressReleaseExhibit is the exhibit type that carries the company's own
	// announcement text inside a filing.
	pressReleaseExhibit = "EX-99.1"
)

// ErrNoExhibit is returned when a filing index page has no press-release
// exhibit. Callers store the sentinel text and move on.
var ErrNoExhibit = fmt.Errorf("no %s exhibit found", pressReleaseExhibit)

// Extractor pulls the press-release text out of an SEC filing. It first
// parses the filing index page to locate the exhibit document, then fetches
// and flattens that document to plain text.
type Extractor struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

type ExtractorOption func(*Extractor)

func WithHTTPClient(httpClient *http.Client) ExtractorOption {
	return func(e *Extractor) {
		e.httpClient = httpClient
	}
}

func WithBaseURL(baseURL string) ExtractorOption {
	return func(e *Extractor) {
		e.baseURL = baseURL
	}
}

func NewExtractor(userAgent string, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    secBaseURL,
		userAgent:  userAgent,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// PressRelease fetches a filing index page and returns the text of its
// press-release exhibit.
func (e *Extractor) PressRelease(ctx context.Context, filingURL string) (string, error) {
	doc, err := e.fetch(ctx, filingURL)
	if err != nil {
		return "", fmt.Errorf("fetch filing index: %w", err)
	}

	exhibitURL := e.findExhibitURL(doc)
	if exhibitURL == "" {
		return "", ErrNoExhibit
	}

	exhibit, err := e.fetch(ctx, exhibitURL)
	if err != nil {
		return "", fmt.Errorf("fetch exhibit: %w", err)
	}

	text := flatten(exhibit)
	if text == "" {
		return "", ErrNoExhibit
	}
	return text, nil
}

// findExhibitURL scans the "Document Format Files" table for the row whose
// Type column names the press-release exhibit and returns its document link.
func (e *Extractor) findExhibitURL(doc *goquery.Document) string {
	var exhibitURL string

	doc.Find(`table[summary="Document Format Files"] tr`).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		isExhibitRow := false
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			if strings.TrimSpace(cell.Text()) == pressReleaseExhibit {
				isExhibitRow = true
			}
		})
		if !isExhibitRow {
			return true
		}

		href, ok := row.Find("a").First().Attr("href")
		if !ok {
			return true
		}
		if strings.HasPrefix(href, "/") {
			href = e.baseURL + href
		}
		exhibitURL = href
		return false
	})

	return exhibitURL
}

func (e *Extractor) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// flatten renders a document body as newline-separated plain text.
func flatten(doc *goquery.Document) string {
	var lines []string
	doc.Find("body").Each(func(_ int, body *goquery.Selection) {
		for _, line := range strings.Split(body.Text(), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
	})
	return strings.Join(lines, "\n")
}
