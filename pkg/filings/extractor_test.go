package filings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

const exhibitHTML = `<html><body>
<p>Acme Corp Reports Record Quarterly Revenue</p>
<p>Revenue grew 25% year over year.</p>
</body></html>`

func indexHTML(exhibitPath string) string {
	return fmt.Sprintf(`<html><body>
<table summary="Document Format Files">
  <tr><th>Seq</th><th>Description</th><th>Document</th><th>Type</th></tr>
  <tr><td>1</td><td>Form 8-K</td><td><a href="/form8k.htm">form8k.htm</a></td><td>8-K</td></tr>
  <tr><td>2</td><td>Press Release</td><td><a href="%s">ex991.htm</a></td><td>EX-99.1</td></tr>
</table>
</body></html>`, exhibitPath)
}

func TestPressRelease(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/filing-index.htm", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, indexHTML("/ex991.htm"))
	})
	mux.HandleFunc("/ex991.htm", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		fmt.Fprint(w, exhibitHTML)
	})

	e := NewExtractor("test-agent", WithBaseURL(srv.URL))

	text, err := e.PressRelease(context.Background(), srv.URL+"/filing-index.htm")

	assert.Equal(t, nil, err)
	if !strings.Contains(text, "Acme Corp Reports Record Quarterly Revenue") {
		t.Errorf("missing headline in extracted text: %q", text)
	}
	if !strings.Contains(text, "Revenue grew 25% year over year.") {
		t.Errorf("missing body in extracted text: %q", text)
	}
}

func TestPressReleaseNoExhibit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><table summary="Document Format Files">
<tr><td>1</td><td>Form 10-Q</td><td><a href="/form10q.htm">form10q.htm</a></td><td>10-Q</td></tr>
</table></body></html>`)
	}))
	defer srv.Close()

	e := NewExtractor("test-agent", WithBaseURL(srv.URL))

	_, err := e.PressRelease(context.Background(), srv.URL+"/filing-index.htm")

	assert.Equal(t, ErrNoExhibit, err)
}

func TestPressReleaseRelativeLink(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/filing-index.htm", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, indexHTML("/Archives/ex991.htm"))
	})
	mux.HandleFunc("/Archives/ex991.htm", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, exhibitHTML)
	})

	e := NewExtractor("test-agent", WithBaseURL(srv.URL))

	text, err := e.PressRelease(context.Background(), srv.URL+"/filing-index.htm")

	assert.Equal(t, nil, err)
	assert.NotEqual(t, "", text)
}
