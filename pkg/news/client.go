package news

import "time"

// Article is one normalized headline from any source. Link is the natural
// key the fact store deduplicates on.
type Article struct {
	Headline    string
	Link        string
	Source      string
	PublishedAt time.Time
}

// NewsClient fetches recent headlines from one external provider. A failed
// fetch from one provider never aborts the others.
type NewsClient interface {
	Fetch(limit int) ([]Article, error)
	Name() string
}
