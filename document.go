package painpoint

import "time"

// A DocOpt represents a setting applied while creating a Document.
//
// For example, it might attach engagement signals:
//
//	doc := painpoint.NewDocument("t3_abc", "title", "body", painpoint.WithEngagement(42, 7))
type DocOpt func(doc *Document)

// WithEngagement sets the upvote score and the comment count.
func WithEngagement(score, comments int) DocOpt {
	return func(doc *Document) {
		doc.Score = score
		doc.NumComments = comments
	}
}

// WithSource sets the community or category the document came from.
func WithSource(source string) DocOpt {
	return func(doc *Document) {
		doc.Source = source
	}
}

// WithCreatedAt sets the creation time reported by the source.
func WithCreatedAt(t time.Time) DocOpt {
	return func(doc *Document) {
		doc.CreatedAt = t
	}
}

// A Document is a single post. The input fields are set when the document is
// created; the analysis fields are filled in by Analyzer.AnalyzeBatch.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Source      string    `json:"source,omitempty"`
	Score       int       `json:"score"`
	NumComments int       `json:"num_comments"`
	CreatedAt   time.Time `json:"created_at,omitempty"`

	// Sentiment is nil until the document has been scored.
	Sentiment  *Sentiment `json:"sentiment,omitempty"`
	Topics     []string   `json:"topics,omitempty"`
	PainPoints []string   `json:"pain_points,omitempty"`
}

// Sentiment is the final (score, label) pair assigned to a document.
type Sentiment struct {
	Score float64 `json:"score"`
	Label Label   `json:"label"`
}

// NewDocument creates a Document according to the user-specified options.
func NewDocument(id, title, body string, opts ...DocOpt) *Document {
	doc := &Document{ID: id, Title: title, Body: body}
	for _, applyOpt := range opts {
		applyOpt(doc)
	}
	return doc
}

// Text returns the title and body joined by a single space, which is the
// unit every scorer works on.
func (doc *Document) Text() string {
	return doc.Title + " " + doc.Body
}

// SentimentScore returns the assigned score, or 0 for an unscored document.
func (doc *Document) SentimentScore() float64 {
	if doc.Sentiment == nil {
		return 0
	}
	return doc.Sentiment.Score
}

// SentimentLabel returns the assigned label, or Neutral for an unscored
// document.
func (doc *Document) SentimentLabel() Label {
	if doc.Sentiment == nil {
		return Neutral
	}
	return doc.Sentiment.Label
}
