// Package ingest reads posts and labeled training samples from JSON input.
//
// Both readers accept either a single JSON array or a stream of JSON values
// (JSON Lines), detected from the first non-space byte.
package ingest

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	painpoint "github.com/Lucas-Song-Dev/RedditPainpoint"
)

// Post is the wire shape of a single Reddit post. The body may arrive as
// body, content or selftext; the first non-empty one wins.
type Post struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	Content     string          `json:"content"`
	Selftext    string          `json:"selftext"`
	Subreddit   string          `json:"subreddit"`
	Score       int             `json:"score"`
	NumComments int             `json:"num_comments"`
	CreatedUTC  json.RawMessage `json:"created_utc"`
}

// Document converts p into an unscored document. Posts without an id get a
// random one.
func (p Post) Document() (*painpoint.Document, error) {
	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	body := p.Body
	if body == "" {
		body = p.Content
	}
	if body == "" {
		body = p.Selftext
	}
	created, err := parseCreated(p.CreatedUTC)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", id, err)
	}
	return painpoint.NewDocument(id, p.Title, body,
		painpoint.WithSource(p.Subreddit),
		painpoint.WithEngagement(p.Score, p.NumComments),
		painpoint.WithCreatedAt(created)), nil
}

// parseCreated accepts unix seconds (integer or fractional, bare or quoted)
// or an RFC 3339 timestamp. Absent and null values yield the zero time.
func parseCreated(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}
	var secs float64
	if err := json.Unmarshal(raw, &secs); err == nil {
		return unixSeconds(secs), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("invalid created_utc %s", raw)
	}
	if s == "" {
		return time.Time{}, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return unixSeconds(f), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created_utc %q: %w", s, err)
	}
	return t.UTC(), nil
}

func unixSeconds(secs float64) time.Time {
	whole := int64(secs)
	nanos := int64((secs - float64(whole)) * float64(time.Second))
	return time.Unix(whole, nanos).UTC()
}

// ReadDocuments decodes posts from r and converts them to documents in input
// order.
func ReadDocuments(r io.Reader) ([]*painpoint.Document, error) {
	posts, err := decodeAll[Post](r)
	if err != nil {
		return nil, err
	}
	docs := make([]*painpoint.Document, 0, len(posts))
	for _, p := range posts {
		doc, err := p.Document()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ReadDocumentsFile reads documents from the file at path.
func ReadDocumentsFile(path string) ([]*painpoint.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()
	return ReadDocuments(f)
}

// ReadSamples decodes labeled samples ({"text": ..., "label": ...}) from r.
// Labels are validated by the classifier, not here.
func ReadSamples(r io.Reader) ([]painpoint.Sample, error) {
	return decodeAll[painpoint.Sample](r)
}

// ReadSamplesFile reads labeled samples from the file at path.
func ReadSamplesFile(path string) ([]painpoint.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()
	return ReadSamples(f)
}

// decodeAll reads either one JSON array of T or a stream of T values.
func decodeAll[T any](r io.Reader) ([]T, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var items []T
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("decoding array: %w", err)
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	}

	items := []T{}
	for line := 1; ; line++ {
		var item T
		err := dec.Decode(&item)
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decoding record %d: %w", line, err)
		}
		items = append(items, item)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
