package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	painpoint "github.com/Lucas-Song-Dev/RedditPainpoint"
)

func TestReadDocumentsFormats(t *testing.T) {
	tests := []struct {
		input string
		ids   []string
		desc  string
	}{
		{`[{"id":"a"},{"id":"b"}]`, []string{"a", "b"}, "JSON array"},
		{"{\"id\":\"a\"}\n{\"id\":\"b\"}\n", []string{"a", "b"}, "JSON Lines"},
		{"\n\n  [ {\"id\":\"a\"} ]", []string{"a"}, "Leading whitespace"},
		{"", nil, "Empty input"},
		{"[]", nil, "Empty array"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			docs, err := ReadDocuments(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadDocuments: %v", err)
			}
			if docs == nil {
				t.Fatal("ReadDocuments returned nil, want an empty slice")
			}
			if len(docs) != len(tt.ids) {
				t.Fatalf("got %d documents, want %d", len(docs), len(tt.ids))
			}
			for i, id := range tt.ids {
				if docs[i].ID != id {
					t.Errorf("docs[%d].ID = %q, want %q", i, docs[i].ID, id)
				}
			}
		})
	}
}

func TestPostFields(t *testing.T) {
	input := `{"id":"p1","title":"Cursor keeps crashing","selftext":"every time I save","subreddit":"cursor","score":42,"num_comments":7,"created_utc":1700000000}`
	docs, err := ReadDocuments(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	doc := docs[0]
	if doc.Title != "Cursor keeps crashing" || doc.Body != "every time I save" {
		t.Errorf("title/body = %q/%q", doc.Title, doc.Body)
	}
	if doc.Source != "cursor" || doc.Score != 42 || doc.NumComments != 7 {
		t.Errorf("doc = %+v", doc)
	}
	if want := time.Unix(1700000000, 0).UTC(); !doc.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", doc.CreatedAt, want)
	}
	if doc.Sentiment != nil {
		t.Errorf("ingested document is already scored")
	}
}

func TestBodyPrecedence(t *testing.T) {
	tests := []struct {
		input string
		body  string
		desc  string
	}{
		{`{"body":"b","content":"c","selftext":"s"}`, "b", "Body wins"},
		{`{"content":"c","selftext":"s"}`, "c", "Content before selftext"},
		{`{"selftext":"s"}`, "s", "Selftext only"},
		{`{"title":"t"}`, "", "No body"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			docs, err := ReadDocuments(strings.NewReader(tt.input))
			if err != nil {
				t.Fatal(err)
			}
			if docs[0].Body != tt.body {
				t.Errorf("Body = %q, want %q", docs[0].Body, tt.body)
			}
		})
	}
}

func TestMissingIDsAreGenerated(t *testing.T) {
	docs, err := ReadDocuments(strings.NewReader(`[{"title":"a"},{"title":"b"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if docs[0].ID == "" || docs[1].ID == "" || docs[0].ID == docs[1].ID {
		t.Errorf("generated ids = %q, %q", docs[0].ID, docs[1].ID)
	}
}

func TestCreatedUTC(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
		desc string
	}{
		{`1700000000.5`, time.Unix(1700000000, 500_000_000).UTC(), "Fractional seconds"},
		{`"1700000000"`, time.Unix(1700000000, 0).UTC(), "Quoted seconds"},
		{`"2024-03-01T12:00:00Z"`, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), "RFC 3339"},
		{`null`, time.Time{}, "Null"},
		{`""`, time.Time{}, "Empty string"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			docs, err := ReadDocuments(strings.NewReader(`{"id":"x","created_utc":` + tt.raw + `}`))
			if err != nil {
				t.Fatal(err)
			}
			if !docs[0].CreatedAt.Equal(tt.want) {
				t.Errorf("CreatedAt = %v, want %v", docs[0].CreatedAt, tt.want)
			}
		})
	}
}

func TestReadDocumentsErrors(t *testing.T) {
	tests := []struct {
		input string
		desc  string
	}{
		{`[{"id":"a"}`, "Unterminated array"},
		{"{\"id\":\"a\"}\n{broken", "Bad second line"},
		{`{"id":"a","created_utc":"yesterday"}`, "Unparseable timestamp"},
		{`{"id":"a","created_utc":true}`, "Wrong timestamp type"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if _, err := ReadDocuments(strings.NewReader(tt.input)); err == nil {
				t.Errorf("Input: %q\nExpected an error", tt.input)
			}
		})
	}
}

func TestReadSamples(t *testing.T) {
	input := "{\"text\":\"love it\",\"label\":\"positive\"}\n{\"text\":\"hate it\",\"label\":\"negative\"}\n"
	samples, err := ReadSamples(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := []painpoint.Sample{
		{Text: "love it", Label: painpoint.Positive},
		{Text: "hate it", Label: painpoint.Negative},
	}
	if len(samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(samples), len(want))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("samples[%d] = %+v, want %+v", i, samples[i], want[i])
		}
	}
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	docsPath := filepath.Join(dir, "posts.json")
	samplesPath := filepath.Join(dir, "samples.jsonl")
	if err := os.WriteFile(docsPath, []byte(`[{"id":"a","title":"t"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(samplesPath, []byte(`{"text":"meh","label":"neutral"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	docs, err := ReadDocumentsFile(docsPath)
	if err != nil || len(docs) != 1 {
		t.Errorf("ReadDocumentsFile = %v, %v", docs, err)
	}
	samples, err := ReadSamplesFile(samplesPath)
	if err != nil || len(samples) != 1 || samples[0].Label != painpoint.Neutral {
		t.Errorf("ReadSamplesFile = %v, %v", samples, err)
	}

	if _, err := ReadDocumentsFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
}
