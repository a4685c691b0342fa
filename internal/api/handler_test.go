package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	painpoint "github.com/Lucas-Song-Dev/RedditPainpoint"
	"github.com/Lucas-Song-Dev/RedditPainpoint/internal/store"
)

const testToken = "test-token-12345"

const testPosts = `[
	{"id":"p1","title":"Editor crashes constantly","body":"It is broken and I lost data twice","subreddit":"cursor"},
	{"id":"p2","title":"Love the new release","body":"Great editor, works well and feels fast","subreddit":"cursor"}
]`

func setupHandler(t *testing.T, token string, withStore bool) (http.Handler, *store.Store, *painpoint.Classifier) {
	t.Helper()
	var st *store.Store
	if withStore {
		var err error
		st, err = store.Open(":memory:", nil)
		if err != nil {
			t.Fatalf("Open(:memory:) failed: %v", err)
		}
		t.Cleanup(func() { st.Close() })
	}

	clf := painpoint.NewClassifier(painpoint.DefaultClassifierConfig())
	handler := NewHandler(AppDeps{
		Analyzer:   painpoint.NewAnalyzer(painpoint.WithClassifier(clf)),
		Classifier: clf,
		Store:      st,
		Token:      token,
	})
	return handler, st, clf
}

func authReq(method, url, body, token string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) (message, errType string) {
	t.Helper()
	var body struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body.Error.Message, body.Error.Type
}

func TestHealthSkipsAuth(t *testing.T) {
	h, _, _ := setupHandler(t, testToken, false)

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestBearerAuth(t *testing.T) {
	h, _, _ := setupHandler(t, testToken, false)

	tests := []struct {
		token string
		code  int
		desc  string
	}{
		{"", http.StatusUnauthorized, "Missing token"},
		{"wrong", http.StatusUnauthorized, "Wrong token"},
		{testToken, http.StatusOK, "Valid token"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			rr := serve(h, authReq(http.MethodGet, "/stats", "", tt.token))
			if rr.Code != tt.code {
				t.Fatalf("status = %d, want %d; body = %s", rr.Code, tt.code, rr.Body.String())
			}
			if tt.code == http.StatusUnauthorized {
				if _, typ := decodeError(t, rr); typ != "authentication_error" {
					t.Errorf("error type = %q", typ)
				}
			}
		})
	}
}

func TestNoTokenDisablesAuth(t *testing.T) {
	h, _, _ := setupHandler(t, "", false)
	if rr := serve(h, authReq(http.MethodGet, "/stats", "", "")); rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAnalyzePersists(t *testing.T) {
	h, st, _ := setupHandler(t, testToken, true)

	rr := serve(h, authReq(http.MethodPost, "/analyze", testPosts, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body = %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	var result painpoint.BatchResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.PostsAnalyzed != 2 || result.RunID == "" {
		t.Errorf("result = %+v", result)
	}

	docs, err := st.ListDocuments(t.Context(), store.DocumentFilter{Source: "cursor"})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 || docs[0].Sentiment == nil {
		t.Errorf("stored documents = %+v", docs)
	}

	rr = serve(h, authReq(http.MethodGet, "/runs/latest", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("runs/latest status = %d", rr.Code)
	}
	var latest painpoint.BatchResult
	if err := json.NewDecoder(rr.Body).Decode(&latest); err != nil {
		t.Fatal(err)
	}
	if latest.RunID != result.RunID {
		t.Errorf("latest run = %q, want %q", latest.RunID, result.RunID)
	}
}

func TestAnalyzeWithoutStore(t *testing.T) {
	h, _, _ := setupHandler(t, "", false)

	rr := serve(h, authReq(http.MethodPost, "/analyze", testPosts, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}

	rr = serve(h, authReq(http.MethodGet, "/stats", "", ""))
	var stats painpoint.Statistics
	if err := json.NewDecoder(rr.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalPostsProcessed != 2 || stats.ModelTrained {
		t.Errorf("stats = %+v", stats)
	}

	for _, path := range []string{"/pain-points", "/pain-points/critical:crash", "/runs/latest"} {
		if rr := serve(h, authReq(http.MethodGet, path, "", "")); rr.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s status = %d, want %d", path, rr.Code, http.StatusServiceUnavailable)
		}
	}
}

func TestAnalyzeBadBody(t *testing.T) {
	h, _, _ := setupHandler(t, "", false)

	rr := serve(h, authReq(http.MethodPost, "/analyze", `[{"id":`, ""))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if _, typ := decodeError(t, rr); typ != "invalid_request_error" {
		t.Errorf("error type = %q", typ)
	}
}

func TestPainPointQueries(t *testing.T) {
	h, _, _ := setupHandler(t, "", true)
	if rr := serve(h, authReq(http.MethodPost, "/analyze", testPosts, "")); rr.Code != http.StatusOK {
		t.Fatalf("analyze status = %d", rr.Code)
	}

	tests := []struct {
		path string
		code int
		desc string
	}{
		{"/pain-points", http.StatusOK, "List all"},
		{"/pain-points?category=critical&limit=5", http.StatusOK, "By category"},
		{"/pain-points?category=urgent", http.StatusBadRequest, "Unknown category"},
		{"/pain-points?min_severity=abc", http.StatusBadRequest, "Bad severity"},
		{"/pain-points?min_severity=-1", http.StatusBadRequest, "Negative severity"},
		{"/pain-points/critical:crash", http.StatusOK, "Get by key"},
		{"/pain-points/low:wish", http.StatusNotFound, "Missing key"},
		{"/pain-points/bogus", http.StatusBadRequest, "Malformed key"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			rr := serve(h, authReq(http.MethodGet, tt.path, "", ""))
			if rr.Code != tt.code {
				t.Errorf("GET %s status = %d, want %d; body = %s", tt.path, rr.Code, tt.code, rr.Body.String())
			}
		})
	}

	rr := serve(h, authReq(http.MethodGet, "/pain-points?category=critical", "", ""))
	var records []painpoint.PainPointRecord
	if err := json.NewDecoder(rr.Body).Decode(&records); err != nil {
		t.Fatal(err)
	}
	if len(records) == 0 {
		t.Fatal("expected critical pain points")
	}
	for _, rec := range records {
		if rec.Category != painpoint.Critical {
			t.Errorf("record %s has category %s", rec.Key, rec.Category)
		}
	}
}

// trainingBody builds n positive and n negative JSON Lines samples.
func trainingBody(n int, extra string) string {
	positive := []string{"great", "love", "excellent", "amazing", "helpful"}
	negative := []string{"terrible", "hate", "awful", "horrible", "useless"}
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `{"text":"this editor is %s and %s","label":"positive"}`+"\n", positive[i%5], positive[(i/5)%5])
		fmt.Fprintf(&b, `{"text":"this editor is %s and %s","label":"negative"}`+"\n", negative[i%5], negative[(i/5)%5])
	}
	return b.String() + extra
}

func TestTrain(t *testing.T) {
	h, st, clf := setupHandler(t, "", true)

	rr := serve(h, authReq(http.MethodPost, "/train", trainingBody(60, ""), ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	var metrics painpoint.TrainingMetrics
	if err := json.NewDecoder(rr.Body).Decode(&metrics); err != nil {
		t.Fatal(err)
	}
	if metrics.TrainSamples+metrics.TestSamples != 120 {
		t.Errorf("metrics = %+v", metrics)
	}
	if !clf.Trained() {
		t.Errorf("classifier is not trained after /train")
	}

	artifact, err := st.LoadArtifact(t.Context(), DefaultModelName)
	if err != nil {
		t.Fatalf("LoadArtifact: %v", err)
	}
	restored := painpoint.NewClassifier(painpoint.DefaultClassifierConfig())
	if err := restored.UnmarshalBinary(artifact.Blob); err != nil {
		t.Errorf("stored artifact does not load: %v", err)
	}

	rr = serve(h, authReq(http.MethodGet, "/stats", "", ""))
	var stats painpoint.Statistics
	if err := json.NewDecoder(rr.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if !stats.ModelTrained || stats.AccuracyMetrics == nil {
		t.Errorf("stats after training = %+v", stats)
	}
}

func TestTrainErrors(t *testing.T) {
	tests := []struct {
		body    string
		code    int
		errType string
		desc    string
	}{
		{trainingBody(10, ""), http.StatusUnprocessableEntity, "insufficient_data", "Too few samples"},
		{trainingBody(50, `{"text":"meh","label":"angry"}`), http.StatusBadRequest, "invalid_request_error", "Invalid label"},
		{`{"text":`, http.StatusBadRequest, "invalid_request_error", "Malformed body"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			h, _, clf := setupHandler(t, "", false)
			rr := serve(h, authReq(http.MethodPost, "/train", tt.body, ""))
			if rr.Code != tt.code {
				t.Fatalf("status = %d, want %d; body = %s", rr.Code, tt.code, rr.Body.String())
			}
			if _, typ := decodeError(t, rr); typ != tt.errType {
				t.Errorf("error type = %q, want %q", typ, tt.errType)
			}
			if clf.Trained() {
				t.Errorf("classifier trained despite the error")
			}
		})
	}
}

func TestTrainWithoutClassifier(t *testing.T) {
	h := NewHandler(AppDeps{Analyzer: painpoint.NewAnalyzer()})
	rr := serve(h, authReq(http.MethodPost, "/train", trainingBody(60, ""), ""))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
