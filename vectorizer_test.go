package painpoint

import (
	"math"
	"reflect"
	"testing"
)

func TestAnalyzeTerms(t *testing.T) {
	got := analyzeTerms("Battery drain, battery!", 2)
	want := []string{"battery", "drain", "battery", "battery drain", "drain battery"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("analyzeTerms = %q, want %q", got, want)
	}

	if got := analyzeTerms("Battery drain", 1); !reflect.DeepEqual(got, []string{"battery", "drain"}) {
		t.Errorf("unigrams = %q", got)
	}
}

func TestFitVectorizer(t *testing.T) {
	texts := []string{"printer jam", "printer toner", "printer jam paper"}
	config := VectorizerConfig{MinDF: 2, MaxDF: 0.95, MaxNGram: 1}
	v := fitVectorizer(texts, config)

	// printer is in every document and jam is the only other term seen twice.
	if !reflect.DeepEqual(v.vocabulary, map[string]int{"jam": 0}) {
		t.Fatalf("vocabulary = %v", v.vocabulary)
	}
	if want := math.Log(4.0/3.0) + 1; math.Abs(v.idf[0]-want) > 1e-12 {
		t.Errorf("idf = %v, want %v", v.idf[0], want)
	}

	config.MaxDF = 1
	v = fitVectorizer(texts, config)
	if !reflect.DeepEqual(v.vocabulary, map[string]int{"jam": 0, "printer": 1}) {
		t.Errorf("vocabulary = %v", v.vocabulary)
	}
}

func TestFitVectorizerMaxFeatures(t *testing.T) {
	texts := []string{"alpha alpha alpha beta gamma", "alpha beta gamma", "beta gamma"}
	v := fitVectorizer(texts, VectorizerConfig{MaxFeatures: 2, MinDF: 1, MaxDF: 1, MaxNGram: 1})
	if v.size() != 2 {
		t.Fatalf("size = %d, want 2", v.size())
	}
	if _, ok := v.vocabulary["alpha"]; !ok {
		t.Errorf("Expected the most frequent term to survive, got %v", v.vocabulary)
	}
}

func TestVectorizerTransform(t *testing.T) {
	texts := []string{"slow sync", "slow build", "sync build fails", "fails often"}
	v := fitVectorizer(texts, VectorizerConfig{MinDF: 1, MaxDF: 1, MaxNGram: 1})

	row := v.transform("slow slow sync")
	if len(row.idx) != 2 {
		t.Fatalf("Expected two known terms, got %+v", row)
	}
	var norm float64
	for _, x := range row.val {
		norm += x * x
	}
	if math.Abs(norm-1) > 1e-12 {
		t.Errorf("Row norm = %v, want 1", norm)
	}
	for i := 1; i < len(row.idx); i++ {
		if row.idx[i] <= row.idx[i-1] {
			t.Errorf("Row indices not ascending: %v", row.idx)
		}
	}

	if empty := v.transform("nothing familiar here"); len(empty.idx) != 0 || len(empty.val) != 0 {
		t.Errorf("Expected an empty row, got %+v", empty)
	}
}
