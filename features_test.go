package painpoint

import (
	"fmt"
	"math"
	"testing"
)

func TestExtractFeatures(t *testing.T) {
	raw := "This is TERRIBLE!! It crashes, so slow."
	fv := NewFeatureExtractor(nil).Extract(raw)

	if fv.WordCount != 7 {
		t.Errorf("WordCount = %d, want 7", fv.WordCount)
	}
	if fv.SentenceCount < 1 {
		t.Errorf("SentenceCount = %d, want at least 1", fv.SentenceCount)
	}
	if fv.ExclamationCount != 2 {
		t.Errorf("ExclamationCount = %d, want 2", fv.ExclamationCount)
	}
	if fv.QuestionCount != 0 {
		t.Errorf("QuestionCount = %d, want 0", fv.QuestionCount)
	}
	if fv.IntensifierCount != 1 {
		t.Errorf("IntensifierCount = %d, want 1", fv.IntensifierCount)
	}
	if fv.NegationCount != 0 {
		t.Errorf("NegationCount = %d, want 0", fv.NegationCount)
	}
	if want := 10.0 / 39.0; math.Abs(fv.UppercaseRatio-want) > 1e-9 {
		t.Errorf("UppercaseRatio = %.4f, want %.4f", fv.UppercaseRatio, want)
	}
	if fv.CriticalHits != 1 || fv.HighHits != 1 || fv.MediumHits != 0 || fv.LowHits != 0 {
		t.Errorf("Tier hits = %d/%d/%d/%d, want 1/1/0/0",
			fv.CriticalHits, fv.HighHits, fv.MediumHits, fv.LowHits)
	}
	if fv.Lexicon.Compound >= 0 {
		t.Errorf("Lexicon compound = %.3f, want negative", fv.Lexicon.Compound)
	}
}

func TestExtractFeaturesEmpty(t *testing.T) {
	fv := NewFeatureExtractor(nil).Extract("")
	if fv.WordCount != 0 || fv.SentenceCount != 0 || fv.UppercaseRatio != 0 {
		t.Errorf("Expected zero counts for empty text, got %+v", fv)
	}
	if fv.Lexicon.Neutral != 1 {
		t.Errorf("Expected all neutral mass for empty text, got %+v", fv.Lexicon)
	}
}

func TestExtractFeaturesNegations(t *testing.T) {
	fv := NewFeatureExtractor(nil).Extract("No, I never said nothing was wrong. Not really.")
	if fv.NegationCount != 4 {
		t.Errorf("NegationCount = %d, want 4", fv.NegationCount)
	}
	if fv.IntensifierCount != 1 {
		t.Errorf("IntensifierCount = %d, want 1", fv.IntensifierCount)
	}
}

func TestIndicatorPresenceCountsOnce(t *testing.T) {
	fv := NewFeatureExtractor(nil).Extract("crash crash crash. it crashed again")
	if fv.CriticalHits != 1 {
		t.Errorf("CriticalHits = %d, want 1", fv.CriticalHits)
	}
}

func TestMatchIndicators(t *testing.T) {
	got := MatchIndicators(Normalize("The app could crash and is SLOW after I lost data"))
	want := []IndicatorMatch{
		{Critical, "crash"},
		{Critical, "lost data"},
		{High, "slow"},
		{Low, "could"},
	}
	if len(got) != len(want) {
		t.Fatalf("MatchIndicators = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match %d = %v, want %v", i, got[i], want[i])
		}
	}

	if m := MatchIndicators(""); len(m) != 0 {
		t.Errorf("Expected no matches for empty text, got %v", m)
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"the", "and", "with", "The"} {
		if !IsStopWord(w) {
			t.Errorf("IsStopWord(%q) = false, want true", w)
		}
	}
	for _, w := range []string{"performance", "crashes", "slow", "2024"} {
		if IsStopWord(w) {
			t.Errorf("IsStopWord(%q) = true, want false", w)
		}
	}
}

func TestMemoBounded(t *testing.T) {
	calls := 0
	m := newMemo(8, func(s string) bool {
		calls++
		return len(s) > 3
	})
	for i := 0; i < 100; i++ {
		m.get(fmt.Sprintf("word%d", i))
		if len(m.cache) > 8 {
			t.Fatalf("cache holds %d entries after %d words, want at most 8", len(m.cache), i+1)
		}
	}
	if calls != 100 {
		t.Errorf("predicate ran %d times, want 100", calls)
	}

	before := calls
	if !m.get("word99") {
		t.Errorf("get(word99) = false, want true")
	}
	if calls != before {
		t.Errorf("cached word evaluated again")
	}
}
