package painpoint

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestPolaritySign(t *testing.T) {
	tests := []struct {
		text string
		sign int
		desc string
	}{
		{"I love this product!", 1, "Strong positive sentiment"},
		{"This is terrible.", -1, "Strong negative sentiment"},
		{"Not bad at all.", 1, "Negation of negative"},
		{"I don't like it.", -1, "Negation of positive"},
		{"This is absolutely fantastic!", 1, "Intensified positive"},
		{"I really hate this!", -1, "Intensified negative"},
		{"The UI is good but the performance is terrible", -1, "Contrast after but dominates"},
		{"It keeps crashing and the sync is broken", -1, "Domain negatives"},
		{"The meeting is on Tuesday", 0, "No sentiment words"},
		{"", 0, "Empty text"},
	}

	scorer := NewPolarityScorer(nil, DefaultPolarityConfig())
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := scorer.Score(tt.text).Compound
			switch {
			case tt.sign > 0 && got <= 0,
				tt.sign < 0 && got >= 0,
				tt.sign == 0 && got != 0:
				t.Errorf("Text: %q\nExpected sign: %d\nGot compound: %.3f", tt.text, tt.sign, got)
			}
		})
	}
}

func TestPolarityIntensifierStrengthens(t *testing.T) {
	scorer := NewPolarityScorer(nil, DefaultPolarityConfig())
	plain := scorer.Score("the update is bad").Compound
	boosted := scorer.Score("the update is extremely bad").Compound
	damped := scorer.Score("the update is slightly bad").Compound

	if !(boosted < plain) {
		t.Errorf("Expected booster to strengthen: plain %.3f, boosted %.3f", plain, boosted)
	}
	if !(damped > plain) {
		t.Errorf("Expected dampener to weaken: plain %.3f, damped %.3f", plain, damped)
	}
}

func TestPolarityExclamationEmphasis(t *testing.T) {
	scorer := NewPolarityScorer(nil, DefaultPolarityConfig())
	calm := scorer.Score("this is great").Compound
	loud := scorer.Score("this is great!!!").Compound
	if !(loud > calm) {
		t.Errorf("Expected exclamations to add emphasis: %.3f vs %.3f", calm, loud)
	}
}

func TestPolarityMassSumsToOne(t *testing.T) {
	texts := []string{
		"",
		"hello there",
		"I love it but the battery is awful!",
		"Absolutely perfect, best purchase ever!!!",
		"broken broken broken",
	}

	scorer := NewPolarityScorer(nil, DefaultPolarityConfig())
	for _, text := range texts {
		s := scorer.Score(text)
		sum := s.Positive + s.Negative + s.Neutral
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("Text: %q\nExpected pos+neg+neu = 1\nGot: %.6f (%+v)", text, sum, s)
		}
		if s.Compound < -1 || s.Compound > 1 {
			t.Errorf("Text: %q\nCompound out of range: %.3f", text, s.Compound)
		}
	}
}

func TestPolarityDeterministic(t *testing.T) {
	scorer := NewPolarityScorer(nil, DefaultPolarityConfig())
	text := "The new release is really slow, but support was helpful!"
	first := scorer.Score(text)
	for i := 0; i < 10; i++ {
		if got := scorer.Score(text); got != first {
			t.Fatalf("Score changed between calls: %+v then %+v", first, got)
		}
	}
}

func TestLexiconInflections(t *testing.T) {
	lexicon := NewLexicon()
	base, _ := lexicon.Valence("crash")
	for _, word := range []string{"crashes", "crashed", "crashing"} {
		v, ok := lexicon.Valence(word)
		if !ok || v != base {
			t.Errorf("Valence(%q) = %v, %v; want %v, true", word, v, ok, base)
		}
	}
	if _, ok := lexicon.Valence("tuesday"); ok {
		t.Errorf("Expected unknown word to be unscored")
	}
}

func TestLoadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.json")
	data := `{"languages": {"english": {
		"positive": [{"word": "Snappy", "sentiment": 0.7, "confidence": 0.9}],
		"negative": [{"word": "janky", "sentiment": -0.6, "confidence": 0.9}],
		"intensifiers": ["mega"],
		"negations": ["nah"]
	}, "spanish": {"positive": [{"word": "bueno", "sentiment": 0.6}]}}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	lexicon, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("LoadLexicon: %v", err)
	}
	if v, ok := lexicon.Valence("snappy"); !ok || v != 0.7 {
		t.Errorf("Valence(snappy) = %v, %v", v, ok)
	}
	if v, ok := lexicon.Valence("janky"); !ok || v != -0.6 {
		t.Errorf("Valence(janky) = %v, %v", v, ok)
	}
	if lexicon.ModifierStrength("mega") <= 0 {
		t.Errorf("Expected mega to be an intensifier")
	}
	if !lexicon.IsNegation("nah") {
		t.Errorf("Expected nah to be a negation")
	}
	if _, ok := lexicon.Valence("bueno"); ok {
		t.Errorf("Expected non-English sections to be ignored")
	}

	if _, err := LoadLexicon(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
}
