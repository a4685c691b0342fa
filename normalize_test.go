package painpoint

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		text     string
		expected string
		desc     string
	}{
		{"", "", "Empty text"},
		{"Hello World", "hello world", "Lower-cases"},
		{"Check https://example.com/a?b=1 NOW!!", "check now!!", "Strips http links"},
		{"see www.example.com today", "see today", "Strips www links"},
		{"Read [the docs](/wiki/page) first", "read first", "Strips markdown links"},
		{"Crossposted from /r/golang by /u/gopher", "crossposted from by", "Strips community and user references"},
		{"Price: $5, ok?", "price 5 ok?", "Keeps . ! ? and drops other punctuation"},
		{"  lots \n\t of   space  ", "lots of space", "Collapses whitespace"},
		{"Über café", "über café", "Keeps non-ASCII letters"},
		{"snake_case stays", "snake_case stays", "Keeps underscores"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := Normalize(tt.text); got != tt.expected {
				t.Errorf("Text: %q\nExpected: %q\nGot: %q", tt.text, tt.expected, got)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
	}{
		{"", nil},
		{"wow!!", []string{"wow", "!", "!"}},
		{"is it slow? yes.", []string{"is", "it", "slow", "?", "yes", "."}},
		{"i don t like it", []string{"i", "dont", "like", "it"}},
		{"it can t load", []string{"it", "cant", "load"}},
		{"a t shirt", []string{"a", "t", "shirt"}},
	}

	tokenizer := NewIterTokenizer()
	for _, tt := range tests {
		got := tokenizer.Tokenize(tt.text)
		if len(got) != len(tt.expected) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.text, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.text, got, tt.expected)
				break
			}
		}
	}
}
