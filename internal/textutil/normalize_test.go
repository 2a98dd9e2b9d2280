package textutil

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Key
	}{
		{"lowercases", "One Piece", "one piece"},
		{"collapses whitespace", "  One \t\n  Punch   Man ", "one punch man"},
		{"keeps punctuation", "Kaguya-sama: Love is War", "kaguya-sama: love is war"},
		{"empty", "", ""},
		{"whitespace only", " \t \n ", ""},
		{"punctuation only", "?!...", "?!..."},
		{"full width folds", "ＯＮＥ　ＰＩＥＣＥ", "one piece"},
		{"accented capitals fold", "ÀBC", "àbc"},
		{"drops control characters", "nar\x00uto\x07", "naruto"},
		{"invalid utf-8 replaced", "bad\xffbyte", "bad\uFFFDbyte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeyRuneLen(t *testing.T) {
	if got := Key("進撃の巨人").RuneLen(); got != 5 {
		t.Errorf("RuneLen() = %d, want 5", got)
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name  string
		input Key
		want  []string
	}{
		{"simple words", "one piece", []string{"one", "piece"}},
		{"keeps short tokens", "yotsuba to!", []string{"yotsuba", "to"}},
		{"splits punctuation", "kaguya-sama: love is war", []string{"kaguya", "sama", "love", "is", "war"}},
		{"numbers", "20th century boys", []string{"20th", "century", "boys"}},
		{"empty", "", nil},
		{"punctuation only", "?!", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tokens(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokens(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGrams(t *testing.T) {
	tests := []struct {
		name  string
		input Key
		n     int
		want  []string
	}{
		{"trigrams", "abc", 3, []string{"-ab", "abc", "bc-"}},
		{"single rune", "a", 3, []string{"-a-"}},
		{"short key", "a", 4, []string{"-a-"}},
		{"empty", "", 3, nil},
		{"zero n", "abc", 0, nil},
		{"multibyte", "巨人", 2, []string{"-巨", "巨人", "人-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Grams(tt.input, tt.n); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Grams(%q, %d) = %v, want %v", tt.input, tt.n, got, tt.want)
			}
		})
	}
}

func TestUniqueSorted(t *testing.T) {
	got := UniqueSorted([]string{"piece", "one", "piece", "a"})
	want := []string{"a", "one", "piece"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueSorted() = %v, want %v", got, want)
	}
	if UniqueSorted(nil) != nil {
		t.Error("UniqueSorted(nil) should be nil")
	}
}
