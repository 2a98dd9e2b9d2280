package textutil

import (
	"math"
	"testing"
)

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
		want float64
	}{
		{"both nil", nil, nil, 0},
		{"a nil", nil, NewFingerprint("one piece"), 0},
		{"b nil", NewFingerprint("one piece"), nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	key := Normalize("Kaguya-sama wa Kokurasetai: Tensai-tachi no Renai Zunousen")
	got := CosineSimilarity(NewFingerprint(key), NewFingerprint(key))
	if math.Abs(got-1) > 1e-12 {
		t.Errorf("CosineSimilarity(identical) = %v, want 1", got)
	}
}

func TestCosineSimilarityCompletelyDifferent(t *testing.T) {
	got := CosineSimilarity(NewFingerprint("berserk"), NewFingerprint("yotsuba to"))
	if got != 0 {
		t.Errorf("CosineSimilarity(different) = %v, want 0", got)
	}
}

func TestCosineSimilarityPartialOverlap(t *testing.T) {
	got := CosineSimilarity(NewFingerprint("one punch man"), NewFingerprint("one piece"))
	if got <= 0 || got >= 1 {
		t.Errorf("CosineSimilarity(partial) = %v, want between 0 and 1", got)
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := NewGramFingerprint("shingeki no kyojin", 3)
	b := NewGramFingerprint("shingeki no kyoujin", 3)

	if ab, ba := CosineSimilarity(a, b), CosineSimilarity(b, a); ab != ba {
		t.Errorf("CosineSimilarity not symmetric: (%v, %v)", ab, ba)
	}
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	a := &Fingerprint{tokens: map[string]float64{}, norm: 0}
	if got := CosineSimilarity(a, NewFingerprint("monster")); got != 0 {
		t.Errorf("CosineSimilarity(zero norm) = %v, want 0", got)
	}
}

func TestNewFingerprintEmpty(t *testing.T) {
	if fp := NewFingerprint(""); fp != nil {
		t.Error("expected nil for empty key")
	}
	if fp := NewFingerprint("!!! ..."); fp != nil {
		t.Error("expected nil for punctuation-only key")
	}
}

func TestNewFingerprintNormCalculation(t *testing.T) {
	// "kiss kiss bang" -> kiss:2, bang:1; norm = sqrt(5)
	fp := NewFingerprint("kiss kiss bang")
	if fp == nil {
		t.Fatal("expected fingerprint")
	}
	if math.Abs(fp.norm-math.Sqrt(5)) > 0.0001 {
		t.Errorf("norm = %v, want %v", fp.norm, math.Sqrt(5))
	}
	if fp.TokenCount() != 2 {
		t.Errorf("TokenCount() = %d, want 2", fp.TokenCount())
	}
}

func TestFingerprintTokenCountNil(t *testing.T) {
	var fp *Fingerprint
	if fp.TokenCount() != 0 {
		t.Error("nil fingerprint should report zero tokens")
	}
}

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"both empty", nil, nil, 1},
		{"one empty", []string{"one"}, nil, 0},
		{"identical", []string{"one", "piece"}, []string{"one", "piece"}, 1},
		{"half", []string{"man", "one", "punch"}, []string{"one", "piece"}, 0.25},
		{"disjoint", []string{"naruto"}, []string{"bleach"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JaccardSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("JaccardSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
