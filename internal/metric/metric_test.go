package metric

import (
	"errors"
	"math"
	"testing"

	"serieslink/internal/matcherr"
	"serieslink/internal/textutil"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(" " + string(k) + " ")
		if err != nil {
			t.Fatalf("ParseKind(%q) error: %v", k, err)
		}
		if got != k {
			t.Errorf("ParseKind(%q) = %q", k, got)
		}
	}

	_, err := ParseKind("hamming")
	if !errors.Is(err, matcherr.ErrConfiguration) {
		t.Fatalf("ParseKind(hamming) error = %v, want configuration error", err)
	}
}

func TestNewUnknownKind(t *testing.T) {
	if _, err := New(Kind("soundex")); !errors.Is(err, matcherr.ErrConfiguration) {
		t.Fatalf("New(soundex) error = %v, want configuration error", err)
	}
}

func TestDirections(t *testing.T) {
	tests := []struct {
		kind      Kind
		direction Direction
		identity  float64
	}{
		{Levenshtein, LowerIsBetter, 0},
		{DamerauLevenshtein, LowerIsBetter, 0},
		{OSA, LowerIsBetter, 0},
		{NormalizedLevenshtein, LowerIsBetter, 0},
		{Jaro, HigherIsBetter, 1},
		{JaroWinkler, HigherIsBetter, 1},
		{TokenJaccard, HigherIsBetter, 1},
		{TokenCosine, HigherIsBetter, 1},
		{TrigramCosine, HigherIsBetter, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			m := MustNew(tt.kind)
			if m.Kind() != tt.kind {
				t.Errorf("Kind() = %q", m.Kind())
			}
			if m.Direction() != tt.direction {
				t.Errorf("Direction() = %v, want %v", m.Direction(), tt.direction)
			}
			if m.Identity() != tt.identity {
				t.Errorf("Identity() = %v, want %v", m.Identity(), tt.identity)
			}
		})
	}
}

func TestCompareKnownValues(t *testing.T) {
	tests := []struct {
		kind Kind
		a, b textutil.Key
		want float64
	}{
		{Levenshtein, "kitten", "sitting", 3},
		{Levenshtein, "", "abc", 3},
		{Levenshtein, "abc", "", 3},
		{Levenshtein, "", "", 0},
		{OSA, "ca", "ac", 1},
		{DamerauLevenshtein, "ca", "ac", 1},
		{NormalizedLevenshtein, "abcd", "abce", 0.25},
		{NormalizedLevenshtein, "", "abc", 1},
		{Jaro, "", "abc", 0},
		{Jaro, "", "", 1},
		{JaroWinkler, "abc", "xyz", 0},
		{TokenJaccard, "one piece", "one punch man", 0.25},
		{TokenJaccard, "one piece", "piece one", 1},
		{TokenJaccard, "?!", "...", 1},
		{TokenJaccard, "?!", "one", 0},
		{TokenCosine, "naruto", "bleach", 0},
		{TrigramCosine, "", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+string(tt.a)+"/"+string(tt.b), func(t *testing.T) {
			got, err := MustNew(tt.kind).Compare(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Compare error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Compare(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestJaroKnownValues(t *testing.T) {
	j, err := MustNew(Jaro).Compare("martha", "marhta")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(j-0.9444) > 1e-3 {
		t.Errorf("Jaro(martha, marhta) = %v, want ~0.944", j)
	}

	jw, err := MustNew(JaroWinkler).Compare("martha", "marhta")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(jw-0.9611) > 1e-3 {
		t.Errorf("JaroWinkler(martha, marhta) = %v, want ~0.961", jw)
	}
	if jw < j {
		t.Errorf("JaroWinkler %v below Jaro %v", jw, j)
	}
}

func TestDomainErrors(t *testing.T) {
	bad := []textutil.Key{"bad\xffkey", "nul\x00key"}
	for _, k := range Kinds() {
		m := MustNew(k)
		for _, key := range bad {
			_, err := m.Compare(key, "ok")
			if !errors.Is(err, matcherr.ErrMetricDomain) {
				t.Errorf("%s Compare(%q) error = %v, want domain error", k, key, err)
			}
			var domainErr *matcherr.MetricDomainError
			if !errors.As(err, &domainErr) || domainErr.Metric != string(k) {
				t.Errorf("%s Compare(%q) error does not name the metric: %v", k, key, err)
			}
		}
	}
}

func TestNormalizedKeysAlwaysInDomain(t *testing.T) {
	k := textutil.Normalize("bad\xff\x00key")
	for _, kind := range Kinds() {
		if _, err := MustNew(kind).Profile(k); err != nil {
			t.Errorf("%s Profile(%q) error: %v", kind, k, err)
		}
	}
}

func TestCapabilities(t *testing.T) {
	for _, k := range Kinds() {
		m := MustNew(k)
		_, lengthBounded := m.(LengthBounded)
		_, featureBased := m.(FeatureBased)
		if lengthBounded == featureBased {
			t.Errorf("%s: length bounded %v, feature based %v; want exactly one", k, lengthBounded, featureBased)
		}
	}
}

func TestBounded(t *testing.T) {
	if Bounded(MustNew(Levenshtein)) {
		t.Error("levenshtein should be unbounded")
	}
	for _, k := range []Kind{NormalizedLevenshtein, Jaro, TokenCosine} {
		if !Bounded(MustNew(k)) {
			t.Errorf("%s should be bounded", k)
		}
	}
}

func TestDirectionHelpers(t *testing.T) {
	if !LowerIsBetter.Better(1, 2) || LowerIsBetter.Better(2, 2) {
		t.Error("LowerIsBetter.Better misorders")
	}
	if !HigherIsBetter.Better(0.9, 0.1) {
		t.Error("HigherIsBetter.Better misorders")
	}
	if !HigherIsBetter.AtLeast(0.5, 0.5) {
		t.Error("AtLeast should accept ties")
	}
	if got := LowerIsBetter.Gap(1, 4); got != 3 {
		t.Errorf("LowerIsBetter.Gap(1, 4) = %v, want 3", got)
	}
	if got := HigherIsBetter.Gap(0.9, 0.6); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("HigherIsBetter.Gap(0.9, 0.6) = %v, want 0.3", got)
	}
	if got := HigherIsBetter.Cmp(0.9, 0.1); got != -1 {
		t.Errorf("HigherIsBetter.Cmp = %d, want -1", got)
	}
	if got := LowerIsBetter.Cmp(3, 3); got != 0 {
		t.Errorf("LowerIsBetter.Cmp tie = %d, want 0", got)
	}
	if !math.IsInf(LowerIsBetter.WorstValue(), 1) || !math.IsInf(HigherIsBetter.WorstValue(), -1) {
		t.Error("WorstValue should be infinite")
	}
}
