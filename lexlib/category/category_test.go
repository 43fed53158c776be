package category

import "testing"

func TestLookupBasic(t *testing.T) {
	cases := []struct {
		r    rune
		want Mask
	}{
		{'A', Lu},
		{'a', Ll},
		{'0', Nd},
		{' ', Zs},
	}
	for _, c := range cases {
		if got := Lookup(c.r); got&c.want == 0 {
			t.Errorf("Lookup(%q) = %b, want to include %b", c.r, got, c.want)
		}
	}
}

func TestLineBreakSet(t *testing.T) {
	for _, r := range []rune{'\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029'} {
		if m := Lookup(r); !m.Is(LineBreak) {
			t.Errorf("Lookup(%U) missing LineBreak bit: %b", r, m)
		}
	}
	if m := Lookup('a'); m.Is(LineBreak) {
		t.Errorf("Lookup('a') unexpectedly has LineBreak bit: %b", m)
	}
}

func TestNotWhitespaceExcludesControl(t *testing.T) {
	if Cc.Is(NotWhitespace) {
		t.Error("Cc must not be in NotWhitespace")
	}
	if Cc.Is(Whitespace) {
		t.Error("Cc must not be in Whitespace")
	}
	if Cc.Is(NotVSpace) {
		t.Error("Cc must not be in NotVSpace")
	}
}

func TestPredefinedNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, n := range Predefined {
		if seen[n.Name] {
			t.Fatalf("duplicate predefined name %q", n.Name)
		}
		seen[n.Name] = true
	}
}

func TestUnassignedIsCn(t *testing.T) {
	// U+0378 is unassigned as of recent Unicode versions.
	if m := Lookup(0x0378); !m.Is(Cn) {
		t.Errorf("Lookup(0x0378) = %b, want Cn bit set", m)
	}
}
