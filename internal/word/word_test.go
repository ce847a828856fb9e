package word

import "testing"

func TestNormalize(t *testing.T) {
	if w, ok := Normalize("  Hello "); !ok || w != "hello" {
		t.Errorf("Normalize = %q, %v", w, ok)
	}
	if _, ok := Normalize("   "); ok {
		t.Error("blank input should not normalize")
	}
}

func TestLinkRoundTrip(t *testing.T) {
	for _, w := range []string{"hello", "thank you", "a&b"} {
		link := Link(w)
		got, ok := ParseLocator(link)
		if !ok || got != w {
			t.Errorf("ParseLocator(Link(%q)) = %q, %v (link %s)", w, got, ok, link)
		}
	}
	if got := Link("hello"); got != "signgen://view?word=hello" {
		t.Errorf("Link = %q", got)
	}
}

func TestParseLocatorForms(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"signgen://view?word=House", "house", true},
		{"?word=tree", "tree", true},
		{"word=Sun", "sun", true},
		{"Moon", "moon", true},
		{"signgen://view", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseLocator(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLocator(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSelectorHistory(t *testing.T) {
	s := NewSelector("")
	if s.Current() != "" {
		t.Fatalf("expected no word, got %q", s.Current())
	}

	if w, changed := s.Select(" Hello"); !changed || w != "hello" {
		t.Fatalf("Select = %q, %v", w, changed)
	}
	if _, changed := s.Select("HELLO"); changed {
		t.Error("reselecting the same word should be a no-op")
	}
	if _, changed := s.Select(""); changed {
		t.Error("empty selection should be a no-op")
	}
	s.Select("world")

	if w, ok := s.Back(); !ok || w != "hello" {
		t.Errorf("Back = %q, %v", w, ok)
	}
	if s.Current() != "hello" {
		t.Errorf("Current after Back = %q", s.Current())
	}
	if _, ok := s.Back(); ok {
		t.Error("Back past the first word should fail")
	}
}

func TestSelectorHistoryDeduplicates(t *testing.T) {
	s := NewSelector("a")
	s.Select("b")
	s.Select("a")
	got := s.History()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("History = %v", got)
	}
}
