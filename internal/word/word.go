// Package word owns the active word (gloss) and its shareable locator.
package word

import (
	"net/url"
	"strings"
	"sync"
)

// Scheme and host of the shareable locator.
const (
	Scheme = "signgen"
	host   = "view"
	param  = "word"
)

// Normalize trims and lowercases raw. It reports false when nothing is left.
func Normalize(raw string) (string, bool) {
	w := strings.ToLower(strings.TrimSpace(raw))
	return w, w != ""
}

// Link returns the locator that restores w when passed back to ParseLocator.
func Link(w string) string {
	u := url.URL{
		Scheme:   Scheme,
		Host:     host,
		RawQuery: url.Values{param: {w}}.Encode(),
	}
	return u.String()
}

// ParseLocator extracts the word from a full locator, a bare query
// ("?word=x" or "word=x") or a plain word.
func ParseLocator(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	query := ""
	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return "", false
		}
		query = u.RawQuery
	case strings.HasPrefix(raw, "?"):
		query = raw[1:]
	case strings.HasPrefix(strings.ToLower(raw), param+"="):
		query = raw
	default:
		return Normalize(raw)
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return "", false
	}
	return Normalize(values.Get(param))
}

// Selector tracks the active word with push-style history so Back restores
// the previously selected word.
type Selector struct {
	mu      sync.Mutex
	history []string
}

// NewSelector returns a Selector, optionally starting at initial.
func NewSelector(initial string) *Selector {
	s := &Selector{}
	s.Select(initial)
	return s
}

// Current returns the active word, or "" when none is selected.
func (s *Selector) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return ""
	}
	return s.history[len(s.history)-1]
}

// Select makes raw the active word. It reports whether the active word changed;
// empty input and reselecting the current word are no-ops.
func (s *Selector) Select(raw string) (string, bool) {
	w, ok := Normalize(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := ""
	if n := len(s.history); n > 0 {
		cur = s.history[n-1]
	}
	if !ok || w == cur {
		return cur, false
	}
	s.history = append(s.history, w)
	return w, true
}

// Back pops the active word and returns the one before it. It reports false
// when there is nothing to go back to.
func (s *Selector) Back() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) < 2 {
		return "", false
	}
	s.history = s.history[:len(s.history)-1]
	return s.history[len(s.history)-1], true
}

// History returns the selected words, most recent first, without duplicates.
func (s *Selector) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(s.history))
	out := make([]string, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		w := s.history[i]
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// Vocabulary is the built-in list of suggested glosses. Any other word is
// accepted as well.
var Vocabulary = []string{
	"afternoon", "again", "bathroom", "beautiful", "book", "brother", "car", "cat",
	"computer", "deaf", "dog", "drink", "eat", "family", "father", "finish",
	"friend", "go", "good", "goodbye", "happy", "hello", "help", "home",
	"house", "hungry", "learn", "like", "love", "milk", "more", "morning",
	"mother", "name", "night", "no", "please", "sad", "school", "sign",
	"sister", "sleep", "sorry", "teacher", "thank you", "time", "tired", "want",
	"water", "what", "where", "who", "why", "work", "yes",
}
