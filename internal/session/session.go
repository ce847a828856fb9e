// Package session holds the per-window request state: the active word, the
// generation state machine and one fetch state per artifact kind.
//
// A Session is not safe for concurrent use. All transitions happen on the
// UI event loop; network work runs elsewhere and reports back through the
// Complete* methods with the ticket it was started with. A ticket that no
// longer matches the active word and generation is stale and its result is
// dropped.
package session

import (
	"errors"

	"github.com/abelbrown/signgen/internal/config"
	"github.com/abelbrown/signgen/internal/fetch"
	"github.com/abelbrown/signgen/internal/metrics"
)

var (
	// ErrNoWord is returned by BeginGenerate when no word is selected.
	ErrNoWord = errors.New("no word selected")
	// ErrGenerationInFlight is returned by BeginGenerate while a create call is outstanding.
	ErrGenerationInFlight = errors.New("a generation is already in progress")
)

// GenStatus is the state of the generation request.
type GenStatus int

const (
	GenIdle GenStatus = iota
	GenPending
	GenSucceeded
	GenFailed
)

func (s GenStatus) String() string {
	switch s {
	case GenPending:
		return "pending"
	case GenSucceeded:
		return "succeeded"
	case GenFailed:
		return "failed"
	}
	return "idle"
}

// Generation is the state of the most recent generate call for the active word.
type Generation struct {
	Status GenStatus
	Word   string // word the state was computed for; empty when Idle
	Seq    uint64 // invocation that produced this state
	Err    error  // set when Failed
}

// Succeeded reports whether generation completed successfully for word.
func (g Generation) Succeeded(word string) bool {
	return g.Status == GenSucceeded && g.Word == word
}

// FetchStatus is the state of one artifact fetch.
type FetchStatus int

const (
	Disabled FetchStatus = iota
	Pending
	Succeeded
	Failed
)

func (s FetchStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "disabled"
}

// Artifact is the fetch state of one kind.
type Artifact struct {
	Status   FetchStatus
	Word     string
	Seq      uint64
	Attempts int // requests made across all triggers
	Triggers int // automatic plus manual triggers
	Size     int // video payload size
	Scores   metrics.Scores
	Err      error
}

// View is the slice of session state the enabling predicates read.
type View struct {
	Word       string
	Gen        Generation
	Generating bool
}

// Enabled is the enabling predicate of kind.
//
// Video kinds need their visibility flag, a successful generation for the
// active word and no create call in flight. Metrics need their flag, a
// successful generation and no create call in flight.
func Enabled(kind config.Kind, cfg config.Config, v View) bool {
	if !cfg.Shows(kind) || v.Generating || v.Gen.Status != GenSucceeded {
		return false
	}
	if kind.IsVideo() {
		return v.Word != "" && v.Gen.Word == v.Word
	}
	return kind == config.KindMetrics
}

// GenerateTicket identifies one generate invocation.
type GenerateTicket struct {
	Word string
	Seq  uint64
}

// FetchTicket identifies one fetch trigger.
type FetchTicket struct {
	Kind config.Kind
	Word string
	Seq  uint64
}

// Request builds the fetch request for t under cfg.
func (t FetchTicket) Request(cfg config.Config) fetch.Request {
	return fetch.Request{Kind: t.Kind, Word: t.Word, Seq: t.Seq, Config: cfg}
}

// Change describes the effect of SelectWord.
type Change struct {
	Changed bool
	Word    string
	// Released lists the kinds whose displayed resources must be released.
	Released []config.Kind
}

// Session is the request state of one window.
type Session struct {
	word       string
	gen        Generation
	generating bool
	seq        uint64
	artifacts  map[config.Kind]Artifact
}

// New returns an empty Session with no word selected.
func New() *Session {
	return &Session{artifacts: make(map[config.Kind]Artifact)}
}

// Word returns the active word.
func (s *Session) Word() string { return s.word }

// Generation returns the generation state.
func (s *Session) Generation() Generation { return s.gen }

// Generating reports whether a create call is outstanding.
func (s *Session) Generating() bool { return s.generating }

// Artifact returns the fetch state of kind.
func (s *Session) Artifact(kind config.Kind) Artifact { return s.artifacts[kind] }

// View returns the predicate inputs.
func (s *Session) View() View {
	return View{Word: s.word, Gen: s.gen, Generating: s.generating}
}

// Enabled evaluates the predicate of kind against the current state.
func (s *Session) Enabled(kind config.Kind, cfg config.Config) bool {
	return Enabled(kind, cfg, s.View())
}

// SelectWord makes w the active word. When the generation state belongs to
// a different word it is reset to Idle and every artifact is invalidated.
// An outstanding create call stays outstanding; its result will be stale.
func (s *Session) SelectWord(w string) Change {
	if w == s.word {
		return Change{Word: w}
	}
	s.word = w
	s.gen = Generation{Status: GenIdle}
	return Change{Changed: true, Word: w, Released: s.invalidate()}
}

// BeginGenerate moves the generation to Pending for the active word.
func (s *Session) BeginGenerate() (GenerateTicket, error) {
	if s.word == "" {
		return GenerateTicket{}, ErrNoWord
	}
	if s.generating {
		return GenerateTicket{}, ErrGenerationInFlight
	}

	s.seq++
	s.generating = true
	s.gen = Generation{Status: GenPending, Word: s.word, Seq: s.seq}
	s.invalidate()
	return GenerateTicket{Word: s.word, Seq: s.seq}, nil
}

// CompleteGenerate records the outcome of t. It always clears the in-flight
// flag and reports whether the outcome was committed; false means the ticket
// was stale.
func (s *Session) CompleteGenerate(t GenerateTicket, err error) bool {
	s.generating = false

	if t.Seq != s.gen.Seq || t.Word != s.word || s.gen.Status != GenPending {
		return false
	}
	if err != nil {
		s.gen = Generation{Status: GenFailed, Word: t.Word, Seq: t.Seq, Err: err}
	} else {
		s.gen = Generation{Status: GenSucceeded, Word: t.Word, Seq: t.Seq}
	}
	return true
}

// BeginFetch starts the fetch of kind when its predicate holds and it has
// not been triggered yet for the current generation.
func (s *Session) BeginFetch(kind config.Kind, cfg config.Config) (FetchTicket, bool) {
	if !s.Enabled(kind, cfg) {
		return FetchTicket{}, false
	}
	a := s.artifacts[kind]
	if s.current(a) && a.Status != Disabled {
		return FetchTicket{}, false
	}
	return s.trigger(kind, Artifact{}), true
}

// Retry re-triggers a Failed fetch of kind. Each retry makes one more
// bounded round of attempts.
func (s *Session) Retry(kind config.Kind, cfg config.Config) (FetchTicket, bool) {
	if !s.Enabled(kind, cfg) {
		return FetchTicket{}, false
	}
	a := s.artifacts[kind]
	if !s.current(a) || a.Status != Failed {
		return FetchTicket{}, false
	}
	return s.trigger(kind, a), true
}

// Unlocked begins every fetch whose predicate holds.
func (s *Session) Unlocked(cfg config.Config) []FetchTicket {
	var out []FetchTicket
	for _, k := range config.AllKinds {
		if t, ok := s.BeginFetch(k, cfg); ok {
			out = append(out, t)
		}
	}
	return out
}

// Failed returns the kinds whose current fetch has failed.
func (s *Session) Failed() []config.Kind {
	var out []config.Kind
	for _, k := range config.AllKinds {
		if a := s.artifacts[k]; s.current(a) && a.Status == Failed {
			out = append(out, k)
		}
	}
	return out
}

// CompleteFetch records r for t and reports whether it was committed.
func (s *Session) CompleteFetch(t FetchTicket, r fetch.Result) bool {
	a, ok := s.artifacts[t.Kind]
	if !ok || t.Word != s.word || t.Seq != s.gen.Seq || a.Seq != t.Seq || a.Word != t.Word || a.Status != Pending {
		return false
	}

	a.Attempts += r.Attempts
	if r.Err != nil {
		a.Status = Failed
		a.Err = r.Err
	} else {
		a.Status = Succeeded
		a.Err = nil
		a.Size = len(r.Video)
		a.Scores = r.Scores
	}
	s.artifacts[t.Kind] = a
	return true
}

// ApplyConfig disables the artifacts whose visibility flag is now off and
// returns them so their resources can be released.
func (s *Session) ApplyConfig(cfg config.Config) []config.Kind {
	var off []config.Kind
	for _, k := range config.AllKinds {
		a, ok := s.artifacts[k]
		if !ok || cfg.Shows(k) {
			continue
		}
		delete(s.artifacts, k)
		if a.Status != Disabled {
			off = append(off, k)
		}
	}
	return off
}

func (s *Session) trigger(kind config.Kind, prev Artifact) FetchTicket {
	s.artifacts[kind] = Artifact{
		Status:   Pending,
		Word:     s.word,
		Seq:      s.gen.Seq,
		Attempts: prev.Attempts,
		Triggers: prev.Triggers + 1,
	}
	return FetchTicket{Kind: kind, Word: s.word, Seq: s.gen.Seq}
}

func (s *Session) current(a Artifact) bool {
	return a.Word == s.word && a.Seq == s.gen.Seq
}

// invalidate drops every artifact state and returns the video kinds that
// held a payload.
func (s *Session) invalidate() []config.Kind {
	var released []config.Kind
	for _, k := range config.VideoKinds {
		if a, ok := s.artifacts[k]; ok && a.Status == Succeeded {
			released = append(released, k)
		}
	}
	s.artifacts = make(map[config.Kind]Artifact)
	return released
}
