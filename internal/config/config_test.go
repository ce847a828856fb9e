package config

import (
	"errors"
	"strings"
	"testing"
)

// memPersister is an in-memory Persister for tests.
type memPersister struct {
	values map[string]string
	getErr error
	putErr error
	puts   int
}

func newMemPersister() *memPersister {
	return &memPersister{values: make(map[string]string)}
}

func (m *memPersister) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memPersister) Put(key, value string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.values[key] = value
	return nil
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestDefaults(t *testing.T) {
	d := Defaults()
	want := Config{
		URL:             "http://localhost",
		Port:            "5000",
		CreatePath:      "create-videos",
		CGANPath:        "cgan-video",
		CVAEPath:        "cvae-video",
		FusedPath:       "fuse-video",
		PerformancePath: "",
		ShowCGAN:        true,
		ShowCVAE:        true,
		ShowFused:       true,
		ShowPerformance: false,
	}
	if d != want {
		t.Errorf("Defaults() = %+v, want %+v", d, want)
	}
}

func TestEndpoints(t *testing.T) {
	c := Defaults()
	if got := c.BaseURL(); got != "http://localhost:5000" {
		t.Errorf("BaseURL = %q", got)
	}
	if got := c.CreateURL(); got != "http://localhost:5000/create-videos" {
		t.Errorf("CreateURL = %q", got)
	}
	if got := c.Endpoint(c.PathFor(KindFused)); got != "http://localhost:5000/fuse-video" {
		t.Errorf("fused endpoint = %q", got)
	}
}

func TestMergeOverlaysOnlySetFields(t *testing.T) {
	p1 := Partial{Port: strPtr("8080"), ShowCGAN: boolPtr(false), CGANPath: strPtr("gan")}
	p2 := Partial{Port: strPtr("9090"), ShowCVAE: boolPtr(false)}

	got := Defaults().Merge(p1).Merge(p2)

	want := Defaults()
	want.Port = "9090"    // p2 wins
	want.ShowCGAN = false // from p1, absent in p2
	want.CGANPath = "gan" // from p1, absent in p2
	want.ShowCVAE = false // from p2
	if got != want {
		t.Errorf("merge = %+v, want %+v", got, want)
	}
}

func TestMergeEmptyPartialIsIdentity(t *testing.T) {
	c := Defaults()
	c.URL = "http://gpu-box"
	if got := c.Merge(Partial{}); got != c {
		t.Errorf("empty merge changed record: %+v", got)
	}
}

func TestDiff(t *testing.T) {
	prev := Defaults()
	next := prev
	next.URL = "http://remote"
	next.ShowPerformance = true

	p := Diff(prev, next)
	if p.URL == nil || *p.URL != "http://remote" {
		t.Errorf("expected url in diff")
	}
	if p.ShowPerformance == nil || !*p.ShowPerformance {
		t.Errorf("expected showPerformance in diff")
	}
	if p.Port != nil || p.ShowCGAN != nil {
		t.Errorf("unchanged fields leaked into diff: %+v", p)
	}
	if prev.Merge(p) != next {
		t.Errorf("prev.Merge(Diff(prev,next)) != next")
	}
	if !Diff(prev, prev).IsEmpty() {
		t.Errorf("diff of identical records should be empty")
	}
}

func TestParseAssignments(t *testing.T) {
	p, err := ParseAssignments([]string{"port=7000", "showPerformance=true", "PerformancePath=performance"})
	if err != nil {
		t.Fatalf("ParseAssignments failed: %v", err)
	}
	got := Defaults().Merge(p)
	if got.Port != "7000" || !got.ShowPerformance || got.PerformancePath != "performance" {
		t.Errorf("unexpected merge result: %+v", got)
	}

	if _, err := ParseAssignments([]string{"port"}); err == nil {
		t.Error("expected error for missing '='")
	}
	if _, err := ParseAssignments([]string{"colour=blue"}); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := ParseAssignments([]string{"showCgan=maybe"}); err == nil {
		t.Error("expected error for bad bool")
	}
}

func TestDecodeRejectsCorruptRecords(t *testing.T) {
	bad := []string{
		``,
		`{not json`,
		`null`,
		`[]`,
		`{"port": 5000}`,
		`{"showCgan": "yes"}`,
		`{"port": "50a0"}`,
		`{"url": "localhost"}`,
		`{"url": "http://host/extra"}`,
		`{"cganPath": "cgan video"}`,
	}
	for _, raw := range bad {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Errorf("Decode(%q) should fail", raw)
		}
	}
}

func TestDecodeOlderRecordOverlaysDefaults(t *testing.T) {
	// Records written before the visibility flags existed.
	raw := `{"url":"http://lab","port":"6000","createPath":"create-videos","cganPath":"cgan-video","cvaePath":"cvae-video","fusedPath":"fuse-video"}`
	got, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := Defaults()
	want.URL = "http://lab"
	want.Port = "6000"
	if got != want {
		t.Errorf("Decode = %+v, want %+v", got, want)
	}
}

func TestLoadCorruptedReturnsExactDefaults(t *testing.T) {
	p := newMemPersister()
	p.values[StorageKey] = `{"url":"http://evil","port":12}`

	got := NewStore(p).Load()
	if got != Defaults() {
		t.Errorf("Load after corruption = %+v, want defaults", got)
	}
}

func TestLoadMissingWritesThroughDefaults(t *testing.T) {
	p := newMemPersister()

	got := NewStore(p).Load()
	if got != Defaults() {
		t.Errorf("Load = %+v, want defaults", got)
	}
	if _, ok := p.values[StorageKey]; !ok {
		t.Error("expected defaults to be written through")
	}
}

func TestLoadReadErrorIsSilent(t *testing.T) {
	p := newMemPersister()
	p.getErr = errors.New("disk on fire")

	if got := NewStore(p).Load(); got != Defaults() {
		t.Errorf("Load = %+v, want defaults", got)
	}
}

func TestApplyPersistsAndReloads(t *testing.T) {
	p := newMemPersister()
	s := NewStore(p)
	s.Load()

	next, err := s.Apply(Partial{URL: strPtr("http://gpu"), ShowFused: boolPtr(false)})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if next.URL != "http://gpu" || next.ShowFused || next.Port != "5000" {
		t.Errorf("unexpected record: %+v", next)
	}
	if s.Current() != next {
		t.Error("Current should match Apply result")
	}

	reloaded := NewStore(p).Load()
	if reloaded != next {
		t.Errorf("reloaded = %+v, want %+v", reloaded, next)
	}
}

func TestApplyPersistErrorStillUpdatesMemory(t *testing.T) {
	p := newMemPersister()
	s := NewStore(p)
	s.Load()
	p.putErr = errors.New("read-only")

	next, err := s.Apply(Partial{Port: strPtr("1234")})
	if err == nil || !strings.Contains(err.Error(), "persist config") {
		t.Fatalf("expected persist error, got %v", err)
	}
	if next.Port != "1234" || s.Current().Port != "1234" {
		t.Errorf("in-memory record not updated: %+v", s.Current())
	}
}

func TestApplyRejectsInvalidRecord(t *testing.T) {
	p := newMemPersister()
	s := NewStore(p)
	s.Load()
	puts := p.puts

	got, err := s.Apply(Partial{Port: strPtr("http")})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if got != Defaults() || s.Current() != Defaults() {
		t.Errorf("invalid change should not apply: %+v", s.Current())
	}
	if p.puts != puts {
		t.Error("invalid change should not be persisted")
	}
	if err := Validate(Defaults()); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestApplyWithoutLoadReadsFirst(t *testing.T) {
	p := newMemPersister()
	p.values[StorageKey] = `{"url":"http://saved"}`

	next, err := NewStore(p).Apply(Partial{Port: strPtr("1")})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if next.URL != "http://saved" {
		t.Errorf("Apply should build on the persisted record, got %+v", next)
	}
}

func TestReset(t *testing.T) {
	p := newMemPersister()
	s := NewStore(p)
	s.Apply(Partial{Port: strPtr("1")})

	got, err := s.Reset()
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if got != Defaults() || NewStore(p).Load() != Defaults() {
		t.Error("Reset should persist defaults")
	}
}

func TestFingerprint(t *testing.T) {
	a := Defaults()
	b := Defaults()
	if Fingerprint(a) == "" || Fingerprint(a) != Fingerprint(b) {
		t.Error("identical records should share a fingerprint")
	}
	b.ShowPerformance = true
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("different records should not share a fingerprint")
	}
}

func TestKindMapping(t *testing.T) {
	c := Defaults()
	c.PerformancePath = "performance"
	c.ShowPerformance = true
	c.ShowCVAE = false

	if c.PathFor(KindCVAE) != "cvae-video" || c.Shows(KindCVAE) {
		t.Error("cvae mapping wrong")
	}
	if c.PathFor(KindMetrics) != "performance" || !c.Shows(KindMetrics) {
		t.Error("metrics mapping wrong")
	}
	if KindMetrics.IsVideo() || !KindFused.IsVideo() {
		t.Error("IsVideo wrong")
	}
}
