package media

import (
	"os"
	"testing"

	"github.com/abelbrown/signgen/internal/config"
)

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestReplaceReleasesPreviousWord(t *testing.T) {
	r, err := NewRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	first, err := r.Replace(config.KindCGAN, "hello", []byte("one"))
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if !exists(first.Path) {
		t.Fatal("first handle file missing")
	}

	second, err := r.Replace(config.KindCGAN, "world", []byte("two"))
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if exists(first.Path) {
		t.Error("first word's handle should be released once the second exists")
	}
	if !exists(second.Path) {
		t.Error("second handle file missing")
	}
	if first.ID == second.ID {
		t.Error("handles should have distinct IDs")
	}
	if r.Live() != 1 {
		t.Errorf("Live = %d, want 1", r.Live())
	}
}

func TestKindsAreIndependent(t *testing.T) {
	r, _ := NewRegistry(t.TempDir())
	a, _ := r.Replace(config.KindCGAN, "hello", []byte("a"))
	b, _ := r.Replace(config.KindFused, "hello", []byte("b"))

	if !exists(a.Path) || !exists(b.Path) {
		t.Fatal("handles of different kinds should coexist")
	}

	r.Release(config.KindCGAN)
	if exists(a.Path) || !exists(b.Path) {
		t.Error("Release should only drop its own kind")
	}
	if _, ok := r.Get(config.KindCGAN); ok {
		t.Error("released kind should have no handle")
	}
	if h, ok := r.Get(config.KindFused); !ok || h.Word != "hello" {
		t.Error("fused handle should remain")
	}
}

func TestReleaseAll(t *testing.T) {
	r, _ := NewRegistry(t.TempDir())
	var paths []string
	for _, k := range config.VideoKinds {
		h, err := r.Replace(k, "hello", []byte("x"))
		if err != nil {
			t.Fatalf("Replace(%s) failed: %v", k, err)
		}
		paths = append(paths, h.Path)
	}

	r.ReleaseAll()
	for _, p := range paths {
		if exists(p) {
			t.Errorf("%s still exists after ReleaseAll", p)
		}
	}
	if r.Live() != 0 {
		t.Errorf("Live = %d after ReleaseAll", r.Live())
	}
	r.ReleaseAll()
}
