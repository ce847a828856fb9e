package store

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpen(t *testing.T) {
	st := openMemory(t)

	for _, table := range []string{"kv", "words"} {
		var name string
		err := st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("%s table not created: %v", table, err)
		}
	}
}

func TestGetMissingKey(t *testing.T) {
	st := openMemory(t)

	value, ok, err := st.Get("config")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Errorf("expected missing key, got %q", value)
	}
}

func TestPutOverwrites(t *testing.T) {
	st := openMemory(t)

	if err := st.Put("config", `{"port":"5000"}`); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := st.Put("config", `{"port":"8080"}`); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	value, ok, err := st.Get("config")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if value != `{"port":"8080"}` {
		t.Errorf("expected overwritten value, got %q", value)
	}

	var count int
	if err := st.db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signgen.db")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := st.Put("config", "blob"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	st.Close()

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer st.Close()

	value, ok, err := st.Get("config")
	if err != nil || !ok || value != "blob" {
		t.Errorf("expected persisted blob, got %q ok=%v err=%v", value, ok, err)
	}
}

func TestRecordGeneration(t *testing.T) {
	st := openMemory(t)

	if err := st.RecordGeneration("hello", nil); err != nil {
		t.Fatalf("RecordGeneration failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := st.RecordGeneration("thanks", errors.New("boom")); err != nil {
		t.Fatalf("RecordGeneration failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := st.RecordGeneration("hello", nil); err != nil {
		t.Fatalf("RecordGeneration failed: %v", err)
	}

	records, err := st.RecentWords(10)
	if err != nil {
		t.Fatalf("RecentWords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Most recently used first
	if records[0].Word != "hello" {
		t.Errorf("expected hello first, got %q", records[0].Word)
	}
	if records[0].Generations != 2 {
		t.Errorf("expected 2 generations for hello, got %d", records[0].Generations)
	}
	if records[1].LastStatus != "failed" || records[1].LastError != "boom" {
		t.Errorf("unexpected failure record: %+v", records[1])
	}
}

func TestRecentWordsLimit(t *testing.T) {
	st := openMemory(t)

	for _, w := range []string{"a", "b", "c", "d"} {
		if err := st.RecordGeneration(w, nil); err != nil {
			t.Fatal(err)
		}
	}

	records, err := st.RecentWords(2)
	if err != nil {
		t.Fatalf("RecentWords failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestConcurrentPut(t *testing.T) {
	st := openMemory(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := st.Put("config", "v"); err != nil {
				t.Errorf("Put failed: %v", err)
			}
			if _, _, err := st.Get("config"); err != nil {
				t.Errorf("Get failed: %v", err)
			}
		}()
	}
	wg.Wait()
}
