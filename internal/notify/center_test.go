package notify

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestCenter() (*Center, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCenter(8)
	c.SetClock(clk.now)
	return c, clk
}

func TestExactlyOneTerminal(t *testing.T) {
	c, _ := newTestCenter()
	id := c.Start(`Generating "hello"...`)

	if !c.Succeed(id, `Videos for "hello" generated successfully!`) {
		t.Fatal("first close should succeed")
	}
	if c.Fail(id, "Failed to generate videos: late") {
		t.Error("second close should be ignored")
	}
	if c.Succeed("nope", "x") {
		t.Error("unknown id should be ignored")
	}

	vis := c.Visible()
	if len(vis) != 1 || vis[0].Level != Success {
		t.Fatalf("Visible = %+v", vis)
	}

	terminals := 0
	for _, n := range c.History(10) {
		if n.ID == id && n.Level.Terminal() {
			terminals++
		}
	}
	if terminals != 1 {
		t.Errorf("terminal events for id = %d, want 1", terminals)
	}
}

func TestVisibleExpiresTerminalsOnly(t *testing.T) {
	c, clk := newTestCenter()
	open := c.Start("working")
	c.Error("Error loading CGAN video")

	clk.advance(DefaultTTL + time.Second)
	vis := c.Visible()
	if len(vis) != 1 || vis[0].ID != open {
		t.Fatalf("only the open notification should remain: %+v", vis)
	}

	c.Fail(open, "Failed to generate videos: boom")
	if len(c.Visible()) != 1 {
		t.Error("fresh terminal should be visible")
	}
	clk.advance(DefaultTTL)
	if len(c.Visible()) != 0 {
		t.Error("terminal should expire after the TTL")
	}
}

func TestDismiss(t *testing.T) {
	c, _ := newTestCenter()
	c.Start("a")
	c.Info("b")
	c.Error("c")
	c.Dismiss()
	vis := c.Visible()
	if len(vis) != 1 || vis[0].Level != Loading {
		t.Errorf("Dismiss should keep open operations only: %+v", vis)
	}
}

func TestHistoryWraps(t *testing.T) {
	c, _ := newTestCenter()
	for i := 0; i < 12; i++ {
		c.Info(string(rune('a' + i)))
	}
	h := c.History(100)
	if len(h) != 8 {
		t.Fatalf("History len = %d, want 8", len(h))
	}
	if h[0].Text != "e" || h[7].Text != "l" {
		t.Errorf("History = %q..%q, want e..l", h[0].Text, h[7].Text)
	}
	if got := c.History(3); len(got) != 3 || got[2].Text != "l" {
		t.Errorf("History(3) = %+v", got)
	}
}

func TestConcurrentUse(t *testing.T) {
	c := NewCenter(16)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := c.Start("x")
			c.Succeed(id, "y")
			c.Visible()
		}()
	}
	wg.Wait()
	if c.history.len() != 16 {
		t.Errorf("history len = %d, want 16", c.history.len())
	}
}
