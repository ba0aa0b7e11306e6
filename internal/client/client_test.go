package client

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"rwlist/internal/llist"
	"rwlist/internal/logger"
	"rwlist/internal/metrics"
)

func newList(t *testing.T, maxLen int) *llist.List {
	t.Helper()
	l, err := llist.New(llist.Config{Name: "client-test", MaxLen: maxLen})
	if err != nil {
		t.Fatalf("failed to create list: %v", err)
	}
	l.SetLogger(logger.Discard())
	return l
}

func TestDefaultClientConfig(t *testing.T) {
	config := DefaultConfig()

	if config.KeyRange != 1000 {
		t.Errorf("expected KeyRange 1000, got %d", config.KeyRange)
	}
	if err := config.Mix.Validate(); err != nil {
		t.Errorf("default mix should be valid: %v", err)
	}
	if r := config.Mix.WriteRatio(); r != 0.4 {
		t.Errorf("expected write ratio 0.4, got %f", r)
	}
}

func TestMixValidate(t *testing.T) {
	tests := []struct {
		name    string
		mix     Mix
		wantErr bool
	}{
		{"default", DefaultMix(), false},
		{"reads only", Mix{Find: 1}, false},
		{"empty", Mix{}, true},
		{"negative", Mix{Find: 5, Remove: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mix.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMixPick(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	only := Mix{Remove: 3}
	for _i := 0; _i < 100; _i++ {
		if op := only.pick(rng); op != metrics.OpRemove {
			t.Fatalf("expected remove, got %s", op)
		}
	}

	seen := make(map[metrics.Op]int)
	mix := Mix{Find: 1, Insert: 1, Remove: 1, Replace: 1, Count: 1, Next: 1}
	for _i := 0; _i < 6000; _i++ {
		seen[mix.pick(rng)]++
	}
	for _, op := range metrics.AllOps() {
		if seen[op] < 800 {
			t.Errorf("op %s picked only %d times out of 6000", op, seen[op])
		}
	}
}

func TestRandomPayload(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 7, 16} {
		if p := randomPayload(rng, n); len(p) != n {
			t.Errorf("expected payload of %d chars, got %q", n, p)
		}
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := New(newList(t, 0), Config{Mix: Mix{}, KeyRange: -1})

	if c.IsRunning() {
		t.Error("expected client to not be running initially")
	}
	if c.config.Mix != DefaultMix() {
		t.Error("expected invalid mix to fall back to default")
	}
	if c.config.KeyRange != DefaultConfig().KeyRange {
		t.Errorf("expected default key range, got %d", c.config.KeyRange)
	}
}

func TestClientStartStop(t *testing.T) {
	l := newList(t, 0)
	c := New(l, DefaultConfig())
	ctx := context.Background()

	c.Start(ctx)
	if !c.IsRunning() {
		t.Error("expected client to be running after Start")
	}

	time.Sleep(50 * time.Millisecond)

	c.Stop()
	if c.IsRunning() {
		t.Error("expected client to not be running after Stop")
	}
	if c.Metrics().TotalOps() == 0 {
		t.Error("expected some operations to be recorded")
	}
	if err := l.Check(); err != nil {
		t.Errorf("list invariant broken: %v", err)
	}
}

func TestClientRunFor(t *testing.T) {
	c := New(newList(t, 0), DefaultConfig())

	snapshot := c.RunFor(context.Background(), 100*time.Millisecond)

	if snapshot.TotalOps == 0 {
		t.Error("expected some operations")
	}
	if snapshot.Elapsed < 100*time.Millisecond {
		t.Errorf("expected at least 100ms elapsed, got %v", snapshot.Elapsed)
	}
}

func TestClientRunRequests(t *testing.T) {
	config := DefaultConfig()
	config.NumWorkers = 4
	config.Seed = 7
	c := New(newList(t, 0), config)

	snapshot, err := c.RunRequests(context.Background(), 500)
	if err != nil {
		t.Fatalf("RunRequests failed: %v", err)
	}

	if snapshot.TotalOps != 500 {
		t.Errorf("expected exactly 500 operations, got %d", snapshot.TotalOps)
	}
	if c.Issued() != 500 {
		t.Errorf("expected 500 issued, got %d", c.Issued())
	}
}

func TestClientRunRequestsTwice(t *testing.T) {
	config := DefaultConfig()
	config.NumWorkers = 2
	config.Seed = 13
	c := New(newList(t, 0), config)

	if _, err := c.RunRequests(context.Background(), 300); err != nil {
		t.Fatal(err)
	}
	snapshot, err := c.RunRequests(context.Background(), 100)
	if err != nil {
		t.Fatal(err)
	}

	if c.Issued() != 400 {
		t.Errorf("expected 400 issued across both runs, got %d", c.Issued())
	}
	if snapshot.TotalOps != 400 {
		t.Errorf("expected second run to add 100 operations, got %d total", snapshot.TotalOps)
	}
}

func TestClientInsertOnlyFillsKeyRange(t *testing.T) {
	l := newList(t, 0)
	config := Config{NumWorkers: 2, Mix: Mix{Insert: 1}, KeyRange: 10, Seed: 3}
	c := New(l, config)

	if _, err := c.RunRequests(context.Background(), 1000); err != nil {
		t.Fatal(err)
	}

	if n := l.Count(); n != 10 {
		t.Errorf("expected all 10 indices to be present, got %d", n)
	}
	if c.Metrics().Op(metrics.OpInsert).Hits != 1000 {
		t.Errorf("expected 1000 insert hits, got %d", c.Metrics().Op(metrics.OpInsert).Hits)
	}
}

func TestClientBoundedListRecordsErrors(t *testing.T) {
	l := newList(t, 5)
	config := Config{NumWorkers: 2, Mix: Mix{Insert: 1}, KeyRange: 100, Seed: 11}
	c := New(l, config)

	if _, err := c.RunRequests(context.Background(), 300); err != nil {
		t.Fatal(err)
	}

	if l.Count() != 5 {
		t.Errorf("expected list capped at 5, got %d", l.Count())
	}
	if c.Metrics().Errors() == 0 {
		t.Error("expected ErrFull to be recorded as errors")
	}
}

func TestClientWithNoList(t *testing.T) {
	c := New(nil, DefaultConfig())

	c.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	c.Stop()

	if c.Metrics().TotalOps() != 0 {
		t.Errorf("expected 0 operations without a list, got %d", c.Metrics().TotalOps())
	}
}

func TestClientDetectsForeignPayload(t *testing.T) {
	l := newList(t, 0)
	if err := l.InsertOrReplace(0, "unstamped"); err != nil {
		t.Fatal(err)
	}
	c := New(l, Config{NumWorkers: 1, Mix: Mix{Find: 1}, KeyRange: 1, Seed: 5})

	if _, err := c.RunRequests(context.Background(), 20); err != nil {
		t.Fatal(err)
	}

	if c.Corrupted() != 20 {
		t.Errorf("expected every find to fail verification, got %d", c.Corrupted())
	}
	if c.Metrics().Op(metrics.OpFind).Errors != 20 {
		t.Errorf("expected 20 find errors, got %d", c.Metrics().Op(metrics.OpFind).Errors)
	}
}

func TestClientStampedPayloadsVerify(t *testing.T) {
	l := newList(t, 0)
	config := Config{NumWorkers: 4, Mix: Mix{Find: 2, Insert: 1, Replace: 1, Remove: 1}, KeyRange: 20, Seed: 9}
	c := New(l, config)

	if _, err := c.RunRequests(context.Background(), 2000); err != nil {
		t.Fatal(err)
	}

	if c.Corrupted() != 0 {
		t.Errorf("expected no corrupt reads, got %d", c.Corrupted())
	}
	l.Range(func(index int, payload any) bool {
		if err := VerifyPayload(index, payload); err != nil {
			t.Errorf("stored payload failed verification: %v", err)
		}
		return true
	})
}
