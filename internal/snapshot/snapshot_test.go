package snapshot_test

import (
	"testing"

	"logsnap/internal/scan"
	"logsnap/internal/snapshot"
	"logsnap/internal/tailer"
)

func TestStoreStartsEmpty(t *testing.T) {
	store := snapshot.NewStore()

	if lines := store.Lines(); len(lines) != 0 {
		t.Fatalf("expected empty store, got %d lines", len(lines))
	}
	if info := store.Info(); !info.RefreshedAt.IsZero() {
		t.Fatalf("expected zero RefreshedAt before first refresh, got %v", info.RefreshedAt)
	}
}

func TestReplaceOverwritesWholesale(t *testing.T) {
	store := snapshot.NewStore()

	first := []scan.Line{{Index: 1, Text: "old"}}
	store.Replace([]byte("old\n"), first, tailer.Window{TotalSize: 4}, scan.Stats{LineCount: 1})

	second := []scan.Line{{Index: 1, Text: "new one"}, {Index: 2, Text: "new two"}}
	store.Replace([]byte("new one\nnew two\n"), second, tailer.Window{TotalSize: 16}, scan.Stats{LineCount: 2})

	lines := store.Lines()
	if len(lines) != 2 || lines[0].Text != "new one" {
		t.Fatalf("expected replacement generation, got %#v", lines)
	}
	info := store.Info()
	if info.LineCount != 2 || info.RefreshedAt.IsZero() {
		t.Fatalf("unexpected info: %+v", info)
	}
	if string(store.Buffer()) != "new one\nnew two\n" {
		t.Fatalf("unexpected buffer: %q", store.Buffer())
	}
}

func TestLinesReturnsCopy(t *testing.T) {
	store := snapshot.NewStore()
	store.Replace([]byte("a\n"), []scan.Line{{Index: 1, Text: "a"}}, tailer.Window{}, scan.Stats{LineCount: 1})

	lines := store.Lines()
	lines[0].Text = "mutated"

	if got := store.Lines(); got[0].Text != "a" {
		t.Fatalf("store leaked internal slice: %q", got[0].Text)
	}
}
