package store_test

import (
	"context"
	"testing"

	"logsnap/internal/scan"
	"logsnap/internal/tailer"
	"logsnap/internal/testsupport"
)

func TestOpenInitializesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	count, err := st.CountLines(context.Background())
	if err != nil {
		t.Fatalf("CountLines failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("new store has %d lines, want 0", count)
	}

	meta, err := st.LastRefresh(context.Background())
	if err != nil {
		t.Fatalf("LastRefresh failed: %v", err)
	}
	if meta != nil {
		t.Fatalf("expected no refresh metadata, got %+v", meta)
	}
}

func TestReplaceLinesIsWholesale(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	window := tailer.Window{Path: "/var/log/app.log", TotalSize: 100, Offset: 50, Length: 50}
	first := []scan.Line{
		{Index: 1, Text: "old one"},
		{Index: 2, Text: "old two"},
		{Index: 3, Text: "old three"},
	}
	if err := st.ReplaceLines(ctx, window, scan.Stats{LineCount: 3, MaxLineLength: 9}, first); err != nil {
		t.Fatalf("ReplaceLines failed: %v", err)
	}

	second := []scan.Line{{Index: 1, Text: "new one"}}
	if err := st.ReplaceLines(ctx, window, scan.Stats{LineCount: 1, MaxLineLength: 7}, second); err != nil {
		t.Fatalf("second ReplaceLines failed: %v", err)
	}

	lines, err := st.Lines(ctx, 0)
	if err != nil {
		t.Fatalf("Lines failed: %v", err)
	}
	if len(lines) != 1 || lines[0].Text != "new one" || lines[0].Index != 1 {
		t.Fatalf("expected wholesale replacement, got %#v", lines)
	}
}

func TestReplaceLinesRecordsRefreshMetadata(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	window := tailer.Window{Path: "/var/log/app.log", TotalSize: 15, Offset: 6, Length: 9}
	lines := []scan.Line{{Index: 1, Text: "CCCC"}}
	if err := st.ReplaceLines(ctx, window, scan.Stats{LineCount: 2, MaxLineLength: 4}, lines); err != nil {
		t.Fatalf("ReplaceLines failed: %v", err)
	}

	meta, err := st.LastRefresh(ctx)
	if err != nil {
		t.Fatalf("LastRefresh failed: %v", err)
	}
	if meta == nil {
		t.Fatal("expected refresh metadata")
	}
	if meta.FilePath != window.Path || meta.LineCount != 1 || meta.MaxLineLength != 4 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if meta.Window.Offset != 6 || meta.Window.Length != 9 || meta.Window.TotalSize != 15 {
		t.Fatalf("unexpected window metadata: %+v", meta.Window)
	}
	if meta.RefreshedAt.IsZero() {
		t.Fatal("RefreshedAt not recorded")
	}
}

func TestRefreshHistoryNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	window := tailer.Window{Path: "a.log", TotalSize: 10, Length: 10}
	for i := 1; i <= 3; i++ {
		lines := make([]scan.Line, i)
		for j := range lines {
			lines[j] = scan.Line{Index: j + 1, Text: "x"}
		}
		if err := st.ReplaceLines(ctx, window, scan.Stats{LineCount: i}, lines); err != nil {
			t.Fatalf("ReplaceLines %d failed: %v", i, err)
		}
	}

	history, err := st.RefreshHistory(ctx, 2)
	if err != nil {
		t.Fatalf("RefreshHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d entries, want 2", len(history))
	}
	if history[0].LineCount != 3 || history[1].LineCount != 2 {
		t.Fatalf("history out of order: %+v", history)
	}
}

func TestLinesLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	lines := []scan.Line{
		{Index: 1, Text: "one"},
		{Index: 2, Text: "two"},
		{Index: 3, Text: "three"},
	}
	if err := st.ReplaceLines(ctx, tailer.Window{Path: "a.log"}, scan.Stats{LineCount: 3}, lines); err != nil {
		t.Fatalf("ReplaceLines failed: %v", err)
	}

	limited, err := st.Lines(ctx, 2)
	if err != nil {
		t.Fatalf("Lines failed: %v", err)
	}
	if len(limited) != 2 || limited[0].Text != "one" || limited[1].Text != "two" {
		t.Fatalf("unexpected limited result: %#v", limited)
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.ReplaceLines(ctx, tailer.Window{Path: "a.log"}, scan.Stats{LineCount: 1},
		[]scan.Line{{Index: 1, Text: "survives"}}); err != nil {
		t.Fatalf("ReplaceLines failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	st2 := testsupport.MustOpenStore(t, cfg)
	lines, err := st2.Lines(ctx, 0)
	if err != nil {
		t.Fatalf("Lines after reopen failed: %v", err)
	}
	if len(lines) != 1 || lines[0].Text != "survives" {
		t.Fatalf("data lost across reopen: %#v", lines)
	}
}
