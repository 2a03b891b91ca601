package history

import (
	"strings"
	"testing"
)

func setupTestDir(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestSave_SingleEntry(t *testing.T) {
	setupTestDir(t)

	err := Save(Entry{Query: "what is a goroutine", Model: "gpt", Answer: "A goroutine is...", Success: true})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := Load(10)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Query != "what is a goroutine" {
		t.Errorf("unexpected query: %q", entries[0].Query)
	}
	if entries[0].Model != "gpt" {
		t.Errorf("unexpected model: %q", entries[0].Model)
	}
	if !entries[0].Success {
		t.Error("expected success=true")
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}

func TestSave_TruncatesLongAnswers(t *testing.T) {
	setupTestDir(t)

	long := strings.Repeat("x", maxAnswerLen+500)
	if err := Save(Entry{Query: "q", Model: "claude", Answer: long}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := Load(1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries[0].Answer) > maxAnswerLen+len("…") {
		t.Errorf("answer not truncated: %d chars", len(entries[0].Answer))
	}
}

func TestLoad_LimitKeepsMostRecent(t *testing.T) {
	setupTestDir(t)

	for _, q := range []string{"first", "second", "third"} {
		if err := Save(Entry{Query: q, Model: "llama"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := Load(2)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Query != "second" || entries[1].Query != "third" {
		t.Errorf("expected the two most recent entries, got %v", entries)
	}
}

func TestLoad_EmptyHistory(t *testing.T) {
	setupTestDir(t)

	entries, err := Load(10)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}
