package trace

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type decodedEvent struct {
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id"`
	ParentID uint64            `json:"parent_id"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail"`
	Extra    map[string]string `json:"extra"`
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []decodedEvent {
	t.Helper()
	var events []decodedEvent
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var ev decodedEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("bad ndjson line %q: %v", line, err)
		}
		events = append(events, ev)
	}
	return events
}

func TestStreamTracerSpanRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelFile, FormatNDJSON)

	span := Begin(tr, ScopeStage, "parse", 0)
	if span.ID() == 0 {
		t.Fatal("live span must have an ID")
	}
	span.WithExtra("files", "3")
	if dur := span.End("done"); dur < 0 {
		t.Fatalf("negative span duration %v", dur)
	}

	events := decodeLines(t, &buf)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	begin, end := events[0], events[1]
	if begin.Kind != "begin" || begin.Name != "parse" || begin.Scope != "stage" {
		t.Errorf("begin event = %+v", begin)
	}
	if end.Kind != "end" || end.Detail != "done" {
		t.Errorf("end event = %+v", end)
	}
	if end.SpanID != begin.SpanID {
		t.Errorf("span ids differ: %d vs %d", begin.SpanID, end.SpanID)
	}
	if end.Seq <= begin.Seq {
		t.Errorf("sequence did not advance: %d then %d", begin.Seq, end.Seq)
	}
	if end.Extra["files"] != "3" {
		t.Errorf("extra = %v", end.Extra)
	}
}

func TestLevelGatesScopes(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelStage, FormatNDJSON)

	file := Begin(tr, ScopeFile, "data/basic.dv6", 0)
	if file.ID() != 0 {
		t.Error("file span must be inert below LevelFile")
	}
	file.End("")
	if buf.Len() != 0 {
		t.Fatalf("file scope leaked into output: %q", buf.String())
	}

	Begin(tr, ScopeRun, "check", 0).End("")
	if len(decodeLines(t, &buf)) != 2 {
		t.Error("run scope must pass at LevelStage")
	}
}

func TestPointEmitsInstantEvent(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelFile, FormatNDJSON)

	Point(tr, ScopeFile, "data/basic.dv6", "cache hit", 7)

	events := decodeLines(t, &buf)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Kind != "point" || ev.Detail != "cache hit" || ev.ParentID != 7 {
		t.Errorf("point event = %+v", ev)
	}
	if ev.SpanID != 0 {
		t.Errorf("points carry no span id, got %d", ev.SpanID)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"run", LevelRun, false},
		{"stage", LevelStage, false},
		{"file", LevelFile, false},
		{"STAGE", LevelStage, false},
		{"verbose", LevelOff, true},
		{"", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTextFormatShape(t *testing.T) {
	ev := Event{
		Time:   time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Kind:   KindSpanBegin,
		Scope:  ScopeStage,
		SpanID: 1,
		Name:   "parse",
		Detail: "3 files",
		Extra:  map[string]string{"b": "2", "a": "1"},
	}

	line := string(FormatEvent(ev, FormatText))
	if !strings.Contains(line, "> parse (3 files)") {
		t.Errorf("text line = %q", line)
	}
	if !strings.Contains(line, "{a=1, b=2}") {
		t.Errorf("extra keys must be sorted: %q", line)
	}
}

func TestNewRespectsLevelOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Error("LevelOff tracer must be disabled")
	}
}

func TestNewPicksFormatFromExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")

	tr, err := New(Config{Level: LevelRun, OutputPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopeRun, "check", 0).End("")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	first, _, _ := bytes.Cut(data, []byte("\n"))
	if !json.Valid(first) {
		t.Errorf("expected ndjson output, got %q", first)
	}
}
