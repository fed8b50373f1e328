package progress

import "testing"

// TestDecodeWellFormedRecord checks the full record shape.
func TestDecodeWellFormedRecord(t *testing.T) {
	event, ok := Decode(`{"stage":"mesh","progress":1.0,"message":"done"}`)
	if !ok {
		t.Fatal("expected a progress event")
	}
	if event.Stage != "mesh" {
		t.Fatalf("stage = %q, want mesh", event.Stage)
	}
	if event.Progress != 1.0 {
		t.Fatalf("progress = %v, want 1.0", event.Progress)
	}
	if event.Message != "done" {
		t.Fatalf("message = %q, want done", event.Message)
	}
}

// TestDecodeMessageIsOptional checks records without a message field.
func TestDecodeMessageIsOptional(t *testing.T) {
	event, ok := Decode(`{"stage":"align","progress":0.5}`)
	if !ok {
		t.Fatal("expected a progress event")
	}
	if event.Stage != "align" || event.Progress != 0.5 {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Message != "" {
		t.Fatalf("message = %q, want empty", event.Message)
	}
}

// TestDecodeRejectsNonRecordLines checks diagnostic text is skipped.
func TestDecodeRejectsNonRecordLines(t *testing.T) {
	lines := []string{
		"",
		"   ",
		"warming up",
		"[colmap] feature extraction pass 1",
		"{not-json",
		`"just a string"`,
		"42",
		`{"progress":0.5}`,
		`{"stage":"align"}`,
		`{"stage":"align","progress":"half"}`,
		`{"stage":7,"progress":0.5}`,
	}

	for _, line := range lines {
		if event, ok := Decode(line); ok {
			t.Fatalf("Decode(%q) = %+v, want not-an-event", line, event)
		}
	}
}

// TestDecodeTrimsSurroundingWhitespace checks padded record lines decode.
func TestDecodeTrimsSurroundingWhitespace(t *testing.T) {
	event, ok := Decode("  {\"stage\":\"train\",\"progress\":0.25}\r")
	if !ok {
		t.Fatal("expected a progress event")
	}
	if event.Stage != "train" || event.Progress != 0.25 {
		t.Fatalf("unexpected event: %+v", event)
	}
}
