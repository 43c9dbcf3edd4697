package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNewSpinner(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Loading")

	if s.w != &buf {
		t.Error("Spinner writer not set correctly")
	}
	if s.message != "Loading" {
		t.Errorf("Spinner message = %q, want 'Loading'", s.message)
	}
	if len(s.frames) == 0 {
		t.Error("Spinner frames should not be empty")
	}
}

func TestSpinner_StartStop(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Processing")

	s.Start()
	s.Start() // second Start is ignored
	time.Sleep(150 * time.Millisecond)
	s.Stop()

	output := buf.String()
	if !strings.Contains(output, "Processing") {
		t.Error("Spinner output should contain message")
	}
	if !strings.HasSuffix(output, "\r\033[K") {
		t.Error("Stop should clear the line")
	}
}

func TestSpinner_Success(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Loading")

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Success("Done!")

	if !strings.HasSuffix(buf.String(), "✓ Done!\n") {
		t.Errorf("Success output = %q", buf.String())
	}
}

func TestSpinner_Fail(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Loading")

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Fail("Error occurred")

	if !strings.HasSuffix(buf.String(), "✗ Error occurred\n") {
		t.Errorf("Fail output = %q", buf.String())
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Test")

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Stop without Start caused panic: %v", r)
		}
	}()
	s.Stop()
	s.Stop()
}
