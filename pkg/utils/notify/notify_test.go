package notify_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
	"github.com/stretchr/testify/assert"
)

var errNotifyWriterFailed = errors.New("write failed")

type staticTimer struct {
	total time.Duration
	stage time.Duration
}

func (staticTimer) Start()    {}
func (staticTimer) NewStage() {}
func (staticTimer) Stop()     {}

func (s staticTimer) GetTiming() (time.Duration, time.Duration) {
	return s.total, s.stage
}

func TestWriteMessage_Prefixes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msgType notify.MessageType
		want    string
	}{
		{name: "error", msgType: notify.ErrorType, want: "[ERROR] hello\n"},
		{name: "warning", msgType: notify.WarningType, want: "[WARNING] hello\n"},
		{name: "success", msgType: notify.SuccessType, want: "[SUCCESS] hello\n"},
		{name: "info", msgType: notify.InfoType, want: "[INFO] hello\n"},
		{name: "activity", msgType: notify.ActivityType, want: "► hello\n"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			notify.WriteMessage(notify.Message{
				Type:    testCase.msgType,
				Content: "hello",
				Writer:  &out,
			})

			assert.Equal(t, testCase.want, out.String())
		})
	}
}

func TestWriteMessage_WithFormatting(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Errorf(&out, "error: %s (%d)", "failed", 42)

	assert.Equal(t, "[ERROR] error: failed (42)\n", out.String())
}

func TestWriteMessage_MultiLineContentIndented(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Infof(&out, "line one\nline two")

	assert.Equal(t, "[INFO] line one\n       line two\n", out.String())
}

func TestWriteMessage_TitleType(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Titlef(&out, "🚀", "Deploy %s...", "postgres")

	assert.Equal(t, "🚀 Deploy postgres...\n", out.String())
}

func TestWriteMessage_TitleType_DefaultEmoji(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.WriteMessage(notify.Message{Type: notify.TitleType, Content: "title", Writer: &out})

	assert.Equal(t, "ℹ️ title\n", out.String())
}

func TestWriteMessage_SuccessRendersTimingBlock(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.SuccessWithTimerf(&out, staticTimer{total: 3 * time.Second, stage: time.Second}, "done")

	assert.Equal(t, "[SUCCESS] done\n⏲ current: 1s\n  total:  3s\n", out.String())
}

func TestWriteMessage_ErrorDoesNotRenderTimingBlock(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.WriteMessage(notify.Message{
		Type:    notify.ErrorType,
		Content: "boom",
		Timer:   staticTimer{total: time.Second, stage: time.Second},
		Writer:  &out,
	})

	assert.NotContains(t, out.String(), "⏲")
}

type failingWriter struct{}

func (failingWriter) Write(_ []byte) (int, error) {
	return 0, errNotifyWriterFailed
}

//nolint:paralleltest // Replaces os.Stderr.
func TestWriteMessage_HandleNotifyError(t *testing.T) {
	origStderr := os.Stderr

	pipeReader, pipeWriter, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	defer func() { _ = pipeReader.Close() }()

	os.Stderr = pipeWriter

	defer func() { os.Stderr = origStderr }()

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "should fallback",
		Writer:  failingWriter{},
	})

	_ = pipeWriter.Close()

	data, readErr := io.ReadAll(pipeReader)
	if readErr != nil {
		t.Fatalf("failed to read stderr: %v", readErr)
	}

	if !strings.Contains(string(data), "notify: failed to print message") {
		t.Fatalf("expected error log, got %q", string(data))
	}
}
