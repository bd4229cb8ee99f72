package notify_test

import (
	"bytes"
	"testing"

	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
	"github.com/stretchr/testify/assert"
)

func TestStageSeparatingWriter_SeparatesTitles(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	writer := notify.NewStageSeparatingWriter(&buf)

	notify.Titlef(writer, "🔐", "Check prerequisites...")
	notify.Successf(writer, "prerequisites satisfied")
	notify.Titlef(writer, "🐘", "Deploy postgres...")
	notify.Activityf(writer, "applying k8s/postgres")

	want := "🔐 Check prerequisites...\n" +
		"[SUCCESS] prerequisites satisfied\n" +
		"\n" +
		"🐘 Deploy postgres...\n" +
		"► applying k8s/postgres\n"

	assert.Equal(t, want, buf.String())
}

func TestStageSeparatingWriter_FirstTitleHasNoLeadingNewline(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	writer := notify.NewStageSeparatingWriter(&buf)

	notify.Titlef(writer, "🚀", "Deploy...")

	assert.Equal(t, "🚀 Deploy...\n", buf.String())
	assert.True(t, writer.HasWritten())

	writer.Reset()
	assert.False(t, writer.HasWritten())
}

func TestStageSeparatingWriter_ActivityLinesAreNotTitles(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	writer := notify.NewStageSeparatingWriter(&buf)

	notify.Activityf(writer, "first")
	notify.Activityf(writer, "second")

	assert.Equal(t, "► first\n► second\n", buf.String())
}
