package notify_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Table(&out, []string{"STAGE", "STATUS"}, [][]string{
		{"namespace", "deployed"},
		{"postgres", "failed (continued)"},
	})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")

	assert.Len(t, lines, 6, "top border, header, separator, two rows, bottom border")
	assert.Contains(t, lines[1], "STAGE")
	assert.Contains(t, lines[3], "namespace")
	assert.Contains(t, lines[4], "failed (continued)")
}

func TestTable_NoRows(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Table(&out, []string{"NAME"}, nil)

	assert.Empty(t, out.String())
}
