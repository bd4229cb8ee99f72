// Package diagnostics prints what an operator needs to see when a stage fails: describe
// output, failing pods and recent logs.
package diagnostics

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
)

// DefaultLogTail is the number of log lines shown per pod.
const DefaultLogTail = 50

// Reporter collects diagnostics best-effort. Collection problems are printed as warnings.
type Reporter struct {
	client  k8s.Client
	writer  io.Writer
	logTail int
}

// NewReporter creates a Reporter. A non-positive logTail selects DefaultLogTail.
func NewReporter(client k8s.Client, writer io.Writer, logTail int) *Reporter {
	if logTail <= 0 {
		logTail = DefaultLogTail
	}

	return &Reporter{client: client, writer: writer, logTail: logTail}
}

// Report prints the describe output of ref (when it names an object), the failing pods of
// ref.Namespace and the log tail of the pods matching selector (when set).
func (r *Reporter) Report(ctx context.Context, ref k8s.ResourceRef, selector string) {
	notify.Titlef(r.writer, "🩺", "Diagnostics for %s...", target(ref, selector))

	if ref.Name != "" {
		r.describe(ctx, ref)
	}

	if summary := k8s.DiagnosePodFailures(ctx, r.client, ref.Namespace); summary != "" {
		notify.Warningf(r.writer, "%s", summary)
	}

	if selector != "" {
		r.logs(ctx, ref.Namespace, selector)
	}
}

func (r *Reporter) describe(ctx context.Context, ref k8s.ResourceRef) {
	out, err := r.client.Describe(ctx, ref)
	if err != nil {
		notify.Warningf(r.writer, "could not describe %s: %v", ref, err)

		return
	}

	notify.Infof(r.writer, "describe %s:", ref)
	writeBlock(r.writer, out)
}

func (r *Reporter) logs(ctx context.Context, namespace, selector string) {
	out, err := r.client.Logs(ctx, namespace, selector, r.logTail)
	if err != nil {
		notify.Warningf(r.writer, "could not read logs of %s: %v", selector, err)

		return
	}

	notify.Infof(r.writer, "last %d log lines of %s:", r.logTail, selector)
	writeBlock(r.writer, out)
}

func target(ref k8s.ResourceRef, selector string) string {
	if ref.Name != "" {
		return ref.String()
	}

	return "pods " + selector
}

func writeBlock(writer io.Writer, text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}

	for line := range strings.SplitSeq(text, "\n") {
		_, _ = fmt.Fprintln(writer, "  "+line)
	}
}
