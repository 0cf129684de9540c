package notify

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successTag = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorTag   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Render writes one notification as a terminal banner line.
func Render(w io.Writer, n Notification) {
	switch n.Level {
	case LevelError:
		fmt.Fprintf(w, "%s %s\n", errorTag("✗"), n.Message)
	default:
		fmt.Fprintf(w, "%s %s\n", successTag("✓"), n.Message)
	}
}

// WriterSink adapts an io.Writer into a Center sink.
func WriterSink(w io.Writer) func(Notification) {
	return func(n Notification) { Render(w, n) }
}
