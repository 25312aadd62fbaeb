package editor

import (
	"strings"
)

// UILogWriter forwards each written log line to a channel read by the
// EditorModel. Lines are dropped when the channel is full so logging never
// waits on the UI.
type UILogWriter struct {
	ch chan<- string
}

func NewUILogWriter(ch chan<- string) *UILogWriter {
	if ch == nil {
		panic("UILogWriter: channel cannot be nil")
	}
	return &UILogWriter{ch: ch}
}

func (w *UILogWriter) Write(p []byte) (int, error) {
	for _, line := range strings.SplitAfter(string(p), "\n") {
		if line == "" {
			continue
		}
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		select {
		case w.ch <- line:
		default:
		}
	}
	return len(p), nil
}
