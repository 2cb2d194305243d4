package state

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Reporter receives the human-readable messages a simulation produces:
// "Please insert coin first!", "Dispensing 4 x 1000 notes", and so on.
type Reporter interface {
	Report(format string, args ...any)
}

// WriterReporter prints one line per message.
type WriterReporter struct {
	W io.Writer
}

func (r WriterReporter) Report(format string, args ...any) {
	fmt.Fprintf(r.W, format+"\n", args...)
}

// ZapReporter logs each message at info level under a fixed name.
type ZapReporter struct {
	Log  *zap.SugaredLogger
	Name string
}

func (r ZapReporter) Report(format string, args ...any) {
	r.Log.Infow(fmt.Sprintf(format, args...), "sim", r.Name)
}

type discard struct{}

func (discard) Report(string, ...any) {}

// Discard drops every message.
var Discard Reporter = discard{}

// Recorder keeps messages in memory. Tests and the network adapters read
// them back after each action.
type Recorder struct {
	Messages []string
}

func (r *Recorder) Report(format string, args ...any) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// Drain returns the recorded messages and clears the buffer.
func (r *Recorder) Drain() []string {
	out := r.Messages
	r.Messages = nil
	return out
}

// Last returns the most recent message, or "".
func (r *Recorder) Last() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1]
}

type tee []Reporter

func (t tee) Report(format string, args ...any) {
	for _, r := range t {
		r.Report(format, args...)
	}
}

// Tee sends every message to each non-nil reporter in order.
func Tee(reporters ...Reporter) Reporter {
	var out tee
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
