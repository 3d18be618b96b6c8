package protocol

import (
	"fmt"
	"strings"
)

const (
	// Sentinel is the line that ends a multi-line body in both directions.
	Sentinel = "."
	// EscapedSentinel replaces any body line equal to Sentinel.
	EscapedSentinel = ". "
	// Terminator is written after a task body, as its own write.
	Terminator = "\n" + Sentinel + "\n"
	// Accepted is the acknowledgement sent by the server for a stored task.
	Accepted = "ACCEPTED"
)

// Command is the first word of a request line.
type Command string

const (
	ListCommand Command = "LIST"
	TaskCommand Command = "TASK"
)

// Request is a message sent from the client to gtd-server.
type Request struct {
	// Command is the request verb.
	Command Command
	// TimeSpec is the free-form delay specifier, TASK only.
	TimeSpec string
	// Body is the task message as given by the user, TASK only. It is
	// sanitized when the request is framed.
	Body string
}

// NewListRequest builds the request that asks for the pending tasks.
func NewListRequest() Request {
	return Request{Command: ListCommand}
}

// NewTaskRequest builds a task submission. The time specifier is sent verbatim
// on the request line, so it can't span lines.
func NewTaskRequest(timeSpec, body string) (Request, error) {
	if strings.ContainsAny(timeSpec, "\r\n") {
		return Request{}, fmt.Errorf("time specifier must be a single line: %q", timeSpec)
	}

	return Request{
		Command:  TaskCommand,
		TimeSpec: timeSpec,
		Body:     body,
	}, nil
}

// Frames returns the chunks that make up the request, in order. Each chunk is
// meant to be written separately: for TASK requests the terminator always
// goes out as the last, independent write.
func (r Request) Frames() [][]byte {
	switch r.Command {
	case TaskCommand:
		return [][]byte{
			[]byte(fmt.Sprintf("%s %s\n", TaskCommand, r.TimeSpec)),
			[]byte(Sanitize(r.Body)),
			[]byte(Terminator),
		}
	default:
		return [][]byte{[]byte(string(r.Command) + "\n")}
	}
}

// String makes Request a Stringer
func (r Request) String() string {
	var builder strings.Builder
	for _, frame := range r.Frames() {
		builder.Write(frame)
	}

	return builder.String()
}

// Sanitize escapes every body line equal to the sentinel so the server can't
// take it as the end of the message. The rest of the text, line breaks
// included, is preserved as is. There is no inverse: listings carry the
// escaped form back.
func Sanitize(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if line == Sentinel {
			lines[i] = EscapedSentinel
		}
	}

	return strings.Join(lines, "\n")
}
