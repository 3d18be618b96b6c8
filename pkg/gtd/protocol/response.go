package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// AckLimit bounds the bytes read while waiting for a TASK acknowledgement.
const AckLimit = 64

var (
	// ErrProtocolViolation is returned when the server reply does not follow
	// the framing rules, e.g. the stream ends before the sentinel line.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrRejected matches any RejectedError.
	ErrRejected = errors.New("task request unsuccessful")
)

// RejectedError is returned when the server answers a TASK request with
// anything other than ACCEPTED.
type RejectedError struct {
	Reply string
}

func (e *RejectedError) Error() string {
	if e.Reply == "" {
		return "task request unsuccessful: empty reply"
	}
	return fmt.Sprintf("task request unsuccessful: server replied %q", e.Reply)
}

// Is makes errors.Is(err, ErrRejected) hold for every RejectedError
func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// Listing holds the task descriptions returned by a LIST request, in the order
// sent by the server.
type Listing struct {
	Tasks []string
}

// Empty reports whether the server has no pending tasks.
func (l Listing) Empty() bool {
	return len(l.Tasks) == 0
}

func (l Listing) String() string {
	return strings.Join(l.Tasks, "\n")
}

// ReadListing reads a LIST reply from r. The reply is complete at the sentinel
// line, which is not part of the result; a sentinel cut short of its newline by
// the end of the stream still counts. A first chunk holding nothing but an
// empty line means there are no tasks; when more data came with it, the empty
// line is a task like any other. At most limit bytes are consumed; a longer
// reply is a protocol violation, as is one that ends before the sentinel.
func ReadListing(r io.Reader, limit int) (Listing, error) {
	var listing Listing

	reader := bufio.NewReader(io.LimitReader(r, int64(limit)+1))
	read := 0

	for first := true; ; first = false {
		line, err := reader.ReadString('\n')
		read += len(line)
		if read > limit {
			return Listing{}, errors.Wrapf(ErrProtocolViolation, "listing exceeds %d bytes", limit)
		}
		if err == io.EOF {
			if line == Sentinel {
				return listing, nil
			}
			return Listing{}, errors.Wrap(ErrProtocolViolation, "listing ended before the sentinel line")
		} else if err != nil {
			return Listing{}, errors.Wrap(err, "reading listing")
		}

		line = strings.TrimSuffix(line, "\n")
		if first && line == "" && reader.Buffered() == 0 {
			return listing, nil
		}
		if line == Sentinel {
			return listing, nil
		}

		listing.Tasks = append(listing.Tasks, line)
	}
}

// ReadAck reads the server answer to a TASK request. It returns nil when the
// server accepted the task and a *RejectedError for any other reply.
func ReadAck(r io.Reader) error {
	reader := bufio.NewReader(io.LimitReader(r, AckLimit))

	reply, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "reading acknowledgement")
	}

	reply = strings.TrimSpace(reply)
	if reply != Accepted {
		return &RejectedError{Reply: reply}
	}

	return nil
}
