package transport

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/apex/log"
)

// Host is the only address gtd talks to, the server always runs locally.
const Host = "127.0.0.1"

// ConnectionError is returned when gtd-server can't be reached.
type ConnectionError struct {
	Port int
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("could not connect to gtd server on port %d (%v): is it running? Try passing the --server flag", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Address returns the loopback address for port
func Address(port int) string {
	return net.JoinHostPort(Host, strconv.Itoa(port))
}

// Dial opens a TCP connection to gtd-server listening on the local port. It
// gives up after timeout and never retries. The caller owns the returned
// connection.
func Dial(port int, timeout time.Duration) (net.Conn, error) {
	if port < 1 || port > 65535 {
		return nil, &ConnectionError{Port: port, Err: fmt.Errorf("invalid port")}
	}

	address := Address(port)
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, &ConnectionError{Port: port, Err: err}
	}

	log.WithField("address", address).Debug("Connected to gtd server")
	return conn, nil
}
