package client

import (
	"io"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/szaffarano/gtd/pkg/config"
	"github.com/szaffarano/gtd/pkg/gtd/protocol"
	"github.com/szaffarano/gtd/pkg/gtd/transport"
)

// Client talks to a local gtd-server. Every operation opens its own
// connection, performs a single exchange and closes it.
type Client struct {
	port    int
	timeout time.Duration
	limit   int
}

// New creates a client according to the configuration
func New(cfg *config.Config) *Client {
	return &Client{
		port:    cfg.Port,
		timeout: cfg.Timeout.Duration,
		limit:   cfg.Request.Limit,
	}
}

// List returns the tasks the server has pending.
func (c *Client) List() (protocol.Listing, error) {
	var listing protocol.Listing

	err := c.exchange(protocol.NewListRequest(), func(r io.Reader) (err error) {
		listing, err = protocol.ReadListing(r, c.limit)
		return err
	})

	return listing, err
}

// Submit sends a new task to the server, to be shown after the delay
// described by timeSpec. It returns a *protocol.RejectedError if the server
// did not accept it.
func (c *Client) Submit(timeSpec, body string) error {
	req, err := protocol.NewTaskRequest(timeSpec, body)
	if err != nil {
		return err
	}

	return c.exchange(req, protocol.ReadAck)
}

func (c *Client) exchange(req protocol.Request, read func(io.Reader) error) error {
	ctx := log.WithFields(log.Fields{
		"request": uuid.NewString(),
		"command": req.Command,
		"port":    c.port,
	})

	conn, err := transport.Dial(c.port, c.timeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			ctx.WithError(err).Warn("Error closing connection")
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return errors.Wrap(err, "setting connection deadline")
	}

	for _, frame := range req.Frames() {
		if _, err := conn.Write(frame); err != nil {
			return errors.Wrapf(err, "sending %s request", req.Command)
		}
	}
	ctx.Debug("Request sent")

	if err := read(conn); err != nil {
		ctx.WithError(err).Debug("Exchange failed")
		return err
	}
	ctx.Debug("Exchange finished")

	return nil
}
