package cmd

import (
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/szaffarano/gtd/pkg/config"
	"github.com/szaffarano/gtd/pkg/gtd/client"
)

// runSubmit sends a new task. Without an inline message the body comes from
// stdin and is echoed to stdout.
func runSubmit(stdin io.Reader, stdout io.Writer, cfg *config.Config, message *string, args []string) error {
	var body string
	if message != nil {
		body = *message
	} else {
		data, err := ioutil.ReadAll(stdin)
		if err != nil {
			return errors.Wrap(err, "reading message from standard input")
		}
		body = string(data)
		fmt.Fprint(stdout, body)
	}

	timeSpec := strings.Join(args, " ")
	if err := client.New(cfg).Submit(timeSpec, body); err != nil {
		return err
	}

	log.WithField("when", timeSpec).Debug("Task accepted")
	return nil
}
