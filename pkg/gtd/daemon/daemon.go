package daemon

import (
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// Spawn runs the gtd server command for port and waits until it exits. The
// command may carry its own arguments; the port is appended as the last one.
// A command that runs but fails is not an error, its exit status is returned
// instead. A server terminated by a signal has no exit status and is reported
// as status 1.
func Spawn(command string, port int, stdout, stderr io.Writer) (int, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return 0, errors.New("empty server command")
	}
	args = append(args, strconv.Itoa(port))

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	log.WithFields(log.Fields{
		"command": args[0],
		"port":    port,
	}).Info("Starting gtd server")

	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		status := exitErr.ExitCode()
		if status < 0 {
			log.WithField("state", exitErr.String()).Warn("gtd server terminated by a signal")
			return 1, nil
		}
		log.Debugf("gtd server exited with status %d", status)
		return status, nil
	} else if err != nil {
		return 0, errors.Wrapf(err, "running %s", args[0])
	}

	return 0, nil
}
