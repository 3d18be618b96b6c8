package cmd

import (
	"fmt"
	"io"

	"github.com/szaffarano/gtd/pkg/config"
	"github.com/szaffarano/gtd/pkg/gtd/client"
)

func runList(stdout io.Writer, cfg *config.Config) error {
	listing, err := client.New(cfg).List()
	if err != nil {
		return err
	}

	if listing.Empty() {
		fmt.Fprintln(stdout, "No tasks currently.")
		return nil
	}

	for _, task := range listing.Tasks {
		fmt.Fprintln(stdout, task)
	}

	return nil
}
