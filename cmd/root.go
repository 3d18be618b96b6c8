package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/szaffarano/gtd/pkg/config"
)

const (
	configFlag  = "config"
	dataFlag    = "data"
	quietFlag   = "quiet"
	verboseFlag = "verbose"
	portFlag    = "port"
	timeoutFlag = "timeout"
	listFlag    = "list"
	serverFlag  = "server"
	messageFlag = "message"
)

type flags struct {
	configFile string
	dataDir    string
	quiet      bool
	verbose    bool
	port       int
	timeout    time.Duration

	list    bool
	server  bool
	message string
}

// Version is the app version
type Version struct {
	Version string `json:",omitempty"`
	Commit  string `json:",omitempty"`
	Date    string `json:",omitempty"`
	BuiltBy string `json:",omitempty"`
}

// exitStatus lets a command finish with a specific, non-zero, exit code.
type exitStatus int

func (s exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", int(s))
}

// Execute runs the root command and exits the process with its status
func Execute(version Version) {
	os.Exit(run(version, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(version Version, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(version, stdin, stdout, stderr)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()

	var status exitStatus
	if errors.As(err, &status) {
		return int(status)
	} else if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	return 0
}

func newRootCmd(version Version, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var flags flags

	var buffer bytes.Buffer
	if err := json.NewEncoder(&buffer).Encode(version); err != nil {
		panic("Error building version")
	}

	rootCmd := &cobra.Command{
		Use:           "gtd [flags] [TIME SPECIFIER]",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buffer.String(),
		Args:          cobra.ArbitraryArgs,
		Short:         "Display text or file on standard input after TIME SPECIFIER",
		Long: `Gtd hands a message to the local gtd-server, which shows it back once the
delay given by TIME SPECIFIER has elapsed.

The message is taken from --message or, when absent, from standard input.
Anything read from standard input is echoed to standard output, so gtd can be
used in pipes.

TIME SPECIFIER is sent to the server as is. See the gtd-server documentation
for the ways of specifying the delay before showing the notification.`,
		Example: `  echo "Reminder!" | gtd 30 mins
  gtd -m "stand up" 1 hour
  gtd --list`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log.SetHandler(cli.New(stderr))

			cfgFlags := config.Flags{
				ConfigFile: flags.configFile,
				DataDir:    flags.dataDir,
				Quiet:      flags.quiet,
				Verbose:    flags.verbose,
			}
			if cmd.Flags().Changed(portFlag) {
				cfgFlags.Port = &flags.port
			}
			if cmd.Flags().Changed(timeoutFlag) {
				cfgFlags.Timeout = &flags.timeout
			}

			if err := config.InitConfig(cfgFlags); err != nil {
				return err
			}

			log.Debugf("==== gtd %s - %s - %s ====", version.Version, version.Commit, version.Date)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()

			switch {
			case flags.list && flags.server:
				return fmt.Errorf("--%s and --%s can't be used together", listFlag, serverFlag)
			case flags.list:
				return runList(stdout, cfg)
			case flags.server:
				return runServer(stdout, stderr, cfg)
			}

			var message *string
			if cmd.Flags().Changed(messageFlag) {
				message = &flags.message
			}

			return runSubmit(stdin, stdout, cfg, message, args)
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.PrintErrln(cmd.UsageString())
		return err
	})

	rootCmd.
		PersistentFlags().
		BoolVarP(&flags.quiet, quietFlag, "q", false, "Turns off verbose output")

	rootCmd.
		PersistentFlags().
		BoolVarP(&flags.verbose, verboseFlag, "v", false, "Generates debugging diagnostics")

	rootCmd.
		PersistentFlags().
		StringVar(&flags.configFile, configFlag, "", "Config file (default is $GTDDATA/config or $HOME/.gtd/config)")

	rootCmd.
		PersistentFlags().
		StringVar(&flags.dataDir, dataFlag, "", "Data directory holding the config file")

	rootCmd.
		Flags().
		IntVarP(&flags.port, portFlag, "p", config.DefaultPort, "Port where gtd-server listens")

	rootCmd.
		Flags().
		DurationVar(&flags.timeout, timeoutFlag, config.DefaultTimeout, "Maximum time to wait for the server")

	rootCmd.
		Flags().
		BoolVarP(&flags.list, listFlag, "l", false, "List all upcoming tasks the server should display and exit")

	rootCmd.
		Flags().
		BoolVarP(&flags.server, serverFlag, "s", false, "Start a server instance and exit")

	rootCmd.
		Flags().
		StringVarP(&flags.message, messageFlag, "m", "", "Take the message from the arg list rather than standard input. The message is not echoed back")

	return rootCmd
}
