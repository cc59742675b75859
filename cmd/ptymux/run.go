package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/pranshuparmar/ptymux/internal/child"
	"github.com/pranshuparmar/ptymux/internal/config"
	"github.com/pranshuparmar/ptymux/internal/logging"
	"github.com/pranshuparmar/ptymux/internal/mux"
	"github.com/pranshuparmar/ptymux/internal/term"
	"github.com/pranshuparmar/ptymux/internal/tui"
)

var (
	flagVerbose    bool
	flagRaw        bool
	flagNoColor    bool
	flagScrollback int
	flagLog        string
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- command [args...]",
	Short: "Run a command under the output multiplexer",
	Example: `  ptymux run -- apt-get install hello
  ptymux run --verbose -- dpkg --configure -a
  ptymux run --raw -- apt-get dist-upgrade`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMultiplexer,
}

func init() {
	runCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "print plain lines instead of the live display")
	runCmd.Flags().BoolVar(&flagRaw, "raw", false, "pass all child output through untouched")
	runCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "disable colors")
	runCmd.Flags().IntVar(&flagScrollback, "scrollback", tui.DefaultHeight, "live display height, spinner row included")
	runCmd.Flags().StringVar(&flagLog, "log", "", "raw transcript log file")
	rootCmd.AddCommand(runCmd)
}

func runMultiplexer(cmd *cobra.Command, args []string) error {
	opts, err := config.FromEnv()
	if err != nil {
		return err
	}
	fl := cmd.Flags()
	if fl.Changed("verbose") {
		opts.Verbose = flagVerbose
	}
	if fl.Changed("raw") {
		opts.Raw = flagRaw
	}
	if fl.Changed("no-color") {
		opts.NoColor = flagNoColor
	}
	if fl.Changed("scrollback") {
		opts.Scrollback = flagScrollback
	}
	if fl.Changed("log") {
		opts.LogPath = flagLog
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	tty := os.Stdin
	if !term.IsTerminal(tty) {
		if !opts.Raw && !opts.Verbose {
			return fmt.Errorf("stdin is not a terminal; use --verbose or --raw for non-interactive runs")
		}
		tty = nil
	}
	if opts.NoColor || !term.IsTerminal(os.Stdout) {
		tui.DisableColor()
		opts.NoColor = true
	}

	// The transcript is best effort: an unwritable log never blocks an
	// install.
	log, lerr := logging.New(opts.LogPath)
	if lerr != nil {
		log = logging.Nop()
	}
	defer log.Sync()

	var display mux.Display = mux.NopDisplay{}
	if !opts.Verbose && !opts.Raw {
		display = tui.NewScroll(os.Stdout, opts.Scrollback)
	}

	var ctrl mux.Terminal = mux.NopTerminal{}
	if tty != nil {
		ctrl = term.NewController(tty)
	}

	m := mux.New(opts, log, display, ctrl, os.Stdin, os.Stdout, tty)

	runner := child.RunnerFunc(func() *exec.Cmd {
		return exec.Command(args[0], args[1:]...)
	})
	code, err := m.Run(runner)
	if err != nil {
		return err
	}
	exitCode = code
	return nil
}
