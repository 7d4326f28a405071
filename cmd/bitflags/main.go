package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"bitflags/internal/prof"
	"bitflags/internal/version"
)

// errDiagnostics signals that diagnostics with errors were already printed.
var errDiagnostics = errors.New("declarations have errors")

type app struct {
	v       *viper.Viper
	cfgFile string
	profile *prof.Session
}

func newRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func newApp() *app {
	return &app{v: viper.New()}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bitflags",
		Short: "Generate type-safe Go bitflag types",
		Long: `bitflags reads .flags declaration files and generates Go types with one
constant per flag and a complete set of set-algebra methods.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.initConfig(cmd); err != nil {
				return err
			}
			if err := a.setupLogging(cmd.ErrOrStderr()); err != nil {
				return err
			}
			return a.startProfiling()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.bitflags.toml)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("log-level", "warn", "log level (debug|info|warn|error)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a runtime trace to file")

	cmd.AddCommand(
		a.newGenerateCmd(),
		a.newCheckCmd(),
		a.newTokenizeCmd(),
		newInitCmd(),
		a.newCleanCmd(),
		a.newFixCmd(),
		a.newFmtCmd(),
		a.newVersionCmd(),
	)
	return cmd
}

// execute runs cmd and flushes any profiles, whatever the outcome.
func (a *app) execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if stopErr := a.profile.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	return err
}

func main() {
	a := newApp()
	cmd := a.rootCmd()
	if err := a.execute(cmd); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
