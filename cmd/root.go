package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/nuralexjig/jtool/conan"
	"github.com/nuralexjig/jtool/init_proj"
	"github.com/nuralexjig/jtool/meta"
	"github.com/nuralexjig/jtool/terminal"
	"github.com/nuralexjig/jtool/trace"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.1"
	Author  = "nuralex.jig"
)

// Exit codes, by error kind.
const (
	exitSuccess       = 0
	exitFailure       = 1
	exitMissingArg    = 2
	exitUnsupported   = 3
	exitResolver      = 4
	exitSerialization = 5
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, terminal.ErrMissingArgument):
		return exitMissingArg
	case errors.Is(err, terminal.ErrUnsupported):
		return exitUnsupported
	case errors.Is(err, conan.ErrResolver):
		return exitResolver
	case errors.Is(err, meta.ErrSerialization):
		return exitSerialization
	}
	return exitFailure
}

func indent(indentation string, t string) string {
	// indent every line by indentation
	t = strings.TrimSpace(t)
	lines := strings.Split(t, "\n")
	for i, line := range lines {
		lines[i] = indentation + strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

func isHelp(args []string) bool {
	return len(args) > 0 && (args[0] == "-h" || args[0] == "--help" || args[0] == "help")
}

func isVersion(args []string) bool {
	return len(args) == 1 && (args[0] == "-v" || args[0] == "--version")
}

func banner() string {
	return fmt.Sprintf("jtool version %s, author %s", Version, Author)
}

// newTerminal wires a Terminal from settings.
func newTerminal(s *settings, reporter *trace.Trace) *terminal.Terminal {
	reporter.SetDebug(s.Debug)
	resolver := conan.New(s.Config.Conan.Binary, s.Config.Conan.Remote, s.Config.Conan.TimeoutDuration())
	resolver.Log = reporter.Logger()
	return &terminal.Terminal{
		Resolver: resolver,
		Skeleton: &init_proj.Skeleton{
			CxxStandard:  s.Config.CxxStandard,
			CMakeMinimum: s.Config.CMakeMinimum,
		},
		Reporter: reporter,
		Banner:   banner(),
	}
}

// run interprets args (without the executable) as if invoked as exe.
func run(ctx context.Context, exe string, args []string, stdin io.Reader, reporter *trace.Trace) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	term := newTerminal(s, reporter)
	log := reporter.Logger()
	log.Debug().Str("config", s.Path).Int("arguments", len(args)).Msg("starting jtool " + Version)
	return term.Run(ctx, append([]string{exe}, args...), stdin)
}

// rootCmd represents the base command; arguments are interpreted by jtool
// itself rather than by cobra.
var rootCmd = &cobra.Command{
	Use:   "jtool [. | <path> | add <name> | reload]",
	Short: "Scaffold C++ projects and manage their conan dependencies",
	Long: `jtool creates CMake project skeletons and keeps their conan dependencies in
sync with project.json.

With no arguments, jtool reads commands from standard input, one per line,
until "quit".`,
	Version:            Version,
	SilenceUsage:       true,
	SilenceErrors:      true,
	DisableFlagParsing: true,
	Args:               cobra.ArbitraryArgs,
	Example: indent("  ", `
jtool ./engine --name=engine
jtool add boost --version=1.83.0 --path=./engine
jtool add fmt --path=./engine
jtool reload --path=./engine
`),
	RunE: func(cmd *cobra.Command, args []string) error {
		if isHelp(args) {
			return cmd.Help()
		}
		if isVersion(args) {
			fmt.Fprintln(cmd.OutOrStdout(), banner())
			return nil
		}
		reporter := trace.New(cmd.ErrOrStderr(), trace.NoColor(cmd.ErrOrStderr()))
		exe, err := os.Executable()
		if err != nil {
			err = fmt.Errorf("could not determine executable path: %w", err)
			reporter.Error(err.Error())
			return err
		}
		if err := run(cmd.Context(), exe, args, cmd.InOrStdin(), reporter); err != nil {
			reporter.Error(err.Error())
			return err
		}
		return nil
	},
}

// Execute runs the root command and exits with a status describing the
// failure, if any. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(exitCode(err))
	}
}
