package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Nomadcxx/tvtools/internal/config"
	"github.com/Nomadcxx/tvtools/internal/reporter"
	"github.com/Nomadcxx/tvtools/internal/ui"
)

var (
	// Version information (set via -ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

const usage = `Usage:
  tvtools <verbs...> [-options:a,b] [-paths:/one,,/two] [-marker:***]
          [-fseparator:" - "] [-eseparator:" - "] [-key:KEY] [-token:TOKEN]
          [-loglevel:info]
  tvtools view <report.json>
  tvtools version

Verbs (combinable, run in this order):
  add_tmdb      save -key: and/or -token: as TMDB credentials
  print_config  print the settings with secrets masked
  organize      move S01E01 style files into season folders
  rename        renumber the files inside numbered season folders
  auto          detect the naming style, convert and organize
  review        like auto, but show the plan and apply it on Enter

Options:
  print     log every rename and move
  noexec    plan only, touch nothing (alias noact)
  doubleep  two episodes per file
  keepep    keep the existing number as the first episode of a pair
  preserve  substitute the marker instead of renumbering
`

var rootCmd = &cobra.Command{
	Use:                "tvtools",
	Short:              "Rename and organize TV episode files",
	Long:               ui.FormatASCIIHeader() + "\n\n" + "tvtools normalizes episode file names to S01E01 and sorts them into season folders.",
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	RunE:               runRoot,
}

var viewCmd = &cobra.Command{
	Use:   "view <report-file>",
	Short: "View a run report in the TUI",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tvtools %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  Commit:     %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  Built:      %s\n", buildTime)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || wantsHelp(args) {
		fmt.Fprintln(cmd.OutOrStdout(), cmd.Long)
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), usage)
		return nil
	}

	parsed := config.ParseArgs(args)
	if len(parsed.Verbs()) == 0 {
		return fmt.Errorf("no verb given, run tvtools --help")
	}

	a, err := newApp(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if code := a.run(ctx, parsed); code != 0 {
		os.Exit(code)
	}
	return nil
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help", "help", "-help":
			return true
		}
	}
	return false
}

func runView(cmd *cobra.Command, args []string) error {
	report, err := reporter.Load(args[0])
	if err != nil {
		return fmt.Errorf("error loading report: %w", err)
	}

	p := tea.NewProgram(ui.NewViewModel(report), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
