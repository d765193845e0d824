// Command cb is the clipboard manager's CLI entry point: it resolves the
// action/selector grammar from argv, builds one Invocation for the run,
// looks up the (action, io-mode) routine, and reports the result.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/berrythewa/clipman-daemon/internal/actions"
	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/config"
	"github.com/berrythewa/clipman-daemon/internal/copyengine"
	"github.com/berrythewa/clipman-daemon/internal/dispatch"
	"github.com/berrythewa/clipman-daemon/internal/gui/x11"
	"github.com/berrythewa/clipman-daemon/internal/logging"
	"github.com/berrythewa/clipman-daemon/internal/progress"
	"github.com/berrythewa/clipman-daemon/internal/searchindex"
	"github.com/berrythewa/clipman-daemon/internal/termio"
)

// rootCmd exists for cobra's usage/help rendering and argument pass-through
// only: the action-token grammar ("<action><selector>") can't be expressed
// as a cobra subcommand tree, so flag parsing is disabled and everything
// after the binary name is re-parsed by parseFlags/resolveActionAndSelector.
var rootCmd = &cobra.Command{
	Use:                "cb [<action><selector>] [items...]",
	Short:              "a filesystem-backed clipboard manager",
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		exitCode = run(args)
		return nil
	},
}

// exitCode carries run's result out of cobra's RunE, which only returns an
// error; main() exits with it directly.
var exitCode int

func main() {
	if x11.IsDaemonInvocation() {
		if err := x11.RunPasteDaemon(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

const bachataArt = "💃 cb bachata mode: there is no clipboard, only dancing.\n"

func run(argv []string) int {
	flags, positionals, err := parseFlags(argv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if flags.Help {
		printUsage()
		return 0
	}
	if flags.Bachata {
		fmt.Fprint(os.Stdout, bachataArt)
		return 0
	}
	if len(positionals) > 0 && positionals[0] == "help" {
		printUsage()
		return 0
	}

	io := termio.Std()
	tty := dispatch.TTYState{StdinIsTTY: io.IsTTYIn(), StdoutIsTTY: io.IsTTYOut()}

	action, selector, items := resolveActionAndSelector(positionals, tty)
	if action.Reserved() {
		fmt.Fprintf(os.Stderr, "%s is not implemented\n", action.Name())
		return 2
	}

	mode := dispatch.GetIOType(action, items, tty, pathExists)
	if err := dispatch.ValidateIOMode(action, mode, items); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	inv, cleanup, err := buildInvocation(flags, selector, io, action, mode)
	if err != nil {
		return reportErr(err)
	}
	defer cleanup()

	routine := routineFor(action, mode)
	if routine == nil {
		fmt.Fprintf(os.Stderr, "%s has no handler for %s mode\n", action.Name(), mode)
		return 2
	}

	deregister := inv.InstallSignalHandler()
	defer deregister()

	inv.Indicator.Start()
	runErr := routine(inv, items)
	inv.Indicator.Stop(true)
	if inv.Indicator.Cancelled() {
		return 130
	}

	if runErr != nil {
		return reportErr(runErr)
	}
	inv.Report()
	if inv.HasFailures() {
		return 1
	}
	return 0
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func reportErr(err error) int {
	fmt.Fprintln(os.Stderr, err)
	if ce, ok := err.(*app.CoreError); ok {
		return ce.ExitCode()
	}
	return 1
}

// twoLetterAliases maps the spec §6 two-letter short flags ("-fc", "-np",
// "-nc") onto their long forms. pflag shorthands are single characters only,
// so these are rewritten before pflag ever sees argv, the same pre-parse
// surgery internal/dispatch's own doc comment describes for the selector
// grammar.
var twoLetterAliases = map[string]string{
	"-fc": "--fast-copy",
	"-np": "--no-progress",
	"-nc": "--no-confirmation",
}

func rewriteTwoLetterAliases(argv []string) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		if long, ok := twoLetterAliases[a]; ok {
			out[i] = long
		} else {
			out[i] = a
		}
	}
	return out
}

// parseFlags runs the spec §6 global-flag grammar through pflag, stopping
// at "--" per the spec's literal-args escape hatch.
func parseFlags(argv []string) (app.Flags, []string, error) {
	fs := pflag.NewFlagSet("cb", pflag.ContinueOnError)
	fs.SetInterspersed(true)

	var flags app.Flags
	fs.BoolVarP(&flags.All, "all", "a", false, "")
	fs.BoolVarP(&flags.FastCopy, "fast-copy", "", false, "")
	fs.StringVarP(&flags.Mime, "mime", "m", "", "")
	fs.BoolVarP(&flags.NoProgress, "no-progress", "", false, "")
	fs.BoolVarP(&flags.NoConfirmation, "no-confirmation", "", false, "")
	fs.StringVarP(&flags.Clipboard, "clipboard", "c", "", "")
	fs.StringVarP(&flags.Entry, "entry", "e", "", "")
	fs.BoolVarP(&flags.Help, "help", "h", false, "")
	fs.BoolVarP(&flags.Bachata, "bachata", "", false, "")

	if err := fs.Parse(rewriteTwoLetterAliases(argv)); err != nil {
		return flags, nil, err
	}
	return flags, fs.Args(), nil
}

// resolveActionAndSelector splits the first positional into its verb and
// selector suffix, resolves the verb via dispatch.MatchVerb, and falls
// back to DefaultAction when no positional was given at all.
func resolveActionAndSelector(positionals []string, tty dispatch.TTYState) (dispatch.Action, dispatch.Selector, []string) {
	if len(positionals) == 0 {
		return dispatch.DefaultAction(!tty.StdinIsTTY, !tty.StdoutIsTTY), dispatch.Selector{}, nil
	}

	first := positionals[0]
	if !dispatch.IsActionToken(first) {
		return dispatch.DefaultAction(!tty.StdinIsTTY, !tty.StdoutIsTTY), dispatch.Selector{}, positionals
	}

	verb, suffix := dispatch.SplitActionToken(first)
	result := dispatch.MatchVerb(verb, nil)
	selector := dispatch.ParseSelector(suffix)

	action := result.Action
	if action == dispatch.ActionUnknown {
		if result.HasSuggestion {
			fmt.Fprintf(os.Stderr, "unknown action %q, did you mean %q?\n", verb, result.Suggestion.Name())
		} else {
			fmt.Fprintf(os.Stderr, "unknown action %q\n", verb)
		}
		os.Exit(2)
	}
	return action, selector, positionals[1:]
}

func buildInvocation(flags app.Flags, selector dispatch.Selector, io termio.IO, action dispatch.Action, mode dispatch.IoMode) (*app.Invocation, func(), error) {
	persistRoot, err := clip.PersistentRoot()
	if err != nil {
		return nil, nil, app.WrapFatal(app.KindInternal, "resolving persistent root", err)
	}

	cfg := config.OverrideFromEnv(mustLoadConfig(persistRoot))
	logger, err := logging.New(filepath.Join(persistRoot, "logs"), false)
	if err != nil {
		logger = logging.Noop()
	}

	gui, err := app.SelectBackend(io, logger.Sugar().Debugf)
	if err != nil {
		logger.Sync()
		return nil, nil, app.WrapFatal(app.KindGui, "selecting GUI backend", err)
	}

	index, err := searchindex.Open(persistRoot)
	if err != nil {
		logger.Sugar().Debugf("search index unavailable: %v", err)
		index = nil
	}

	if flags.Entry != "" {
		selector.Entry = parseEntryFlag(flags.Entry)
	}

	name := selector.ResolveName(flags.Clipboard, defaultClipboardName)

	inv := &app.Invocation{
		Flags:  flags,
		TTY:    io,
		Config: cfg,
		Logger: logger,
		GUI:    gui,
		Index:  index,
		Engine: copyengine.New(!flags.FastCopy),
		Succ:   &progress.Successes{},
		Silent: cfg.Silent,
	}

	if err := inv.OpenClipboard(name, selector.Entry); err != nil {
		gui.Close()
		index.Close()
		logger.Sync()
		return nil, nil, err
	}

	inv.Indicator = progress.New(io.Err, inv.Succ, indicatorKind(action, mode), 0, !flags.NoProgress && !cfg.NoProgress)

	cleanup := func() {
		inv.GUI.Close()
		inv.Close()
		inv.Logger.Sync()
	}
	return inv, cleanup, nil
}

func mustLoadConfig(persistRoot string) config.Config {
	cfg, err := config.Load(persistRoot)
	if err != nil {
		return config.Default()
	}
	return cfg
}

func parseEntryFlag(s string) *uint64 {
	var n uint64
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return nil
	}
	return &n
}

const defaultClipboardName = "0"

func indicatorKind(action dispatch.Action, mode dispatch.IoMode) progress.IOKind {
	switch {
	case mode == dispatch.ModePipe && (action == dispatch.ActionPaste || action == dispatch.ActionCopy || action == dispatch.ActionCut):
		return progress.DisplayBytes
	case mode == dispatch.ModeFile:
		return progress.DisplayPercent
	default:
		return progress.DisplaySpinner
	}
}

func printUsage() {
	fmt.Fprintln(os.Stdout, `cb [<action><selector>] [items...] [flags]

Actions: cut copy paste add remove clear note swap load import export
         history ignore search status info show edit script

Flags:
  -a, --all              apply to every clipboard / wipe everything
      --fast-copy        hardlink files where possible instead of copying
  -m, --mime=<name>      request a specific MIME type
      --no-progress      suppress the spinner
      --no-confirmation  never prompt (collisions, clear --all)
  -c, --clipboard=<name> select a clipboard by name
  -e, --entry=<n>        select a specific history entry
  -h, --help             show this message`)
}

// routineFor builds the (action, io-mode) dispatch table lazily per call;
// it's small enough that a fresh map per invocation costs nothing.
func routineFor(action dispatch.Action, mode dispatch.IoMode) actions.Routine {
	table := map[dispatch.Action]map[dispatch.IoMode]actions.Routine{
		dispatch.ActionCut: {
			dispatch.ModeFile: actions.CutFile,
			dispatch.ModeText: actions.CutText,
			dispatch.ModePipe: actions.CutPipe,
		},
		dispatch.ActionCopy: {
			dispatch.ModeFile: actions.CopyFile,
			dispatch.ModeText: actions.CopyText,
			dispatch.ModePipe: actions.CopyPipe,
		},
		dispatch.ActionAdd: {
			dispatch.ModeFile: actions.AddFile,
			dispatch.ModeText: actions.AddText,
			dispatch.ModePipe: actions.AddPipe,
		},
		dispatch.ActionPaste: {
			dispatch.ModeText: actions.PasteFile,
			dispatch.ModePipe: actions.PastePipe,
		},
		dispatch.ActionRemove: {
			dispatch.ModeText: actions.Remove,
			dispatch.ModePipe: actions.Remove,
		},
		dispatch.ActionClear: {
			dispatch.ModeText: actions.Clear,
			dispatch.ModePipe: actions.Clear,
		},
		dispatch.ActionNote: {
			dispatch.ModeText: actions.Note,
			dispatch.ModePipe: actions.Note,
		},
		dispatch.ActionSwap: {
			dispatch.ModeText: actions.Swap,
			dispatch.ModePipe: actions.Swap,
		},
		dispatch.ActionLoad: {
			dispatch.ModeText: actions.Load,
			dispatch.ModePipe: actions.Load,
		},
		dispatch.ActionImport: {
			dispatch.ModeText: actions.Import,
			dispatch.ModePipe: actions.Import,
		},
		dispatch.ActionExport: {
			dispatch.ModeText: actions.Export,
			dispatch.ModePipe: actions.Export,
		},
		dispatch.ActionHistory: {
			dispatch.ModeText: actions.History,
			dispatch.ModePipe: actions.History,
		},
		dispatch.ActionIgnore: {
			dispatch.ModeText: actions.Ignore,
			dispatch.ModePipe: actions.Ignore,
		},
		dispatch.ActionSearch: {
			dispatch.ModeText: actions.Search,
			dispatch.ModePipe: actions.Search,
		},
		dispatch.ActionStatus: {
			dispatch.ModeText: actions.Status,
			dispatch.ModePipe: actions.Status,
		},
		dispatch.ActionInfo: {
			dispatch.ModeText: actions.Info,
			dispatch.ModePipe: actions.Info,
		},
		dispatch.ActionShow: {
			dispatch.ModeText: actions.Show,
			dispatch.ModePipe: actions.Show,
		},
		dispatch.ActionEdit: {
			dispatch.ModeText: actions.Edit,
			dispatch.ModePipe: actions.Edit,
		},
		dispatch.ActionScript: {
			dispatch.ModeFile: actions.ScriptFile,
			dispatch.ModeText: actions.Script,
			dispatch.ModePipe: actions.ScriptPipe,
		},
	}
	if byMode, ok := table[action]; ok {
		return byMode[mode]
	}
	return nil
}
