package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mrlokans/h2o/internal/config"
	"github.com/mrlokans/h2o/internal/entrypoint"
	"github.com/mrlokans/h2o/internal/settingsstore"
)

const (
	settingsShow  = "show"
	settingsSet   = "set"
	settingsReset = "reset"
)

// SettingsStore is the part of the preference store the command uses.
type SettingsStore interface {
	All() ([]settingsstore.SettingInfo, error)
	Set(values map[string]string) error
	Reset(keys ...string) error
}

// SettingsCommand shows and changes the stored preferences.
type SettingsCommand struct {
	Action string
	Values map[string]string // for set
	Keys   []string          // for reset

	cfg *config.Config
	out io.Writer
}

func NewSettingsCommand(cfg *config.Config) *SettingsCommand {
	return &SettingsCommand{cfg: cfg, out: os.Stdout}
}

func (cmd *SettingsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s settings [show | set key=value ... | reset [key ...]]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show or change preferences. Stored preferences override the\n")
		fmt.Fprintf(os.Stderr, "environment, which overrides the defaults. 'reset' without keys\n")
		fmt.Fprintf(os.Stderr, "resets everything except the send times.\n\n")
		fmt.Fprintf(os.Stderr, "Keys:\n")
		for _, key := range settingsstore.Keys() {
			fmt.Fprintf(os.Stderr, "  %s\n", key)
		}
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s settings set vault_name=Notes sort_key=timestamp\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s settings set 'title_format=Reading/{title}'\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s settings reset sort_key\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	return cmd.parseArgs(fs.Args())
}

func (cmd *SettingsCommand) parseArgs(args []string) error {
	cmd.Action = settingsShow
	if len(args) > 0 {
		cmd.Action = args[0]
		args = args[1:]
	}

	switch cmd.Action {
	case settingsShow:
		if len(args) > 0 {
			return errors.New("show takes no arguments")
		}
	case settingsSet:
		if len(args) == 0 {
			return errors.New("set needs at least one key=value")
		}
		cmd.Values = make(map[string]string, len(args))
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok || key == "" {
				return fmt.Errorf("expected key=value, got %q", arg)
			}
			cmd.Values[key] = unescapeValue(value)
		}
	case settingsReset:
		if len(args) > 0 {
			cmd.Keys = args
		}
	default:
		return fmt.Errorf("unknown settings action %q", cmd.Action)
	}
	return nil
}

// unescapeValue turns \n and \t into newlines and tabs, so multi-line
// templates can be set from a shell.
func unescapeValue(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	if unquoted, err := strconv.Unquote(`"` + strings.ReplaceAll(value, `"`, `\"`) + `"`); err == nil {
		return unquoted
	}
	return value
}

func (cmd *SettingsCommand) Run() error {
	app, err := entrypoint.NewApp(cmd.cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return cmd.run(app.Settings)
}

func (cmd *SettingsCommand) run(store SettingsStore) error {
	switch cmd.Action {
	case settingsSet:
		if err := store.Set(cmd.Values); err != nil {
			return err
		}
		fmt.Fprintf(cmd.out, "Saved %d settings\n", len(cmd.Values))
	case settingsReset:
		if err := store.Reset(cmd.Keys...); err != nil {
			return err
		}
		if len(cmd.Keys) == 0 {
			fmt.Fprintln(cmd.out, "Reset all settings")
		} else {
			fmt.Fprintf(cmd.out, "Reset %s\n", strings.Join(cmd.Keys, ", "))
		}
	}

	return printSettings(cmd.out, store)
}

func printSettings(out io.Writer, store SettingsStore) error {
	infos, err := store.All()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Key, strconv.Quote(info.Value), info.Source)
	}
	return w.Flush()
}
