package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mrlokans/h2o/internal/config"
	"github.com/mrlokans/h2o/internal/entities"
	"github.com/mrlokans/h2o/internal/entrypoint"
	"github.com/mrlokans/h2o/internal/sender"
)

// SendCommand sends highlights from the calibre library to Obsidian.
type SendCommand struct {
	All     bool
	Resend  bool
	Books   []int64
	OnlyNew bool
	DryRun  bool

	cfg *config.Config
	out io.Writer
}

func NewSendCommand(cfg *config.Config) *SendCommand {
	return &SendCommand{cfg: cfg, out: os.Stdout}
}

func (cmd *SendCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)

	var books string
	fs.BoolVar(&cmd.All, "all", false, "Send every highlight, not only those made since the last send")
	fs.BoolVar(&cmd.Resend, "resend", false, "Send the highlights of the previous send again")
	fs.StringVar(&books, "books", "", "Comma-separated calibre book ids to send highlights of")
	fs.BoolVar(&cmd.OnlyNew, "new", false, "With -books, send only highlights made since the last send")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Print the notes that would be sent without sending them")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s send [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Send calibre highlights to Obsidian. Without options, sends the\n")
		fmt.Fprintf(os.Stderr, "highlights made since the last send.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Send new highlights:\n")
		fmt.Fprintf(os.Stderr, "  %s send\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Send new highlights of two books:\n")
		fmt.Fprintf(os.Stderr, "  %s send -books 12,40 -new\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Show what 'send -all' would create:\n")
		fmt.Fprintf(os.Stderr, "  %s send -all -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if cmd.Books, err = parseBookIDs(books); err != nil {
		return err
	}
	return cmd.validate()
}

func (cmd *SendCommand) validate() error {
	modes := 0
	for _, set := range []bool{cmd.All, cmd.Resend, len(cmd.Books) > 0} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return errors.New("-all, -resend and -books cannot be combined")
	}
	if cmd.OnlyNew && len(cmd.Books) == 0 {
		return errors.New("-new only applies to -books")
	}
	if cmd.DryRun && (cmd.Resend || len(cmd.Books) > 0) {
		return errors.New("-dry-run works with new highlights or -all only")
	}
	return nil
}

func (cmd *SendCommand) Run() error {
	source, err := entrypoint.NewLibrarySource(cmd.cfg.Calibre)
	if err != nil {
		return fmt.Errorf("failed to open calibre library: %w", err)
	}
	launcher, err := entrypoint.NewLauncher(cmd.cfg.Obsidian)
	if err != nil {
		return err
	}

	app, err := entrypoint.NewApp(cmd.cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return cmd.send(app.NewSender(source, launcher))
}

func (cmd *SendCommand) send(s *sender.Service) error {
	var (
		result *sender.Result
		err    error
	)
	switch {
	case cmd.DryRun:
		result, err = s.Preview(sender.TriggerCLI, !cmd.All)
	case cmd.All:
		result, err = s.SendAll(sender.TriggerCLI)
	case cmd.Resend:
		result, err = s.Resend(sender.TriggerCLI)
	case len(cmd.Books) > 0:
		result, err = s.SendBooks(sender.TriggerCLI, cmd.Books, cmd.OnlyNew)
	default:
		result, err = s.SendNew(sender.TriggerCLI)
	}

	if result != nil {
		printResult(cmd.out, result)
	}
	return err
}

func printResult(out io.Writer, result *sender.Result) {
	if len(result.Preview) > 0 {
		printNotes(out, result.Preview)
	}

	if result.Highlights == 0 {
		fmt.Fprintln(out, "No highlights to send")
		return
	}
	if result.Action == entities.SendActionPreview {
		fmt.Fprintf(out, "%d highlights would be sent as %d notes\n", result.Highlights, result.Notes)
		return
	}
	fmt.Fprintf(out, "Sent %d highlights: %d/%d notes delivered\n", result.Highlights, result.Delivered, result.Notes)
}

// parseBookIDs parses a comma-separated list of book ids.
func parseBookIDs(value string) ([]int64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid book id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
