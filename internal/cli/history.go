package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mrlokans/h2o/internal/config"
	"github.com/mrlokans/h2o/internal/entities"
	"github.com/mrlokans/h2o/internal/entrypoint"
)

// HistoryStore lists send events.
type HistoryStore interface {
	GetEvents(limit, offset int) ([]entities.SendEvent, int64, error)
	GetEventsByAction(action entities.SendAction, limit, offset int) ([]entities.SendEvent, int64, error)
}

// HistoryCommand prints the most recent send actions.
type HistoryCommand struct {
	Limit  int
	Action string

	cfg *config.Config
	out io.Writer
}

func NewHistoryCommand(cfg *config.Config) *HistoryCommand {
	return &HistoryCommand{cfg: cfg, out: os.Stdout}
}

func (cmd *HistoryCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)

	fs.IntVar(&cmd.Limit, "limit", 20, "Number of events to show")
	fs.StringVar(&cmd.Action, "action", "", "Only show one action (send_new, send_all, resend, send_books, preview)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s history [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show recent send actions, most recent first.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Limit <= 0 {
		return fmt.Errorf("invalid limit %d", cmd.Limit)
	}
	return nil
}

func (cmd *HistoryCommand) Run() error {
	app, err := entrypoint.NewApp(cmd.cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return cmd.run(app.History)
}

func (cmd *HistoryCommand) run(store HistoryStore) error {
	var (
		events []entities.SendEvent
		total  int64
		err    error
	)
	if cmd.Action != "" {
		events, total, err = store.GetEventsByAction(entities.SendAction(cmd.Action), cmd.Limit, 0)
	} else {
		events, total, err = store.GetEvents(cmd.Limit, 0)
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(events) == 0 {
		fmt.Fprintln(cmd.out, "No send history")
		return nil
	}

	w := tabwriter.NewWriter(cmd.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tTRIGGER\tHIGHLIGHTS\tNOTES\tSTATUS")
	for _, e := range events {
		status := string(e.Status)
		if e.ErrorMsg != "" {
			status += ": " + e.ErrorMsg
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Action, e.Trigger, e.Highlights, e.Notes, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if total > int64(len(events)) {
		fmt.Fprintf(cmd.out, "(%d of %d events)\n", len(events), total)
	}
	return nil
}
