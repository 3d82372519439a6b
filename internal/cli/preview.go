package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/h2o/internal/calibre"
	"github.com/mrlokans/h2o/internal/config"
	"github.com/mrlokans/h2o/internal/entities"
	"github.com/mrlokans/h2o/internal/entrypoint"
	"github.com/mrlokans/h2o/internal/formatter"
	"github.com/mrlokans/h2o/internal/obsidian"
	"github.com/mrlokans/h2o/internal/sender"
)

// PreviewCommand prints the notes the current templates produce, reading
// either the calibre library or an exported annotation collection file.
type PreviewCommand struct {
	File    string
	BookID  int64
	Format  string
	Title   string
	Authors string
	OnlyNew bool

	cfg *config.Config
	out io.Writer
}

func NewPreviewCommand(cfg *config.Config) *PreviewCommand {
	return &PreviewCommand{cfg: cfg, out: os.Stdout}
}

func (cmd *PreviewCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)

	fs.StringVar(&cmd.File, "file", "", "Path to a .calibre_annotation_collection file (reads the calibre library if not specified)")
	fs.Int64Var(&cmd.BookID, "book-id", 1, "With -file, the calibre book id used in viewer links")
	fs.StringVar(&cmd.Format, "format", "EPUB", "With -file, the book format used in viewer links")
	fs.StringVar(&cmd.Title, "title", "", "With -file, the book title")
	fs.StringVar(&cmd.Authors, "authors", "", "With -file, comma-separated book authors")
	fs.BoolVar(&cmd.OnlyNew, "new", false, "Only highlights made since the last send")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s preview [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print the notes that would be sent to Obsidian. Nothing is sent.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Preview every highlight in the calibre library:\n")
		fmt.Fprintf(os.Stderr, "  %s preview\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Preview an exported annotation file:\n")
		fmt.Fprintf(os.Stderr, "  %s preview -file dune.calibre_annotation_collection -title Dune -authors \"Frank Herbert\"\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.File == "" && (cmd.Title != "" || cmd.Authors != "") {
		return errors.New("-title and -authors only apply to -file")
	}
	if cmd.BookID <= 0 {
		return fmt.Errorf("invalid book id %d", cmd.BookID)
	}
	return nil
}

func (cmd *PreviewCommand) Run() error {
	source, err := cmd.source()
	if err != nil {
		return err
	}

	app, err := entrypoint.NewApp(cmd.cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	// previews never deliver, the recorder only satisfies the service
	result, err := app.NewSender(source, &obsidian.Recorder{}).Preview(sender.TriggerCLI, cmd.OnlyNew)
	if result != nil {
		printResult(cmd.out, result)
	}
	return err
}

func (cmd *PreviewCommand) source() (calibre.Source, error) {
	if cmd.File == "" {
		return entrypoint.NewLibrarySource(cmd.cfg.Calibre)
	}

	if _, err := os.Stat(cmd.File); err != nil {
		return nil, fmt.Errorf("annotation file not found: %s", cmd.File)
	}
	collection := &calibre.Collection{Path: cmd.File, BookID: cmd.BookID, Format: cmd.Format}
	if cmd.Title != "" {
		collection.Book = entities.BookInfo{Title: cmd.Title, Authors: formatAuthorList(cmd.Authors)}
	}
	return collection, nil
}

func formatAuthorList(authors string) string {
	var names []string
	for _, name := range strings.Split(authors, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return entities.UnknownBookAuthor
	}
	return calibre.FormatAuthors(names)
}

func printNotes(out io.Writer, notes []formatter.Note) {
	for _, note := range notes {
		fmt.Fprintf(out, "=== %s ===\n", note.Title)
		fmt.Fprintln(out, note.Content)
	}
}
