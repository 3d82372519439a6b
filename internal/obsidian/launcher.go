package obsidian

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/browser"
)

// Launcher hands a single payload to Obsidian. Delivery is fire-and-forget:
// a nil error means the payload was handed off, not that Obsidian stored it.
type Launcher interface {
	Launch(p Payload) error
}

// SystemLauncher opens obsidian:// URIs with the operating system's URI
// handler.
type SystemLauncher struct {
	MaxURILength int
	open         func(uri string) error
}

// NewSystemLauncher creates a launcher backed by the system URI handler.
// maxURILength <= 0 selects DefaultMaxURILength.
func NewSystemLauncher(maxURILength int) *SystemLauncher {
	if maxURILength <= 0 {
		maxURILength = DefaultMaxURILength
	}
	return &SystemLauncher{MaxURILength: maxURILength, open: browser.OpenURL}
}

func (l *SystemLauncher) Launch(p Payload) error {
	uri := p.URI()
	if len(uri) > l.MaxURILength {
		return &URITooLongError{Title: p.File, Length: len(uri), Max: l.MaxURILength}
	}
	if err := l.open(uri); err != nil {
		return fmt.Errorf("failed to open obsidian URI for %q: %w", p.File, err)
	}
	return nil
}

// VaultWriter writes payloads straight into the vault directory, for when
// Obsidian is not running. Appending payloads are added to the end of an
// existing note, others replace it.
type VaultWriter struct {
	VaultDir string
}

func NewVaultWriter(vaultDir string) *VaultWriter {
	return &VaultWriter{VaultDir: vaultDir}
}

func (w *VaultWriter) Launch(p Payload) error {
	notePath, err := w.notePath(p.File)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(notePath), 0755); err != nil {
		return fmt.Errorf("failed to create note directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if p.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(notePath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open note %s: %w", notePath, err)
	}
	defer f.Close()

	if _, err := f.WriteString(p.Content); err != nil {
		return fmt.Errorf("failed to write note %s: %w", notePath, err)
	}
	return nil
}

// notePath resolves a note title to a markdown file inside the vault.
func (w *VaultWriter) notePath(title string) (string, error) {
	if info, err := os.Stat(w.VaultDir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrVaultNotFound, w.VaultDir)
	}

	vault := filepath.Clean(w.VaultDir)
	notePath := filepath.Join(vault, filepath.FromSlash(title)+".md")
	if !strings.HasPrefix(notePath, vault+string(filepath.Separator)) {
		return "", fmt.Errorf("note title %q points outside the vault", title)
	}
	return notePath, nil
}

// Recorder keeps payloads in memory instead of delivering them.
type Recorder struct {
	mu       sync.Mutex
	payloads []Payload
	Err      error // returned by every Launch when set
}

// Fail makes every later Launch return err.
func (r *Recorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Err = err
}

func (r *Recorder) Launch(p Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.payloads = append(r.payloads, p)
	return nil
}

// Payloads returns the recorded payloads in launch order.
func (r *Recorder) Payloads() []Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Payload(nil), r.payloads...)
}
