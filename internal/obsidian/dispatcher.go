package obsidian

import (
	"fmt"
	"log"

	"github.com/mrlokans/h2o/internal/formatter"
)

// Dispatcher delivers notes one at a time, in order.
type Dispatcher struct {
	vault    string
	launcher Launcher
}

func NewDispatcher(vault string, launcher Launcher) *Dispatcher {
	return &Dispatcher{vault: vault, launcher: launcher}
}

// Dispatch delivers notes sequentially and stops at the first failure.
// It returns the number of notes handed off; those stay delivered when a
// later note fails.
func (d *Dispatcher) Dispatch(notes []formatter.Note) (int, error) {
	for i, note := range notes {
		p := NewPayload(d.vault, note)
		if err := d.launcher.Launch(p); err != nil {
			log.Printf("Obsidian: delivery stopped at note %d/%d (%s): %v", i+1, len(notes), p.File, err)
			return i, fmt.Errorf("failed to deliver note %q: %w", p.File, err)
		}
	}
	if len(notes) > 0 {
		log.Printf("Obsidian: delivered %d notes to vault %q", len(notes), d.vault)
	}
	return len(notes), nil
}
