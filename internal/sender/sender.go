// Package sender runs the send actions: it selects highlights from calibre,
// formats them into notes, delivers the notes and keeps the send times.
package sender

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/h2o/internal/calibre"
	"github.com/mrlokans/h2o/internal/entities"
	"github.com/mrlokans/h2o/internal/formatter"
	"github.com/mrlokans/h2o/internal/obsidian"
	"github.com/mrlokans/h2o/internal/settingsstore"
)

var (
	// ErrNothingToResend is returned by Resend before a second send has
	// happened.
	ErrNothingToResend = errors.New("no highlights were previously sent")
	// ErrNoBooksSelected is returned by SendBooks without book ids.
	ErrNoBooksSelected = errors.New("no books selected")
)

const (
	TriggerCLI      = "cli"
	TriggerAPI      = "api"
	TriggerSchedule = "schedule"
)

// PreferenceStore provides preferences and keeps the send times.
type PreferenceStore interface {
	Preferences() (settingsstore.Preferences, error)
	RecordSend(last time.Time, prev string) error
}

// HistoryRecorder stores one event per send action.
type HistoryRecorder interface {
	LogEvent(event *entities.SendEvent) error
}

// Result describes a finished send action.
type Result struct {
	Action     entities.SendAction `json:"action"`
	Highlights int                 `json:"highlights"`
	Notes      int                 `json:"notes"`
	Delivered  int                 `json:"delivered"`
	Preview    []formatter.Note    `json:"preview,omitempty"`
}

// Service runs send actions. Actions are serialized; every action works on
// its own snapshot of calibre and its own formatter.
type Service struct {
	source   calibre.Source
	prefs    PreferenceStore
	history  HistoryRecorder
	launcher obsidian.Launcher
	now      func() time.Time

	mu sync.Mutex
}

func NewService(source calibre.Source, prefs PreferenceStore, history HistoryRecorder, launcher obsidian.Launcher) *Service {
	return &Service{
		source:   source,
		prefs:    prefs,
		history:  history,
		launcher: launcher,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for send times and note rendering.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// highlightFilter selects the highlights an action sends.
type highlightFilter func(rec entities.HighlightRecord, at time.Time) bool

type action struct {
	kind        entities.SendAction
	description string
	filter      highlightFilter
	// bookkeeping runs after a delivery of at least one highlight
	bookkeeping func(prefs settingsstore.Preferences, now time.Time) error
	preview     bool
}

// SendNew sends highlights made after the last send and moves the send
// times forward.
func (s *Service) SendNew(trigger string) (*Result, error) {
	return s.run(trigger, func(prefs settingsstore.Preferences) (*action, error) {
		last, err := prefs.LastSend()
		if err != nil {
			return nil, fmt.Errorf("invalid last send time: %w", err)
		}
		return &action{
			kind:        entities.SendActionNew,
			description: "new highlights since " + prefs.LastSendTime,
			filter: func(_ entities.HighlightRecord, at time.Time) bool {
				return at.After(last)
			},
			bookkeeping: func(prefs settingsstore.Preferences, now time.Time) error {
				return s.prefs.RecordSend(now, prefs.LastSendTime)
			},
		}, nil
	})
}

// SendAll sends every highlight and updates the last send time.
func (s *Service) SendAll(trigger string) (*Result, error) {
	return s.run(trigger, func(settingsstore.Preferences) (*action, error) {
		return &action{
			kind:        entities.SendActionAll,
			description: "all highlights",
			filter:      func(entities.HighlightRecord, time.Time) bool { return true },
			bookkeeping: func(_ settingsstore.Preferences, now time.Time) error {
				return s.prefs.RecordSend(now, "")
			},
		}, nil
	})
}

// Resend sends the highlights of the previous send again: those made
// between the send before last and the last send. Send times are kept.
func (s *Service) Resend(trigger string) (*Result, error) {
	return s.run(trigger, func(prefs settingsstore.Preferences) (*action, error) {
		prev, ok, err := prefs.PrevSend()
		if err != nil {
			return nil, fmt.Errorf("invalid previous send time: %w", err)
		}
		if !ok {
			return nil, ErrNothingToResend
		}
		last, err := prefs.LastSend()
		if err != nil {
			return nil, fmt.Errorf("invalid last send time: %w", err)
		}
		return &action{
			kind:        entities.SendActionResend,
			description: fmt.Sprintf("highlights between %s and %s", prefs.PrevSendTime, prefs.LastSendTime),
			filter: func(_ entities.HighlightRecord, at time.Time) bool {
				return at.After(prev) && at.Before(last)
			},
		}, nil
	})
}

// SendBooks sends the highlights of the given books, optionally only those
// made after the last send. Send times are kept, so the other books' new
// highlights still go out with the next SendNew.
func (s *Service) SendBooks(trigger string, bookIDs []int64, onlyNew bool) (*Result, error) {
	return s.run(trigger, func(prefs settingsstore.Preferences) (*action, error) {
		if len(bookIDs) == 0 {
			return nil, ErrNoBooksSelected
		}
		selected := make(map[int64]bool, len(bookIDs))
		for _, id := range bookIDs {
			selected[id] = true
		}

		last, err := prefs.LastSend()
		if err != nil {
			return nil, fmt.Errorf("invalid last send time: %w", err)
		}

		description := fmt.Sprintf("highlights of %d books", len(selected))
		if onlyNew {
			description = fmt.Sprintf("new highlights of %d books", len(selected))
		}
		return &action{
			kind:        entities.SendActionBooks,
			description: description,
			filter: func(rec entities.HighlightRecord, at time.Time) bool {
				return selected[rec.BookID] && (!onlyNew || at.After(last))
			},
		}, nil
	})
}

// Preview formats the highlights SendNew (onlyNew) or SendAll would send
// without delivering them or touching the send times.
func (s *Service) Preview(trigger string, onlyNew bool) (*Result, error) {
	return s.run(trigger, func(prefs settingsstore.Preferences) (*action, error) {
		last, err := prefs.LastSend()
		if err != nil {
			return nil, fmt.Errorf("invalid last send time: %w", err)
		}
		description := "all highlights"
		if onlyNew {
			description = "new highlights since " + prefs.LastSendTime
		}
		return &action{
			kind:        entities.SendActionPreview,
			description: description,
			filter: func(_ entities.HighlightRecord, at time.Time) bool {
				return !onlyNew || at.After(last)
			},
			preview: true,
		}, nil
	})
}

func (s *Service) run(trigger string, build func(settingsstore.Preferences) (*action, error)) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.prefs.Preferences()
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	act, err := build(prefs)
	if err != nil {
		return nil, err
	}

	result := &Result{Action: act.kind}
	err = s.execute(act, prefs, result)
	s.recordEvent(act, trigger, result, err)
	if err != nil {
		return result, err
	}
	return result, nil
}

func (s *Service) execute(act *action, prefs settingsstore.Preferences, result *Result) error {
	snapshot, err := s.source.Load()
	if err != nil {
		return fmt.Errorf("failed to load highlights: %w", err)
	}

	records, err := selectHighlights(snapshot.Records, act.filter)
	if err != nil {
		return err
	}
	result.Highlights = len(records)
	if len(records) == 0 {
		log.Printf("Sender: no highlights to send (%s)", act.description)
		return nil
	}

	now := s.now()
	batch, err := formatter.New(prefs.FormatterOptions()).WithClock(func() time.Time { return now }).Format(records, snapshot.Books)
	if err != nil {
		return err
	}
	result.Notes = len(batch.Notes)

	if act.preview {
		result.Preview = batch.Notes
		return nil
	}

	result.Delivered, err = obsidian.NewDispatcher(prefs.VaultName, s.launcher).Dispatch(batch.Notes)
	if err != nil {
		return err
	}

	log.Printf("Sender: sent %d highlights in %d notes (%s)", result.Highlights, result.Notes, act.description)

	if act.bookkeeping != nil {
		if err := act.bookkeeping(prefs, now); err != nil {
			return fmt.Errorf("failed to record send time: %w", err)
		}
	}
	return nil
}

// selectHighlights keeps live highlights accepted by the filter. A highlight
// with an unreadable timestamp fails the whole selection.
func selectHighlights(records []entities.HighlightRecord, filter highlightFilter) ([]entities.HighlightRecord, error) {
	var selected []entities.HighlightRecord
	for _, rec := range records {
		if !rec.IsHighlight() {
			continue
		}
		at, err := formatter.ParseTimestamp(rec.Annotation.Timestamp)
		if err != nil {
			return nil, &formatter.TimestampError{UUID: rec.Annotation.UUID, Value: rec.Annotation.Timestamp, Err: err}
		}
		if filter(rec, at) {
			selected = append(selected, rec)
		}
	}
	return selected, nil
}

func (s *Service) recordEvent(act *action, trigger string, result *Result, err error) {
	if s.history == nil {
		return
	}

	event := &entities.SendEvent{
		Action:      act.kind,
		Trigger:     trigger,
		Highlights:  result.Highlights,
		Notes:       result.Notes,
		Description: act.description,
		Status:      entities.SendStatusSuccess,
	}
	if err != nil {
		event.Status = entities.SendStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	if logErr := s.history.LogEvent(event); logErr != nil {
		log.Printf("Sender: failed to record send event: %v", logErr)
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
