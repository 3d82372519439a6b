package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/h2o/internal/sender"
	"github.com/mrlokans/h2o/internal/settingsstore"
)

// ConfigProvider resolves the current scheduling settings.
type ConfigProvider interface {
	GetAutoSendConfig() (settingsstore.AutoSendConfig, error)
}

// NewHighlightSender sends the highlights made since the last send.
type NewHighlightSender interface {
	SendNew(trigger string) (*sender.Result, error)
}

// AutoSendScheduler periodically sends new highlights to Obsidian
type AutoSendScheduler struct {
	config ConfigProvider
	sender NewHighlightSender

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	parent     context.Context // context of the first Start, reused by Reschedule
	cancelFunc context.CancelFunc
}

// NewAutoSendScheduler creates a new scheduler instance
func NewAutoSendScheduler(config ConfigProvider, sender NewHighlightSender) *AutoSendScheduler {
	return &AutoSendScheduler{
		config: config,
		sender: sender,
		cron:   cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if scheduled sending is enabled
func (s *AutoSendScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.parent == nil {
		s.parent = ctx
	}

	config, err := s.config.GetAutoSendConfig()
	if err != nil {
		return fmt.Errorf("failed to read auto send settings: %w", err)
	}

	if !config.Enabled {
		log.Printf("Auto send scheduler: disabled")
		return nil
	}

	if err := settingsstore.ValidateCronSchedule(config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(config.Schedule, func() {
		s.runSend()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule send job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := settingsstore.GetNextRunTime(config.Schedule)
	log.Printf("Auto send scheduler: started with schedule '%s' (%s). Next run: %v",
		config.Schedule,
		settingsstore.GetCronDescription(config.Schedule),
		nextRun)

	go func() {
		<-cancelCtx.Done()
		// Stop and Reschedule cancel this run themselves
		if ctx.Err() != nil {
			s.Stop()
		}
	}()

	return nil
}

// Stop waits for a running send to finish and stops the scheduler
func (s *AutoSendScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(s.entryID)

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Auto send scheduler: stopped")
}

// Reschedule applies changed settings
func (s *AutoSendScheduler) Reschedule() error {
	s.Stop()

	s.mu.RLock()
	ctx := s.parent
	s.mu.RUnlock()
	if ctx == nil {
		ctx = context.Background()
	}
	return s.Start(ctx)
}

// RunNow triggers an immediate send in the background
func (s *AutoSendScheduler) RunNow() {
	go s.runSend()
}

// IsRunning returns whether the scheduler is active
func (s *AutoSendScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next send will occur
func (s *AutoSendScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *AutoSendScheduler) runSend() {
	startTime := time.Now()

	result, err := s.sender.SendNew(sender.TriggerSchedule)
	if err != nil {
		log.Printf("Auto send: failed: %v", err)
		return
	}

	log.Printf("Auto send: sent %d highlights in %d notes in %v",
		result.Highlights, result.Notes, time.Since(startTime).Round(time.Millisecond))
}
