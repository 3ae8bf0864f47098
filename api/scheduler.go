/*
scheduler.go - Automated cycle advancement scheduler

PURPOSE:
  Periodically runs detect-and-advance across every configured employer so
  lapsed banked-hours cycles get closed without user action, and logs
  reminder-worthy cycle statuses.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Iterates every employer config; skips employers with cycling disabled
  - Closure detection and atomicity live in the CycleManager; the
    scheduler only triggers it
  - Errors on one employer never stop the sweep

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewCycleScheduler(store, handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - punchclock/cycle.go: DetectAndAdvance, PendingCycleStatus
  - handlers.go: AdvanceCycle endpoint (manual trigger)
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tlmacedo/meuPonto-sub000/punchclock"
)

// CycleScheduler handles automated banked-hours cycle closure.
type CycleScheduler struct {
	Store         punchclock.TxStore
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewCycleScheduler creates a new scheduler.
func NewCycleScheduler(store punchclock.TxStore, handler *Handler) *CycleScheduler {
	return &CycleScheduler{
		Store:         store,
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (cs *CycleScheduler) Start() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !cs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	cs.ticker = time.NewTicker(cs.CheckInterval)
	cs.wg.Add(1)

	go cs.run()

	log.Printf("[Scheduler] Started with check interval: %v", cs.CheckInterval)
}

// Stop stops the scheduler.
func (cs *CycleScheduler) Stop() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.ticker != nil {
		cs.ticker.Stop()
		close(cs.stop)
		cs.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (cs *CycleScheduler) run() {
	defer cs.wg.Done()

	// Run immediately on start
	cs.checkAndAdvance()

	for {
		select {
		case <-cs.ticker.C:
			cs.checkAndAdvance()
		case <-cs.stop:
			return
		}
	}
}

func (cs *CycleScheduler) checkAndAdvance() {
	ctx := context.Background()
	today := punchclock.Today()

	log.Printf("[Scheduler] Checking cycles at %s", today)

	configs, err := cs.Store.Configs(ctx)
	if err != nil {
		log.Printf("[Scheduler] Error listing employer configs: %v", err)
		return
	}

	closedCount := 0
	skippedCount := 0

	for _, cfg := range configs {
		if !cfg.CycleEnabled {
			skippedCount++
			continue
		}

		result, err := cs.Handler.Cycles.DetectAndAdvance(ctx, cfg.EmployerID, today)
		if err != nil {
			log.Printf("[Scheduler] Error advancing cycle for %s: %v", cfg.EmployerID, err)
			continue
		}
		for _, closure := range result.Closed {
			log.Printf("[Scheduler] Closed cycle %s for %s: balance %s minutes",
				closure.Period, cfg.EmployerID, closure.PriorBalance.Value)
			closedCount++
		}

		cs.logReminder(ctx, cfg.EmployerID, today)
	}

	if closedCount > 0 || skippedCount > 0 {
		log.Printf("[Scheduler] Completed: %d cycles closed, %d employers skipped (cycling disabled)",
			closedCount, skippedCount)
	}
}

// logReminder surfaces approaching and overdue cycle ends. This is the
// scheduler-side consumer of the pure status query.
func (cs *CycleScheduler) logReminder(ctx context.Context, employerID punchclock.EmployerID, today punchclock.Date) {
	status, err := cs.Handler.Cycles.PendingCycleStatus(ctx, employerID, today)
	if err != nil {
		log.Printf("[Scheduler] Error computing cycle status for %s: %v", employerID, err)
		return
	}

	switch status.Kind {
	case punchclock.StatusNearingEnd:
		log.Printf("[Scheduler] Cycle for %s ends in %d day(s) (window %s, balance %s minutes)",
			employerID, status.DaysLeft, status.Window, status.LiveBalance.Value)
	case punchclock.StatusOverdue:
		log.Printf("[Scheduler] Cycle for %s is %d day(s) overdue (window %s)",
			employerID, status.DaysLate, status.Window)
	}
}

// RunNow triggers an immediate check (for testing/admin).
func (cs *CycleScheduler) RunNow() {
	cs.checkAndAdvance()
}

// NextRunTime returns when the next scheduled check will occur.
func (cs *CycleScheduler) NextRunTime() time.Time {
	return time.Now().Add(cs.CheckInterval)
}
