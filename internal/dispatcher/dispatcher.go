// Package dispatcher fires due reminders on a polling loop.
package dispatcher

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fentz26/nudge/internal/notify"
	"github.com/fentz26/nudge/internal/store"
)

// DefaultPollInterval is how often the dispatcher checks for due reminders.
const DefaultPollInterval = 15 * time.Second

// Dispatcher polls the store for due reminders and delivers them. One-shot
// reminders are marked fired; recurring ones are rescheduled to their next
// occurrence.
type Dispatcher struct {
	store    *store.Store
	notifier notify.Notifier
	interval time.Duration

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Injectable clock for tests.
	now func() time.Time
}

// New creates a dispatcher. interval <= 0 selects the default poll interval.
func New(s *store.Store, n notify.Notifier, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		store:    s,
		notifier: n,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
	}
}

// Start begins the dispatch loop.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.loop()
	log.Println("Dispatcher started")
}

// Stop gracefully stops the dispatcher.
func (d *Dispatcher) Stop() {
	d.cancel()
	d.wg.Wait()
	log.Println("Dispatcher stopped")
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.Tick(d.now().UTC())
		}
	}
}

// Tick runs one dispatch pass against the given clock value and returns the
// number of reminders delivered. Exported so tests and the loop share one
// code path.
func (d *Dispatcher) Tick(now time.Time) int {
	due, err := d.store.DueReminders(now)
	if err != nil {
		log.Printf("Error loading due reminders: %v", err)
		return 0
	}

	fired := 0
	for _, rem := range due {
		if err := d.notifier.Deliver(d.ctx, rem); err != nil {
			// Leave the reminder pending so the next tick retries.
			log.Printf("Error delivering reminder %s: %v", rem.ID, err)
			continue
		}
		fired++

		if rem.Recurrence != nil {
			next := rem.Recurrence.Next(now)
			if err := d.store.RescheduleReminder(rem.ID, next); err != nil {
				log.Printf("Error rescheduling reminder %s: %v", rem.ID, err)
			}
			continue
		}
		if err := d.store.MarkFired(rem.ID); err != nil {
			log.Printf("Error marking reminder %s fired: %v", rem.ID, err)
		}
	}
	return fired
}
