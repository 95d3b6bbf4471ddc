package services

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/choripam/choripam-api/bridge"
	"github.com/choripam/choripam-api/models"
)

// OrdersFetcher is the slice of the order service the notifier needs
type OrdersFetcher interface {
	FetchOrders(ctx context.Context, restaurantID string) ([]models.LegacyOrder, error)
}

const (
	defaultNotifyInterval  = 15 * time.Second
	maxConsecutiveFailures = 3
	failureCooldown        = 60 * time.Second
)

// Notifier polls the order queue and alerts staff when new orders arrive.
// The first check establishes a baseline of pending/confirmed order IDs;
// every later tick diffs against that baseline and alerts once per newly
// observed ID. One goroutine owns the baseline, so ticks never race an
// in-flight fetch. Orders that move past pending/confirmed between two
// ticks are never alerted; that gap is part of the contract.
type Notifier struct {
	fetcher      OrdersFetcher
	alarm        *Alarm
	hub          *Hub
	restaurantID string
	interval     time.Duration
	now          func() time.Time

	mu                  sync.Mutex
	baseline            map[string]struct{}
	firstRun            bool
	consecutiveFailures int
	cooldownUntil       time.Time
	newOrdersCount      int
	lastCheck           time.Time
	running             bool
	stop                chan struct{}
	done                chan struct{}
}

// NotifierState is the snapshot exposed to the admin notification bell
type NotifierState struct {
	Enabled        bool       `json:"enabled"`
	NewOrdersCount int        `json:"new_orders_count"`
	IsPlaying      bool       `json:"is_playing"`
	LastCheckTime  *time.Time `json:"last_check_time,omitempty"`
}

// NewNotifier creates a stopped notifier for one restaurant
func NewNotifier(fetcher OrdersFetcher, alarm *Alarm, hub *Hub, restaurantID string, interval time.Duration) *Notifier {
	if interval <= 0 {
		interval = defaultNotifyInterval
	}
	return &Notifier{
		fetcher:      fetcher,
		alarm:        alarm,
		hub:          hub,
		restaurantID: bridge.CleanRestaurantID(restaurantID),
		interval:     interval,
		now:          time.Now,
		baseline:     make(map[string]struct{}),
		firstRun:     true,
	}
}

// Start launches the polling goroutine. The first check runs immediately.
func (n *Notifier) Start() {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return
	}
	n.running = true
	n.stop = make(chan struct{})
	n.done = make(chan struct{})
	stop, done := n.stop, n.done
	n.mu.Unlock()

	log.Printf("Order notifier started for restaurant %s (interval %s)", n.restaurantID, n.interval)

	go func() {
		defer close(done)
		n.check(context.Background())

		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				n.check(context.Background())
			}
		}
	}()
}

// Stop halts polling entirely; no background work continues. An in-flight
// check finishes its tick before the goroutine exits.
func (n *Notifier) Stop() {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return
	}
	n.running = false
	stop, done := n.stop, n.done
	n.mu.Unlock()

	close(stop)
	<-done
	log.Printf("Order notifier stopped for restaurant %s", n.restaurantID)
}

// IsRunning reports whether the polling goroutine is active
func (n *Notifier) IsRunning() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.running
}

// State returns the current notification snapshot
func (n *Notifier) State() NotifierState {
	n.mu.Lock()
	defer n.mu.Unlock()
	state := NotifierState{
		Enabled:        n.running,
		NewOrdersCount: n.newOrdersCount,
		IsPlaying:      n.alarm.IsPlaying(),
	}
	if !n.lastCheck.IsZero() {
		t := n.lastCheck
		state.LastCheckTime = &t
	}
	return state
}

// ResetNewOrdersCount zeroes the badge counter
func (n *Notifier) ResetNewOrdersCount() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.newOrdersCount = 0
}

// StopAlarm silences a playing alarm without touching the poll loop
func (n *Notifier) StopAlarm() {
	n.alarm.Stop()
}

// check runs one poll tick. Errors are counted but never escape: each tick
// is fault-isolated, and after maxConsecutiveFailures the notifier skips
// fetching for failureCooldown before resuming with a clean slate.
func (n *Notifier) check(ctx context.Context) {
	n.mu.Lock()
	if n.now().Before(n.cooldownUntil) {
		n.mu.Unlock()
		return
	}
	n.mu.Unlock()

	orders, err := n.fetcher.FetchOrders(ctx, n.restaurantID)

	n.mu.Lock()
	defer n.mu.Unlock()

	if err != nil {
		n.consecutiveFailures++
		log.Printf("Order check failed (%d/%d): %v", n.consecutiveFailures, maxConsecutiveFailures, err)
		if n.consecutiveFailures >= maxConsecutiveFailures {
			n.cooldownUntil = n.now().Add(failureCooldown)
			n.consecutiveFailures = 0
			log.Printf("Too many consecutive failures, pausing order checks for %s", failureCooldown)
		}
		return
	}
	n.consecutiveFailures = 0

	// Only pending and confirmed orders are tracked; anything further along
	// is already being handled by staff
	current := make(map[string]struct{})
	for _, order := range orders {
		if order.Status == models.StatusPending || order.Status == models.StatusConfirmed {
			current[order.OrderID] = struct{}{}
		}
	}

	if n.firstRun {
		n.firstRun = false
		n.baseline = current
		n.lastCheck = n.now()
		return
	}

	var newIDs []string
	for id := range current {
		if _, seen := n.baseline[id]; !seen {
			newIDs = append(newIDs, id)
		}
	}

	if len(newIDs) > 0 {
		sort.Strings(newIDs)
		n.newOrdersCount += len(newIDs)
		log.Printf("Detected %d new order(s): %v", len(newIDs), newIDs)
		if !n.alarm.Trigger() {
			log.Printf("Alarm already playing, trigger dropped")
		}
		n.hub.Publish(Event{Type: EventNewOrders, OrderIDs: newIDs, Count: len(newIDs)})
	}

	n.baseline = current
	n.lastCheck = n.now()
}
