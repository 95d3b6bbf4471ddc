package services

import (
	"sync"
	"time"
)

// Alarm plays the new-order alert: three tones staggered over 2.4 seconds,
// auto-stopped after 3.5 seconds. Tones are published to the hub as events;
// the admin UI renders them through an audio oscillator. A re-entrant guard
// drops triggers while a sequence is playing rather than queueing them.
type Alarm struct {
	hub *Hub

	mu      sync.Mutex
	playing bool
	timers  []*time.Timer
}

type tone struct {
	frequency int
	delay     time.Duration
}

var alarmSequence = []tone{
	{frequency: 1000, delay: 0},
	{frequency: 800, delay: 1200 * time.Millisecond},
	{frequency: 1000, delay: 2400 * time.Millisecond},
}

const alarmDuration = 3500 * time.Millisecond

// NewAlarm creates an alarm publishing tone events to the given hub
func NewAlarm(hub *Hub) *Alarm {
	return &Alarm{hub: hub}
}

// Trigger starts the tone sequence. Returns false when an alarm is already
// playing and the trigger was dropped.
func (a *Alarm) Trigger() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.playing {
		return false
	}
	a.playing = true

	a.timers = a.timers[:0]
	for _, t := range alarmSequence {
		freq := t.frequency
		if t.delay == 0 {
			a.hub.Publish(Event{Type: EventTone, Frequency: freq})
			continue
		}
		a.timers = append(a.timers, time.AfterFunc(t.delay, func() {
			a.hub.Publish(Event{Type: EventTone, Frequency: freq})
		}))
	}
	a.timers = append(a.timers, time.AfterFunc(alarmDuration, a.Stop))

	return true
}

// Stop ends the sequence early and cancels any pending tones. Safe to call
// when nothing is playing.
func (a *Alarm) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.playing {
		return
	}
	a.playing = false
	for _, timer := range a.timers {
		timer.Stop()
	}
	a.timers = nil
	a.hub.Publish(Event{Type: EventAlarmStopped})
}

// IsPlaying reports whether a tone sequence is in progress
func (a *Alarm) IsPlaying() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}
