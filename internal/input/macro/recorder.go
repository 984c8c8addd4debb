package macro

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dshills/evie/internal/input/key"
)

// Recorder captures keys into registers and holds the register contents.
type Recorder struct {
	mu        sync.Mutex
	recording bool
	register  rune
	appending bool
	events    []key.Event
	registers map[rune][]key.Event
}

// NewRecorder creates a recorder with empty registers.
func NewRecorder() *Recorder {
	return &Recorder{registers: make(map[rune][]key.Event)}
}

// Start begins recording to register. An uppercase letter appends to the
// lowercase register when recording stops.
func (r *Recorder) Start(register rune) error {
	reg, appending, err := Normalize(register)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return fmt.Errorf("%w to register %c", ErrRecording, r.register)
	}
	r.recording = true
	r.register = reg
	r.appending = appending
	r.events = nil
	return nil
}

// Stop ends the recording, stores it and returns the recorded keys.
// An empty recording leaves the register untouched. Stop returns nil when
// nothing is being recorded.
func (r *Recorder) Stop() []key.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return nil
	}
	r.recording = false

	events := r.events
	r.events = nil
	if len(events) == 0 {
		return events
	}
	if r.appending {
		r.registers[r.register] = append(slices.Clone(r.registers[r.register]), events...)
	} else {
		r.registers[r.register] = slices.Clone(events)
	}
	return events
}

// Recording returns the register being recorded to, and whether a
// recording is in progress.
func (r *Recorder) Recording() (rune, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register, r.recording
}

// Record adds ev to the current recording. It does nothing when no
// recording is in progress.
func (r *Recorder) Record(ev key.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		r.events = append(r.events, ev)
	}
}

// Tee returns a key handler that records each key before passing it on.
func (r *Recorder) Tee(next func(key.Event) error) func(key.Event) error {
	return func(ev key.Event) error {
		r.Record(ev)
		return next(ev)
	}
}

// Get returns a copy of register's keys.
func (r *Recorder) Get(register rune) []key.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.registers[register])
}

// Set replaces register's keys. An empty sequence clears the register.
func (r *Recorder) Set(register rune, events []key.Event) error {
	if !IsValidRegister(register) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, register)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(events) == 0 {
		delete(r.registers, register)
		return nil
	}
	r.registers[register] = slices.Clone(events)
	return nil
}

// Registers returns the names of the non-empty registers, sorted.
func (r *Recorder) Registers() []rune {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]rune, 0, len(r.registers))
	for reg := range r.registers {
		names = append(names, reg)
	}
	slices.Sort(names)
	return names
}
