// Package telemetry keeps the latest decoded message of each
// kind received from a flight controller.
package telemetry

import (
	"sync"
	"time"

	"mwosd/multiwii"
)

// Entry is a message along with the time it was stored
type Entry struct {
	Message multiwii.Message
	Updated time.Time
}

// Snapshot is a point in time copy of a Store, keyed by command
type Snapshot map[multiwii.Command]Entry

// Store holds one slot per command. Updates replace the previous
// message for the same command. A Store is safe for concurrent
// use and implements multiwii.Sink.
type Store struct {
	mu      sync.RWMutex
	entries map[multiwii.Command]Entry
	now     func() time.Time
}

// NewStore returns an empty Store
func NewStore() *Store {
	return &Store{
		entries: make(map[multiwii.Command]Entry),
		now:     time.Now,
	}
}

// Update implements multiwii.Sink
func (s *Store) Update(msg multiwii.Message) {
	if msg == nil {
		return
	}
	e := Entry{Message: msg, Updated: s.now()}
	s.mu.Lock()
	s.entries[msg.Command()] = e
	s.mu.Unlock()
}

// Get returns the latest message for the given command
func (s *Store) Get(cmd multiwii.Command) (multiwii.Message, bool) {
	s.mu.RLock()
	e, ok := s.entries[cmd]
	s.mu.RUnlock()
	return e.Message, ok
}

// Snapshot returns a copy of the store. Messages are immutable,
// so they are shared with the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(Snapshot, len(s.entries))
	for k, v := range s.entries {
		snap[k] = v
	}
	return snap
}

// Len returns the number of commands with a stored message
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Name returns the latest craft name
func (s *Store) Name() (*multiwii.NameMessage, bool) {
	m, _ := s.Get(multiwii.CmdName)
	v, ok := m.(*multiwii.NameMessage)
	return v, ok
}

// Attitude returns the latest attitude
func (s *Store) Attitude() (*multiwii.AttitudeMessage, bool) {
	m, _ := s.Get(multiwii.CmdAttitude)
	v, ok := m.(*multiwii.AttitudeMessage)
	return v, ok
}

// Altitude returns the latest altitude
func (s *Store) Altitude() (*multiwii.AltitudeMessage, bool) {
	m, _ := s.Get(multiwii.CmdAltitude)
	v, ok := m.(*multiwii.AltitudeMessage)
	return v, ok
}

// RawGPS returns the latest GPS fix
func (s *Store) RawGPS() (*multiwii.RawGPSMessage, bool) {
	m, _ := s.Get(multiwii.CmdRawGPS)
	v, ok := m.(*multiwii.RawGPSMessage)
	return v, ok
}

// CompGPS returns the latest distance and direction to home
func (s *Store) CompGPS() (*multiwii.CompGPSMessage, bool) {
	m, _ := s.Get(multiwii.CmdCompGPS)
	v, ok := m.(*multiwii.CompGPSMessage)
	return v, ok
}

// BatteryState returns the latest battery state
func (s *Store) BatteryState() (*multiwii.BatteryStateMessage, bool) {
	m, _ := s.Get(multiwii.CmdBatteryState)
	v, ok := m.(*multiwii.BatteryStateMessage)
	return v, ok
}

// OSDConfig returns the latest OSD configuration
func (s *Store) OSDConfig() (*multiwii.OSDConfigMessage, bool) {
	m, _ := s.Get(multiwii.CmdOSDConfig)
	v, ok := m.(*multiwii.OSDConfigMessage)
	return v, ok
}

// ItemPosition returns the OSD position of the given item
// according to the latest OSD configuration.
func (s *Store) ItemPosition(item multiwii.OSDItem) (multiwii.OsdItemPosition, bool) {
	cfg, ok := s.OSDConfig()
	if !ok {
		return multiwii.OsdItemPosition{}, false
	}
	return cfg.ItemPosition(item)
}
