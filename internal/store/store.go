package store

import (
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog"
)

// Store holds session state: flight telemetry, progression and render settings.
// All methods are safe for concurrent use. Subscribers run after the lock is released
// and receive a deep copy.
type Store struct {
	mu        sync.Mutex
	s         Snapshot
	unlocked  map[string]struct{}
	collected map[string]struct{}
	toastAt   time.Duration

	subs   map[uint64]func(Snapshot)
	nextID uint64

	log zerolog.Logger
}

// New returns a store in its start-of-session state: hangar, gear down, high quality.
func New(log zerolog.Logger) *Store {
	return &Store{
		s: Snapshot{
			Phase:        PhaseHangar,
			GearDeployed: true,
			PerfMode:     PerfHigh,
			DPR:          2,
			Bloom:        true,
		},
		unlocked:  make(map[string]struct{}),
		collected: make(map[string]struct{}),
		subs:      make(map[uint64]func(Snapshot)),
		log:       log,
	}
}

// Subscribe registers fn to be called after every change.
func (st *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	st.mu.Lock()
	st.nextID++
	id := st.nextID
	st.subs[id] = fn
	st.mu.Unlock()
	return func() {
		st.mu.Lock()
		delete(st.subs, id)
		st.mu.Unlock()
	}
}

// Snapshot returns a deep copy of the current state.
func (st *Store) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.copyLocked()
}

func (st *Store) copyLocked() Snapshot {
	var out Snapshot
	if err := copier.CopyWithOption(&out, &st.s, copier.Option{DeepCopy: true}); err != nil {
		st.log.Error().Err(err).Msg("snapshot copy failed")
		out = st.s
		out.UnlockedProjects = append([]string(nil), st.s.UnlockedProjects...)
		out.CollectedSkills = append([]string(nil), st.s.CollectedSkills...)
	}
	return out
}

// update applies fn under the lock and notifies subscribers if fn reports a change.
func (st *Store) update(fn func() bool) bool {
	st.mu.Lock()
	if !fn() {
		st.mu.Unlock()
		return false
	}
	if len(st.subs) == 0 {
		st.mu.Unlock()
		return true
	}
	snap := st.copyLocked()
	subs := make([]func(Snapshot), 0, len(st.subs))
	for _, sub := range st.subs {
		subs = append(subs, sub)
	}
	st.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
	return true
}

func (st *Store) Telemetry() Telemetry {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.Telemetry
}

func (st *Store) SetTelemetry(t Telemetry) {
	st.update(func() bool {
		if st.s.Telemetry == t {
			return false
		}
		st.s.Telemetry = t
		return true
	})
}

func (st *Store) Phase() Phase {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.Phase
}

func (st *Store) SetPhase(p Phase) {
	if st.update(func() bool {
		if st.s.Phase == p {
			return false
		}
		st.s.Phase = p
		return true
	}) {
		st.log.Info().Stringer("phase", p).Msg("game phase changed")
	}
}

func (st *Store) GearDeployed() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.GearDeployed
}

// ToggleGear flips the landing gear and returns the new state.
func (st *Store) ToggleGear() bool {
	var deployed bool
	st.update(func() bool {
		st.s.GearDeployed = !st.s.GearDeployed
		deployed = st.s.GearDeployed
		return true
	})
	st.log.Debug().Bool("deployed", deployed).Msg("gear toggled")
	return deployed
}

// UnlockProject adds id to the unlocked set. Returns false if it was already unlocked.
func (st *Store) UnlockProject(id string) bool {
	added := st.update(func() bool {
		if _, ok := st.unlocked[id]; ok {
			return false
		}
		st.unlocked[id] = struct{}{}
		st.s.UnlockedProjects = append(st.s.UnlockedProjects, id)
		return true
	})
	if added {
		st.log.Info().Str("project", id).Msg("project unlocked")
	}
	return added
}

func (st *Store) IsUnlocked(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.unlocked[id]
	return ok
}

// OpenProject makes id the project shown in the project panel.
func (st *Store) OpenProject(id string) {
	st.update(func() bool {
		if st.s.CurrentProjectID == id {
			return false
		}
		st.s.CurrentProjectID = id
		return true
	})
}

func (st *Store) CloseProject() { st.OpenProject("") }

func (st *Store) CurrentProject() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.CurrentProjectID
}

// CollectSkill adds id to the collected set and, only when it is new, makes it the
// last collected skill stamped with now. Returns whether id was new.
func (st *Store) CollectSkill(id string, now time.Duration) bool {
	added := st.update(func() bool {
		if _, ok := st.collected[id]; ok {
			return false
		}
		st.collected[id] = struct{}{}
		st.s.CollectedSkills = append(st.s.CollectedSkills, id)
		st.s.LastCollectedSkill = id
		st.toastAt = now
		return true
	})
	if added {
		st.log.Info().Str("skill", id).Msg("skill collected")
	}
	return added
}

func (st *Store) IsCollected(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.collected[id]
	return ok
}

func (st *Store) LastCollectedSkill() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.LastCollectedSkill
}

// ExpireToast clears the last collected skill once ttl has passed since it was set.
func (st *Store) ExpireToast(now, ttl time.Duration) {
	st.update(func() bool {
		if st.s.LastCollectedSkill == "" || now-st.toastAt < ttl {
			return false
		}
		st.s.LastCollectedSkill = ""
		return true
	})
}

func (st *Store) ActivePanel() Panel {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.ActivePanel
}

func (st *Store) SetActivePanel(p Panel) {
	st.update(func() bool {
		if st.s.ActivePanel == p {
			return false
		}
		st.s.ActivePanel = p
		return true
	})
}

// SetPerf applies a render quality tier.
func (st *Store) SetPerf(mode PerfMode, dpr float32, bloom bool) {
	st.update(func() bool {
		if st.s.PerfMode == mode && st.s.DPR == dpr && st.s.Bloom == bloom {
			return false
		}
		st.s.PerfMode, st.s.DPR, st.s.Bloom = mode, dpr, bloom
		return true
	})
}

func (st *Store) SetOptimizing(v bool) {
	st.update(func() bool {
		if st.s.Optimizing == v {
			return false
		}
		st.s.Optimizing = v
		return true
	})
}
