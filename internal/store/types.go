package store

import (
	"fmt"
	"strings"
)

// Phase is the top-level game flow state.
type Phase uint8

const (
	PhaseHangar Phase = iota
	PhaseTransitioning
	PhasePlaying
)

var phaseNames = []string{"hangar", "transitioning", "playing"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", p)
}

// ParsePhase accepts the names printed by Phase.String, case-insensitively.
func ParsePhase(s string) (Phase, error) {
	for i, n := range phaseNames {
		if strings.EqualFold(s, n) {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

// Panel is the narrative content panel currently shown.
type Panel uint8

const (
	PanelNone Panel = iota
	PanelAbout
	PanelSkills
	PanelContact
)

var panelNames = []string{"none", "about", "skills", "contact"}

func (p Panel) String() string {
	if int(p) < len(panelNames) {
		return panelNames[p]
	}
	return fmt.Sprintf("panel(%d)", p)
}

func ParsePanel(s string) (Panel, error) {
	for i, n := range panelNames {
		if strings.EqualFold(s, n) {
			return Panel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown panel %q", s)
}

// PerfMode is the render quality tier.
type PerfMode uint8

const (
	PerfHigh PerfMode = iota
	PerfMedium
	PerfLow
)

var perfNames = []string{"high", "medium", "low"}

func (m PerfMode) String() string {
	if int(m) < len(perfNames) {
		return perfNames[m]
	}
	return fmt.Sprintf("perf(%d)", m)
}

func ParsePerfMode(s string) (PerfMode, error) {
	for i, n := range perfNames {
		if strings.EqualFold(s, n) {
			return PerfMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown perf mode %q", s)
}

// Telemetry is the flight readout shown on the HUD.
type Telemetry struct {
	Altitude       float32
	Speed          float32
	Boost          bool
	GroundDistance float32
	Tilt           float32
}

// Snapshot is a copy of the whole store at one instant.
type Snapshot struct {
	Telemetry    Telemetry
	Phase        Phase
	GearDeployed bool

	CurrentProjectID   string
	UnlockedProjects   []string
	CollectedSkills    []string
	LastCollectedSkill string
	ActivePanel        Panel

	PerfMode   PerfMode
	Optimizing bool
	DPR        float32
	Bloom      bool
}
