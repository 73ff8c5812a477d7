package hud

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vimana/internal/content"
	"vimana/internal/flight"
	"vimana/internal/store"
)

func catalog(t *testing.T) *content.Catalog {
	t.Helper()
	cat, err := content.Default()
	require.NoError(t, err)
	return cat
}

func TestHangarShowsPromptOnly(t *testing.T) {
	st := store.New(zerolog.Nop())
	v := Build(st.Snapshot(), catalog(t), 0)
	assert.Equal(t, hangarText, v.Prompt)
	assert.Equal(t, float32(1), v.Fade)
	assert.Nil(t, v.Telemetry)
}

func TestTransitionFades(t *testing.T) {
	st := store.New(zerolog.Nop())
	st.SetPhase(store.PhaseTransitioning)
	v := Build(st.Snapshot(), catalog(t), 0.25)
	assert.InDelta(t, 0.75, v.Fade, 1e-6)
	assert.Empty(t, v.Prompt)
}

func TestPlayingView(t *testing.T) {
	cat := catalog(t)
	st := store.New(zerolog.Nop())
	st.SetPhase(store.PhasePlaying)
	st.SetTelemetry(store.Telemetry{Altitude: 12.34, Speed: 5, Boost: true, GroundDistance: 3})
	st.CollectSkill("rust", time.Second)
	st.SetOptimizing(true)

	v := Build(st.Snapshot(), cat, 1)
	require.Len(t, v.Telemetry, 5)
	assert.Equal(t, "ALT      12.3 m", v.Telemetry[0])
	assert.Equal(t, "BOOST ACTIVE", v.Telemetry[2])
	assert.Equal(t, "GND   3.0 m", v.Telemetry[3])
	assert.Equal(t, "GEAR  DOWN", v.Telemetry[4])
	assert.Equal(t, "OPTIMIZING HIGH", v.Status)
	assert.Equal(t, "+ Rust  (1/20)", v.Toast)
	assert.Nil(t, v.Panel)
	assert.Nil(t, v.Project)
	assert.Zero(t, v.Fade)
}

func TestNoGroundReading(t *testing.T) {
	lines := Telemetry(store.Telemetry{GroundDistance: flight.RayMaxDistance}, false)
	assert.Equal(t, "SYSTEMS ONLINE", lines[2])
	assert.Equal(t, "GND   --", lines[3])
	assert.Equal(t, "GEAR  UP", lines[4])

	lines = Telemetry(store.Telemetry{GroundDistance: flight.RayMaxDistance - 0.5}, true)
	assert.Equal(t, "GND   9.5 m", lines[3])
}

func TestPanels(t *testing.T) {
	cat := catalog(t)

	about := PanelCard(store.PanelAbout, nil, cat)
	assert.Equal(t, "Pilot Log", about.Title)
	assert.Equal(t, [3]uint8{0, 255, 136}, about.Accent)
	assert.Len(t, about.Lines, 3*len(cat.About))

	skills := PanelCard(store.PanelSkills, []string{"python"}, cat)
	require.NotEmpty(t, skills.Lines)
	assert.Equal(t, "LANGUAGES", skills.Lines[0])
	assert.Contains(t, skills.Lines[1], "[x] Python")
	assert.Contains(t, skills.Lines[2], "[ ] JavaScript")
	// 4 category headers plus every skill
	assert.Len(t, skills.Lines, 4+len(cat.Skills))

	contact := PanelCard(store.PanelContact, nil, cat)
	assert.Len(t, contact.Lines, len(cat.Social))
	assert.Equal(t, panelHint, contact.Hint)
}

func TestProjectCard(t *testing.T) {
	cat := catalog(t)
	st := store.New(zerolog.Nop())
	st.SetPhase(store.PhasePlaying)
	st.UnlockProject("drone-nav")
	st.OpenProject("drone-nav")

	v := Build(st.Snapshot(), cat, 1)
	require.NotNil(t, v.Project)
	assert.Equal(t, "Autonomous Drone Navigation", v.Project.Title)
	assert.Equal(t, [3]uint8{0, 255, 255}, v.Project.Accent)
	assert.Contains(t, v.Project.Lines, "GITHUB https://github.com/naman/drone-nav")
	assert.Contains(t, v.Project.Lines, "DEMO   https://youtube.com/watch?v=demo")
	assert.NotContains(t, v.Project.Lines, "LIVE   ")
}

func TestBar(t *testing.T) {
	assert.Equal(t, "[..........]", bar(-1))
	assert.Equal(t, "[##########]", bar(2))
	assert.Equal(t, "[#########.]", bar(0.92))
}
