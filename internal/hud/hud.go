// Package hud builds the text of the heads-up display from a store snapshot. It
// has no rendering dependency; the debug overlay draws what it returns.
package hud

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"vimana/internal/content"
	"vimana/internal/flight"
	"vimana/internal/store"
)

// Card is a titled block of text with an accent colour.
type Card struct {
	Title  string
	Lines  []string
	Accent [3]uint8
	Hint   string
}

// View is everything the overlay shows for one frame. Zero fields are not drawn.
type View struct {
	Telemetry []string
	Status    string
	Prompt    string
	Toast     string
	Panel     *Card
	Project   *Card
	// Fade is the hangar curtain opacity in [0,1].
	Fade float32
}

const (
	panelHint   = "[ESC] close"
	projectHint = "[ESC] back to flight"
	hangarText  = "PRESS [ENTER] TO LAUNCH"
	barWidth    = 10
)

var defaultAccent = [3]uint8{0, 255, 255}

// Build composes the view. transition is the progress of the launch sequence in
// [0,1] and is only read while transitioning.
func Build(s store.Snapshot, cat *content.Catalog, transition float32) View {
	var v View
	switch s.Phase {
	case store.PhaseHangar:
		v.Prompt = hangarText
		v.Fade = 1
		return v
	case store.PhaseTransitioning:
		v.Fade = 1 - clamp01(transition)
		return v
	}

	v.Telemetry = Telemetry(s.Telemetry, s.GearDeployed)
	if s.Optimizing {
		v.Status = "OPTIMIZING " + strings.ToUpper(s.PerfMode.String())
	}
	if s.LastCollectedSkill != "" {
		if sk, ok := cat.Skill(s.LastCollectedSkill); ok {
			v.Toast = fmt.Sprintf("+ %s  (%d/%d)", sk.Name, len(s.CollectedSkills), len(cat.Skills))
		}
	}
	if s.CurrentProjectID != "" {
		if p, ok := cat.Project(s.CurrentProjectID); ok {
			v.Project = ProjectCard(p)
		}
	}
	if s.ActivePanel != store.PanelNone {
		v.Panel = PanelCard(s.ActivePanel, s.CollectedSkills, cat)
	}
	return v
}

// Telemetry formats the flight readouts.
func Telemetry(t store.Telemetry, gear bool) []string {
	gearText := "UP"
	if gear {
		gearText = "DOWN"
	}
	// a ray miss reports the maximum distance
	ground := "--"
	if t.GroundDistance < flight.RayMaxDistance {
		ground = fmt.Sprintf("%.1f m", t.GroundDistance)
	}
	systems := "SYSTEMS ONLINE"
	if t.Boost {
		systems = "BOOST ACTIVE"
	}
	return []string{
		fmt.Sprintf("ALT   %7.1f m", t.Altitude),
		fmt.Sprintf("SPD   %7.1f m/s", t.Speed),
		systems,
		fmt.Sprintf("GND   %s", ground),
		fmt.Sprintf("GEAR  %s", gearText),
	}
}

// PanelCard renders a narrative panel.
func PanelCard(p store.Panel, collected []string, cat *content.Catalog) *Card {
	c := &Card{Hint: panelHint, Accent: defaultAccent}
	for _, sec := range cat.Sections {
		if sec.Panel == p.String() {
			c.Title = sec.Title
			c.Accent = content.MustColor(sec.Color)
			break
		}
	}
	switch p {
	case store.PanelAbout:
		for _, a := range cat.About {
			c.Lines = append(c.Lines, strings.ToUpper(a.Title), a.Content, "")
		}
	case store.PanelSkills:
		have := make(map[string]bool, len(collected))
		for _, id := range collected {
			have[id] = true
		}
		c.Lines = skillLines(cat, have)
	case store.PanelContact:
		for _, l := range cat.Social {
			c.Lines = append(c.Lines, fmt.Sprintf("%-9s %s", l.Platform, l.URL))
		}
	}
	if c.Title == "" {
		c.Title = strings.ToUpper(p.String())
	}
	return c
}

// skillLines lists skills grouped by category in the order categories first
// appear, marking the ones already collected.
func skillLines(cat *content.Catalog, have map[string]bool) []string {
	var out, order []string
	seen := make(map[string]bool)
	for _, s := range cat.Skills {
		if !seen[s.Category] {
			seen[s.Category] = true
			order = append(order, s.Category)
		}
	}
	for _, category := range order {
		out = append(out, strings.ToUpper(category))
		for _, s := range cat.SkillsByCategory(category) {
			mark := "[ ]"
			if have[s.ID] {
				mark = "[x]"
			}
			out = append(out, fmt.Sprintf("  %s %-12s %s", mark, s.Name, bar(float32(s.Proficiency)/100)))
		}
	}
	return out
}

// ProjectCard renders the card shown after flying through a portal.
func ProjectCard(p content.Project) *Card {
	c := &Card{
		Title:  p.Title,
		Accent: content.MustColor(p.Color),
		Hint:   projectHint,
		Lines:  []string{p.Subtitle, "", p.Description, "", "STACK  " + strings.Join(p.TechStack, " / ")},
	}
	for _, l := range []struct{ name, url string }{
		{"GITHUB", p.Links.GitHub},
		{"LIVE", p.Links.Live},
		{"DEMO", p.Links.Demo},
	} {
		if l.url != "" {
			c.Lines = append(c.Lines, fmt.Sprintf("%-6s %s", l.name, l.url))
		}
	}
	return c
}

func bar(v float32) string {
	n := int(math32.Round(clamp01(v) * barWidth))
	return "[" + strings.Repeat("#", n) + strings.Repeat(".", barWidth-n) + "]"
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
