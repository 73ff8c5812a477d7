// Package content holds the portfolio data placed in the world: projects behind
// portals, skill crystals, narrative sections and the static layout.
package content

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultData []byte

type Links struct {
	GitHub string `yaml:"github,omitempty"`
	Live   string `yaml:"live,omitempty"`
	Demo   string `yaml:"demo,omitempty"`
}

// Island is where a project's portal platform floats. Yaw is in radians.
type Island struct {
	Position [3]float32 `yaml:"position"`
	Yaw      float32    `yaml:"yaw"`
}

type Project struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	Description string   `yaml:"description"`
	TechStack   []string `yaml:"techStack"`
	Links       Links    `yaml:"links"`
	Color       string   `yaml:"color"`
	Island      Island   `yaml:"island"`
}

type Skill struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Proficiency int    `yaml:"proficiency"`
}

type AboutSection struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Content   string `yaml:"content"`
	GlowColor string `yaml:"glowColor"`
}

type SocialLink struct {
	ID       string `yaml:"id"`
	Platform string `yaml:"platform"`
	URL      string `yaml:"url"`
	Icon     string `yaml:"icon"`
}

// Section is a proximity crystal that reveals one content panel.
type Section struct {
	ID       string     `yaml:"id"`
	Panel    string     `yaml:"panel"`
	Title    string     `yaml:"title"`
	Position [3]float32 `yaml:"position"`
	Color    string     `yaml:"color"`
}

// Platform is a static floating slab; Size is the full box size.
type Platform struct {
	Position [3]float32 `yaml:"position"`
	Size     [3]float32 `yaml:"size"`
}

// Catalog is the decoded content file.
type Catalog struct {
	Projects      []Project         `yaml:"projects"`
	CrystalColors map[string]string `yaml:"crystalColors"`
	Skills        []Skill           `yaml:"skills"`
	About         []AboutSection    `yaml:"about"`
	Social        []SocialLink      `yaml:"social"`
	Sections      []Section         `yaml:"sections"`
	Platforms     []Platform        `yaml:"platforms"`
}

// Default decodes the content compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultData)
}

// Parse decodes and validates a content document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid content: %w", err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool)
	for _, p := range c.Projects {
		if p.ID == "" || seen["project:"+p.ID] {
			return fmt.Errorf("project id %q is empty or duplicated", p.ID)
		}
		seen["project:"+p.ID] = true
		if _, err := ParseColor(p.Color); err != nil {
			return fmt.Errorf("project %s: %w", p.ID, err)
		}
	}
	for _, s := range c.Skills {
		if s.ID == "" || seen["skill:"+s.ID] {
			return fmt.Errorf("skill id %q is empty or duplicated", s.ID)
		}
		seen["skill:"+s.ID] = true
		col, ok := c.CrystalColors[s.Category]
		if !ok {
			return fmt.Errorf("skill %s: unknown category %q", s.ID, s.Category)
		}
		if _, err := ParseColor(col); err != nil {
			return fmt.Errorf("category %s: %w", s.Category, err)
		}
	}
	for _, s := range c.Sections {
		if _, err := ParseColor(s.Color); err != nil {
			return fmt.Errorf("section %s: %w", s.ID, err)
		}
	}
	return nil
}

// Project looks up a project by id.
func (c *Catalog) Project(id string) (Project, bool) {
	for _, p := range c.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// Skill looks up a skill by id.
func (c *Catalog) Skill(id string) (Skill, bool) {
	for _, s := range c.Skills {
		if s.ID == id {
			return s, true
		}
	}
	return Skill{}, false
}

// SkillsByCategory returns the skills of one category in file order.
func (c *Catalog) SkillsByCategory(category string) []Skill {
	var out []Skill
	for _, s := range c.Skills {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// CrystalColor returns the RGB tint of a skill's crystal. Unknown skills are white.
func (c *Catalog) CrystalColor(skillID string) [3]uint8 {
	s, ok := c.Skill(skillID)
	if !ok {
		return [3]uint8{255, 255, 255}
	}
	rgb, err := ParseColor(c.CrystalColors[s.Category])
	if err != nil {
		return [3]uint8{255, 255, 255}
	}
	return rgb
}

// ParseColor parses "#rrggbb".
func ParseColor(s string) ([3]uint8, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return [3]uint8{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [3]uint8{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return [3]uint8{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// MustColor is ParseColor for values already validated by Parse.
func MustColor(s string) [3]uint8 {
	c, err := ParseColor(s)
	if err != nil {
		return [3]uint8{255, 255, 255}
	}
	return c
}
