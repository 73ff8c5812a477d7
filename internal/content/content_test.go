package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Projects, 3)
	assert.Len(t, c.Skills, 20)
	assert.Len(t, c.About, 3)
	assert.Len(t, c.Social, 3)
	assert.Len(t, c.Sections, 3)
	assert.Len(t, c.CrystalColors, 4)

	p, ok := c.Project("brain-tumor")
	require.True(t, ok)
	assert.Equal(t, [3]float32{-50, 80, -480}, p.Island.Position)
	assert.Contains(t, p.TechStack, "MONAI")
	assert.NotEmpty(t, p.Links.Live)

	s, ok := c.Skill("cpp")
	require.True(t, ok)
	assert.Equal(t, "C++", s.Name)
	assert.Len(t, c.SkillsByCategory("ai"), 5)

	assert.Equal(t, [3]float32{0, 20, -230}, c.Sections[1].Position)
}

func TestLookupMisses(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	_, ok := c.Project("nope")
	assert.False(t, ok)
	_, ok = c.Skill("cobol")
	assert.False(t, ok)
	assert.Equal(t, [3]uint8{255, 255, 255}, c.CrystalColor("cobol"))
}

func TestCrystalColor(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{0x4f, 0x9e, 0xff}, c.CrystalColor("rust"))
	assert.Equal(t, [3]uint8{0xff, 0x44, 0x44}, c.CrystalColor("yolo"))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    [3]uint8
		wantErr bool
	}{
		{"#00ff88", [3]uint8{0, 0xff, 0x88}, false},
		{"ffd700", [3]uint8{0xff, 0xd7, 0}, false},
		{"#fff", [3]uint8{}, true},
		{"#zzzzzz", [3]uint8{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejectsBadContent(t *testing.T) {
	_, err := Parse([]byte("projects: [{id: a, color: '#000000'}, {id: a, color: '#000000'}]"))
	assert.ErrorContains(t, err, "duplicated")

	_, err = Parse([]byte("skills: [{id: go, category: systems}]"))
	assert.ErrorContains(t, err, "unknown category")

	_, err = Parse([]byte("projects: ["))
	assert.ErrorContains(t, err, "decode content")
}
