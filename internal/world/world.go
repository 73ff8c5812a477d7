// Package world lays out the flight course: spawn pad, noise terrain, floating
// platforms, project islands with portals, and every crystal.
package world

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"vimana/internal/content"
	"vimana/internal/flight"
	"vimana/internal/input"
	"vimana/internal/interaction"
	"vimana/internal/mapgen"
	"vimana/internal/physics"
	"vimana/internal/store"
)

var (
	SpawnPosition = mgl32.Vec3{0, 2, 0}

	SpawnPadCenter = mgl32.Vec3{0, -8, 0}
	SpawnPadHalf   = mgl32.Vec3{15, 0.5, 15}

	IslandHalf = mgl32.Vec3{12, 0.5, 12}
	// PortalOffset places a portal on its island, before the island's yaw.
	PortalOffset = mgl32.Vec3{0, 3, -5}
)

// DefaultSeed keeps the terrain identical between runs.
const DefaultSeed = 1337

// SolidKind tags static bodies for rendering.
type SolidKind uint8

const (
	SolidSpawnPad SolidKind = iota
	SolidTerrain
	SolidPlatform
	SolidIsland
)

// Solid is a static collider with its render tag.
type Solid struct {
	Kind  SolidKind
	Body  *physics.Body
	Color [3]uint8
}

type Options struct {
	Seed        int64
	Interaction interaction.Options
}

func DefaultOptions() Options {
	return Options{Seed: DefaultSeed, Interaction: interaction.DefaultOptions()}
}

// World is the built course.
type World struct {
	Physics *physics.World
	Player  *physics.Body
	Field   *interaction.Field
	Solids  []Solid
	Catalog *content.Catalog
}

// Build creates the physics world, the player body and every interactable.
func Build(cat *content.Catalog, st *store.Store, disp *input.Dispatcher, opts Options, log zerolog.Logger) (*World, error) {
	pw := physics.NewWorld()

	gear := flight.ShapeFor(st.GearDeployed())
	player := physics.NewBody(SpawnPosition, gear.HalfExtents, 1, false)
	player.Name = "vimana"
	player.SetCollider(gear.HalfExtents, gear.Offset)
	player.Friction = gear.Friction
	// The flight controller owns the velocity; gravity and damping would fight it.
	player.GravityScale = 0
	player.YawOnly = true
	pw.AddBody(player)

	w := &World{
		Physics: pw,
		Player:  player,
		Catalog: cat,
		Field:   interaction.NewField(st, disp, pw, player, opts.Interaction, log),
	}

	w.addSolid(SolidSpawnPad, SpawnPadCenter, SpawnPadHalf, mgl32.QuatIdent(), [3]uint8{60, 52, 70})

	for _, tl := range mapgen.GenerateTiles(terrainOptions(opts.Seed)) {
		shade := uint8(40 + tl.Height*60)
		w.addSolid(SolidTerrain, tl.Center, tl.HalfExtents, mgl32.QuatIdent(), [3]uint8{shade, shade / 2, shade / 3})
	}

	for _, p := range cat.Platforms {
		half := mgl32.Vec3{p.Size[0] / 2, p.Size[1] / 2, p.Size[2] / 2}
		w.addSolid(SolidPlatform, mgl32.Vec3(p.Position), half, mgl32.QuatIdent(), [3]uint8{26, 21, 32})
	}

	for _, p := range cat.Projects {
		color := content.MustColor(p.Color)
		center := mgl32.Vec3(p.Island.Position)
		yaw := mgl32.QuatRotate(p.Island.Yaw, mgl32.Vec3{0, 1, 0})
		w.addSolid(SolidIsland, center, IslandHalf, yaw, color)
		w.Field.AddPortal(p.ID, PortalPosition(p.Island), color)
	}

	for _, s := range cat.Sections {
		panel, err := store.ParsePanel(s.Panel)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", s.ID, err)
		}
		w.Field.AddCrystal(s.ID, mgl32.Vec3(s.Position), panel, content.MustColor(s.Color))
	}

	for i, s := range cat.Skills {
		w.Field.AddCollectible(s.ID, SkillPosition(i, len(cat.Skills)), cat.CrystalColor(s.ID))
	}

	log.Info().
		Int("bodies", len(pw.Bodies)).
		Int("entities", len(w.Field.Entities())).
		Msg("world built")
	return w, nil
}

func (w *World) addSolid(kind SolidKind, center, half mgl32.Vec3, rot mgl32.Quat, color [3]uint8) {
	b := physics.NewBody(center, half, 1, true)
	b.SetRotation(rot)
	w.Physics.AddBody(b)
	w.Solids = append(w.Solids, Solid{Kind: kind, Body: b, Color: color})
}

// Close releases the field's listeners.
func (w *World) Close() {
	w.Field.Close()
}

func terrainOptions(seed int64) mapgen.HeightMapOptions {
	opts := mapgen.DefaultHeightMapOptions()
	opts.Width, opts.Depth = 14, 14
	opts.TileSize = 6
	opts.HeightScale = 5
	opts.Origin = mgl32.Vec3{0, -10, 0}
	opts.Hole = mgl32.Vec2{SpawnPadHalf[0], SpawnPadHalf[2]}
	opts.Frequency = 0.25
	opts.Seed = seed
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	return opts
}

// PortalPosition returns the base of an island's portal.
func PortalPosition(is content.Island) mgl32.Vec3 {
	yaw := mgl32.QuatRotate(is.Yaw, mgl32.Vec3{0, 1, 0})
	return mgl32.Vec3(is.Position).Add(yaw.Rotate(PortalOffset))
}

// SkillPosition places skill i of n on a double spiral descending the nebula:
// two full turns, five radius bands and a gentle height wave.
func SkillPosition(i, n int) mgl32.Vec3 {
	if n <= 0 {
		n = 1
	}
	angle := float32(i) / float32(n) * math32.Pi * 4
	radius := 15 + float32(i%5)*8
	height := 30 + math32.Sin(float32(i)*0.5)*15
	return mgl32.Vec3{
		math32.Cos(angle) * radius,
		height,
		-250 - math32.Sin(angle)*radius - float32(i)*3,
	}
}
