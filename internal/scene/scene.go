// Package scene renders the course in 3D from the flight controller's camera.
package scene

import (
	"image/color"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"vimana/internal/game"
	"vimana/internal/interaction"
	"vimana/internal/primitives"
	"vimana/internal/world"
)

const (
	gridExtent     = 60
	gridStep       = 5
	gridMajorEvery = 4
	skyboxScale    = 1000
	fovy           = 60
	// crystal spheres shrink to this fraction of their pickup radius
	crystalScale   = 0.12
	collectibleDia = 1.2
)

// equirectangular panoramas only; tried from repo root and from cmd/vimana
var skyboxPaths = []string{
	"assets/skybox/skybox.png",
	"assets/skybox/skybox.jpg",
	"../../assets/skybox/skybox.png",
	"../../assets/skybox/skybox.jpg",
}

var (
	skyTop      = rl.NewColor(4, 6, 20, 255)
	skyBottom   = rl.NewColor(20, 10, 40, 255)
	hullColor   = color.RGBA{200, 210, 230, 255}
	engineColor = color.RGBA{0, 200, 255, 255}
	gearColor   = color.RGBA{90, 90, 100, 255}
	gridMinor   = rl.NewColor(0, 255, 255, 30)
	gridMajor   = rl.NewColor(0, 255, 255, 80)
)

// Scene draws the world for one session.
type Scene struct {
	Camera      rl.Camera3D
	GridVisible bool
	prims       *primitives.Registry

	skyboxTex    rl.Texture2D
	skyboxMesh   rl.Mesh
	skyboxMtl    rl.Material
	skyboxLoaded bool
	skyboxPath   string
	skyboxCamLoc int32
	skyboxTexLoc int32
}

// New returns a scene with a perspective camera. The grid follows gridVisible.
func New(gridVisible bool) *Scene {
	s := &Scene{GridVisible: gridVisible, prims: primitives.NewRegistry()}
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = fovy
	s.Camera.Projection = rl.CameraPerspective
	for _, p := range skyboxPaths {
		if _, err := os.Stat(filepath.Clean(p)); err == nil {
			s.skyboxPath = filepath.Clean(p)
			break
		}
	}
	return s
}

// SetGridVisible sets whether the editor grid is drawn.
func (s *Scene) SetGridVisible(visible bool) {
	s.GridVisible = visible
}

// Update copies the flight camera and render tier into raylib state.
func (s *Scene) Update(g *game.Session) {
	cam := g.Flight.Camera()
	s.Camera.Position = vec(cam.Position)
	s.Camera.Target = vec(cam.Target)
	s.prims.SetView(cam.Position, mgl32.Vec3{0.4, 1, 0.3})
	if g.Store.Snapshot().Bloom {
		s.prims.SetGlow(1)
	} else {
		s.prims.SetGlow(0)
	}
}

// Draw renders the sky, the course and the craft. Call after ClearBackground and
// before any 2D overlay.
func (s *Scene) Draw(g *game.Session) {
	s.ensureSkybox()
	if !s.skyboxLoaded {
		rl.DrawRectangleGradientV(0, 0, int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()), skyTop, skyBottom)
	}
	rl.BeginMode3D(s.Camera)
	if s.skyboxLoaded {
		s.drawSkybox()
	}
	if s.GridVisible {
		drawGrid()
	}
	s.drawSolids(g.World)
	s.drawEntities(g.World.Field)
	s.drawCraft(g)
	rl.EndMode3D()
}

func (s *Scene) drawSolids(w *world.World) {
	for _, sol := range w.Solids {
		tint := color.RGBA{sol.Color[0], sol.Color[1], sol.Color[2], 255}
		b := sol.Body
		s.prims.Draw(primitives.Cube, b.Position(), b.HalfExtents().Mul(2), b.Rotation(), tint)
	}
}

func (s *Scene) drawEntities(f *interaction.Field) {
	for _, e := range f.Entities() {
		tint := color.RGBA{e.Color[0], e.Color[1], e.Color[2], 255}
		switch e.Kind {
		case interaction.KindCrystal:
			d := e.Radius * crystalScale
			if e.State == interaction.StateInRange {
				d *= 1.3
			}
			s.prims.Glow(primitives.Sphere, e.Position, mgl32.Vec3{d, d * 1.6, d}, tint)
		case interaction.KindPortal:
			if e.State == interaction.StateConsumed {
				tint.A = 140
			}
			size := interaction.PortalSensorHalfExtents.Mul(2)
			s.prims.Glow(primitives.Cylinder, e.Position.Add(interaction.PortalSensorOffset), size, tint)
		case interaction.KindCollectible:
			if e.State == interaction.StateConsumed {
				continue
			}
			s.prims.Glow(primitives.Sphere, e.Position, mgl32.Vec3{collectibleDia, collectibleDia, collectibleDia}, tint)
		}
	}
}

func (s *Scene) drawCraft(g *game.Session) {
	p := g.World.Player
	rot := p.Rotation().Mul(mgl32.QuatRotate(g.Flight.Tilt(), mgl32.Vec3{1, 0, 0}))
	pos := p.Position()
	s.prims.Draw(primitives.Cube, pos, mgl32.Vec3{1.6, 0.5, 3}, rot, hullColor)

	if g.Flight.Thrusting() {
		tail := pos.Add(rot.Rotate(mgl32.Vec3{0, 0, 1.6}))
		s.prims.Glow(primitives.Sphere, tail, mgl32.Vec3{0.5, 0.5, 0.5}, engineColor)
	}
	if g.Store.GearDeployed() {
		for _, x := range []float32{-0.6, 0.6} {
			leg := pos.Add(rot.Rotate(mgl32.Vec3{x, -0.6, 0}))
			s.prims.Draw(primitives.Cylinder, leg, mgl32.Vec3{0.15, 0.7, 0.15}, rot, gearColor)
		}
	}
}

func vec(v mgl32.Vec3) rl.Vector3 { return rl.NewVector3(v[0], v[1], v[2]) }

func (s *Scene) ensureSkybox() {
	if s.skyboxPath == "" {
		return
	}
	path := s.skyboxPath
	s.skyboxPath = ""

	s.skyboxTex = rl.LoadTexture(path)
	if !rl.IsTextureValid(s.skyboxTex) {
		return
	}
	shader := rl.LoadShaderFromMemory(equirectVS, equirectFS)
	if !rl.IsShaderValid(shader) {
		rl.UnloadTexture(s.skyboxTex)
		return
	}
	s.skyboxMesh = rl.GenMeshCube(1, 1, 1)
	s.skyboxMtl = rl.LoadMaterialDefault()
	s.skyboxMtl.Shader = shader
	s.skyboxCamLoc = rl.GetShaderLocation(shader, "cameraPosition")
	s.skyboxTexLoc = rl.GetShaderLocation(shader, "skybox")
	s.skyboxLoaded = true
}

const (
	equirectVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragWorldPos;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragWorldPos = worldPos.xyz;
  gl_Position = matProjection * matView * worldPos;
}
`
	equirectFS = `#version 330
in vec3 fragWorldPos;
out vec4 finalColor;
uniform sampler2D skybox;
uniform vec3 cameraPosition;
void main() {
  vec3 dir = normalize(fragWorldPos - cameraPosition);
  float u = atan(dir.z, dir.x) / 6.28318530718 + 0.5;
  float v = 0.5 - asin(clamp(dir.y, -1.0, 1.0)) / 3.14159265359;
  finalColor = texture(skybox, vec2(u, v));
}
`
)

func (s *Scene) drawSkybox() {
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	pos := s.Camera.Position
	transform := rl.MatrixMultiply(rl.MatrixScale(skyboxScale, skyboxScale, skyboxScale), rl.MatrixTranslate(pos.X, pos.Y, pos.Z))
	if s.skyboxCamLoc >= 0 {
		rl.SetShaderValueV(s.skyboxMtl.Shader, s.skyboxCamLoc, []float32{pos.X, pos.Y, pos.Z}, rl.ShaderUniformVec3, 1)
	}
	if s.skyboxTexLoc >= 0 {
		rl.SetShaderValueTexture(s.skyboxMtl.Shader, s.skyboxTexLoc, s.skyboxTex)
	}
	rl.DrawMesh(s.skyboxMesh, s.skyboxMtl, transform)
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
}

// drawGrid draws a flat grid at the spawn pad's top face.
func drawGrid() {
	y := world.SpawnPadCenter[1] + world.SpawnPadHalf[1] + 0.01
	var a, b rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridStep {
		c := gridMinor
		if (i/gridStep)%gridMajorEvery == 0 {
			c = gridMajor
		}
		a.X, a.Y, a.Z = float32(i), y, -gridExtent
		b.X, b.Y, b.Z = float32(i), y, gridExtent
		rl.DrawLine3D(a, b, c)
		a.X, a.Z = -gridExtent, float32(i)
		b.X, b.Z = gridExtent, float32(i)
		rl.DrawLine3D(a, b, c)
	}
}
