// Package primitives draws lit, tinted unit meshes for the course: cubes for
// terrain and pads, spheres for crystals and skill orbs, cylinders for portals.
package primitives

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Shape selects a unit mesh. Every shape fits a 1x1x1 box centred on the origin.
type Shape uint8

const (
	Cube Shape = iota
	Sphere
	Cylinder
	shapeCount
)

const (
	sphereRings    = 16
	sphereSlices   = 16
	cylinderSlices = 20
)

type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
	// centre shifts the mesh so the draw position is its middle.
	centre rl.Vector3
	ok     bool
}

// Registry owns the GPU meshes. Meshes are created on first use, after the window
// and GL context exist.
type Registry struct {
	cache    [shapeCount]cached
	shader   rl.Shader
	viewPos  [3]float32
	lightDir [3]float32
	glow     float32
}

// NewRegistry returns an empty registry lit from above and to the side.
func NewRegistry() *Registry {
	return &Registry{lightDir: [3]float32{0.4, 1, 0.3}}
}

// SetView sets the camera position and direction to the light for this frame.
func (r *Registry) SetView(viewPos, lightDir mgl32.Vec3) {
	r.viewPos = viewPos
	r.lightDir = lightDir
}

// SetGlow scales the emissive term drawn on Glow calls. Zero turns glow off, which
// is how the low render tier disables bloom.
func (r *Registry) SetGlow(g float32) {
	r.glow = g
}

func (r *Registry) ensure(s Shape) *cached {
	c := &r.cache[s]
	if c.ok {
		return c
	}
	switch s {
	case Sphere:
		c.mesh = rl.GenMeshSphere(0.5, sphereRings, sphereSlices)
	case Cylinder:
		c.mesh = rl.GenMeshCylinder(0.5, 1, cylinderSlices)
		// raylib cylinders stand on Y=0
		c.centre = rl.NewVector3(0, -0.5, 0)
	default:
		c.mesh = rl.GenMeshCube(1, 1, 1)
	}
	c.mtl = rl.LoadMaterialDefault()
	if !rl.IsShaderValid(r.shader) {
		r.shader = rl.LoadShaderFromMemory(litVS, litFS)
	}
	if rl.IsShaderValid(r.shader) {
		c.mtl.Shader = r.shader
	}
	c.ok = true
	return c
}

// Draw draws shape at position with the given scale, rotation and tint. Must be
// called between BeginMode3D and EndMode3D.
func (r *Registry) Draw(s Shape, position, scale mgl32.Vec3, rot mgl32.Quat, tint color.RGBA) {
	r.draw(s, position, scale, rot, tint, 0)
}

// Glow draws like Draw but adds the emissive term set by SetGlow.
func (r *Registry) Glow(s Shape, position, scale mgl32.Vec3, tint color.RGBA) {
	r.draw(s, position, scale, mgl32.QuatIdent(), tint, r.glow)
}

func (r *Registry) draw(s Shape, position, scale mgl32.Vec3, rot mgl32.Quat, tint color.RGBA, emissive float32) {
	c := r.ensure(s)
	r.setUniforms(emissive)
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.NewColor(tint.R, tint.G, tint.B, tint.A)
	}

	transform := rl.MatrixTranslate(c.centre.X, c.centre.Y, c.centre.Z)
	transform = rl.MatrixMultiply(transform, rl.MatrixScale(nonZero(scale[0]), nonZero(scale[1]), nonZero(scale[2])))
	transform = rl.MatrixMultiply(transform, rl.QuaternionToMatrix(rl.NewQuaternion(rot.V[0], rot.V[1], rot.V[2], rot.W)))
	transform = rl.MatrixMultiply(transform, rl.MatrixTranslate(position[0], position[1], position[2]))
	rl.DrawMesh(c.mesh, c.mtl, transform)
}

func nonZero(v float32) float32 {
	if v == 0 {
		return 1
	}
	return v
}

func (r *Registry) setUniforms(emissive float32) {
	sh := r.shader
	if !rl.IsShaderValid(sh) {
		return
	}
	viewPos := r.viewPos
	lightDir := r.lightDir
	amb := ambient
	if loc := rl.GetShaderLocation(sh, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(sh, loc, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(sh, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(sh, loc, lightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(sh, "ambient"); loc >= 0 {
		rl.SetShaderValueV(sh, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(sh, "emissive"); loc >= 0 {
		rl.SetShaderValue(sh, loc, []float32{emissive}, rl.ShaderUniformFloat)
	}
}

// night-sky ambient so unlit faces keep some of their tint
var ambient = [4]float32{0.18, 0.2, 0.3, 1}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform float emissive;
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  float rim = pow(1.0 - max(dot(N, V), 0.0), 3.0);
  vec3 base = colDiffuse.rgb * (ambient.rgb + 0.8 * NdotL);
  vec3 glow = colDiffuse.rgb * emissive * (0.6 + rim);
  finalColor = vec4(base + glow, colDiffuse.a);
}
`
)
