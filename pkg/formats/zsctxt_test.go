package formats

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/Faultbox/junon-rose/pkg/math"
	"github.com/Faultbox/junon-rose/pkg/rw"
)

const sampleModelText = `
numobj 2
cylinder 5200 5200 300

obj 1
	mesh 3ddata/junon/house.zms
	pos 1 2 3
	collision 76
	uselightmap 1
	mat 3ddata/junon/stone.dds
		twoside 1

obj 2
	mesh 3ddata/junon/roof.zms
	parent 1
	bonenumber 4
	anim 3ddata/junon/door.zmo
	rangeset 2
	mat 3ddata/junon/glow.dds
		glowtype 2
		glowcolor 1 0.5 0.25

numpoint 1

point 1
	effect 3ddata/effect/torch.eft
	type 1
	pos 0.5 0 2
	parent 1
`

func TestModelReadText(t *testing.T) {
	var m Model
	if err := m.ReadText(strings.NewReader(sampleModelText)); err != nil {
		t.Fatal(err)
	}

	if len(m.Parts) != 2 || len(m.DummyPoints) != 1 {
		t.Fatalf("parts %d dummies %d", len(m.Parts), len(m.DummyPoints))
	}
	if m.BoundingCylinder.Radius != 300 || m.BoundingCylinder.Center.X != 5200 {
		t.Errorf("cylinder = %+v", m.BoundingCylinder)
	}

	p1 := m.Parts[0]
	if p1.MeshPath != "3ddata/junon/house.zms" {
		t.Errorf("mesh = %q", p1.MeshPath)
	}
	if p1.Position != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("pos = %+v", p1.Position)
	}
	if p1.CollisionShape != CollisionShapeMesh {
		t.Errorf("collision shape = %d", p1.CollisionShape)
	}
	if p1.CollisionFlags != CollisionNotMovable|CollisionNotCameraCollision {
		t.Errorf("collision flags = %#x", p1.CollisionFlags)
	}
	if !p1.UseLightmap {
		t.Error("uselightmap lost")
	}
	if p1.Material == nil || !p1.Material.TwoSided {
		t.Errorf("material = %+v", p1.Material)
	}

	p2 := m.Parts[1]
	if p2.Parent != 0 || p2.BoneIndex != 4 || p2.RangeSetID != 2 {
		t.Errorf("links = %+v", p2)
	}
	if p2.AnimationPath != "3ddata/junon/door.zmo" {
		t.Errorf("anim = %q", p2.AnimationPath)
	}
	if p2.Material == nil || p2.Material.GlowType != GlowSimple {
		t.Fatalf("glow material = %+v", p2.Material)
	}
	if p2.Material.GlowColor != (math.Color3{R: 1, G: 0.5, B: 0.25}) {
		t.Errorf("glow color = %+v", p2.Material.GlowColor)
	}

	d := m.DummyPoints[0]
	if d.Attachment == nil || d.Attachment.Path != "3ddata/effect/torch.eft" {
		t.Fatalf("attachment = %+v", d.Attachment)
	}
	if !d.Attachment.NightOnly {
		t.Error("type 1 should be night-only")
	}
	if d.Parent != 0 {
		t.Errorf("dummy parent = %d", d.Parent)
	}
}

func TestModelTextRoundTrip(t *testing.T) {
	var m Model
	if err := m.ReadText(strings.NewReader(sampleModelText)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatal(err)
	}

	var got Model
	if err := got.ReadText(&buf); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(&got, &m) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", &got, &m)
	}
}

func TestModelTextAlphaTestAccumulation(t *testing.T) {
	// alpharef before alphatest: both apply once the block completes.
	text := `
obj 1
	mesh a.zms
	mat a.dds
		alpharef 64
		alphatest 1
`
	var m Model
	if err := m.ReadText(strings.NewReader(text)); err != nil {
		t.Fatal(err)
	}
	mat := m.Parts[0].Material
	if !mat.AlphaTestEnabled || mat.AlphaRef != 64 {
		t.Errorf("material = %+v", mat)
	}

	text = strings.Replace(text, "alphatest 1", "alphatest 0", 1)
	var m2 Model
	if err := m2.ReadText(strings.NewReader(text)); err != nil {
		t.Fatal(err)
	}
	mat = m2.Parts[0].Material
	if mat.AlphaTestEnabled || mat.AlphaRef != 0 {
		t.Errorf("disabled alphatest material = %+v", mat)
	}
}

func TestModelTextEmptyEffect(t *testing.T) {
	text := `
point 1
	type 0
`
	var m Model
	if err := m.ReadText(strings.NewReader(text)); err != nil {
		t.Fatal(err)
	}
	if len(m.DummyPoints) != 1 {
		t.Fatal("point missing")
	}
	if m.DummyPoints[0].Attachment != nil {
		t.Error("typed point without an effect path should have no attachment")
	}
}

func TestModelTextErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"property outside block", "mesh a.zms\n", "line 1"},
		{"part property on point", "point 1\nmesh a.zms\n", "line 2"},
		{"dummy property on part", "obj 1\neffect torch.eft\n", "line 2"},
		{"missing parameter", "obj 1\nuselightmap\n", "missing required parameter"},
		{"bad number", "obj 1\npos a b c\n", "invalid value"},
		{"bad glowtype", "obj 1\nmat a.dds\nglowtype 9\n", "glowtype"},
		{"bad blendtype", "obj 1\nmat a.dds\nblendtype 7\n", "blendtype"},
		{"missing mesh path", "obj 1\nmesh\n", "mesh missing path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Model
			err := m.ReadText(strings.NewReader(tt.text))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestModelTextCommentsAndUnknownDirectives(t *testing.T) {
	text := `
// a comment
numobj 1
futureprop 1 2 3

obj 1
	mesh a.zms
`
	var m Model
	if err := m.ReadText(strings.NewReader(text)); err != nil {
		t.Fatal(err)
	}
	if len(m.Parts) != 1 || m.Parts[0].MeshPath != "a.zms" {
		t.Errorf("parts = %+v", m.Parts)
	}
}

func TestModelBinaryTextEquivalence(t *testing.T) {
	var m Model
	if err := m.ReadText(strings.NewReader(sampleModelText)); err != nil {
		t.Fatal(err)
	}

	// The same model pushed through the binary list codec must decode equal.
	list := &ModelList{Models: []*Model{&m}}
	w := rw.NewWriter()
	if err := list.Write(w); err != nil {
		t.Fatal(err)
	}

	var binary ModelList
	if err := binary.Read(rw.NewReader(w.Bytes())); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(binary.Models[0], &m) {
		t.Errorf("binary/text mismatch:\ngot  %+v\nwant %+v", binary.Models[0], &m)
	}
}
