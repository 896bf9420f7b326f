// Text twin of the ZSC model format, used by world editors for standalone
// per-model files.
package formats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/junon-rose/pkg/math"
)

// parseState carries the block being accumulated between an obj/point line
// and the line that opens the next block (or end of input). Some material
// directives cannot be applied until the block is complete: alphatest and
// alpharef may arrive in either order, and glowcolor may precede glowtype.
type parseState struct {
	part  *ModelPart
	dummy *ModelDummyPoint

	alphaTestEnabled bool
	alphaRef         uint8
	glowColor        math.Color3
	effectPath       string
}

func newPartState() *parseState {
	part := NewModelPart()
	return &parseState{
		part:             &part,
		alphaTestEnabled: true,
		alphaRef:         128,
		glowColor:        math.ColorWhite(),
	}
}

func newDummyState() *parseState {
	dummy := NewModelDummyPoint()
	return &parseState{dummy: &dummy}
}

// commit finishes the pending block and appends it to the model.
func (s *parseState) commit(m *Model) {
	switch {
	case s == nil:
	case s.part != nil:
		if mat := s.part.Material; mat != nil {
			mat.AlphaTestEnabled = s.alphaTestEnabled
			if s.alphaTestEnabled {
				mat.AlphaRef = s.alphaRef
			} else {
				mat.AlphaRef = 0
			}
			if mat.GlowType != GlowNone {
				mat.GlowColor = s.glowColor
			}
		}
		m.Parts = append(m.Parts, *s.part)
	case s.dummy != nil:
		if a := s.dummy.Attachment; a != nil {
			if s.effectPath == "" {
				// A declared type with no effect path attaches nothing.
				s.dummy.Attachment = nil
			} else {
				a.Path = s.effectPath
			}
		}
		m.DummyPoints = append(m.DummyPoints, *s.dummy)
	}
}

// material returns the part's material, creating a default one on first use.
func (s *parseState) material() *ModelMaterial {
	if s.part.Material == nil {
		mat := DefaultModelMaterial()
		s.part.Material = &mat
	}
	return s.part.Material
}

func lineErrf(line int, format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...))
}

func parseFloat(words []string, idx, line int) (float32, error) {
	if idx >= len(words) {
		return 0, lineErrf(line, "%s missing required parameter", words[0])
	}
	v, err := strconv.ParseFloat(words[idx], 32)
	if err != nil {
		return 0, lineErrf(line, "%s has invalid value %q", words[0], words[idx])
	}
	return float32(v), nil
}

func parseInt(words []string, idx, line int) (int, error) {
	if idx >= len(words) {
		return 0, lineErrf(line, "%s missing required parameter", words[0])
	}
	v, err := strconv.Atoi(words[idx])
	if err != nil {
		return 0, lineErrf(line, "%s has invalid value %q", words[0], words[idx])
	}
	return v, nil
}

func parseVec3(words []string, line int) (math.Vec3, error) {
	var v math.Vec3
	var err error
	if v.X, err = parseFloat(words, 1, line); err != nil {
		return v, err
	}
	if v.Y, err = parseFloat(words, 2, line); err != nil {
		return v, err
	}
	v.Z, err = parseFloat(words, 3, line)
	return v, err
}

// ReadText parses the editor text form of a model. Directives before the
// first obj/point line apply to the model itself; everything after belongs
// to the most recently opened block. Unknown directives and // comments are
// skipped.
func (m *Model) ReadText(r io.Reader) error {
	var state *parseState
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	requirePart := func(line int) (*parseState, error) {
		switch {
		case state == nil:
			return nil, lineErrf(line, "property outside of an obj / point block")
		case state.part == nil:
			return nil, lineErrf(line, "model part property in a point block")
		}
		return state, nil
	}
	requireDummy := func(line int) (*parseState, error) {
		switch {
		case state == nil:
			return nil, lineErrf(line, "property outside of an obj / point block")
		case state.dummy == nil:
			return nil, lineErrf(line, "dummy point property in an obj block")
		}
		return state, nil
	}

	line := 0
	for scanner.Scan() {
		line++
		words := strings.Fields(scanner.Text())
		if len(words) == 0 || strings.HasPrefix(words[0], "//") {
			continue
		}

		switch words[0] {
		case "numobj", "numpoint":
			// Counts are declarative only; blocks define the real lengths.
			if _, err := parseInt(words, 1, line); err != nil {
				return err
			}

		case "obj":
			state.commit(m)
			state = newPartState()

		case "point":
			state.commit(m)
			state = newDummyState()

		case "cylinder":
			x, err := parseInt(words, 1, line)
			if err != nil {
				return err
			}
			y, err := parseInt(words, 2, line)
			if err != nil {
				return err
			}
			radius, err := parseFloat(words, 3, line)
			if err != nil {
				return err
			}
			m.BoundingCylinder.Center = math.Vec2i{X: int32(x), Y: int32(y)}
			m.BoundingCylinder.Radius = radius

		case "pos", "scale":
			v, err := parseVec3(words, line)
			if err != nil {
				return err
			}
			if state == nil {
				return lineErrf(line, "%s outside of an obj / point block", words[0])
			}
			switch {
			case state.part != nil && words[0] == "pos":
				state.part.Position = v
			case state.part != nil:
				state.part.Scale = v
			case words[0] == "pos":
				state.dummy.Position = v
			default:
				state.dummy.Scale = v
			}

		case "rot":
			// Scalar first on the line, same as the binary wxyz layout.
			var q math.Quat
			var err error
			if q.W, err = parseFloat(words, 1, line); err != nil {
				return err
			}
			if q.X, err = parseFloat(words, 2, line); err != nil {
				return err
			}
			if q.Y, err = parseFloat(words, 3, line); err != nil {
				return err
			}
			if q.Z, err = parseFloat(words, 4, line); err != nil {
				return err
			}
			switch {
			case state == nil:
				return lineErrf(line, "rot outside of an obj / point block")
			case state.part != nil:
				state.part.Rotation = q
			default:
				state.dummy.Rotation = q
			}

		case "parent":
			parent, err := parseInt(words, 1, line)
			if err != nil {
				return err
			}
			switch {
			case state == nil:
				return lineErrf(line, "parent outside of an obj / point block")
			case parent <= 0:
			case state.part != nil:
				state.part.Parent = int16(parent - 1)
			default:
				state.dummy.Parent = int16(parent - 1)
			}

		case "mesh":
			s, err := requirePart(line)
			if err != nil {
				return err
			}
			if len(words) < 2 || words[1] == "" {
				return lineErrf(line, "mesh missing path")
			}
			s.part.MeshPath = words[1]

		case "mat":
			s, err := requirePart(line)
			if err != nil {
				return err
			}
			if len(words) < 2 || words[1] == "" {
				return lineErrf(line, "mat missing path")
			}
			s.material().Path = words[1]

		case "isskin", "alpha", "twoside", "ztest", "zwrite", "specular":
			enabled, err := parseInt(words, 1, line)
			if err != nil {
				return err
			}
			s, err := requirePart(line)
			if err != nil {
				return err
			}
			mat := s.material()
			switch words[0] {
			case "isskin":
				mat.IsSkin = enabled != 0
			case "alpha":
				mat.AlphaEnabled = enabled != 0
			case "twoside":
				mat.TwoSided = enabled != 0
			case "ztest":
				mat.ZTestEnabled = enabled != 0
			case "zwrite":
				mat.ZWriteEnabled = enabled != 0
			case "specular":
				mat.SpecularEnabled = enabled != 0
			}

		case "alphatest":
			enabled, err := parseInt(words, 1, line)
			if err != nil {
				return err
			}
			s, err := requirePart(line)
			if err != nil {
				return err
			}
			s.alphaTestEnabled = enabled != 0

		case "alpharef":
			ref, err := parseInt(words, 1, line)
			if err != nil {
				return err
			}
			if ref < 0 || ref > 255 {
				return lineErrf(line, "alpharef has invalid value %q", words[1])
			}
			s, err := requirePart(line)
			if err != nil {
				return err
			}
			s.alphaRef = uint8(ref)

		case "alphavalue":
			alpha, err := parseFloat(words, 1, line)
			if err != nil {
				return err
			}
			s, err := requirePart(line)
			if err != nil {
				return err
			}
			s.material().Alpha = alpha

		case "blendtype":
			id, err := parseInt(words, 1, line)
			if err != nil {
				return err
			}
			if id != int(BlendModeNone) && id != int(BlendModeLighten) {
				return lineErrf(line, "unexpected blendtype %d", id)
			}
			s, err := requirePart(line)
			if err != nil {
				return err
			}
			s.material().BlendMode = MaterialBlendMode(id)

		case "glowtype":
			id, err := parseInt(words, 1, line)
			if err != nil {
				return err
			}
			if id != 0 && !validGlowType(MaterialGlowType(id)) {
				return lineErrf(line, "unexpected glowtype %d", id)
			}
			s, err := requirePart(line)
			if err != nil {
				return err
			}
			if id != 0 {
				s.material().GlowType = MaterialGlowType(id)
			}

		case "glowcolor":
			var c math.Color3
			var err error
			if c.R, err = parseFloat(words, 1, line); err != nil {
				return err
			}
			if c.G, err = parseFloat(words, 2, line); err != nil {
				return err
			}
			if c.B, err = parseFloat(words, 3, line); err != nil {
				return err
			}
			s, err := requirePart(line)
			if err != nil {
				return err
			}
			s.glowColor = c

		case "linkdummy", "bonenumber", "rangeset":
			value, err := parseInt(words, 1, line)
			if err != nil {
				return err
			}
			s, err := requirePart(line)
			if err != nil {
				return err
			}
			switch words[0] {
			case "linkdummy":
				if value >= 0 {
					s.part.DummyIndex = int16(value)
				}
			case "bonenumber":
				if value >= 0 {
					s.part.BoneIndex = int16(value)
				}
			case "rangeset":
				if value > 0 {
					s.part.RangeSetID = uint16(value)
				}
			}

		case "collision":
			value, err := parseInt(words, 1, line)
			if err != nil {
				return err
			}
			s, err := requirePart(line)
			if err != nil {
				return err
			}
			shape := uint16(value) & 0b111
			if shape <= CollisionShapeMesh {
				s.part.CollisionShape = shape
				s.part.CollisionFlags = uint16(value) &^ 0b111
			}

		case "anim":
			s, err := requirePart(line)
			if err != nil {
				return err
			}
			if len(words) < 2 || words[1] == "" {
				return lineErrf(line, "anim missing path")
			}
			s.part.AnimationPath = words[1]

		case "uselightmap":
			enabled, err := parseInt(words, 1, line)
			if err != nil {
				return err
			}
			s, err := requirePart(line)
			if err != nil {
				return err
			}
			s.part.UseLightmap = enabled != 0

		case "effect":
			s, err := requireDummy(line)
			if err != nil {
				return err
			}
			// The path is optional; some editor exports leave it blank.
			if len(words) > 1 {
				s.effectPath = words[1]
			}

		case "type":
			id, err := parseInt(words, 1, line)
			if err != nil {
				return err
			}
			s, err := requireDummy(line)
			if err != nil {
				return err
			}
			switch uint16(id) {
			case attachmentTypeNormal:
				s.dummy.Attachment = &DummyAttachment{Kind: AttachmentEffect}
			case attachmentTypeDayNight:
				s.dummy.Attachment = &DummyAttachment{Kind: AttachmentEffect, NightOnly: true}
			case attachmentTypeLight:
				s.dummy.Attachment = &DummyAttachment{Kind: AttachmentLight}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	state.commit(m)

	return nil
}

func ftoa(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// WriteText prints the model in its editor text form. Only properties that
// differ from their defaults are emitted, mirroring the binary encoder, so
// text and binary forms of the same model stay interchangeable.
func (m *Model) WriteText(w io.Writer) error {
	b := bufio.NewWriter(w)

	fmt.Fprintf(b, "numobj %d\n", len(m.Parts))
	cyl := m.BoundingCylinder
	if cyl.Radius != 0 || cyl.Center.X != 0 || cyl.Center.Y != 0 {
		fmt.Fprintf(b, "cylinder %d %d %s\n", cyl.Center.X, cyl.Center.Y, ftoa(cyl.Radius))
	}

	for i := range m.Parts {
		part := &m.Parts[i]
		fmt.Fprintf(b, "\nobj %d\n", i+1)
		fmt.Fprintf(b, "\tmesh %s\n", part.MeshPath)

		writeTransform(b, part.Position, part.Rotation, part.Scale)

		if part.CollisionShape != CollisionShapeNone {
			fmt.Fprintf(b, "\tcollision %d\n", part.CollisionShape|part.CollisionFlags)
		}
		if part.AnimationPath != "" {
			fmt.Fprintf(b, "\tanim %s\n", part.AnimationPath)
		}
		if part.Parent >= 0 {
			fmt.Fprintf(b, "\tparent %d\n", part.Parent+1)
		}
		if part.DummyIndex >= 0 {
			fmt.Fprintf(b, "\tlinkdummy %d\n", part.DummyIndex)
		}
		if part.BoneIndex >= 0 {
			fmt.Fprintf(b, "\tbonenumber %d\n", part.BoneIndex)
		}
		if part.RangeSetID > 0 {
			fmt.Fprintf(b, "\trangeset %d\n", part.RangeSetID)
		}
		if part.UseLightmap {
			fmt.Fprintf(b, "\tuselightmap 1\n")
		}

		if mat := part.Material; mat != nil {
			fmt.Fprintf(b, "\tmat %s\n", mat.Path)
			if mat.IsSkin {
				fmt.Fprintf(b, "\t\tisskin 1\n")
			}
			if mat.AlphaEnabled {
				fmt.Fprintf(b, "\t\talpha 1\n")
			}
			if mat.TwoSided {
				fmt.Fprintf(b, "\t\ttwoside 1\n")
			}
			if mat.AlphaTestEnabled {
				fmt.Fprintf(b, "\t\talphatest 1\n")
				fmt.Fprintf(b, "\t\talpharef %d\n", mat.AlphaRef)
			} else {
				fmt.Fprintf(b, "\t\talphatest 0\n")
			}
			if !mat.ZTestEnabled {
				fmt.Fprintf(b, "\t\tztest 0\n")
			}
			if !mat.ZWriteEnabled {
				fmt.Fprintf(b, "\t\tzwrite 0\n")
			}
			if mat.BlendMode != BlendModeNone {
				fmt.Fprintf(b, "\t\tblendtype %d\n", mat.BlendMode)
			}
			if mat.SpecularEnabled {
				fmt.Fprintf(b, "\t\tspecular 1\n")
			}
			if mat.Alpha != 1 {
				fmt.Fprintf(b, "\t\talphavalue %s\n", ftoa(mat.Alpha))
			}
			if mat.GlowType != GlowNone {
				fmt.Fprintf(b, "\t\tglowtype %d\n", mat.GlowType)
				fmt.Fprintf(b, "\t\tglowcolor %s %s %s\n",
					ftoa(mat.GlowColor.R), ftoa(mat.GlowColor.G), ftoa(mat.GlowColor.B))
			}
		}
	}

	if len(m.DummyPoints) > 0 {
		fmt.Fprintf(b, "\nnumpoint %d\n", len(m.DummyPoints))
	}
	for i := range m.DummyPoints {
		dummy := &m.DummyPoints[i]
		fmt.Fprintf(b, "\npoint %d\n", i+1)

		if a := dummy.Attachment; a != nil {
			fmt.Fprintf(b, "\teffect %s\n", a.Path)
			switch {
			case a.Kind == AttachmentLight:
				fmt.Fprintf(b, "\ttype %d\n", attachmentTypeLight)
			case a.NightOnly:
				fmt.Fprintf(b, "\ttype %d\n", attachmentTypeDayNight)
			default:
				fmt.Fprintf(b, "\ttype %d\n", attachmentTypeNormal)
			}
		}

		writeTransform(b, dummy.Position, dummy.Rotation, dummy.Scale)
		if dummy.Parent >= 0 {
			fmt.Fprintf(b, "\tparent %d\n", dummy.Parent+1)
		}
	}

	return b.Flush()
}

func writeTransform(b *bufio.Writer, pos math.Vec3, rot math.Quat, scale math.Vec3) {
	if !pos.IsZero() {
		fmt.Fprintf(b, "\tpos %s %s %s\n", ftoa(pos.X), ftoa(pos.Y), ftoa(pos.Z))
	}
	if !rot.IsNearIdentity() {
		fmt.Fprintf(b, "\trot %s %s %s %s\n", ftoa(rot.W), ftoa(rot.X), ftoa(rot.Y), ftoa(rot.Z))
	}
	if !scale.IsOne() {
		fmt.Fprintf(b, "\tscale %s %s %s\n", ftoa(scale.X), ftoa(scale.Y), ftoa(scale.Z))
	}
}
