// ZSC (model list) binary format codec.
package formats

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Faultbox/junon-rose/pkg/math"
	"github.com/Faultbox/junon-rose/pkg/rw"
)

// ZSC format errors.
var (
	ErrInvalidPartProperty = errors.New("invalid model part property tag")
	ErrAnimationProperty   = errors.New("legacy animation property has no handler")
	ErrPoolIndex           = errors.New("pool index out of range")
	ErrInvalidBlendMode    = errors.New("invalid material blend mode")
	ErrInvalidGlowType     = errors.New("invalid material glow type")
)

// ModelList is a ZSC file: a dense, positionally-indexed list of models.
// A nil element is a hole — that model id does not exist. Mesh paths,
// materials and effect paths are de-duplicated into shared pools on disk;
// decoded models always hold full owned values.
type ModelList struct {
	Models []*Model
}

// Model is one scene model: bounds plus its parts and dummy points.
type Model struct {
	BoundingCylinder math.BoundingCylinder
	BoundingBox      math.BoundingBox
	Parts            []ModelPart
	DummyPoints      []ModelDummyPoint
}

// MaterialBlendMode selects a non-standard blend equation. Zero means the
// default blending.
type MaterialBlendMode uint16

// Blend modes with an encoding.
const (
	BlendModeNone    MaterialBlendMode = 0
	BlendModeLighten MaterialBlendMode = 1
)

// MaterialGlowType selects a glow render pass. Zero means no glow.
type MaterialGlowType uint16

// Glow types with an encoding.
const (
	GlowNone         MaterialGlowType = 0
	GlowSimple       MaterialGlowType = 2
	GlowLight        MaterialGlowType = 3
	GlowTexture      MaterialGlowType = 4
	GlowTextureLight MaterialGlowType = 5
	GlowAlpha        MaterialGlowType = 6
)

func validGlowType(t MaterialGlowType) bool {
	return t >= GlowSimple && t <= GlowAlpha
}

// ModelMaterial is a texture path plus render state. The struct is fully
// comparable so the binary writer can de-duplicate materials by value.
type ModelMaterial struct {
	Path             string
	IsSkin           bool
	AlphaEnabled     bool
	TwoSided         bool
	AlphaTestEnabled bool
	AlphaRef         uint8
	ZTestEnabled     bool
	ZWriteEnabled    bool
	BlendMode        MaterialBlendMode
	SpecularEnabled  bool
	Alpha            float32
	GlowType         MaterialGlowType
	GlowColor        math.Color3
}

// DefaultModelMaterial returns the render state the client assumes when a
// directive is absent: alpha test at 128, depth test and write on, opaque.
func DefaultModelMaterial() ModelMaterial {
	return ModelMaterial{
		AlphaTestEnabled: true,
		AlphaRef:         128,
		ZTestEnabled:     true,
		ZWriteEnabled:    true,
		Alpha:            1,
		GlowColor:        math.ColorWhite(),
	}
}

// Collision shapes stored in the low three bits of the collision property.
const (
	CollisionShapeNone   uint16 = 0
	CollisionShapeSphere uint16 = 1
	CollisionShapeAABB   uint16 = 2
	CollisionShapeOOBB   uint16 = 3
	CollisionShapeMesh   uint16 = 4
)

// Collision flags stored in the remaining bits.
const (
	CollisionNotMovable         uint16 = 1 << 3
	CollisionNotPickable        uint16 = 1 << 4
	CollisionHeightOnly         uint16 = 1 << 5
	CollisionNotCameraCollision uint16 = 1 << 6
	CollisionPassthrough        uint16 = 1 << 7
)

// ModelPart is one mesh instance of a model. Optional indices use -1 for
// "not set"; Parent is 0-based in memory and 1-based on disk (0 = none).
type ModelPart struct {
	MeshPath      string
	Material      *ModelMaterial
	Position      math.Vec3
	Rotation      math.Quat
	Scale         math.Vec3
	BoneIndex     int16
	DummyIndex    int16
	Parent        int16
	CollisionShape uint16
	CollisionFlags uint16
	AnimationPath string
	RangeSetID    uint16
	UseLightmap   bool
}

// NewModelPart returns a part with identity transform and no links.
func NewModelPart() ModelPart {
	return ModelPart{
		Rotation:   math.QuatIdentity(),
		Scale:      math.Vec3One(),
		BoneIndex:  -1,
		DummyIndex: -1,
		Parent:     -1,
	}
}

// DummyAttachmentKind distinguishes what a dummy point carries.
type DummyAttachmentKind int

// Attachment kinds.
const (
	AttachmentEffect DummyAttachmentKind = iota
	AttachmentLight
)

// DummyAttachment is the optional payload of a dummy point: a particle
// effect (possibly night-only) or a light container name.
type DummyAttachment struct {
	Kind      DummyAttachmentKind
	Path      string // effect path, or light container name
	NightOnly bool   // effects only
}

// ModelDummyPoint is an attachment locator on a model.
type ModelDummyPoint struct {
	Attachment *DummyAttachment
	Position   math.Vec3
	Rotation   math.Quat
	Scale      math.Vec3
	Parent     int16
}

// NewModelDummyPoint returns a dummy point with identity transform.
func NewModelDummyPoint() ModelDummyPoint {
	return ModelDummyPoint{
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3One(),
		Parent:   -1,
	}
}

// Property tags of the part/dummy-point property streams. Tag zero ends the
// stream.
const (
	propertyEnd           uint8 = 0
	propertyPosition      uint8 = 1
	propertyRotation      uint8 = 2
	propertyScale         uint8 = 3
	propertyAxisRotation  uint8 = 4 // read and discarded
	propertyBoneIndex     uint8 = 5
	propertyDummyIndex    uint8 = 6
	propertyParent        uint8 = 7
	propertyAnimation     uint8 = 8 // legacy, unsupported
	propertyCollision     uint8 = 29
	propertyAnimationPath uint8 = 30
	propertyRange         uint8 = 31
	propertyUseLightmap   uint8 = 32
)

// Dummy attachment type discriminants as stored on disk.
const (
	attachmentTypeNormal   uint16 = 0
	attachmentTypeDayNight uint16 = 1
	attachmentTypeLight    uint16 = 2
)

// Read decodes a model list: the three shared pools, then each model. A
// model whose part count is zero is a hole in the list, not an empty model;
// its remaining fields are not present in the file.
func (ml *ModelList) Read(r *rw.Reader) error {
	meshCount, err := r.ReadUint16()
	if err != nil {
		return err
	}
	meshes := make([]string, meshCount)
	for i := range meshes {
		if meshes[i], err = r.ReadCString(); err != nil {
			return err
		}
	}

	materialCount, err := r.ReadUint16()
	if err != nil {
		return err
	}
	materials := make([]ModelMaterial, materialCount)
	for i := range materials {
		if materials[i], err = readMaterial(r); err != nil {
			return err
		}
	}

	effectCount, err := r.ReadUint16()
	if err != nil {
		return err
	}
	effects := make([]string, effectCount)
	for i := range effects {
		if effects[i], err = r.ReadCString(); err != nil {
			return err
		}
	}

	modelCount, err := r.ReadUint16()
	if err != nil {
		return err
	}
	ml.Models = make([]*Model, 0, modelCount)
	for i := uint16(0); i < modelCount; i++ {
		model := &Model{}

		radius, err := r.ReadUint32()
		if err != nil {
			return err
		}
		model.BoundingCylinder.Radius = float32(radius)
		if model.BoundingCylinder.Center, err = r.ReadVec2i(); err != nil {
			return err
		}

		partCount, err := r.ReadUint16()
		if err != nil {
			return err
		}
		if partCount == 0 {
			ml.Models = append(ml.Models, nil)
			continue
		}

		for j := uint16(0); j < partCount; j++ {
			part, err := readModelPart(r, meshes, materials)
			if err != nil {
				return fmt.Errorf("model %d part %d: %w", i, j, err)
			}
			model.Parts = append(model.Parts, part)
		}

		dummyCount, err := r.ReadUint16()
		if err != nil {
			return err
		}
		for j := uint16(0); j < dummyCount; j++ {
			dummy, err := readModelDummyPoint(r, effects)
			if err != nil {
				return fmt.Errorf("model %d dummy point %d: %w", i, j, err)
			}
			model.DummyPoints = append(model.DummyPoints, dummy)
		}

		if model.BoundingBox.Min, err = r.ReadVec3(); err != nil {
			return err
		}
		if model.BoundingBox.Max, err = r.ReadVec3(); err != nil {
			return err
		}

		ml.Models = append(ml.Models, model)
	}

	return nil
}

// readMaterial decodes one pool material. Unlike part properties this record
// has a fixed field sequence, no tag stream.
func readMaterial(r *rw.Reader) (ModelMaterial, error) {
	var m ModelMaterial
	var err error

	if m.Path, err = r.ReadCString(); err != nil {
		return m, err
	}
	if m.IsSkin, err = r.ReadBool16(); err != nil {
		return m, err
	}
	if m.AlphaEnabled, err = r.ReadBool16(); err != nil {
		return m, err
	}
	if m.TwoSided, err = r.ReadBool16(); err != nil {
		return m, err
	}
	if m.AlphaTestEnabled, err = r.ReadBool16(); err != nil {
		return m, err
	}
	alphaRef, err := r.ReadUint16()
	if err != nil {
		return m, err
	}
	if m.AlphaTestEnabled {
		m.AlphaRef = uint8(alphaRef)
	}
	if m.ZTestEnabled, err = r.ReadBool16(); err != nil {
		return m, err
	}
	if m.ZWriteEnabled, err = r.ReadBool16(); err != nil {
		return m, err
	}
	blendMode, err := r.ReadUint16()
	if err != nil {
		return m, err
	}
	if MaterialBlendMode(blendMode) <= BlendModeLighten {
		m.BlendMode = MaterialBlendMode(blendMode)
	}
	if m.SpecularEnabled, err = r.ReadBool16(); err != nil {
		return m, err
	}
	if m.Alpha, err = r.ReadFloat32(); err != nil {
		return m, err
	}
	glowType, err := r.ReadUint16()
	if err != nil {
		return m, err
	}
	glowColor, err := r.ReadColor3()
	if err != nil {
		return m, err
	}
	if validGlowType(MaterialGlowType(glowType)) {
		m.GlowType = MaterialGlowType(glowType)
		m.GlowColor = glowColor
	} else {
		// Normalize so decode(encode(v)) compares equal: no glow always
		// carries the white placeholder color the writer emits.
		m.GlowType = GlowNone
		m.GlowColor = math.ColorWhite()
	}

	return m, nil
}

// readModelPart decodes a part's pool indices and its tagged property
// stream. Unrecognized tags here are a hard error.
func readModelPart(r *rw.Reader, meshes []string, materials []ModelMaterial) (ModelPart, error) {
	part := NewModelPart()

	meshIndex, err := r.ReadInt16()
	if err != nil {
		return part, err
	}
	if int(meshIndex) < 0 || int(meshIndex) >= len(meshes) {
		return part, fmt.Errorf("%w: mesh %d of %d", ErrPoolIndex, meshIndex, len(meshes))
	}
	part.MeshPath = meshes[meshIndex]

	materialIndex, err := r.ReadInt16()
	if err != nil {
		return part, err
	}
	if materialIndex >= 0 {
		if int(materialIndex) >= len(materials) {
			return part, fmt.Errorf("%w: material %d of %d", ErrPoolIndex, materialIndex, len(materials))
		}
		material := materials[materialIndex]
		part.Material = &material
	}

	for {
		tag, err := r.ReadUint8()
		if err != nil {
			return part, err
		}
		if tag == propertyEnd {
			break
		}
		size, err := r.ReadUint8()
		if err != nil {
			return part, err
		}

		switch tag {
		case propertyPosition:
			if part.Position, err = r.ReadVec3(); err != nil {
				return part, err
			}
		case propertyRotation:
			if part.Rotation, err = r.ReadQuatWXYZ(); err != nil {
				return part, err
			}
		case propertyScale:
			if part.Scale, err = r.ReadVec3(); err != nil {
				return part, err
			}
		case propertyAxisRotation:
			if _, err = r.ReadQuatWXYZ(); err != nil {
				return part, err
			}
		case propertyBoneIndex:
			bone, err := r.ReadInt16()
			if err != nil {
				return part, err
			}
			if bone >= 0 {
				part.BoneIndex = bone
			}
		case propertyDummyIndex:
			dummy, err := r.ReadInt16()
			if err != nil {
				return part, err
			}
			if dummy >= 0 {
				part.DummyIndex = dummy
			}
		case propertyParent:
			parent, err := r.ReadInt16()
			if err != nil {
				return part, err
			}
			if parent > 0 {
				part.Parent = parent - 1
			}
		case propertyCollision:
			value, err := r.ReadUint16()
			if err != nil {
				return part, err
			}
			shape := value & 0b111
			if shape <= CollisionShapeMesh {
				part.CollisionShape = shape
			}
			part.CollisionFlags = value &^ 0b111
		case propertyAnimationPath:
			if part.AnimationPath, err = r.ReadFixedString(int(size)); err != nil {
				return part, err
			}
		case propertyRange:
			rangeID, err := r.ReadInt16()
			if err != nil {
				return part, err
			}
			if rangeID > 0 {
				part.RangeSetID = uint16(rangeID)
			}
		case propertyUseLightmap:
			if part.UseLightmap, err = r.ReadBool16(); err != nil {
				return part, err
			}
		case propertyAnimation:
			return part, ErrAnimationProperty
		default:
			return part, fmt.Errorf("%w: %d", ErrInvalidPartProperty, tag)
		}
	}

	return part, nil
}

// readModelDummyPoint decodes a dummy point's attachment pair and property
// stream. Unlike parts, unrecognized tags are skipped by their declared
// size; editor exports carry tags here the client never defined.
func readModelDummyPoint(r *rw.Reader, effects []string) (ModelDummyPoint, error) {
	dummy := NewModelDummyPoint()

	effectID, err := r.ReadInt16()
	if err != nil {
		return dummy, err
	}
	attachmentType, err := r.ReadUint16()
	if err != nil {
		return dummy, err
	}

	if effectID >= 0 {
		if int(effectID) >= len(effects) {
			return dummy, fmt.Errorf("%w: effect %d of %d", ErrPoolIndex, effectID, len(effects))
		}
		if path := effects[effectID]; path != "" {
			switch attachmentType {
			case attachmentTypeNormal:
				dummy.Attachment = &DummyAttachment{Kind: AttachmentEffect, Path: path}
			case attachmentTypeDayNight:
				dummy.Attachment = &DummyAttachment{Kind: AttachmentEffect, Path: path, NightOnly: true}
			case attachmentTypeLight:
				dummy.Attachment = &DummyAttachment{Kind: AttachmentLight, Path: path}
			}
		}
	}

	for {
		tag, err := r.ReadUint8()
		if err != nil {
			return dummy, err
		}
		if tag == propertyEnd {
			break
		}
		size, err := r.ReadUint8()
		if err != nil {
			return dummy, err
		}

		switch tag {
		case propertyPosition:
			if dummy.Position, err = r.ReadVec3(); err != nil {
				return dummy, err
			}
		case propertyRotation:
			if dummy.Rotation, err = r.ReadQuatWXYZ(); err != nil {
				return dummy, err
			}
		case propertyScale:
			if dummy.Scale, err = r.ReadVec3(); err != nil {
				return dummy, err
			}
		case propertyParent:
			parent, err := r.ReadInt16()
			if err != nil {
				return dummy, err
			}
			if parent > 0 {
				dummy.Parent = parent - 1
			}
		default:
			if err := r.Skip(int64(size)); err != nil {
				return dummy, err
			}
		}
	}

	return dummy, nil
}

// Write encodes the model list. The three pools are rebuilt from scratch:
// referenced values are collected into sets and sorted, so identical logical
// input always produces identical output regardless of the layout of the
// file it was decoded from. Duplicate pool entries in an original file are
// not reproduced.
func (ml *ModelList) Write(w *rw.Writer) error {
	meshes, meshIndex := ml.collectMeshPaths()
	materials, materialIndex := ml.collectMaterials()
	effects, effectIndex := ml.collectEffectPaths()

	for _, m := range materials {
		if m.BlendMode > BlendModeLighten {
			return fmt.Errorf("%w: %d", ErrInvalidBlendMode, m.BlendMode)
		}
		if m.GlowType != GlowNone && !validGlowType(m.GlowType) {
			return fmt.Errorf("%w: %d", ErrInvalidGlowType, m.GlowType)
		}
	}

	w.WriteUint16(uint16(len(meshes)))
	for _, path := range meshes {
		w.WriteCString(path)
	}

	w.WriteUint16(uint16(len(materials)))
	for _, m := range materials {
		writeMaterial(w, m)
	}

	w.WriteUint16(uint16(len(effects)))
	for _, path := range effects {
		w.WriteCString(path)
	}

	w.WriteUint16(uint16(len(ml.Models)))
	for i, model := range ml.Models {
		if model == nil {
			// A hole keeps its slot: zeroed bounds and a zero part count.
			w.WriteUint32(0)
			w.WriteVec2i(math.Vec2i{})
			w.WriteUint16(0)
			continue
		}

		w.WriteUint32(uint32(model.BoundingCylinder.Radius))
		w.WriteVec2i(model.BoundingCylinder.Center)
		w.WriteUint16(uint16(len(model.Parts)))
		if len(model.Parts) == 0 {
			// Indistinguishable from a hole on disk; nothing else to write.
			continue
		}

		for j := range model.Parts {
			if err := writeModelPart(w, &model.Parts[j], meshIndex, materialIndex); err != nil {
				return fmt.Errorf("model %d part %d: %w", i, j, err)
			}
		}

		w.WriteUint16(uint16(len(model.DummyPoints)))
		for j := range model.DummyPoints {
			writeModelDummyPoint(w, &model.DummyPoints[j], effectIndex)
		}

		w.WriteVec3(model.BoundingBox.Min)
		w.WriteVec3(model.BoundingBox.Max)
	}

	return nil
}

func (ml *ModelList) collectMeshPaths() ([]string, map[string]int) {
	set := make(map[string]struct{})
	for _, model := range ml.Models {
		if model == nil {
			continue
		}
		for i := range model.Parts {
			set[model.Parts[i].MeshPath] = struct{}{}
		}
	}
	return sortedPool(set)
}

func (ml *ModelList) collectEffectPaths() ([]string, map[string]int) {
	set := make(map[string]struct{})
	for _, model := range ml.Models {
		if model == nil {
			continue
		}
		for i := range model.DummyPoints {
			if a := model.DummyPoints[i].Attachment; a != nil {
				set[a.Path] = struct{}{}
			}
		}
	}
	return sortedPool(set)
}

func sortedPool(set map[string]struct{}) ([]string, map[string]int) {
	pool := make([]string, 0, len(set))
	for value := range set {
		pool = append(pool, value)
	}
	sort.Strings(pool)
	index := make(map[string]int, len(pool))
	for i, value := range pool {
		index[value] = i
	}
	return pool, index
}

func (ml *ModelList) collectMaterials() ([]ModelMaterial, map[ModelMaterial]int) {
	set := make(map[ModelMaterial]struct{})
	for _, model := range ml.Models {
		if model == nil {
			continue
		}
		for i := range model.Parts {
			if m := model.Parts[i].Material; m != nil {
				set[*m] = struct{}{}
			}
		}
	}

	pool := make([]ModelMaterial, 0, len(set))
	for m := range set {
		pool = append(pool, m)
	}
	sort.Slice(pool, func(i, j int) bool { return materialLess(pool[i], pool[j]) })

	index := make(map[ModelMaterial]int, len(pool))
	for i, m := range pool {
		index[m] = i
	}
	return pool, index
}

// materialLess is a total order over materials: path first, then every other
// field, so equal-path materials still sort deterministically.
func materialLess(a, b ModelMaterial) bool {
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	if a.IsSkin != b.IsSkin {
		return !a.IsSkin
	}
	if a.AlphaEnabled != b.AlphaEnabled {
		return !a.AlphaEnabled
	}
	if a.TwoSided != b.TwoSided {
		return !a.TwoSided
	}
	if a.AlphaTestEnabled != b.AlphaTestEnabled {
		return !a.AlphaTestEnabled
	}
	if a.AlphaRef != b.AlphaRef {
		return a.AlphaRef < b.AlphaRef
	}
	if a.ZTestEnabled != b.ZTestEnabled {
		return !a.ZTestEnabled
	}
	if a.ZWriteEnabled != b.ZWriteEnabled {
		return !a.ZWriteEnabled
	}
	if a.BlendMode != b.BlendMode {
		return a.BlendMode < b.BlendMode
	}
	if a.SpecularEnabled != b.SpecularEnabled {
		return !a.SpecularEnabled
	}
	if a.Alpha != b.Alpha {
		return a.Alpha < b.Alpha
	}
	if a.GlowType != b.GlowType {
		return a.GlowType < b.GlowType
	}
	if a.GlowColor.R != b.GlowColor.R {
		return a.GlowColor.R < b.GlowColor.R
	}
	if a.GlowColor.G != b.GlowColor.G {
		return a.GlowColor.G < b.GlowColor.G
	}
	return a.GlowColor.B < b.GlowColor.B
}

func writeMaterial(w *rw.Writer, m ModelMaterial) {
	w.WriteCString(m.Path)
	w.WriteBool16(m.IsSkin)
	w.WriteBool16(m.AlphaEnabled)
	w.WriteBool16(m.TwoSided)
	w.WriteBool16(m.AlphaTestEnabled)
	if m.AlphaTestEnabled {
		w.WriteUint16(uint16(m.AlphaRef))
	} else {
		w.WriteUint16(0)
	}
	w.WriteBool16(m.ZTestEnabled)
	w.WriteBool16(m.ZWriteEnabled)
	w.WriteUint16(uint16(m.BlendMode))
	w.WriteBool16(m.SpecularEnabled)
	w.WriteFloat32(m.Alpha)
	w.WriteUint16(uint16(m.GlowType))
	if m.GlowType != GlowNone {
		w.WriteColor3(m.GlowColor)
	} else {
		w.WriteColor3(math.ColorWhite())
	}
}

// writeModelPart emits the part's pool indices and only the properties that
// differ from their defaults, then the end-of-stream tag.
func writeModelPart(w *rw.Writer, part *ModelPart, meshIndex map[string]int, materialIndex map[ModelMaterial]int) error {
	index, ok := meshIndex[part.MeshPath]
	if !ok {
		return fmt.Errorf("%w: mesh path %q not pooled", ErrPoolIndex, part.MeshPath)
	}
	w.WriteUint16(uint16(index))

	if part.Material != nil {
		w.WriteUint16(uint16(materialIndex[*part.Material]))
	} else {
		w.WriteInt16(-1)
	}

	if !part.Position.IsZero() {
		w.WriteUint8(propertyPosition)
		w.WriteUint8(12)
		w.WriteVec3(part.Position)
	}

	if !part.Rotation.IsNearIdentity() {
		w.WriteUint8(propertyRotation)
		w.WriteUint8(16)
		w.WriteQuatWXYZ(part.Rotation)
	}

	if !part.Scale.IsOne() {
		w.WriteUint8(propertyScale)
		w.WriteUint8(12)
		w.WriteVec3(part.Scale)
	}

	if part.BoneIndex >= 0 {
		w.WriteUint8(propertyBoneIndex)
		w.WriteUint8(2)
		w.WriteInt16(part.BoneIndex)
	}

	if part.DummyIndex >= 0 {
		w.WriteUint8(propertyDummyIndex)
		w.WriteUint8(2)
		w.WriteInt16(part.DummyIndex)
	}

	if part.Parent >= 0 {
		w.WriteUint8(propertyParent)
		w.WriteUint8(2)
		w.WriteInt16(part.Parent + 1)
	}

	if part.CollisionShape != CollisionShapeNone {
		w.WriteUint8(propertyCollision)
		w.WriteUint8(2)
		w.WriteUint16(part.CollisionShape | part.CollisionFlags)
	}

	if part.AnimationPath != "" {
		w.WriteUint8(propertyAnimationPath)
		w.WriteUint8(uint8(len(part.AnimationPath)))
		w.WriteFixedString(part.AnimationPath, len(part.AnimationPath))
	}

	if part.RangeSetID > 0 {
		w.WriteUint8(propertyRange)
		w.WriteUint8(2)
		w.WriteUint16(part.RangeSetID)
	}

	if part.UseLightmap {
		w.WriteUint8(propertyUseLightmap)
		w.WriteUint8(2)
		w.WriteBool16(part.UseLightmap)
	}

	w.WriteUint8(propertyEnd)
	return nil
}

func writeModelDummyPoint(w *rw.Writer, dummy *ModelDummyPoint, effectIndex map[string]int) {
	if a := dummy.Attachment; a != nil {
		w.WriteUint16(uint16(effectIndex[a.Path]))
		switch {
		case a.Kind == AttachmentLight:
			w.WriteUint16(attachmentTypeLight)
		case a.NightOnly:
			w.WriteUint16(attachmentTypeDayNight)
		default:
			w.WriteUint16(attachmentTypeNormal)
		}
	} else {
		w.WriteInt16(-1)
		w.WriteUint16(0)
	}

	if !dummy.Position.IsZero() {
		w.WriteUint8(propertyPosition)
		w.WriteUint8(12)
		w.WriteVec3(dummy.Position)
	}

	if !dummy.Rotation.IsNearIdentity() {
		w.WriteUint8(propertyRotation)
		w.WriteUint8(16)
		w.WriteQuatWXYZ(dummy.Rotation)
	}

	if !dummy.Scale.IsOne() {
		w.WriteUint8(propertyScale)
		w.WriteUint8(12)
		w.WriteVec3(dummy.Scale)
	}

	if dummy.Parent >= 0 {
		w.WriteUint8(propertyParent)
		w.WriteUint8(2)
		w.WriteInt16(dummy.Parent + 1)
	}

	w.WriteUint8(propertyEnd)
}
