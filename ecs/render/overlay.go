package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gripposer/ecs"
	"github.com/milk9111/gripposer/ecs/component"
	"github.com/milk9111/gripposer/grip"
	"github.com/milk9111/gripposer/physics"
	"github.com/milk9111/gripposer/skeleton"
	"golang.org/x/image/colornames"
)

const (
	circleSegments = 32
	boneWidth      = 3
	lineWidth      = 1
)

// Overlay draws hands and graspable objects projected onto the XY plane,
// Y up.
type Overlay struct {
	// Scale is pixels per world unit.
	Scale float64
	// CenterX and CenterY place the world origin on screen.
	CenterX, CenterY float64
	// DestinationOffset shifts the destination skeleton preview.
	DestinationOffset mgl64.Vec3
	// Debug adds per-hand status lines.
	Debug bool
}

func NewOverlay(width, height int) *Overlay {
	return &Overlay{
		Scale:             1800,
		CenterX:           float64(width) * 0.35,
		CenterY:           float64(height) * 0.5,
		DestinationOffset: mgl64.Vec3{0.35, 0, 0},
	}
}

func (o *Overlay) toScreen(x, y float64) (float32, float32) {
	return float32(o.CenterX + x*o.Scale), float32(o.CenterY - y*o.Scale)
}

func (o *Overlay) line(screen *ebiten.Image, a, b mgl64.Vec3, width float32, clr color.Color) {
	x1, y1 := o.toScreen(a.X(), a.Y())
	x2, y2 := o.toScreen(b.X(), b.Y())
	vector.StrokeLine(screen, x1, y1, x2, y2, width, clr, true)
}

func (o *Overlay) circle(screen *ebiten.Image, c mgl64.Vec3, r float64, clr color.Color) {
	x, y := o.toScreen(c.X(), c.Y())
	vector.StrokeCircle(screen, x, y, float32(r*o.Scale), lineWidth, clr, true)
}

// Draw renders every hand and the objects of the spatial backend.
func (o *Overlay) Draw(screen *ebiten.Image, w *ecs.World, backend any) {
	if o == nil || screen == nil || w == nil {
		return
	}

	switch b := backend.(type) {
	case *physics.Planar:
		o.drawSpace(screen, b.Space())
	case *physics.Volume:
		for _, body := range b.Bodies() {
			o.drawVolumeBody(screen, body)
		}
	}

	row := 0
	ecs.ForEach(w, component.HandComponent.Kind(), func(e ecs.Entity, hand *component.Hand) {
		if hand.Rig == nil {
			return
		}
		o.drawHand(screen, hand.Rig)
		o.drawSkeleton(screen, hand.Destination, o.DestinationOffset, colornames.Skyblue)
		if o.Debug {
			ebitenutil.DebugPrintAt(screen, status(e, hand.Rig), 10, 30+row*16)
			row++
		}
	})
}

func status(e ecs.Entity, h *grip.Hand) string {
	line := fmt.Sprintf("hand %s: %s  cycles=%d", e, h.State(), h.Cycles())
	if seg, ok := h.Phase(); ok {
		line += fmt.Sprintf("  phase=%s %.0f%%", seg, 100*math.Min(h.Progress(), 1))
	}
	if body, ok := h.Current(); ok {
		line += fmt.Sprintf("  tracking=%s", body.ID())
	} else if snap, ok := h.Tracked(); ok {
		line += fmt.Sprintf("  last=%s", snap.ID)
	}
	return line
}

func (o *Overlay) drawHand(screen *ebiten.Image, h *grip.Hand) {
	ring := colornames.Gray
	if h.State() == grip.Gripping {
		ring = colornames.Gold
	}
	o.circle(screen, h.AnchorPosition(), h.CaptureRadius(), ring)

	s := h.Skeleton()
	for i := 0; i < s.Fingers(); i++ {
		chain := []grip.Joint{s.Base.Joints[i], s.Secondary.Joints[i], s.Tip.Joints[i]}
		for j, joint := range chain {
			end := s.Fingertips[i].WorldPosition()
			if j+1 < len(chain) {
				end = chain[j+1].Bone.WorldPosition()
			}
			clr := color.Color(colornames.Limegreen)
			if joint.Interacting {
				clr = colornames.Red
			}
			o.line(screen, joint.Bone.WorldPosition(), end, boneWidth, clr)
		}
		o.line(screen, h.AnchorPosition(), s.Base.Joints[i].Bone.WorldPosition(), lineWidth, colornames.Dimgray)
	}
}

func (o *Overlay) drawSkeleton(screen *ebiten.Image, s *skeleton.Skeleton, offset mgl64.Vec3, clr color.Color) {
	for _, b := range s.Bones() {
		p := b.Parent()
		if p == nil {
			continue
		}
		o.line(screen, p.WorldPosition().Add(offset), b.WorldPosition().Add(offset), lineWidth, clr)
	}
}

func (o *Overlay) drawVolumeBody(screen *ebiten.Image, b *physics.VolumeBody) {
	t := b.Transform()
	shape := b.Shape()
	switch shape.Kind {
	case physics.ShapeBox:
		h := shape.HalfExtents
		sx, sy := h.X()*t.Scale.X(), h.Y()*t.Scale.Y()
		corners := []mgl64.Vec3{{-sx, -sy, 0}, {sx, -sy, 0}, {sx, sy, 0}, {-sx, sy, 0}}
		for i := range corners {
			corners[i] = t.Position.Add(t.Rotation.Rotate(corners[i]))
		}
		for i := range corners {
			o.line(screen, corners[i], corners[(i+1)%len(corners)], lineWidth, colornames.Orange)
		}
	default:
		r := shape.Radius * math.Max(t.Scale.X(), math.Max(t.Scale.Y(), t.Scale.Z()))
		o.circle(screen, t.Position, r, colornames.Orange)
		spoke := t.Rotation.Rotate(mgl64.Vec3{r, 0, 0})
		o.line(screen, t.Position, t.Position.Add(spoke), lineWidth, colornames.Orange)
	}
}

func (o *Overlay) drawSpace(screen *ebiten.Image, space *cp.Space) {
	if space == nil {
		return
	}
	cp.DrawSpace(space, &spaceDrawer{overlay: o, screen: screen})
}

// spaceDrawer adapts cp.Drawer to the overlay projection.
type spaceDrawer struct {
	overlay *Overlay
	screen  *ebiten.Image
}

func (d *spaceDrawer) segment(a, b cp.Vector, c cp.FColor) {
	d.overlay.line(d.screen, mgl64.Vec3{a.X, a.Y, 0}, mgl64.Vec3{b.X, b.Y, 0}, lineWidth, toNRGBA(c))
}

func (d *spaceDrawer) polygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.segment(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *spaceDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	points := make([]cp.Vector, 0, circleSegments)
	for i := 0; i < circleSegments; i++ {
		t := 2 * math.Pi * float64(i) / circleSegments
		points = append(points, cp.Vector{X: pos.X + math.Cos(t)*radius, Y: pos.Y + math.Sin(t)*radius})
	}
	d.polygon(points, outline)
	d.segment(pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, outline)
}

func (d *spaceDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.segment(a, b, fill)
}

func (d *spaceDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.segment(a, b, outline)
}

func (d *spaceDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.polygon(verts[:count], outline)
}

func (d *spaceDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	d.segment(cp.Vector{X: pos.X - 0.002, Y: pos.Y}, cp.Vector{X: pos.X + 0.002, Y: pos.Y}, fill)
}

func (d *spaceDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *spaceDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.65, B: 0, A: 1}
}

func (d *spaceDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 1, G: 0.65, B: 0, A: 0.5}
}

func (d *spaceDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *spaceDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *spaceDrawer) Data() interface{} {
	return nil
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(mgl64.Clamp(float64(c.R), 0, 1) * 255),
		G: uint8(mgl64.Clamp(float64(c.G), 0, 1) * 255),
		B: uint8(mgl64.Clamp(float64(c.B), 0, 1) * 255),
		A: uint8(mgl64.Clamp(float64(c.A), 0, 1) * 255),
	}
}
