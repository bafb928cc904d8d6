package grip

import "github.com/go-gl/mathgl/mgl64"

// ProbeRadii are the sphere radii used to sense contact along each segment.
type ProbeRadii struct {
	BaseSweep        float64
	BaseOverlap      float64
	SecondarySweep   float64
	SecondaryOverlap float64
	TipOverlap       float64
}

// DefaultProbeRadii returns radii tuned for a human-scale hand in metres.
func DefaultProbeRadii() ProbeRadii {
	return ProbeRadii{
		BaseSweep:        0.01,
		BaseOverlap:      0.02,
		SecondarySweep:   0.015,
		SecondaryOverlap: 0.01,
		TipOverlap:       0.01,
	}
}

// withDefaults fills zero radii from DefaultProbeRadii.
func (r ProbeRadii) withDefaults() ProbeRadii {
	d := DefaultProbeRadii()
	if r.BaseSweep <= 0 {
		r.BaseSweep = d.BaseSweep
	}
	if r.BaseOverlap <= 0 {
		r.BaseOverlap = d.BaseOverlap
	}
	if r.SecondarySweep <= 0 {
		r.SecondarySweep = d.SecondarySweep
	}
	if r.SecondaryOverlap <= 0 {
		r.SecondaryOverlap = d.SecondaryOverlap
	}
	if r.TipOverlap <= 0 {
		r.TipOverlap = d.TipOverlap
	}
	return r
}

// ContactClassifier sets per-joint contact flags from probe results. A flag
// once set stays set until the skeleton is restored.
type ContactClassifier struct {
	probe SpatialProbe
	radii ProbeRadii
}

func NewContactClassifier(probe SpatialProbe, radii ProbeRadii) *ContactClassifier {
	return &ContactClassifier{probe: probe, radii: radii.withDefaults()}
}

// Radii returns the effective probe radii.
func (c *ContactClassifier) Radii() ProbeRadii {
	if c == nil {
		return DefaultProbeRadii()
	}
	return c.radii
}

// Classify probes every finger segment once.
func (c *ContactClassifier) Classify(s *FingerSkeleton) {
	if c == nil || s == nil {
		return
	}
	for i := 0; i < s.aligned(); i++ {
		base := s.Base.Joints[i].Bone.WorldPosition()
		secondary := s.Secondary.Joints[i].Bone.WorldPosition()
		tip := s.Tip.Joints[i].Bone.WorldPosition()
		fingertip := s.Fingertips[i].WorldPosition()

		if !s.Base.Joints[i].Interacting && (c.sweep(base, secondary, c.radii.BaseSweep) ||
			c.probe.Overlaps(secondary, c.radii.BaseOverlap)) {
			s.Base.Mark(i)
		}

		if !s.Secondary.Joints[i].Interacting && (c.sweep(secondary, tip, c.radii.SecondarySweep) ||
			c.probe.Overlaps(fingertip, c.radii.SecondaryOverlap) ||
			c.probe.Overlaps(secondary, c.radii.SecondaryOverlap) ||
			c.probe.Overlaps(tip, c.radii.SecondaryOverlap)) {
			s.Secondary.Mark(i)
		}

		if !s.Tip.Joints[i].Interacting && c.probe.Overlaps(fingertip, c.radii.TipOverlap) {
			s.Tip.Mark(i)
		}
	}
}

func (c *ContactClassifier) sweep(from, to mgl64.Vec3, radius float64) bool {
	dir := to.Sub(from)
	return c.probe.SweepHits(from, dir, radius, dir.Len())
}
