package timeline

// Auto-shrink policy for intro/outro bumpers. When the bumpers would
// crowd out the slideshow they are rescaled proportionally, with an
// absolute floor so neither collapses into a blink.
const (
	// ShrinkTrigger is the fraction of the total duration above which
	// the bumpers get rescaled.
	ShrinkTrigger = 0.80
	// ShrinkTarget is the fraction of the total duration the rescaled
	// bumpers are allowed to consume together.
	ShrinkTarget = 0.60
	// ShrinkFloor is the minimum length in seconds for a rescaled
	// bumper.
	ShrinkFloor = 5.0
)

// ShrinkBumpers applies the auto-shrink policy. Bumpers within the
// trigger budget are returned unchanged. A bumper is never grown: if
// the operator asked for less than the floor, they keep what they
// asked for.
func ShrinkBumpers(total, intro, outro float64) (float64, float64) {
	combined := intro + outro
	if combined <= 0 || combined <= total*ShrinkTrigger {
		return intro, outro
	}

	scale := total * ShrinkTarget / combined
	return shrinkOne(intro, scale), shrinkOne(outro, scale)
}

func shrinkOne(d, scale float64) float64 {
	scaled := d * scale
	if scaled < ShrinkFloor && d > scaled {
		scaled = ShrinkFloor
		if scaled > d {
			scaled = d
		}
	}
	return scaled
}
