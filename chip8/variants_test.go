package chip8

import "testing"

// TestEveryVariantReportsItsOwnBehaviorBase guards against Properties
// losing track of which preset it came from, which would silently
// collapse every variant-dependent branch (dispatch table overrides,
// nativeResolution, the audio waveform switch) onto CHIP-8's behavior.
func TestEveryVariantReportsItsOwnBehaviorBase(t *testing.T) {
	for id := VariantCHIP8; id < variantCount; id++ {
		p := Profile(id).Properties
		if p.BehaviorBase != id {
			t.Errorf("%v: Properties.BehaviorBase = %v, want %v", id, p.BehaviorBase, id)
		}
	}
}
