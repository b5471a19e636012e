package chance

import "fmt"

// ScriptedRoller is a dice.Roller that replays a fixed sequence of rolls.
// Tests use it to pin down probabilistic branches; once the script runs out
// it keeps returning the last value.
type ScriptedRoller struct {
	Rolls []int
	pos   int
}

// NewScripted creates a roller that replays the given rolls in order
func NewScripted(rolls ...int) *ScriptedRoller {
	return &ScriptedRoller{Rolls: rolls}
}

// Roll returns the next scripted value, clamped to [1, size]
func (r *ScriptedRoller) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid die size: %d", size)
	}
	if len(r.Rolls) == 0 {
		return 1, nil
	}

	v := r.Rolls[r.pos]
	if r.pos < len(r.Rolls)-1 {
		r.pos++
	}

	if v < 1 {
		v = 1
	}
	if v > size {
		v = size
	}
	return v, nil
}

// RollN returns count scripted rolls
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
