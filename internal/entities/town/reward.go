package town

import "github.com/hearthvale/companion-api/internal/errors"

// Reward describes what completing a quest, achievement, or seasonal
// activity grants. Zero-value fields mean "nothing of that kind".
type Reward struct {
	BondExp         int    `json:"bond_exp,omitempty"`
	InfluencePoints int    `json:"influence_points,omitempty"`
	SpecialTitle    string `json:"special_title,omitempty"`
}

// IsZero reports whether the reward grants nothing
func (r Reward) IsZero() bool {
	return r.BondExp == 0 && r.InfluencePoints == 0 && r.SpecialTitle == ""
}

// Validate rejects malformed reward specs
func (r Reward) Validate() error {
	vb := errors.NewValidationBuilder()
	if r.BondExp < 0 {
		vb.InvalidField("BondExp", "must not be negative")
	}
	if r.InfluencePoints < 0 {
		vb.InvalidField("InfluencePoints", "must not be negative")
	}
	return vb.Build()
}

// Scale multiplies the numeric parts of the reward, for difficulty tiers
func (r Reward) Scale(factor float64) Reward {
	return Reward{
		BondExp:         int(float64(r.BondExp)*factor + 0.5),
		InfluencePoints: int(float64(r.InfluencePoints)*factor + 0.5),
		SpecialTitle:    r.SpecialTitle,
	}
}
