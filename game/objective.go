package game

import (
	"math/rand/v2"

	"github.com/lixenwraith/vi-piano/constant"
	"github.com/lixenwraith/vi-piano/keymap"
)

// Objective is the reference key sequence the player must reproduce
type Objective []keymap.ReferenceKey

// ObjectiveLength returns the sequence length for a level
func ObjectiveLength(level int) int {
	return level + constant.ObjectiveLengthOffset
}

// GenerateObjective draws level+1 keys uniformly with replacement
// Levels below 1 are treated as 1
func GenerateObjective(level int, rng *rand.Rand) Objective {
	if level < constant.StartLevel {
		level = constant.StartLevel
	}
	keys := keymap.ReferenceKeys()
	obj := make(Objective, ObjectiveLength(level))
	for i := range obj {
		obj[i] = keys[rng.IntN(len(keys))]
	}
	return obj
}

// Strings returns the key letters for display and JSON
func (o Objective) Strings() []string {
	out := make([]string, len(o))
	for i, k := range o {
		out[i] = string(k)
	}
	return out
}

func (o Objective) clone() Objective {
	if o == nil {
		return nil
	}
	out := make(Objective, len(o))
	copy(out, o)
	return out
}
