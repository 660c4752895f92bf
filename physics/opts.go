package physics

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// Opts are the game-balance constants the solver reads. They mirror the
// setting records a game database would provide and are overridable from a
// TOML file.
type Opts struct {
	// SwimHeightScale is the submerged fraction of an actor's height at
	// which it switches into swim-movement rules.
	SwimHeightScale float32
	// StormWalkMult scales how strongly a storm blowing against the
	// movement direction slows an actor. 0 disables wind entirely.
	StormWalkMult float32
}

// DefaultOpts returns the stock balance constants.
func DefaultOpts() Opts {
	return Opts{
		SwimHeightScale: 0.9,
		StormWalkMult:   0.25,
	}
}

// LoadOpts reads overrides from a TOML file on top of the defaults.
func LoadOpts(path string) (Opts, error) {
	opts := DefaultOpts()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("physics: read opts: %w", err)
	}
	if err := toml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("physics: parse opts: %w", err)
	}
	return opts, nil
}
