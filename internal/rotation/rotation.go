// Package rotation picks who is responsible for bringing game gear next.
// It is a flag scan over the roster in config order, independent of the
// schedule and sorting logic.
package rotation

import (
	"errors"

	"pelada/internal/config"
)

// ErrEmptyRoster is returned when there is nobody to pick.
var ErrEmptyRoster = errors.New("no players in roster")

// Next returns the first player who hasn't brought gear yet. When every
// player has taken a turn the rotation wraps: the first player is picked
// again and wrapped is true, signaling the caller to clear the flags.
func Next(players []config.Player) (config.Player, bool, error) {
	if len(players) == 0 {
		return config.Player{}, false, ErrEmptyRoster
	}

	for _, p := range players {
		if !p.BroughtGear {
			return p, false, nil
		}
	}

	return players[0], true, nil
}
