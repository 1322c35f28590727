package draft

import (
	"fmt"
)

// Player is a rated roster member being drafted onto a team.
type Player struct {
	ID     string
	Name   string
	Rating int // 1..5
}

// Drafter distributes an ordered pool of players across numTeams teams.
// The pool arrives strongest-first; the drafter decides pick order only.
type Drafter interface {
	Draft(pool []Player, numTeams int) [][]Player
}

// Get returns a Drafter by name.
func Get(name string) (Drafter, error) {
	switch name {
	case "snake":
		return &Snake{}, nil
	default:
		return nil, fmt.Errorf("unknown draft scheme: %q", name)
	}
}

// Snake assigns picks in boustrophedon order: 0..n-1, then n-1..0, and so
// on until the pool is exhausted. The team that picks last in a forward
// pass picks first in the reverse pass, which balances accumulated rating
// far better than plain round-robin.
type Snake struct{}

func (s *Snake) Draft(pool []Player, numTeams int) [][]Player {
	teams := make([][]Player, numTeams)

	team := 0
	forward := true
	for _, p := range pool {
		teams[team] = append(teams[team], p)

		if forward {
			if team == numTeams-1 {
				forward = false
			} else {
				team++
			}
		} else {
			if team == 0 {
				forward = true
			} else {
				team--
			}
		}
	}

	return teams
}
