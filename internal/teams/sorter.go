package teams

import (
	"errors"
	"math/rand"
	"time"

	"pelada/internal/draft"
)

// ErrInvalidConfig is returned when playersPerTeam is below 1.
var ErrInvalidConfig = errors.New("players per team must be at least 1")

// refinementPasses is how many times the pairwise swap search sweeps all
// team pairs. Converges well before this for rosters under ~40 players.
const refinementPasses = 5

const (
	minRating = 1
	maxRating = 5
)

// Result holds the sorted teams plus the surplus players that didn't fill
// a full team. Leftovers are not themselves balance-refined.
type Result struct {
	Teams     [][]draft.Player
	Leftovers []draft.Player
}

// Sorter partitions a roster into rating-balanced teams. The random source
// drives tie-breaking among equally rated players and the presentation
// shuffle; inject a seeded *rand.Rand to pin outcomes in tests.
type Sorter struct {
	rng     *rand.Rand
	drafter draft.Drafter
}

// NewSorter builds a Sorter. A nil rng gets a time-seeded source; a nil
// drafter defaults to the snake draft.
func NewSorter(rng *rand.Rand, drafter draft.Drafter) *Sorter {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if drafter == nil {
		drafter = &draft.Snake{}
	}
	return &Sorter{rng: rng, drafter: drafter}
}

// Sort partitions players into rating-balanced teams of playersPerTeam,
// collecting surplus players into Leftovers. The input slice is not
// mutated. An empty roster yields an empty result without error.
func (s *Sorter) Sort(players []draft.Player, playersPerTeam int) (*Result, error) {
	if playersPerTeam < 1 {
		return nil, ErrInvalidConfig
	}
	if len(players) == 0 {
		return &Result{}, nil
	}

	numTeams := len(players) / playersPerTeam
	if numTeams < 1 {
		numTeams = 1
	}

	pool := s.tieredPool(players)
	drafted := s.drafter.Draft(pool, numTeams)
	s.refine(drafted)

	result := &Result{}
	for _, team := range drafted {
		main := team
		if len(team) > playersPerTeam {
			main = team[:playersPerTeam]
			result.Leftovers = append(result.Leftovers, team[playersPerTeam:]...)
		}
		if len(main) == 0 {
			continue
		}
		s.shuffle(main)
		result.Teams = append(result.Teams, main)
	}

	return result, nil
}

// tieredPool groups players by rating, shuffles within each tier, and
// concatenates tiers strongest-first into a single draft order. Shuffling
// inside tiers is what makes repeated sorts of the same roster produce
// varied but equally balanced teams.
func (s *Sorter) tieredPool(players []draft.Player) []draft.Player {
	tiers := make([][]draft.Player, maxRating+1)
	for _, p := range players {
		p.Rating = normalizeRating(p.Rating)
		tiers[p.Rating] = append(tiers[p.Rating], p)
	}

	pool := make([]draft.Player, 0, len(players))
	for rating := maxRating; rating >= minRating; rating-- {
		s.shuffle(tiers[rating])
		pool = append(pool, tiers[rating]...)
	}
	return pool
}

// refine runs the greedy pairwise local search: for every unordered team
// pair, find the single swap that most reduces the rating-sum difference
// and commit it only on strict improvement. Ties never swap, which avoids
// oscillation between equivalent states.
func (s *Sorter) refine(teams [][]draft.Player) {
	for pass := 0; pass < refinementPasses; pass++ {
		for i := 0; i < len(teams); i++ {
			for j := i + 1; j < len(teams); j++ {
				bestSwap(teams[i], teams[j])
			}
		}
	}
}

func bestSwap(a, b []draft.Player) {
	sumA := TeamSum(a)
	sumB := TeamSum(b)
	best := absInt(sumA - sumB)

	bi, bj := -1, -1
	for x := range a {
		for y := range b {
			newA := sumA - a[x].Rating + b[y].Rating
			newB := sumB - b[y].Rating + a[x].Rating
			if diff := absInt(newA - newB); diff < best {
				best = diff
				bi, bj = x, y
			}
		}
	}

	if bi >= 0 {
		a[bi], b[bj] = b[bj], a[bi]
	}
}

// TeamSum is the team's total rating, the balance metric for refinement.
func TeamSum(team []draft.Player) int {
	sum := 0
	for _, p := range team {
		sum += p.Rating
	}
	return sum
}

func normalizeRating(r int) int {
	if r < minRating || r > maxRating {
		return minRating
	}
	return r
}

// shuffle is an in-place Fisher–Yates.
func (s *Sorter) shuffle(players []draft.Player) {
	s.rng.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
