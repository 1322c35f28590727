package schedule

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"pelada/internal/config"
)

// GameDuration is how long a game occupies its start day.
const GameDuration = 2 * time.Hour

// ConfirmationWindow is how long after a game ends that presence and goal
// entry stay editable. Unlike the grace period it is never shrunk.
const ConfirmationWindow = 24 * time.Hour

// defaultGrace is the grace period applied after a game ends when the next
// game is comfortably far away.
const defaultGrace = 24 * time.Hour

// Occurrence is one concrete instance of the recurring game.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// DateID returns the occurrence's calendar-day identity, "YYYY-MM-DD" in
// the occurrence's location. Downstream bookkeeping (e.g. "has this game's
// gear rotation already run") keys on it, so it must be stable per day.
func (o Occurrence) DateID() string {
	return o.Start.Format("2006-01-02")
}

// Finished reports whether the game has ended.
func (o Occurrence) Finished(now time.Time) bool {
	return now.After(o.End)
}

// ConfirmationLocked reports whether the presence/goal entry window has
// closed. This is the unconditional 24h mark, independent of the possibly
// shrunk grace period used to pick the active occurrence.
func (o Occurrence) ConfirmationLocked(now time.Time) bool {
	return now.After(o.End.Add(ConfirmationWindow))
}

// InGrace reports whether now falls strictly between the game's end and
// the unconditional 24h confirmation mark.
func (o Occurrence) InGrace(now time.Time) bool {
	return now.After(o.End) && now.Before(o.End.Add(ConfirmationWindow))
}

// Resolve determines the single temporally relevant occurrence for the
// weekly schedule: the most recent past game while its grace period lasts,
// otherwise the next upcoming game. Returns nil when the schedule yields
// no occurrence in the window — callers must treat nil as "no game
// scheduled", not an error. Malformed day settings are skipped.
func Resolve(days map[string]config.DaySetting, now time.Time) *Occurrence {
	candidates := occurrences(days, now)

	var past, future []Occurrence
	for _, o := range candidates {
		if !o.Start.After(now) {
			past = append(past, o)
		} else {
			future = append(future, o)
		}
	}

	var next *Occurrence
	if len(future) > 0 {
		next = &future[0]
	}

	if len(past) > 0 {
		recent := past[len(past)-1]
		graceEnd := recent.End.Add(GracePeriod(recent.End, next))
		if now.Before(graceEnd) {
			return &recent
		}
	}

	return next
}

// GracePeriod computes how long after pastEnd the finished game remains
// the active occurrence. The default is 24h, shrunk when the next game
// starts fewer than 24 whole hours after pastEnd so the grace window never
// overlaps the next occurrence. next may be nil.
func GracePeriod(pastEnd time.Time, next *Occurrence) time.Duration {
	if next == nil {
		return defaultGrace
	}
	hoursUntil := int(next.Start.Sub(pastEnd).Hours())
	if hoursUntil >= 24 {
		return defaultGrace
	}
	if hoursUntil <= 1 {
		return 0
	}
	return time.Duration(hoursUntil-1) * time.Hour
}

// occurrences enumerates candidate occurrences on every selected weekday
// from now-7d through now+13d, sorted ascending by start. A full week of
// lookback plus two weeks of lookahead guarantees at least one hit even
// for a single-day schedule.
func occurrences(days map[string]config.DaySetting, now time.Time) []Occurrence {
	var out []Occurrence
	for offset := -7; offset <= 13; offset++ {
		day := now.AddDate(0, 0, offset)

		setting, ok := days[config.WeekDays[day.Weekday()]]
		if !ok || !setting.Selected {
			continue
		}
		hour, minute, ok := parseClock(setting.Time)
		if !ok {
			continue
		}

		start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
		out = append(out, Occurrence{Start: start, End: start.Add(GameDuration)})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// parseClock parses a 24-hour "HH:MM" string. Anything unparseable means
// the day is treated as unselected.
func parseClock(s string) (hour, minute int, ok bool) {
	h, m, found := strings.Cut(s, ":")
	if !found {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
