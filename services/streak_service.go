package services

import (
	"time"

	"project/models"
	"project/utils"
)

// StreakService computes timezone-normalized consecutive-day streaks.
//
// The calculator is a pure function of its inputs plus the supplied "now"
// instant: no internal state, no I/O, safe for concurrent use. It has no
// failure mode — an unresolvable timezone falls back to UTC and an empty
// input yields a zero streak.
type StreakService interface {
	// ComputeStreak derives the current daily streak from an unordered set of
	// instants. Zero instants (missing timestamps) are skipped. The streak is
	// anchored at today or yesterday in the resolved timezone; if neither day
	// has activity the streak is 0 even when a long unbroken run exists
	// further in the past.
	ComputeStreak(timestamps []time.Time, timeZone string, now time.Time) models.StreakResult

	// ComputeActivityStreak projects the events to their timestamps and
	// delegates to ComputeStreak. Entity-specific callers (workouts, meals,
	// combined) all go through this one path.
	ComputeActivityStreak(events []models.ActivityEvent, timeZone string, now time.Time) models.StreakResult

	// TrailingRunDays counts the run of consecutive active calendar days
	// ending at the most recent active day in the set, with no
	// today/yesterday anchoring. Used for streak_days goals, which score a
	// fixed week window rather than the current day.
	TrailingRunDays(timestamps []time.Time, loc *time.Location) int
}

type streakService struct{}

// NewStreakService creates a new instance of StreakService.
func NewStreakService() StreakService {
	return &streakService{}
}

func (s *streakService) ComputeStreak(timestamps []time.Time, timeZone string, now time.Time) models.StreakResult {
	loc := utils.ResolveLocation(timeZone)

	activeDays := make(map[string]struct{}, len(timestamps))
	for _, ts := range timestamps {
		if ts.IsZero() {
			continue // missing timestamp
		}
		activeDays[utils.DateKey(ts, loc)] = struct{}{}
	}
	if len(activeDays) == 0 {
		return models.StreakResult{StreakCount: 0}
	}

	// Today's and yesterday's keys are each derived by shifting whole
	// calendar days, never by subtracting a fixed duration: across a DST
	// transition "now minus 24h" does not reliably land on yesterday.
	todayKey := utils.OffsetDateKey(now, loc, 0)
	yesterdayKey := utils.OffsetDateKey(now, loc, -1)

	anchorOffset := 0
	if _, ok := activeDays[todayKey]; ok {
		anchorOffset = 0
	} else if _, ok := activeDays[yesterdayKey]; ok {
		anchorOffset = -1
	} else {
		// A gap of two or more days breaks the streak entirely.
		return models.StreakResult{StreakCount: 0}
	}

	// Walk backward one calendar day at a time from the anchor. The walk is
	// bounded by the distinct-day set, which cannot exceed the input size.
	streak := 1
	for offset := anchorOffset - 1; ; offset-- {
		if _, ok := activeDays[utils.OffsetDateKey(now, loc, offset)]; !ok {
			break
		}
		streak++
	}

	// The most recent active day, whether or not it is part of the streak
	// (a future-dated event can sit past the anchor).
	lastActive := ""
	for key := range activeDays {
		if key > lastActive {
			lastActive = key
		}
	}

	return models.StreakResult{StreakCount: streak, LastActiveDateKey: &lastActive}
}

func (s *streakService) ComputeActivityStreak(events []models.ActivityEvent, timeZone string, now time.Time) models.StreakResult {
	timestamps := make([]time.Time, 0, len(events))
	for _, event := range events {
		timestamps = append(timestamps, event.Timestamp)
	}
	return s.ComputeStreak(timestamps, timeZone, now)
}

func (s *streakService) TrailingRunDays(timestamps []time.Time, loc *time.Location) int {
	activeDays := make(map[int64]struct{}, len(timestamps))
	for _, ts := range timestamps {
		if ts.IsZero() {
			continue
		}
		activeDays[utils.EpochDay(ts, loc)] = struct{}{}
	}
	if len(activeDays) == 0 {
		return 0
	}

	var latest int64
	first := true
	for day := range activeDays {
		if first || day > latest {
			latest = day
			first = false
		}
	}

	run := 1
	for day := latest - 1; ; day-- {
		if _, ok := activeDays[day]; !ok {
			break
		}
		run++
	}
	return run
}
