package journal

import (
	"context"
	"math"
	"time"

	"github.com/roach88/presente/internal/model"
)

// Week is the trailing window counted by the "this week" figures.
const Week = 7 * 24 * time.Hour

// OverallTarget is the number of log entries plus thought records that
// counts as full overall progress.
const OverallTarget = 20

// Progress summarizes the dashboard figures. Percentages are whole numbers
// in [0,100].
type Progress struct {
	LogsThisWeek     int `json:"logsThisWeek"`
	ThoughtsThisWeek int `json:"thoughtsThisWeek"`
	TotalLogs        int `json:"totalLogs"`
	TotalThoughts    int `json:"totalThoughts"`
	Overall          int `json:"overall"`

	ExposureCompleted int `json:"exposureCompleted"`
	ExposureTotal     int `json:"exposureTotal"`
	ExposurePercent   int `json:"exposurePercent"`

	AchievementsUnlocked int `json:"achievementsUnlocked"`
	AchievementsTotal    int `json:"achievementsTotal"`
	AchievementsPercent  int `json:"achievementsPercent"`
}

// ComputeProgress derives the dashboard figures. A record counts toward
// this week when it is strictly newer than now minus Week.
func ComputeProgress(now time.Time, logs []model.EmotionalLogEntry, thoughts []model.ThoughtRecord, steps []model.ExposureStep, achievements []model.Achievement) Progress {
	since := now.Add(-Week)
	p := Progress{
		LogsThisWeek:      countAfter(model.Timestamps(logs), since),
		ThoughtsThisWeek:  countAfter(model.Timestamps(thoughts), since),
		TotalLogs:         len(logs),
		TotalThoughts:     len(thoughts),
		ExposureTotal:     len(steps),
		AchievementsTotal: len(achievements),
	}
	p.Overall = min(100, Percent(p.TotalLogs+p.TotalThoughts, OverallTarget))

	for _, s := range steps {
		if s.Completed {
			p.ExposureCompleted++
		}
	}
	p.ExposurePercent = Percent(p.ExposureCompleted, p.ExposureTotal)

	for _, a := range achievements {
		if a.Unlocked {
			p.AchievementsUnlocked++
		}
	}
	p.AchievementsPercent = Percent(p.AchievementsUnlocked, p.AchievementsTotal)
	return p
}

// Progress reads every collection and computes the dashboard figures.
func (s *Service) Progress(ctx context.Context) Progress {
	return ComputeProgress(s.now(), s.Logs(ctx), s.Thoughts(ctx), s.Exposures(ctx), s.Achievements(ctx))
}

func countAfter(times []time.Time, since time.Time) int {
	n := 0
	for _, t := range times {
		if t.After(since) {
			n++
		}
	}
	return n
}

// Percent is round(part/whole*100), 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
