package timeline

import (
	"time"

	"github.com/fleetops/fleetsched/core/model"
)

const minutesPerDay = 24 * 60

// PositionedEntry is a calendar entry with its normalized vertical placement
// on a day timeline. TopPercent and HeightPercent are in [0,100] and
// TopPercent+HeightPercent never exceeds 100.
type PositionedEntry struct {
	Entry         model.CalendarEntry `json:"entry"`
	TopPercent    float64             `json:"top_percent"`
	HeightPercent float64             `json:"height_percent"`
}

// DayWindow returns the [midnight, midnight+24h) window containing day, in
// day's location.
func DayWindow(day time.Time) model.Window {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return model.Window{Start: start, End: start.Add(24 * time.Hour)}
}

// Layout positions the entries on the given calendar day. Entries fully
// outside the day are dropped; entries spanning midnight are clipped to the
// day's boundaries.
func Layout(entries []model.CalendarEntry, day time.Time) []PositionedEntry {
	dayWindow := DayWindow(day)
	res := make([]PositionedEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Window.Overlaps(dayWindow) {
			continue
		}
		startMin := clampMinutes(e.Window.Start.Sub(dayWindow.Start).Minutes())
		endMin := clampMinutes(e.Window.End.Sub(dayWindow.Start).Minutes())
		if endMin <= startMin {
			continue
		}
		res = append(res, PositionedEntry{
			Entry:         e,
			TopPercent:    startMin / minutesPerDay * 100,
			HeightPercent: (endMin - startMin) / minutesPerDay * 100,
		})
	}
	return res
}

func clampMinutes(m float64) float64 {
	if m < 0 {
		return 0
	}
	if m > minutesPerDay {
		return minutesPerDay
	}
	return m
}
