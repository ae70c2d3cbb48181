package weight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medtrack/internal/period"
)

var start = time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC) // a Sunday

func series(kg ...float64) []Log {
	out := make([]Log, 0, len(kg))
	for i, v := range kg {
		out = append(out, Log{WeightKg: v, Unit: "kg", LoggedAt: start.AddDate(0, 0, i)})
	}
	return out
}

func window(days int) period.Window {
	return period.Window{Start: start, End: start.AddDate(0, 0, days)}
}

func TestTrends_Empty(t *testing.T) {
	rep := Trends(nil, window(30), "kg")
	assert.Equal(t, 0, rep.TotalEntries)
	assert.Equal(t, 0.0, rep.AverageWeight)
	assert.Equal(t, 0.0, rep.WeightChange)
	assert.Equal(t, TrendNoData, rep.Trend)
	assert.Empty(t, rep.Timeline)
	assert.Empty(t, rep.WeeklyAverages)
}

func TestTrends_Classification(t *testing.T) {
	tests := []struct {
		name   string
		kg     []float64
		change float64
		trend  Trend
	}{
		{"stable", []float64{70.0, 70.2, 69.9, 70.1}, 0.1, TrendStable},
		{"stable at the band edge", []float64{70.0, 70.5}, 0.5, TrendStable},
		{"increasing", []float64{68.0, 70.0}, 2.0, TrendIncreasing},
		{"decreasing", []float64{80.0, 79.0, 78.2}, -1.8, TrendDecreasing},
		{"single entry", []float64{72.4}, 0, TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Trends(series(tt.kg...), window(30), "kg")
			assert.InDelta(t, tt.change, rep.WeightChange, 1e-9)
			assert.Equal(t, tt.trend, rep.Trend)
			assert.Equal(t, len(tt.kg), rep.TotalEntries)
		})
	}
}

func TestTrends_Summary(t *testing.T) {
	rep := Trends(series(70.0, 70.2, 69.9, 70.1), window(30), "kg")

	assert.Equal(t, 70.0, rep.FirstWeight)
	assert.Equal(t, 70.1, rep.LastWeight)
	assert.Equal(t, 70.1, rep.CurrentWeight)
	assert.Equal(t, 70.05, rep.AverageWeight)
	assert.Equal(t, 69.9, rep.MinWeight)
	assert.Equal(t, 70.2, rep.MaxWeight)
	assert.Equal(t, "kg", rep.Unit)
}

func TestTrends_ConvertsToDisplayUnit(t *testing.T) {
	rep := Trends(series(68.0, 70.0), window(30), "LBS")

	assert.Equal(t, "lbs", rep.Unit)
	assert.Equal(t, 149.91, rep.FirstWeight)  // 68 * 2.20462 = 149.91416
	assert.Equal(t, 154.32, rep.LastWeight)   // 70 * 2.20462 = 154.3234
	assert.Equal(t, 4.41, rep.WeightChange)   // 2 * 2.20462
	assert.Equal(t, TrendIncreasing, rep.Trend)
	require.Len(t, rep.Timeline, 2)
	assert.Equal(t, 149.91, rep.Timeline[0].Weight)
}

func TestTrends_BandAppliesInDisplayUnit(t *testing.T) {
	// 0.4 kg is stable in kg but 0.88 lbs is not
	logs := series(70.0, 70.4)
	assert.Equal(t, TrendStable, Trends(logs, window(30), "kg").Trend)
	assert.Equal(t, TrendIncreasing, Trends(logs, window(30), "lbs").Trend)
}

func TestTrends_SortsInputAndBuildsTimeline(t *testing.T) {
	logs := series(70.0, 71.0, 72.0)
	logs[0], logs[2] = logs[2], logs[0]
	notes := "after run"
	logs[1].Notes = &notes

	rep := Trends(logs, window(30), "kg")
	require.Len(t, rep.Timeline, 3)
	assert.Equal(t, 70.0, rep.Timeline[0].Weight)
	assert.Equal(t, 72.0, rep.Timeline[2].Weight)
	assert.Equal(t, &notes, rep.Timeline[1].Notes)
	assert.Equal(t, 2.0, rep.WeightChange)
}

func TestTrends_WeeklyAveragesStartOnSunday(t *testing.T) {
	// 14 daily entries from Sunday 2026-03-01: two full weeks
	kg := make([]float64, 0, 14)
	for i := 0; i < 14; i++ {
		if i < 7 {
			kg = append(kg, 80)
		} else {
			kg = append(kg, 79)
		}
	}
	logs := series(kg...)
	// one more on the following Sunday night
	logs = append(logs, Log{WeightKg: 78.333, LoggedAt: time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC)})

	rep := Trends(logs, window(15), "kg")
	require.Len(t, rep.WeeklyAverages, 3)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), rep.WeeklyAverages[0].WeekStart)
	assert.Equal(t, 80.0, rep.WeeklyAverages[0].AverageWeight)
	assert.Equal(t, 7, rep.WeeklyAverages[0].Entries)

	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), rep.WeeklyAverages[1].WeekStart)
	assert.Equal(t, 79.0, rep.WeeklyAverages[1].AverageWeight)

	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), rep.WeeklyAverages[2].WeekStart)
	assert.Equal(t, 78.33, rep.WeeklyAverages[2].AverageWeight)
	assert.Equal(t, 1, rep.WeeklyAverages[2].Entries)
}
