package weight

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"medtrack/internal/period"
	"medtrack/internal/units"
)

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
	TrendNoData     Trend = "no_data"
)

// stableBand is the largest change, in the display unit, still reported as stable.
const stableBand = 0.5

type WeeklyAverage struct {
	WeekStart     time.Time
	AverageWeight float64
	Entries       int
}

type TimelinePoint struct {
	ID                uuid.UUID
	LoggedAt          time.Time
	Weight            float64
	BodyFatPercentage *float64
	MuscleMass        *float64
	Notes             *string
}

type TrendReport struct {
	Window         period.Window
	Unit           string
	TotalEntries   int
	FirstWeight    float64
	LastWeight     float64
	CurrentWeight  float64
	AverageWeight  float64
	MinWeight      float64
	MaxWeight      float64
	WeightChange   float64
	Trend          Trend
	WeeklyAverages []WeeklyAverage
	Timeline       []TimelinePoint
}

// Trends summarises measurements inside w, converted to displayUnit.
// Weeks start on Sunday in the location of each measurement's timestamp.
func Trends(logs []Log, w period.Window, displayUnit string) TrendReport {
	unit := units.Normalize(displayUnit)
	report := TrendReport{
		Window:         w,
		Unit:           unit,
		Trend:          TrendNoData,
		WeeklyAverages: []WeeklyAverage{},
		Timeline:       []TimelinePoint{},
	}
	if len(logs) == 0 {
		return report
	}

	sorted := append([]Log(nil), logs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LoggedAt.Before(sorted[j].LoggedAt)
	})

	type week struct {
		start time.Time
		sum   float64
		n     int
	}
	weeks := make(map[int64]*week)

	var sum float64
	minW, maxW := math.Inf(1), math.Inf(-1)
	for _, l := range sorted {
		v := units.ConvertWeight(l.WeightKg, units.KG, unit)
		sum += v
		minW = math.Min(minW, v)
		maxW = math.Max(maxW, v)

		ws := period.WeekStart(l.LoggedAt)
		wk := weeks[ws.Unix()]
		if wk == nil {
			wk = &week{start: ws}
			weeks[ws.Unix()] = wk
		}
		wk.sum += v
		wk.n++

		report.Timeline = append(report.Timeline, TimelinePoint{
			ID:                l.ID,
			LoggedAt:          l.LoggedAt,
			Weight:            round2(v),
			BodyFatPercentage: l.BodyFatPercentage,
			MuscleMass:        l.MuscleMass,
			Notes:             l.Notes,
		})
	}

	first := units.ConvertWeight(sorted[0].WeightKg, units.KG, unit)
	last := units.ConvertWeight(sorted[len(sorted)-1].WeightKg, units.KG, unit)
	change := last - first

	report.TotalEntries = len(sorted)
	report.FirstWeight = round2(first)
	report.LastWeight = round2(last)
	report.CurrentWeight = round2(last)
	report.AverageWeight = round2(sum / float64(len(sorted)))
	report.MinWeight = round2(minW)
	report.MaxWeight = round2(maxW)
	report.WeightChange = round2(change)
	report.Trend = classify(change)

	for _, wk := range weeks {
		report.WeeklyAverages = append(report.WeeklyAverages, WeeklyAverage{
			WeekStart:     wk.start,
			AverageWeight: round2(wk.sum / float64(wk.n)),
			Entries:       wk.n,
		})
	}
	sort.Slice(report.WeeklyAverages, func(i, j int) bool {
		return report.WeeklyAverages[i].WeekStart.Before(report.WeeklyAverages[j].WeekStart)
	})
	return report
}

func classify(change float64) Trend {
	switch {
	case math.Abs(change) <= stableBand:
		return TrendStable
	case change > 0:
		return TrendIncreasing
	default:
		return TrendDecreasing
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
