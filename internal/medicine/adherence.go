package medicine

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"medtrack/internal/period"
)

// mealsPerDay is the fixed expectation for meal-based schedules, independent
// of how many meal timings are configured.
const mealsPerDay = 3

type MedicineAdherence struct {
	MedicineID    uuid.UUID
	Name          string
	ScheduleType  ScheduleType
	TotalTaken    int
	DaysActive    int
	TotalDays     int
	ExpectedDoses int
	AdherenceRate float64
}

type DailyCount struct {
	Date  string
	Count int
}

type AdherenceReport struct {
	Window     period.Window
	Medicines  []MedicineAdherence
	DailyStats []DailyCount
}

// Adherence summarises intake logs taken inside w against the schedules of
// meds; logs outside w are ignored. The breakdown is log driven: medicines
// without logs in w are left out, and logs of medicines missing from meds
// only feed DailyStats. Calendar days are taken in the location of w.Start.
func Adherence(meds []Medicine, logs []Log, w period.Window) AdherenceReport {
	loc := w.Start.Location()
	totalDays := w.TotalDays()

	taken := make(map[uuid.UUID]int)
	days := make(map[uuid.UUID]map[string]struct{})
	daily := make(map[string]int)

	for _, l := range logs {
		if !w.Contains(l.TakenAt) {
			continue
		}
		key := period.DayKey(l.TakenAt, loc)
		daily[key]++
		taken[l.MedicineID]++
		if days[l.MedicineID] == nil {
			days[l.MedicineID] = make(map[string]struct{})
		}
		days[l.MedicineID][key] = struct{}{}
	}

	report := AdherenceReport{
		Window:     w,
		Medicines:  []MedicineAdherence{},
		DailyStats: make([]DailyCount, 0, len(daily)),
	}

	for i := range meds {
		m := &meds[i]
		n, ok := taken[m.ID]
		if !ok {
			continue
		}
		expected := expectedDoses(m, w, totalDays)
		report.Medicines = append(report.Medicines, MedicineAdherence{
			MedicineID:    m.ID,
			Name:          m.Name,
			ScheduleType:  m.ScheduleType,
			TotalTaken:    n,
			DaysActive:    len(days[m.ID]),
			TotalDays:     totalDays,
			ExpectedDoses: expected,
			AdherenceRate: rate(n, expected),
		})
	}

	for date, count := range daily {
		report.DailyStats = append(report.DailyStats, DailyCount{Date: date, Count: count})
	}
	sort.Slice(report.DailyStats, func(i, j int) bool {
		return report.DailyStats[i].Date < report.DailyStats[j].Date
	})
	return report
}

func expectedDoses(m *Medicine, w period.Window, totalDays int) int {
	s, err := m.Schedule()
	if err != nil {
		return 0
	}
	switch v := s.(type) {
	case IntervalSchedule:
		return int(w.Minutes() / int64(v.Minutes))
	case MealSchedule:
		return totalDays * mealsPerDay
	}
	return 0
}

func rate(taken, expected int) float64 {
	if expected <= 0 {
		return 0
	}
	r := float64(taken) / float64(expected) * 100
	r = math.Max(0, math.Min(100, r))
	return math.Round(r*10) / 10
}
