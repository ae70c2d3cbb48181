package handler

import (
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medtrack/internal/auth"
	"medtrack/internal/observability"
	"medtrack/internal/units"
	"medtrack/internal/weight"
)

type WeightHandler struct {
	Store *weight.Store
	Log   *zap.Logger
	Now   func() time.Time
}

type weightDTO struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Weight            float64   `json:"weight"`
	Unit              string    `json:"unit"`
	WeightKg          float64   `json:"weight_kg"`
	LoggedAt          time.Time `json:"logged_at"`
	BodyFatPercentage *float64  `json:"body_fat_percentage"`
	MuscleMass        *float64  `json:"muscle_mass"`
	Notes             *string   `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// toWeightDTO expresses l in unit, or in the unit it was entered in when unit is empty.
func toWeightDTO(l *weight.Log, unit string) weightDTO {
	if unit == "" {
		unit = l.Unit
	}
	unit = units.Normalize(unit)
	return weightDTO{
		ID:                l.ID,
		UserID:            l.UserID,
		Weight:            round2(units.ConvertWeight(l.WeightKg, units.KG, unit)),
		Unit:              unit,
		WeightKg:          l.WeightKg,
		LoggedAt:          l.LoggedAt,
		BodyFatPercentage: l.BodyFatPercentage,
		MuscleMass:        l.MuscleMass,
		Notes:             l.Notes,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

type weeklyAverageDTO struct {
	WeekStart     string  `json:"week_start"`
	AverageWeight float64 `json:"average_weight"`
	Entries       int     `json:"entries"`
}

type timelinePointDTO struct {
	ID                uuid.UUID `json:"id"`
	LoggedAt          time.Time `json:"logged_at"`
	Weight            float64   `json:"weight"`
	BodyFatPercentage *float64  `json:"body_fat_percentage"`
	MuscleMass        *float64  `json:"muscle_mass"`
	Notes             *string   `json:"notes"`
}

type trendDTO struct {
	Start          time.Time          `json:"start"`
	End            time.Time          `json:"end"`
	Unit           string             `json:"unit"`
	TotalEntries   int                `json:"total_entries"`
	FirstWeight    float64            `json:"first_weight"`
	LastWeight     float64            `json:"last_weight"`
	CurrentWeight  float64            `json:"current_weight"`
	AverageWeight  float64            `json:"average_weight"`
	MinWeight      float64            `json:"min_weight"`
	MaxWeight      float64            `json:"max_weight"`
	WeightChange   float64            `json:"weight_change"`
	Trend          string             `json:"trend"`
	WeeklyAverages []weeklyAverageDTO `json:"weekly_averages"`
	Timeline       []timelinePointDTO `json:"timeline"`
}

func toTrendDTO(rep weight.TrendReport) trendDTO {
	out := trendDTO{
		Start:          rep.Window.Start,
		End:            rep.Window.End,
		Unit:           rep.Unit,
		TotalEntries:   rep.TotalEntries,
		FirstWeight:    rep.FirstWeight,
		LastWeight:     rep.LastWeight,
		CurrentWeight:  rep.CurrentWeight,
		AverageWeight:  rep.AverageWeight,
		MinWeight:      rep.MinWeight,
		MaxWeight:      rep.MaxWeight,
		WeightChange:   rep.WeightChange,
		Trend:          string(rep.Trend),
		WeeklyAverages: make([]weeklyAverageDTO, 0, len(rep.WeeklyAverages)),
		Timeline:       make([]timelinePointDTO, 0, len(rep.Timeline)),
	}
	for _, wk := range rep.WeeklyAverages {
		out.WeeklyAverages = append(out.WeeklyAverages, weeklyAverageDTO{
			WeekStart:     wk.WeekStart.Format("2006-01-02"),
			AverageWeight: wk.AverageWeight,
			Entries:       wk.Entries,
		})
	}
	for _, p := range rep.Timeline {
		out.Timeline = append(out.Timeline, timelinePointDTO{
			ID:                p.ID,
			LoggedAt:          p.LoggedAt,
			Weight:            p.Weight,
			BodyFatPercentage: p.BodyFatPercentage,
			MuscleMass:        p.MuscleMass,
			Notes:             p.Notes,
		})
	}
	return out
}

func (h *WeightHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	unit, ok := unitQuery(w, r)
	if !ok {
		return
	}
	var f weight.ListFilter
	var err error
	if f.Start, err = timeQuery(r, "start"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if f.End, err = timeQuery(r, "end"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if f.Limit, err = intQuery(r, "limit", 0); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logs, err := h.Store.List(r.Context(), uid, f)
	if err != nil {
		writeStoreError(w, r, h.Log, err, "list weight logs")
		return
	}
	out := make([]weightDTO, 0, len(logs))
	for i := range logs {
		out = append(out, toWeightDTO(&logs[i], unit))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create stores a measurement in kilograms. A second measurement on the same
// day is accepted and only logged as a warning.
func (h *WeightHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	now := clock(h.Now).now()

	var in weight.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.LoggedAt == nil {
		in.LoggedAt = &now
	}
	if problems := weight.ValidateWeightLog(in, now); len(problems) > 0 {
		writeValidation(w, problems)
		return
	}

	l := weight.Log{UserID: uid}
	in.Apply(&l)

	n, err := h.Store.CountSameDay(r.Context(), uid, l.LoggedAt)
	if err != nil {
		writeStoreError(w, r, h.Log, err, "count same-day weight logs")
		return
	}
	if n > 0 {
		h.Log.Warn("weight already logged today",
			zap.String("user_id", uid.String()),
			zap.Time("logged_at", l.LoggedAt),
			zap.Int64("existing", n),
		)
	}

	if err := h.Store.Create(r.Context(), &l); err != nil {
		writeStoreError(w, r, h.Log, err, "create weight log")
		return
	}
	observability.RecordWeightLogCreated()
	writeJSON(w, http.StatusCreated, toWeightDTO(&l, ""))
}

func (h *WeightHandler) Latest(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	unit, ok := unitQuery(w, r)
	if !ok {
		return
	}
	l, err := h.Store.Latest(r.Context(), uid)
	if err != nil {
		writeStoreError(w, r, h.Log, err, "latest weight log")
		return
	}
	if l == nil {
		writeError(w, http.StatusNotFound, "no weight logged yet")
		return
	}
	writeJSON(w, http.StatusOK, toWeightDTO(l, unit))
}

func (h *WeightHandler) Trends(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	unit, ok := unitQuery(w, r)
	if !ok {
		return
	}
	win, err := windowQuery(r, clock(h.Now).now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logs, err := h.Store.InWindow(r.Context(), uid, win)
	if err != nil {
		writeStoreError(w, r, h.Log, err, "weight logs in window")
		return
	}
	if unit == "" {
		unit = units.KG
	}
	writeJSON(w, http.StatusOK, toTrendDTO(weight.Trends(logs, win, unit)))
}

func (h *WeightHandler) Get(w http.ResponseWriter, r *http.Request) {
	unit, ok := unitQuery(w, r)
	if !ok {
		return
	}
	l, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toWeightDTO(l, unit))
}

// Update decodes the body over the stored measurement expressed in its
// original unit, so a body without weight or unit keeps both.
func (h *WeightHandler) Update(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}

	in := weight.InputFrom(l)
	if !decodeJSON(w, r, &in) {
		return
	}
	if problems := weight.ValidateWeightLog(in, clock(h.Now).now()); len(problems) > 0 {
		writeValidation(w, problems)
		return
	}

	in.Apply(l)
	if err := h.Store.Update(r.Context(), l); err != nil {
		writeStoreError(w, r, h.Log, err, "update weight log")
		return
	}
	writeJSON(w, http.StatusOK, toWeightDTO(l, ""))
}

func (h *WeightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Store.Delete(r.Context(), uid, id); err != nil {
		writeStoreError(w, r, h.Log, err, "delete weight log")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WeightHandler) load(w http.ResponseWriter, r *http.Request) (*weight.Log, bool) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	l, err := h.Store.Get(r.Context(), uid, id)
	if err != nil {
		writeStoreError(w, r, h.Log, err, "get weight log")
		return nil, false
	}
	return l, true
}

// unitQuery reads the optional display unit; empty means "as entered".
func unitQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	v := r.URL.Query().Get("unit")
	if v == "" {
		return "", true
	}
	if !units.Valid(v) {
		writeError(w, http.StatusBadRequest, "unit must be kg, lbs or pounds")
		return "", false
	}
	return units.Normalize(v), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
