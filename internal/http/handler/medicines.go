package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medtrack/internal/auth"
	"medtrack/internal/medicine"
)

type MedicineHandler struct {
	Store *medicine.Store
	Log   *zap.Logger
	Now   func() time.Time
}

type medicineDTO struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	Dose            string    `json:"dose"`
	ScheduleType    string    `json:"schedule_type"`
	IntervalMinutes *int      `json:"interval_minutes"`
	IntervalDays    *int      `json:"interval_days"`
	MealTiming      []string  `json:"meal_timing"`
	Instructions    *string   `json:"instructions"`
	Notes           *string   `json:"notes"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toMedicineDTO(m *medicine.Medicine) medicineDTO {
	out := medicineDTO{
		ID:              m.ID,
		UserID:          m.UserID,
		Name:            m.Name,
		Dose:            m.Dose,
		ScheduleType:    string(m.ScheduleType),
		IntervalMinutes: m.IntervalMinutes,
		IntervalDays:    m.IntervalDays,
		MealTiming:      []string{},
		Instructions:    m.Instructions,
		Notes:           m.Notes,
		Active:          m.Active,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	for _, t := range m.MealTiming {
		out.MealTiming = append(out.MealTiming, string(t))
	}
	return out
}

type nextDoseDTO struct {
	MedicineID      uuid.UUID  `json:"medicine_id"`
	Name            string     `json:"name"`
	Dose            string     `json:"dose"`
	ScheduleType    string     `json:"schedule_type"`
	NextDoseAt      *time.Time `json:"next_dose_at,omitempty"`
	IntervalMinutes *int       `json:"interval_minutes,omitempty"`
	IntervalDays    *int       `json:"interval_days,omitempty"`
	IsOverdue       *bool      `json:"is_overdue,omitempty"`
	MealTiming      []string   `json:"meal_timing,omitempty"`
	LastDoseAt      *time.Time `json:"last_dose_at"`
}

func toNextDoseDTO(m *medicine.Medicine, info medicine.NextDoseInfo) nextDoseDTO {
	out := nextDoseDTO{
		MedicineID:   m.ID,
		Name:         m.Name,
		Dose:         m.Dose,
		ScheduleType: string(info.Type()),
	}
	switch v := info.(type) {
	case medicine.IntervalNextDose:
		next, minutes, overdue := v.NextDoseAt, v.IntervalMinutes, v.IsOverdue
		out.NextDoseAt = &next
		out.IntervalMinutes = &minutes
		out.IntervalDays = v.IntervalDays
		out.IsOverdue = &overdue
		out.LastDoseAt = v.LastDoseAt
	case medicine.MealNextDose:
		out.MealTiming = make([]string, 0, len(v.MealTiming))
		for _, t := range v.MealTiming {
			out.MealTiming = append(out.MealTiming, string(t))
		}
		out.LastDoseAt = v.LastDoseAt
	}
	return out
}

func (h *MedicineHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	active, err := boolQuery(r, "active")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	meds, err := h.Store.List(r.Context(), uid, medicine.ListFilter{Active: active})
	if err != nil {
		writeStoreError(w, r, h.Log, err, "list medicines")
		return
	}

	out := make([]medicineDTO, 0, len(meds))
	for i := range meds {
		out = append(out, toMedicineDTO(&meds[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var in medicine.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	if problems := medicine.ValidateMedicine(in); len(problems) > 0 {
		writeValidation(w, problems)
		return
	}

	m := medicine.Medicine{UserID: uid}
	in.Apply(&m)
	if err := h.Store.Create(r.Context(), &m); err != nil {
		writeStoreError(w, r, h.Log, err, "create medicine")
		return
	}
	writeJSON(w, http.StatusCreated, toMedicineDTO(&m))
}

func (h *MedicineHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toMedicineDTO(m))
}

// Update applies the fields present in the body over the stored medicine
// and validates the merged result, so a schedule type switch must bring the
// fields of the new type.
func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}

	in := medicine.InputFrom(m)
	if !decodeJSON(w, r, &in) {
		return
	}
	if problems := medicine.ValidateMedicine(in); len(problems) > 0 {
		writeValidation(w, problems)
		return
	}

	in.Apply(m)
	if err := h.Store.Update(r.Context(), m); err != nil {
		writeStoreError(w, r, h.Log, err, "update medicine")
		return
	}
	writeJSON(w, http.StatusOK, toMedicineDTO(m))
}

func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Store.Delete(r.Context(), uid, id); err != nil {
		writeStoreError(w, r, h.Log, err, "delete medicine")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MedicineHandler) NextDose(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}
	info, err := h.nextDose(r, m, clock(h.Now).now())
	if err != nil {
		writeStoreError(w, r, h.Log, err, "next dose")
		return
	}
	writeJSON(w, http.StatusOK, toNextDoseDTO(m, info))
}

// NextDoses lists the next dose of every active medicine. With overdue=true
// only overdue interval medicines remain; the external reminder job reads this.
func (h *MedicineHandler) NextDoses(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	overdueOnly, err := boolQuery(r, "overdue")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	active := true
	meds, err := h.Store.List(r.Context(), uid, medicine.ListFilter{Active: &active})
	if err != nil {
		writeStoreError(w, r, h.Log, err, "list medicines")
		return
	}

	now := clock(h.Now).now()
	out := make([]nextDoseDTO, 0, len(meds))
	for i := range meds {
		m := &meds[i]
		info, err := h.nextDose(r, m, now)
		if err != nil {
			writeStoreError(w, r, h.Log, err, "next dose")
			return
		}
		if overdueOnly != nil && *overdueOnly {
			iv, ok := info.(medicine.IntervalNextDose)
			if !ok || !iv.IsOverdue {
				continue
			}
		}
		out = append(out, toNextDoseDTO(m, info))
	}
	writeJSON(w, http.StatusOK, out)
}

// Logs lists a single medicine's intakes, newest first.
func (h *MedicineHandler) Logs(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	logs, err := h.Store.ListLogs(r.Context(), m.UserID, medicine.LogFilter{MedicineID: &m.ID, Limit: limit})
	if err != nil {
		writeStoreError(w, r, h.Log, err, "list medicine logs")
		return
	}
	writeJSON(w, http.StatusOK, toLogDTOs(logs))
}

func (h *MedicineHandler) nextDose(r *http.Request, m *medicine.Medicine, now time.Time) (medicine.NextDoseInfo, error) {
	s, err := m.Schedule()
	if err != nil {
		return nil, err
	}
	last, err := h.Store.LatestLog(r.Context(), m.UserID, m.ID)
	if err != nil {
		return nil, err
	}
	return medicine.NextDose(s, last, now), nil
}

func (h *MedicineHandler) load(w http.ResponseWriter, r *http.Request) (*medicine.Medicine, bool) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	m, err := h.Store.Get(r.Context(), uid, id)
	if err != nil {
		writeStoreError(w, r, h.Log, err, "get medicine")
		return nil, false
	}
	return m, true
}
