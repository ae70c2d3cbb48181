package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medtrack/internal/auth"
	"medtrack/internal/errs"
	"medtrack/internal/medicine"
	"medtrack/internal/observability"
	"medtrack/internal/period"
)

type MedicineLogHandler struct {
	Store *medicine.Store
	Log   *zap.Logger
	Now   func() time.Time
}

type medicineLogDTO struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	MedicineID  uuid.UUID `json:"medicine_id"`
	TakenAt     time.Time `json:"taken_at"`
	DosageTaken *string   `json:"dosage_taken"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toLogDTO(l *medicine.Log) medicineLogDTO {
	return medicineLogDTO{
		ID:          l.ID,
		UserID:      l.UserID,
		MedicineID:  l.MedicineID,
		TakenAt:     l.TakenAt,
		DosageTaken: l.DosageTaken,
		Notes:       l.Notes,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toLogDTOs(logs []medicine.Log) []medicineLogDTO {
	out := make([]medicineLogDTO, 0, len(logs))
	for i := range logs {
		out = append(out, toLogDTO(&logs[i]))
	}
	return out
}

type medicineAdherenceDTO struct {
	MedicineID    uuid.UUID `json:"medicine_id"`
	Name          string    `json:"name"`
	ScheduleType  string    `json:"schedule_type"`
	TotalTaken    int       `json:"total_taken"`
	DaysActive    int       `json:"days_active"`
	TotalDays     int       `json:"total_days"`
	ExpectedDoses int       `json:"expected_doses"`
	AdherenceRate float64   `json:"adherence_rate"`
}

type dailyCountDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type adherenceDTO struct {
	Start      time.Time              `json:"start"`
	End        time.Time              `json:"end"`
	Medicines  []medicineAdherenceDTO `json:"medicines"`
	DailyStats []dailyCountDTO        `json:"daily_stats"`
}

func (h *MedicineLogHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var f medicine.LogFilter
	var err error
	if f.MedicineID, err = uuidQuery(r, "medicine_id"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
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

	logs, err := h.Store.ListLogs(r.Context(), uid, f)
	if err != nil {
		writeStoreError(w, r, h.Log, err, "list medicine logs")
		return
	}
	writeJSON(w, http.StatusOK, toLogDTOs(logs))
}

func (h *MedicineLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	now := clock(h.Now).now()

	var in medicine.LogInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.TakenAt == nil {
		in.TakenAt = &now
	}
	if problems := medicine.ValidateMedicineLog(in, now); len(problems) > 0 {
		writeValidation(w, problems)
		return
	}

	l := medicine.Log{UserID: uid}
	in.Apply(&l)
	if err := h.Store.CreateLog(r.Context(), &l); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			writeError(w, http.StatusNotFound, "medicine not found")
		case errors.Is(err, errs.ErrDuplicate):
			observability.RecordMedicineLogDuplicate()
			h.Log.Warn("duplicate intake rejected",
				zap.String("user_id", uid.String()),
				zap.String("medicine_id", l.MedicineID.String()),
				zap.Time("taken_at", l.TakenAt),
			)
			writeError(w, http.StatusConflict, "medicine already logged within 5 minutes")
		default:
			writeStoreError(w, r, h.Log, err, "create medicine log")
		}
		return
	}
	observability.RecordMedicineLogCreated()
	writeJSON(w, http.StatusCreated, toLogDTO(&l))
}

// Today lists intakes since midnight UTC, newest first.
func (h *MedicineLogHandler) Today(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	now := clock(h.Now).now()
	start := period.StartOfDay(now)

	logs, err := h.Store.ListLogs(r.Context(), uid, medicine.LogFilter{Start: &start, End: &now, Limit: 500})
	if err != nil {
		writeStoreError(w, r, h.Log, err, "list today's logs")
		return
	}
	writeJSON(w, http.StatusOK, toLogDTOs(logs))
}

func (h *MedicineLogHandler) Adherence(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	win, err := windowQuery(r, clock(h.Now).now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	medicineID, err := uuidQuery(r, "medicine_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var meds []medicine.Medicine
	if medicineID != nil {
		m, err := h.Store.Get(r.Context(), uid, *medicineID)
		if err != nil {
			writeStoreError(w, r, h.Log, err, "get medicine")
			return
		}
		meds = []medicine.Medicine{*m}
	} else {
		active := true
		if meds, err = h.Store.List(r.Context(), uid, medicine.ListFilter{Active: &active}); err != nil {
			writeStoreError(w, r, h.Log, err, "list medicines")
			return
		}
	}

	logs, err := h.Store.LogsInWindow(r.Context(), uid, medicineID, win)
	if err != nil {
		writeStoreError(w, r, h.Log, err, "logs in window")
		return
	}

	rep := medicine.Adherence(meds, logs, win)
	out := adherenceDTO{
		Start:      rep.Window.Start,
		End:        rep.Window.End,
		Medicines:  make([]medicineAdherenceDTO, 0, len(rep.Medicines)),
		DailyStats: make([]dailyCountDTO, 0, len(rep.DailyStats)),
	}
	for _, m := range rep.Medicines {
		out.Medicines = append(out.Medicines, medicineAdherenceDTO{
			MedicineID:    m.MedicineID,
			Name:          m.Name,
			ScheduleType:  string(m.ScheduleType),
			TotalTaken:    m.TotalTaken,
			DaysActive:    m.DaysActive,
			TotalDays:     m.TotalDays,
			ExpectedDoses: m.ExpectedDoses,
			AdherenceRate: m.AdherenceRate,
		})
	}
	for _, d := range rep.DailyStats {
		out.DailyStats = append(out.DailyStats, dailyCountDTO{Date: d.Date, Count: d.Count})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MedicineLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toLogDTO(l))
}

// Update corrects the timestamp, dosage or notes; the medicine cannot change.
func (h *MedicineLogHandler) Update(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}

	in := medicine.LogInputFrom(l)
	if !decodeJSON(w, r, &in) {
		return
	}
	in.MedicineID = l.MedicineID
	if problems := medicine.ValidateMedicineLog(in, clock(h.Now).now()); len(problems) > 0 {
		writeValidation(w, problems)
		return
	}

	in.Apply(l)
	if err := h.Store.UpdateLog(r.Context(), l); err != nil {
		writeStoreError(w, r, h.Log, err, "update medicine log")
		return
	}
	writeJSON(w, http.StatusOK, toLogDTO(l))
}

func (h *MedicineLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Store.DeleteLog(r.Context(), uid, id); err != nil {
		writeStoreError(w, r, h.Log, err, "delete medicine log")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MedicineLogHandler) load(w http.ResponseWriter, r *http.Request) (*medicine.Log, bool) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	l, err := h.Store.GetLog(r.Context(), uid, id)
	if err != nil {
		writeStoreError(w, r, h.Log, err, "get medicine log")
		return nil, false
	}
	return l, true
}
