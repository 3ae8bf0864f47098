/*
handlers.go - HTTP API handlers for the punch-clock engine

PURPOSE:
  Exposes the punch-clock engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Punches:
    GET    /api/employers/{id}/punches                 List punches (?day or ?from&to)
    POST   /api/employers/{id}/punches                 Register a clock event
    PUT    /api/employers/{id}/punches/{punchID}       Manual edit (justified)

  Days:
    POST   /api/employers/{id}/days/{date}/recalculate Re-apply tolerance rules
    GET    /api/employers/{id}/days/{date}/summary     Day summary
    GET    /api/employers/{id}/report                  Range report (?from&to)

  Adjustments:
    GET    /api/employers/{id}/adjustments             List adjustments
    POST   /api/employers/{id}/adjustments             Record adjustment

  Cycle:
    GET    /api/employers/{id}/cycle/status            Reminder-oriented status
    GET    /api/employers/{id}/cycle/closures          Closure history
    POST   /api/employers/{id}/cycle/advance           Detect and advance
    POST   /api/employers/{id}/cycle/close             Close current cycle early
    POST   /api/employers/{id}/cycle/bootstrap         Retroactive closures (?force)
    POST   /api/employers/{id}/cycle/reverse           Undo machine closures

  Config, absences, holidays:
    GET/PUT  /api/employers/{id}/config
    GET/POST /api/employers/{id}/absences
    GET/POST /api/holidays

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (tolerance engine, summary calculator, cycle manager)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Employer config or punch not found
  - 409: Cycle disabled/unconfigured, conflicting closures
  - 500: Safety-limit exceeded, internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Background cycle advancement
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tlmacedo/meuPonto-sub000/punchclock"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     punchclock.TxStore
	Tolerance *punchclock.ToleranceEngine
	Summary   *punchclock.SummaryCalculator
	Ledger    *punchclock.AdjustmentLedger
	Cycles    *punchclock.CycleManager

	currentScenario string // last demo scenario loaded, see scenarios.go
}

// NewHandler wires the engine components around the given store.
func NewHandler(store punchclock.TxStore, notifier punchclock.NotificationSink) *Handler {
	summary := punchclock.NewSummaryCalculator(store)
	ledger := punchclock.NewAdjustmentLedger(store)
	return &Handler{
		Store:     store,
		Tolerance: punchclock.NewToleranceEngine(store, store),
		Summary:   summary,
		Ledger:    ledger,
		Cycles:    punchclock.NewCycleManager(store, summary, ledger, notifier),
	}
}

// =============================================================================
// PUNCH HANDLERS
// =============================================================================

// ListPunches returns punches for a day (?day=YYYY-MM-DD) or a range
// (?from&to). Defaults to today.
func (h *Handler) ListPunches(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	from := punchclock.Today()
	to := from
	if q := r.URL.Query().Get("day"); q != "" {
		day, err := punchclock.ParseDate(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid day format (use YYYY-MM-DD)", err)
			return
		}
		from, to = day, day
	} else if r.URL.Query().Get("from") != "" || r.URL.Query().Get("to") != "" {
		var err error
		if from, to, err = parseRange(r); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date range", err)
			return
		}
	}

	punches, err := h.Store.PunchesBetween(r.Context(), employerID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list punches", err)
		return
	}
	writeJSON(w, http.StatusOK, toPunchDTOs(punches))
}

// CreatePunch registers a clock event and recalculates the day so the
// new punch and its successors get considered times.
func (h *Handler) CreatePunch(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	var req CreatePunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	timestamp := time.Now()
	if req.Timestamp != "" {
		var err error
		timestamp, err = time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid timestamp (use RFC3339)", err)
			return
		}
	}

	punch := punchclock.Punch{
		ID:         punchclock.PunchID(fmt.Sprintf("punch-%d", time.Now().UnixNano())),
		EmployerID: employerID,
		Timestamp:  timestamp,
		Considered: punchclock.ClockTimeOf(timestamp),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := h.Store.CreatePunch(r.Context(), punch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create punch", err)
		return
	}
	if _, err := h.Tolerance.RecalculateDay(r.Context(), employerID, punch.Day()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to recalculate day", err)
		return
	}

	// Re-read so the response carries the post-tolerance considered time.
	punches, err := h.Store.PunchesOn(r.Context(), employerID, punch.Day())
	if err == nil {
		for _, p := range punches {
			if p.ID == punch.ID {
				punch = p
				break
			}
		}
	}
	writeJSON(w, http.StatusCreated, toPunchDTO(punch))
}

// EditPunch moves a punch to a new timestamp. The edit requires a
// justification and flags the punch as manually edited; both the old and
// the new day are recalculated.
func (h *Handler) EditPunch(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))
	punchID := punchclock.PunchID(chi.URLParam(r, "punchID"))

	var req EditPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Justification == "" {
		writeError(w, http.StatusBadRequest, "Manual punch edits require a justification", nil)
		return
	}
	timestamp, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timestamp (use RFC3339)", err)
		return
	}

	// Locate the punch. It may live on a different day than the new
	// timestamp, so search a generous window around both.
	oldDay, found, err := h.findPunchDay(r, employerID, punchID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up punch", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Punch not found", nil)
		return
	}

	punches, err := h.Store.PunchesOn(r.Context(), employerID, oldDay)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up punch", err)
		return
	}
	var punch punchclock.Punch
	for _, p := range punches {
		if p.ID == punchID {
			punch = p
			break
		}
	}

	punch.Timestamp = timestamp
	punch.Considered = punchclock.ClockTimeOf(timestamp)
	punch.ManuallyEdited = true
	punch.Justification = req.Justification
	punch.UpdatedAt = time.Now()

	if err := h.Store.UpdatePunch(r.Context(), punch); err != nil {
		writeDomainError(w, "Failed to update punch", err)
		return
	}
	if _, err := h.Tolerance.RecalculateDay(r.Context(), employerID, oldDay); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to recalculate day", err)
		return
	}
	newDay := punch.Day()
	if !newDay.Equal(oldDay) {
		if _, err := h.Tolerance.RecalculateDay(r.Context(), employerID, newDay); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to recalculate day", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, toPunchDTO(punch))
}

// findPunchDay scans from the earliest punch to today for the day holding
// the given punch. Punch volume per employer is small (a handful per day).
func (h *Handler) findPunchDay(r *http.Request, employerID punchclock.EmployerID, punchID punchclock.PunchID) (punchclock.Date, bool, error) {
	first, ok, err := h.Store.EarliestPunchDate(r.Context(), employerID)
	if err != nil || !ok {
		return punchclock.Date{}, false, err
	}
	punches, err := h.Store.PunchesBetween(r.Context(), employerID, first, punchclock.Today())
	if err != nil {
		return punchclock.Date{}, false, err
	}
	for _, p := range punches {
		if p.ID == punchID {
			return p.Day(), true, nil
		}
	}
	return punchclock.Date{}, false, nil
}

// RecalculateDay re-applies tolerance rules to a day's punches.
func (h *Handler) RecalculateDay(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))
	day, err := punchclock.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	updated, err := h.Tolerance.RecalculateDay(r.Context(), employerID, day)
	if err != nil {
		writeDomainError(w, "Failed to recalculate day", err)
		return
	}
	writeJSON(w, http.StatusOK, RecalculateResultDTO{Updated: updated})
}

// =============================================================================
// SUMMARY HANDLERS
// =============================================================================

// GetDaySummary returns the computed state of one day.
func (h *Handler) GetDaySummary(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))
	day, err := punchclock.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	summary, err := h.Summary.ForDay(r.Context(), employerID, day)
	if err != nil {
		writeDomainError(w, "Failed to compute day summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toDaySummaryDTO(summary))
}

// GetRangeReport returns per-day summaries and the total balance over
// ?from&to. Defaults to the monthly period containing today.
func (h *Handler) GetRangeReport(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	from, to, err := parseRange(r)
	if err != nil {
		// Fall back to the employer's current reporting period.
		startDay := 1
		if cfg, cfgErr := h.Store.Config(r.Context(), employerID); cfgErr == nil {
			startDay = cfg.PeriodStartDay
		}
		period := punchclock.PeriodFor(punchclock.Today(), startDay)
		from, to = period.Start, period.End
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "from must not be after to", nil)
		return
	}

	report := RangeReportDTO{
		EmployerID: string(employerID),
		From:       from.String(),
		To:         to.String(),
	}
	for day := from; day.BeforeOrEqual(to); day = day.AddDays(1) {
		summary, err := h.Summary.ForDay(r.Context(), employerID, day)
		if err != nil {
			writeDomainError(w, "Failed to compute range report", err)
			return
		}
		report.Days = append(report.Days, toDaySummaryDTO(summary))
		report.BalanceMinutes += summary.Balance.InMinutes()
	}
	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// ADJUSTMENT HANDLERS
// =============================================================================

// ListAdjustments returns the employer's balance adjustments.
func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	adjustments, err := h.Store.Adjustments(r.Context(), employerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list adjustments", err)
		return
	}
	dtos := make([]AdjustmentDTO, len(adjustments))
	for i, a := range adjustments {
		dtos[i] = toAdjustmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAdjustment records a signed balance correction.
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	var req CreateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	day, err := punchclock.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	adjustment, err := h.Ledger.Record(r.Context(), employerID, day, req.Minutes, req.Justification)
	if err != nil {
		writeDomainError(w, "Failed to record adjustment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAdjustmentDTO(adjustment))
}

// =============================================================================
// CYCLE HANDLERS
// =============================================================================

// GetCycleStatus returns the reminder-oriented cycle view.
func (h *Handler) GetCycleStatus(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	status, err := h.Cycles.PendingCycleStatus(r.Context(), employerID, punchclock.Today())
	if err != nil {
		writeDomainError(w, "Failed to compute cycle status", err)
		return
	}

	dto := CycleStatusDTO{
		Kind:               string(status.Kind),
		DaysLeft:           status.DaysLeft,
		DaysLate:           status.DaysLate,
		LiveBalanceMinutes: status.LiveBalance.InMinutes(),
	}
	if !status.Window.Start.IsZero() {
		dto.WindowStart = status.Window.Start.String()
		dto.WindowEnd = status.Window.End.String()
	}
	writeJSON(w, http.StatusOK, dto)
}

// ListClosures returns the employer's closure history.
func (h *Handler) ListClosures(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	closures, err := h.Store.Closures(r.Context(), employerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list closures", err)
		return
	}
	writeJSON(w, http.StatusOK, toClosureDTOs(closures))
}

// AdvanceCycle runs detect-and-advance for the employer.
func (h *Handler) AdvanceCycle(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	result, err := h.Cycles.DetectAndAdvance(r.Context(), employerID, punchclock.Today())
	if err != nil {
		writeDomainError(w, "Failed to advance cycle", err)
		return
	}

	dto := AdvanceResultDTO{
		State:              string(result.State),
		LiveBalanceMinutes: result.LiveBalance.InMinutes(),
		Closed:             toClosureDTOs(result.Closed),
	}
	if result.State == punchclock.StateActive {
		dto.WindowStart = result.Window.Start.String()
		dto.WindowEnd = result.Window.End.String()
	}
	writeJSON(w, http.StatusOK, dto)
}

// CloseCycle closes the current cycle ahead of schedule.
func (h *Handler) CloseCycle(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	var req CloseCycleRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req) // note is optional
	}

	closure, err := h.Cycles.CloseCurrentCycle(r.Context(), employerID, req.Note)
	if err != nil {
		writeDomainError(w, "Failed to close cycle", err)
		return
	}
	writeJSON(w, http.StatusOK, toClosureDTO(closure))
}

// BootstrapCycles creates retroactive closures back to the first punch.
// Pass ?force=true to recreate closures recorded under older settings.
func (h *Handler) BootstrapCycles(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))
	force := r.URL.Query().Get("force") == "true"

	created, err := h.Cycles.BootstrapRetroactiveCycles(r.Context(), employerID, force)
	if err != nil {
		writeDomainError(w, "Failed to bootstrap cycles", err)
		return
	}
	writeJSON(w, http.StatusOK, BootstrapResultDTO{Created: created})
}

// ReverseCycles undoes machine-made closures and resets the cycle start.
func (h *Handler) ReverseCycles(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	var req ReverseClosuresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	correctStart, err := punchclock.ParseDate(req.CorrectStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid correct_start format (use YYYY-MM-DD)", err)
		return
	}

	removed, err := h.Cycles.ReverseClosures(r.Context(), employerID, correctStart)
	if err != nil {
		writeDomainError(w, "Failed to reverse closures", err)
		return
	}
	writeJSON(w, http.StatusOK, ReverseResultDTO{Removed: removed})
}

// =============================================================================
// CONFIG HANDLERS
// =============================================================================

// GetConfig returns the employer's configuration.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	cfg, err := h.Store.Config(r.Context(), employerID)
	if err != nil {
		writeDomainError(w, "Failed to get config", err)
		return
	}
	writeJSON(w, http.StatusOK, toConfigDTO(cfg))
}

// PutConfig creates or replaces the employer's configuration.
func (h *Handler) PutConfig(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	var req EmployerConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.CycleLengthWeeks > 0 && req.CycleLengthMonths > 0 {
		writeError(w, http.StatusBadRequest, "Set cycle length in weeks or months, not both", nil)
		return
	}

	cfg := punchclock.EmployerConfig{
		EmployerID:          employerID,
		CycleEnabled:        req.CycleEnabled,
		CycleLengthWeeks:    req.CycleLengthWeeks,
		CycleLengthMonths:   req.CycleLengthMonths,
		ClosureReminderDays: req.ClosureReminderDays,
		PeriodStartDay:      req.PeriodStartDay,
		ZeroBalanceOnClose:  req.ZeroBalanceOnClose,
	}
	if req.CurrentCycleStart != "" {
		start, err := punchclock.ParseDate(req.CurrentCycleStart)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid current_cycle_start format (use YYYY-MM-DD)", err)
			return
		}
		cfg.CurrentCycleStart = &start
	}

	if err := h.Store.SaveConfig(r.Context(), cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save config", err)
		return
	}
	writeJSON(w, http.StatusOK, toConfigDTO(cfg))
}

// =============================================================================
// ABSENCE / HOLIDAY HANDLERS
// =============================================================================

// ListAbsences returns the employer's absences.
func (h *Handler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	absences, err := h.Store.Absences(r.Context(), employerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list absences", err)
		return
	}
	dtos := make([]AbsenceDTO, len(absences))
	for i, a := range absences {
		dtos[i] = AbsenceDTO{
			ID:               a.ID,
			EmployerID:       string(a.EmployerID),
			Kind:             string(a.Kind),
			From:             a.From.String(),
			To:               a.To.String(),
			AbatementMinutes: a.AbatementMinutes,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAbsence records an absence range.
func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	employerID := punchclock.EmployerID(chi.URLParam(r, "id"))

	var req AbsenceDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	from, err := punchclock.ParseDate(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := punchclock.ParseDate(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "from must not be after to", nil)
		return
	}

	absence := punchclock.Absence{
		ID:               req.ID,
		EmployerID:       employerID,
		Kind:             punchclock.AbsenceKind(req.Kind),
		From:             from,
		To:               to,
		AbatementMinutes: req.AbatementMinutes,
	}
	if absence.ID == "" {
		absence.ID = fmt.Sprintf("abs-%d", time.Now().UnixNano())
	}
	if err := h.Store.SaveAbsence(r.Context(), absence); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save absence", err)
		return
	}
	req.ID = absence.ID
	req.EmployerID = string(employerID)
	writeJSON(w, http.StatusCreated, req)
}

// ListHolidays returns all holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.Holidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}
	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = HolidayDTO{
			ID:         hol.ID,
			EmployerID: string(hol.EmployerID),
			Name:       hol.Name,
			Kind:       string(hol.Kind),
			Date:       hol.Date.String(),
			Recurring:  hol.Recurring,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday records a global or employer-specific holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	day, err := punchclock.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	kind := punchclock.HolidayKind(req.Kind)
	if kind != punchclock.HolidayFull && kind != punchclock.HolidayOptional {
		writeError(w, http.StatusBadRequest, "Holiday kind must be full or optional", nil)
		return
	}

	holiday := punchclock.Holiday{
		ID:         req.ID,
		EmployerID: punchclock.EmployerID(req.EmployerID),
		Name:       req.Name,
		Kind:       kind,
		Date:       day,
		Recurring:  req.Recurring,
	}
	if holiday.ID == "" {
		holiday.ID = fmt.Sprintf("hol-%d", time.Now().UnixNano())
	}
	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	req.ID = holiday.ID
	writeJSON(w, http.StatusCreated, req)
}

// =============================================================================
// HELPERS
// =============================================================================

func parseRange(r *http.Request) (from, to punchclock.Date, err error) {
	from, err = punchclock.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		return
	}
	to, err = punchclock.ParseDate(r.URL.Query().Get("to"))
	return
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	code := ""

	var validation *punchclock.ValidationError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		code = validation.Code
	case punchclock.IsValidationError(err):
		status = http.StatusBadRequest
	case punchclock.IsNotFound(err):
		status = http.StatusNotFound
	case punchclock.IsConfigError(err), errors.Is(err, punchclock.ErrClosureConflict):
		status = http.StatusConflict
	case errors.Is(err, punchclock.ErrNoPunchData):
		status = http.StatusConflict
	case punchclock.IsSafetyLimit(err):
		// Deliberately loud: this means the config walked off the rails.
		status = http.StatusInternalServerError
		code = "safety_limit_exceeded"
	}

	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
