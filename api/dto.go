/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

CONVENTIONS:
  Dates are "YYYY-MM-DD" strings, timestamps RFC3339, balances integer
  minutes (signed). Clock times are "HH:MM".

VALIDATION:
  Validation is done in handlers and in the domain, not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - punchclock/types.go: Domain types these project
*/
package api

import (
	"time"

	"github.com/tlmacedo/meuPonto-sub000/punchclock"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PunchDTO represents a clock event in API responses.
type PunchDTO struct {
	ID             string `json:"id"`
	EmployerID     string `json:"employer_id"`
	Timestamp      string `json:"timestamp"`
	Day            string `json:"day"`
	RealTime       string `json:"real_time"`
	ConsideredTime string `json:"considered_time"`
	ManuallyEdited bool   `json:"manually_edited"`
	Justification  string `json:"justification,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// CreatePunchRequest registers a clock event. Timestamp defaults to now.
type CreatePunchRequest struct {
	Timestamp string `json:"timestamp,omitempty"`
}

// EditPunchRequest moves a punch to a new timestamp. A justification is
// required; the edit marks the punch as manually edited.
type EditPunchRequest struct {
	Timestamp     string `json:"timestamp"`
	Justification string `json:"justification"`
}

// WorkIntervalDTO is one (entry, exit) pair of a day.
type WorkIntervalDTO struct {
	Entry   PunchDTO `json:"entry"`
	Exit    PunchDTO `json:"exit"`
	Minutes int      `json:"minutes"`
}

// DaySummaryDTO represents the computed state of one employer-day.
type DaySummaryDTO struct {
	EmployerID       string            `json:"employer_id"`
	Day              string            `json:"day"`
	DayType          string            `json:"day_type"`
	Intervals        []WorkIntervalDTO `json:"intervals"`
	OpenPunch        *PunchDTO         `json:"open_punch,omitempty"`
	Complete         bool              `json:"complete"`
	ExpectedMinutes  int               `json:"expected_minutes"`
	EffectiveMinutes int               `json:"effective_minutes"`
	AbatementMinutes int               `json:"abatement_minutes,omitempty"`
	WorkedMinutes    int               `json:"worked_minutes"`
	BalanceMinutes   int               `json:"balance_minutes"`
}

// RangeReportDTO aggregates day summaries over a date range.
type RangeReportDTO struct {
	EmployerID     string          `json:"employer_id"`
	From           string          `json:"from"`
	To             string          `json:"to"`
	Days           []DaySummaryDTO `json:"days"`
	BalanceMinutes int             `json:"balance_minutes"`
}

// AdjustmentDTO represents a signed balance correction.
type AdjustmentDTO struct {
	ID            string `json:"id"`
	EmployerID    string `json:"employer_id"`
	Date          string `json:"date"`
	Minutes       int    `json:"minutes"`
	Justification string `json:"justification"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// CreateAdjustmentRequest records a manual balance adjustment.
type CreateAdjustmentRequest struct {
	Date          string `json:"date"`
	Minutes       int    `json:"minutes"`
	Justification string `json:"justification"`
}

// ClosureDTO represents one closed cycle window.
type ClosureDTO struct {
	EmployerID          string `json:"employer_id"`
	PeriodStart         string `json:"period_start"`
	PeriodEnd           string `json:"period_end"`
	PriorBalanceMinutes int    `json:"prior_balance_minutes"`
	Type                string `json:"type"`
	CreatedAt           string `json:"created_at,omitempty"`
}

// CycleStatusDTO is the reminder-oriented view of the cycle.
type CycleStatusDTO struct {
	Kind               string `json:"kind"`
	WindowStart        string `json:"window_start,omitempty"`
	WindowEnd          string `json:"window_end,omitempty"`
	DaysLeft           int    `json:"days_left,omitempty"`
	DaysLate           int    `json:"days_late,omitempty"`
	LiveBalanceMinutes int    `json:"live_balance_minutes"`
}

// AdvanceResultDTO is the outcome of a detect-and-advance pass.
type AdvanceResultDTO struct {
	State              string       `json:"state"`
	WindowStart        string       `json:"window_start,omitempty"`
	WindowEnd          string       `json:"window_end,omitempty"`
	LiveBalanceMinutes int          `json:"live_balance_minutes"`
	Closed             []ClosureDTO `json:"closed"`
}

// CloseCycleRequest closes the current cycle ahead of schedule.
type CloseCycleRequest struct {
	Note string `json:"note,omitempty"`
}

// ReverseClosuresRequest undoes machine-made closures and resets the
// cycle start to the corrected date.
type ReverseClosuresRequest struct {
	CorrectStart string `json:"correct_start"`
}

// BootstrapResultDTO reports how many historical cycles were created.
type BootstrapResultDTO struct {
	Created int `json:"created"`
}

// ReverseResultDTO reports how many closures were removed.
type ReverseResultDTO struct {
	Removed int `json:"removed"`
}

// EmployerConfigDTO represents the banked-hours configuration.
type EmployerConfigDTO struct {
	EmployerID          string `json:"employer_id"`
	CycleEnabled        bool   `json:"cycle_enabled"`
	CycleLengthWeeks    int    `json:"cycle_length_weeks,omitempty"`
	CycleLengthMonths   int    `json:"cycle_length_months,omitempty"`
	CurrentCycleStart   string `json:"current_cycle_start,omitempty"`
	ClosureReminderDays int    `json:"closure_reminder_days"`
	PeriodStartDay      int    `json:"period_start_day"`
	ZeroBalanceOnClose  bool   `json:"zero_balance_on_close"`
}

// AbsenceDTO represents a declared absence range.
type AbsenceDTO struct {
	ID               string `json:"id"`
	EmployerID       string `json:"employer_id"`
	Kind             string `json:"kind"`
	From             string `json:"from"`
	To               string `json:"to"`
	AbatementMinutes int    `json:"abatement_minutes,omitempty"`
}

// HolidayDTO represents a global or employer-specific holiday.
type HolidayDTO struct {
	ID         string `json:"id"`
	EmployerID string `json:"employer_id,omitempty"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Date       string `json:"date"`
	Recurring  bool   `json:"recurring"`
}

// RecalculateResultDTO reports how many punches changed considered time.
type RecalculateResultDTO struct {
	Updated int `json:"updated"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPunchDTO(p punchclock.Punch) PunchDTO {
	return PunchDTO{
		ID:             string(p.ID),
		EmployerID:     string(p.EmployerID),
		Timestamp:      p.Timestamp.Format(time.RFC3339),
		Day:            p.Day().String(),
		RealTime:       p.RealClock().String(),
		ConsideredTime: p.Considered.String(),
		ManuallyEdited: p.ManuallyEdited,
		Justification:  p.Justification,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

func toPunchDTOs(punches []punchclock.Punch) []PunchDTO {
	dtos := make([]PunchDTO, len(punches))
	for i, p := range punches {
		dtos[i] = toPunchDTO(p)
	}
	return dtos
}

func toDaySummaryDTO(s punchclock.DaySummary) DaySummaryDTO {
	dto := DaySummaryDTO{
		EmployerID:       string(s.EmployerID),
		Day:              s.Day.String(),
		DayType:          string(s.Context.Type),
		Intervals:        make([]WorkIntervalDTO, len(s.Entries.Intervals)),
		Complete:         s.Entries.Complete,
		ExpectedMinutes:  s.ExpectedMinutes,
		EffectiveMinutes: s.EffectiveMinutes,
		AbatementMinutes: s.Context.AbatementMinutes,
		WorkedMinutes:    s.WorkedMinutes,
		BalanceMinutes:   s.Balance.InMinutes(),
	}
	for i, iv := range s.Entries.Intervals {
		dto.Intervals[i] = WorkIntervalDTO{
			Entry:   toPunchDTO(iv.Entry),
			Exit:    toPunchDTO(iv.Exit),
			Minutes: iv.Minutes(),
		}
	}
	if s.Entries.Open != nil {
		open := toPunchDTO(*s.Entries.Open)
		dto.OpenPunch = &open
	}
	return dto
}

func toAdjustmentDTO(a punchclock.BalanceAdjustment) AdjustmentDTO {
	return AdjustmentDTO{
		ID:            string(a.ID),
		EmployerID:    string(a.EmployerID),
		Date:          a.Date.String(),
		Minutes:       a.Amount.InMinutes(),
		Justification: a.Justification,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

func toClosureDTO(c punchclock.CycleClosure) ClosureDTO {
	return ClosureDTO{
		EmployerID:          string(c.EmployerID),
		PeriodStart:         c.Period.Start.String(),
		PeriodEnd:           c.Period.End.String(),
		PriorBalanceMinutes: c.PriorBalance.InMinutes(),
		Type:                string(c.Type),
		CreatedAt:           c.CreatedAt.Format(time.RFC3339),
	}
}

func toClosureDTOs(closures []punchclock.CycleClosure) []ClosureDTO {
	dtos := make([]ClosureDTO, len(closures))
	for i, c := range closures {
		dtos[i] = toClosureDTO(c)
	}
	return dtos
}

func toConfigDTO(cfg punchclock.EmployerConfig) EmployerConfigDTO {
	dto := EmployerConfigDTO{
		EmployerID:          string(cfg.EmployerID),
		CycleEnabled:        cfg.CycleEnabled,
		CycleLengthWeeks:    cfg.CycleLengthWeeks,
		CycleLengthMonths:   cfg.CycleLengthMonths,
		ClosureReminderDays: cfg.ClosureReminderDays,
		PeriodStartDay:      cfg.PeriodStartDay,
		ZeroBalanceOnClose:  cfg.ZeroBalanceOnClose,
	}
	if cfg.CurrentCycleStart != nil {
		dto.CurrentCycleStart = cfg.CurrentCycleStart.String()
	}
	return dto
}
