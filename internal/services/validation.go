package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/tawasol/web/internal/models"
)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

const (
	MsgStartYearRequired  = "Start year is required"
	MsgStartMonthRequired = "Start month is required"
	MsgStartYearFuture    = "Start year can't be in the future"
	MsgStartMonthFuture   = "Start month can't be in the future"
	MsgEndYearBeforeStart = "End year can't be before the start year"
	MsgEndMonthBefore     = "End month can't be before the start month"
	MsgInvalidYear        = "Enter a valid year"
	MsgInvalidMonth       = "Enter a valid month"
)

var requiredMessages = map[string]string{
	models.FieldCompany:        "Company is required",
	models.FieldTitle:          "Title is required",
	models.FieldEmploymentType: "Employment type is required",
	models.FieldSchool:         "School is required",
	models.FieldName:           "Name is required",
	models.FieldSkillName:      "Skill name is required",
}

// Validate checks a form at save time. now decides what counts as the future.
func Validate(kind models.Kind, f Form, now time.Time) FieldErrors {
	spec := models.Spec(kind)
	errs := FieldErrors{}
	for _, field := range spec.Required {
		if strings.TrimSpace(f.Get(field)) == "" {
			errs[field] = requiredMessage(kind, field)
		}
	}
	if spec.HasDates() {
		validateDates(f, now, errs)
	}
	return errs
}

func requiredMessage(kind models.Kind, field string) string {
	if kind == models.KindCertification && field == models.FieldCompany {
		return "Issuing organization is required"
	}
	if msg, ok := requiredMessages[field]; ok {
		return msg
	}
	return "This field is required"
}

func validateDates(f Form, now time.Time, errs FieldErrors) {
	sy, okSY := parseYear(f.StartYear, models.FieldStartYear, MsgStartYearRequired, errs)
	sm, okSM := parseMonth(f.StartMonth, models.FieldStartMonth, MsgStartMonthRequired, errs)

	if okSY {
		switch {
		case sy > now.Year():
			errs[models.FieldStartYear] = MsgStartYearFuture
		case sy == now.Year() && okSM && sm > int(now.Month()):
			errs[models.FieldStartMonth] = MsgStartMonthFuture
		}
	}

	if f.EndYear == "" {
		return
	}
	ey, okEY := parseYear(f.EndYear, models.FieldEndYear, "", errs)
	if !okSY || !okEY {
		return
	}
	if ey < sy {
		errs[models.FieldEndYear] = MsgEndYearBeforeStart
		return
	}
	if ey == sy && okSM && f.EndMonth != "" {
		em, okEM := parseMonth(f.EndMonth, models.FieldEndMonth, "", errs)
		if okEM && em < sm {
			errs[models.FieldEndMonth] = MsgEndMonthBefore
		}
	}
}

// parseYear records requiredMsg when s is empty and requiredMsg is set.
func parseYear(s, field, requiredMsg string, errs FieldErrors) (int, bool) {
	if s == "" {
		if requiredMsg != "" {
			errs[field] = requiredMsg
		}
		return 0, false
	}
	y, err := strconv.Atoi(s)
	if err != nil || y <= 0 {
		errs[field] = MsgInvalidYear
		return 0, false
	}
	return y, true
}

func parseMonth(s, field, requiredMsg string, errs FieldErrors) (int, bool) {
	if s == "" {
		if requiredMsg != "" {
			errs[field] = requiredMsg
		}
		return 0, false
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		errs[field] = MsgInvalidMonth
		return 0, false
	}
	return m, true
}
