package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tawasol/web/internal/models"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name string
		kind models.Kind
		form Form
		want FieldErrors
	}{
		{
			name: "work experience missing required fields",
			kind: models.KindWorkExperience,
			form: Form{StartMonth: "01", StartYear: "2020"},
			want: FieldErrors{
				models.FieldCompany:        "Company is required",
				models.FieldTitle:          "Title is required",
				models.FieldEmploymentType: "Employment type is required",
			},
		},
		{
			name: "work experience valid and ongoing",
			kind: models.KindWorkExperience,
			form: Form{
				Title: "Engineer", Company: "Acme", EmploymentType: "Full-time",
				StartMonth: "03", StartYear: "2020",
			},
			want: FieldErrors{},
		},
		{
			name: "whitespace does not satisfy required",
			kind: models.KindEducation,
			form: Form{School: "   ", StartMonth: "09", StartYear: "2015"},
			want: FieldErrors{models.FieldSchool: "School is required"},
		},
		{
			name: "start date required",
			kind: models.KindEducation,
			form: Form{School: "MIT"},
			want: FieldErrors{
				models.FieldStartMonth: MsgStartMonthRequired,
				models.FieldStartYear:  MsgStartYearRequired,
			},
		},
		{
			name: "start year in the future",
			kind: models.KindEducation,
			form: Form{School: "MIT", StartMonth: "01", StartYear: "2026"},
			want: FieldErrors{models.FieldStartYear: MsgStartYearFuture},
		},
		{
			name: "start month in the future this year",
			kind: models.KindEducation,
			form: Form{School: "MIT", StartMonth: "07", StartYear: "2025"},
			want: FieldErrors{models.FieldStartMonth: MsgStartMonthFuture},
		},
		{
			name: "start month is the current month",
			kind: models.KindEducation,
			form: Form{School: "MIT", StartMonth: "06", StartYear: "2025"},
			want: FieldErrors{},
		},
		{
			name: "end month before start month in the same year",
			kind: models.KindEducation,
			form: Form{School: "MIT", StartMonth: "05", StartYear: "2020", EndMonth: "03", EndYear: "2020"},
			want: FieldErrors{models.FieldEndMonth: MsgEndMonthBefore},
		},
		{
			name: "end year without end month",
			kind: models.KindEducation,
			form: Form{School: "MIT", StartMonth: "05", StartYear: "2020", EndYear: "2020"},
			want: FieldErrors{},
		},
		{
			name: "invalid year",
			kind: models.KindEducation,
			form: Form{School: "MIT", StartMonth: "05", StartYear: "20x0"},
			want: FieldErrors{models.FieldStartYear: MsgInvalidYear},
		},
		{
			name: "skill without name",
			kind: models.KindSkills,
			form: Form{},
			want: FieldErrors{models.FieldSkillName: "Skill name is required"},
		},
		{
			name: "skill ignores dates",
			kind: models.KindSkills,
			form: Form{SkillName: "Go", StartYear: "2099"},
			want: FieldErrors{},
		},
		{
			name: "certification missing issuer",
			kind: models.KindCertification,
			form: Form{Name: "CKA", StartMonth: "01", StartYear: "2022"},
			want: FieldErrors{models.FieldCompany: "Issuing organization is required"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Validate(tc.kind, tc.form, testNow))
		})
	}
}

func TestValidate_EducationEndYearBeforeStart(t *testing.T) {
	errs := Validate(models.KindEducation, Form{StartYear: "2024", EndYear: "2022"}, testNow)
	assert.Equal(t, "End year can't be before the start year", errs[models.FieldEndYear])
}

func TestValidate_WorkExperienceEmptyForm(t *testing.T) {
	errs := Validate(models.KindWorkExperience, Form{}, testNow)
	assert.Contains(t, errs, models.FieldCompany)
	assert.Contains(t, errs, models.FieldTitle)
	assert.Contains(t, errs, models.FieldEmploymentType)
}

func TestValidate_DateOrdering(t *testing.T) {
	for sy := 2018; sy <= 2020; sy++ {
		for ey := 2018; ey <= 2020; ey++ {
			for sm := 1; sm <= 12; sm++ {
				for em := 1; em <= 12; em++ {
					f := Form{
						School:     "MIT",
						StartYear:  fmt.Sprint(sy),
						StartMonth: fmt.Sprintf("%02d", sm),
						EndYear:    fmt.Sprint(ey),
						EndMonth:   fmt.Sprintf("%02d", em),
					}
					errs := Validate(models.KindEducation, f, testNow)
					switch {
					case ey < sy:
						assert.Equal(t, MsgEndYearBeforeStart, errs[models.FieldEndYear], "%+v", f)
					case ey == sy && em < sm:
						assert.Equal(t, MsgEndMonthBefore, errs[models.FieldEndMonth], "%+v", f)
					default:
						assert.Empty(t, errs, "%+v", f)
					}
				}
			}
		}
	}
}
