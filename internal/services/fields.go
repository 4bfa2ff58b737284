package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/pkg/errors"

	"github.com/tawasol/web/internal/models"
)

var ErrUnknownField = errors.New("unknown form field")

var (
	EmploymentTypes = []string{
		"Full-time", "Part-time", "Self-employed", "Freelance",
		"Contract", "Internship", "Apprenticeship", "Seasonal",
	}
	LocationTypes = []string{"On-site", "Hybrid", "Remote"}
)

// yearsBack bounds the year selectors.
const yearsBack = 100

// Form is the editor's value object. Every field is a string so two forms can
// be compared with ==.
type Form struct {
	Title          string
	Company        string
	EmploymentType string
	Location       string
	LocationType   string
	School         string
	Degree         string
	Field          string
	Grade          string
	SkillName      string
	Position       string
	Name           string
	Description    string
	StartMonth     string
	StartYear      string
	EndMonth       string
	EndYear        string
	models.OrgRef
}

func (f *Form) slot(field string) (*string, error) {
	switch field {
	case models.FieldTitle:
		return &f.Title, nil
	case models.FieldCompany:
		return &f.Company, nil
	case models.FieldEmploymentType:
		return &f.EmploymentType, nil
	case models.FieldLocation:
		return &f.Location, nil
	case models.FieldLocationType:
		return &f.LocationType, nil
	case models.FieldSchool:
		return &f.School, nil
	case models.FieldDegree:
		return &f.Degree, nil
	case models.FieldStudy:
		return &f.Field, nil
	case models.FieldGrade:
		return &f.Grade, nil
	case models.FieldSkillName:
		return &f.SkillName, nil
	case models.FieldPosition:
		return &f.Position, nil
	case models.FieldName:
		return &f.Name, nil
	case models.FieldDescription:
		return &f.Description, nil
	case models.FieldStartMonth:
		return &f.StartMonth, nil
	case models.FieldStartYear:
		return &f.StartYear, nil
	case models.FieldEndMonth:
		return &f.EndMonth, nil
	case models.FieldEndYear:
		return &f.EndYear, nil
	}
	return nil, errors.Wrapf(ErrUnknownField, "%q", field)
}

func (f Form) Get(field string) string {
	p, err := f.slot(field)
	if err != nil {
		return ""
	}
	return *p
}

func (f *Form) Set(field, value string) error {
	p, err := f.slot(field)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

// Control is the input widget a field renders as.
type Control string

const (
	ControlText     Control = "text"
	ControlTextArea Control = "textarea"
	ControlSelect   Control = "select"
	ControlLookup   Control = "lookup"
	ControlMonth    Control = "month"
	ControlYear     Control = "year"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FieldSpec struct {
	Name     string
	Label    string
	Control  Control
	Required bool
	Options  []Option
}

// FieldSet returns the ordered inputs for kind. now bounds the year options.
func FieldSet(kind models.Kind, now time.Time) []FieldSpec {
	spec := models.Spec(kind)
	var fields []FieldSpec
	switch kind {
	case models.KindWorkExperience:
		fields = []FieldSpec{
			{Name: models.FieldTitle, Label: "Title", Control: ControlText},
			{Name: models.FieldEmploymentType, Label: "Employment type", Control: ControlSelect, Options: plainOptions(EmploymentTypes)},
			{Name: models.FieldCompany, Label: "Company or organization", Control: ControlLookup},
			{Name: models.FieldLocation, Label: "Location", Control: ControlText},
			{Name: models.FieldLocationType, Label: "Location type", Control: ControlSelect, Options: plainOptions(LocationTypes)},
		}
		fields = append(fields, dateFields("Start date", "End date", now)...)
		fields = append(fields, FieldSpec{Name: models.FieldDescription, Label: "Description", Control: ControlTextArea})
	case models.KindEducation:
		fields = []FieldSpec{
			{Name: models.FieldSchool, Label: "School", Control: ControlLookup},
			{Name: models.FieldDegree, Label: "Degree", Control: ControlText},
			{Name: models.FieldStudy, Label: "Field of study", Control: ControlText},
			{Name: models.FieldGrade, Label: "Grade", Control: ControlText},
		}
		fields = append(fields, dateFields("Start date", "End date (or expected)", now)...)
		fields = append(fields, FieldSpec{Name: models.FieldDescription, Label: "Description", Control: ControlTextArea})
	case models.KindSkills:
		fields = []FieldSpec{
			{Name: models.FieldSkillName, Label: "Skill", Control: ControlText},
			{Name: models.FieldPosition, Label: "Where did you use this skill?", Control: ControlText},
		}
	case models.KindCertification:
		fields = []FieldSpec{
			{Name: models.FieldName, Label: "Name", Control: ControlText},
			{Name: models.FieldCompany, Label: "Issuing organization", Control: ControlLookup},
		}
		fields = append(fields, dateFields("Issue date", "Expiration date", now)...)
	default:
		panic(fmt.Sprintf("services: no field set for kind %q", string(kind)))
	}
	for i := range fields {
		fields[i].Required = spec.IsRequired(fields[i].Name) ||
			fields[i].Name == models.FieldStartMonth || fields[i].Name == models.FieldStartYear
	}
	return fields
}

func dateFields(startLabel, endLabel string, now time.Time) []FieldSpec {
	months := monthOptions()
	years := yearOptions(now)
	return []FieldSpec{
		{Name: models.FieldStartMonth, Label: startLabel + " month", Control: ControlMonth, Options: months},
		{Name: models.FieldStartYear, Label: startLabel + " year", Control: ControlYear, Options: years},
		{Name: models.FieldEndMonth, Label: endLabel + " month", Control: ControlMonth, Options: months},
		{Name: models.FieldEndYear, Label: endLabel + " year", Control: ControlYear, Options: years},
	}
}

func plainOptions(values []string) []Option {
	return slice.Map(values, func(idx int, v string) Option {
		return Option{Value: v, Label: v}
	})
}

func monthOptions() []Option {
	res := make([]Option, 0, 12)
	for m := 1; m <= 12; m++ {
		v := fmt.Sprintf("%02d", m)
		res = append(res, Option{Value: v, Label: models.MonthName(v)})
	}
	return res
}

// yearOptions counts down from the current year.
func yearOptions(now time.Time) []Option {
	res := make([]Option, 0, yearsBack+1)
	for y := now.Year(); y >= now.Year()-yearsBack; y-- {
		v := strconv.Itoa(y)
		res = append(res, Option{Value: v, Label: v})
	}
	return res
}
