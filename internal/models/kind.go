package models

import "fmt"

// Kind is the type tag of a profile record.
type Kind string

const (
	KindWorkExperience Kind = "workExperience"
	KindEducation      Kind = "education"
	KindSkills         Kind = "skills"
	KindCertification  Kind = "certification"
)

// DateShape says which date fields a kind carries.
type DateShape int

const (
	DatesNone DateShape = iota
	// DatesRange uses startDate/endDate.
	DatesRange
	// DatesIssued uses issueDate/expiryDate.
	DatesIssued
)

// Form field names shared by the registry, the field renderer and validation.
const (
	FieldTitle          = "title"
	FieldCompany        = "company"
	FieldEmploymentType = "employmentType"
	FieldLocation       = "location"
	FieldLocationType   = "locationType"
	FieldSchool         = "school"
	FieldDegree         = "degree"
	FieldStudy          = "field"
	FieldGrade          = "grade"
	FieldSkillName      = "skillName"
	FieldPosition       = "position"
	FieldName           = "name"
	FieldDescription    = "description"
	FieldStartMonth     = "startMonth"
	FieldStartYear      = "startYear"
	FieldEndMonth       = "endMonth"
	FieldEndYear        = "endYear"
)

type KindSpec struct {
	Kind Kind
	// Path is the segment used by POST /profile/{section}.
	Path   string
	Label  string
	Plural string
	Title  string
	Dates  DateShape
	// Required lists the non-date fields that must be non-blank on save.
	Required []string
	// Lookup is the field bound to the organization type-ahead, empty if none.
	Lookup string
}

var registry = map[Kind]KindSpec{
	KindWorkExperience: {
		Kind:     KindWorkExperience,
		Path:     "work-experience",
		Label:    "work experience",
		Plural:   "experiences",
		Title:    "Experience",
		Dates:    DatesRange,
		Required: []string{FieldCompany, FieldTitle, FieldEmploymentType},
		Lookup:   FieldCompany,
	},
	KindEducation: {
		Kind:     KindEducation,
		Path:     "education",
		Label:    "education",
		Plural:   "education entries",
		Title:    "Education",
		Dates:    DatesRange,
		Required: []string{FieldSchool},
		Lookup:   FieldSchool,
	},
	KindSkills: {
		Kind:     KindSkills,
		Path:     "skills",
		Label:    "skill",
		Plural:   "skills",
		Title:    "Skills",
		Dates:    DatesNone,
		Required: []string{FieldSkillName},
	},
	KindCertification: {
		Kind:     KindCertification,
		Path:     "certification",
		Label:    "certification",
		Plural:   "certifications",
		Title:    "Licenses & certifications",
		Dates:    DatesIssued,
		Required: []string{FieldName, FieldCompany},
		Lookup:   FieldCompany,
	},
}

// Kinds lists every registered kind in display order.
func Kinds() []Kind {
	return []Kind{KindWorkExperience, KindEducation, KindSkills, KindCertification}
}

// Spec returns the registry entry for k. An unregistered kind is a programming
// error and panics.
func Spec(k Kind) KindSpec {
	s, ok := registry[k]
	if !ok {
		panic(fmt.Sprintf("models: unregistered record kind %q", string(k)))
	}
	return s
}

// ParseKind converts untrusted input to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := registry[k]; !ok {
		return "", fmt.Errorf("unknown record kind %q", s)
	}
	return k, nil
}

func (s KindSpec) HasDates() bool {
	return s.Dates != DatesNone
}

func (s KindSpec) IsRequired(field string) bool {
	for _, f := range s.Required {
		if f == field {
			return true
		}
	}
	return false
}
