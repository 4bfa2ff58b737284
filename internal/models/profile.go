package models

import (
	"fmt"

	"github.com/ecodeclub/ekit/slice"
)

// Profile is the parent object returned by GET /profile/{userId}. Only the
// sections edited here are decoded; the backend may send more.
type Profile struct {
	UserID         string           `json:"userId"`
	FirstName      string           `json:"firstName,omitempty"`
	LastName       string           `json:"lastName,omitempty"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Education      []Education      `json:"education"`
	Skills         []Skill          `json:"skills"`
	Certification  []Certification  `json:"certification"`
}

// Records returns the section list for k in stored order.
func (p *Profile) Records(k Kind) []Record {
	switch k {
	case KindWorkExperience:
		return toRecords(p.WorkExperience)
	case KindEducation:
		return toRecords(p.Education)
	case KindSkills:
		return toRecords(p.Skills)
	case KindCertification:
		return toRecords(p.Certification)
	}
	panic(fmt.Sprintf("models: unregistered record kind %q", string(k)))
}

func toRecords[T Record](src []T) []Record {
	return slice.Map(src, func(idx int, r T) Record {
		return r
	})
}
