package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OrgRef is a snapshot of the organization picked from the directory when the
// record was saved. It is copied, not joined: a later logo change upstream does
// not reach records saved before it.
type OrgRef struct {
	CompanyID   string `json:"companyId,omitempty"`
	CompanyLogo string `json:"companyLogo,omitempty"`
}

// Record is one entry of a profile section. The set of implementations is
// closed; use RecordVisitor to dispatch over it.
type Record interface {
	Kind() Kind
	// RecordID addresses the record in PATCH/DELETE paths.
	RecordID() string
	// IsEmpty reports a record without its identifying field.
	IsEmpty() bool
	Accept(v RecordVisitor)
	isRecord()
}

// RecordVisitor has one method per record variant, so a new variant fails to
// compile until every visitor handles it.
type RecordVisitor interface {
	VisitWorkExperience(r WorkExperience)
	VisitEducation(r Education)
	VisitSkill(r Skill)
	VisitCertification(r Certification)
}

type WorkExperience struct {
	ID             string `json:"id,omitempty"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	EmploymentType string `json:"employmentType"`
	Location       string `json:"location,omitempty"`
	LocationType   string `json:"locationType,omitempty"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate,omitempty"`
	Description    string `json:"description,omitempty"`
	OrgRef
}

type Education struct {
	ID          string `json:"id,omitempty"`
	School      string `json:"school"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Grade       string `json:"grade,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
	OrgRef
}

type Skill struct {
	SkillName string `json:"skillName"`
	Position  string `json:"position,omitempty"`
	// Endorsements holds endorser user ids in endorsement order.
	Endorsements []string `json:"endorsements"`
}

type Certification struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Company    string `json:"company"`
	IssueDate  string `json:"issueDate"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	OrgRef
}

func (WorkExperience) Kind() Kind { return KindWorkExperience }
func (Education) Kind() Kind { return KindEducation }
func (Skill) Kind() Kind { return KindSkills }
func (Certification) Kind() Kind { return KindCertification }
func (WorkExperience) isRecord() {}
func (Education) isRecord() {}
func (Skill) isRecord() {}
func (Certification) isRecord() {}
func (r WorkExperience) RecordID() string { return r.ID }
func (r Education) RecordID() string { return r.ID }
func (r Skill) RecordID() string { return r.SkillName }
func (r Certification) RecordID() string { return r.ID }

func (r WorkExperience) Accept(v RecordVisitor) { v.VisitWorkExperience(r) }
func (r Education) Accept(v RecordVisitor) { v.VisitEducation(r) }
func (r Skill) Accept(v RecordVisitor) { v.VisitSkill(r) }
func (r Certification) Accept(v RecordVisitor) { v.VisitCertification(r) }

func (r WorkExperience) IsEmpty() bool {
	return blank(r.Company) && blank(r.Title)
}

func (r Education) IsEmpty() bool { return blank(r.School) }

func (r Skill) IsEmpty() bool { return blank(r.SkillName) }

func (r Certification) IsEmpty() bool { return blank(r.Name) }

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// WithoutID returns a copy of r with the server-assigned id cleared, for
// create requests. Skills have no server id and are returned unchanged.
func WithoutID(r Record) Record {
	v := &idStripper{}
	r.Accept(v)
	return v.out
}

type idStripper struct{ out Record }

func (s *idStripper) VisitWorkExperience(r WorkExperience) {
	r.ID = ""
	s.out = r
}

func (s *idStripper) VisitEducation(r Education) {
	r.ID = ""
	s.out = r
}

func (s *idStripper) VisitSkill(r Skill) { s.out = r }

func (s *idStripper) VisitCertification(r Certification) {
	r.ID = ""
	s.out = r
}

// DecodeRecord unmarshals a stored record of the given kind.
func DecodeRecord(k Kind, data []byte) (Record, error) {
	switch k {
	case KindWorkExperience:
		var r WorkExperience
		err := json.Unmarshal(data, &r)
		return r, err
	case KindEducation:
		var r Education
		err := json.Unmarshal(data, &r)
		return r, err
	case KindSkills:
		var r Skill
		err := json.Unmarshal(data, &r)
		if r.Endorsements == nil {
			r.Endorsements = []string{}
		}
		return r, err
	case KindCertification:
		var r Certification
		err := json.Unmarshal(data, &r)
		return r, err
	}
	return nil, fmt.Errorf("decode record: unknown kind %q", string(k))
}
