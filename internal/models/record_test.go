package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_IsEmpty(t *testing.T) {
	testCases := []struct {
		name string
		rec  Record
		want bool
	}{
		{name: "experience with title only", rec: WorkExperience{Title: "Engineer"}, want: false},
		{name: "experience with company only", rec: WorkExperience{Company: "Acme"}, want: false},
		{name: "experience blank", rec: WorkExperience{Company: "  ", Title: "\t", EmploymentType: "Full-time"}, want: true},
		{name: "education", rec: Education{School: "MIT"}, want: false},
		{name: "education blank school", rec: Education{School: " ", Degree: "BSc"}, want: true},
		{name: "skill", rec: Skill{SkillName: "Go"}, want: false},
		{name: "skill blank", rec: Skill{SkillName: "   ", Position: "Backend"}, want: true},
		{name: "certification", rec: Certification{Name: "CKA"}, want: false},
		{name: "certification blank", rec: Certification{Company: "CNCF"}, want: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rec.IsEmpty())
		})
	}
}

type kindCounter struct {
	seen []Kind
}

func (c *kindCounter) VisitWorkExperience(WorkExperience) { c.seen = append(c.seen, KindWorkExperience) }
func (c *kindCounter) VisitEducation(Education) { c.seen = append(c.seen, KindEducation) }
func (c *kindCounter) VisitSkill(Skill) { c.seen = append(c.seen, KindSkills) }
func (c *kindCounter) VisitCertification(Certification) { c.seen = append(c.seen, KindCertification) }

func TestRecord_Accept(t *testing.T) {
	c := &kindCounter{}
	for _, r := range []Record{WorkExperience{}, Education{}, Skill{}, Certification{}} {
		r.Accept(c)
		assert.Equal(t, r.Kind(), c.seen[len(c.seen)-1])
	}
	assert.Equal(t, Kinds(), c.seen)
}

func TestWithoutID(t *testing.T) {
	exp := WorkExperience{ID: "e1", Title: "Engineer"}
	stripped := WithoutID(exp)
	assert.Equal(t, WorkExperience{Title: "Engineer"}, stripped)
	assert.Equal(t, "e1", exp.ID)

	b, err := json.Marshal(WithoutID(Certification{ID: "c1", Name: "CKA"}))
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"id"`)

	skill := Skill{SkillName: "Go", Endorsements: []string{"u1"}}
	assert.Equal(t, skill, WithoutID(skill))
}

func TestDecodeRecord(t *testing.T) {
	rec, err := DecodeRecord(KindWorkExperience, []byte(`{
		"id": "e1", "title": "Engineer", "company": "Acme",
		"companyId": "org1", "companyLogo": "https://cdn/acme.png",
		"employmentType": "Full-time", "startDate": "2020-03-01"
	}`))
	require.NoError(t, err)
	assert.Equal(t, WorkExperience{
		ID:             "e1",
		Title:          "Engineer",
		Company:        "Acme",
		EmploymentType: "Full-time",
		StartDate:      "2020-03-01",
		OrgRef:         OrgRef{CompanyID: "org1", CompanyLogo: "https://cdn/acme.png"},
	}, rec)

	rec, err = DecodeRecord(KindSkills, []byte(`{"skillName": "Go"}`))
	require.NoError(t, err)
	assert.Equal(t, Skill{SkillName: "Go", Endorsements: []string{}}, rec)

	_, err = DecodeRecord(Kind("projects"), []byte(`{}`))
	assert.Error(t, err)
}

func TestProfile_Records(t *testing.T) {
	var p Profile
	require.NoError(t, json.Unmarshal([]byte(`{
		"userId": "u1",
		"skills": [{"skillName": "Go"}, {"skillName": "SQL"}],
		"certification": [{"id": "c1", "name": "CKA", "company": "CNCF", "issueDate": "2022-01-01"}]
	}`), &p))

	skills := p.Records(KindSkills)
	require.Len(t, skills, 2)
	assert.Equal(t, "SQL", skills[1].RecordID())
	assert.Len(t, p.Records(KindCertification), 1)
	assert.Empty(t, p.Records(KindEducation))
}
