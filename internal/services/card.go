package services

import (
	"fmt"
	"strings"

	"github.com/tawasol/web/internal/models"
)

// CardView is the read-only rendering of one record. Index is the record's
// position in the full list and addresses it in edit requests.
type CardView struct {
	Index       int         `json:"index"`
	Kind        models.Kind `json:"kind"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle,omitempty"`
	Period      string      `json:"period,omitempty"`
	Detail      string      `json:"detail,omitempty"`
	Description string      `json:"description,omitempty"`
	Logo        string      `json:"logo,omitempty"`
	Editable    bool        `json:"editable"`
}

// RenderCard renders r, reporting false for an empty record, which must not
// show up as a card.
func RenderCard(r models.Record) (CardView, bool) {
	if r.IsEmpty() {
		return CardView{}, false
	}
	v := &cardRenderer{}
	r.Accept(v)
	v.card.Kind = r.Kind()
	return v.card, true
}

type cardRenderer struct{ card CardView }

func (v *cardRenderer) VisitWorkExperience(r models.WorkExperience) {
	v.card = CardView{
		Title:       r.Title,
		Subtitle:    joinNonEmpty(" · ", r.Company, r.EmploymentType),
		Period:      period(r.StartDate, r.EndDate),
		Detail:      joinNonEmpty(" · ", r.Location, r.LocationType),
		Description: r.Description,
		Logo:        r.CompanyLogo,
	}
	if strings.TrimSpace(r.Title) == "" {
		v.card.Title = r.Company
	}
}

func (v *cardRenderer) VisitEducation(r models.Education) {
	v.card = CardView{
		Title:       r.School,
		Subtitle:    joinNonEmpty(", ", r.Degree, r.Field),
		Period:      period(r.StartDate, r.EndDate),
		Description: r.Description,
		Logo:        r.CompanyLogo,
	}
	if r.Grade != "" {
		v.card.Detail = "Grade: " + r.Grade
	}
}

func (v *cardRenderer) VisitSkill(r models.Skill) {
	v.card = CardView{
		Title:    r.SkillName,
		Subtitle: r.Position,
	}
	switch n := len(r.Endorsements); n {
	case 0:
	case 1:
		v.card.Detail = "1 endorsement"
	default:
		v.card.Detail = fmt.Sprintf("%d endorsements", n)
	}
}

func (v *cardRenderer) VisitCertification(r models.Certification) {
	v.card = CardView{
		Title:    r.Name,
		Subtitle: r.Company,
		Logo:     r.CompanyLogo,
	}
	issued := models.FormatMonthYear(r.IssueDate)
	if issued == "" {
		return
	}
	expires := "No expiration date"
	if exp := models.FormatMonthYear(r.ExpiryDate); exp != "" {
		expires = "Expires " + exp
	}
	v.card.Period = "Issued " + issued + " · " + expires
}

// period renders "Mar 2020 - Present" style ranges.
func period(start, end string) string {
	from := models.FormatMonthYear(start)
	if from == "" {
		return ""
	}
	to := models.FormatMonthYear(end)
	if to == "" {
		to = "Present"
	}
	return from + " - " + to
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
