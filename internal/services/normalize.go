package services

import (
	"fmt"
	"strings"

	"github.com/tawasol/web/internal/models"
)

// Normalize turns a validated form into the payload for kind. base is the
// record being edited, nil when adding; it supplies what the form does not
// carry (server id, endorsements).
func Normalize(kind models.Kind, f Form, base models.Record) models.Record {
	id := ""
	if base != nil {
		id = base.RecordID()
	}
	start := models.StartDate(f.StartYear, f.StartMonth)
	end := models.EndDate(f.EndYear, f.EndMonth)

	switch kind {
	case models.KindWorkExperience:
		return models.WorkExperience{
			ID:             id,
			Title:          strings.TrimSpace(f.Title),
			Company:        strings.TrimSpace(f.Company),
			EmploymentType: f.EmploymentType,
			Location:       strings.TrimSpace(f.Location),
			LocationType:   f.LocationType,
			StartDate:      start,
			EndDate:        end,
			Description:    f.Description,
			OrgRef:         f.OrgRef,
		}
	case models.KindEducation:
		return models.Education{
			ID:          id,
			School:      strings.TrimSpace(f.School),
			Degree:      strings.TrimSpace(f.Degree),
			Field:       strings.TrimSpace(f.Field),
			Grade:       strings.TrimSpace(f.Grade),
			StartDate:   start,
			EndDate:     end,
			Description: f.Description,
			OrgRef:      f.OrgRef,
		}
	case models.KindSkills:
		skill := models.Skill{
			SkillName:    strings.TrimSpace(f.SkillName),
			Position:     strings.TrimSpace(f.Position),
			Endorsements: []string{},
		}
		if prev, ok := base.(models.Skill); ok && prev.Endorsements != nil {
			skill.Endorsements = prev.Endorsements
		}
		return skill
	case models.KindCertification:
		return models.Certification{
			ID:         id,
			Name:       strings.TrimSpace(f.Name),
			Company:    strings.TrimSpace(f.Company),
			IssueDate:  start,
			ExpiryDate: end,
			OrgRef:     f.OrgRef,
		}
	}
	panic(fmt.Sprintf("services: cannot normalize kind %q", string(kind)))
}

// FormFromRecord prefills the editor, splitting stored dates into month and
// year selectors.
func FormFromRecord(r models.Record) Form {
	v := &formFiller{}
	r.Accept(v)
	return v.form
}

type formFiller struct{ form Form }

func (v *formFiller) VisitWorkExperience(r models.WorkExperience) {
	v.form = Form{
		Title:          r.Title,
		Company:        r.Company,
		EmploymentType: r.EmploymentType,
		Location:       r.Location,
		LocationType:   r.LocationType,
		Description:    r.Description,
		OrgRef:         r.OrgRef,
	}
	v.setDates(r.StartDate, r.EndDate)
}

func (v *formFiller) VisitEducation(r models.Education) {
	v.form = Form{
		School:      r.School,
		Degree:      r.Degree,
		Field:       r.Field,
		Grade:       r.Grade,
		Description: r.Description,
		OrgRef:      r.OrgRef,
	}
	v.setDates(r.StartDate, r.EndDate)
}

func (v *formFiller) VisitSkill(r models.Skill) {
	v.form = Form{SkillName: r.SkillName, Position: r.Position}
}

func (v *formFiller) VisitCertification(r models.Certification) {
	v.form = Form{
		Name:    r.Name,
		Company: r.Company,
		OrgRef:  r.OrgRef,
	}
	v.setDates(r.IssueDate, r.ExpiryDate)
}

func (v *formFiller) setDates(start, end string) {
	v.form.StartYear, v.form.StartMonth = models.SplitDate(start)
	v.form.EndYear, v.form.EndMonth = models.SplitDate(end)
}
