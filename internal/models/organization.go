package models

// Organization is a company or school from the directory endpoint.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// Ref snapshots the organization for storing on a record.
func (o Organization) Ref() OrgRef {
	return OrgRef{CompanyID: o.ID, CompanyLogo: o.Logo}
}
