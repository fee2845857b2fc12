package model

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleVolunteer Role = "volunteer"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleOrganizer || r == RoleVolunteer
}

// Actor identifies the authenticated caller of a workflow operation.
// OrganizationID is set for organizers, VolunteerID for volunteers.
type Actor struct {
	UserID         string
	Role           Role
	OrganizationID string
	VolunteerID    string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Organizes reports whether the actor is the organizer owning the given project
func (a Actor) Organizes(p *Project) bool {
	return a.Role == RoleOrganizer && a.OrganizationID != "" && a.OrganizationID == p.OrganizationID
}

// CanManage reports whether the actor may manage the project's applications and lifecycle
func (a Actor) CanManage(p *Project) bool {
	return a.IsAdmin() || a.Organizes(p)
}
