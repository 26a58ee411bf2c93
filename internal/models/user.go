package models

import "time"

type Role string

const (
	RoleManager   Role = "MANAGER"
	RoleDeveloper Role = "DEVELOPER"
)

// Developer is the roster summary returned by the developers endpoint
// and embedded in a manager's team.
type Developer struct {
	ID            string `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	DeveloperType string `json:"developerType"`
}

// RoleDetails is the role-specific half of a profile. The server sends
// it as an optional developerDetails object; the client resolves it into
// exactly one of the two variants below when it decodes the payload, so
// nothing downstream has to null-check its way through the shape.
type RoleDetails interface {
	roleDetails()
}

type ManagerDetails struct {
	Team []Developer
}

type DeveloperDetails struct {
	DeveloperType string
	Tasks         []Task
}

func (ManagerDetails) roleDetails()   {}
func (DeveloperDetails) roleDetails() {}

type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time

	// Details is nil, *ManagerDetails, or *DeveloperDetails, matching Role.
	Details RoleDetails
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Team returns the manager's team, or nil for any other role.
func (u *User) Team() []Developer {
	if d, ok := u.Details.(*ManagerDetails); ok {
		return d.Team
	}
	return nil
}
