package client

import (
	"time"

	"github.com/devtrack/taskboard/internal/models"
)

// Envelope is the response wrapper every dashboard endpoint uses.
type Envelope[T any] struct {
	TimeStamp int64  `json:"timeStamp,omitempty"`
	Status    int    `json:"status,omitempty"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Data      T      `json:"data,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	Email         string      `json:"email"`
	Password      string      `json:"password"`
	Role          models.Role `json:"role"`
	DeveloperType string      `json:"developerType,omitempty"`
}

type TaskRequest struct {
	TaskLabel string           `json:"taskLabel"`
	TaskState models.TaskState `json:"taskState"`
}

// TaskPatch is a partial update; nil fields are left untouched by the
// server.
type TaskPatch struct {
	TaskLabel *string           `json:"taskLabel,omitempty"`
	TaskState *models.TaskState `json:"taskState,omitempty"`
}

// userPayload is the wire shape of a profile. The role-specific parts
// arrive under an optional developerDetails object regardless of role;
// toUser resolves them into the matching models.RoleDetails variant so
// the rest of the program never sees the loose shape.
type userPayload struct {
	ID        string      `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`

	DeveloperDetails *roleDetailsPayload `json:"developerDetails,omitempty"`
}

type roleDetailsPayload struct {
	DeveloperType string             `json:"developerType,omitempty"`
	Team          []models.Developer `json:"team,omitempty"`
	Tasks         []models.Task      `json:"tasks,omitempty"`
}

func (p *userPayload) toUser() *models.User {
	u := &models.User{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}

	switch p.Role {
	case models.RoleManager:
		det := &models.ManagerDetails{}
		if p.DeveloperDetails != nil {
			det.Team = p.DeveloperDetails.Team
		}
		u.Details = det
	case models.RoleDeveloper:
		det := &models.DeveloperDetails{}
		if p.DeveloperDetails != nil {
			det.DeveloperType = p.DeveloperDetails.DeveloperType
			det.Tasks = p.DeveloperDetails.Tasks
		}
		u.Details = det
	}

	return u
}
