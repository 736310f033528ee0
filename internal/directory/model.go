package directory

import "time"

// User types stored in the directory.
const (
	TypeStudent = "student"
	TypeFaculty = "faculty"
)

// User is a directory record for either a student or a faculty member.
// Type-specific fields are empty for the other type.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Name              string    `json:"name"`
	UserType          string    `json:"user_type"`
	ProfileImage      string    `json:"profile_image,omitempty"`
	Department        string    `json:"department,omitempty"`
	ResearchInterests []string  `json:"research_interests"`
	Bio               string    `json:"bio,omitempty"`
	Publications      []string  `json:"publications,omitempty"`
	CurrentProjects   []string  `json:"current_projects,omitempty"`
	Availability      string    `json:"availability,omitempty"`
	ContactInfo       string    `json:"contact_info,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// student-only
	YearOfStudy string   `json:"year_of_study,omitempty"`
	Program     string   `json:"program,omitempty"`
	Skills      []string `json:"skills,omitempty"`

	// faculty-only
	Position    string `json:"position,omitempty"`
	LabInfo     string `json:"lab_info,omitempty"`
	OfficeHours string `json:"office_hours,omitempty"`
}

// Filters narrows directory listings.
type Filters struct {
	Department string
	Interests  []string
	Search     string
}

// Update carries profile fields a user may change. Nil means "leave as is".
// Email and user type are immutable.
type Update struct {
	Name              *string   `json:"name"`
	Password          *string   `json:"password"`
	ProfileImage      *string   `json:"profile_image"`
	Department        *string   `json:"department"`
	ResearchInterests *[]string `json:"research_interests"`
	Bio               *string   `json:"bio"`
	Publications      *[]string `json:"publications"`
	CurrentProjects   *[]string `json:"current_projects"`
	Availability      *string   `json:"availability"`
	ContactInfo       *string   `json:"contact_info"`
	YearOfStudy       *string   `json:"year_of_study"`
	Program           *string   `json:"program"`
	Skills            *[]string `json:"skills"`
	Position          *string   `json:"position"`
	LabInfo           *string   `json:"lab_info"`
	OfficeHours       *string   `json:"office_hours"`
}
