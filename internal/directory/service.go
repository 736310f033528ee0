package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"collabdir/internal/apperr"
	"collabdir/internal/auth"
	"collabdir/internal/sanitize"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, u *User) (string, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindTyped(ctx context.Context, id, userType string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, userType string, f Filters) ([]User, error)
	UpdateProfile(ctx context.Context, id, userType string, upd Update) (int64, error)
	DistinctPrograms(ctx context.Context) ([]string, error)
	DistinctDepartments(ctx context.Context) ([]string, error)
	DistinctInterests(ctx context.Context) ([]string, error)
}

// Service owns registration, login, and profile rules for the directory.
type Service struct {
	store Store
}

// NewService creates a service backed by a user store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email             string   `json:"email" binding:"required,email"`
	Password          string   `json:"password" binding:"required"`
	Name              string   `json:"name" binding:"required"`
	ProfileImage      string   `json:"profile_image"`
	Department        string   `json:"department"`
	ResearchInterests []string `json:"research_interests"`
	Bio               string   `json:"bio"`
	Publications      []string `json:"publications"`
	CurrentProjects   []string `json:"current_projects"`
	Availability      string   `json:"availability"`
	ContactInfo       string   `json:"contact_info"`
	YearOfStudy       string   `json:"year_of_study"`
	Program           string   `json:"program"`
	Skills            []string `json:"skills"`
	Position          string   `json:"position"`
	LabInfo           string   `json:"lab_info"`
	OfficeHours       string   `json:"office_hours"`
}

// Register validates input, hashes the password, and creates a user of the
// given type. The email must not be registered for either user type.
func (s *Service) Register(ctx context.Context, userType string, in RegisterInput) (*User, error) {
	if userType != TypeStudent && userType != TypeFaculty {
		return nil, apperr.Validationf("unknown user type %q", userType)
	}
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, apperr.Validationf("email, password and name are required")
	}
	if len(in.Password) < 8 {
		return nil, apperr.Validationf("password must be at least 8 characters long")
	}

	email := strings.ToLower(in.Email)
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Validationf("email already registered")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Email:             email,
		PasswordHash:      hash,
		Name:              sanitize.Strip(in.Name),
		UserType:          userType,
		ProfileImage:      in.ProfileImage,
		Department:        sanitize.Strip(in.Department),
		ResearchInterests: sanitize.StripAll(in.ResearchInterests),
		Bio:               sanitize.Strip(in.Bio),
		Publications:      sanitize.StripAll(in.Publications),
		CurrentProjects:   sanitize.StripAll(in.CurrentProjects),
		Availability:      sanitize.Strip(in.Availability),
		ContactInfo:       sanitize.Strip(in.ContactInfo),
	}
	switch userType {
	case TypeStudent:
		u.YearOfStudy = in.YearOfStudy
		u.Program = sanitize.Strip(in.Program)
		u.Skills = sanitize.StripAll(in.Skills)
	case TypeFaculty:
		u.Position = sanitize.Strip(in.Position)
		u.LabInfo = sanitize.Strip(in.LabInfo)
		u.OfficeHours = sanitize.Strip(in.OfficeHours)
	}

	if _, err := s.store.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and returns the user. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, apperr.Validationf("email and password required")
	}
	u, err := s.store.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthorizedf("invalid email or password")
		}
		return nil, err
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		return nil, apperr.Unauthorizedf("invalid email or password")
	}
	return u, nil
}

// Get returns a user of the given type by id.
func (s *Service) Get(ctx context.Context, id, userType string) (*User, error) {
	return s.store.FindTyped(ctx, id, userType)
}

// GetAny returns a user by id regardless of type.
func (s *Service) GetAny(ctx context.Context, id string) (*User, error) {
	return s.store.FindByID(ctx, id)
}

// List returns users of a type matching the filters.
func (s *Service) List(ctx context.Context, userType string, f Filters) ([]User, error) {
	return s.store.List(ctx, userType, f)
}

// UpdateProfile applies a profile update. Only the owner may update their own
// profile; email and user type never change.
func (s *Service) UpdateProfile(ctx context.Context, callerID, id, userType string, upd Update) error {
	if callerID != id {
		return apperr.Unauthorizedf("cannot update another user's profile")
	}
	if upd.Password != nil {
		if len(*upd.Password) < 8 {
			return apperr.Validationf("password must be at least 8 characters long")
		}
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		upd.Password = &hash
	}
	if upd.Bio != nil {
		cleaned := sanitize.Strip(*upd.Bio)
		upd.Bio = &cleaned
	}
	if upd.ResearchInterests != nil {
		cleaned := sanitize.StripAll(*upd.ResearchInterests)
		upd.ResearchInterests = &cleaned
	}

	modified, err := s.store.UpdateProfile(ctx, id, userType, upd)
	if err != nil {
		return err
	}
	if modified == 0 {
		return apperr.NotFoundf("%s %s", userType, id)
	}
	return nil
}

// Programs returns the distinct student programs.
func (s *Service) Programs(ctx context.Context) ([]string, error) {
	return s.store.DistinctPrograms(ctx)
}

// Departments returns the distinct departments across all users.
func (s *Service) Departments(ctx context.Context) ([]string, error) {
	return s.store.DistinctDepartments(ctx)
}

// Interests returns the distinct research interests across all users.
func (s *Service) Interests(ctx context.Context) ([]string, error) {
	return s.store.DistinctInterests(ctx)
}
