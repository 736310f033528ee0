package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"collabdir/internal/apperr"
)

// Repository persists directory users in Postgres.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a repo.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, email, password_hash, name, user_type, profile_image, department,
	year_of_study, program, position, lab_info, office_hours, research_interests,
	bio, publications, current_projects, skills, availability, contact_info,
	created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.UserType, &u.ProfileImage,
		&u.Department, &u.YearOfStudy, &u.Program, &u.Position, &u.LabInfo, &u.OfficeHours,
		&u.ResearchInterests, &u.Bio, &u.Publications, &u.CurrentProjects, &u.Skills,
		&u.Availability, &u.ContactInfo, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Insert writes a new user and returns the generated id.
func (r *Repository) Insert(ctx context.Context, u *User) (string, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, user_type, profile_image, department,
			year_of_study, program, position, lab_info, office_hours, research_interests,
			bio, publications, current_projects, skills, availability, contact_info,
			created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`, u.ID, u.Email, u.PasswordHash, u.Name, u.UserType, u.ProfileImage, u.Department,
		u.YearOfStudy, u.Program, u.Position, u.LabInfo, u.OfficeHours, emptyIfNil(u.ResearchInterests),
		u.Bio, emptyIfNil(u.Publications), emptyIfNil(u.CurrentProjects), emptyIfNil(u.Skills),
		u.Availability, u.ContactInfo, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return u.ID, nil
}

// FindByID returns a user by id regardless of type.
func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("user %s", id)
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindTyped returns a user by id only when it has the given user type.
func (r *Repository) FindTyped(ctx context.Context, id, userType string) (*User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND user_type = $2`, id, userType)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("%s %s", userType, id)
		}
		return nil, fmt.Errorf("find %s by id: %w", userType, err)
	}
	return u, nil
}

// FindByEmail returns a user by email regardless of type.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("user %s", email)
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// List returns users of a type with optional filters.
func (r *Repository) List(ctx context.Context, userType string, f Filters) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_type = $1`
	args := []any{userType}
	if f.Department != "" {
		args = append(args, f.Department)
		query += fmt.Sprintf(" AND department = $%d", len(args))
	}
	if len(f.Interests) > 0 {
		args = append(args, f.Interests)
		query += fmt.Sprintf(" AND research_interests && $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (name ILIKE $%d OR bio ILIKE $%d
			OR EXISTS (SELECT 1 FROM unnest(research_interests) AS ri WHERE ri ILIKE $%d))`, n, n, n)
	}
	query += " ORDER BY name, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", userType, err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// FindCandidates returns users of the given type whose interests overlap the
// provided set.
func (r *Repository) FindCandidates(ctx context.Context, userType string, interests []string) ([]User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE user_type = $1 AND research_interests && $2
	`, userType, interests)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// UpdateProfile applies the non-nil fields of upd to the user. Email and
// user_type are never touched. Password, when set, must already be hashed.
// Returns the number of modified rows.
func (r *Repository) UpdateProfile(ctx context.Context, id, userType string, upd Update) (int64, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Password != nil {
		add("password_hash", *upd.Password)
	}
	if upd.ProfileImage != nil {
		add("profile_image", *upd.ProfileImage)
	}
	if upd.Department != nil {
		add("department", *upd.Department)
	}
	if upd.ResearchInterests != nil {
		add("research_interests", *upd.ResearchInterests)
	}
	if upd.Bio != nil {
		add("bio", *upd.Bio)
	}
	if upd.Publications != nil {
		add("publications", *upd.Publications)
	}
	if upd.CurrentProjects != nil {
		add("current_projects", *upd.CurrentProjects)
	}
	if upd.Availability != nil {
		add("availability", *upd.Availability)
	}
	if upd.ContactInfo != nil {
		add("contact_info", *upd.ContactInfo)
	}
	if upd.YearOfStudy != nil {
		add("year_of_study", *upd.YearOfStudy)
	}
	if upd.Program != nil {
		add("program", *upd.Program)
	}
	if upd.Skills != nil {
		add("skills", *upd.Skills)
	}
	if upd.Position != nil {
		add("position", *upd.Position)
	}
	if upd.LabInfo != nil {
		add("lab_info", *upd.LabInfo)
	}
	if upd.OfficeHours != nil {
		add("office_hours", *upd.OfficeHours)
	}
	if len(sets) == 0 {
		return 0, apperr.Validationf("no fields to update")
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id, userType)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d AND user_type = $%d",
		strings.Join(sets, ", "), len(args)-1, len(args))
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", userType, err)
	}
	return tag.RowsAffected(), nil
}

// DistinctPrograms returns the sorted distinct non-empty student programs.
func (r *Repository) DistinctPrograms(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `
		SELECT DISTINCT program FROM users
		WHERE user_type = 'student' AND program <> ''
		ORDER BY program
	`)
}

// DistinctDepartments returns the sorted distinct non-empty departments.
func (r *Repository) DistinctDepartments(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `
		SELECT DISTINCT department FROM users
		WHERE department <> ''
		ORDER BY department
	`)
}

// DistinctInterests returns the sorted distinct research interests across
// all users.
func (r *Repository) DistinctInterests(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `
		SELECT DISTINCT ri FROM users, unnest(research_interests) AS ri
		WHERE ri <> ''
		ORDER BY ri
	`)
}

func (r *Repository) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct query: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func collectUsers(rows pgx.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
