// Package match computes interest-based matches between students and
// faculty. Matches are derived on every call and never stored.
package match

import (
	"context"
	"errors"
	"sort"

	"collabdir/internal/apperr"
	"collabdir/internal/directory"
)

// Directory is the user lookup surface the matcher needs.
type Directory interface {
	FindByID(ctx context.Context, id string) (*directory.User, error)
	FindCandidates(ctx context.Context, userType string, interests []string) ([]directory.User, error)
}

// Match is one scored candidate for a user.
type Match struct {
	User            directory.User `json:"user"`
	Score           int            `json:"match_score"`
	CommonInterests []string       `json:"common_interests"`
}

// Matcher ranks opposite-type users by shared research interests.
type Matcher struct {
	dir Directory
}

// New creates a matcher backed by a user directory.
func New(dir Directory) *Matcher {
	return &Matcher{dir: dir}
}

// FindMatches returns candidates of the opposite user type ordered by score
// descending, ties broken by user id ascending. A user that does not exist
// or declares no research interests has no matches.
func (m *Matcher) FindMatches(ctx context.Context, userID string) ([]Match, error) {
	user, err := m.dir.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return []Match{}, nil
		}
		return nil, err
	}
	if len(user.ResearchInterests) == 0 {
		return []Match{}, nil
	}

	targetType := directory.TypeFaculty
	if user.UserType == directory.TypeFaculty {
		targetType = directory.TypeStudent
	}

	candidates, err := m.dir.FindCandidates(ctx, targetType, user.ResearchInterests)
	if err != nil {
		return nil, err
	}

	own := make(map[string]struct{}, len(user.ResearchInterests))
	for _, interest := range user.ResearchInterests {
		own[interest] = struct{}{}
	}

	matches := make([]Match, 0, len(candidates))
	for _, cand := range candidates {
		common := intersect(own, cand.ResearchInterests)
		if len(common) == 0 {
			continue
		}
		matches = append(matches, Match{User: cand, Score: len(common), CommonInterests: common})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].User.ID < matches[j].User.ID
	})
	return matches, nil
}

// intersect returns the sorted elements of items present in set.
func intersect(set map[string]struct{}, items []string) []string {
	var common []string
	seen := make(map[string]struct{})
	for _, it := range items {
		if _, ok := set[it]; !ok {
			continue
		}
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		common = append(common, it)
	}
	sort.Strings(common)
	return common
}
