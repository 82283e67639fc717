package orchestrators

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"ateliers/internal/domain/coach"
	"ateliers/internal/domain/session"
	"ateliers/internal/domain/workshop"
)

// CoachLister fetches the coach collection from the upstream API.
type CoachLister interface {
	ListCoaches(ctx context.Context, token string) ([]coach.Coach, error)
}

// LoadCoachesInput carries input for the coach directory load.
type LoadCoachesInput struct {
	Session session.Session
}

// LoadCoachesDeps holds dependencies for LoadCoaches.
type LoadCoachesDeps struct {
	Coaches CoachLister
}

// ExecuteLoadCoaches fetches the coach directory. The load is skipped
// entirely — empty result, no upstream call — when the caller is
// unauthenticated or is a coach (coaches do not need the peer list).
func ExecuteLoadCoaches(ctx context.Context, input LoadCoachesInput, deps LoadCoachesDeps) ([]coach.Coach, error) {
	if !input.Session.IsAuthenticated() || input.Session.IsCoach() {
		return nil, nil
	}
	coaches, err := deps.Coaches.ListCoaches(ctx, input.Session.Token)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("count", len(coaches)).Msg("coach directory loaded")
	return coaches, nil
}

// FilterCoachesByCategory narrows a coach list to those whose specialty
// qualifies for the category. An empty category returns the list
// unchanged, and so does an empty match: the selector must never be
// emptied purely by filtering.
func FilterCoachesByCategory(coaches []coach.Coach, category string) []coach.Coach {
	category = strings.TrimSpace(category)
	if category == "" {
		return coaches
	}
	tags, ok := workshop.CategorySpecialties[strings.ToUpper(category)]
	if !ok {
		// Unknown category: fall back to matching the raw category name
		// against the specialty tag.
		tags = []string{category}
	}
	matched := make([]coach.Coach, 0, len(coaches))
	for _, c := range coaches {
		if c.MatchesSpecialty(tags) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return coaches
	}
	return matched
}
