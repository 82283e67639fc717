package orchestrators

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"ateliers/internal/domain/coach"
	"ateliers/internal/domain/session"
	"ateliers/internal/domain/workshop"
)

// WorkshopLister fetches workshop listings from the upstream API.
type WorkshopLister interface {
	ListWorkshops(ctx context.Context, token string) ([]workshop.Workshop, error)
	ListWorkshopsByCoach(ctx context.Context, token string, coachID int) ([]workshop.Workshop, error)
}

// WorkshopUpdater pushes a workshop update upstream.
type WorkshopUpdater interface {
	UpdateWorkshop(ctx context.Context, token string, id int, w workshop.Workshop) (workshop.Workshop, error)
}

// LoadWorkshopsInput carries input for the directory load.
type LoadWorkshopsInput struct {
	Session session.Session
	// Coaches is the already-loaded coach directory, used only for the
	// admin missing-coach fix-up. May be empty.
	Coaches []coach.Coach
}

// LoadWorkshopsDeps holds dependencies for LoadWorkshops.
type LoadWorkshopsDeps struct {
	Ateliers WorkshopLister
	Updater  WorkshopUpdater
	Now      func() time.Time
}

// ExecuteLoadWorkshops fetches the role-sensitive workshop directory.
// Coaches see only their own workshops (requested scoped AND re-filtered
// locally); everyone else sees the full collection. Workshops dated
// strictly before today are dropped; undated ones are kept.
// POST: on success the returned slice replaces any previously held list
func ExecuteLoadWorkshops(ctx context.Context, input LoadWorkshopsInput, deps LoadWorkshopsDeps) ([]workshop.Workshop, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	var (
		fetched []workshop.Workshop
		err     error
	)
	if input.Session.IsCoach() {
		coachID := input.Session.User.ID
		fetched, err = deps.Ateliers.ListWorkshopsByCoach(ctx, input.Session.Token, coachID)
		if err != nil {
			return nil, err
		}
		// The scoping is an upstream contract; re-filter in case the
		// server ignored it.
		scoped := fetched[:0]
		for _, w := range fetched {
			if w.ResolvedCoachID() == coachID {
				scoped = append(scoped, w)
			}
		}
		fetched = scoped
	} else {
		fetched, err = deps.Ateliers.ListWorkshops(ctx, input.Session.Token)
		if err != nil {
			return nil, err
		}
	}

	today := now()
	visible := make([]workshop.Workshop, 0, len(fetched))
	for _, w := range fetched {
		if w.VisibleOn(today) {
			visible = append(visible, w)
		}
	}

	if input.Session.IsAdmin() && len(input.Coaches) > 0 && deps.Updater != nil {
		visible = assignMissingCoaches(ctx, input, deps, visible)
	}

	log.Debug().Int("count", len(visible)).Str("role", input.Session.User.Role).Msg("workshop directory loaded")
	return visible, nil
}

// assignMissingCoaches is the admin convenience fix-up for a known upstream
// data gap: workshops arriving without a coach get the first available one
// via a best-effort update. A failed assignment reverts locally and stays
// silent; this is not a critical operation.
func assignMissingCoaches(ctx context.Context, input LoadWorkshopsInput, deps LoadWorkshopsDeps, ws []workshop.Workshop) []workshop.Workshop {
	first := input.Coaches[0]
	for i, w := range ws {
		if w.HasCoach() {
			continue
		}
		patched := w
		patched.CoachID = first.ID
		patched.Coach = &first
		updated, err := deps.Updater.UpdateWorkshop(ctx, input.Session.Token, w.ID, patched)
		if err != nil {
			log.Debug().Err(err).Int("atelier_id", w.ID).Msg("coach auto-assignment failed, reverting")
			continue
		}
		ws[i] = updated
	}
	return ws
}
