package orchestrators

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"ateliers/internal/domain/coach"
	"ateliers/internal/domain/session"
	"ateliers/internal/domain/workshop"
)

// Editor errors surfaced to the notification sink.
var (
	ErrNotAllowed   = errors.New("only administrators can manage workshops")
	ErrNotConfirmed = errors.New("deletion requires confirmation")
)

// WorkshopWriter covers the upstream mutations the editor needs.
type WorkshopWriter interface {
	CreateWorkshop(ctx context.Context, token string, draft workshop.Draft) (workshop.Workshop, error)
	UpdateWorkshop(ctx context.Context, token string, id int, w workshop.Workshop) (workshop.Workshop, error)
	DeleteWorkshop(ctx context.Context, token string, id int) error
}

// CreateWorkshopInput carries the create-form submission.
type CreateWorkshopInput struct {
	Session session.Session
	Draft   workshop.Draft
	// Coaches is the currently loaded coach directory, used to resolve
	// the selected coach id.
	Coaches []coach.Coach
}

// SaveWorkshopDeps holds dependencies for the editor operations.
type SaveWorkshopDeps struct {
	Ateliers WorkshopWriter
	Now      func() time.Time
}

// ExecuteCreateWorkshop validates and submits a new workshop.
// Authorization is checked first: non-admin callers get ErrNotAllowed and
// no upstream call is made. The validation checklist runs in its
// contractual order and stops at the first failure.
func ExecuteCreateWorkshop(ctx context.Context, input CreateWorkshopInput, deps SaveWorkshopDeps) (workshop.Workshop, error) {
	if !input.Session.CanManageWorkshops() {
		return workshop.Workshop{}, ErrNotAllowed
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	known := func(id int) bool {
		for _, c := range input.Coaches {
			if c.ID == id {
				return true
			}
		}
		return false
	}
	if err := input.Draft.ValidateCreate(now(), known); err != nil {
		return workshop.Workshop{}, err
	}

	created, err := deps.Ateliers.CreateWorkshop(ctx, input.Session.Token, input.Draft)
	if err != nil {
		return workshop.Workshop{}, err
	}
	log.Info().Int("atelier_id", created.ID).Str("nom", created.Nom).Msg("workshop created")
	return created, nil
}

// UpdateWorkshopInput carries the edit-form submission.
type UpdateWorkshopInput struct {
	Session  session.Session
	ID       int
	Workshop workshop.Workshop
	Coaches  []coach.Coach
}

// ExecuteUpdateWorkshop submits workshop edits. Only the shared form
// constraints apply on update; the explicit create checklist does not.
// The coach object is resolved locally from the loaded coach list by id
// before submission.
func ExecuteUpdateWorkshop(ctx context.Context, input UpdateWorkshopInput, deps SaveWorkshopDeps) (workshop.Workshop, error) {
	if !input.Session.CanManageWorkshops() {
		return workshop.Workshop{}, ErrNotAllowed
	}
	w := input.Workshop
	w.ID = input.ID
	if id := w.ResolvedCoachID(); id > 0 {
		for i := range input.Coaches {
			if input.Coaches[i].ID == id {
				w.Coach = &input.Coaches[i]
				w.CoachID = id
				break
			}
		}
	}

	updated, err := deps.Ateliers.UpdateWorkshop(ctx, input.Session.Token, input.ID, w)
	if err != nil {
		return workshop.Workshop{}, err
	}
	log.Info().Int("atelier_id", updated.ID).Msg("workshop updated")
	return updated, nil
}

// DeleteWorkshopInput carries a delete request.
type DeleteWorkshopInput struct {
	Session   session.Session
	ID        int
	Confirmed bool
}

// ExecuteDeleteWorkshop removes a workshop after explicit confirmation.
func ExecuteDeleteWorkshop(ctx context.Context, input DeleteWorkshopInput, deps SaveWorkshopDeps) error {
	if !input.Session.CanManageWorkshops() {
		return ErrNotAllowed
	}
	if !input.Confirmed {
		return ErrNotConfirmed
	}
	if err := deps.Ateliers.DeleteWorkshop(ctx, input.Session.Token, input.ID); err != nil {
		return err
	}
	log.Info().Int("atelier_id", input.ID).Msg("workshop deleted")
	return nil
}
