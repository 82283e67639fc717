package orchestrators

import (
	"context"
	"errors"
	"testing"

	"ateliers/internal/domain/coach"
	"ateliers/internal/domain/workshop"
)

// mockWorkshopWriter implements WorkshopWriter for testing.
type mockWorkshopWriter struct {
	createErr error
	updateErr error
	deleteErr error

	created []workshop.Draft
	updated []workshop.Workshop
	deleted []int
}

func (m *mockWorkshopWriter) CreateWorkshop(_ context.Context, _ string, d workshop.Draft) (workshop.Workshop, error) {
	if m.createErr != nil {
		return workshop.Workshop{}, m.createErr
	}
	m.created = append(m.created, d)
	return workshop.Workshop{ID: 100, Nom: d.Nom, Description: d.Description, Categorie: d.Categorie,
		Date: d.Date, Heure: d.Heure, CoachID: d.CoachID}, nil
}

func (m *mockWorkshopWriter) UpdateWorkshop(_ context.Context, _ string, id int, w workshop.Workshop) (workshop.Workshop, error) {
	if m.updateErr != nil {
		return workshop.Workshop{}, m.updateErr
	}
	w.ID = id
	m.updated = append(m.updated, w)
	return w, nil
}

func (m *mockWorkshopWriter) DeleteWorkshop(_ context.Context, _ string, id int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

var testCoaches = []coach.Coach{{ID: 6, FullName: "Emma Blanc", Specialite: "Art"}}

func validDraft() workshop.Draft {
	return workshop.Draft{
		Nom:         "Art",
		Description: "Initiation a l'aquarelle",
		Categorie:   workshop.CategoryArt,
		Date:        "2025-01-12",
		Heure:       "14:00",
		CoachID:     6,
	}
}

// TestExecuteCreateWorkshop_AdminOnly verifies non-admin roles are
// rejected before any upstream call.
func TestExecuteCreateWorkshop_AdminOnly(t *testing.T) {
	api := &mockWorkshopWriter{}
	deps := SaveWorkshopDeps{Ateliers: api, Now: testNow}

	_, err := ExecuteCreateWorkshop(context.Background(),
		CreateWorkshopInput{Session: clientSession(7), Draft: validDraft(), Coaches: testCoaches}, deps)
	if !errors.Is(err, ErrNotAllowed) {
		t.Errorf("client create error = %v, want ErrNotAllowed", err)
	}
	_, err = ExecuteCreateWorkshop(context.Background(),
		CreateWorkshopInput{Session: coachSession(6), Draft: validDraft(), Coaches: testCoaches}, deps)
	if !errors.Is(err, ErrNotAllowed) {
		t.Errorf("coach create error = %v, want ErrNotAllowed", err)
	}
	if len(api.created) != 0 {
		t.Error("upstream create called despite authorization failure")
	}
}

// TestExecuteCreateWorkshop_ValidDraft verifies the round trip with valid
// inputs (date = today+2).
func TestExecuteCreateWorkshop_ValidDraft(t *testing.T) {
	api := &mockWorkshopWriter{}
	got, err := ExecuteCreateWorkshop(context.Background(),
		CreateWorkshopInput{Session: adminSession(), Draft: validDraft(), Coaches: testCoaches},
		SaveWorkshopDeps{Ateliers: api, Now: testNow})
	if err != nil {
		t.Fatalf("ExecuteCreateWorkshop() error = %v", err)
	}
	if got.ID != 100 || got.Nom != "Art" {
		t.Errorf("created = %+v", got)
	}
	if len(api.created) != 1 {
		t.Errorf("upstream create calls = %d, want 1", len(api.created))
	}
}

// TestExecuteCreateWorkshop_ShortDescription verifies the checklist
// rejects locally with no request sent.
func TestExecuteCreateWorkshop_ShortDescription(t *testing.T) {
	api := &mockWorkshopWriter{}
	d := validDraft()
	d.Description = "short"
	_, err := ExecuteCreateWorkshop(context.Background(),
		CreateWorkshopInput{Session: adminSession(), Draft: d, Coaches: testCoaches},
		SaveWorkshopDeps{Ateliers: api, Now: testNow})
	if !errors.Is(err, workshop.ErrDescriptionTooShort) {
		t.Errorf("error = %v, want ErrDescriptionTooShort", err)
	}
	if len(api.created) != 0 {
		t.Error("upstream create called despite validation failure")
	}
}

// TestExecuteUpdateWorkshop_ResolvesCoachLocally verifies the coach object
// is attached from the loaded list by id before submission.
func TestExecuteUpdateWorkshop_ResolvesCoachLocally(t *testing.T) {
	api := &mockWorkshopWriter{}
	got, err := ExecuteUpdateWorkshop(context.Background(),
		UpdateWorkshopInput{
			Session:  adminSession(),
			ID:       42,
			Workshop: workshop.Workshop{Nom: "Art", CoachID: 6},
			Coaches:  testCoaches,
		},
		SaveWorkshopDeps{Ateliers: api, Now: testNow})
	if err != nil {
		t.Fatalf("ExecuteUpdateWorkshop() error = %v", err)
	}
	if got.Coach == nil || got.Coach.FullName != "Emma Blanc" {
		t.Errorf("coach not resolved locally: %+v", got.Coach)
	}
	if got.ID != 42 {
		t.Errorf("ID = %d, want 42", got.ID)
	}
}

// TestExecuteDeleteWorkshop verifies the confirmation and authorization
// gates.
func TestExecuteDeleteWorkshop(t *testing.T) {
	api := &mockWorkshopWriter{}
	deps := SaveWorkshopDeps{Ateliers: api}

	if err := ExecuteDeleteWorkshop(context.Background(),
		DeleteWorkshopInput{Session: adminSession(), ID: 42}, deps); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("unconfirmed delete error = %v, want ErrNotConfirmed", err)
	}
	if err := ExecuteDeleteWorkshop(context.Background(),
		DeleteWorkshopInput{Session: clientSession(7), ID: 42, Confirmed: true}, deps); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("client delete error = %v, want ErrNotAllowed", err)
	}
	if err := ExecuteDeleteWorkshop(context.Background(),
		DeleteWorkshopInput{Session: adminSession(), ID: 42, Confirmed: true}, deps); err != nil {
		t.Errorf("confirmed admin delete error = %v", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != 42 {
		t.Errorf("deleted = %v, want [42]", api.deleted)
	}
}
