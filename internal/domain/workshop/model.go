package workshop

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ateliers/internal/domain/coach"
)

// Wire formats for workshop scheduling fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Category constants. The upstream API stores categories as bare strings;
// this enumeration pins the known set so matching never depends on runtime
// string normalization.
const (
	CategoryArt      = "ART"
	CategoryCuisine  = "CUISINE"
	CategoryBienEtre = "BIEN_ETRE"
	CategoryEnfants  = "ENFANTS"
	CategoryDIY      = "DIY"
)

// ValidCategories contains all known category values.
var ValidCategories = []string{CategoryArt, CategoryCuisine, CategoryBienEtre, CategoryEnfants, CategoryDIY}

// CategorySpecialties maps a category to the coach specialty tags that
// qualify a coach to run workshops in it.
var CategorySpecialties = map[string][]string{
	CategoryArt:      {"art", "peinture", "dessin"},
	CategoryCuisine:  {"cuisine", "patisserie"},
	CategoryBienEtre: {"bien_etre", "bien-etre", "yoga", "meditation"},
	CategoryEnfants:  {"enfants", "animation"},
	CategoryDIY:      {"diy", "bricolage", "couture"},
}

// categoryImages maps categories to stock illustration URLs used when a
// workshop carries no photo of its own.
var categoryImages = map[string]string{
	CategoryArt:      "https://images.unsplash.com/photo-1460661419201-fd4cecdf8a8b?auto=format&fit=crop&w=600&q=80",
	CategoryCuisine:  "https://images.unsplash.com/photo-1545205597-3d9d02c29597?auto=format&fit=crop&w=600&q=80",
	CategoryBienEtre: "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?auto=format&fit=crop&w=600&q=80",
	CategoryEnfants:  "https://images.unsplash.com/photo-1512820790803-83ca734da794?auto=format&fit=crop&w=600&q=80",
	CategoryDIY:      "https://images.unsplash.com/photo-1615713170963-2595d2c721bb?auto=format&fit=crop&w=600&q=80",
}

const placeholderImage = "https://via.placeholder.com/600x400?text=Atelier"

// Domain errors for the create checklist, in checklist order.
var (
	ErrNameTooShort        = errors.New("name must be at least 3 characters")
	ErrDescriptionTooShort = errors.New("description must be at least 10 characters")
	ErrCategoryRequired    = errors.New("category is required")
	ErrDateRequired        = errors.New("date is required")
	ErrDateTooSoon         = errors.New("date must be at least two days from today")
	ErrTimeRequired        = errors.New("time is required")
	ErrCoachRequired       = errors.New("a valid coach must be selected")
	ErrUnknownCoach        = errors.New("selected coach does not exist")
)

// Image is a photo reference attached to a workshop by the upstream API.
type Image struct {
	ID  int    `json:"id,omitempty"`
	URL string `json:"url"`
}

// Workshop holds state for one schedulable workshop (atelier).
// Date and Heure keep the upstream wire formats (YYYY-MM-DD, HH:MM); an
// empty Date means "undated, always visible".
type Workshop struct {
	ID          int          `json:"id,omitempty"`
	Nom         string       `json:"nom"`
	Description string       `json:"description"`
	Categorie   string       `json:"categorie"`
	Date        string       `json:"date,omitempty"`
	Heure       string       `json:"heure,omitempty"`
	CoachID     int          `json:"coachId,omitempty"`
	Coach       *coach.Coach `json:"coach,omitempty"`
	Photo       string       `json:"photo,omitempty"`
	Photos      []Image      `json:"photos,omitempty"`
}

// Draft carries the editable fields of the create/edit form.
type Draft struct {
	Nom         string `json:"nom" validate:"required"`
	Description string `json:"description" validate:"required"`
	Categorie   string `json:"categorie" validate:"required"`
	Date        string `json:"date" validate:"omitempty,ymd"`
	Heure       string `json:"heure" validate:"omitempty,hhmm"`
	CoachID     int    `json:"coachId"`
}

// HasCoach reports whether the workshop carries a coach reference, either
// as an embedded object or a bare id.
func (w Workshop) HasCoach() bool {
	return w.CoachID > 0 || (w.Coach != nil && w.Coach.ID > 0)
}

// ResolvedCoachID returns the owning coach id, preferring the embedded
// object over the bare id field. Zero means no coach.
func (w Workshop) ResolvedCoachID() int {
	if w.Coach != nil && w.Coach.ID > 0 {
		return w.Coach.ID
	}
	return w.CoachID
}

// ParsedDate returns the workshop date at day granularity.
// POST: ok is false when the workshop is undated or the date is malformed.
func (w Workshop) ParsedDate() (time.Time, bool) {
	if w.Date == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DateLayout, w.Date, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// VisibleOn reports whether the workshop belongs in the default listing on
// the given day. Undated workshops are always visible; dated ones are
// hidden once their day is strictly in the past. Time of day is ignored.
func (w Workshop) VisibleOn(today time.Time) bool {
	d, ok := w.ParsedDate()
	if !ok {
		return true
	}
	return !d.Before(truncateToDay(today))
}

// ImageURL returns the display image: the first attached photo, else the
// category stock image, else a generic placeholder.
func (w Workshop) ImageURL() string {
	if len(w.Photos) > 0 && w.Photos[0].URL != "" {
		return w.Photos[0].URL
	}
	if w.Photo != "" {
		return w.Photo
	}
	if url, ok := categoryImages[strings.ToUpper(w.Categorie)]; ok {
		return url
	}
	return placeholderImage
}

// ValidateCreate runs the create-form checklist in its contractual order,
// stopping at the first failure.
// PRE: today is the caller's current local time
// POST: nil only when every rule passes; the error identifies the first
// failed rule
func (d Draft) ValidateCreate(today time.Time, knownCoach func(id int) bool) error {
	if len(strings.TrimSpace(d.Nom)) < 3 {
		return ErrNameTooShort
	}
	if len(strings.TrimSpace(d.Description)) < 10 {
		return ErrDescriptionTooShort
	}
	if strings.TrimSpace(d.Categorie) == "" {
		return ErrCategoryRequired
	}
	if strings.TrimSpace(d.Date) == "" {
		return ErrDateRequired
	}
	day, err := time.ParseInLocation(DateLayout, d.Date, time.Local)
	if err != nil {
		return fmt.Errorf("date must use YYYY-MM-DD: %w", err)
	}
	// Strictly later than tomorrow, compared at day granularity.
	tomorrow := truncateToDay(today).AddDate(0, 0, 1)
	if !day.After(tomorrow) {
		return ErrDateTooSoon
	}
	if strings.TrimSpace(d.Heure) == "" {
		return ErrTimeRequired
	}
	if d.CoachID <= 0 {
		return ErrCoachRequired
	}
	if knownCoach != nil && !knownCoach(d.CoachID) {
		return ErrUnknownCoach
	}
	return nil
}

// Normalize trims whitespace and clamps wire formats the way the upstream
// sometimes fails to: ISO timestamps are cut to the date part, HH:MM:SS to
// HH:MM.
func Normalize(w Workshop) Workshop {
	if len(w.Date) > len(DateLayout) {
		if t, err := time.Parse(time.RFC3339, w.Date); err == nil {
			w.Date = t.Format(DateLayout)
		} else {
			w.Date = w.Date[:len(DateLayout)]
		}
	}
	if len(w.Heure) > len(TimeLayout) {
		w.Heure = w.Heure[:len(TimeLayout)]
	}
	if w.Photo == "" && len(w.Photos) > 0 {
		w.Photo = w.Photos[0].URL
	}
	return w
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
