package model

import "time"

// Task is a short unit of work owned by a single user identity.
type Task struct {
	// ID is the unique identifier, assigned at creation.
	ID string `json:"id" db:"id"`

	// Owner is the user/channel identity the task is scoped to.
	// Set once at creation and never mutated afterward.
	Owner string `json:"user_identifier" db:"user_identifier"`

	// Title is the human-readable summary. Never empty after a
	// successful write.
	Title string `json:"title" db:"title"`

	// Steps is an optional ordered list of suggested sub-steps.
	// A nil slice means "no suggestions" and serializes as JSON null;
	// an empty non-nil slice is preserved distinctly as [].
	Steps []string `json:"steps" db:"-"`

	// Completed marks the task as done.
	Completed bool `json:"completed" db:"completed"`

	// CreatedAt is immutable; UpdatedAt is refreshed on every
	// successful mutation.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InboundMessage is a raw message from any inbound surface (chat webhook,
// web form). It is consumed once by the trigger parser and never persisted.
type InboundMessage struct {
	// Channel labels the originating surface ("whatsapp", "slack", "web").
	// Informational only; not validated against any enum.
	Channel string `json:"channel"`

	// Sender is the raw sender identity (phone number, user id).
	Sender string `json:"from"`

	// OwnerOverride, when non-empty, takes precedence over Sender as the
	// task owner.
	OwnerOverride string `json:"user_identifier"`

	// Text is the raw message body.
	Text string `json:"message"`
}

// EnrichmentResult carries the optional output of the external
// title-enhancement service.
type EnrichmentResult struct {
	// EnhancedTitle is set only when the service returned a usable title.
	EnhancedTitle string `json:"enhanced_title"`

	// Steps is set only when the service returned a step list.
	Steps []string `json:"steps"`
}

// Empty reports whether the enrichment produced nothing usable.
func (r EnrichmentResult) Empty() bool {
	return r.EnhancedTitle == "" && r.Steps == nil
}

// TaskPatch describes a field-level partial update. Nil pointer fields are
// left untouched. Steps carries an explicit presence flag so that a JSON
// null (clear stored suggestions) is distinguishable from an absent field.
type TaskPatch struct {
	Title     *string
	Completed *bool
	Steps     []string
	StepsSet  bool
}

// Empty reports whether the patch contains no recognized field.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Completed == nil && !p.StepsSet
}
