package models

// Kind tells an original (shareable template) apart from a user-owned copy.
// The API returns both shapes from the same endpoints; the kind is resolved
// once in internal/api and nothing downstream compares raw IDs by hand.
type Kind string

const (
	KindOriginal Kind = "original"
	KindUserCopy Kind = "userCopy"
)

func kindOf(originalID string) Kind {
	if originalID != "" {
		return KindUserCopy
	}
	return KindOriginal
}

// Creator is the user who created a meal or diet.
type Creator struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Reference points at an entity that still uses the one being removed.
// Returned inside 409 responses.
type Reference struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Kind string `json:"kind"` // diet, meal, plan
}

// Label renders a reference for lists and dialogs.
func (r Reference) Label() string {
	if r.Kind == "" {
		return r.Name
	}
	return r.Kind + ": " + r.Name
}
