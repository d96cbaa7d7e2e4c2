package rating

// Entry is one rating a user gave to a subject.
type Entry[T any] struct {
	Subject T
	Rating  float64
}

// History is the ordered list of ratings submitted by one user. Entries keep
// submission order and reference subjects owned elsewhere.
type History[T any] struct {
	UserID  string
	Entries []Entry[T]
}

// NewHistory creates an empty history for userID.
func NewHistory[T any](userID string) *History[T] {
	return &History[T]{UserID: userID}
}

// Append records that the user rated subject with v.
func (h *History[T]) Append(subject T, v float64) {
	h.Entries = append(h.Entries, Entry[T]{Subject: subject, Rating: v})
}

// Len returns the number of entries.
func (h *History[T]) Len() int { return len(h.Entries) }
