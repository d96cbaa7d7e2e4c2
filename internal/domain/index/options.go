package index

// NameOption configures a NameTrie.
type NameOption func(*NameTrie)

// WithOverwrite makes a terminal node keep only the most recently inserted
// id, so players sharing a full name shadow each other.
func WithOverwrite() NameOption {
	return func(t *NameTrie) {
		t.overwrite = true
	}
}
