package index

import (
	"iter"
	"maps"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type nameNode struct {
	children map[rune]*nameNode
	ids      []string
}

func newNameNode() *nameNode {
	return &nameNode{children: make(map[rune]*nameNode)}
}

// NameTrie is a prefix tree over lower-cased full names. Each terminal node
// holds the ids inserted under that exact name.
type NameTrie struct {
	root      *nameNode
	overwrite bool
	names     int
}

// NewNameTrie creates an empty trie.
func NewNameTrie(opts ...NameOption) *NameTrie {
	t := &NameTrie{root: newNameNode()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// fold lower-cases s. A Caser carries state, so one is built per call to keep
// lookups safe from concurrent readers.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Insert records id under the lower-cased name. Repeating an (name, id) pair
// is a no-op.
func (t *NameTrie) Insert(name, id string) {
	n := t.root
	for _, r := range fold(name) {
		child, ok := n.children[r]
		if !ok {
			child = newNameNode()
			n.children[r] = child
		}
		n = child
	}
	if len(n.ids) == 0 {
		t.names++
	}
	switch {
	case t.overwrite:
		n.ids = append(n.ids[:0], id)
	case !slices.Contains(n.ids, id):
		n.ids = append(n.ids, id)
	}
}

// Names returns the number of distinct names indexed.
func (t *NameTrie) Names() int { return t.names }

func (t *NameTrie) find(prefix string) *nameNode {
	n := t.root
	for _, r := range fold(prefix) {
		child, ok := n.children[r]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// Walk yields every id stored at or below the node reached by prefix. A
// node's own ids come before its descendants and children are visited in
// ascending rune order. An unknown prefix yields nothing; the empty prefix
// yields the whole trie.
func (t *NameTrie) Walk(prefix string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := t.find(prefix)
		if start == nil {
			return
		}
		stack := []*nameNode{start}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, id := range n.ids {
				if !yield(id) {
					return
				}
			}
			// Push in descending order so the smallest rune pops first.
			keys := slices.Sorted(maps.Keys(n.children))
			for i := len(keys) - 1; i >= 0; i-- {
				stack = append(stack, n.children[keys[i]])
			}
		}
	}
}

// Search collects Walk(prefix).
func (t *NameTrie) Search(prefix string) []string {
	return slices.Collect(t.Walk(prefix))
}
