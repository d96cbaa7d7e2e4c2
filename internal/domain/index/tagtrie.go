package index

type tagNode struct {
	children map[rune]*tagNode
	ids      []string
	seen     map[string]struct{}
}

func newTagNode() *tagNode {
	return &tagNode{children: make(map[rune]*tagNode)}
}

func (n *tagNode) terminal() bool { return len(n.ids) > 0 }

// TagTrie indexes raw tag fields exactly as they appear in the source,
// case-sensitive and untokenized.
type TagTrie struct {
	root *tagNode
	tags int
}

// NewTagTrie creates an empty trie.
func NewTagTrie() *TagTrie {
	return &TagTrie{root: newTagNode()}
}

// Insert adds id to the set stored under the whole tag field.
func (t *TagTrie) Insert(tag, id string) {
	n := t.root
	for _, r := range tag {
		child, ok := n.children[r]
		if !ok {
			child = newTagNode()
			n.children[r] = child
		}
		n = child
	}
	if n.seen == nil {
		n.seen = make(map[string]struct{})
		t.tags++
	}
	if _, dup := n.seen[id]; dup {
		return
	}
	n.seen[id] = struct{}{}
	n.ids = append(n.ids, id)
}

// Tags returns the number of distinct tag fields indexed.
func (t *TagTrie) Tags() int { return t.tags }

// Search walks query rune by rune and unions the ids of every terminal node
// passed, stopping at the first rune with no child. An id matches when one of
// its inserted tag fields is a prefix of query. Ids come back in the order
// they were first reached.
func (t *TagTrie) Search(query string) []string {
	var (
		out  []string
		seen map[string]struct{}
	)
	n := t.root
	for _, r := range query {
		child, ok := n.children[r]
		if !ok {
			break
		}
		n = child
		if !n.terminal() {
			continue
		}
		if seen == nil {
			seen = make(map[string]struct{}, len(n.ids))
		}
		for _, id := range n.ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
