package topic

import "sync"

// Matcher indexes subscription patterns in a trie keyed by segment, so a
// published topic is matched without scanning every pattern. Each pattern
// is reference counted: it stays until removed as often as it was added.
// It is safe for concurrent use.
type Matcher struct {
	mu   sync.RWMutex
	root *node
}

type node struct {
	children map[string]*node
	pattern  Topic
	refs     int
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// NewMatcher returns an empty matcher.
func NewMatcher() *Matcher {
	return &Matcher{root: newNode()}
}

// Add registers pattern.
func (m *Matcher) Add(pattern Topic) {
	if pattern == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.root
	for _, seg := range pattern.Segments() {
		child := n.children[seg]
		if child == nil {
			child = newNode()
			n.children[seg] = child
		}
		n = child
	}
	n.pattern = pattern
	n.refs++
}

// Remove drops one registration of pattern.
func (m *Matcher) Remove(pattern Topic) {
	if pattern == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.root
	for _, seg := range pattern.Segments() {
		n = n.children[seg]
		if n == nil {
			return
		}
	}
	if n.refs > 0 {
		n.refs--
	}
}

// Has reports whether pattern is registered.
func (m *Matcher) Has(pattern Topic) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.root
	for _, seg := range pattern.Segments() {
		n = n.children[seg]
		if n == nil {
			return false
		}
	}
	return n.refs > 0
}

// Match returns the distinct registered patterns matching topic t.
func (m *Matcher) Match(t Topic) []Topic {
	if t == "" {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[Topic]bool)
	var out []Topic
	var walk func(n *node, segs []string)
	walk = func(n *node, segs []string) {
		if len(segs) == 0 && n.refs > 0 && !seen[n.pattern] {
			seen[n.pattern] = true
			out = append(out, n.pattern)
		}
		if multi := n.children[WildcardMulti]; multi != nil {
			for i := 0; i <= len(segs); i++ {
				walk(multi, segs[i:])
			}
		}
		if len(segs) == 0 {
			return
		}
		if child := n.children[segs[0]]; child != nil {
			walk(child, segs[1:])
		}
		if single := n.children[WildcardSingle]; single != nil {
			walk(single, segs[1:])
		}
	}
	walk(m.root, t.Segments())
	return out
}

// Count returns the number of distinct registered patterns.
func (m *Matcher) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	var walk func(n *node)
	walk = func(n *node) {
		if n.refs > 0 {
			count++
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(m.root)
	return count
}
