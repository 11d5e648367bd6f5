package build

import "crypto/sha256"

// Advisor decides, per build-graph node, whether to reuse a cached compile
// result or recompile (§4.3, §9 glossary). Its policy is an explicit Open
// Question in the source spec; this package resolves it with
// ContentHashAdvisor (see DESIGN.md).
type Advisor interface {
	// ShouldReuse reports whether node's previous compile result can be
	// reused unchanged given the node's current source content.
	ShouldReuse(node *Node, content []byte) bool
	// Observe records the content that produced node's last successful
	// compile, for future ShouldReuse comparisons.
	Observe(node *Node, content []byte)
}

// ContentHashAdvisor reuses a node's prior result iff its source content
// hash is unchanged since the last successful compile that reached
// TypeChecked.
type ContentHashAdvisor struct {
	hashes map[string][32]byte
}

// NewContentHashAdvisor creates an Advisor with no prior observations.
func NewContentHashAdvisor() *ContentHashAdvisor {
	return &ContentHashAdvisor{hashes: make(map[string][32]byte)}
}

func (a *ContentHashAdvisor) ShouldReuse(node *Node, content []byte) bool {
	if node.State != TypeChecked {
		return false
	}
	prev, ok := a.hashes[node.URI]
	if !ok {
		return false
	}
	return prev == sha256.Sum256(content)
}

func (a *ContentHashAdvisor) Observe(node *Node, content []byte) {
	a.hashes[node.URI] = sha256.Sum256(content)
}
