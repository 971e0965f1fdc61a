package nav

// Node is one entry of a navigation tree. Groups have children and no
// token; links have a token; the help node has neither.
type Node struct {
	ID       string
	Label    string
	Token    string
	Key      string
	Children []*Node
	// AutoReveal marks the link that is expanded and highlighted shortly
	// after the tree is shown.
	AutoReveal bool
	Help       bool
}

func (n *Node) IsGroup() bool {
	return n.Token == "" && !n.Help
}

// Tree is the navigation model rendered by the left-hand tree widget.
type Tree struct {
	ID    string
	Roots []*Node

	index  map[string]*Node
	parent map[string]*Node
}

func NewTree(id string, roots []*Node) *Tree {
	t := &Tree{ID: id, Roots: roots, index: make(map[string]*Node), parent: make(map[string]*Node)}
	var visit func(parent, n *Node)
	visit = func(parent, n *Node) {
		t.index[n.ID] = n
		if parent != nil {
			t.parent[n.ID] = parent
		}
		for _, c := range n.Children {
			visit(n, c)
		}
	}
	for _, r := range roots {
		visit(nil, r)
	}
	return t
}

func (t *Tree) Node(id string) *Node {
	return t.index[id]
}

func (t *Tree) Parent(id string) *Node {
	return t.parent[id]
}

// ChildIDs lists the children of id; the empty id stands for the roots.
func (t *Tree) ChildIDs(id string) []string {
	nodes := t.Roots
	if id != "" {
		n := t.index[id]
		if n == nil {
			return nil
		}
		nodes = n.Children
	}
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// AutoRevealNode returns the first link marked for auto reveal.
func (t *Tree) AutoRevealNode() *Node {
	var found *Node
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			if found != nil {
				return
			}
			if n.AutoReveal {
				found = n
				return
			}
			visit(n.Children)
		}
	}
	visit(t.Roots)
	return found
}

// NodeByToken finds the link for a place token.
func (t *Tree) NodeByToken(token string) *Node {
	for _, n := range t.index {
		if n.Token != "" && n.Token == token {
			return n
		}
	}
	return nil
}

// Links counts the link nodes.
func (t *Tree) Links() int {
	count := 0
	for _, n := range t.index {
		if n.Token != "" {
			count++
		}
	}
	return count
}
