package roadmap

// Partition groups the nodes of a graph into connected components using a
// disjoint-set forest with path halving and union by rank.
type Partition struct {
	parent []int
	rank   []byte
	size   []int
	count  int
}

func newPartition(n int) *Partition {
	parent := make([]int, n)
	size := make([]int, n)
	for i := 0; i < n; i++ {
		parent[i] = i
		size[i] = 1
	}
	return &Partition{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
		count:  n,
	}
}

// Components computes the connected components of g.
func Components(g *Graph) *Partition {
	p := newPartition(g.NumNodes())
	for _, e := range g.edges {
		p.union(e.A, e.B)
	}
	return p
}

// Find returns the representative of the component containing x, or -1
// when x is not a node.
func (p *Partition) Find(x int) int {
	if x < 0 || x >= len(p.parent) {
		return -1
	}
	for p.parent[x] != x {
		p.parent[x] = p.parent[p.parent[x]] // path halving
		x = p.parent[x]
	}
	return x
}

// union merges the components of x and y. Returns false if already joined.
func (p *Partition) union(x, y int) bool {
	rx := p.Find(x)
	ry := p.Find(y)
	if rx == ry {
		return false
	}

	if p.rank[rx] < p.rank[ry] {
		rx, ry = ry, rx
	}
	p.parent[ry] = rx
	p.size[rx] += p.size[ry]
	if p.rank[rx] == p.rank[ry] {
		p.rank[rx]++
	}
	p.count--
	return true
}

// Connected reports whether a and b lie in the same component.
func (p *Partition) Connected(a, b int) bool {
	ra := p.Find(a)
	return ra >= 0 && ra == p.Find(b)
}

// Count returns the number of components. Isolated nodes count as one each.
func (p *Partition) Count() int {
	return p.count
}

// Size returns the number of nodes in the component containing x.
func (p *Partition) Size(x int) int {
	r := p.Find(x)
	if r < 0 {
		return 0
	}
	return p.size[r]
}

// Largest returns the size of the biggest component.
func (p *Partition) Largest() int {
	best := 0
	for i := range p.parent {
		if p.parent[i] == i && p.size[i] > best {
			best = p.size[i]
		}
	}
	return best
}
