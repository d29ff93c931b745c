// Package bvh builds a linear bounding volume hierarchy over body AABBs and
// traverses it to find broad-phase collision candidates.
//
// Construction sorts bodies by Morton code (mapping each box's center onto a
// Z-order curve) and then repeatedly merges adjacent sorted entries into
// parent nodes until a single root remains. This trades the tighter
// hierarchies a top-down median-split or SAH builder produces for an O(n log
// n) build with no recursion and excellent memory locality, which is the
// right trade when the hierarchy is rebuilt from scratch every tick.
//
// Package bvh is provided as part of the orbitsim particle-physics engine.
package bvh

import (
	"github.com/nburjui/orbitsim/aabb"
	"github.com/nburjui/orbitsim/vec2"
	"github.com/nburjui/orbitsim/workerpool"
)

// noNode marks an absent child or body reference.
const noNode = -1

// Tree is a linear BVH over a fixed set of boxes. Leaves occupy node indices
// [0, n) in sorted (Morton) order; internal nodes occupy [n, len(Boxes)).
// The tree is immutable once built; a new Tree is built every tick.
type Tree struct {
	Boxes      []aabb.Box
	Left       []int
	Right      []int
	BodyIndex  []int // body id for leaves, noNode for internal nodes
	Root       int
	leafCount  int
}

// Pair is a normalized, unordered broad-phase candidate: A is always less
// than B, so (i, j) and (j, i) collapse to one representation.
type Pair struct {
	A, B int
}

// Build constructs a tree over boxes, one leaf per entry, where boxes[i] is
// the AABB of body id i. An empty input yields an empty tree with Root ==
// noNode. pool parallelizes the Morton sort for large body counts.
func Build(boxes []aabb.Box, pool *workerpool.Pool) *Tree {
	n := len(boxes)
	t := &Tree{leafCount: n}
	if n == 0 {
		t.Root = noNode
		return t
	}
	if n == 1 {
		t.Boxes = []aabb.Box{boxes[0]}
		t.Left = []int{noNode}
		t.Right = []int{noNode}
		t.BodyIndex = []int{0}
		t.Root = 0
		return t
	}

	world := boxes[0]
	for _, b := range boxes[1:] {
		world = aabb.Union(world, b)
	}
	centers := make([]vec2.V, n)
	codes := make([]uint32, n)
	for i, b := range boxes {
		c := vec2.New(
			(b.TopLeft.X+b.BottomRight.X)/2,
			(b.TopLeft.Y+b.BottomRight.Y)/2,
		)
		centers[i] = c
		qx := quantize(c.X, world.TopLeft.X, world.BottomRight.X)
		qy := quantize(c.Y, world.TopLeft.Y, world.BottomRight.Y)
		codes[i] = mortonEncode(qx, qy)
	}

	order := workerpool.SortIndices(pool, n, func(a, b int) bool {
		if codes[a] != codes[b] {
			return codes[a] < codes[b]
		}
		return a < b
	})

	capacity := 2*n - 1
	t.Boxes = make([]aabb.Box, n, capacity)
	t.Left = make([]int, n, capacity)
	t.Right = make([]int, n, capacity)
	t.BodyIndex = make([]int, n, capacity)
	level := make([]int, n)
	for slot, bodyID := range order {
		t.Boxes[slot] = boxes[bodyID]
		t.Left[slot] = noNode
		t.Right[slot] = noNode
		t.BodyIndex[slot] = bodyID
		level[slot] = slot
	}

	for len(level) > 1 {
		next := make([]int, 0, (len(level)+1)/2)
		for i := 0; i+1 < len(level); i += 2 {
			l, r := level[i], level[i+1]
			parent := len(t.Boxes)
			t.Boxes = append(t.Boxes, aabb.Union(t.Boxes[l], t.Boxes[r]))
			t.Left = append(t.Left, l)
			t.Right = append(t.Right, r)
			t.BodyIndex = append(t.BodyIndex, noNode)
			next = append(next, parent)
		}
		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}
		level = next
	}
	t.Root = level[0]
	return t
}

// Len returns the number of leaves (bodies) in the tree.
func (t *Tree) Len() int { return t.leafCount }

// stackFrame is a pending pair of node indices still to be tested against
// each other during traversal.
type stackFrame struct{ a, b int }

// circlesOverlap re-tests a leaf pair against the exact circle distance
// condition instead of trusting the AABB overlap alone: every leaf box comes
// from aabb.Of(center, radius), a square box centered on the circle, so its
// center and radius are recoverable directly from the box corners.
func circlesOverlap(a, b aabb.Box) bool {
	ax, ay := (a.TopLeft.X+a.BottomRight.X)/2, (a.TopLeft.Y+a.BottomRight.Y)/2
	bx, by := (b.TopLeft.X+b.BottomRight.X)/2, (b.TopLeft.Y+b.BottomRight.Y)/2
	ar := (a.BottomRight.X - a.TopLeft.X) / 2
	br := (b.BottomRight.X - b.TopLeft.X) / 2

	dx, dy := ax-bx, ay-by
	distSq := dx*dx + dy*dy
	collisionDist := ar + br
	return distSq < collisionDist*collisionDist
}

// FindPairs traverses the tree against itself and returns every pair of
// leaves whose circles (not just their AABBs) overlap, each reported exactly
// once with A < B; an AABB touch without circle overlap happens whenever two
// boxes share a corner region, so the exact test still matters even after
// the AABB prune. The traversal stack is pre-sized to 32 entries, the depth
// a balanced tree over any realistic body count comfortably stays within; it
// grows past that only for pathological, highly nested scenes.
func (t *Tree) FindPairs() []Pair {
	var pairs []Pair
	if t.Root == noNode || t.leafCount < 2 {
		return pairs
	}
	stack := make([]stackFrame, 0, 32)
	stack = append(stack, stackFrame{t.Root, t.Root})

	for len(stack) > 0 {
		top := len(stack) - 1
		f := stack[top]
		stack = stack[:top]
		a, b := f.a, f.b

		if a == b {
			if t.BodyIndex[a] != noNode {
				continue // leaf paired with itself: no self-collision
			}
			stack = append(stack,
				stackFrame{t.Left[a], t.Left[a]},
				stackFrame{t.Left[a], t.Right[a]},
				stackFrame{t.Right[a], t.Right[a]},
			)
			continue
		}
		if !t.Boxes[a].Intersects(t.Boxes[b]) {
			continue
		}
		aLeaf := t.BodyIndex[a] != noNode
		bLeaf := t.BodyIndex[b] != noNode
		switch {
		case aLeaf && bLeaf:
			if !circlesOverlap(t.Boxes[a], t.Boxes[b]) {
				continue
			}
			bodyA, bodyB := t.BodyIndex[a], t.BodyIndex[b]
			if bodyA > bodyB {
				bodyA, bodyB = bodyB, bodyA
			}
			pairs = append(pairs, Pair{A: bodyA, B: bodyB})
		case aLeaf && !bLeaf:
			stack = append(stack, stackFrame{a, t.Left[b]}, stackFrame{a, t.Right[b]})
		case !aLeaf && bLeaf:
			stack = append(stack, stackFrame{t.Left[a], b}, stackFrame{t.Right[a], b})
		default:
			stack = append(stack,
				stackFrame{t.Left[a], t.Left[b]},
				stackFrame{t.Left[a], t.Right[b]},
				stackFrame{t.Right[a], t.Left[b]},
				stackFrame{t.Right[a], t.Right[b]},
			)
		}
	}
	return pairs
}
