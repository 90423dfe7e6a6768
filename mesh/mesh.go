package mesh

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/nekrea/types"
)

// Vertex is a corner of one element. Elements never share vertices in a reafile,
// so two coincident corners of neighboring elements are two Vertex values.
type Vertex struct {
	ID       int    `json:"id"`
	Position r3.Vec `json:"position"`
}

func (v *Vertex) EntityID() int          { return v.ID }
func (v *Vertex) EntityKind() EntityKind { return VertexEntity }

// Edge joins two vertices of the same element.
type Edge struct {
	ID       int        `json:"id"`
	Vertices [2]*Vertex `json:"vertices"`
}

func (e *Edge) EntityID() int          { return e.ID }
func (e *Edge) EntityKind() EntityKind { return EdgeEntity }

// Quad is a quadrilateral element. Edge k runs from corner k to corner k+1 mod 4.
// Conditions[k] holds the boundary conditions of edge k, one per category.
type Quad struct {
	ID         int                                           `json:"id"`
	Edges      [4]*Edge                                      `json:"edges"`
	MaterialID string                                        `json:"materialID"`
	Group      int                                           `json:"group"`
	Conditions [4]map[types.Category]types.BoundaryCondition `json:"conditions"`
}

func (q *Quad) EntityID() int          { return q.ID }
func (q *Quad) EntityKind() EntityKind { return QuadEntity }

// Counters are the last IDs handed out while building a mesh. They are passed
// into NewQuad and returned updated so that numbering stays a pure function of
// element order.
type Counters struct {
	Vertex, Edge, Quad int
}

// CountersAt returns the counters in effect before element number element (1-based).
func CountersAt(element int) Counters {
	n := element - 1
	return Counters{Vertex: EdgesPerElement * n, Edge: EdgesPerElement * n, Quad: n}
}

func NewQuad(ids Counters, corners [4]r3.Vec, materialID string, group int) (q *Quad, next Counters) {
	var verts [4]*Vertex
	next = ids
	for i, c := range corners {
		next.Vertex++
		verts[i] = &Vertex{ID: next.Vertex, Position: c}
	}
	next.Quad++
	q = &Quad{
		ID:         next.Quad,
		MaterialID: materialID,
		Group:      group,
	}
	for i := range q.Edges {
		next.Edge++
		q.Edges[i] = &Edge{
			ID:       next.Edge,
			Vertices: [2]*Vertex{verts[i], verts[(i+1)%4]},
		}
	}
	return
}

// Corners returns the element's vertices in corner order.
func (q *Quad) Corners() (verts [4]*Vertex) {
	for i, e := range q.Edges {
		verts[i] = e.Vertices[0]
	}
	return
}

func (q *Quad) Condition(local int, c types.Category) types.BoundaryCondition {
	if bc, ok := q.Conditions[local-1][c]; ok {
		return bc
	}
	return types.NoCondition()
}

// SetCondition attaches bc to edge local (1-based), a BCNone condition detaches.
func (q *Quad) SetCondition(local int, c types.Category, bc types.BoundaryCondition) {
	if bc.Type.IsNone() {
		delete(q.Conditions[local-1], c)
		return
	}
	if q.Conditions[local-1] == nil {
		q.Conditions[local-1] = make(map[types.Category]types.BoundaryCondition)
	}
	q.Conditions[local-1][c] = bc
}

func (q *Quad) HasCategory(c types.Category) bool {
	for _, m := range q.Conditions {
		if _, ok := m[c]; ok {
			return true
		}
	}
	return false
}

// Area of the planar quad, half the cross product of its diagonals.
func (q *Quad) Area() float64 {
	v := q.Corners()
	d1 := r3.Sub(v[2].Position, v[0].Position)
	d2 := r3.Sub(v[3].Position, v[1].Position)
	return 0.5 * r3.Norm(r3.Cross(d1, d2))
}

// Mesh is an ordered list of elements, element index is position+1.
type Mesh struct {
	Quads []*Quad `json:"quads"`
}

func NewMesh() *Mesh {
	return &Mesh{}
}

func (m *Mesh) NumElements() int { return len(m.Quads) }

// Append adds an already numbered element, see NewQuad.
func (m *Mesh) Append(q *Quad) {
	m.Quads = append(m.Quads, q)
}

// AddQuad builds and appends a new element numbered after the existing ones.
func (m *Mesh) AddQuad(corners [4]r3.Vec, materialID string, group int) (q *Quad) {
	q, _ = NewQuad(CountersAt(len(m.Quads)+1), corners, materialID, group)
	m.Append(q)
	return
}

// Quad returns element number element (1-based).
func (m *Mesh) Quad(element int) (*Quad, error) {
	if element < 1 || element > len(m.Quads) {
		return nil, fmt.Errorf("element %d out of range 1..%d", element, len(m.Quads))
	}
	return m.Quads[element-1], nil
}

// EdgeByID resolves a global edge ID to its element and local edge index.
func (m *Mesh) EdgeByID(id int) (q *Quad, local int, err error) {
	if id < 1 {
		err = fmt.Errorf("edge ID %d was never created", id)
		return
	}
	var element int
	element, local = EdgeLocation(id)
	if q, err = m.Quad(element); err != nil {
		err = fmt.Errorf("edge ID %d was never created: %w", id, err)
		return
	}
	if q.Edges[local-1].ID != id {
		err = fmt.Errorf("edge ID %d does not match edge %d of element %d (ID %d), mesh needs renumbering",
			id, local, element, q.Edges[local-1].ID)
	}
	return
}

// Numbered reports whether all IDs follow element order.
func (m *Mesh) Numbered() bool {
	for n, q := range m.Quads {
		if q.ID != n+1 {
			return false
		}
		for i, e := range q.Edges {
			if e.ID != EdgeID(n+1, i+1) || e.Vertices[0].ID != EdgeID(n+1, i+1) {
				return false
			}
		}
	}
	return true
}

// Renumber reassigns every ID from element order, needed after elements were
// inserted, removed or reordered.
func (m *Mesh) Renumber() {
	for n, q := range m.Quads {
		q.ID = n + 1
		for i, e := range q.Edges {
			e.ID = EdgeID(n+1, i+1)
			e.Vertices[0].ID = e.ID
		}
	}
}

// Categories lists every category that has at least one condition, in file order.
func (m *Mesh) Categories() (cats []types.Category) {
	seen := make(map[types.Category]bool)
	for _, q := range m.Quads {
		for _, conds := range q.Conditions {
			for c := range conds {
				if !seen[c] {
					seen[c] = true
					cats = append(cats, c)
				}
			}
		}
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Less(cats[j]) })
	return
}

func (m *Mesh) ConditionCount(c types.Category) (n int) {
	for _, q := range m.Quads {
		for _, conds := range q.Conditions {
			if _, ok := conds[c]; ok {
				n++
			}
		}
	}
	return
}

// LastElementWith returns the 1-based index of the last element carrying a
// condition in category c, zero if none does.
func (m *Mesh) LastElementWith(c types.Category) int {
	for n := len(m.Quads) - 1; n >= 0; n-- {
		if m.Quads[n].HasCategory(c) {
			return n + 1
		}
	}
	return 0
}

func (m *Mesh) MaxPassiveScalar() (k int) {
	for _, c := range m.Categories() {
		if c.Kind == types.CategoryPassiveScalar && c.Scalar > k {
			k = c.Scalar
		}
	}
	return
}

// BoundingBox of all vertices, the zero Box for an empty mesh.
func (m *Mesh) BoundingBox() (box r3.Box) {
	if len(m.Quads) == 0 {
		return
	}
	var (
		nv         = EdgesPerElement * len(m.Quads)
		xs, ys, zs = make([]float64, 0, nv), make([]float64, 0, nv), make([]float64, 0, nv)
	)
	for _, q := range m.Quads {
		for _, v := range q.Corners() {
			xs = append(xs, v.Position.X)
			ys = append(ys, v.Position.Y)
			zs = append(zs, v.Position.Z)
		}
	}
	box.Min = r3.Vec{X: floats.Min(xs), Y: floats.Min(ys), Z: floats.Min(zs)}
	box.Max = r3.Vec{X: floats.Max(xs), Y: floats.Max(ys), Z: floats.Max(zs)}
	return
}

func (m *Mesh) Area() float64 {
	areas := make([]float64, len(m.Quads))
	for n, q := range m.Quads {
		areas[n] = q.Area()
	}
	return floats.Sum(areas)
}
