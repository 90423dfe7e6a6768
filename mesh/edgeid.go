package mesh

import "fmt"

// EdgesPerElement is fixed, every element is a quadrilateral.
const EdgesPerElement = 4

// EdgeID numbers edges globally in element order, four per element, from 1:
// EdgeID(e, i) = 4*(e-1) + i, both e and i 1-based.
// The boundary condition sections of a reafile refer to edges only through this
// mapping, the reader and writer must both go through EdgeID/EdgeLocation.
func EdgeID(element, local int) int {
	return EdgesPerElement*(element-1) + local
}

// EdgeLocation inverts EdgeID.
func EdgeLocation(id int) (element, local int) {
	element = (id-1)/EdgesPerElement + 1
	local = (id-1)%EdgesPerElement + 1
	return
}

// CheckEdgeIndex validates a (element, local) pair against a mesh of nel elements.
// A local index outside 1..4 would alias an edge of a neighboring element.
func CheckEdgeIndex(element, local, nel int) error {
	switch {
	case local < 1 || local > EdgesPerElement:
		return fmt.Errorf("local edge index %d out of range 1..%d", local, EdgesPerElement)
	case element < 1 || element > nel:
		return fmt.Errorf("element index %d out of range 1..%d", element, nel)
	}
	return nil
}
