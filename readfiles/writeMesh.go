package readfiles

import (
	"fmt"
	"strings"

	"github.com/notargets/nekrea/mesh"
	"github.com/notargets/nekrea/types"
)

// formatValue matches Fortran's G14.7 closely enough for Nek5000 to read back,
// the # flag keeps trailing zeros.
func formatValue(v float64) string {
	return fmt.Sprintf("%#14.7G", v)
}

func (wr *writer) writeMesh() {
	var (
		msh = wr.doc.Mesh()
		pp  = wr.doc.Properties
	)
	wr.println(" **MESH DATA** 6 lines are X,Y,Z;X,Y,Z. Columns corners 1-4;5-8")
	wr.printf("%12d%11d%12d           NEL,NDIM,NELV",
		pp.NumThermalElements, pp.NumDimensions, pp.NumFluidElements)
	for n, q := range msh.Quads {
		wr.printf("            ELEMENT%12d [%5s]    GROUP%6d", n+1, q.MaterialID, q.Group)
		verts := q.Corners()
		for d := 0; d < pp.NumDimensions; d++ {
			var sb strings.Builder
			for _, v := range verts {
				switch d {
				case 0:
					sb.WriteString(formatValue(v.Position.X))
				case 1:
					sb.WriteString(formatValue(v.Position.Y))
				case 2:
					sb.WriteString(formatValue(v.Position.Z))
				}
			}
			wr.println(sb.String())
		}
	}
}

/*
Every category the switches call for gets a block, "NO ... BOUNDARY CONDITIONS"
when none of its elements carries a condition. Edges without a condition are left
out, the reader stops a short block at the next header.
*/
func (wr *writer) writeBoundaryConditions() {
	var (
		msh  = wr.doc.Mesh()
		pp   = wr.doc.Properties
		cats = wr.doc.Categories()
	)
	wr.warnDropped(cats)
	if len(cats) == 0 {
		return
	}
	wr.println("  ***** BOUNDARY CONDITIONS *****")
	for _, c := range cats {
		var (
			nel   = pp.ElementsFor(c)
			lines []string
		)
		for _, q := range msh.Quads[:nel] {
			for local := 1; local <= mesh.EdgesPerElement; local++ {
				bc := q.Condition(local, c)
				if bc.Type.IsNone() {
					continue
				}
				lines = append(lines, formatCondition(bc, q.Edges[local-1].ID))
			}
		}
		if len(lines) == 0 {
			wr.println(categoryHeader(c, true))
			continue
		}
		wr.println(categoryHeader(c, false))
		for _, line := range lines {
			wr.println(line)
		}
		wr.cfg.logger.Debug("reafile.write.bc", "category", c.String(), "records", len(lines))
	}
}

// warnDropped logs conditions in categories the switches leave out of the file.
func (wr *writer) warnDropped(cats []types.Category) {
	written := make(map[types.Category]bool, len(cats))
	for _, c := range cats {
		written[c] = true
	}
	for _, c := range wr.doc.Mesh().Categories() {
		if !written[c] {
			wr.cfg.logger.Warn("reafile.write.bc.dropped",
				"category", c.String(), "conditions", wr.doc.Mesh().ConditionCount(c))
		}
	}
}

func categoryHeader(c types.Category, empty bool) string {
	no := ""
	if empty {
		no = "NO "
	}
	switch c.Kind {
	case types.CategoryFluid:
		return fmt.Sprintf("  ***** %sFLUID   BOUNDARY CONDITIONS *****", no)
	case types.CategoryThermal:
		return fmt.Sprintf("  ***** %sTHERMAL BOUNDARY CONDITIONS *****", no)
	default:
		return fmt.Sprintf("  ***** %sPASSIVE SCALAR %3d  BOUNDARY CONDITIONS *****", no, c.Scalar)
	}
}

func formatCondition(bc types.BoundaryCondition, edgeID int) string {
	element, local := mesh.EdgeLocation(edgeID)
	var sb strings.Builder
	fmt.Fprintf(&sb, " %-3s %3d %3d", string(bc.Type), element, local)
	for _, v := range bc.Values {
		sb.WriteString(formatValue(v))
	}
	return sb.String()
}
