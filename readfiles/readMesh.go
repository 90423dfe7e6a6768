package readfiles

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/nekrea/mesh"
	"github.com/notargets/nekrea/types"
)

// Column width of the fixed layout numeric fields, used when values run together.
const fieldWidth = 14

/*
	 **MESH DATA** 6 lines are X,Y,Z;X,Y,Z. Columns corners 1-4;5-8
	         256          2         256           NEL,NDIM,NELV
	            ELEMENT            1 [    1a]    GROUP     0
	  0.000000      0.1250000      0.1250000      0.000000
	  0.000000      0.000000      0.1250000      0.1250000
*/
func (rd *reader) readMesh(sec *Section) (err error) {
	const kind = types.SectionMesh
	line, ok := rd.cur.next()
	if !ok {
		return rd.failf(KindStructural, kind, "unexpected end of file, expected NEL,NDIM,NELV")
	}
	var pp types.ProblemProperties
	if pp, err = parseMeshCounts(line); err != nil {
		return rd.fail(KindStructural, kind, err)
	}
	pp.NumPassiveScalars = rd.doc.Properties.NumPassiveScalars
	if err = pp.Validate(); err != nil {
		return rd.fail(KindStructural, kind, err)
	}
	if rd.doc.Properties.NumDimensions != pp.NumDimensions {
		rd.cfg.logger.Warn("reafile.mesh.dimension",
			"parameters", rd.doc.Properties.NumDimensions, "mesh", pp.NumDimensions)
	}
	rd.doc.Properties = pp

	var (
		msh = mesh.NewMesh()
		ids mesh.Counters
		q   *mesh.Quad
	)
	msh.Quads = make([]*mesh.Quad, 0, pp.NumThermalElements)
	for element := 1; element <= pp.NumThermalElements; element++ {
		if q, ids, err = rd.readElement(element, pp.NumDimensions, ids); err != nil {
			return
		}
		msh.Append(q)
		rd.decorate(q)
	}
	sec.Mesh = msh
	return
}

func parseMeshCounts(line string) (pp types.ProblemProperties, err error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		err = fmt.Errorf("expected NEL,NDIM,NELV in [%s]", strings.TrimSpace(line))
		return
	}
	var counts [3]int
	for i := range counts {
		if counts[i], err = strconv.Atoi(fields[i]); err != nil {
			err = fmt.Errorf("element count field [%s] is not an integer", fields[i])
			return
		}
	}
	if counts[0] < 0 || counts[2] < 0 {
		err = errors.New("negative element count, mesh data is stored in a .re2 file which is not supported")
		return
	}
	pp.NumThermalElements, pp.NumDimensions, pp.NumFluidElements = counts[0], counts[1], counts[2]
	return
}

// readElement reads one element header and its coordinate rows. The ID counters
// are threaded through so that numbering depends only on element order.
func (rd *reader) readElement(element, ndim int, ids mesh.Counters) (q *mesh.Quad, next mesh.Counters, err error) {
	const kind = types.SectionMesh
	var (
		line    string
		ok      bool
		corners [4]r3.Vec
		num     int
		matID   string
		group   int
	)
	if line, ok = rd.cur.nextNonBlank(); !ok {
		err = rd.failf(KindStructural, kind, "unexpected end of file, read %d of %d elements",
			element-1, rd.doc.Properties.NumThermalElements)
		return
	}
	if num, matID, group, err = parseElementHeader(line, rd.cfg.headers); err != nil {
		err = rd.fail(KindStructural, kind, err)
		return
	}
	if num != element {
		err = rd.failf(KindStructural, kind, "found element %d where element %d was expected", num, element)
		return
	}
	for d := 0; d < ndim; d++ {
		if line, ok = rd.cur.next(); !ok {
			err = rd.failf(KindStructural, kind, "unexpected end of file in element %d", element)
			return
		}
		var vals []float64
		if vals, err = parseFloats(line, 4, fieldWidth); err != nil {
			err = rd.fail(KindLexical, kind, fmt.Errorf("element %d coordinate row %d: %w", element, d+1, err))
			return
		}
		for k, v := range vals {
			switch d {
			case 0:
				corners[k].X = v
			case 1:
				corners[k].Y = v
			case 2:
				corners[k].Z = v
			}
		}
	}
	q, next = mesh.NewQuad(ids, corners, matID, group)
	return
}

// parseElementHeader handles both bracket layouts seen in reafiles,
//
//	ELEMENT            1 [    1a]    GROUP     0
//	ELEMENT            1 [    1     GROUP     0
//
// the second one written by tools that overflow the material field.
func parseElementHeader(line string, ht *HeaderTable) (num int, matID string, group int, err error) {
	idx := strings.Index(line, ht.ElementLabel)
	if idx < 0 {
		err = fmt.Errorf("expected an %s header, found [%s]", ht.ElementLabel, strings.TrimSpace(line))
		return
	}
	rest := line[idx+len(ht.ElementLabel):]
	g := strings.Index(rest, ht.GroupLabel)
	if g < 0 {
		err = fmt.Errorf("element header [%s] has no %s", strings.TrimSpace(line), ht.GroupLabel)
		return
	}
	head, tail := rest[:g], rest[g+len(ht.GroupLabel):]
	numField := head
	if open := strings.Index(head, "["); open >= 0 {
		numField = head[:open]
		matID = head[open+1:]
		if cl := strings.Index(matID, "]"); cl >= 0 {
			matID = matID[:cl]
		}
		matID = strings.TrimSpace(matID)
	}
	if num, err = strconv.Atoi(strings.TrimSpace(numField)); err != nil {
		err = fmt.Errorf("element number [%s] is not an integer", strings.TrimSpace(numField))
		return
	}
	fields := strings.Fields(strings.TrimLeft(tail, ":"))
	if len(fields) == 0 {
		err = fmt.Errorf("element %d has no group number", num)
		return
	}
	if group, err = strconv.Atoi(fields[0]); err != nil {
		err = fmt.Errorf("group number [%s] is not an integer", fields[0])
	}
	return
}

func (rd *reader) decorate(q *mesh.Quad) {
	f := rd.cfg.factory
	for _, v := range q.Corners() {
		rd.doc.Controllers = append(rd.doc.Controllers, mesh.Decorate(f, v))
	}
	for _, e := range q.Edges {
		rd.doc.Controllers = append(rd.doc.Controllers, mesh.Decorate(f, e))
	}
	rd.doc.Controllers = append(rd.doc.Controllers, mesh.Decorate(f, q))
}

/*
	  ***** BOUNDARY CONDITIONS *****
	  ***** FLUID   BOUNDARY CONDITIONS *****
	 W    1   1   0.000000       0.000000       0.000000       0.000000       0.000000
	  ***** THERMAL BOUNDARY CONDITIONS *****
	 ...
	  ***** PASSIVE SCALAR   1  BOUNDARY CONDITIONS *****

Categories follow in the order fluid (if IFFLOW), thermal (if IFHEAT), then one block
per passive scalar. A block holds up to 4 records per element and ends early at the
next "*****" line, the writer leaves out edges without a condition.
*/
func (rd *reader) readBoundaryConditions() (err error) {
	const kind = types.SectionMesh
	var (
		ht   = rd.cfg.headers
		pp   = rd.doc.Properties
		msh  = rd.doc.Mesh()
		cats = rd.doc.Categories()
	)
	if !rd.doc.IfHeat && pp.NumPassiveScalars > 0 {
		return rd.failf(KindStructural, kind,
			"%s = %d but %s is F, passive scalars need the thermal field",
			paramPassiveScalars, pp.NumPassiveScalars, switchHeat)
	}
	if len(cats) == 0 {
		rd.cfg.logger.Debug("reafile.bc.none", "ifFlow", rd.doc.IfFlow, "ifHeat", rd.doc.IfHeat)
		return
	}
	if _, ok := rd.cur.seek(HeaderSpec{Literals: ht.BoundaryConditions}); !ok {
		return rd.failf(KindStructural, kind, "header %q not found", ht.BoundaryConditions[0])
	}
	for _, c := range cats {
		var empty bool
		if empty, err = rd.seekCategory(c); err != nil {
			return
		}
		if empty {
			rd.cfg.logger.Debug("reafile.bc.empty", "category", c.String())
			continue
		}
		var n int
		if n, err = rd.readCategory(msh, c, pp.ElementsFor(c)); err != nil {
			return
		}
		rd.cfg.logger.Debug("reafile.bc", "category", c.String(), "records", n)
	}
	return
}

// seekCategory consumes the header of category c. A fluid block in a file with
// IFFLOW = F is skipped over, it is never resolved. A passive scalar header must
// name c.Scalar.
func (rd *reader) seekCategory(c types.Category) (empty bool, err error) {
	const kind = types.SectionMesh
	ht := rd.cfg.headers
	for {
		line, ok := rd.cur.nextNonBlank()
		if !ok {
			return false, rd.failf(KindStructural, kind, "unexpected end of file, expected %s boundary conditions", c)
		}
		var match bool
		if match, empty = ht.categoryHeader(line, c.Kind); match {
			if c.Kind == types.CategoryPassiveScalar {
				if k, ok := ht.scalarIndex(line); !ok || k != c.Scalar {
					return false, rd.failf(KindStructural, kind, "expected the %s boundary condition header, found [%s]",
						c, strings.TrimSpace(line))
				}
			}
			return empty, nil
		}
		if c.Kind != types.CategoryFluid && !rd.doc.IfFlow {
			if match, _ = ht.categoryHeader(line, types.CategoryFluid); match {
				rd.skipBlock()
				rd.cfg.logger.Debug("reafile.bc.skipped", "category", types.FluidCategory.String())
				continue
			}
		}
		return false, rd.failf(KindStructural, kind, "expected the %s boundary condition header, found [%s]",
			c, strings.TrimSpace(line))
	}
}

func (rd *reader) skipBlock() {
	for {
		line, ok := rd.cur.peek()
		if !ok || strings.Contains(line, rd.cfg.headers.SectionBreak) {
			return
		}
		rd.cur.next()
	}
}

func (rd *reader) readCategory(msh *mesh.Mesh, c types.Category, nel int) (n int, err error) {
	const kind = types.SectionMesh
	for n < mesh.EdgesPerElement*nel {
		line, ok := rd.cur.peek()
		if !ok || strings.Contains(line, rd.cfg.headers.SectionBreak) {
			break
		}
		rd.cur.next()
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		var (
			bc             types.BoundaryCondition
			element, local int
			q              *mesh.Quad
			edge           int
		)
		if bc, element, local, err = parseBCRecord(line); err != nil {
			return n, rd.fail(KindLexical, kind, fmt.Errorf("%s boundary condition: %w", c, err))
		}
		if err = mesh.CheckEdgeIndex(element, local, nel); err != nil {
			return n, rd.fail(KindCorrelation, kind, fmt.Errorf("%s boundary condition: %w", c, err))
		}
		if q, edge, err = msh.EdgeByID(mesh.EdgeID(element, local)); err != nil {
			return n, rd.fail(KindCorrelation, kind, fmt.Errorf("%s boundary condition: %w", c, err))
		}
		q.SetCondition(edge, c, bc)
		n++
	}
	return
}

// parseBCRecord splits " W    1   1  <5 values>". A record whose code is blank
// leaves the edge without a condition.
func parseBCRecord(line string) (bc types.BoundaryCondition, element, local int, err error) {
	var (
		code   string
		fields = strings.Fields(line)
	)
	switch {
	case len(fields) >= 8:
		code, fields = fields[0], fields[1:8]
	case len(fields) == 7 && isInteger(fields[0]) && isInteger(fields[1]):
		code = ""
	default:
		// Values run together, read in columns. Nek5000 writes (1x,a3,2i3,5g14.6),
		// code [1:4] element [4:7] edge [7:10]. Our writer's " %-3s %3d %3d" puts a
		// blank before element [5:8] and edge [9:12]. Local edges are one digit, so
		// column 7 is blank only in the Fortran layout.
		if len(line) < 10 {
			err = fmt.Errorf("record [%s] is too short", strings.TrimSpace(line))
			return
		}
		prefix, elementCol, edge := 10, line[4:7], line[7:10]
		if len(line) >= 12 && line[7] != ' ' {
			prefix, elementCol, edge = 12, line[4:8], line[8:12]
		}
		var values []string
		if values, err = fixedColumns(line[prefix:], 5, fieldWidth); err != nil {
			return
		}
		code = line[1:4]
		fields = append([]string{strings.TrimSpace(elementCol), strings.TrimSpace(edge)}, values...)
	}
	if bc.Type, err = types.ParseBCType(code); err != nil {
		return
	}
	if element, err = strconv.Atoi(fields[0]); err != nil {
		err = fmt.Errorf("element index [%s] is not an integer", fields[0])
		return
	}
	if local, err = strconv.Atoi(fields[1]); err != nil {
		err = fmt.Errorf("edge index [%s] is not an integer", fields[1])
		return
	}
	for i, f := range fields[2:7] {
		if bc.Values[i], err = ParseFloat(f); err != nil {
			err = fmt.Errorf("value %d [%s] is not a number", i+1, f)
			return
		}
	}
	return
}

func isInteger(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
