package readfiles

import (
	"strconv"
	"strings"

	"github.com/notargets/nekrea/types"
)

// CountPlacement says where a section keeps its record count.
type CountPlacement uint8

const (
	CountOnHeader   CountPlacement = iota // "    7 INITIAL CONDITIONS *****"
	CountAfter                            // header, then "    4  Lines of ... follow"
	CountNone                             // fixed layout, see the section's reader
	CountInPreamble                       // Parameters: version and dimension lines come first
)

// HeaderSpec is how one section is recognized. A line is a header when it contains
// any of Literals. Literals are tried in order and are case and spacing sensitive.
type HeaderSpec struct {
	Literals []string
	Count    CountPlacement
	Required bool
}

func (hs HeaderSpec) Match(line string) bool {
	for _, lit := range hs.Literals {
		if strings.Contains(line, lit) {
			return true
		}
	}
	return false
}

// HeaderTable holds every literal the reader matches on. Historical file variants
// are supported by adding literals, the parsing code never changes.
type HeaderTable struct {
	Sections           map[types.SectionKind]HeaderSpec
	BoundaryConditions []string
	Categories         map[types.CategoryKind][]string
	// EmptyCategory marks "***** NO THERMAL BOUNDARY CONDITIONS *****" style lines.
	EmptyCategory []string
	// SectionBreak ends a boundary condition block that is shorter than its count.
	SectionBreak string
	ElementLabel string
	GroupLabel   string
}

func DefaultHeaders() *HeaderTable {
	return &HeaderTable{
		Sections: map[types.SectionKind]HeaderSpec{
			types.SectionParameters: {
				Literals: []string{"****** PARAMETERS", "***** PARAMETERS"},
				Count:    CountInPreamble,
				Required: true,
			},
			types.SectionPassiveScalarData: {
				Literals: []string{"Lines of passive scalar data follows", "LINES OF PASSIVE SCALAR DATA FOLLOWS"},
				Count:    CountOnHeader,
			},
			types.SectionLogicalSwitches: {
				Literals: []string{"LOGICAL SWITCHES FOLLOW"},
				Count:    CountOnHeader,
				Required: true,
			},
			types.SectionPreNekAxes: {
				Literals: []string{"XFAC,YFAC,XZERO,YZERO", "XFAC,YFAC"},
				Count:    CountNone,
			},
			types.SectionMesh: {
				Literals: []string{"**MESH DATA**"},
				Count:    CountAfter,
				Required: true,
			},
			types.SectionCurvedSides: {
				Literals: []string{"***** CURVED SIDE DATA *****", "CURVED SIDE DATA"},
				Count:    CountAfter,
			},
			types.SectionPresolveRestart: {
				Literals: []string{"PRESOLVE/RESTART OPTIONS"},
				Count:    CountOnHeader,
			},
			types.SectionInitialConditions: {
				Literals: []string{"INITIAL CONDITIONS"},
				Count:    CountOnHeader,
			},
			types.SectionDriveForce: {
				Literals: []string{"***** DRIVE FORCE DATA *****", "DRIVE FORCE DATA"},
				Count:    CountAfter,
			},
			types.SectionVariableProperty: {
				Literals: []string{"***** Variable Property Data *****", "Variable Property Data", "VARIABLE PROPERTY DATA"},
				Count:    CountAfter,
			},
			types.SectionHistoryIntegral: {
				Literals: []string{"***** HISTORY AND INTEGRAL DATA *****", "HISTORY AND INTEGRAL DATA"},
				Count:    CountAfter,
			},
			types.SectionOutputFields: {
				Literals: []string{"***** OUTPUT FIELD SPECIFICATION *****", "OUTPUT FIELD SPECIFICATION"},
				Count:    CountAfter,
			},
			types.SectionObjects: {
				Literals: []string{"***** OBJECT SPECIFICATION *****", "OBJECT SPECIFICATION"},
				Count:    CountNone,
			},
		},
		BoundaryConditions: []string{"***** BOUNDARY CONDITIONS *****"},
		Categories: map[types.CategoryKind][]string{
			types.CategoryFluid:         {"FLUID   BOUNDARY CONDITIONS", "FLUID BOUNDARY CONDITIONS"},
			types.CategoryThermal:       {"THERMAL BOUNDARY CONDITIONS"},
			types.CategoryPassiveScalar: {"PASSIVE SCALAR"},
		},
		EmptyCategory: []string{"***** NO "},
		SectionBreak:  "*****",
		ElementLabel:  "ELEMENT",
		GroupLabel:    "GROUP",
	}
}

// AddVariant registers another header literal for a section.
func (ht *HeaderTable) AddVariant(kind types.SectionKind, literal string) {
	spec := ht.Sections[kind]
	spec.Literals = append(spec.Literals, literal)
	ht.Sections[kind] = spec
}

// scalarIndex reads k from "PASSIVE SCALAR   k  BOUNDARY CONDITIONS".
func (ht *HeaderTable) scalarIndex(line string) (k int, ok bool) {
	for _, lit := range ht.Categories[types.CategoryPassiveScalar] {
		i := strings.Index(line, lit)
		if i < 0 {
			continue
		}
		if fields := strings.Fields(line[i+len(lit):]); len(fields) > 0 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// categoryHeader reports whether line introduces category kind, and whether it is
// the "NO ... BOUNDARY CONDITIONS" form.
func (ht *HeaderTable) categoryHeader(line string, kind types.CategoryKind) (match, empty bool) {
	if !containsAny(line, ht.Categories[kind]) {
		return
	}
	if kind == types.CategoryPassiveScalar && !strings.Contains(line, "BOUNDARY CONDITIONS") {
		return
	}
	return true, containsAny(line, ht.EmptyCategory)
}

func containsAny(line string, literals []string) bool {
	for _, lit := range literals {
		if strings.Contains(line, lit) {
			return true
		}
	}
	return false
}
