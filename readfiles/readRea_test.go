package readfiles

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/nekrea/mesh"
	"github.com/notargets/nekrea/types"
)

// Two unit squares side by side, fluid, thermal and one passive scalar
var twoElementRea = ` ****** PARAMETERS *****
   2.610000     NEKTON VERSION
   2 DIMENSIONAL RUN
           5  PARAMETERS FOLLOW
   1.00000     P001: DENSITY
  -100.000     P002: VISCOS
   0.00000     P003:
   1.00000     P023: NPSCAL
   0.50000     P024: TOLREL
   4  Lines of passive scalar data follows2 CONDUCT; 2RHOCP
   1.00000       1.00000       1.00000       1.00000
   1.00000       1.00000       1.00000       1.00000
   1.00000       1.00000       1.00000       1.00000
   1.00000       1.00000       1.00000       1.00000
           4  LOGICAL SWITCHES FOLLOW
 T      IFFLOW
 T      IFHEAT
 F      IFTRAN
 T T F F F F     IFNAV & IFADVC (convection in P.S. fields)
   2.000000       2.000000      -1.000000      -1.000000     XFAC,YFAC,XZERO,YZERO
 **MESH DATA** 6 lines are X,Y,Z;X,Y,Z. Columns corners 1-4;5-8
           2          2           2           NEL,NDIM,NELV
            ELEMENT            1 [    1a]    GROUP     0
  0.000000      1.000000      1.000000      0.000000
  0.000000      0.000000      1.000000      1.000000
            ELEMENT            2 [    1b]    GROUP     0
  1.000000      2.000000      2.000000      1.000000
  0.000000      0.000000      1.000000      1.000000
  ***** CURVED SIDE DATA *****
           0 Curved sides follow IEDGE,IEL,CURVE(I),I=1,5, CCURVE
  ***** BOUNDARY CONDITIONS *****
  ***** FLUID   BOUNDARY CONDITIONS *****
 W    1   1   0.000000      0.000000      0.000000      0.000000      0.000000
 E    1   2   2.000000      4.000000      0.000000      0.000000      0.000000
 W    1   3   0.000000      0.000000      0.000000      0.000000      0.000000
 v    1   4   0.000000      0.000000      0.000000      0.000000      0.000000
 W    2   1   0.000000      0.000000      0.000000      0.000000      0.000000
 O    2   2   0.000000      0.000000      0.000000      0.000000      0.000000
 W    2   3   0.000000      0.000000      0.000000      0.000000      0.000000
 E    2   4   1.000000      2.000000      0.000000      0.000000      0.000000
  ***** THERMAL BOUNDARY CONDITIONS *****
 t    1   4   1.500000      0.000000      0.000000      0.000000      0.000000
 I    2   2   0.000000      0.000000      0.000000      0.000000      0.000000
  ***** PASSIVE SCALAR   1  BOUNDARY CONDITIONS *****
 t    1   4   0.500000      0.000000      0.000000      0.000000      0.000000
           0 PRESOLVE/RESTART OPTIONS  *****
           2 INITIAL CONDITIONS *****
C Default
C Default
  ***** DRIVE FORCE DATA ***** BODY FORCE, FLOW, Q
           2                 Lines of Drive force data follow
C
C
  ***** Variable Property Data ***** Overrrides Parameter data.
           1 Lines follow.
           0 PACKETS OF DATA FOLLOW
  ***** HISTORY AND INTEGRAL DATA *****
           0   POINTS.  Hcode, I,J,H,IEL
  ***** OUTPUT FIELD SPECIFICATION *****
           6 SPECIFICATIONS FOLLOW
   F      COORDINATES
   T      VELOCITY
   T      PRESSURE
   T      TEMPERATURE
   F      TEMPERATURE GRADIENT
   0      PASSIVE SCALARS
  ***** OBJECT SPECIFICATION *****
       0 Surface Objects
       0 Volume  Objects
       0 Edge    Objects
       1 Point   Objects
 1  0.5  0.5
`

func fixtureLines(t *testing.T, replacements ...string) []string {
	t.Helper()
	text := strings.NewReplacer(replacements...).Replace(twoElementRea)
	lines, err := ReadLines(strings.NewReader(text))
	require.NoError(t, err)
	return lines
}

func readFixture(t *testing.T, replacements ...string) *Document {
	t.Helper()
	doc, err := ReadRea(fixtureLines(t, replacements...))
	require.NoError(t, err)
	return doc
}

func TestReadReaTwoElements(t *testing.T) {
	doc := readFixture(t)
	assert.Equal(t, types.ProblemProperties{
		NumDimensions:      2,
		NumThermalElements: 2,
		NumFluidElements:   2,
		NumPassiveScalars:  1,
	}, doc.Properties)
	assert.True(t, doc.IfFlow)
	assert.True(t, doc.IfHeat)

	msh := doc.Mesh()
	require.Equal(t, 2, msh.NumElements())
	for n, q := range msh.Quads {
		assert.Equal(t, n+1, q.ID)
		for i, e := range q.Edges {
			assert.Equal(t, mesh.EdgeID(n+1, i+1), e.ID)
		}
	}
	// Edge 5 is the first edge of the second element
	q, local, err := msh.EdgeByID(5)
	require.NoError(t, err)
	assert.Equal(t, msh.Quads[1], q)
	assert.Equal(t, 1, local)

	q1 := msh.Quads[0]
	assert.Equal(t, "1a", q1.MaterialID)
	assert.Equal(t, 0, q1.Group)
	assert.Equal(t, 1.0, q1.Corners()[2].Position.X)
	assert.Equal(t, 1.0, q1.Corners()[2].Position.Y)
	assert.Equal(t, 1.0, q1.Area())

	assert.Equal(t, types.NewBoundaryCondition(types.BCInterior, 2, 4), q1.Condition(2, types.FluidCategory))
	assert.Equal(t, types.BCUserTemp, q1.Condition(4, types.ThermalCategory).Type)
	assert.Equal(t, 1.5, q1.Condition(4, types.ThermalCategory).Values[0])
	assert.Equal(t, 0.5, q1.Condition(4, types.PassiveScalarCategory(1)).Values[0])
	assert.True(t, q1.Condition(1, types.ThermalCategory).Type.IsNone())
	assert.Equal(t, 8, msh.ConditionCount(types.FluidCategory))
	assert.Equal(t, 2, msh.ConditionCount(types.ThermalCategory))
	assert.Equal(t, 1, msh.ConditionCount(types.PassiveScalarCategory(1)))

	// 4 vertices, 4 edges and the quad itself per element
	assert.Len(t, doc.Controllers, 18)
	assert.Equal(t, mesh.VertexEntity, doc.Controllers[0].Entity().EntityKind())
	assert.Equal(t, mesh.QuadEntity, doc.Controllers[8].Entity().EntityKind())
}

func TestReadReaSections(t *testing.T) {
	doc := readFixture(t)

	params := doc.Section(types.SectionParameters)
	require.Len(t, params.Entries, 5)
	assert.Equal(t, types.Entry{Name: "P002", Value: "-100.000", Description: "VISCOS"}, params.Entries[1])
	assert.Equal(t, types.Entry{Name: "P003", Value: "0.00000"}, params.Entries[2])
	assert.Equal(t, "2.610000", params.Preamble[0].Value)
	npscal, ok := doc.Parameter("NPSCAL")
	require.True(t, ok)
	assert.Equal(t, "P023", npscal.Name)

	assert.Len(t, doc.Section(types.SectionPassiveScalarData).Entries, 4)

	switches := doc.Section(types.SectionLogicalSwitches)
	require.Len(t, switches.Entries, 4)
	nav := switches.Entries[3]
	assert.Equal(t, "T T F F F F", nav.Value)
	assert.Equal(t, "IFNAV & IFADVC", nav.Name)
	assert.Equal(t, "(convection in P.S. fields)", nav.Description)
	sw, err := nav.Switches()
	require.NoError(t, err)
	assert.Equal(t, []types.Switch{types.Yes, types.Yes, types.No, types.No, types.No, types.No}, sw)

	axes := doc.Section(types.SectionPreNekAxes).Entries
	require.Len(t, axes, 1)
	assert.Equal(t, "XFAC,YFAC,XZERO,YZERO", axes[0].Name)

	assert.Empty(t, doc.Section(types.SectionCurvedSides).Entries)
	assert.Empty(t, doc.Section(types.SectionPresolveRestart).Entries)
	assert.Equal(t, []types.Entry{{Value: "C Default"}, {Value: "C Default"}},
		doc.Section(types.SectionInitialConditions).Entries)
	assert.Len(t, doc.Section(types.SectionDriveForce).Entries, 2)
	assert.Len(t, doc.Section(types.SectionVariableProperty).Entries, 1)
	assert.Empty(t, doc.Section(types.SectionHistoryIntegral).Entries)

	fields := doc.Section(types.SectionOutputFields).Entries
	require.Len(t, fields, 6)
	assert.Equal(t, types.Entry{Name: "TEMPERATURE GRADIENT", Value: "F"}, fields[4])
	assert.Equal(t, types.Entry{Name: "PASSIVE SCALARS", Value: "0"}, fields[5])

	objects := doc.Section(types.SectionObjects).Entries
	require.Len(t, objects, 5)
	assert.Equal(t, types.Entry{Name: "Point Objects", Value: "1"}, objects[3])
	assert.Equal(t, types.Entry{Value: "1  0.5  0.5"}, objects[4])
}

func TestReadReaFlowOff(t *testing.T) {
	check := func(t *testing.T, doc *Document) {
		assert.False(t, doc.IfFlow)
		assert.True(t, doc.IfHeat)
		msh := doc.Mesh()
		assert.Zero(t, msh.ConditionCount(types.FluidCategory))
		assert.Equal(t, 2, msh.ConditionCount(types.ThermalCategory))
		assert.Equal(t, 1, msh.ConditionCount(types.PassiveScalarCategory(1)))
	}
	t.Run("fluid block present", func(t *testing.T) {
		check(t, readFixture(t, " T      IFFLOW", " F      IFFLOW"))
	})
	t.Run("fluid block absent", func(t *testing.T) {
		text := strings.Replace(twoElementRea, " T      IFFLOW", " F      IFFLOW", 1)
		start := strings.Index(text, "  ***** FLUID")
		end := strings.Index(text, "  ***** THERMAL")
		text = text[:start] + text[end:]
		lines, err := ReadLines(strings.NewReader(text))
		require.NoError(t, err)
		doc, err := ReadRea(lines)
		require.NoError(t, err)
		check(t, doc)
	})
}

func TestReadReaEmptyCategory(t *testing.T) {
	text := twoElementRea
	start := strings.Index(text, "  ***** THERMAL")
	end := strings.Index(text, "  ***** PASSIVE SCALAR")
	text = text[:start] + "  ***** NO THERMAL BOUNDARY CONDITIONS *****\n" + text[end:]
	lines, err := ReadLines(strings.NewReader(text))
	require.NoError(t, err)
	doc, err := ReadRea(lines)
	require.NoError(t, err)
	assert.Zero(t, doc.Mesh().ConditionCount(types.ThermalCategory))
	assert.Equal(t, 1, doc.Mesh().ConditionCount(types.PassiveScalarCategory(1)))
}

func TestReadReaErrors(t *testing.T) {
	testCases := []struct {
		name    string
		old     string
		new     string
		kind    ErrorKind
		section types.SectionKind
		errMsg  string
	}{
		{
			name:    "Non-numeric element count",
			old:     "           2          2           2           NEL,NDIM,NELV",
			new:     "         two          2           2           NEL,NDIM,NELV",
			kind:    KindStructural,
			section: types.SectionMesh,
			errMsg:  "not an integer",
		},
		{
			name:    "Binary mesh",
			old:     "           2          2           2           NEL,NDIM,NELV",
			new:     "          -2          2          -2           NEL,NDIM,NELV",
			kind:    KindStructural,
			section: types.SectionMesh,
			errMsg:  ".re2",
		},
		{
			name:    "More fluid than thermal elements",
			old:     "           2          2           2           NEL,NDIM,NELV",
			new:     "           2          2           3           NEL,NDIM,NELV",
			kind:    KindStructural,
			section: types.SectionMesh,
			errMsg:  "exceeds",
		},
		{
			name:    "Missing switches",
			old:     "LOGICAL SWITCHES FOLLOW",
			new:     "SWITCHES",
			kind:    KindStructural,
			section: types.SectionLogicalSwitches,
		},
		{
			name:    "Bad switch token",
			old:     " T      IFHEAT",
			new:     " X      IFHEAT",
			kind:    KindLexical,
			section: types.SectionLogicalSwitches,
		},
		{
			name:    "Unknown element in boundary condition",
			old:     " O    2   2",
			new:     " O    3   2",
			kind:    KindCorrelation,
			section: types.SectionMesh,
			errMsg:  "element index 3",
		},
		{
			name:    "Local edge out of range",
			old:     " O    2   2",
			new:     " O    2   5",
			kind:    KindCorrelation,
			section: types.SectionMesh,
			errMsg:  "local edge index 5",
		},
		{
			name:    "Bad boundary condition value",
			old:     " I    2   2   0.000000",
			new:     " I    2   2   zero.000",
			kind:    KindLexical,
			section: types.SectionMesh,
		},
		{
			name:    "Passive scalars without heat",
			old:     " T      IFHEAT",
			new:     " F      IFHEAT",
			kind:    KindStructural,
			section: types.SectionMesh,
			errMsg:  "NPSCAL",
		},
		{
			name:    "Element out of order",
			old:     "ELEMENT            2",
			new:     "ELEMENT            7",
			kind:    KindStructural,
			section: types.SectionMesh,
			errMsg:  "element 2 was expected",
		},
		{
			name:    "Passive scalar block for another scalar",
			old:     "PASSIVE SCALAR   1  BOUNDARY",
			new:     "PASSIVE SCALAR   2  BOUNDARY",
			kind:    KindStructural,
			section: types.SectionMesh,
			errMsg:  "expected the scalar1 boundary condition header",
		},
		{
			name:    "Passive scalar header without index",
			old:     "PASSIVE SCALAR   1  BOUNDARY",
			new:     "PASSIVE SCALAR  BOUNDARY",
			kind:    KindStructural,
			section: types.SectionMesh,
			errMsg:  "expected the scalar1 boundary condition header",
		},
		{
			name:    "Fractional NPSCAL",
			old:     "   1.00000     P023: NPSCAL",
			new:     "   1.50000     P023: NPSCAL",
			kind:    KindLexical,
			section: types.SectionParameters,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Contains(t, twoElementRea, tc.old)
			doc, err := ReadRea(fixtureLines(t, tc.old, tc.new))
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, IsKind(err, tc.kind), "got %v", err)
			var re *ReaError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, "read", re.Op)
			assert.Equal(t, tc.section.String(), re.Section)
			assert.Positive(t, re.Line)
			if tc.errMsg != "" {
				assert.Contains(t, err.Error(), tc.errMsg)
			}
		})
	}
}

func TestReadReaPassiveScalarOrder(t *testing.T) {
	var (
		twoScalars = []string{"   1.00000     P023: NPSCAL", "   2.00000     P023: NPSCAL"}
		ps1        = "  ***** PASSIVE SCALAR   1  BOUNDARY CONDITIONS *****"
		ps2        = "  ***** PASSIVE SCALAR   2  BOUNDARY CONDITIONS *****"
		noPS1      = "  ***** NO PASSIVE SCALAR   1  BOUNDARY CONDITIONS *****"
		noPS2      = "  ***** NO PASSIVE SCALAR   2  BOUNDARY CONDITIONS *****"
		presolve   = "           0 PRESOLVE/RESTART"
	)
	{ // Blocks in order, scalar 2 empty
		doc := readFixture(t, append(twoScalars, presolve, noPS2+"\n"+presolve)...)
		require.Equal(t, 2, doc.Properties.NumPassiveScalars)
		q1 := doc.Mesh().Quads[0]
		assert.Equal(t, types.BCUserTemp, q1.Condition(4, types.PassiveScalarCategory(1)).Type)
		assert.True(t, q1.Condition(4, types.PassiveScalarCategory(2)).Type.IsNone())
	}
	{ // Scalar 2 written first is not credited to scalar 1
		_, err := ReadRea(fixtureLines(t, append(twoScalars, ps1, ps2, presolve, noPS1+"\n"+presolve)...))
		require.Error(t, err)
		assert.True(t, IsKind(err, KindStructural), "got %v", err)
		assert.Contains(t, err.Error(), "expected the scalar1 boundary condition header")
		assert.Contains(t, err.Error(), "PASSIVE SCALAR   2")
	}
}

func TestReadReaEmpty(t *testing.T) {
	doc, err := ReadRea(nil)
	assert.Nil(t, doc)
	assert.True(t, errors.Is(err, ErrStructural))
	assert.False(t, errors.Is(err, ErrLexical))
}

func TestReadReaHeaderVariant(t *testing.T) {
	lines := fixtureLines(t, "LOGICAL SWITCHES FOLLOW", "LOGICAL SWITCHES follow")
	_, err := ReadRea(lines)
	require.Error(t, err)

	ht := DefaultHeaders()
	ht.AddVariant(types.SectionLogicalSwitches, "LOGICAL SWITCHES follow")
	doc, err := ReadRea(lines, WithHeaders(ht))
	require.NoError(t, err)
	assert.Len(t, doc.Section(types.SectionLogicalSwitches).Entries, 4)
}

type countingFactory struct {
	created map[mesh.EntityKind]int
}

func (cf *countingFactory) CreateProvider(mesh.Entity) mesh.ControllerProvider { return cf }

func (cf *countingFactory) CreateController(entity mesh.Entity) mesh.Controller {
	cf.created[entity.EntityKind()]++
	return mesh.Decorate(mesh.IdentityFactory{}, entity)
}

func TestReadReaControllerFactory(t *testing.T) {
	cf := &countingFactory{created: make(map[mesh.EntityKind]int)}
	doc, err := ReadRea(fixtureLines(t), WithControllerFactory(cf))
	require.NoError(t, err)
	assert.Equal(t, map[mesh.EntityKind]int{
		mesh.VertexEntity: 8,
		mesh.EdgeEntity:   8,
		mesh.QuadEntity:   2,
	}, cf.created)
	assert.Len(t, doc.Controllers, 18)
}

func TestParseElementHeader(t *testing.T) {
	ht := DefaultHeaders()
	testCases := []struct {
		line  string
		num   int
		matID string
		group int
	}{
		{"            ELEMENT            1 [    1a]    GROUP     0", 1, "1a", 0},
		{"            ELEMENT           12 [    1     GROUP     3", 12, "1", 3},
		{"            ELEMENT            3 [ 1 ]  GROUP:     2", 3, "1", 2},
		{"            ELEMENT            4    GROUP     0", 4, "", 0},
	}
	for _, tc := range testCases {
		num, matID, group, err := parseElementHeader(tc.line, ht)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.num, num)
		assert.Equal(t, tc.matID, matID)
		assert.Equal(t, tc.group, group)
	}
	_, _, _, err := parseElementHeader("            ELEMENT            1 [    1a]", ht)
	assert.Error(t, err)
	_, _, _, err = parseElementHeader("  0.000000      1.000000", ht)
	assert.Error(t, err)
}

func TestParseBCRecord(t *testing.T) {
	{ // Whitespace separated
		bc, element, local, err := parseBCRecord(" SYM  12   3   1.000000      2.000000      3.000000      4.000000      5.000000")
		require.NoError(t, err)
		assert.Equal(t, types.NewBoundaryCondition(types.BCSymmetry, 1, 2, 3, 4, 5), bc)
		assert.Equal(t, 12, element)
		assert.Equal(t, 3, local)
	}
	{ // Fortran layout with values run together
		line := " W  101  2" + "-1.0000000E-02" + "  2.500000E+00" + "      0.000000" + "      0.000000" + "      0.000000"
		bc, element, local, err := parseBCRecord(line)
		require.NoError(t, err)
		assert.Equal(t, types.BCWall, bc.Type)
		assert.Equal(t, 101, element)
		assert.Equal(t, 2, local)
		assert.Equal(t, -0.01, bc.Values[0])
		assert.Equal(t, 2.5, bc.Values[1])
	}
	{ // Written layout with a full width value
		want := types.NewBoundaryCondition(types.BCFlux, -1e100, 2.5)
		line := formatCondition(want, mesh.EdgeID(3, 4))
		require.Less(t, len(strings.Fields(line)), 8)
		bc, element, local, err := parseBCRecord(line)
		require.NoError(t, err)
		assert.Equal(t, want, bc)
		assert.Equal(t, 3, element)
		assert.Equal(t, 4, local)
	}
	{ // Blank code
		bc, _, _, err := parseBCRecord("      1   1   0.000000      0.000000      0.000000      0.000000      0.000000")
		require.NoError(t, err)
		assert.True(t, bc.Type.IsNone())
	}
	{ // Fortran exponents
		bc, _, _, err := parseBCRecord(" T    1   1   1.0D+02      0.000000      0.000000      0.000000      0.000000")
		require.NoError(t, err)
		assert.Equal(t, 100.0, bc.Values[0])
	}
	_, _, _, err := parseBCRecord(" WALL 1   1   0.000000      0.000000      0.000000      0.000000      0.000000")
	assert.Error(t, err)
	_, _, _, err = parseBCRecord(" W")
	assert.Error(t, err)
}

func TestParseLabeled(t *testing.T) {
	e, err := parseLabeled(" T      IFFLOW", false)
	require.NoError(t, err)
	assert.Equal(t, types.Entry{Name: "IFFLOW", Value: "T"}, e)

	_, err = parseLabeled("   0      PASSIVE SCALARS", false)
	assert.Error(t, err)
	e, err = parseLabeled("   0      PASSIVE SCALARS", true)
	require.NoError(t, err)
	assert.Equal(t, "0", e.Value)

	_, err = parseLabeled(" T F", false)
	assert.Error(t, err)
}

func TestParseFloats(t *testing.T) {
	vals, err := parseFloats("  0.000000      1.000000      1.000000      0.000000", 4, fieldWidth)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 1, 0}, vals)

	vals, err = parseFloats(" 1.000000E-02-2.000000E-02 3.000000E-02-4.000000E-02", 4, 13)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.01, -0.02, 0.03, -0.04}, vals)

	_, err = parseFloats("  0.000000      1.000000", 4, fieldWidth)
	assert.Error(t, err)
}
