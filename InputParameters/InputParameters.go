package InputParameters

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/nekrea/mesh"
	"github.com/notargets/nekrea/readfiles"
	"github.com/notargets/nekrea/types"
)

// EditParameters are the changes read from a YAML edit file, applied to a reafile
// by "nekrea edit". An example:
//
//	Title: "channel, insulated walls"
//	Parameters:
//	  P002: -200
//	  NPSCAL: 1
//	Switches:
//	  IFHEAT: true
//	BCs:
//	  thermal:
//	    1:
//	      4: "I"
//	  scalar1:
//	    2:
//	      2: "t 1.0"
type EditParameters struct {
	Title          string                            `json:"Title"`
	Parameters     map[string]float64                `json:"Parameters"` // Key is a parameter name (P023) or keyword (NPSCAL)
	Switches       map[string]bool                   `json:"Switches"`
	PassiveScalars *int                              `json:"PassiveScalars"`
	BCs            map[string]map[int]map[int]string `json:"BCs"` // Category, then element, then local edge 1-4
}

func (ep *EditParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ep)
}

func (ep *EditParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ep.Title)
	for _, key := range sortedKeys(ep.Parameters) {
		fmt.Fprintf(w, "%12.5G\t\t= %s\n", ep.Parameters[key], key)
	}
	for _, key := range sortedKeys(ep.Switches) {
		fmt.Fprintf(w, "[%s]\t\t\t= %s\n", types.NewSwitch(ep.Switches[key]), key)
	}
	if ep.PassiveScalars != nil {
		fmt.Fprintf(w, "[%d]\t\t\t= Passive Scalars\n", *ep.PassiveScalars)
	}
	for _, key := range sortedKeys(ep.BCs) {
		fmt.Fprintf(w, "BCs[%s] = %v\n", key, ep.BCs[key])
	}
}

func sortedKeys[V any](m map[string]V) (keys []string) {
	keys = make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

// Apply makes the edits to doc in a fixed order: parameters, switches, the passive
// scalar count, then boundary conditions. Problem properties are re-derived last.
func (ep *EditParameters) Apply(doc *readfiles.Document) (err error) {
	for _, key := range sortedKeys(ep.Parameters) {
		if err = doc.SetParameter(key, ep.Parameters[key]); err != nil {
			return
		}
	}
	for _, key := range sortedKeys(ep.Switches) {
		if err = doc.SetSwitch(key, types.NewSwitch(ep.Switches[key])); err != nil {
			return
		}
	}
	if ep.PassiveScalars != nil {
		if err = doc.SetPassiveScalars(*ep.PassiveScalars); err != nil {
			return
		}
	}
	msh := doc.Mesh()
	for _, key := range sortedKeys(ep.BCs) {
		var c types.Category
		if c, err = types.ParseCategory(key); err != nil {
			return
		}
		for element, edges := range ep.BCs[key] {
			for local, spec := range edges {
				if err = applyCondition(msh, c, element, local, spec); err != nil {
					return fmt.Errorf("BCs[%s][%d][%d]: %w", key, element, local, err)
				}
			}
		}
	}
	readfiles.SyncProblemProperties(doc)
	return nil
}

func applyCondition(msh *mesh.Mesh, c types.Category, element, local int, spec string) (err error) {
	if err = mesh.CheckEdgeIndex(element, local, msh.NumElements()); err != nil {
		return
	}
	var bc types.BoundaryCondition
	if bc, err = ParseCondition(spec); err != nil {
		return
	}
	q, _ := msh.Quad(element)
	q.SetCondition(local, c, bc)
	return
}

// ParseCondition reads "TYPE v1 v2 v3 v4 v5", missing values are zero and "None"
// removes the condition.
func ParseCondition(spec string) (bc types.BoundaryCondition, err error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return types.NoCondition(), nil
	}
	if len(fields) > 1+len(bc.Values) {
		err = fmt.Errorf("condition [%s] has more than %d values", spec, len(bc.Values))
		return
	}
	if bc.Type, err = types.ParseBCType(fields[0]); err != nil {
		return
	}
	for i, f := range fields[1:] {
		if bc.Values[i], err = readfiles.ParseFloat(f); err != nil {
			err = fmt.Errorf("condition [%s] value %d is not a number", spec, i+1)
			return
		}
	}
	return
}
