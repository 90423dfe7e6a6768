package types

import "fmt"

// ProblemProperties are the four scalars that size every other section of a reafile.
type ProblemProperties struct {
	NumDimensions      int `json:"numDimensions"`
	NumThermalElements int `json:"numThermalElements"` // NEL
	NumFluidElements   int `json:"numFluidElements"`   // NELV
	NumPassiveScalars  int `json:"numPassiveScalars"`  // NPSCAL
}

func (pp ProblemProperties) Validate() error {
	switch {
	case pp.NumDimensions < 2 || pp.NumDimensions > 3:
		return fmt.Errorf("unsupported dimension %d, need 2 or 3", pp.NumDimensions)
	case pp.NumThermalElements < 0 || pp.NumFluidElements < 0:
		return fmt.Errorf("negative element count, NEL = %d, NELV = %d",
			pp.NumThermalElements, pp.NumFluidElements)
	case pp.NumFluidElements > pp.NumThermalElements:
		return fmt.Errorf("fluid element count %d exceeds thermal element count %d",
			pp.NumFluidElements, pp.NumThermalElements)
	case pp.NumPassiveScalars < 0:
		return fmt.Errorf("negative passive scalar count %d", pp.NumPassiveScalars)
	}
	return nil
}

// ElementsFor is the number of elements carrying boundary conditions in a category.
// Only the leading NELV elements are fluid elements.
func (pp ProblemProperties) ElementsFor(c Category) int {
	if c.Kind == CategoryFluid {
		return pp.NumFluidElements
	}
	return pp.NumThermalElements
}

// Categories lists the boundary condition categories present in a file with the
// given flow and heat switches, in file order.
func (pp ProblemProperties) Categories(ifFlow, ifHeat bool) (cats []Category) {
	if ifFlow {
		cats = append(cats, FluidCategory)
	}
	if ifHeat {
		cats = append(cats, ThermalCategory)
		for k := 1; k <= pp.NumPassiveScalars; k++ {
			cats = append(cats, PassiveScalarCategory(k))
		}
	}
	return
}

func (pp ProblemProperties) String() string {
	return fmt.Sprintf("NDIM = %d, NEL = %d, NELV = %d, NPSCAL = %d",
		pp.NumDimensions, pp.NumThermalElements, pp.NumFluidElements, pp.NumPassiveScalars)
}
