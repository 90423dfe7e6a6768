package types

import (
	"fmt"
	"strconv"
	"strings"
)

// BCType is the short code Nek5000 uses to tag a boundary condition, e.g. "W" or "SYM".
// Codes are at most three characters. Lower case codes are the user-defined variants
// of their upper case counterparts.
type BCType string

const (
	BCNone         BCType = "None"
	BCPeriodic     BCType = "P"
	BCWall         BCType = "W"
	BCVelocity     BCType = "V"
	BCInterior     BCType = "E"
	BCSymmetry     BCType = "SYM"
	BCOutflow      BCType = "O"
	BCOutflowNorm  BCType = "ON"
	BCTemperature  BCType = "T"
	BCFlux         BCType = "F"
	BCInsulated    BCType = "I"
	BCConvection   BCType = "C"
	BCAxis         BCType = "A"
	BCMovingWall   BCType = "MV"
	BCShear        BCType = "SH"
	BCUserVelocity BCType = "v"
	BCUserTemp     BCType = "t"
	BCUserOutflow  BCType = "o"
)

var bcNames = map[BCType]string{
	BCNone:         "None",
	BCPeriodic:     "Periodic",
	BCWall:         "Wall",
	BCVelocity:     "Velocity",
	BCInterior:     "Interior",
	BCSymmetry:     "Symmetry",
	BCOutflow:      "Outflow",
	BCOutflowNorm:  "OutflowNormal",
	BCTemperature:  "Temperature",
	BCFlux:         "Flux",
	BCInsulated:    "Insulated",
	BCConvection:   "Convection",
	BCAxis:         "Axis",
	BCMovingWall:   "MovingWall",
	BCShear:        "Shear",
	BCUserVelocity: "UserVelocity",
	BCUserTemp:     "UserTemperature",
	BCUserOutflow:  "UserOutflow",
}

// Describe returns a readable name for the code, or "Unknown" for codes Nek5000
// accepts but this package has no name for.
func (bc BCType) Describe() string {
	if name, ok := bcNames[bc]; ok {
		return name
	}
	return "Unknown"
}

func (bc BCType) IsNone() bool {
	return bc == BCNone || bc == ""
}

// ParseBCType checks a code read from a file. Blank codes mean no condition.
func ParseBCType(code string) (bc BCType, err error) {
	code = strings.TrimSpace(code)
	switch {
	case code == "" || strings.EqualFold(code, string(BCNone)):
		return BCNone, nil
	case len(code) > 3:
		err = fmt.Errorf("boundary condition code [%s] is longer than 3 characters", code)
		return
	}
	return BCType(code), nil
}

// BoundaryCondition is a condition code plus the five parameters stored with it.
type BoundaryCondition struct {
	Type   BCType     `json:"type"`
	Values [5]float64 `json:"values"`
}

func NewBoundaryCondition(bc BCType, values ...float64) (b BoundaryCondition) {
	b.Type = bc
	copy(b.Values[:], values)
	return
}

func NoCondition() BoundaryCondition {
	return BoundaryCondition{Type: BCNone}
}

type CategoryKind uint8

const (
	CategoryFluid CategoryKind = iota
	CategoryThermal
	CategoryPassiveScalar
)

// Category selects which field a boundary condition applies to. Scalar is the
// 1-based passive scalar index and is zero for the fluid and thermal categories.
type Category struct {
	Kind   CategoryKind
	Scalar int
}

var (
	FluidCategory   = Category{Kind: CategoryFluid}
	ThermalCategory = Category{Kind: CategoryThermal}
)

func PassiveScalarCategory(k int) Category {
	return Category{Kind: CategoryPassiveScalar, Scalar: k}
}

func (c Category) String() string {
	switch c.Kind {
	case CategoryFluid:
		return "fluid"
	case CategoryThermal:
		return "thermal"
	default:
		return "scalar" + strconv.Itoa(c.Scalar)
	}
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) (err error) {
	*c, err = ParseCategory(string(b))
	return
}

// Less orders categories the way their sections appear in a file.
func (c Category) Less(o Category) bool {
	if c.Kind != o.Kind {
		return c.Kind < o.Kind
	}
	return c.Scalar < o.Scalar
}

// ParseCategory accepts "fluid", "thermal" and "scalarN" (also "psN"), case insensitive.
func ParseCategory(s string) (c Category, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "fluid":
		return FluidCategory, nil
	case "thermal":
		return ThermalCategory, nil
	}
	for _, prefix := range []string{"scalar", "ps"} {
		if strings.HasPrefix(s, prefix) {
			var k int
			if k, err = strconv.Atoi(strings.TrimPrefix(s, prefix)); err != nil || k < 1 {
				err = fmt.Errorf("bad passive scalar category [%s]", s)
				return
			}
			return PassiveScalarCategory(k), nil
		}
	}
	err = fmt.Errorf("unknown boundary condition category [%s]", s)
	return
}
