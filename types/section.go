package types

import (
	"fmt"
	"strings"
)

// SectionKind enumerates the thirteen sections of a reafile, in file order.
type SectionKind uint8

const (
	SectionParameters SectionKind = iota
	SectionPassiveScalarData
	SectionLogicalSwitches
	SectionPreNekAxes
	SectionMesh
	SectionCurvedSides
	SectionPresolveRestart
	SectionInitialConditions
	SectionDriveForce
	SectionVariableProperty
	SectionHistoryIntegral
	SectionOutputFields
	SectionObjects
	NumSections
)

var sectionNames = [...]string{
	"Parameters",
	"Passive Scalar Data",
	"Logical Switches",
	"Pre-Nek Axes",
	"Mesh",
	"Curved Side Data",
	"Presolve/Restart Options",
	"Initial Conditions",
	"Drive Force Data",
	"Variable Property Data",
	"History and Integral Data",
	"Output Field Specification",
	"Object Specification",
}

func (sk SectionKind) String() string {
	if sk < NumSections {
		return sectionNames[sk]
	}
	return fmt.Sprintf("SectionKind(%d)", uint8(sk))
}

func AllSections() (kinds []SectionKind) {
	kinds = make([]SectionKind, NumSections)
	for i := range kinds {
		kinds[i] = SectionKind(i)
	}
	return
}

// Entry is one record of a non-mesh section. Raw records, the verbatim lines of
// sections like Initial Conditions, have an empty Name.
type Entry struct {
	Name        string `json:"name,omitempty"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

func (e Entry) IsRaw() bool { return len(e.Name) == 0 }

// Switches decodes a value made of T/F tokens, as in "T T F F IFNAV & IFADVC".
func (e Entry) Switches() (sw []Switch, err error) {
	fields := strings.Fields(e.Value)
	sw = make([]Switch, len(fields))
	for i, f := range fields {
		if sw[i], err = ParseSwitch(f); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.Name, err)
		}
	}
	return
}

// Switch is the two-valued enumeration behind every logical switch.
type Switch uint8

const (
	No Switch = iota
	Yes
)

func (s Switch) String() string {
	if s == Yes {
		return "YES"
	}
	return "NO"
}

// Token is the on-disk form of the switch.
func (s Switch) Token() string {
	if s == Yes {
		return "T"
	}
	return "F"
}

func (s Switch) Bool() bool { return s == Yes }

func NewSwitch(b bool) Switch {
	if b {
		return Yes
	}
	return No
}

func ParseSwitch(tok string) (Switch, error) {
	switch strings.ToUpper(strings.TrimSpace(tok)) {
	case "T", "YES", ".TRUE.":
		return Yes, nil
	case "F", "NO", ".FALSE.":
		return No, nil
	}
	return No, fmt.Errorf("bad switch value [%s], need T or F", tok)
}

func IsSwitchToken(tok string) bool {
	return tok == "T" || tok == "F"
}
