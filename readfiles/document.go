package readfiles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notargets/nekrea/mesh"
	"github.com/notargets/nekrea/types"
)

// Section is one of the thirteen parts of a reafile. Mesh is set only for the
// mesh section, every other kind carries its records in Entries.
type Section struct {
	Kind     types.SectionKind `json:"-"`
	Preamble []types.Entry     `json:"preamble,omitempty"`
	Entries  []types.Entry     `json:"entries,omitempty"`
	Mesh     *mesh.Mesh        `json:"mesh,omitempty"`
}

func (s *Section) Name() string { return s.Kind.String() }

// Find returns the first entry with the given name.
func (s *Section) Find(name string) (*types.Entry, bool) {
	for i := range s.Entries {
		if s.Entries[i].Name == name {
			return &s.Entries[i], true
		}
	}
	return nil, false
}

// Document is everything read from one reafile.
type Document struct {
	Sections   []*Section              `json:"sections"`
	Properties types.ProblemProperties `json:"properties"`
	IfFlow     bool                    `json:"ifFlow"`
	IfHeat     bool                    `json:"ifHeat"`
	// Controllers are the factory's decorations of every entity, in creation order.
	Controllers []mesh.Controller `json:"-"`
}

// NewDocument returns a document with all sections present and empty.
func NewDocument() *Document {
	d := &Document{Sections: make([]*Section, types.NumSections)}
	for _, kind := range types.AllSections() {
		d.Sections[kind] = &Section{Kind: kind}
	}
	d.Sections[types.SectionMesh].Mesh = mesh.NewMesh()
	d.Properties.NumDimensions = 2
	return d
}

func (d *Document) Section(kind types.SectionKind) *Section {
	for _, s := range d.Sections {
		if s.Kind == kind {
			return s
		}
	}
	return nil
}

func (d *Document) Mesh() *mesh.Mesh {
	if s := d.Section(types.SectionMesh); s != nil {
		return s.Mesh
	}
	return nil
}

// Categories lists the boundary condition categories the file carries, in order.
func (d *Document) Categories() []types.Category {
	return d.Properties.Categories(d.IfFlow, d.IfHeat)
}

// Parameter looks up a parameter by name ("P023") or by the first word of its
// description ("NPSCAL").
func (d *Document) Parameter(key string) (*types.Entry, bool) {
	s := d.Section(types.SectionParameters)
	if s == nil {
		return nil, false
	}
	for i := range s.Entries {
		e := &s.Entries[i]
		if e.Name == key || firstWord(e.Description) == key {
			return e, true
		}
	}
	return nil, false
}

// SetParameter overwrites a parameter value, see Parameter for the lookup. Setting
// NPSCAL also changes the passive scalar count.
func (d *Document) SetParameter(key string, value float64) error {
	e, ok := d.Parameter(key)
	if !ok {
		return fmt.Errorf("no parameter named %s", key)
	}
	if firstWord(e.Description) == paramPassiveScalars {
		if value != float64(int(value)) {
			return fmt.Errorf("%s must be a whole number, not %g", paramPassiveScalars, value)
		}
		return d.SetPassiveScalars(int(value))
	}
	e.Value = strconv.FormatFloat(value, 'G', -1, 64)
	return nil
}

// SetPassiveScalars changes the passive scalar count and the NPSCAL parameter with it.
func (d *Document) SetPassiveScalars(n int) error {
	if n < 0 {
		return fmt.Errorf("negative passive scalar count %d", n)
	}
	d.Properties.NumPassiveScalars = n
	if e, ok := d.Parameter(paramPassiveScalars); ok {
		e.Value = formatCount(n)
	}
	return nil
}

// SetSwitch changes a logical switch and keeps IfFlow/IfHeat in step with it.
func (d *Document) SetSwitch(name string, sw types.Switch) error {
	s := d.Section(types.SectionLogicalSwitches)
	e, ok := s.Find(name)
	if !ok {
		return fmt.Errorf("no logical switch named %s", name)
	}
	e.Value = sw.Token()
	switch name {
	case switchFlow:
		d.IfFlow = sw.Bool()
	case switchHeat:
		d.IfHeat = sw.Bool()
	}
	return nil
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

func formatCount(n int) string {
	return strconv.FormatFloat(float64(n), 'f', 5, 64)
}
