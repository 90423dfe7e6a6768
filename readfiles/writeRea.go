package readfiles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DataDog/zstd"

	"github.com/notargets/nekrea/types"
)

const defaultVersion = "2.610000"

var defaultObjectGroups = [objectGroups]string{
	"Surface Objects",
	"Volume Objects",
	"Edge Objects",
	"Point Objects",
}

type writer struct {
	cfg      *config
	bw       *bufio.Writer
	doc      *Document
	sections map[types.SectionKind]*Section
	err      error
}

// printf stops writing after the first error, which is reported by flush.
func (wr *writer) printf(format string, args ...interface{}) {
	if wr.err != nil {
		return
	}
	_, wr.err = fmt.Fprintf(wr.bw, format+"\n", args...)
}

func (wr *writer) println(line string) {
	if wr.err != nil {
		return
	}
	_, wr.err = wr.bw.WriteString(line + "\n")
}

func (wr *writer) flush() error {
	if wr.err == nil {
		wr.err = wr.bw.Flush()
	}
	return wr.err
}

// section returns an empty section for kinds the document does not carry.
func (wr *writer) section(kind types.SectionKind) *Section {
	if s, ok := wr.sections[kind]; ok {
		return s
	}
	return &Section{Kind: kind}
}

// WriteReaFile writes doc to path through a temporary file in the same directory,
// so a failed write never leaves a truncated reafile behind. Paths ending in .zst
// are compressed.
func WriteReaFile(path string, doc *Document, opts ...Option) (err error) {
	var tmp *os.File
	if tmp, err = os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*"); err != nil {
		return resourceError("write", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	var (
		w  io.Writer = tmp
		zw io.WriteCloser
	)
	if strings.HasSuffix(path, CompressedSuffix) {
		zw = zstd.NewWriter(tmp)
		w = zw
	}
	if err = WriteRea(w, doc, opts...); err != nil {
		var re *ReaError
		if errors.As(err, &re) {
			re.Path = path
		}
		return err
	}
	if zw != nil {
		if err = zw.Close(); err != nil {
			return resourceError("write", path, err)
		}
	}
	if err = tmp.Close(); err != nil {
		return resourceError("write", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return resourceError("write", path, err)
	}
	return nil
}

// WriteRea serializes doc in the layout ReadRea reads. Problem properties and the
// NPSCAL parameter are brought in line with the mesh first, and the mesh is
// renumbered if its IDs no longer follow element order, so doc may be modified.
func WriteRea(w io.Writer, doc *Document, opts ...Option) (err error) {
	wr := &writer{
		cfg:      newConfig(opts),
		bw:       bufio.NewWriter(w),
		doc:      doc,
		sections: make(map[types.SectionKind]*Section, len(doc.Sections)),
	}
	for _, s := range doc.Sections {
		wr.sections[s.Kind] = s
	}
	if err = wr.prepare(); err != nil {
		return
	}
	for _, kind := range types.AllSections() {
		wr.writeSection(kind)
		if kind == types.SectionCurvedSides {
			wr.writeBoundaryConditions()
		}
	}
	if wr.cfg.stamp {
		p := wr.cfg.provenance
		if p == nil {
			dp := DefaultProvenance()
			p = &dp
		}
		for _, line := range p.Lines() {
			wr.println(line)
		}
	}
	if err = wr.flush(); err != nil {
		return resourceError("write", "", err)
	}
	wr.cfg.logger.Info("reafile.write",
		"elements", doc.Properties.NumThermalElements,
		"fluidElements", doc.Properties.NumFluidElements,
		"passiveScalars", doc.Properties.NumPassiveScalars,
		"provenance", wr.cfg.stamp)
	return nil
}

func (wr *writer) fail(sec types.SectionKind, format string, args ...interface{}) error {
	return &ReaError{Op: "write", Kind: KindStructural, Section: sec.String(), Err: fmt.Errorf(format, args...)}
}

func (wr *writer) prepare() (err error) {
	doc := wr.doc
	msh := doc.Mesh()
	if msh == nil {
		return wr.fail(types.SectionMesh, "document has no mesh section")
	}
	if SyncProblemProperties(doc) {
		wr.cfg.logger.Debug("reafile.write.sync", "properties", doc.Properties.String())
	}
	pp := doc.Properties
	if err = pp.Validate(); err != nil {
		return wr.fail(types.SectionMesh, "%w", err)
	}
	if !doc.IfHeat && pp.NumPassiveScalars > 0 {
		return wr.fail(types.SectionLogicalSwitches,
			"%d passive scalars but %s is F", pp.NumPassiveScalars, switchHeat)
	}
	if pp.NumPassiveScalars > 0 {
		if _, ok := doc.Parameter(paramPassiveScalars); !ok {
			wr.cfg.logger.Warn("reafile.write.npscal",
				"passiveScalars", pp.NumPassiveScalars, "reason", "no NPSCAL parameter, scalars will not be read back")
		}
	}
	if !msh.Numbered() {
		msh.Renumber()
		wr.cfg.logger.Debug("reafile.write.renumber", "elements", msh.NumElements())
	}
	return nil
}

// SyncProblemProperties re-derives the problem properties from the mesh after
// elements or conditions were added or removed:
//
//   - NEL follows the element count, NELV with it when all elements were fluid
//   - NELV grows to cover the last element with a fluid condition
//   - NPSCAL grows to the highest passive scalar carrying a condition
//
// The NPSCAL parameter is rewritten to match. It reports whether anything changed.
func SyncProblemProperties(doc *Document) (changed bool) {
	msh := doc.Mesh()
	if msh == nil {
		return false
	}
	var (
		pp   = doc.Properties
		next = pp
		nel  = msh.NumElements()
	)
	if nel != pp.NumThermalElements {
		next.NumThermalElements = nel
		if pp.NumFluidElements == pp.NumThermalElements {
			next.NumFluidElements = nel
		}
	}
	if last := msh.LastElementWith(types.FluidCategory); last > next.NumFluidElements {
		next.NumFluidElements = last
	}
	if next.NumFluidElements > nel {
		next.NumFluidElements = nel
	}
	if k := msh.MaxPassiveScalar(); k > next.NumPassiveScalars {
		next.NumPassiveScalars = k
	}
	if next != pp {
		doc.Properties = next
		changed = true
	}
	if e, ok := doc.Parameter(paramPassiveScalars); ok {
		if v, err := ParseFloat(e.Value); err != nil || v != float64(next.NumPassiveScalars) {
			e.Value = formatCount(next.NumPassiveScalars)
			changed = true
		}
	}
	return
}

func (wr *writer) writeSection(kind types.SectionKind) {
	sec := wr.section(kind)
	switch kind {
	case types.SectionParameters:
		wr.writeParameters(sec)
	case types.SectionPassiveScalarData:
		wr.printf("%12d  Lines of passive scalar data follows", len(sec.Entries))
		wr.writeRaw(sec)
	case types.SectionLogicalSwitches:
		wr.printf("%12d  LOGICAL SWITCHES FOLLOW", len(sec.Entries))
		wr.writeLabeled(sec, " %s      %s")
	case types.SectionPreNekAxes:
		for _, e := range sec.Entries {
			wr.printf("   %s     %s", e.Value, e.Name)
		}
	case types.SectionMesh:
		wr.writeMesh()
	case types.SectionCurvedSides:
		wr.println("  ***** CURVED SIDE DATA *****")
		wr.printf("%12d Curved sides follow IEDGE,IEL,CURVE(I),I=1,5, CCURVE", len(sec.Entries))
		wr.writeRaw(sec)
	case types.SectionPresolveRestart:
		wr.printf("%12d PRESOLVE/RESTART OPTIONS  *****", len(sec.Entries))
		wr.writeRaw(sec)
	case types.SectionInitialConditions:
		wr.printf("%12d INITIAL CONDITIONS *****", len(sec.Entries))
		wr.writeRaw(sec)
	case types.SectionDriveForce:
		wr.println("  ***** DRIVE FORCE DATA ***** BODY FORCE, FLOW, Q")
		wr.printf("%12d                 Lines of Drive force data follow", len(sec.Entries))
		wr.writeRaw(sec)
	case types.SectionVariableProperty:
		wr.println("  ***** Variable Property Data ***** Overrrides Parameter data.")
		wr.printf("%12d Lines follow.", len(sec.Entries))
		wr.writeRaw(sec)
	case types.SectionHistoryIntegral:
		wr.println("  ***** HISTORY AND INTEGRAL DATA *****")
		wr.printf("%12d   POINTS.  Hcode, I,J,H,IEL", len(sec.Entries))
		wr.writeRaw(sec)
	case types.SectionOutputFields:
		wr.println("  ***** OUTPUT FIELD SPECIFICATION *****")
		wr.printf("%12d SPECIFICATIONS FOLLOW", len(sec.Entries))
		wr.writeLabeled(sec, "  %s      %s")
	case types.SectionObjects:
		wr.writeObjects(sec)
	}
}

func (wr *writer) writeParameters(sec *Section) {
	version := defaultVersion
	for _, e := range sec.Preamble {
		if e.Name == nektonVersion && len(e.Value) != 0 {
			version = e.Value
		}
	}
	wr.println("****** PARAMETERS *****")
	wr.printf("%12s     %s", version, nektonVersion)
	wr.printf("%4d %s", wr.doc.Properties.NumDimensions, dimensionalRun)
	wr.printf("%12d  PARAMETERS FOLLOW", len(sec.Entries))
	for i, e := range sec.Entries {
		name := e.Name
		if len(name) == 0 {
			name = fmt.Sprintf("P%03d", i+1)
		}
		wr.println(strings.TrimRight(fmt.Sprintf("%12s     %s: %s", e.Value, name, e.Description), " "))
	}
}

func (wr *writer) writeRaw(sec *Section) {
	for _, e := range sec.Entries {
		wr.println(e.Value)
	}
}

func (wr *writer) writeLabeled(sec *Section, format string) {
	for _, e := range sec.Entries {
		if e.IsRaw() {
			wr.println(e.Value)
			continue
		}
		line := fmt.Sprintf(format, e.Value, e.Name)
		if len(e.Description) != 0 {
			line += " " + e.Description
		}
		wr.println(line)
	}
}

// writeObjects recounts each group from the object lines that follow it. A
// section without groups gets the four empty ones Nek5000 expects.
func (wr *writer) writeObjects(sec *Section) {
	wr.println("  ***** OBJECT SPECIFICATION *****")
	if len(sec.Entries) == 0 {
		for _, name := range defaultObjectGroups {
			wr.printf("%8d %s", 0, name)
		}
		return
	}
	for i := 0; i < len(sec.Entries); {
		e := sec.Entries[i]
		if e.IsRaw() {
			wr.println(e.Value)
			i++
			continue
		}
		j := i + 1
		for j < len(sec.Entries) && sec.Entries[j].IsRaw() {
			j++
		}
		wr.printf("%8d %s", j-i-1, e.Name)
		for _, obj := range sec.Entries[i+1 : j] {
			wr.println(obj.Value)
		}
		i = j
	}
}
