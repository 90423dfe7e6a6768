package readfiles

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/notargets/nekrea/types"
)

const (
	switchFlow          = "IFFLOW"
	switchHeat          = "IFHEAT"
	paramPassiveScalars = "NPSCAL"
	nektonVersion       = "NEKTON VERSION"
	dimensionalRun      = "DIMENSIONAL RUN"
	objectGroups        = 4
)

type reader struct {
	cfg *config
	cur cursor
	doc *Document
}

// ReadReaFile reads a reafile from disk, see ReadRea.
func ReadReaFile(path string, opts ...Option) (doc *Document, err error) {
	var lines []string
	if lines, err = ReadLinesFile(path); err != nil {
		return nil, err
	}
	if doc, err = ReadRea(lines, opts...); err != nil {
		var re *ReaError
		if errors.As(err, &re) {
			re.Path = path
		}
		return nil, err
	}
	return
}

// ReadRea parses the lines of a reafile into a Document. Any failure abandons
// the whole read, a partially read document is never returned.
func ReadRea(lines []string, opts ...Option) (doc *Document, err error) {
	rd := &reader{
		cfg: newConfig(opts),
		cur: cursor{lines: lines},
		doc: NewDocument(),
	}
	if len(lines) == 0 {
		return nil, &ReaError{Op: "read", Kind: KindStructural, Err: errors.New("empty file")}
	}
	for _, kind := range types.AllSections() {
		if err = rd.readSection(kind); err != nil {
			return nil, err
		}
		if kind == types.SectionCurvedSides {
			// The boundary conditions follow the curved side data and belong to the mesh
			if err = rd.readBoundaryConditions(); err != nil {
				return nil, err
			}
		}
	}
	rd.cfg.logger.Info("reafile.read",
		"lines", len(lines),
		"elements", rd.doc.Properties.NumThermalElements,
		"fluidElements", rd.doc.Properties.NumFluidElements,
		"passiveScalars", rd.doc.Properties.NumPassiveScalars,
		"ifFlow", rd.doc.IfFlow,
		"ifHeat", rd.doc.IfHeat)
	return rd.doc, nil
}

func (rd *reader) fail(kind ErrorKind, sec types.SectionKind, err error) error {
	return &ReaError{
		Op:      "read",
		Kind:    kind,
		Section: sec.String(),
		Line:    rd.cur.lineNumber(),
		Err:     err,
	}
}

func (rd *reader) failf(kind ErrorKind, sec types.SectionKind, format string, args ...interface{}) error {
	return rd.fail(kind, sec, fmt.Errorf(format, args...))
}

func (rd *reader) readSection(kind types.SectionKind) (err error) {
	var (
		spec   = rd.cfg.headers.Sections[kind]
		header string
		ok     bool
		sec    = rd.doc.Section(kind)
	)
	if header, ok = rd.cur.seek(spec); !ok {
		if spec.Required {
			return rd.failf(KindStructural, kind, "header %q not found", spec.Literals[0])
		}
		rd.cfg.logger.Debug("reafile.section.absent", "section", kind.String())
		return nil
	}
	switch kind {
	case types.SectionParameters:
		err = rd.readParameters(sec)
	case types.SectionPreNekAxes:
		err = rd.readAxes(sec, header)
	case types.SectionMesh:
		err = rd.readMesh(sec)
	case types.SectionObjects:
		err = rd.readObjects(sec)
	default:
		var n int
		if n, err = rd.readCount(kind, spec, header); err != nil {
			return
		}
		err = rd.readRecords(sec, n)
	}
	if err != nil {
		return
	}
	rd.cfg.logger.Debug("reafile.section",
		"section", kind.String(),
		"entries", len(sec.Entries),
		"line", rd.cur.lineNumber())
	return
}

func (rd *reader) readCount(kind types.SectionKind, spec HeaderSpec, header string) (n int, err error) {
	line := header
	if spec.Count == CountAfter {
		var ok bool
		if line, ok = rd.cur.next(); !ok {
			return 0, rd.failf(KindStructural, kind, "unexpected end of file, expected a count line")
		}
	}
	if n, err = parseCount(line); err != nil {
		return 0, rd.fail(KindStructural, kind, err)
	}
	return
}

// readRecords consumes n records and splits them the way the section's kind requires.
func (rd *reader) readRecords(sec *Section, n int) (err error) {
	for i := 0; i < n; i++ {
		line, ok := rd.cur.next()
		if !ok {
			return rd.failf(KindStructural, sec.Kind, "unexpected end of file, read %d of %d records", i, n)
		}
		var e types.Entry
		switch sec.Kind {
		case types.SectionLogicalSwitches:
			e, err = parseLabeled(line, false)
		case types.SectionOutputFields:
			e, err = parseLabeled(line, true)
		default:
			e = rawEntry(line)
		}
		if err != nil {
			return rd.fail(KindLexical, sec.Kind, err)
		}
		sec.Entries = append(sec.Entries, e)
		if sec.Kind == types.SectionLogicalSwitches {
			if err = rd.applySwitch(e); err != nil {
				return rd.fail(KindLexical, sec.Kind, err)
			}
		}
	}
	return
}

func (rd *reader) applySwitch(e types.Entry) (err error) {
	if e.Name != switchFlow && e.Name != switchHeat {
		return
	}
	var sw []types.Switch
	if sw, err = e.Switches(); err != nil {
		return
	}
	if e.Name == switchFlow {
		rd.doc.IfFlow = sw[0].Bool()
	} else {
		rd.doc.IfHeat = sw[0].Bool()
	}
	return
}

/*
	****** PARAMETERS *****
	   2.610000     NEKTON VERSION
	   2 DIMENSIONAL RUN
	         103  PARAMETERS FOLLOW
	   1.00000     P001: DENSITY
*/
func (rd *reader) readParameters(sec *Section) (err error) {
	const kind = types.SectionParameters
	var (
		preamble [3]string
		ok       bool
		ndim, n  int
	)
	for i := range preamble {
		if preamble[i], ok = rd.cur.next(); !ok {
			return rd.failf(KindStructural, kind, "unexpected end of file in parameter header")
		}
		switch i {
		case 0:
			if _, err = ParseFloat(firstWord(preamble[i])); err != nil {
				return rd.failf(KindStructural, kind, "bad %s [%s]", nektonVersion, firstWord(preamble[i]))
			}
		case 1:
			if ndim, err = parseCount(preamble[i]); err != nil {
				return rd.fail(KindStructural, kind, fmt.Errorf("%s: %w", dimensionalRun, err))
			}
		case 2:
			if n, err = parseCount(preamble[i]); err != nil {
				return rd.fail(KindStructural, kind, err)
			}
		}
	}
	version := firstWord(preamble[0])
	rd.doc.Properties.NumDimensions = ndim
	sec.Preamble = []types.Entry{
		{Name: nektonVersion, Value: version},
		{Name: dimensionalRun, Value: strconv.Itoa(ndim)},
	}
	for i := 1; i <= n; i++ {
		line, ok := rd.cur.next()
		if !ok {
			return rd.failf(KindStructural, kind, "unexpected end of file, read %d of %d parameters", i-1, n)
		}
		var e types.Entry
		if e, err = parseParameter(line, i); err != nil {
			return rd.fail(KindLexical, kind, err)
		}
		if firstWord(e.Description) == paramPassiveScalars {
			var v float64
			if v, err = ParseFloat(e.Value); err != nil || v < 0 || v != float64(int(v)) {
				return rd.failf(KindLexical, kind, "%s value [%s] is not a passive scalar count",
					paramPassiveScalars, e.Value)
			}
			rd.doc.Properties.NumPassiveScalars = int(v)
		}
		sec.Entries = append(sec.Entries, e)
	}
	return nil
}

func (rd *reader) readAxes(sec *Section, header string) (err error) {
	var e types.Entry
	if e, err = parseNumericLabeled(header); err != nil {
		return rd.fail(KindLexical, sec.Kind, err)
	}
	sec.Entries = []types.Entry{e}
	return
}

/*
	  ***** OBJECT SPECIFICATION *****
	       0 Surface Objects
	       0 Volume  Objects
	       0 Edge    Objects
	       0 Point   Objects

Each group line is followed by as many object lines as it counts.
*/
func (rd *reader) readObjects(sec *Section) (err error) {
	for g := 0; g < objectGroups; g++ {
		line, ok := rd.cur.peek()
		if !ok {
			break
		}
		var n int
		if n, err = parseCount(line); err != nil {
			// Fewer than four groups, the section ends here
			err = nil
			break
		}
		rd.cur.next()
		count := firstWord(line)
		name := "Objects"
		if e, perr := parseNumericLabeled(line); perr == nil && len(e.Name) != 0 {
			name = e.Name
		}
		sec.Entries = append(sec.Entries, types.Entry{Name: name, Value: count})
		for i := 0; i < n; i++ {
			if line, ok = rd.cur.next(); !ok {
				return rd.failf(KindStructural, sec.Kind, "unexpected end of file, read %d of %d %s", i, n, name)
			}
			sec.Entries = append(sec.Entries, rawEntry(line))
		}
	}
	return
}
