package readfiles

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/notargets/nekrea/types"
)

// cursor walks the lines of a reafile. pos is the index of the next line, which
// makes it also the 1-based number of the last line consumed.
type cursor struct {
	lines []string
	pos   int
}

func (c *cursor) next() (line string, ok bool) {
	if c.pos >= len(c.lines) {
		return
	}
	line, ok = c.lines[c.pos], true
	c.pos++
	return
}

func (c *cursor) peek() (line string, ok bool) {
	if c.pos >= len(c.lines) {
		return
	}
	return c.lines[c.pos], true
}

// nextNonBlank skips empty lines.
func (c *cursor) nextNonBlank() (line string, ok bool) {
	for {
		if line, ok = c.next(); !ok || len(strings.TrimSpace(line)) != 0 {
			return
		}
	}
}

func (c *cursor) lineNumber() int { return c.pos }

// seek advances past the first line from pos on that matches spec. The cursor does
// not move if nothing matches.
func (c *cursor) seek(spec HeaderSpec) (header string, ok bool) {
	for i := c.pos; i < len(c.lines); i++ {
		if spec.Match(c.lines[i]) {
			c.pos = i + 1
			return c.lines[i], true
		}
	}
	return
}

// parseCount reads the leading integer of "<ws><int><ws><label>".
func parseCount(line string) (n int, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, errors.New("missing count field")
	}
	if n, err = strconv.Atoi(fields[0]); err != nil {
		return 0, fmt.Errorf("count field [%s] is not an integer", fields[0])
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return
}

// parseParameter splits "   1.00000     P001: DENSITY". A record without the
// Pnnn: token gets its name from its position.
func parseParameter(line string, index int) (e types.Entry, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		err = errors.New("empty parameter record")
		return
	}
	e.Value = fields[0]
	rest := fields[1:]
	if len(rest) > 0 && strings.HasSuffix(rest[0], ":") {
		e.Name = strings.TrimSuffix(rest[0], ":")
		rest = rest[1:]
	} else {
		e.Name = fmt.Sprintf("P%03d", index)
	}
	e.Description = strings.Join(rest, " ")
	return
}

// parseLabeled splits switch-like records: the leading T/F tokens are the value,
// the text up to "(" the name and the rest the description, e.g.
// " T T F F F F IFNAV & IFADVC (convection in P.S. fields)". With numeric set, a
// single leading integer is accepted in place of the switches ("  0 PASSIVE SCALARS").
func parseLabeled(line string, numeric bool) (e types.Entry, err error) {
	fields := strings.Fields(line)
	k := 0
	for k < len(fields) && types.IsSwitchToken(fields[k]) {
		k++
	}
	if k == 0 && numeric && len(fields) > 0 {
		if _, nerr := strconv.Atoi(fields[0]); nerr == nil {
			k = 1
		}
	}
	if k == 0 {
		err = fmt.Errorf("record [%s] has no T/F value", strings.TrimSpace(line))
		return
	}
	if k == len(fields) {
		err = fmt.Errorf("record [%s] has no name", strings.TrimSpace(line))
		return
	}
	e.Value = strings.Join(fields[:k], " ")
	rest := strings.Join(fields[k:], " ")
	if open := strings.Index(rest, "("); open > 0 {
		e.Name = strings.TrimSpace(rest[:open])
		e.Description = rest[open:]
	} else {
		e.Name = rest
	}
	return
}

// parseNumericLabeled splits "  2.00000  2.00000  -1.00000  -1.00000  XFAC,YFAC,XZERO,YZERO".
func parseNumericLabeled(line string) (e types.Entry, err error) {
	fields := strings.Fields(line)
	k := 0
	for k < len(fields) {
		if _, ferr := ParseFloat(fields[k]); ferr != nil {
			break
		}
		k++
	}
	if k == 0 {
		err = fmt.Errorf("record [%s] has no numeric values", strings.TrimSpace(line))
		return
	}
	e.Value = strings.Join(fields[:k], " ")
	e.Name = strings.Join(fields[k:], " ")
	return
}

func rawEntry(line string) types.Entry {
	return types.Entry{Value: strings.TrimSpace(line)}
}

// ParseFloat is strconv.ParseFloat that also accepts Fortran double precision
// exponents, "1.0D-03".
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.Map(func(r rune) rune {
		if r == 'D' || r == 'd' {
			return 'E'
		}
		return r
	}, s), 64)
}

// parseFloats reads n values from a line, first split on whitespace and then,
// for values that run together, in fixed columns of width.
func parseFloats(line string, n, width int) (vals []float64, err error) {
	fields := strings.Fields(line)
	if len(fields) != n {
		if fields, err = fixedColumns(line, n, width); err != nil {
			return nil, err
		}
	}
	vals = make([]float64, n)
	for i, f := range fields {
		if vals[i], err = ParseFloat(f); err != nil {
			return nil, fmt.Errorf("value %d [%s] is not a number", i+1, f)
		}
	}
	return
}

func fixedColumns(line string, n, width int) (fields []string, err error) {
	line = strings.TrimRight(line, " ")
	if len(line) < width*(n-1)+1 || len(line) > width*n {
		return nil, fmt.Errorf("expected %d values in [%s]", n, strings.TrimSpace(line))
	}
	fields = make([]string, n)
	for i := range fields {
		end := (i + 1) * width
		if end > len(line) {
			end = len(line)
		}
		if fields[i] = strings.TrimSpace(line[i*width : end]); len(fields[i]) == 0 {
			return nil, fmt.Errorf("expected %d values in [%s]", n, strings.TrimSpace(line))
		}
	}
	return
}
