package repl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/akhildatla/rspvu/pkg/vu"
)

// FormatVector renders lanes as hex words, lane 0 first.
func FormatVector(v vu.Vector) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%04X", uint16(x))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func laneHeader(first string) []string {
	header := []string{first}
	for i := 0; i < vu.Lanes; i++ {
		header = append(header, strconv.Itoa(i))
	}
	return header
}

func laneRow(name string, v vu.Vector) []string {
	row := []string{name}
	for _, x := range v {
		row = append(row, fmt.Sprintf("%04X", uint16(x)))
	}
	return row
}

func newTable(out io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

// RenderRegisters writes the selected registers as a table.
func RenderRegisters(out io.Writer, st vu.State, regs []int) {
	table := newTable(out, laneHeader("reg"))
	for _, r := range regs {
		table.Append(laneRow(fmt.Sprintf("$v%d", r), st.Registers[r]))
	}
	table.Render()
}

// RenderAccumulator writes the accumulator slices and the 48-bit lane values.
func RenderAccumulator(out io.Writer, acc vu.Accumulator) {
	table := newTable(out, laneHeader("acc"))
	table.Append(laneRow("hi", acc.Hi))
	table.Append(laneRow("md", acc.Md))
	table.Append(laneRow("lo", acc.Lo))

	full := []string{"value"}
	for i := 0; i < vu.Lanes; i++ {
		full = append(full, strconv.FormatInt(acc.Get(i), 10))
	}
	table.Append(full)
	table.Render()
}

// RenderFlags writes the control registers lane by lane.
func RenderFlags(out io.Writer, f vu.Flags, d vu.DivideState) {
	table := newTable(out, laneHeader("flag"))
	for _, m := range []struct {
		name string
		mask vu.LaneMask
	}{
		{"carry", f.Carry},
		{"ne", f.NotEqual},
		{"compare", f.Compare},
		{"clip", f.Clip},
		{"ext", f.Extension},
	} {
		row := []string{m.name}
		for i := 0; i < vu.Lanes; i++ {
			if m.mask.IsSet(i) {
				row = append(row, "1")
			} else {
				row = append(row, ".")
			}
		}
		table.Append(row)
	}
	table.Render()

	fmt.Fprintf(out, "VCO=%04X VCC=%04X VCE=%02X  DivIn=%04X DivOut=%04X DP=%v\n",
		f.VCO(), f.VCC(), f.VCE(), uint16(d.In), uint16(d.Out), d.Double)
}
