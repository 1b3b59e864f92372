package loader

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	dataframe "github.com/rocketlaunchr/dataframe-go"

	"github.com/akhildatla/rspvu/pkg/vu"
)

// TargetColumn names the column that says what a row seeds.
const TargetColumn = "target"

var (
	ErrNoTarget      = errors.New("seed frame has no target column")
	ErrUnknownTarget = errors.New("unknown seed target")
	ErrBadLane       = errors.New("invalid lane value")
)

// LaneColumn returns the column name for lane i.
func LaneColumn(i int) string {
	return "l" + strconv.Itoa(i)
}

// Fixed row names for the non-register state.
const (
	TargetAccHi  = "acc.hi"
	TargetAccMd  = "acc.md"
	TargetAccLo  = "acc.lo"
	TargetVCO    = "vco"
	TargetVCC    = "vcc"
	TargetVCE    = "vce"
	TargetDivIn  = "div.in"
	TargetDivOut = "div.out"
	TargetDivDP  = "div.dp"
)

// LoadState reads a seed file and applies it to a zeroed state.
func LoadState(path string) (vu.State, error) {
	var st vu.State
	df, err := LoadSeeds(path)
	if err != nil {
		return st, err
	}
	if err := ApplySeeds(df, &st); err != nil {
		return st, fmt.Errorf("%s: %w", path, err)
	}
	return st, nil
}

// ApplySeeds writes every row of df into st. Missing lane columns and
// empty cells leave the existing value unchanged.
func ApplySeeds(df *dataframe.DataFrame, st *vu.State) error {
	cols := make(map[string]dataframe.Series, len(df.Series))
	for _, s := range df.Series {
		cols[strings.ToLower(strings.TrimSpace(s.Name()))] = s
	}

	target, ok := cols[TargetColumn]
	if !ok {
		return ErrNoTarget
	}

	var lanes [vu.Lanes]dataframe.Series
	for i := range lanes {
		lanes[i] = cols[LaneColumn(i)]
	}

	for row := 0; row < target.NRows(); row++ {
		name, ok := target.Value(row).(string)
		if !ok {
			return fmt.Errorf("row %d: %w: %v", row, ErrUnknownTarget, target.Value(row))
		}

		var values [vu.Lanes]int64
		var present [vu.Lanes]bool
		for i, col := range lanes {
			if col == nil {
				continue
			}
			v, ok, err := cellInt(col.Value(row))
			if err != nil {
				return fmt.Errorf("row %d %s: %w", row, LaneColumn(i), err)
			}
			values[i], present[i] = v, ok
		}

		if err := applyRow(st, strings.ToLower(strings.TrimSpace(name)), values, present); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
	}

	return nil
}

func applyRow(st *vu.State, name string, values [vu.Lanes]int64, present [vu.Lanes]bool) error {
	setVector := func(v *vu.Vector) {
		for i := range v {
			if present[i] {
				v[i] = int16(values[i])
			}
		}
	}

	if reg, ok := parseRegister(name); ok {
		setVector(&st.Registers[reg])
		return nil
	}

	switch name {
	case TargetAccHi:
		setVector(&st.Accumulator.Hi)
		return nil
	case TargetAccMd:
		setVector(&st.Accumulator.Md)
		return nil
	case TargetAccLo:
		setVector(&st.Accumulator.Lo)
		return nil
	}

	if !present[0] {
		return nil
	}
	v := values[0]
	switch name {
	case TargetVCO:
		st.Flags.SetVCO(uint16(v))
	case TargetVCC:
		st.Flags.SetVCC(uint16(v))
	case TargetVCE:
		st.Flags.SetVCE(uint8(v))
	case TargetDivIn:
		st.Divide.In = int16(v)
	case TargetDivOut:
		st.Divide.Out = int16(v)
	case TargetDivDP:
		st.Divide.Double = v != 0
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTarget, name)
	}
	return nil
}

func parseRegister(name string) (int, bool) {
	name = strings.TrimPrefix(name, "$")
	if len(name) < 2 || name[0] != 'v' {
		return 0, false
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 0 || n >= vu.NumVectorRegs {
		return 0, false
	}
	return n, true
}

// cellInt converts a cell to a 16-bit lane value. Signed and unsigned
// spellings are both accepted, so -1 and 65535 are the same lane.
func cellInt(cell interface{}) (int64, bool, error) {
	var v int64
	switch x := cell.(type) {
	case nil:
		return 0, false, nil
	case int64:
		v = x
	case float64:
		if x != math.Trunc(x) {
			return 0, false, fmt.Errorf("%w: %v", ErrBadLane, x)
		}
		v = int64(x)
	case bool:
		if x {
			v = 1
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false, nil
		}
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q", ErrBadLane, x)
		}
		v = n
	default:
		return 0, false, fmt.Errorf("%w: %T", ErrBadLane, cell)
	}

	if v < math.MinInt16 || v > math.MaxUint16 {
		return 0, false, fmt.Errorf("%w: %d", ErrBadLane, v)
	}
	return v, true, nil
}

// StateFrame lays a state out as a seed frame. Applying the frame to any
// state reproduces st exactly.
func StateFrame(st vu.State) *dataframe.DataFrame {
	var targets []interface{}
	var lanes [vu.Lanes][]interface{}

	addRow := func(name string, vals [vu.Lanes]int64) {
		targets = append(targets, name)
		for i := range lanes {
			lanes[i] = append(lanes[i], vals[i])
		}
	}
	addVector := func(name string, v vu.Vector) {
		var vals [vu.Lanes]int64
		for i, x := range v {
			vals[i] = int64(x)
		}
		addRow(name, vals)
	}
	addScalar := func(name string, x int64) {
		addRow(name, [vu.Lanes]int64{x})
	}

	for i, v := range st.Registers {
		addVector("v"+strconv.Itoa(i), v)
	}
	addVector(TargetAccHi, st.Accumulator.Hi)
	addVector(TargetAccMd, st.Accumulator.Md)
	addVector(TargetAccLo, st.Accumulator.Lo)
	addScalar(TargetVCO, int64(st.Flags.VCO()))
	addScalar(TargetVCC, int64(st.Flags.VCC()))
	addScalar(TargetVCE, int64(st.Flags.VCE()))
	addScalar(TargetDivIn, int64(st.Divide.In))
	addScalar(TargetDivOut, int64(st.Divide.Out))
	var dp int64
	if st.Divide.Double {
		dp = 1
	}
	addScalar(TargetDivDP, dp)

	series := []dataframe.Series{dataframe.NewSeriesString(TargetColumn, nil, targets...)}
	for i := range lanes {
		series = append(series, dataframe.NewSeriesInt64(LaneColumn(i), nil, lanes[i]...))
	}
	return dataframe.NewDataFrame(series...)
}
