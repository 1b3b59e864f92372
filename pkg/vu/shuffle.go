package vu

// selectorLanes maps each element selector to the vt lane read by every
// destination lane.
var selectorLanes = [16][Lanes]uint8{
	{0, 1, 2, 3, 4, 5, 6, 7}, // vector
	{0, 1, 2, 3, 4, 5, 6, 7}, // vector
	{0, 0, 2, 2, 4, 4, 6, 6}, // 0q
	{1, 1, 3, 3, 5, 5, 7, 7}, // 1q
	{0, 0, 0, 0, 4, 4, 4, 4}, // 0h
	{1, 1, 1, 1, 5, 5, 5, 5}, // 1h
	{2, 2, 2, 2, 6, 6, 6, 6}, // 2h
	{3, 3, 3, 3, 7, 7, 7, 7}, // 3h
	{0, 0, 0, 0, 0, 0, 0, 0}, // 0
	{1, 1, 1, 1, 1, 1, 1, 1},
	{2, 2, 2, 2, 2, 2, 2, 2},
	{3, 3, 3, 3, 3, 3, 3, 3},
	{4, 4, 4, 4, 4, 4, 4, 4},
	{5, 5, 5, 5, 5, 5, 5, 5},
	{6, 6, 6, 6, 6, 6, 6, 6},
	{7, 7, 7, 7, 7, 7, 7, 7}, // 7
}

// Shuffle returns v as seen through element selector e.
func Shuffle(v Vector, e int) Vector {
	if e < 2 {
		return v
	}
	sel := &selectorLanes[e&15]
	var out Vector
	for i := range out {
		out[i] = v[sel[i]]
	}
	return out
}

// IsBroadcast reports whether e replicates a single lane.
func IsBroadcast(e int) bool {
	return e&8 != 0
}

// SelectorName returns the assembler suffix for e, e.g. "[2h]".
func SelectorName(e int) string {
	switch {
	case e < 2:
		return ""
	case e < 4:
		return "[" + string(rune('0'+e-2)) + "q]"
	case e < 8:
		return "[" + string(rune('0'+e-4)) + "h]"
	default:
		return "[" + string(rune('0'+e-8)) + "]"
	}
}
