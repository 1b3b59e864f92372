package vu

// scalarOps is the per-lane reference table, indexed by function field.
var scalarOps = [NumOpcodes]handler{
	// 000
	(*Unit).vmulf, (*Unit).vmulu, (*Unit).reservedMultiply, (*Unit).reservedMultiply,
	(*Unit).vmudl, (*Unit).vmudm, (*Unit).vmudn, (*Unit).vmudh,
	// 001
	(*Unit).vmacf, (*Unit).vmacu, (*Unit).reservedMultiply, (*Unit).reservedMultiply,
	(*Unit).vmadl, (*Unit).vmadm, (*Unit).vmadn, (*Unit).vmadh,
	// 010
	(*Unit).vadd, (*Unit).vsub, (*Unit).reservedVector, (*Unit).vabs,
	(*Unit).vaddc, (*Unit).vsubc, (*Unit).reservedVector, (*Unit).reservedVector,
	// 011
	(*Unit).reservedVector, (*Unit).reservedVector, (*Unit).reservedVector, (*Unit).reservedVector,
	(*Unit).reservedVector, (*Unit).vsaw, (*Unit).reservedVector, (*Unit).reservedVector,
	// 100
	(*Unit).vlt, (*Unit).veq, (*Unit).vne, (*Unit).vge,
	(*Unit).vcl, (*Unit).vch, (*Unit).vcr, (*Unit).vmrg,
	// 101
	(*Unit).vand, (*Unit).vnand, (*Unit).vor, (*Unit).vnor,
	(*Unit).vxor, (*Unit).vnxor, (*Unit).reservedVector, (*Unit).reservedVector,
	// 110
	(*Unit).vrcp, (*Unit).vrcpl, (*Unit).vrcph, (*Unit).vmov,
	(*Unit).vrsq, (*Unit).vrsql, (*Unit).vrsqh, (*Unit).vnop,
	// 111
	(*Unit).reservedVector, (*Unit).reservedVector, (*Unit).reservedVector, (*Unit).reservedVector,
	(*Unit).reservedVector, (*Unit).reservedVector, (*Unit).reservedVector, (*Unit).reservedVector,
}

// wideOps replaces the slots that have a word-parallel form.
var wideOps = func() [NumOpcodes]handler {
	t := scalarOps
	t[OpVADDC] = (*Unit).vaddcWide
	t[OpVSUBC] = (*Unit).vsubcWide
	t[OpVEQ] = (*Unit).veqWide
	t[OpVNE] = (*Unit).vneWide
	t[OpVMRG] = (*Unit).vmrgWide
	t[OpVAND] = (*Unit).vandWide
	t[OpVNAND] = (*Unit).vnandWide
	t[OpVOR] = (*Unit).vorWide
	t[OpVNOR] = (*Unit).vnorWide
	t[OpVXOR] = (*Unit).vxorWide
	t[OpVNXOR] = (*Unit).vnxorWide
	return t
}()

func tableFor(s Strategy) *[NumOpcodes]handler {
	if s == StrategyWide {
		return &wideOps
	}
	return &scalarOps
}
