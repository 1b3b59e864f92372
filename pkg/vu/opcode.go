package vu

import (
	"fmt"
	"strconv"
	"strings"
)

// Opcode is the 6-bit function field of a COP2 vector instruction.
type Opcode uint8

// NumOpcodes is the size of the dispatch table.
const NumOpcodes = 64

const (
	// ===== Multiply (0x00-0x0F) =====
	OpVMULF Opcode = 0x00 // vd = sclamp(vs*vt*2 + 0x8000)
	OpVMULU Opcode = 0x01 // vd = uclamp(vs*vt*2 + 0x8000)
	OpVMUDL Opcode = 0x04 // acc = (u(vs)*u(vt)) >> 16
	OpVMUDM Opcode = 0x05 // acc = vs*u(vt)
	OpVMUDN Opcode = 0x06 // acc = u(vs)*vt
	OpVMUDH Opcode = 0x07 // acc = (vs*vt) << 16
	OpVMACF Opcode = 0x08 // acc += vs*vt*2
	OpVMACU Opcode = 0x09 // acc += vs*vt*2, unsigned clamp
	OpVMADL Opcode = 0x0C // acc += (u(vs)*u(vt)) >> 16
	OpVMADM Opcode = 0x0D // acc += vs*u(vt)
	OpVMADN Opcode = 0x0E // acc += u(vs)*vt
	OpVMADH Opcode = 0x0F // acc += (vs*vt) << 16

	// ===== Add/Subtract (0x10-0x1F) =====
	OpVADD  Opcode = 0x10 // vd = sclamp(vs + vt + carry)
	OpVSUB  Opcode = 0x11 // vd = sclamp(vs - vt - carry)
	OpVABS  Opcode = 0x13 // vd = sign(vs) * vt
	OpVADDC Opcode = 0x14 // vd = vs + vt, carry out
	OpVSUBC Opcode = 0x15 // vd = vs - vt, borrow out
	OpVSAW  Opcode = 0x1D // vd = acc slice selected by e

	// ===== Select (0x20-0x27) =====
	OpVLT  Opcode = 0x20
	OpVEQ  Opcode = 0x21
	OpVNE  Opcode = 0x22
	OpVGE  Opcode = 0x23
	OpVCL  Opcode = 0x24 // clip low
	OpVCH  Opcode = 0x25 // clip high
	OpVCR  Opcode = 0x26 // clip ones' complement
	OpVMRG Opcode = 0x27 // vd = compare ? vs : vt

	// ===== Logical (0x28-0x2D) =====
	OpVAND  Opcode = 0x28
	OpVNAND Opcode = 0x29
	OpVOR   Opcode = 0x2A
	OpVNOR  Opcode = 0x2B
	OpVXOR  Opcode = 0x2C
	OpVNXOR Opcode = 0x2D

	// ===== Divide (0x30-0x37) =====
	OpVRCP  Opcode = 0x30
	OpVRCPL Opcode = 0x31
	OpVRCPH Opcode = 0x32
	OpVMOV  Opcode = 0x33
	OpVRSQ  Opcode = 0x34
	OpVRSQL Opcode = 0x35
	OpVRSQH Opcode = 0x36
	OpVNOP  Opcode = 0x37
)

// String returns the mnemonic. Reserved slots print as VRSVnn.
func (o Opcode) String() string {
	switch o {
	case OpVMULF:
		return "VMULF"
	case OpVMULU:
		return "VMULU"
	case OpVMUDL:
		return "VMUDL"
	case OpVMUDM:
		return "VMUDM"
	case OpVMUDN:
		return "VMUDN"
	case OpVMUDH:
		return "VMUDH"
	case OpVMACF:
		return "VMACF"
	case OpVMACU:
		return "VMACU"
	case OpVMADL:
		return "VMADL"
	case OpVMADM:
		return "VMADM"
	case OpVMADN:
		return "VMADN"
	case OpVMADH:
		return "VMADH"
	case OpVADD:
		return "VADD"
	case OpVSUB:
		return "VSUB"
	case OpVABS:
		return "VABS"
	case OpVADDC:
		return "VADDC"
	case OpVSUBC:
		return "VSUBC"
	case OpVSAW:
		return "VSAW"
	case OpVLT:
		return "VLT"
	case OpVEQ:
		return "VEQ"
	case OpVNE:
		return "VNE"
	case OpVGE:
		return "VGE"
	case OpVCL:
		return "VCL"
	case OpVCH:
		return "VCH"
	case OpVCR:
		return "VCR"
	case OpVMRG:
		return "VMRG"
	case OpVAND:
		return "VAND"
	case OpVNAND:
		return "VNAND"
	case OpVOR:
		return "VOR"
	case OpVNOR:
		return "VNOR"
	case OpVXOR:
		return "VXOR"
	case OpVNXOR:
		return "VNXOR"
	case OpVRCP:
		return "VRCP"
	case OpVRCPL:
		return "VRCPL"
	case OpVRCPH:
		return "VRCPH"
	case OpVMOV:
		return "VMOV"
	case OpVRSQ:
		return "VRSQ"
	case OpVRSQL:
		return "VRSQL"
	case OpVRSQH:
		return "VRSQH"
	case OpVNOP:
		return "VNOP"
	default:
		if o < NumOpcodes {
			return fmt.Sprintf("VRSV%02X", uint8(o))
		}
		return "UNKNOWN"
	}
}

// IsReserved reports whether o has no defined operation.
func (o Opcode) IsReserved() bool {
	return o < NumOpcodes && strings.HasPrefix(o.String(), "VRSV")
}

// IsMultiply reports whether o sits in the multiply rows (0x00-0x0F).
func (o Opcode) IsMultiply() bool {
	return o < 0x10
}

// OpcodeFromString converts a mnemonic to an opcode. Matching is
// case-insensitive and accepts the VRSVnn names of reserved slots.
func OpcodeFromString(s string) (Opcode, bool) {
	s = strings.ToUpper(s)
	switch s {
	// Multiply
	case "VMULF":
		return OpVMULF, true
	case "VMULU":
		return OpVMULU, true
	case "VMUDL":
		return OpVMUDL, true
	case "VMUDM":
		return OpVMUDM, true
	case "VMUDN":
		return OpVMUDN, true
	case "VMUDH":
		return OpVMUDH, true
	case "VMACF":
		return OpVMACF, true
	case "VMACU":
		return OpVMACU, true
	case "VMADL":
		return OpVMADL, true
	case "VMADM":
		return OpVMADM, true
	case "VMADN":
		return OpVMADN, true
	case "VMADH":
		return OpVMADH, true
	// Add/Subtract
	case "VADD":
		return OpVADD, true
	case "VSUB":
		return OpVSUB, true
	case "VABS":
		return OpVABS, true
	case "VADDC":
		return OpVADDC, true
	case "VSUBC":
		return OpVSUBC, true
	case "VSAW", "VSAR":
		return OpVSAW, true
	// Select
	case "VLT":
		return OpVLT, true
	case "VEQ":
		return OpVEQ, true
	case "VNE":
		return OpVNE, true
	case "VGE":
		return OpVGE, true
	case "VCL":
		return OpVCL, true
	case "VCH":
		return OpVCH, true
	case "VCR":
		return OpVCR, true
	case "VMRG":
		return OpVMRG, true
	// Logical
	case "VAND":
		return OpVAND, true
	case "VNAND":
		return OpVNAND, true
	case "VOR":
		return OpVOR, true
	case "VNOR":
		return OpVNOR, true
	case "VXOR":
		return OpVXOR, true
	case "VNXOR":
		return OpVNXOR, true
	// Divide
	case "VRCP":
		return OpVRCP, true
	case "VRCPL":
		return OpVRCPL, true
	case "VRCPH":
		return OpVRCPH, true
	case "VMOV":
		return OpVMOV, true
	case "VRSQ":
		return OpVRSQ, true
	case "VRSQL":
		return OpVRSQL, true
	case "VRSQH":
		return OpVRSQH, true
	case "VNOP":
		return OpVNOP, true
	}
	if rest, ok := strings.CutPrefix(s, "VRSV"); ok && len(rest) == 2 {
		n, err := strconv.ParseUint(rest, 16, 8)
		if err == nil && Opcode(n).IsReserved() {
			return Opcode(n), true
		}
	}
	return 0, false
}
