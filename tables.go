package x64enc

import (
	. "github.com/wdamron/x64enc/defs"
)

// Shorthands for the variant definitions below.
const (
	encLegacy = EncodingLegacy
	enc3DNow  = Encoding3DNow
	encXOP    = EncodingXOP
	encVEX    = EncodingVEX
	encEVEX   = EncodingEVEX

	mapNone = MapDefault
	map0F   = Map0F
	map0F38 = Map0F38
	map0F3A = Map0F3A
	map0F0F = Map0F0F
	mapXOP8 = MapXOP8

	w16   = Width16
	w32   = Width32
	w64   = Width64
	w1632 = Width16 | Width32
	w3264 = Width32 | Width64
	wAll  = WidthAll

	noPfx = PrefixNone
	p66   = Prefix66
	pF2   = PrefixF2
	pF3   = PrefixF3

	scalar = VectorLengthInvalid
	vl128  = VectorLength128
	vl256  = VectorLength256
	vl512  = VectorLength512

	noHint  = SizeHintNone
	hintASZ = SizeHintASZ
	hintOSZ = SizeHintOSZ
)

// Variants of each mnemonic, in table order. Fields are positional:
//
//	ref, opcode, modrm, encoding, map, modes, address sizes, operand sizes, prefix, REX.W, vector length, hint
//
// INVALID and decode-only mnemonics (JMPE) have no variants. Every variant must be selected by some
// request; a variant whose constraints equal an earlier one of the same specificity is unreachable.
var encodableDefs = map[Mnemonic][]Fields{
	AAA: {
		{1, 0x37, 0x00, encLegacy, mapNone, w1632, wAll, wAll, noPfx, false, scalar, noHint},
	},
	ADD: {
		{2, 0x00, 0x00, encLegacy, mapNone, wAll, wAll, wAll, noPfx, false, scalar, noHint},  // r/m8, r8
		{3, 0x01, 0x00, encLegacy, mapNone, wAll, wAll, w1632, noPfx, false, scalar, noHint}, // r/m16/32, r16/32
		{4, 0x01, 0x00, encLegacy, mapNone, w64, w3264, w64, noPfx, true, scalar, noHint},    // r/m64, r64
	},
	ADDPD: {
		{5, 0x58, 0x00, encLegacy, map0F, wAll, wAll, wAll, p66, false, scalar, noHint},
	},
	ADDPS: {
		{6, 0x58, 0x00, encLegacy, map0F, wAll, wAll, wAll, noPfx, false, scalar, noHint},
	},
	ADDSD: {
		{7, 0x58, 0x00, encLegacy, map0F, wAll, wAll, wAll, pF2, false, scalar, noHint},
	},
	ADDSS: {
		{8, 0x58, 0x00, encLegacy, map0F, wAll, wAll, wAll, pF3, false, scalar, noHint},
	},
	ENDBR32: {
		{9, 0x1e, 0xfb, encLegacy, map0F, wAll, wAll, wAll, pF3, false, scalar, noHint},
	},
	ENDBR64: {
		{10, 0x1e, 0xfa, encLegacy, map0F, wAll, wAll, wAll, pF3, false, scalar, noHint},
	},
	JECXZ: {
		{11, 0xe3, 0x00, encLegacy, mapNone, w1632, w32, wAll, noPfx, false, scalar, noHint},
		{12, 0xe3, 0x00, encLegacy, mapNone, w64, w32, wAll, noPfx, false, scalar, hintASZ},
	},
	JRCXZ: {
		{13, 0xe3, 0x00, encLegacy, mapNone, w64, w64, wAll, noPfx, false, scalar, noHint},
	},
	LEA: {
		{14, 0x8d, 0x00, encLegacy, mapNone, wAll, wAll, w1632, noPfx, false, scalar, noHint},
		{15, 0x8d, 0x00, encLegacy, mapNone, w64, w3264, w64, noPfx, true, scalar, noHint},
	},
	MONITOR: {
		{16, 0x01, 0xc8, encLegacy, map0F, wAll, wAll, wAll, noPfx, false, scalar, noHint},
	},
	MOV: {
		{17, 0x88, 0x00, encLegacy, mapNone, wAll, wAll, wAll, noPfx, false, scalar, noHint},  // r/m8, r8
		{18, 0x89, 0x00, encLegacy, mapNone, wAll, wAll, w1632, noPfx, false, scalar, noHint}, // r/m16/32, r16/32
		{19, 0x89, 0x00, encLegacy, mapNone, w64, w3264, w64, noPfx, true, scalar, noHint},    // r/m64, r64
	},
	MWAIT: {
		{21, 0x01, 0xc9, encLegacy, map0F, wAll, wAll, wAll, noPfx, false, scalar, noHint},
	},
	NOP: {
		{22, 0x90, 0x00, encLegacy, mapNone, wAll, wAll, wAll, noPfx, false, scalar, noHint},
	},
	PEXTRD: {
		{23, 0x16, 0x00, encLegacy, map0F3A, wAll, wAll, w1632, p66, false, scalar, noHint},
	},
	PEXTRQ: {
		{24, 0x16, 0x00, encLegacy, map0F3A, w64, w3264, w64, p66, true, scalar, noHint},
	},
	PFADD: {
		{25, 0x9e, 0x00, enc3DNow, map0F0F, wAll, wAll, wAll, noPfx, false, scalar, noHint},
	},
	PUSHF: {
		{26, 0x9c, 0x00, encLegacy, mapNone, w1632, wAll, w1632, noPfx, false, scalar, noHint},
		{27, 0x9c, 0x00, encLegacy, mapNone, w64, w3264, w64, noPfx, false, scalar, noHint},
		{28, 0x9c, 0x00, encLegacy, mapNone, w64, w3264, w16, noPfx, false, scalar, hintOSZ},
	},
	RDTSCP: {
		{29, 0x01, 0xf9, encLegacy, map0F, wAll, wAll, wAll, noPfx, false, scalar, noHint},
	},
	RET: {
		{30, 0xc3, 0x00, encLegacy, mapNone, wAll, wAll, wAll, noPfx, false, scalar, noHint},
	},
	SWAPGS: {
		{31, 0x01, 0xf8, encLegacy, map0F, w64, w3264, wAll, noPfx, false, scalar, noHint},
	},
	VADDPD: {
		{32, 0x58, 0x00, encVEX, map0F, wAll, wAll, wAll, p66, false, vl128, noHint},
		{33, 0x58, 0x00, encVEX, map0F, wAll, wAll, wAll, p66, false, vl256, noHint},
		{34, 0x58, 0x00, encEVEX, map0F, wAll, wAll, wAll, p66, true, vl128, noHint},
		{35, 0x58, 0x00, encEVEX, map0F, wAll, wAll, wAll, p66, true, vl256, noHint},
		{36, 0x58, 0x00, encEVEX, map0F, wAll, wAll, wAll, p66, true, vl512, noHint},
	},
	VADDPS: {
		{37, 0x58, 0x00, encVEX, map0F, wAll, wAll, wAll, noPfx, false, vl128, noHint},
		{38, 0x58, 0x00, encVEX, map0F, wAll, wAll, wAll, noPfx, false, vl256, noHint},
		{41, 0x58, 0x00, encEVEX, map0F, wAll, wAll, wAll, noPfx, false, vl512, noHint},
	},
	VFMADD231PD: {
		{42, 0xb8, 0x00, encVEX, map0F38, wAll, wAll, wAll, p66, true, vl128, noHint},
		{43, 0xb8, 0x00, encVEX, map0F38, wAll, wAll, wAll, p66, true, vl256, noHint},
	},
	VFMADD231PS: {
		{44, 0xb8, 0x00, encVEX, map0F38, wAll, wAll, wAll, p66, false, vl128, noHint},
		{45, 0xb8, 0x00, encVEX, map0F38, wAll, wAll, wAll, p66, false, vl256, noHint},
	},
	VPCMOV: {
		{46, 0xa2, 0x00, encXOP, mapXOP8, wAll, wAll, wAll, noPfx, false, vl128, noHint},
		{47, 0xa2, 0x00, encXOP, mapXOP8, wAll, wAll, wAll, noPfx, false, vl256, noHint},
	},
	VZEROALL: {
		{48, 0x77, 0x00, encVEX, map0F, wAll, wAll, wAll, noPfx, false, vl256, noHint},
	},
	VZEROUPPER: {
		{49, 0x77, 0x00, encVEX, map0F, wAll, wAll, wAll, noPfx, false, vl128, noHint},
	},
	XGETBV: {
		{50, 0x01, 0xd0, encLegacy, map0F, wAll, wAll, wAll, noPfx, false, scalar, noHint},
	},
}
