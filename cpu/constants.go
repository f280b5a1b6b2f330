package cpu

// Instruction field bit positions, shared by the decoder and every
// operation implementation. Naming mirrors the teacher's
// arch_constants.go so the encoding stays self-documenting.
const (
	ConditionShift = 28

	OpcodeShift = 21
	SBitShift   = 20
	RnShift     = 16
	RdShift     = 12
	RsShift     = 8

	PBitShift = 24
	UBitShift = 23
	BBitShift = 22
	WBitShift = 21
	LBitShift = 20
	IBitShift = 25

	ShiftTypeShift  = 5
	ShiftAmountShift = 7

	BranchLinkShift = 24
)

const (
	Mask1Bit  = 0x1
	Mask2Bit  = 0x3
	Mask3Bit  = 0x7
	Mask4Bit  = 0xF
	Mask5Bit  = 0x1F
	Mask8Bit  = 0xFF
	Mask12Bit = 0xFFF
	Mask24Bit = 0xFFFFFF

	SignBitPos  = 31
	SignBitMask = uint32(1) << SignBitPos
	BitsInWord  = 32
)

// Register numbers.
const (
	R0  = 0
	SP  = 13
	LR  = 14
	PC  = 15
)

// Fetch width in bytes for the two instruction-set widths.
const (
	FetchWidthARM   = 4
	FetchWidthThumb = 2
)
