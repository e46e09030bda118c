package types

// A CPU is a Mach-O cpu type.
type CPU uint32

const (
	cpuArchMask = 0xff000000 //  mask for architecture bits
	cpuArch64   = 0x01000000 // 64 bit ABI
)

const (
	CPUVax     CPU = 1
	CPURomp    CPU = 2
	CPUNs32032 CPU = 4
	CPUNs32332 CPU = 5
	CPUMc680x0 CPU = 6
	CPU386     CPU = 7
	CPUAmd64   CPU = CPU386 | cpuArch64
	CPUMips    CPU = 8
	CPUNs32352 CPU = 9
	CPUMc98000 CPU = 10
	CPUHppa    CPU = 11
	CPUArm     CPU = 12
	CPUArm64   CPU = CPUArm | cpuArch64
	CPUMc88000 CPU = 13
	CPUSparc   CPU = 14
	CPUI860Be  CPU = 15
	CPUI860Le  CPU = 16
	CPURs6000  CPU = 17
	CPUPpc     CPU = 18
	CPUPpc64   CPU = CPUPpc | cpuArch64
)

var cpuStrings = []intName{
	{uint32(CPU386), "i386"},
	{uint32(CPUAmd64), "Amd64"},
	{uint32(CPUArm), "ARM"},
	{uint32(CPUArm64), "AARCH64"},
	{uint32(CPUPpc), "PowerPC"},
	{uint32(CPUPpc64), "PowerPC 64"},
}

// family labels, keyed by the cpu type with the architecture bits cleared
var cpuLabels = []intName{
	{uint32(CPUVax), "VAX"},
	{uint32(CPURomp), "ROMP"},
	{uint32(CPUNs32032), "NS32032"},
	{uint32(CPUNs32332), "NS32332"},
	{uint32(CPUMc680x0), "MC680x0"},
	{uint32(CPU386), "x86"},
	{uint32(CPUMips), "MIPS"},
	{uint32(CPUNs32352), "NS32352"},
	{uint32(CPUMc98000), "MC98000"},
	{uint32(CPUHppa), "HP-PA"},
	{uint32(CPUArm), "ARM"},
	{uint32(CPUMc88000), "MC88000"},
	{uint32(CPUSparc), "SPARC"},
	{uint32(CPUI860Be), "I860/BE"},
	{uint32(CPUI860Le), "I860/LE"},
	{uint32(CPURs6000), "RS/6000"},
	{uint32(CPUPpc), "PowerPC"},
}

func (i CPU) String() string { return stringName(uint32(i), cpuStrings) }

// Is64 reports whether the 64 bit ABI bit is set.
func (i CPU) Is64() bool { return i&cpuArch64 != 0 }

// Family returns the cpu type with the architecture bits cleared.
func (i CPU) Family() CPU { return i &^ cpuArchMask }

// Label returns the family name of the cpu, or Unknown.
func (i CPU) Label() string { return labelName(uint32(i.Family()), cpuLabels) }

type CPUSubtype uint32

// X86 subtypes
const (
	CPUSubtypeX86All     CPUSubtype = 0x03
	CPUSubtypeX86Arch1   CPUSubtype = 0x04
	CPUSubtype486SX      CPUSubtype = 0x84
	CPUSubtypePentM5     CPUSubtype = 0x56
	CPUSubtypeCeleron    CPUSubtype = 0x67
	CPUSubtypeCeleronMob CPUSubtype = 0x77
	CPUSubtypePentium3   CPUSubtype = 0x08
	CPUSubtypePentium3M  CPUSubtype = 0x18
	CPUSubtypePentium3Xn CPUSubtype = 0x28
	CPUSubtypePentium4   CPUSubtype = 0x0a
	CPUSubtypeItanium    CPUSubtype = 0x0b
	CPUSubtypeItanium2   CPUSubtype = 0x1b
	CPUSubtypeXeon       CPUSubtype = 0x0c
	CPUSubtypeXeonMP     CPUSubtype = 0x1c
)

// ARM subtypes
const (
	CPUSubtypeArmAll    CPUSubtype = 0
	CPUSubtypeArmA500A  CPUSubtype = 1
	CPUSubtypeArmA500   CPUSubtype = 2
	CPUSubtypeArmA440   CPUSubtype = 3
	CPUSubtypeArmM4     CPUSubtype = 4
	CPUSubtypeArmV4T    CPUSubtype = 5
	CPUSubtypeArmV6     CPUSubtype = 6
	CPUSubtypeArmV5Tej  CPUSubtype = 7
	CPUSubtypeArmXscale CPUSubtype = 8
	CPUSubtypeArmV7     CPUSubtype = 9
	CPUSubtypeArmV7F    CPUSubtype = 10
	CPUSubtypeArmV7S    CPUSubtype = 11
	CPUSubtypeArmV7K    CPUSubtype = 12
	CPUSubtypeArmV8     CPUSubtype = 13
	CPUSubtypeArmV6M    CPUSubtype = 14
	CPUSubtypeArmV7M    CPUSubtype = 15
	CPUSubtypeArmV7Em   CPUSubtype = 16
)

// ARM64 subtypes
const (
	CPUSubtypeArm64All CPUSubtype = 0
	CPUSubtypeArm64V8  CPUSubtype = 1
	CPUSubtypeArm64E   CPUSubtype = 2
)

// Capability bits used in the definition of cpu_subtype.
const (
	CpuSubtypeFeatureMask CPUSubtype = 0xff000000                         /* mask for feature flags */
	CpuSubtypeMask                   = CPUSubtype(^CpuSubtypeFeatureMask) /* mask for cpu subtype */
)

var cpuSubtypeX86Strings = []intName{
	{uint32(CPUSubtypeX86All), "All x86 processors."},
	{uint32(CPUSubtypeX86Arch1), "Optimized for 486 or newer."},
	{uint32(CPUSubtype486SX), "Optimized for 486SX or newer."},
	{uint32(CPUSubtypePentM5), "Optimized for Pentium M5 or newer."},
	{uint32(CPUSubtypeCeleron), "Optimized for Celeron or newer."},
	{uint32(CPUSubtypeCeleronMob), "Optimized for Celeron Mobile."},
	{uint32(CPUSubtypePentium3), "Optimized for Pentium 3 or newer."},
	{uint32(CPUSubtypePentium3M), "Optimized for Pentium 3-M or newer."},
	{uint32(CPUSubtypePentium3Xn), "Optimized for Pentium 3-XEON or newer."},
	{uint32(CPUSubtypePentium4), "Optimized for Pentium-4 or newer."},
	{uint32(CPUSubtypeItanium), "Optimized for Itanium or newer."},
	{uint32(CPUSubtypeItanium2), "Optimized for Itanium-2 or newer."},
	{uint32(CPUSubtypeXeon), "Optimized for XEON or newer."},
	{uint32(CPUSubtypeXeonMP), "Optimized for XEON-MP or newer."},
}

var cpuSubtypeArmStrings = []intName{
	{uint32(CPUSubtypeArmAll), "All ARM processors."},
	{uint32(CPUSubtypeArmA500A), "Optimized for ARM-A500 ARCH or newer."},
	{uint32(CPUSubtypeArmA500), "Optimized for ARM-A500 or newer."},
	{uint32(CPUSubtypeArmA440), "Optimized for ARM-A440 or newer."},
	{uint32(CPUSubtypeArmM4), "Optimized for ARM-M4 or newer."},
	{uint32(CPUSubtypeArmV4T), "Optimized for ARM-V4T or newer."},
	{uint32(CPUSubtypeArmV6), "Optimized for ARM-V6 or newer."},
	{uint32(CPUSubtypeArmV5Tej), "Optimized for ARM-V5TEJ or newer."},
	{uint32(CPUSubtypeArmXscale), "Optimized for ARM-XSCALE or newer."},
	{uint32(CPUSubtypeArmV7), "Optimized for ARM-V7 or newer."},
	{uint32(CPUSubtypeArmV7F), "Optimized for ARM-V7F (Cortex A9) or newer."},
	{uint32(CPUSubtypeArmV7S), "Optimized for ARM-V7S (Swift) or newer."},
	{uint32(CPUSubtypeArmV7K), "Optimized for ARM-V7K (Kirkwood40) or newer."},
	{uint32(CPUSubtypeArmV8), "Optimized for ARM-V8 or newer."},
	{uint32(CPUSubtypeArmV6M), "Optimized for ARM-V6M or newer."},
	{uint32(CPUSubtypeArmV7M), "Optimized for ARM-V7M or newer."},
	{uint32(CPUSubtypeArmV7Em), "Optimized for ARM-V7EM or newer."},
}

var cpuSubtypeArm64Strings = []intName{
	{uint32(CPUSubtypeArm64All), "ARM64"},
	{uint32(CPUSubtypeArm64V8), "ARM64 (ARMv8)"},
	{uint32(CPUSubtypeArm64E), "ARM64e (ARMv8.3)"},
}

// String returns the description of the subtype for the given cpu. Feature
// bits are masked off before the lookup. Codes missing from the table render
// as Unknown, and cpu families without a subtype table render as "".
func (st CPUSubtype) String(cpu CPU) string {
	code := uint32(st & CpuSubtypeMask)
	switch cpu {
	case CPU386, CPUAmd64:
		return labelName(code, cpuSubtypeX86Strings)
	case CPUArm:
		return labelName(code, cpuSubtypeArmStrings)
	case CPUArm64:
		return labelName(code, cpuSubtypeArm64Strings)
	}
	return ""
}
