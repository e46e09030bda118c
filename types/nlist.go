package types

import "strings"

// An Nlist64 is a Mach-O symbol table entry. 32-bit images store Value as
// a uint32; it is widened on decode.
type Nlist64 struct {
	Name  uint32 // offset into the string table
	Type  NType
	Sect  uint8
	Desc  NDescType
	Value uint64
}

// NlistSize returns the on-disk size of one symbol table entry.
func NlistSize(is64 bool) int64 {
	if is64 {
		return 16
	}
	return 12
}

type NType uint8

/*
 * The n_type field really contains four fields:
 *	unsigned char N_STAB:3,
 *		      N_PEXT:1,
 *		      N_TYPE:3,
 *		      N_EXT:1;
 */
const (
	N_STAB NType = 0xe0 /* if any of these bits set, a symbolic debugging entry */
	N_PEXT NType = 0x10 /* private external symbol bit */
	N_TYPE NType = 0x0e /* mask for the type bits */
	N_EXT  NType = 0x01 /* external symbol bit, set for external symbols */
)

/*
 * Values for N_TYPE bits of the n_type field.
 */
const (
	N_UNDF NType = 0x0 /* undefined, n_sect == NO_SECT */
	N_ABS  NType = 0x2 /* absolute, n_sect == NO_SECT */
	N_SECT NType = 0xe /* defined in section number n_sect */
	N_PBUD NType = 0xc /* prebound undefined (defined in a dylib) */
	N_INDR NType = 0xa /* indirect */
)

var nTypeStrings = []intName{
	{uint32(N_UNDF), "UNDF"},
	{uint32(N_ABS), "ABS"},
	{uint32(N_SECT), "SECT"},
	{uint32(N_PBUD), "PBUD"},
	{uint32(N_INDR), "INDR"},
}

func (t NType) IsDebugSym() bool        { return t&N_STAB != 0 }
func (t NType) IsPrivateExternal() bool { return t&N_PEXT != 0 }
func (t NType) IsExternal() bool        { return t&N_EXT != 0 }

func (t NType) String() string {
	if t.IsDebugSym() {
		return "STAB"
	}
	parts := []string{labelName(uint32(t&N_TYPE), nTypeStrings)}
	if t.IsPrivateExternal() {
		parts = append(parts, "PEXT")
	}
	if t.IsExternal() {
		parts = append(parts, "EXT")
	}
	return strings.Join(parts, "|")
}

type NDescType uint16
