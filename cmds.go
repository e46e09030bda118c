package macho

import (
	"fmt"

	"github.com/appsworld/print-macho/types"
)

// A Load represents any Mach-O load command.
//
// The concrete type is one of *Segment, *Symtab, *Dysymtab, *BuildVersion
// or *LoadCmdBytes for every command this package does not decode.
type Load interface {
	String() string
	Command() types.LoadCmd
	LoadSize() uint32     // declared cmdsize, including the 8 byte header
	CommandOffset() int64 // file offset of the cmd word
}

// LoadCmdBytes is a load command that was skipped without being decoded.
type LoadCmdBytes struct {
	types.LoadCmd
	Len    uint32
	CmdOff int64
}

func (s *LoadCmdBytes) LoadSize() uint32     { return s.Len }
func (s *LoadCmdBytes) CommandOffset() int64 { return s.CmdOff }
func (s *LoadCmdBytes) String() string {
	return fmt.Sprintf("%s: skipped %d bytes", s.LoadCmd, s.Len-types.LoadCmdHeaderSize)
}

// A LoadBytes is the uninterpreted bytes of a Mach-O load command.
type LoadBytes []byte

func (b LoadBytes) String() string {
	s := "["
	for i, a := range b {
		if i > 0 {
			s += " "
			if len(b) > 48 && i >= 16 {
				s += fmt.Sprintf("... (%d bytes)", len(b))
				break
			}
		}
		s += fmt.Sprintf("%x", a)
	}
	s += "]"
	return s
}
func (b LoadBytes) Raw() []byte { return b }

/*******************************************************************************
 * SEGMENT
 *******************************************************************************/

// A SegmentHeader is the header for a Mach-O 32-bit or 64-bit load segment command.
type SegmentHeader struct {
	types.LoadCmd
	Len     uint32
	Name    types.SegName
	Addr    uint64
	Memsz   uint64
	Offset  uint64
	Filesz  uint64
	Maxprot types.VmProtection
	Prot    types.VmProtection
	Nsect   uint32
	Flag    types.SegFlag
}

// A Segment represents a Mach-O 32-bit or 64-bit load segment command
// together with the sections that follow it.
type Segment struct {
	SegmentHeader
	CmdOff   int64
	Sections []*Section
}

func (s *Segment) LoadSize() uint32     { return s.Len }
func (s *Segment) CommandOffset() int64 { return s.CmdOff }

func (s *Segment) String() string {
	return fmt.Sprintf("%s: sz=0x%08x off=0x%08x-0x%08x addr=0x%09x-0x%09x %s/%s   %s%s%d sections",
		s.LoadCmd, s.Filesz, s.Offset, s.Offset+s.Filesz, s.Addr, s.Addr+s.Memsz, s.Prot, s.Maxprot, s.Name, pad(20-len(s.Name.String())), len(s.Sections))
}

// A Section is one entry of the section array following a segment command.
type Section struct {
	Name      types.SegName
	Seg       types.SegName
	Addr      uint64
	Size      uint64
	Offset    uint32
	Align     uint32
	Reloff    uint32
	Nreloc    uint32
	Flags     uint32
	Reserved1 uint32
	Reserved2 uint32
	Reserved3 uint32
}

func (s *Section) String() string {
	return fmt.Sprintf("sz=0x%08x off=0x%08x-0x%08x addr=0x%09x-0x%09x\t\t%s.%s",
		s.Size, s.Offset, uint64(s.Offset)+s.Size, s.Addr, s.Addr+s.Size, s.Seg, s.Name)
}

/*******************************************************************************
 * LC_SYMTAB
 *******************************************************************************/

// A Symtab represents a Mach-O symbol table command and the tables it points at.
type Symtab struct {
	types.SymtabCmd
	CmdOff  int64
	Strings []StringEntry
	Syms    []Symbol
}

func (s *Symtab) LoadSize() uint32     { return s.Len }
func (s *Symtab) CommandOffset() int64 { return s.CmdOff }

func (s *Symtab) String() string {
	return fmt.Sprintf("Symbol offset=0x%08X, Num Syms: %d, String offset=0x%08X-0x%08X",
		s.Symoff, s.Nsyms, s.Stroff, s.Stroff+s.Strsize)
}

// A StringEntry is one NUL terminated entry of the string table.
type StringEntry struct {
	Index uint32 // byte offset from the start of the string table
	Text  string
}

// A Symbol is a Mach-O 32-bit or 64-bit symbol table entry.
type Symbol struct {
	Name  string
	Strx  uint32 // offset of Name in the string table
	Type  types.NType
	Sect  uint8
	Desc  types.NDescType
	Value uint64
}

func (s Symbol) String() string {
	return fmt.Sprintf("0x%016X \t <type:%s,sect:%d,desc:%#04x> \t %s", s.Value, s.Type, s.Sect, uint16(s.Desc), s.Name)
}

/*******************************************************************************
 * LC_DYSYMTAB
 *******************************************************************************/

// A Dysymtab represents a Mach-O dynamic symbol table command.
type Dysymtab struct {
	types.DysymtabCmd
	CmdOff int64
}

func (d *Dysymtab) LoadSize() uint32     { return d.Len }
func (d *Dysymtab) CommandOffset() int64 { return d.CmdOff }

func (d *Dysymtab) String() string {
	var tocStr, modStr, extSymStr, indirSymStr, extRelStr, locRelStr string
	if d.Ntoc == 0 {
		tocStr = "No"
	} else {
		tocStr = fmt.Sprintf("%d at 0x%08x", d.Ntoc, d.Tocoffset)
	}
	if d.Nmodtab == 0 {
		modStr = "No"
	} else {
		modStr = fmt.Sprintf("%d at 0x%08x", d.Nmodtab, d.Modtaboff)
	}
	if d.Nextrefsyms == 0 {
		extSymStr = "None"
	} else {
		extSymStr = fmt.Sprintf("%d at 0x%08x", d.Nextrefsyms, d.Extrefsymoff)
	}
	if d.Nindirectsyms == 0 {
		indirSymStr = "None"
	} else {
		indirSymStr = fmt.Sprintf("%d at 0x%08x", d.Nindirectsyms, d.Indirectsymoff)
	}
	if d.Nextrel == 0 {
		extRelStr = "None"
	} else {
		extRelStr = fmt.Sprintf("%d at 0x%08x", d.Nextrel, d.Extreloff)
	}
	if d.Nlocrel == 0 {
		locRelStr = "None"
	} else {
		locRelStr = fmt.Sprintf("%d at 0x%08x", d.Nlocrel, d.Locreloff)
	}
	return fmt.Sprintf(
		"%d local symbols at index %d, %d external symbols at index %d, %d undefined symbols at index %d, %s TOC, %s modtab, %s external references, %s indirect symbols, %s external relocations, %s local relocations",
		d.Nlocalsym, d.Ilocalsym, d.Nextdefsym, d.Iextdefsym, d.Nundefsym, d.Iundefsym, tocStr, modStr, extSymStr, indirSymStr, extRelStr, locRelStr)
}

/*******************************************************************************
 * LC_BUILD_VERSION
 *******************************************************************************/

// A BuildVersion is an LC_BUILD_VERSION command kept as its raw payload.
type BuildVersion struct {
	types.LoadCmd
	Len    uint32
	CmdOff int64
	LoadBytes
}

func (b *BuildVersion) LoadSize() uint32     { return b.Len }
func (b *BuildVersion) CommandOffset() int64 { return b.CmdOff }
func (b *BuildVersion) String() string       { return b.LoadCmd.String() + ": " + b.LoadBytes.String() }

func pad(length int) string {
	if length > 0 {
		return fmt.Sprintf("%*s", length, "")
	}
	return " "
}
