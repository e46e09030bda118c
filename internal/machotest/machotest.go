// Package machotest assembles small little-endian Mach-O images in memory
// for tests.
package machotest

import (
	"bytes"
	"encoding/binary"

	"github.com/appsworld/print-macho/types"
)

const (
	Magic32 = 0xfeedface
	Magic64 = 0xfeedfacf

	CPUX86    = 0x7
	CPUX86_64 = 0x01000007
	CPUArm    = 0xc
	CPUArm64  = 0x0100000c

	LCSegment      = 0x1
	LCSymtab       = 0x2
	LCDysymtab     = 0xb
	LCUUID         = 0x1b
	LCSegment64    = 0x19
	LCBuildVersion = 0x32

	SymtabCmdSize   = 24
	DysymtabCmdSize = 80
)

// A W writes little-endian fields.
type W struct{ bytes.Buffer }

func (w *W) U8(v uint8)   { w.WriteByte(v) }
func (w *W) U16(v uint16) { binary.Write(w, binary.LittleEndian, v) }
func (w *W) U32(v uint32) { binary.Write(w, binary.LittleEndian, v) }
func (w *W) U64(v uint64) { binary.Write(w, binary.LittleEndian, v) }

// Addr writes an address sized field.
func (w *W) Addr(is64 bool, v uint64) {
	if is64 {
		w.U64(v)
	} else {
		w.U32(uint32(v))
	}
}

// Name16 writes s NUL padded (or cut) to 16 bytes.
func (w *W) Name16(s string) {
	var b [16]byte
	copy(b[:], s)
	w.Write(b[:])
}

// An Image is a Mach-O header, a load command table and trailing data.
type Image struct {
	Magic    uint32
	CPU      uint32
	SubCPU   uint32
	Type     uint32
	Flags    uint32
	Reserved uint32

	// NCommands overrides the command count when non-zero.
	NCommands uint32

	Cmds [][]byte
	Data []byte
}

// New64 returns an empty x86_64 MH_OBJECT image.
func New64() *Image {
	return &Image{Magic: Magic64, CPU: CPUX86_64, SubCPU: 3, Type: 1}
}

// New32 returns an empty i386 MH_OBJECT image.
func New32() *Image {
	return &Image{Magic: Magic32, CPU: CPUX86, SubCPU: 3, Type: 1}
}

func (im *Image) Is64() bool { return im.CPU&0x01000000 != 0 }

// HeaderSize is the size of the mach header for the image's magic.
func (im *Image) HeaderSize() uint32 {
	if im.Magic == Magic64 {
		return types.FileHeaderSize64
	}
	return types.FileHeaderSize32
}

// CmdsSize is the total size of the load commands added so far.
func (im *Image) CmdsSize() uint32 {
	var n uint32
	for _, c := range im.Cmds {
		n += uint32(len(c))
	}
	return n
}

// CmdOffset returns the file offset of command i.
func (im *Image) CmdOffset(i int) int64 {
	off := int64(im.HeaderSize())
	for _, c := range im.Cmds[:i] {
		off += int64(len(c))
	}
	return off
}

// DataOffset is where Data starts in the assembled image.
func (im *Image) DataOffset() uint32 { return im.HeaderSize() + im.CmdsSize() }

func (im *Image) Add(cmd []byte) *Image {
	im.Cmds = append(im.Cmds, cmd)
	return im
}

func (im *Image) Bytes() []byte {
	var w W
	ncmds := im.NCommands
	if ncmds == 0 {
		ncmds = uint32(len(im.Cmds))
	}
	w.U32(im.Magic)
	w.U32(im.CPU)
	w.U32(im.SubCPU)
	w.U32(im.Type)
	w.U32(ncmds)
	w.U32(im.CmdsSize())
	w.U32(im.Flags)
	if im.Magic == Magic64 {
		w.U32(im.Reserved)
	}
	for _, c := range im.Cmds {
		w.Write(c)
	}
	w.Write(im.Data)
	return w.Bytes()
}

// Reader returns the assembled image as a ReadSeeker.
func (im *Image) Reader() *bytes.Reader { return bytes.NewReader(im.Bytes()) }

// Cmd builds a command whose cmdsize covers exactly the payload.
func Cmd(tag uint32, payload []byte) []byte {
	return CmdSized(tag, uint32(8+len(payload)), payload)
}

// CmdSized builds a command with an explicit cmdsize. The payload is
// written as is, so size may disagree with it.
func CmdSized(tag, size uint32, payload []byte) []byte {
	var w W
	w.U32(tag)
	w.U32(size)
	w.Write(payload)
	return w.Bytes()
}

// Sect describes one section record.
type Sect struct {
	Name, Seg                   string
	Addr, Size                  uint64
	Offset, Align               uint32
	Reloff, Nreloc              uint32
	Flags                       uint32
	Reserved1, Reserved2, Rsvd3 uint32
}

// Seg describes a segment command.
type Seg struct {
	Name                        string
	Addr, Memsz, Offset, Filesz uint64
	Maxprot, Prot, Flag         uint32
	Sects                       []Sect
	Nsect                       *uint32 // overrides len(Sects)
}

// Segment encodes s as LC_SEGMENT_64 or LC_SEGMENT depending on is64.
func Segment(is64 bool, s Seg) []byte {
	var w W
	w.Name16(s.Name)
	w.Addr(is64, s.Addr)
	w.Addr(is64, s.Memsz)
	w.Addr(is64, s.Offset)
	w.Addr(is64, s.Filesz)
	w.U32(s.Maxprot)
	w.U32(s.Prot)
	nsect := uint32(len(s.Sects))
	if s.Nsect != nil {
		nsect = *s.Nsect
	}
	w.U32(nsect)
	w.U32(s.Flag)
	for _, sc := range s.Sects {
		w.Name16(sc.Name)
		w.Name16(sc.Seg)
		w.Addr(is64, sc.Addr)
		w.Addr(is64, sc.Size)
		w.U32(sc.Offset)
		w.U32(sc.Align)
		w.U32(sc.Reloff)
		w.U32(sc.Nreloc)
		w.U32(sc.Flags)
		w.U32(sc.Reserved1)
		w.U32(sc.Reserved2)
		if is64 {
			w.U32(sc.Rsvd3)
		}
	}
	tag := uint32(LCSegment)
	if is64 {
		tag = LCSegment64
	}
	return Cmd(tag, w.Bytes())
}

// Symtab encodes an LC_SYMTAB command.
func Symtab(symoff, nsyms, stroff, strsize uint32) []byte {
	var w W
	w.U32(symoff)
	w.U32(nsyms)
	w.U32(stroff)
	w.U32(strsize)
	return Cmd(LCSymtab, w.Bytes())
}

// Nlist encodes one symbol table entry.
func Nlist(is64 bool, strx uint32, typ, sect uint8, desc uint16, value uint64) []byte {
	var w W
	w.U32(strx)
	w.U8(typ)
	w.U8(sect)
	w.U16(desc)
	w.Addr(is64, value)
	return w.Bytes()
}

// Dysymtab encodes an LC_DYSYMTAB command from its eighteen fields.
func Dysymtab(fields [18]uint32) []byte {
	var w W
	for _, f := range fields {
		w.U32(f)
	}
	return Cmd(LCDysymtab, w.Bytes())
}
