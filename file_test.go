package macho

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/appsworld/print-macho/internal/machotest"
	"github.com/appsworld/print-macho/pkg/stream"
	"github.com/appsworld/print-macho/types"
)

func segName(s string) (n types.SegName) {
	copy(n[:], s)
	return n
}

func TestNewFileHeader(t *testing.T) {
	tests := []struct {
		name   string
		magic  uint32
		cpu    uint32
		is64   bool
		resvd  uint32
		hdrEnd int64
	}{
		{"64-bit magic, 64-bit cpu", machotest.Magic64, machotest.CPUX86_64, true, 0x1234, 32},
		{"32-bit magic, 32-bit cpu", machotest.Magic32, machotest.CPUX86, false, 0, 28},
		{"32-bit magic, 64-bit cpu", machotest.Magic32, machotest.CPUArm64, true, 0, 28},
		{"64-bit magic, 32-bit cpu", machotest.Magic64, machotest.CPUArm, false, 0x1234, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := &machotest.Image{Magic: tt.magic, CPU: tt.cpu, SubCPU: 3, Type: 2, Flags: 0x85, Reserved: 0x1234}
			f, err := NewFile(im.Reader())
			if err != nil {
				t.Fatalf("NewFile() error = %v", err)
			}
			want := types.FileHeader{
				Magic:    types.Magic(tt.magic),
				CPU:      types.CPU(tt.cpu),
				SubCPU:   3,
				Type:     types.MH_EXECUTE,
				Flags:    0x85,
				Reserved: tt.resvd,
			}
			if diff := cmp.Diff(want, f.FileHeader); diff != "" {
				t.Errorf("FileHeader mismatch (-want +got):\n%s", diff)
			}
			if f.Is64() != tt.is64 {
				t.Errorf("Is64() = %v, want %v", f.Is64(), tt.is64)
			}
			if f.EndOffset != tt.hdrEnd {
				t.Errorf("EndOffset = %d, want %d", f.EndOffset, tt.hdrEnd)
			}
		})
	}
}

func TestNewFileBadMagic(t *testing.T) {
	// only the magic is present, so any read past it would be a truncation
	f, err := NewFile(bytes.NewReader([]byte{0xef, 0xbe, 0xad, 0xde}))
	if f != nil {
		t.Errorf("NewFile() = %v, want nil", f)
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("NewFile() error = %v, want ErrUnsupportedFormat", err)
	}
	if errors.Is(err, ErrTruncated) {
		t.Errorf("NewFile() error = %v, read past the magic", err)
	}
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Off != 0 {
		t.Errorf("NewFile() error = %#v, want *FormatError at offset 0", err)
	}
}

func TestNewFileCursorAccounting(t *testing.T) {
	im := machotest.New64()
	im.Add(machotest.CmdSized(0x1b, 24, make([]byte, 16)))
	im.Add(machotest.Segment(true, machotest.Seg{Name: "__PAGEZERO", Memsz: 0x100000000}))
	im.Add(machotest.CmdSized(0xdeadbeef, 40, make([]byte, 32)))
	im.Add(machotest.Dysymtab([18]uint32{}))
	im.Add(machotest.CmdSized(0x80000028, 8, nil))
	im.Add(machotest.Cmd(machotest.LCBuildVersion, []byte{1, 0, 0, 0, 0, 0, 0x0e, 0, 0, 0, 0, 0, 0, 0, 0, 0}))
	im.Add(machotest.CmdSized(0x26, 16, make([]byte, 8)))
	im.Data = make([]byte, 64)

	f, err := NewFile(im.Reader())
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if len(f.Loads) != len(im.Cmds) {
		t.Fatalf("got %d loads, want %d", len(f.Loads), len(im.Cmds))
	}
	for i, l := range f.Loads {
		if got, want := l.CommandOffset(), im.CmdOffset(i); got != want {
			t.Errorf("load %d (%s) at %#x, want %#x", i, l.Command(), got, want)
		}
		if got, want := l.LoadSize(), uint32(len(im.Cmds[i])); got != want {
			t.Errorf("load %d (%s) size = %d, want %d", i, l.Command(), got, want)
		}
	}
	if got, want := f.EndOffset, int64(im.DataOffset()); got != want {
		t.Errorf("EndOffset = %#x, want %#x", got, want)
	}

	wantTypes := []string{"*macho.LoadCmdBytes", "*macho.Segment", "*macho.LoadCmdBytes", "*macho.Dysymtab", "*macho.LoadCmdBytes", "*macho.BuildVersion", "*macho.LoadCmdBytes"}
	for i, l := range f.Loads {
		if got := fmt.Sprintf("%T", l); got != wantTypes[i] {
			t.Errorf("load %d is %s, want %s", i, got, wantTypes[i])
		}
	}
	if bv := f.BuildVersion(); bv == nil || !bytes.Equal(bv.Raw(), im.Cmds[5][8:]) {
		t.Errorf("BuildVersion() = %v, want payload % x", bv, im.Cmds[5][8:])
	}
}

func TestNewFileUnknownCommandSkip(t *testing.T) {
	for _, tag := range []uint32{0x0, 0x1b, 0x80000022, 0xffffffff} {
		im := machotest.New64()
		im.Add(machotest.CmdSized(tag, 40, bytes.Repeat([]byte{0xff}, 32)))
		im.Add(machotest.CmdSized(0x1b, 24, make([]byte, 16)))

		f, err := NewFile(im.Reader())
		if err != nil {
			t.Fatalf("tag %#x: NewFile() error = %v", tag, err)
		}
		if got := f.Loads[1].CommandOffset() - f.Loads[0].CommandOffset(); got != 40 {
			t.Errorf("tag %#x: next command %d bytes later, want 40", tag, got)
		}
	}
}

func TestNewFileSegment64(t *testing.T) {
	sects := []machotest.Sect{
		{Name: "__text", Seg: "__TEXT", Addr: 0x100000f50, Size: 0x3a, Offset: 0xf50, Align: 4, Flags: 0x80000400},
		{Name: "__stubs", Seg: "__TEXT", Addr: 0x100000f8a, Size: 0x6, Offset: 0xf8a, Align: 1, Flags: 0x80000408, Reserved2: 6},
		{Name: "__cstring", Seg: "__TEXT", Addr: 0x100000f90, Size: 0xd, Offset: 0xf90, Flags: 0x2, Rsvd3: 9},
	}
	im := machotest.New64()
	im.Add(machotest.Segment(true, machotest.Seg{
		Name: "__TEXT", Addr: 0x100000000, Memsz: 0x1000, Filesz: 0x1000,
		Maxprot: 5, Prot: 5, Sects: sects,
	}))
	im.Add(machotest.CmdSized(0x1b, 24, make([]byte, 16)))

	f, err := NewFile(im.Reader())
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	seg := f.Segment("__TEXT")
	if seg == nil {
		t.Fatal("Segment(__TEXT) = nil")
	}
	if seg.Nsect != 3 || len(seg.Sections) != 3 {
		t.Fatalf("got nsect=%d sections=%d, want 3", seg.Nsect, len(seg.Sections))
	}
	if seg.LoadCmd != types.LC_SEGMENT_64 || seg.Len != 72+3*80 {
		t.Errorf("segment cmd=%s len=%d", seg.LoadCmd, seg.Len)
	}
	if seg.Prot.String() != "r-x" || seg.Maxprot.String() != "r-x" {
		t.Errorf("Prot = %s, Maxprot = %s, want r-x", seg.Prot, seg.Maxprot)
	}
	want := []*Section{
		{Name: segName("__text"), Seg: segName("__TEXT"), Addr: 0x100000f50, Size: 0x3a, Offset: 0xf50, Align: 4, Flags: 0x80000400},
		{Name: segName("__stubs"), Seg: segName("__TEXT"), Addr: 0x100000f8a, Size: 0x6, Offset: 0xf8a, Align: 1, Flags: 0x80000408, Reserved2: 6},
		{Name: segName("__cstring"), Seg: segName("__TEXT"), Addr: 0x100000f90, Size: 0xd, Offset: 0xf90, Flags: 0x2, Reserved3: 9},
	}
	if diff := cmp.Diff(want, f.Sections); diff != "" {
		t.Errorf("Sections mismatch (-want +got):\n%s", diff)
	}
	if s := f.Section("__TEXT", "__stubs"); s == nil || s.Reserved2 != 6 {
		t.Errorf("Section(__TEXT, __stubs) = %v", s)
	}
	if got, want := f.Loads[1].CommandOffset(), im.CmdOffset(1); got != want {
		t.Errorf("command after segment at %#x, want %#x", got, want)
	}
}

func TestNewFileSegment32(t *testing.T) {
	im := machotest.New32()
	im.Add(machotest.Segment(false, machotest.Seg{
		Name: "__DATA", Addr: 0x2000, Memsz: 0x1000, Offset: 0x1000, Filesz: 0x1000,
		Maxprot: 7, Prot: 3, Flag: 0x4,
		Sects: []machotest.Sect{{Name: "__data", Seg: "__DATA", Addr: 0x2000, Size: 0x14, Offset: 0x1000, Align: 2}},
	}))

	f, err := NewFile(im.Reader())
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	segs := f.Segments()
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Len != 56+68 || segs[0].Offset != 0x1000 || segs[0].Prot.String() != "rw-" {
		t.Errorf("segment = %s", segs[0])
	}
	if segs[0].Maxprot.String() != "rwx" || segs[0].Flag != types.NoReLoc {
		t.Errorf("Maxprot = %s, Flag = %s", segs[0].Maxprot, segs[0].Flag.Flags())
	}
	want := &Section{Name: segName("__data"), Seg: segName("__DATA"), Addr: 0x2000, Size: 0x14, Offset: 0x1000, Align: 2}
	if diff := cmp.Diff(want, f.Section("__DATA", "__data")); diff != "" {
		t.Errorf("Section mismatch (-want +got):\n%s", diff)
	}
	if f.EndOffset != int64(im.DataOffset()) {
		t.Errorf("EndOffset = %#x, want %#x", f.EndOffset, im.DataOffset())
	}
}

// symtabImage lays out a segment, a symtab and a trailing command, with the
// string table `\0Alice\0Bob\0\0` followed by the symbols in the data area.
func symtabImage(is64 bool) *machotest.Image {
	im := machotest.New64()
	if !is64 {
		im = machotest.New32()
	}
	im.Add(machotest.Segment(is64, machotest.Seg{Name: "__TEXT"}))
	dataOff := im.DataOffset() + machotest.SymtabCmdSize + 24

	strtab := []byte("\x00Alice\x00Bob\x00\x00")
	var syms []byte
	syms = append(syms, machotest.Nlist(is64, 1, 0x0f, 1, 0, 0x1000)...)
	syms = append(syms, machotest.Nlist(is64, 7, 0x01, 0, 0x0100, 0)...)

	im.Add(machotest.Symtab(dataOff+uint32(len(strtab)), 2, dataOff, uint32(len(strtab))))
	im.Add(machotest.CmdSized(0x1b, 24, make([]byte, 16)))
	im.Data = append(strtab, syms...)
	return im
}

func TestNewFileSymtab(t *testing.T) {
	for _, is64 := range []bool{true, false} {
		im := symtabImage(is64)
		f, err := NewFile(im.Reader())
		if err != nil {
			t.Fatalf("is64=%v: NewFile() error = %v", is64, err)
		}
		if f.Symtab == nil {
			t.Fatalf("is64=%v: Symtab = nil", is64)
		}
		wantStrings := []StringEntry{{Index: 1, Text: "Alice"}, {Index: 7, Text: "Bob"}}
		if diff := cmp.Diff(wantStrings, f.Symtab.Strings); diff != "" {
			t.Errorf("is64=%v: Strings mismatch (-want +got):\n%s", is64, diff)
		}
		wantSyms := []Symbol{
			{Name: "Alice", Strx: 1, Type: 0x0f, Sect: 1, Value: 0x1000},
			{Name: "Bob", Strx: 7, Type: 0x01, Desc: 0x0100},
		}
		if diff := cmp.Diff(wantSyms, f.Symtab.Syms); diff != "" {
			t.Errorf("is64=%v: Syms mismatch (-want +got):\n%s", is64, diff)
		}
		// the symtab passes jumped into the data area; the next command
		// must still be found right after the symtab command
		if got, want := f.Loads[2].CommandOffset(), im.CmdOffset(2); got != want {
			t.Errorf("is64=%v: command after symtab at %#x, want %#x", is64, got, want)
		}
		if got, want := f.EndOffset, int64(im.DataOffset()); got != want {
			t.Errorf("is64=%v: EndOffset = %#x, want %#x", is64, got, want)
		}
	}
}

func TestSymtabResolveRestoresCursor(t *testing.T) {
	data := []byte("\x00Alice\x00Bob\x00\x00")
	data = append(data, machotest.Nlist(true, 7, 0x0e, 1, 0, 0x4000)...)

	tests := []struct {
		name    string
		data    []byte
		cmd     types.SymtabCmd
		wantErr bool
	}{
		{"ok", data, types.SymtabCmd{Symoff: 12, Nsyms: 1, Stroff: 0, Strsize: 12}, false},
		{"symbols run off the end", data, types.SymtabCmd{Symoff: 12, Nsyms: 3, Stroff: 0, Strsize: 12}, true},
		{"string table runs off the end", []byte("\x00abcdefgh"), types.SymtabCmd{Stroff: 0, Strsize: 0x1000}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := stream.NewReader(bytes.NewReader(tt.data))
			if err := sr.SeekTo(5); err != nil {
				t.Fatal(err)
			}
			st := &Symtab{SymtabCmd: tt.cmd}
			err := st.resolve(sr, true)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrTruncated) {
				t.Errorf("resolve() error = %v, want ErrTruncated", err)
			}
			if got := sr.Offset(); got != 5 {
				t.Errorf("cursor at %d after resolve, want 5", got)
			}
			if !tt.wantErr && (len(st.Syms) != 1 || st.Syms[0].Name != "Bob") {
				t.Errorf("Syms = %v, want Bob", st.Syms)
			}
		})
	}
}

func TestSymbolNamePastEnd(t *testing.T) {
	data := machotest.Nlist(false, 0x100, 0x01, 0, 0, 0)
	sr := stream.NewReader(bytes.NewReader(data))
	st := &Symtab{SymtabCmd: types.SymtabCmd{Symoff: 0, Nsyms: 1, Stroff: 0, Strsize: 0}}
	if err := st.resolve(sr, false); err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if len(st.Syms) != 1 || st.Syms[0].Name != "" {
		t.Errorf("Syms = %v, want one unnamed symbol", st.Syms)
	}
}

func TestNewFileDysymtab(t *testing.T) {
	var fields [18]uint32
	for i := range fields {
		fields[i] = uint32(i + 1)
	}
	im := machotest.New64()
	im.Add(machotest.Dysymtab(fields))

	f, err := NewFile(im.Reader())
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if f.Dysymtab == nil {
		t.Fatal("Dysymtab = nil")
	}
	want := types.DysymtabCmd{
		LoadCmd: types.LC_DYSYMTAB, Len: machotest.DysymtabCmdSize,
		Ilocalsym: 1, Nlocalsym: 2, Iextdefsym: 3, Nextdefsym: 4, Iundefsym: 5, Nundefsym: 6,
		Tocoffset: 7, Ntoc: 8, Modtaboff: 9, Nmodtab: 10, Extrefsymoff: 11, Nextrefsyms: 12,
		Indirectsymoff: 13, Nindirectsyms: 14, Extreloff: 15, Nextrel: 16, Locreloff: 17, Nlocrel: 18,
	}
	if diff := cmp.Diff(want, f.Dysymtab.DysymtabCmd); diff != "" {
		t.Errorf("Dysymtab mismatch (-want +got):\n%s", diff)
	}
}

func TestNewFileMalformed(t *testing.T) {
	one := uint32(1)
	tests := []struct {
		name string
		cmd  []byte
		data []byte
	}{
		{"size below header", machotest.CmdSized(0x1b, 4, nil), make([]byte, 16)},
		{"symtab larger than its size", machotest.CmdSized(machotest.LCSymtab, 16, make([]byte, 16)), nil},
		{"sections past segment size", machotest.Segment(true, machotest.Seg{Name: "__TEXT", Nsect: &one}), make([]byte, 80)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := machotest.New64()
			im.Add(tt.cmd)
			im.Data = tt.data
			_, err := NewFile(im.Reader())
			if !errors.Is(err, ErrMalformedLoadCommand) {
				t.Fatalf("NewFile() error = %v, want ErrMalformedLoadCommand", err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) || fe.Off != int64(im.HeaderSize()) {
				t.Errorf("NewFile() error = %v, want *FormatError at %#x", err, im.HeaderSize())
			}
		})
	}
}

func TestNewFileTruncated(t *testing.T) {
	full := symtabImage(true).Bytes()
	im := machotest.New64()
	im.Add(machotest.Segment(true, machotest.Seg{Name: "__TEXT", Sects: []machotest.Sect{{Name: "__text", Seg: "__TEXT"}}}))
	seg := im.Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"inside header", full[:10]},
		{"missing reserved word", full[:30]},
		{"missing command table", full[:32]},
		{"inside segment", seg[:32+40]},
		{"inside section", seg[:len(seg)-4]},
		{"inside string table", full[:len(full)-40]},
		{"inside symbols", full[:len(full)-4]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFile(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrTruncated) {
				t.Fatalf("NewFile() error = %v, want ErrTruncated", err)
			}
		})
	}
}

func TestNewFileLoadFilter(t *testing.T) {
	im := symtabImage(true)
	f, err := NewFile(im.Reader(), FileConfig{LoadFilter: []types.LoadCmd{types.LC_SYMTAB}})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if _, ok := f.Loads[0].(*LoadCmdBytes); !ok {
		t.Errorf("segment was decoded: %s", f.Loads[0])
	}
	if len(f.Sections) != 0 || f.Segment("__TEXT") != nil {
		t.Errorf("filtered segment left sections behind")
	}
	if f.Symtab == nil || len(f.Symtab.Syms) != 2 {
		t.Errorf("Symtab = %v, want 2 symbols", f.Symtab)
	}
	if f.EndOffset != int64(im.DataOffset()) {
		t.Errorf("EndOffset = %#x, want %#x", f.EndOffset, im.DataOffset())
	}
}

func TestOpen(t *testing.T) {
	name := filepath.Join(t.TempDir(), "a.out")
	if err := os.WriteFile(name, symtabImage(true).Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Open(name)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()
	if f.Symtab == nil || f.Symtab.Syms[0].Name != "Alice" {
		t.Errorf("Symtab = %v", f.Symtab)
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOpenFailure(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("Open() of a missing file succeeded")
	}
	name := filepath.Join(t.TempDir(), "not-macho")
	if err := os.WriteFile(name, []byte("#!/bin/sh\necho hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(name); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Open() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestNewFileResyncAfterDecodedCommand(t *testing.T) {
	padded := func(cmd []byte, extra int) []byte {
		out := append([]byte(nil), cmd...)
		size := uint32(len(cmd) + extra)
		out[4], out[5], out[6], out[7] = byte(size), byte(size>>8), byte(size>>16), byte(size>>24)
		return append(out, bytes.Repeat([]byte{0xee}, extra)...)
	}

	im := machotest.New64()
	im.Add(padded(machotest.Segment(true, machotest.Seg{
		Name:  "__TEXT",
		Sects: []machotest.Sect{{Name: "__text", Seg: "__TEXT", Size: 0x10}},
	}), 24))
	im.Add(padded(machotest.Dysymtab([18]uint32{1, 2}), 16))
	im.Add(padded(machotest.Symtab(0, 0, 0, 0), 8))
	im.Add(machotest.CmdSized(0x1b, 24, make([]byte, 16)))

	f, err := NewFile(im.Reader())
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	wantSizes := []uint32{72 + 80 + 24, 80 + 16, 24 + 8, 24}
	for i, l := range f.Loads {
		if got, want := l.CommandOffset(), im.CmdOffset(i); got != want {
			t.Errorf("load %d (%s) at %#x, want %#x", i, l.Command(), got, want)
		}
		if l.LoadSize() != wantSizes[i] {
			t.Errorf("load %d (%s) size = %d, want %d", i, l.Command(), l.LoadSize(), wantSizes[i])
		}
	}
	if len(f.Sections) != 1 || f.Sections[0].Size != 0x10 {
		t.Errorf("Sections = %v", f.Sections)
	}
	if f.Dysymtab == nil || f.Dysymtab.Nlocalsym != 2 {
		t.Errorf("Dysymtab = %v", f.Dysymtab)
	}
	if f.Loads[3].Command() != types.LC_UUID {
		t.Errorf("last load = %s, want LC_UUID", f.Loads[3].Command())
	}
	if got, want := f.EndOffset, int64(im.DataOffset()); got != want {
		t.Errorf("EndOffset = %#x, want %#x", got, want)
	}
}

func TestLoadStrings(t *testing.T) {
	var fields [18]uint32
	for i := range fields {
		fields[i] = uint32(i + 1)
	}
	im := machotest.New64()
	im.Add(machotest.Segment(true, machotest.Seg{
		Name: "__TEXT", Addr: 0x100000000, Memsz: 0x1000, Filesz: 0x1000, Maxprot: 5, Prot: 5,
		Sects: []machotest.Sect{{Name: "__text", Seg: "__TEXT", Addr: 0x100000f50, Size: 0x3a, Offset: 0xf50}},
	}))
	im.Add(machotest.Dysymtab(fields))
	im.Add(machotest.Cmd(machotest.LCBuildVersion, []byte{1, 0, 0, 0, 0, 0, 0x0e, 0}))
	dataOff := im.DataOffset() + machotest.SymtabCmdSize + 24
	strtab := []byte("\x00Alice\x00\x00")
	im.Add(machotest.Symtab(dataOff+uint32(len(strtab)), 1, dataOff, uint32(len(strtab))))
	im.Add(machotest.CmdSized(machotest.LCUUID, 24, make([]byte, 16)))
	im.Data = append(strtab, machotest.Nlist(true, 1, 0x0f, 1, 0, 0x1000)...)

	f, err := NewFile(im.Reader())
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if len(f.Loads) != 5 || f.Symtab == nil || len(f.Symtab.Syms) != 1 {
		t.Fatalf("decoded %d loads, symtab %v", len(f.Loads), f.Symtab)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"header", f.FileHeader.String(), "Magic         = 64-bit MachO\n" +
			"Type          = MH_OBJECT\n" +
			"CPU           = Amd64, All x86 processors.\n" +
			"Commands      = 5 (Size: 296)\n" +
			"Flags         = None\n"},
		{"segment", f.Loads[0].String(), "LC_SEGMENT_64: sz=0x00001000 off=0x00000000-0x00001000 addr=0x100000000-0x100001000 r-x/r-x   __TEXT              1 sections"},
		{"section", f.Sections[0].String(), "sz=0x0000003a off=0x00000f50-0x00000f8a addr=0x100000f50-0x100000f8a\t\t__TEXT.__text"},
		{"dysymtab", f.Loads[1].String(), "2 local symbols at index 1, 4 external symbols at index 3, 6 undefined symbols at index 5, " +
			"8 at 0x00000007 TOC, 10 at 0x00000009 modtab, 12 at 0x0000000b external references, " +
			"14 at 0x0000000d indirect symbols, 16 at 0x0000000f external relocations, 18 at 0x00000011 local relocations"},
		{"build version", f.Loads[2].String(), "LC_BUILD_VERSION: [1 0 0 0 0 0 e 0]"},
		{"symtab", f.Loads[3].String(), "Symbol offset=0x00000150, Num Syms: 1, String offset=0x00000148-0x00000150"},
		{"skipped", f.Loads[4].String(), "LC_UUID: skipped 16 bytes"},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, tt.got); diff != "" {
			t.Errorf("%s String() mismatch (-want +got):\n%s", tt.name, diff)
		}
	}

	sym := f.Symtab.Syms[0].String()
	if !strings.HasPrefix(sym, "0x0000000000001000 \t <type:SECT|EXT,sect:1,") || !strings.HasSuffix(sym, "> \t Alice") {
		t.Errorf("Symbol.String() = %q", sym)
	}
}
