// Package macho decodes thin little-endian Mach-O object files: the mach
// header, the load command table, segments and their sections, and the
// symbol and dynamic symbol tables.
package macho

// High level access to low level data structures.

import (
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/appsworld/print-macho/pkg/stream"
	"github.com/appsworld/print-macho/types"
)

// A File represents an open Mach-O file.
type File struct {
	types.FileHeader
	Loads    []Load
	Sections []*Section

	Symtab   *Symtab
	Dysymtab *Dysymtab

	// EndOffset is where the cursor rested once the last load command was processed.
	EndOffset int64

	closer io.Closer
}

// FileConfig is a MachO file config object
type FileConfig struct {
	// LoadFilter restricts decoding to the listed commands. Every other
	// command is skipped and kept as a *LoadCmdBytes.
	LoadFilter []types.LoadCmd
}

func loadInSlice(c types.LoadCmd, list []types.LoadCmd) bool {
	for _, b := range list {
		if b == c {
			return true
		}
	}
	return false
}

// Open opens the named file using os.Open and prepares it for use as a Mach-O binary.
func Open(name string, config ...FileConfig) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	ff, err := NewFile(f, config...)
	if err != nil {
		f.Close()
		return nil, err
	}
	ff.closer = f
	return ff, nil
}

// Close closes the File.
// If the File was created using NewFile directly instead of Open,
// Close has no effect.
func (f *File) Close() error {
	var err error
	if f.closer != nil {
		err = f.closer.Close()
		f.closer = nil
	}
	return err
}

// NewFile decodes the Mach-O header and load commands from r in a single pass.
// The Mach-O binary is expected to start at position 0 in the ReadSeeker.
func NewFile(r io.ReadSeeker, config ...FileConfig) (*File, error) {
	var loadsFilter []types.LoadCmd
	if config != nil {
		loadsFilter = config[0].LoadFilter
	}

	sr := stream.NewReader(r)
	if err := sr.SeekTo(0); err != nil {
		return nil, err
	}

	f := new(File)
	if err := f.readHeader(sr); err != nil {
		return nil, err
	}
	if err := f.readLoads(sr, loadsFilter); err != nil {
		return nil, err
	}
	f.EndOffset = sr.Offset()

	return f, nil
}

func (f *File) readHeader(sr *stream.Reader) error {
	magic, err := sr.Uint32()
	if err != nil {
		return errors.Wrap(err, "failed to read magic")
	}
	f.Magic = types.Magic(magic)
	if !f.Magic.Valid() {
		return &FormatError{0, "invalid magic number", fmt.Sprintf("%#x", magic), ErrUnsupportedFormat}
	}

	fields := []*uint32{
		(*uint32)(&f.CPU),
		(*uint32)(&f.SubCPU),
		(*uint32)(&f.Type),
		&f.NCommands,
		&f.SizeCommands,
		(*uint32)(&f.Flags),
	}
	if f.Magic == types.Magic64 {
		fields = append(fields, &f.Reserved)
	}
	for _, field := range fields {
		if *field, err = sr.Uint32(); err != nil {
			return errors.Wrap(err, "failed to read header")
		}
	}

	log.Debugf("mach header:\n%s", f.FileHeader)

	if f.Is64() != (f.Magic == types.Magic64) {
		log.WithFields(log.Fields{
			"magic": f.Magic,
			"cpu":   fmt.Sprintf("%#x", uint32(f.CPU)),
		}).Warn("magic and cpu type disagree on the bit width, using the cpu type")
	}
	return nil
}

// readLoads walks the load command table. Whatever a command's decoder
// consumed, the cursor ends up exactly cmdsize bytes past the command start.
func (f *File) readLoads(sr *stream.Reader, loadsFilter []types.LoadCmd) error {
	f.Loads = make([]Load, 0, min(f.NCommands, 1024))

	for i := uint32(0); i < f.NCommands; i++ {
		start := sr.Offset()
		cmd, err := sr.Uint32()
		if err != nil {
			return errors.Wrapf(err, "failed to read load command %d", i)
		}
		siz, err := sr.Uint32()
		if err != nil {
			return errors.Wrapf(err, "failed to read load command %d size", i)
		}
		lc := types.LoadCmd(cmd)
		if siz < types.LoadCmdHeaderSize {
			return &FormatError{start, "invalid command block size", siz, ErrMalformedLoadCommand}
		}
		end := start + int64(siz)

		ctx := log.WithFields(log.Fields{
			"index":  i,
			"cmd":    lc,
			"size":   siz,
			"offset": fmt.Sprintf("%#x", start),
		})

		var l Load
		if len(loadsFilter) > 0 && !loadInSlice(lc, loadsFilter) {
			l = &LoadCmdBytes{LoadCmd: lc, Len: siz, CmdOff: start}
		} else {
			l, err = f.readLoad(sr, lc, siz, start)
			if err != nil {
				return errors.Wrapf(err, "failed to read %s (load command %d)", lc, i)
			}
		}

		ctx.Debug(l.String())

		switch pos := sr.Offset(); {
		case pos > end:
			return &FormatError{start, fmt.Sprintf("%s decoded %d bytes past its size", lc, pos-end), siz, ErrMalformedLoadCommand}
		case pos < end:
			if _, skipped := l.(*LoadCmdBytes); !skipped {
				ctx.Debugf("skipping %d trailing bytes", end-pos)
			}
			if err := sr.SeekTo(end); err != nil {
				return err
			}
		}

		f.Loads = append(f.Loads, l)
	}

	return nil
}

func (f *File) readLoad(sr *stream.Reader, cmd types.LoadCmd, siz uint32, start int64) (Load, error) {
	switch cmd {
	case types.LC_SEGMENT, types.LC_SEGMENT_64:
		s, err := f.readSegment(sr, cmd, siz, start)
		if err != nil {
			return nil, err
		}
		f.Sections = append(f.Sections, s.Sections...)
		return s, nil
	case types.LC_SYMTAB:
		st, err := f.readSymtab(sr, siz, start)
		if err != nil {
			return nil, err
		}
		f.Symtab = st
		return st, nil
	case types.LC_DYSYMTAB:
		dst, err := readDysymtab(sr, siz, start)
		if err != nil {
			return nil, err
		}
		f.Dysymtab = dst
		return dst, nil
	case types.LC_BUILD_VERSION:
		dat, err := sr.Bytes(int(siz - types.LoadCmdHeaderSize))
		if err != nil {
			return nil, err
		}
		return &BuildVersion{LoadCmd: cmd, Len: siz, CmdOff: start, LoadBytes: dat}, nil
	default:
		// the dispatch loop seeks past the body
		return &LoadCmdBytes{LoadCmd: cmd, Len: siz, CmdOff: start}, nil
	}
}

// Segment returns the first Segment with the given name, or nil if no such segment exists.
func (f *File) Segment(name string) *Segment {
	for _, l := range f.Loads {
		if s, ok := l.(*Segment); ok && s.Name.String() == name {
			return s
		}
	}
	return nil
}

// Segments returns all Segments.
func (f *File) Segments() []*Segment {
	var segs []*Segment
	for _, l := range f.Loads {
		if s, ok := l.(*Segment); ok {
			segs = append(segs, s)
		}
	}
	return segs
}

// Section returns the section with the given name in the given segment,
// or nil if no such section exists.
func (f *File) Section(segment, section string) *Section {
	for _, s := range f.Sections {
		if s.Seg.String() == segment && s.Name.String() == section {
			return s
		}
	}
	return nil
}

// BuildVersion returns the first LC_BUILD_VERSION command, or nil.
func (f *File) BuildVersion() *BuildVersion {
	for _, l := range f.Loads {
		if bv, ok := l.(*BuildVersion); ok {
			return bv
		}
	}
	return nil
}
