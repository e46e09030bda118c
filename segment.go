package macho

import (
	"fmt"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/appsworld/print-macho/pkg/stream"
	"github.com/appsworld/print-macho/types"
)

// on-disk sizes of a section record, by bit width
const (
	sectionSize32 = 16 + 16 + 2*4 + 7*4
	sectionSize64 = 16 + 16 + 2*8 + 8*4
)

func (f *File) readSegment(sr *stream.Reader, cmd types.LoadCmd, siz uint32, start int64) (*Segment, error) {
	is64 := f.Is64()

	s := new(Segment)
	s.LoadCmd = cmd
	s.Len = siz
	s.CmdOff = start

	if err := sr.ReadFull(s.Name[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read segment name")
	}
	for _, field := range []*uint64{&s.Addr, &s.Memsz, &s.Offset, &s.Filesz} {
		v, err := sr.Addr(is64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read segment %s", s.Name)
		}
		*field = v
	}
	var prot [2]uint32
	for _, field := range []*uint32{
		&prot[0],
		&prot[1],
		&s.Nsect,
		(*uint32)(&s.Flag),
	} {
		v, err := sr.Uint32()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read segment %s", s.Name)
		}
		*field = v
	}
	s.Maxprot = types.VmProtection(prot[0])
	s.Prot = types.VmProtection(prot[1])

	secsz := int64(sectionSize32)
	if is64 {
		secsz = sectionSize64
	}
	if need := int64(s.Nsect) * secsz; sr.Offset()+need > start+int64(siz) {
		return nil, &FormatError{start, fmt.Sprintf("segment %s declares %d sections (%d bytes) that do not fit", s.Name, s.Nsect, need), siz, ErrMalformedLoadCommand}
	}

	for i := uint32(0); i < s.Nsect; i++ {
		sh, err := readSection(sr, is64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read section %d of segment %s", i, s.Name)
		}
		log.WithField("segment", s.Name.String()).Debug(sh.String())
		s.Sections = append(s.Sections, sh)
	}

	return s, nil
}

func readSection(sr *stream.Reader, is64 bool) (*Section, error) {
	sh := new(Section)
	if err := sr.ReadFull(sh.Name[:]); err != nil {
		return nil, err
	}
	if err := sr.ReadFull(sh.Seg[:]); err != nil {
		return nil, err
	}
	var err error
	if sh.Addr, err = sr.Addr(is64); err != nil {
		return nil, err
	}
	if sh.Size, err = sr.Addr(is64); err != nil {
		return nil, err
	}
	fields := []*uint32{
		&sh.Offset,
		&sh.Align,
		&sh.Reloff,
		&sh.Nreloc,
		&sh.Flags,
		&sh.Reserved1,
		&sh.Reserved2,
	}
	// section_64 carries a third reserved word, section does not
	if is64 {
		fields = append(fields, &sh.Reserved3)
	}
	for _, field := range fields {
		if *field, err = sr.Uint32(); err != nil {
			return nil, err
		}
	}
	return sh, nil
}
