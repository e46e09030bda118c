package macho

import (
	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/appsworld/print-macho/pkg/stream"
	"github.com/appsworld/print-macho/types"
)

func (f *File) readSymtab(sr *stream.Reader, siz uint32, start int64) (*Symtab, error) {
	st := new(Symtab)
	st.LoadCmd = types.LC_SYMTAB
	st.Len = siz
	st.CmdOff = start

	for _, field := range []*uint32{&st.Symoff, &st.Nsyms, &st.Stroff, &st.Strsize} {
		v, err := sr.Uint32()
		if err != nil {
			return nil, errors.Wrap(err, "failed to read symtab command")
		}
		*field = v
	}

	if err := st.resolve(sr, f.Is64()); err != nil {
		return nil, err
	}

	return st, nil
}

// resolve reads the string table and the symbol records the command points
// at. Each pass runs under its own saved cursor so the caller's position is
// unchanged when resolve returns, also on error.
func (st *Symtab) resolve(sr *stream.Reader, is64 bool) error {
	ctx := log.WithFields(log.Fields{
		"symoff":  st.Symoff,
		"nsyms":   st.Nsyms,
		"stroff":  st.Stroff,
		"strsize": st.Strsize,
		"nlist":   types.NlistSize(is64),
	})

	if st.Strsize > 1 {
		if err := sr.At(int64(st.Stroff)+1, st.readStrings); err != nil {
			return errors.Wrapf(err, "failed to read string table at %#x", st.Stroff)
		}
	}
	ctx.Debugf("read %d string table entries", len(st.Strings))

	err := sr.At(int64(st.Symoff), func(sr *stream.Reader) error {
		for i := uint32(0); i < st.Nsyms; i++ {
			sym, err := st.readSymbol(sr, is64)
			if err != nil {
				return errors.Wrapf(err, "failed to read symbol %d", i)
			}
			ctx.Debug(sym.String())
			st.Syms = append(st.Syms, sym)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to read symbol table at %#x", st.Symoff)
	}
	ctx.Debugf("read %d symbols", len(st.Syms))

	return nil
}

// readStrings splits the string table into entries. The scan starts one
// byte past the table start and stops at the first empty entry.
func (st *Symtab) readStrings(sr *stream.Reader) error {
	var text []byte
	entryStart := uint32(1)
	for n := uint32(1); n < st.Strsize; n++ {
		c, err := sr.Uint8()
		if err != nil {
			return err
		}
		if c != 0 {
			if len(text) == 0 {
				entryStart = n
			}
			text = append(text, c)
			continue
		}
		if len(text) == 0 {
			return nil
		}
		st.Strings = append(st.Strings, StringEntry{Index: entryStart, Text: string(text)})
		text = text[:0]
	}
	// unterminated tail
	if len(text) > 0 {
		st.Strings = append(st.Strings, StringEntry{Index: entryStart, Text: string(text)})
	}
	return nil
}

func (st *Symtab) readSymbol(sr *stream.Reader, is64 bool) (Symbol, error) {
	var (
		n   types.Nlist64
		err error
	)
	if n.Name, err = sr.Uint32(); err != nil {
		return Symbol{}, err
	}
	typ, err := sr.Uint8()
	if err != nil {
		return Symbol{}, err
	}
	n.Type = types.NType(typ)
	if n.Sect, err = sr.Uint8(); err != nil {
		return Symbol{}, err
	}
	desc, err := sr.Uint16()
	if err != nil {
		return Symbol{}, err
	}
	n.Desc = types.NDescType(desc)
	if n.Value, err = sr.Addr(is64); err != nil {
		return Symbol{}, err
	}

	var name string
	err = sr.At(int64(st.Stroff)+int64(n.Name), func(sr *stream.Reader) (err error) {
		name, err = sr.CString()
		return err
	})
	if err != nil {
		return Symbol{}, errors.Wrapf(err, "failed to read symbol name at string index %#x", n.Name)
	}

	return Symbol{
		Name:  name,
		Strx:  n.Name,
		Type:  n.Type,
		Sect:  n.Sect,
		Desc:  n.Desc,
		Value: n.Value,
	}, nil
}

func readDysymtab(sr *stream.Reader, siz uint32, start int64) (*Dysymtab, error) {
	d := new(Dysymtab)
	d.LoadCmd = types.LC_DYSYMTAB
	d.Len = siz
	d.CmdOff = start
	for _, field := range d.Fields() {
		v, err := sr.Uint32()
		if err != nil {
			return nil, errors.Wrap(err, "failed to read dysymtab command")
		}
		*field = v
	}
	return d, nil
}
