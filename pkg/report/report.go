// Package report renders a decoded Mach-O file as the plain text dump
// printed by print-macho.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	macho "github.com/appsworld/print-macho"
	"github.com/appsworld/print-macho/types"
)

// Options selects the parts of the report that are written.
type Options struct {
	Header  bool // the mach header block
	Loads   bool // command rows plus segment, section, dysymtab and build version blocks
	Symbols bool // the symtab block and one row per symbol
	Strings bool // the string table entries
}

// All enables every part of the report.
var All = Options{Header: true, Loads: true, Symbols: true, Strings: true}

// Write renders f to w. Commands are reported in file order, each row
// followed by the block of the command it describes.
func Write(w io.Writer, f *macho.File, opts Options) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 0, ' ', tabwriter.AlignRight|tabwriter.StripEscape)

	if opts.Header {
		writeHeader(tw, &f.FileHeader)
	}

	for _, l := range f.Loads {
		if opts.Loads {
			fmt.Fprintf(tw, "  %08x %08x  %s\n", uint32(l.Command()), l.LoadSize(), l.Command())
		}
		switch l := l.(type) {
		case *macho.Segment:
			if opts.Loads {
				writeSegment(tw, l)
				for _, s := range l.Sections {
					writeSection(tw, s)
				}
			}
		case *macho.Symtab:
			// rows hold raw file text, keep them away from the tabwriter
			if err := tw.Flush(); err != nil {
				return err
			}
			if err := writeSymtab(tw, &buf, l, opts); err != nil {
				return err
			}
		case *macho.Dysymtab:
			if opts.Loads {
				writeDysymtab(tw, l)
			}
		case *macho.BuildVersion:
			if opts.Loads {
				writeBuildVersion(tw, l)
			}
		}
	}

	fmt.Fprintf(tw, "file offset: 0x%x\n", f.EndOffset)

	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func writeHeader(w io.Writer, h *types.FileHeader) {
	var bits string
	if h.Is64() {
		bits = " 64bit"
	}
	fmt.Fprintf(w, " -- MachO Header --\n")
	fmt.Fprintf(w, "magic_number:\t 0x%x (%s)\n", uint32(h.Magic), h.Magic)
	fmt.Fprintf(w, "cpu_type:\t 0x%04x (%s%s)\n", uint32(h.CPU), h.CPU.Label(), bits)
	fmt.Fprintf(w, "cpu_subtype:\t 0x%04x (%s)\n", uint32(h.SubCPU), h.SubCPU.String(h.CPU))
	fmt.Fprintf(w, "file_type:\t %d (%s)\n", uint32(h.Type), h.Type.Label())
	fmt.Fprintf(w, "load_command_count:\t %d\n", h.NCommands)
	fmt.Fprintf(w, "load_command_size:\t %d\n", h.SizeCommands)
	fmt.Fprintf(w, "flags:\t %d (%s)\n", uint32(h.Flags), h.Flags.Flags())
	fmt.Fprintf(w, "reserved:\t %d\n", h.Reserved)
	fmt.Fprintln(w)
}

func writeSegment(w io.Writer, s *macho.Segment) {
	fmt.Fprintf(w, " -- Segment Load --\n")
	fmt.Fprintf(w, "name:\t %s\n", cell(fmt.Sprintf("%-16s", s.Name)))
	fmt.Fprintf(w, "address:\t 0x%x\n", s.Addr)
	fmt.Fprintf(w, "address_size:\t %d\n", s.Memsz)
	fmt.Fprintf(w, "file_offset:\t 0x%x\n", s.Offset)
	fmt.Fprintf(w, "file_size:\t %d\n", s.Filesz)
	fmt.Fprintf(w, "protection_max:\t %d (%s)\n", s.Maxprot, s.Maxprot)
	fmt.Fprintf(w, "protection_initial:\t %d (%s)\n", s.Prot, s.Prot)
	fmt.Fprintf(w, "section_count:\t %d\n", s.Nsect)
	fmt.Fprintf(w, "flag:\t %d (%s)\n", uint32(s.Flag), s.Flag.Flags())
	fmt.Fprintln(w)
}

func writeSection(w io.Writer, s *macho.Section) {
	fmt.Fprintf(w, " -- Section --\n")
	fmt.Fprintf(w, "section_name:\t %s\n", cell(fmt.Sprintf("%-16s", s.Name)))
	fmt.Fprintf(w, "segment_name:\t %s\n", cell(fmt.Sprintf("%-16s", s.Seg)))
	fmt.Fprintf(w, "address:\t 0x%04x\n", s.Addr)
	fmt.Fprintf(w, "size:\t %d\n", s.Size)
	fmt.Fprintf(w, "offset:\t %d\n", s.Offset)
	fmt.Fprintf(w, "align:\t %d\n", s.Align)
	fmt.Fprintf(w, "relocation_offset:\t %d\n", s.Reloff)
	fmt.Fprintf(w, "relocation_count:\t %d\n", s.Nreloc)
	fmt.Fprintf(w, "flags:\t %d\n", s.Flags)
	fmt.Fprintf(w, "reserved1:\t %d\n", s.Reserved1)
	fmt.Fprintf(w, "reserved2:\t %d\n", s.Reserved2)
	fmt.Fprintf(w, "reserved3:\t %d\n", s.Reserved3)
	fmt.Fprintln(w)
}

// writeSymtab writes the symtab block through tw and the string and symbol
// rows straight to raw. tw must be flushed before rows are written.
func writeSymtab(tw *tabwriter.Writer, raw io.Writer, st *macho.Symtab, opts Options) error {
	if !opts.Symbols && !opts.Strings {
		return nil
	}
	if opts.Symbols {
		fmt.Fprintf(tw, " -- Symbol Table --\n")
		fmt.Fprintf(tw, "symbol_table_offset:\t 0x%04x\n", st.Symoff)
		fmt.Fprintf(tw, "symbol_count:\t %d\n", st.Nsyms)
		fmt.Fprintf(tw, "string_table_offset:\t 0x%04x\n", st.Stroff)
		fmt.Fprintf(tw, "string_table_size:\t %d\n", st.Strsize)
		fmt.Fprintln(tw)
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if opts.Strings {
		for _, s := range st.Strings {
			fmt.Fprintf(raw, "%d) %s\n", s.Index, s.Text)
		}
		fmt.Fprintln(raw)
	}
	if opts.Symbols {
		for _, sym := range st.Syms {
			fmt.Fprintf(raw, "0x%04x 0x%02x 0x%02x 0x%04x 0x%08x %s\n",
				sym.Strx, uint8(sym.Type), sym.Sect, uint16(sym.Desc), sym.Value, sym.Name)
		}
		fmt.Fprintln(raw)
	}
	return nil
}

func writeDysymtab(w io.Writer, d *macho.Dysymtab) {
	fmt.Fprintf(w, " -- Dysymtab --\n")
	fmt.Fprintf(w, "local_sym_index:\t %d\n", d.Ilocalsym)
	fmt.Fprintf(w, "local_sym_count:\t %d\n", d.Nlocalsym)
	fmt.Fprintf(w, "external_sym_index:\t %d\n", d.Iextdefsym)
	fmt.Fprintf(w, "external_sym_count:\t %d\n", d.Nextdefsym)
	fmt.Fprintf(w, "undefined_sym_index:\t %d\n", d.Iundefsym)
	fmt.Fprintf(w, "undefined_sym_count:\t %d\n", d.Nundefsym)
	fmt.Fprintf(w, "toc_offset:\t 0x%04x\n", d.Tocoffset)
	fmt.Fprintf(w, "toc_count:\t %d\n", d.Ntoc)
	fmt.Fprintf(w, "mod_table_offset:\t 0x%04x\n", d.Modtaboff)
	fmt.Fprintf(w, "mod_count:\t %d\n", d.Nmodtab)
	fmt.Fprintf(w, "ref_sym_offset:\t 0x%04x\n", d.Extrefsymoff)
	fmt.Fprintf(w, "ref_sym_count:\t %d\n", d.Nextrefsyms)
	fmt.Fprintf(w, "indirect_sym_index:\t %d\n", d.Indirectsymoff)
	fmt.Fprintf(w, "indirect_sym_count:\t %d\n", d.Nindirectsyms)
	fmt.Fprintf(w, "external_reloc_offset:\t 0x%04x\n", d.Extreloff)
	fmt.Fprintf(w, "external_reloc_count:\t %d\n", d.Nextrel)
	fmt.Fprintf(w, "local_reloc_offset:\t 0x%04x\n", d.Locreloff)
	fmt.Fprintf(w, "local_reloc_count:\t %d\n", d.Nlocrel)
	fmt.Fprintln(w)
}

// writeBuildVersion dumps the payload eight bytes per row.
func writeBuildVersion(w io.Writer, b *macho.BuildVersion) {
	fmt.Fprintf(w, " -- Build Version --\n")
	raw := b.Raw()
	for len(raw) > 0 {
		n := min(len(raw), 8)
		var row strings.Builder
		for _, c := range raw[:n] {
			fmt.Fprintf(&row, " %02x", c)
		}
		fmt.Fprintln(w, row.String())
		raw = raw[n:]
	}
	fmt.Fprintln(w)
}

// cell escapes file text placed in a tabwriter cell so that tabs in it are
// printed as is. The escape byte itself can't be escaped and becomes U+FFFD.
func cell(s string) string {
	esc := string([]byte{tabwriter.Escape})
	return esc + strings.ReplaceAll(s, esc, "\uFFFD") + esc
}
