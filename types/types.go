package types

import (
	"bytes"
	"strconv"
)

// Unknown is the label rendered for codes missing from a label table.
const Unknown = "???"

type VmProtection int32

func (v VmProtection) Read() bool {
	return (v & 0x01) != 0
}

func (v VmProtection) Write() bool {
	return (v & 0x02) != 0
}

func (v VmProtection) Execute() bool {
	return (v & 0x04) != 0
}

func (v VmProtection) String() string {
	var protStr string
	if v.Read() {
		protStr += "r"
	} else {
		protStr += "-"
	}
	if v.Write() {
		protStr += "w"
	} else {
		protStr += "-"
	}
	if v.Execute() {
		protStr += "x"
	} else {
		protStr += "-"
	}
	return protStr
}

// SegName is a fixed 16 byte segment or section name as stored on disk.
// It is NUL padded but not necessarily NUL terminated.
type SegName [16]byte

func (n SegName) String() string {
	return string(bytes.TrimRight(n[:], "\x00"))
}

type intName struct {
	i uint32
	s string
}

func stringName(i uint32, names []intName) string {
	if s, ok := lookupName(i, names); ok {
		return s
	}
	return "0x" + strconv.FormatUint(uint64(i), 16)
}

// lookupName returns the label for i, or ok=false when i has no entry.
func lookupName(i uint32, names []intName) (string, bool) {
	for _, n := range names {
		if n.i == i {
			return n.s, true
		}
	}
	return "", false
}

// labelName is lookupName with the Unknown fallback.
func labelName(i uint32, names []intName) string {
	if s, ok := lookupName(i, names); ok {
		return s
	}
	return Unknown
}

// flagList names the bits of v found in names, in table order, followed by
// the leftover bits as hex. Zero is "None".
func flagList(v uint32, names []intName) []string {
	if v == 0 {
		return []string{"None"}
	}
	var flags []string
	for _, n := range names {
		if v&n.i != 0 {
			flags = append(flags, n.s)
			v &^= n.i
		}
	}
	if v != 0 {
		flags = append(flags, "0x"+strconv.FormatUint(uint64(v), 16))
	}
	return flags
}
