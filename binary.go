package x64enc

import (
	"encoding/binary"
	"fmt"
)

// Binary form of a Table (little-endian):
//
//	magic:       "X64E"
//	mnemonics:   uint16
//	encodables:  uint16
//	entries:     [mnemonics] { start uint16, count uint8 }
//	encodables:  [encodables] { ref uint16, opcode uint8, modrm uint8, bits uint24 }
const (
	binaryMagic     = "X64E"
	binaryHeaderLen = len(binaryMagic) + 2 + 2
	binaryEntryLen  = 3
	binaryRecordLen = 7
)

// MarshalBinary encodes the table in its persisted form. Each descriptor occupies 7 bytes, with the
// packed fields stored in 3 bytes.
func (t *Table) MarshalBinary() ([]byte, error) {
	if len(t.entries) > 0xffff || len(t.encodables) > 0xffff {
		return nil, fmt.Errorf("%w: table too large for the binary form", ErrDataIntegrity)
	}
	b := make([]byte, binaryHeaderLen, binaryHeaderLen+len(t.entries)*binaryEntryLen+len(t.encodables)*binaryRecordLen)
	copy(b, binaryMagic)
	binary.LittleEndian.PutUint16(b[4:], uint16(len(t.entries)))
	binary.LittleEndian.PutUint16(b[6:], uint16(len(t.encodables)))
	for _, entry := range t.entries {
		b = binary.LittleEndian.AppendUint16(b, entry.Start)
		b = append(b, entry.Count)
	}
	for _, e := range t.encodables {
		b = binary.LittleEndian.AppendUint16(b, e.ref)
		b = append(b, e.opcode, e.modrm, byte(e.bits), byte(e.bits>>8), byte(e.bits>>16))
	}
	return b, nil
}

// UnmarshalBinary decodes a table from its persisted form, replacing the receiver's contents. The
// decoded table is validated as by NewTable.
func (t *Table) UnmarshalBinary(data []byte) error {
	if len(data) < binaryHeaderLen || string(data[:4]) != binaryMagic {
		return fmt.Errorf("%w: missing table header", ErrDataIntegrity)
	}
	nentries := int(binary.LittleEndian.Uint16(data[4:]))
	nencs := int(binary.LittleEndian.Uint16(data[6:]))
	if want := binaryHeaderLen + nentries*binaryEntryLen + nencs*binaryRecordLen; len(data) != want {
		return fmt.Errorf("%w: table is %d bytes, expected %d", ErrDataIntegrity, len(data), want)
	}
	data = data[binaryHeaderLen:]

	entries := make([]LookupEntry, nentries)
	for i := range entries {
		entries[i] = LookupEntry{Start: binary.LittleEndian.Uint16(data), Count: data[2]}
		data = data[binaryEntryLen:]
	}
	encodables := make([]Encodable, nencs)
	for i := range encodables {
		bits := uint32(data[4]) | uint32(data[5])<<8 | uint32(data[6])<<16
		if bits>>packedBits != 0 {
			return fmt.Errorf("%w: descriptor %d has bits set beyond its packed fields", ErrDataIntegrity, i)
		}
		e := Encodable{ref: binary.LittleEndian.Uint16(data), opcode: data[2], modrm: data[3], bits: bits}
		if _, err := e.Unpack().Pack(); err != nil {
			return fmt.Errorf("descriptor %d: %w", i, err)
		}
		encodables[i] = e
		data = data[binaryRecordLen:]
	}

	decoded, err := NewTable(entries, encodables)
	if err != nil {
		return err
	}
	*t = *decoded
	return nil
}

// ReadTable decodes a table from its persisted form.
func ReadTable(data []byte) (*Table, error) {
	t := new(Table)
	if err := t.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return t, nil
}
