package x64enc

import (
	"errors"
	"fmt"
	"math"

	x64defs "github.com/wdamron/x64enc/defs"
)

// LookupEntry locates a mnemonic's descriptors: Count contiguous entries starting at Start.
type LookupEntry struct {
	Start uint16
	Count uint8
}

// Table is an immutable set of descriptors, grouped by mnemonic. A Table is safe for concurrent use.
type Table struct {
	entries    []LookupEntry // indexed by mnemonic
	encodables []Encodable
}

// NewTable creates a table from a lookup index and a flat descriptor array. The index is indexed by
// mnemonic; every range must lie inside encodables and every descriptor must have non-zero width masks.
//
// The table keeps references to both slices, which must not be modified afterwards.
func NewTable(entries []LookupEntry, encodables []Encodable) (*Table, error) {
	if len(encodables) > math.MaxUint16+1 {
		return nil, fmt.Errorf("%w: %d descriptors exceed the 16-bit index", ErrDataIntegrity, len(encodables))
	}
	for m, entry := range entries {
		if int(entry.Start)+int(entry.Count) > len(encodables) {
			return nil, fmt.Errorf("%w: range %d+%d of %s exceeds %d descriptors",
				ErrDataIntegrity, entry.Start, entry.Count, x64defs.Mnemonic(m), len(encodables))
		}
	}
	for i, e := range encodables {
		if e.Modes() == WidthInvalid || e.AddressSizes() == WidthInvalid || e.OperandSizes() == WidthInvalid {
			return nil, fmt.Errorf("%w: descriptor %d (%s) has an empty width mask", ErrDataIntegrity, i, e)
		}
	}
	return &Table{entries: entries, encodables: encodables}, nil
}

// BuildTable packs the variants of each mnemonic and lays them out contiguously, in ascending mnemonic
// order. mnemonics is the size of the identifier space; mnemonics without variants get an empty range.
func BuildTable(mnemonics int, variants map[x64defs.Mnemonic][]Fields) (*Table, error) {
	entries := make([]LookupEntry, mnemonics)
	total := 0
	for m, vs := range variants {
		if int(m) >= mnemonics {
			return nil, fmt.Errorf("%w: %s is outside the %d-mnemonic space", ErrDataIntegrity, m, mnemonics)
		}
		if len(vs) > math.MaxUint8 {
			return nil, fmt.Errorf("%w: %s has %d variants", ErrDataIntegrity, m, len(vs))
		}
		total += len(vs)
	}
	encodables := make([]Encodable, 0, total)
	for m := range entries {
		vs := variants[x64defs.Mnemonic(m)]
		if len(encodables)+len(vs) > math.MaxUint16+1 {
			return nil, fmt.Errorf("%w: %d descriptors exceed the 16-bit index", ErrDataIntegrity, total)
		}
		entries[m] = LookupEntry{Start: uint16(len(encodables)), Count: uint8(len(vs))}
		for i, f := range vs {
			e, err := f.Pack()
			if err != nil {
				return nil, fmt.Errorf("%s variant %d: %w", x64defs.Mnemonic(m), i, err)
			}
			encodables = append(encodables, e)
		}
	}
	return NewTable(entries, encodables)
}

// Mnemonics returns the size of the table's mnemonic identifier space.
func (t *Table) Mnemonics() int { return len(t.entries) }

// Len returns the total number of descriptors.
func (t *Table) Len() int { return len(t.encodables) }

// RangeFor returns the offset and count of m's descriptors in the flat descriptor array. Mnemonics
// without encodable variants, including identifiers outside the table's space, have a count of 0.
func (t *Table) RangeFor(m x64defs.Mnemonic) (offset, count int) {
	if int(m) >= len(t.entries) {
		return 0, 0
	}
	entry := t.entries[m]
	return int(entry.Start), int(entry.Count)
}

// Encodables returns a read-only view of m's descriptors, in table order. The slice must not be modified.
func (t *Table) Encodables(m x64defs.Mnemonic) []Encodable {
	off, n := t.RangeFor(m)
	return t.encodables[off : off+n : off+n]
}

// Validate audits the table: every range must be in bounds and fit an 8-bit count, every descriptor
// must have non-zero width masks, and no mnemonic may list the same descriptor twice. All problems
// are reported, joined; each wraps ErrDataIntegrity.
func (t *Table) Validate() error {
	var errs []error
	for i, entry := range t.entries {
		m := x64defs.Mnemonic(i)
		if int(entry.Start)+int(entry.Count) > len(t.encodables) {
			errs = append(errs, fmt.Errorf("%w: range %d+%d of %s is out of bounds", ErrDataIntegrity, entry.Start, entry.Count, m))
			continue
		}
		encs := t.Encodables(m)
		for j, e := range encs {
			for k := j + 1; k < len(encs); k++ {
				if e == encs[k] {
					errs = append(errs, fmt.Errorf("%w: %s variants %d and %d are identical (%s)", ErrDataIntegrity, m, j, k, e))
				}
			}
		}
	}
	for i, e := range t.encodables {
		if e.Modes() == WidthInvalid || e.AddressSizes() == WidthInvalid || e.OperandSizes() == WidthInvalid {
			errs = append(errs, fmt.Errorf("%w: descriptor %d (%s) has an empty width mask", ErrDataIntegrity, i, e))
		}
	}
	return errors.Join(errs...)
}

var defaultTable = mustBuildTable()

func mustBuildTable() *Table {
	t, err := BuildTable(x64defs.MnemonicCount, encodableDefs)
	if err != nil {
		panic("x64enc: invalid built-in table: " + err.Error())
	}
	return t
}

// Default returns the built-in table.
func Default() *Table { return defaultTable }

// RangeFor returns the offset and count of m's descriptors in the built-in table.
func RangeFor(m x64defs.Mnemonic) (offset, count int) { return defaultTable.RangeFor(m) }

// Encodables returns a read-only view of m's descriptors in the built-in table.
func Encodables(m x64defs.Mnemonic) []Encodable { return defaultTable.Encodables(m) }
