package x64lookup

import (
	"fmt"

	"github.com/wdamron/x64enc"
	x64defs "github.com/wdamron/x64enc/defs"
)

const maxMnemonicLength = 16

var mnemonicMap = func() map[string]x64defs.Mnemonic {
	ms := make(map[string]x64defs.Mnemonic, x64defs.MnemonicCount)
	for _, m := range x64defs.Mnemonics()[1:] { // INVALID is not a real mnemonic
		ms[m.String()] = m
	}
	return ms
}()

// Lookup the identifier for a mnemonic. The mnemonic will be converted to uppercase if necessary.
func Mnemonic(mnemonic string) (x64defs.Mnemonic, bool) {
	if len(mnemonic) > 0 && len(mnemonic) < maxMnemonicLength {
		m, ok := mnemonicMap[upperCase(mnemonic)]
		return m, ok
	}
	return x64defs.INVALID, false
}

// Variants reports whether the mnemonic is known and how many encodable forms it has in the built-in
// table. Decode-only mnemonics are known but have no encodable forms.
func Variants(mnemonic string) (int, bool) {
	m, ok := Mnemonic(mnemonic)
	if !ok {
		return 0, false
	}
	_, count := x64enc.RangeFor(m)
	return count, true
}

// EncodeError describes a request which cannot be encoded. Err is ErrUnknownMnemonic, ErrNoMatch, or
// ErrDataIntegrity.
type EncodeError struct {
	Mnemonic string
	Context  x64enc.Context
	Err      error
}

func (e *EncodeError) Error() string {
	switch e.Err {
	case x64enc.ErrUnknownMnemonic:
		return fmt.Sprintf("cannot encode %s: no encodable variants", e.Mnemonic)
	case x64enc.ErrNoMatch:
		return fmt.Sprintf("cannot encode %s with %s: this mode/size/prefix combination has no encoding", e.Mnemonic, e.Context)
	}
	return fmt.Sprintf("cannot encode %s with %s: %v", e.Mnemonic, e.Context, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Resolve a mnemonic by name against the built-in table. Failures are returned as *EncodeError.
func Resolve(mnemonic string, ctx x64enc.Context) (x64enc.Encodable, error) {
	return ResolveIn(x64enc.Default(), mnemonic, ctx)
}

// ResolveIn resolves a mnemonic by name against t. Failures are returned as *EncodeError.
func ResolveIn(t *x64enc.Table, mnemonic string, ctx x64enc.Context) (x64enc.Encodable, error) {
	m, ok := Mnemonic(mnemonic)
	if !ok {
		return x64enc.Encodable{}, &EncodeError{Mnemonic: mnemonic, Context: ctx, Err: x64enc.ErrUnknownMnemonic}
	}
	enc, err := t.Resolve(m, ctx)
	if err != nil {
		return x64enc.Encodable{}, &EncodeError{Mnemonic: m.String(), Context: ctx, Err: err}
	}
	return enc, nil
}

func upperCase(s string) string {
	var b [maxMnemonicLength]byte
	var ch byte
	_ = b[len(s)] // lift bounds-checks out of the loop below (golang.org/issue/14808)
	i, changed := 0, false
loop: // functions containing for-loops cannot currently be inlined (golang.org/issue/14768)
	ch = s[i]
	b[i] = ch &^ ((ch & 0x40) >> 1)
	changed = changed || b[i] != ch
	i++
	if i < len(s) {
		goto loop
	}
	if !changed {
		return s
	}
	return string(b[:len(s)])
}
