// package x64enc resolves x86/x86-64 instruction-encoding descriptors for an encoder
//
// Each mnemonic owns a contiguous range of packed descriptors (Encodable), one per encodable variant.
// Given an encoding request (processor mode, address/operand size, mandatory prefix, vector length,
// REX.W, size hint), Resolve selects exactly one descriptor or fails with ErrUnknownMnemonic,
// ErrNoMatch, or ErrDataIntegrity.
//
// usage example:
//
//	package example
//
//	import (
//		"fmt"
//
//		"github.com/wdamron/x64enc"
//		x64defs "github.com/wdamron/x64enc/defs"
//	)
//
//	func ExampleResolve() {
//		enc, err := x64enc.Resolve(x64defs.ADD, x64enc.Context{
//			Mode:        x64enc.Width64,
//			AddressSize: x64enc.Width64,
//			OperandSize: x64enc.Width64,
//			RexW:        true,
//		})
//		if err != nil {
//			return
//		}
//		fmt.Println(enc) // REX.W 01
//	}
//
// The built-in table is built once when the package is initialized and never modified afterwards,
// so every function in this package is safe for concurrent use.
package x64enc
