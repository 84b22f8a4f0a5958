package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/wdamron/x64enc"
	x64defs "github.com/wdamron/x64enc/defs"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("invalid format %q: must be %s, %s, or %s", format, formatText, formatJSON, formatYAML)
}

// descriptor is the presentation of one Encodable.
type descriptor struct {
	Mnemonic        string `json:"mnemonic" yaml:"mnemonic"`
	InstructionRef  uint16 `json:"instruction_ref" yaml:"instruction_ref"`
	Form            string `json:"form" yaml:"form"`
	Encoding        string `json:"encoding" yaml:"encoding"`
	OpcodeMap       string `json:"opcode_map" yaml:"opcode_map"`
	Opcode          string `json:"opcode" yaml:"opcode"`
	ModRM           string `json:"modrm,omitempty" yaml:"modrm,omitempty"`
	Modes           string `json:"modes" yaml:"modes"`
	AddressSizes    string `json:"address_sizes" yaml:"address_sizes"`
	OperandSizes    string `json:"operand_sizes" yaml:"operand_sizes"`
	MandatoryPrefix string `json:"mandatory_prefix" yaml:"mandatory_prefix"`
	RexW            bool   `json:"rex_w" yaml:"rex_w"`
	VectorLength    string `json:"vector_length" yaml:"vector_length"`
	AcceptsHint     string `json:"accepts_hint" yaml:"accepts_hint"`
}

func newDescriptor(m x64defs.Mnemonic, e x64enc.Encodable) descriptor {
	d := descriptor{
		Mnemonic:        m.String(),
		InstructionRef:  e.InstructionRef(),
		Form:            e.String(),
		Encoding:        e.Encoding().String(),
		OpcodeMap:       e.OpcodeMap().String(),
		Opcode:          fmt.Sprintf("%02X", e.Opcode()),
		Modes:           e.Modes().String(),
		AddressSizes:    e.AddressSizes().String(),
		OperandSizes:    e.OperandSizes().String(),
		MandatoryPrefix: e.MandatoryPrefix().String(),
		RexW:            e.RexW(),
		VectorLength:    e.VectorLength().String(),
		AcceptsHint:     e.AcceptsHint().String(),
	}
	if e.HasFixedModRM() {
		d.ModRM = fmt.Sprintf("%02X", e.ModRM())
	}
	return d
}

// writeStructured writes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return checkFormat(format)
}
