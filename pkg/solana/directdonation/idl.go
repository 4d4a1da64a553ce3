package directdonation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

//go:embed direct_donation.json
var embeddedIDL []byte

// Discriminator is the fixed length prefix that selects an instruction handler
// in the program.
type Discriminator []byte

// UnmarshalJSON accepts the numeric array form used by Anchor IDLs.
func (d *Discriminator) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*d = nil
		return nil
	}

	var values []int
	if err := json.Unmarshal(b, &values); err != nil {
		return errors.Wrap(err, "discriminator must be an array of bytes")
	}

	decoded := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return errors.Errorf("discriminator value out of range at %d: %d", i, v)
		}
		decoded[i] = byte(v)
	}

	*d = decoded
	return nil
}

func (d Discriminator) MarshalJSON() ([]byte, error) {
	values := make([]int, len(d))
	for i, v := range d {
		values[i] = int(v)
	}
	return json.Marshal(values)
}

// InstructionDescriptor is the part of an IDL instruction entry needed to
// encode it by hand.
type InstructionDescriptor struct {
	Name          string        `json:"name"`
	Discriminator Discriminator `json:"discriminator"`
	Accounts      []struct {
		Name     string `json:"name"`
		Writable bool   `json:"writable,omitempty"`
		Signer   bool   `json:"signer,omitempty"`
		Address  string `json:"address,omitempty"`
	} `json:"accounts,omitempty"`
	Args []struct {
		Name string      `json:"name"`
		Type interface{} `json:"type"`
	} `json:"args,omitempty"`
}

// IDL is an Anchor program interface description.
type IDL struct {
	Address  string `json:"address"`
	Metadata struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Spec    string `json:"spec"`
	} `json:"metadata"`
	Instructions []InstructionDescriptor `json:"instructions"`
}

// ParseIDL parses an Anchor IDL JSON document.
func ParseIDL(data []byte) (*IDL, error) {
	var idl IDL
	if err := json.Unmarshal(data, &idl); err != nil {
		return nil, errors.Wrap(err, "invalid idl")
	}
	return &idl, nil
}

// LoadIDL reads and parses the IDL at path.
func LoadIDL(path string) (*IDL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read idl at %s", path)
	}
	return ParseIDL(data)
}

// DefaultIDL returns the IDL of the deployed direct_donation program.
func DefaultIDL() *IDL {
	idl, err := ParseIDL(embeddedIDL)
	if err != nil {
		panic(err)
	}
	return idl
}

// Instruction looks up an instruction descriptor by name. Nil is returned when
// the IDL doesn't describe the instruction.
func (idl *IDL) Instruction(name string) *InstructionDescriptor {
	if idl == nil {
		return nil
	}

	for i := range idl.Instructions {
		if idl.Instructions[i].Name == name {
			return &idl.Instructions[i]
		}
	}
	return nil
}

// DonateDiscriminator resolves the discriminator of the donate instruction.
func (idl *IDL) DonateDiscriminator() (Discriminator, error) {
	descriptor := idl.Instruction(DonateInstructionName)
	if descriptor == nil || len(descriptor.Discriminator) == 0 {
		return nil, ErrDiscriminatorNotFound
	}
	return descriptor.Discriminator, nil
}
