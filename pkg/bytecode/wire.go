package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ImageVersion is the current program image format version.
// Increment when making incompatible changes to the format.
const ImageVersion uint16 = 1

// cborEncMode uses canonical options for deterministic encoding, so the
// same program always produces the same image bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// programImage is the on-disk shape of a program.
type programImage struct {
	Version    uint16   `cbor:"version"`
	Code       []byte   `cbor:"code"`
	Primitives []string `cbor:"primitives"`
}

// MarshalProgram serializes a program to CBOR image bytes.
func MarshalProgram(p *Program) ([]byte, error) {
	img := programImage{
		Version:    ImageVersion,
		Code:       p.Code,
		Primitives: p.Primitives,
	}
	return cborEncMode.Marshal(&img)
}

// UnmarshalProgram deserializes a program from CBOR image bytes.
func UnmarshalProgram(data []byte) (*Program, error) {
	var img programImage
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal program: %w", err)
	}
	if img.Version > ImageVersion {
		return nil, fmt.Errorf("bytecode: image version %d is newer than supported version %d", img.Version, ImageVersion)
	}
	return &Program{
		Code:       img.Code,
		Primitives: img.Primitives,
	}, nil
}
