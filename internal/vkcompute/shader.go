package vkcompute

import (
	"encoding/binary"
	"os"

	"github.com/cockroachdb/errors"
)

// LoadShaderCode reads a SPIR-V binary into words. A trailing partial word is
// zero padded.
func LoadShaderCode(path string) ([]uint32, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open shader %s", path)
	}
	if len(b) == 0 {
		return nil, errors.Wrapf(ErrShaderEmpty, "shader %s", path)
	}

	return bytesToBytecode(b), nil
}

func bytesToBytecode(b []byte) []uint32 {
	if rem := len(b) % 4; rem != 0 {
		padded := make([]byte, len(b)+4-rem)
		copy(padded, b)
		b = padded
	}

	byteCode := make([]uint32, len(b)/4)
	for i := range byteCode {
		byteCode[i] = binary.LittleEndian.Uint32(b[i*4:])
	}

	return byteCode
}
