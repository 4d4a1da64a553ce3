package directdonation

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/mr-tron/base58"
)

const discriminatorSize = 8

// AnchorDiscriminator derives the discriminator Anchor assigns to a global
// instruction: the first 8 bytes of sha256("global:<name>").
func AnchorDiscriminator(name string) Discriminator {
	h := sha256.Sum256([]byte("global:" + name))
	return Discriminator(h[:discriminatorSize])
}

func putDiscriminator(dst []byte, v Discriminator, offset *int) {
	copy(dst[*offset:], v)
	*offset += len(v)
}

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}
func getUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
