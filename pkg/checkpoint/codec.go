package checkpoint

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/pierrec/lz4/v4"

	"github.com/Sumatoshi-tech/zaremba/pkg/waterfall"
)

// Blob encodings for the restart frontier.
const (
	encodingRaw = 0
	encodingLZ4 = 1
)

// headerSize is one encoding byte plus an 8-byte little-endian length of the
// uncompressed payload.
const headerSize = 9

// restartRecord is the persisted form of a waterfall.Restart; products are
// string-encoded to keep arbitrary precision out of JSON number territory.
type restartRecord struct {
	Product string `json:"product"`
	Base    []int  `json:"base"`
	Resume  int    `json:"resume"`
}

// CompressRestarts serializes a restart frontier to an LZ4-compressed blob.
// Frontiers share long primorial-exponent prefixes, which LZ4 collapses
// well; incompressible payloads are stored raw.
func CompressRestarts(restarts []waterfall.Restart) ([]byte, error) {
	records := make([]restartRecord, len(restarts))
	for i, r := range restarts {
		records[i] = restartRecord{
			Product: r.Product.String(),
			Base:    r.Base,
			Resume:  r.Resume,
		}
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal restart frontier: %w", err)
	}

	blob := make([]byte, headerSize+lz4.CompressBlockBound(len(payload)))
	binary.LittleEndian.PutUint64(blob[1:headerSize], uint64(len(payload)))

	written, err := lz4.CompressBlock(payload, blob[headerSize:], nil)
	if err != nil || written == 0 {
		blob[0] = encodingRaw

		return append(blob[:headerSize], payload...), nil
	}

	blob[0] = encodingLZ4

	return blob[:headerSize+written], nil
}

// DecompressRestarts reverses CompressRestarts.
func DecompressRestarts(blob []byte) ([]waterfall.Restart, error) {
	if len(blob) < headerSize {
		return nil, fmt.Errorf("restart blob too short: %d bytes", len(blob))
	}

	size := binary.LittleEndian.Uint64(blob[1:headerSize])
	payload := blob[headerSize:]

	if blob[0] == encodingLZ4 {
		decompressed := make([]byte, size)

		n, err := lz4.UncompressBlock(payload, decompressed)
		if err != nil {
			return nil, fmt.Errorf("decompress restart frontier: %w", err)
		}

		payload = decompressed[:n]
	}

	var records []restartRecord

	err := json.Unmarshal(payload, &records)
	if err != nil {
		return nil, fmt.Errorf("unmarshal restart frontier: %w", err)
	}

	restarts := make([]waterfall.Restart, len(records))
	for i, rec := range records {
		product, ok := new(big.Int).SetString(rec.Product, 10)
		if !ok {
			return nil, fmt.Errorf("restart product %q is not an integer", rec.Product)
		}

		restarts[i] = waterfall.Restart{
			Product: product,
			Base:    rec.Base,
			Resume:  rec.Resume,
		}
	}

	return restarts, nil
}
