package exec

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// Checksum returns a hex SHA-256 of the first maxCols columns' cells, row
// by row. Cells are separated by 0x1f and rows end with '\n', so the sum
// depends on cell text and order only. maxCols <= 0 hashes every column.
func (t *Table) Checksum(maxCols int) string {
	if maxCols <= 0 || maxCols > t.schema.Len() {
		maxCols = t.schema.Len()
	}
	h := sha256.New()
	for r := range t.rows {
		for c := 0; c < maxCols; c++ {
			if c > 0 {
				hashWriteByte(h, 0x1f)
			}
			hashWriteString(h, t.cell(r, c))
		}
		hashWriteByte(h, '\n')
	}
	return hex.EncodeToString(h.Sum(nil))
}

func hashWriteString(h hash.Hash, s string) {
	_, _ = io.WriteString(h, s)
}

func hashWriteByte(h hash.Hash, b byte) {
	var one [1]byte
	one[0] = b
	_, _ = h.Write(one[:])
}
