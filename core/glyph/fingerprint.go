package glyph

import (
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/minio/highwayhash"
	"github.com/npillmayer/arithm"
)

var fingerprintKey = []byte("glyphlink/fingerprint/0123456789")[:32]

// Fingerprint hashes geometry and (optionally) metadata. Equal fingerprints
// identify no-op edits.
func Fingerprint(g GlyphData, meta *Character) (uint64, error) {
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, 0, 512)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(g)))
	for _, p := range g {
		buf = append(buf, p.GroupID...)
		buf = append(buf, 0)
		if p.Closed {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p.Points)))
		for _, pt := range p.Points {
			buf = appendPair(buf, pt)
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p.Segments)))
		for _, s := range p.Segments {
			buf = appendPair(buf, s.Point)
			buf = appendPair(buf, s.In)
			buf = appendPair(buf, s.Out)
		}
	}
	if _, err = h.Write(buf); err != nil {
		return 0, err
	}
	if meta != nil {
		m, err := json.Marshal(meta)
		if err != nil {
			return 0, err
		}
		if _, err = h.Write(m); err != nil {
			return 0, err
		}
	}
	return h.Sum64(), nil
}

func appendPair(buf []byte, p arithm.Pair) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.X()))
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.Y()))
}
