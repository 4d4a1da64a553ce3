package sync

import (
	"encoding/binary"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring is a consistent hash ring mapping arbitrary keys onto a fixed set of
// stripe indices.
type ring struct {
	hashRing *treemap.Map

	// first caches the value of the lowest entry, used when a key hashes past
	// the last point on the ring. treemap.Map.Min() is O(log n).
	first int
}

// newRing places replicas points on the ring for each of the stripes
func newRing(stripes, replicas uint) *ring {
	hashRing := treemap.NewWith(utils.Int64Comparator)
	for stripe := uint(0); stripe < stripes; stripe++ {
		var seed [8]byte
		binary.LittleEndian.PutUint64(seed[:], uint64(stripe))
		stripeHash, _ := murmur3.Sum128(seed[:])

		for replica := uint(0); replica < replicas; replica++ {
			var point [12]byte
			binary.LittleEndian.PutUint64(point[:8], stripeHash)
			binary.LittleEndian.PutUint32(point[8:], uint32(replica))
			hash, _ := murmur3.Sum128(point[:])
			hashRing.Put(int64(hash), int(stripe))
		}
	}

	r := &ring{hashRing: hashRing}
	if _, first := hashRing.Min(); first != nil {
		r.first = first.(int)
	}
	return r
}

// stripe returns the stripe index owning key
func (r *ring) stripe(key []byte) int {
	raw, _ := murmur3.Sum128(key)
	_, stripe := r.hashRing.Ceiling(int64(raw))
	if stripe != nil {
		return stripe.(int)
	}
	return r.first
}
