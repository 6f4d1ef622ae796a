package export

import "github.com/leapstack-labs/buildexport/pkg/core"

// coordinateSet is an insertion-ordered set of library identities.
type coordinateSet struct {
	keys []core.CoordinateKey
	seen map[core.CoordinateKey]struct{}
}

func newCoordinateSet() *coordinateSet {
	return &coordinateSet{seen: make(map[core.CoordinateKey]struct{})}
}

// add inserts the identity of c; classifier and ext are dropped.
func (s *coordinateSet) add(c core.Coordinate) {
	key := c.Key()
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.keys = append(s.keys, key)
}

func (s *coordinateSet) addAll(coords []core.Coordinate) {
	for _, c := range coords {
		s.add(c)
	}
}

// jarIDs returns the library identifiers in first-seen order.
func (s *coordinateSet) jarIDs() []string {
	ids := make([]string, 0, len(s.keys))
	for _, key := range s.keys {
		ids = append(ids, key.JarID())
	}
	return ids
}

// DedupeCoordinates projects coords onto their identities and drops
// repeats, keeping the first occurrence of each.
func DedupeCoordinates(coords []core.Coordinate) []core.CoordinateKey {
	s := newCoordinateSet()
	s.addAll(coords)
	return s.keys
}

func entryCoordinates(entries []core.ClasspathEntry) []core.Coordinate {
	coords := make([]core.Coordinate, 0, len(entries))
	for _, e := range entries {
		coords = append(coords, e.Coordinate)
	}
	return coords
}
