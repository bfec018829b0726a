package camera

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// NumPixels is the number of camera pixels.
const NumPixels = 1440

// Hardware addressing of a channel.
const (
	numCrates        = 4
	boardsPerCrate   = 10
	patchesPerBoard  = 4
	pixelsPerPatch   = 9
	channelsPerCrate = boardsPerCrate * channelsPerBoard
	channelsPerBoard = patchesPerBoard * pixelsPerPatch
	patchesPerCamera = numCrates * boardsPerCrate * patchesPerBoard
)

var (
	ErrNotPermutation = errors.New("pixel map is not a permutation of 0..1439")
	ErrBadPixelMap    = errors.New("malformed pixel map")
	ErrLength         = errors.New("array length does not match pixel count")
)

// Map is a bijection between CHID and softID. It is immutable once built.
type Map struct {
	chidToSoft [NumPixels]int
	softToChid [NumPixels]int
}

var defaultMap = sync.OnceValue(func() *Map {
	soft := make([]int, NumPixels)
	for chid := range soft {
		soft[chid] = defaultSoftID(chid)
	}
	m, err := New(soft)
	if err != nil {
		panic(fmt.Sprintf("camera: built-in layout: %v", err))
	}
	return m
})

// Default returns the process-wide built-in map.
func Default() *Map {
	return defaultMap()
}

// defaultSoftID stores pixels patch-interleaved: all first pixels of every patch,
// then all second pixels, and so on.
func defaultSoftID(chid int) int {
	crate := chid / channelsPerCrate
	board := (chid % channelsPerCrate) / channelsPerBoard
	patch := (chid % channelsPerBoard) / pixelsPerPatch
	pixel := chid % pixelsPerPatch

	return pixel*patchesPerCamera + crate*boardsPerCrate*patchesPerBoard + board*patchesPerBoard + patch
}

// New builds a Map from softIDByCHID, where softIDByCHID[chid] is the softID
// of hardware channel chid.
func New(softIDByCHID []int) (*Map, error) {
	if len(softIDByCHID) != NumPixels {
		return nil, fmt.Errorf("%w: got %d entries", ErrNotPermutation, len(softIDByCHID))
	}

	m := &Map{}
	var seen [NumPixels]bool
	for chid, soft := range softIDByCHID {
		if soft < 0 || soft >= NumPixels {
			return nil, fmt.Errorf("%w: softID %d of CHID %d out of range", ErrNotPermutation, soft, chid)
		}
		if seen[soft] {
			return nil, fmt.Errorf("%w: softID %d assigned twice", ErrNotPermutation, soft)
		}
		seen[soft] = true
		m.chidToSoft[chid] = soft
		m.softToChid[soft] = chid
	}
	return m, nil
}

// LoadPixelMap reads a CSV pixel map with (at least) a softID and a CHID column.
// Lines starting with '#' are comments.
func LoadPixelMap(r io.Reader) (*Map, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrBadPixelMap, err)
	}
	softCol, chidCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "softid":
			softCol = i
		case "chid":
			chidCol = i
		}
	}
	if softCol < 0 || chidCol < 0 {
		return nil, fmt.Errorf("%w: header needs softID and CHID columns, got %v", ErrBadPixelMap, header)
	}

	soft := make([]int, NumPixels)
	for i := range soft {
		soft[i] = -1
	}
	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPixelMap, err)
		}
		if len(rec) <= softCol || len(rec) <= chidCol {
			return nil, fmt.Errorf("%w: short record %v", ErrBadPixelMap, rec)
		}
		s, err := strconv.Atoi(strings.TrimSpace(rec[softCol]))
		if err != nil {
			return nil, fmt.Errorf("%w: softID %q: %v", ErrBadPixelMap, rec[softCol], err)
		}
		c, err := strconv.Atoi(strings.TrimSpace(rec[chidCol]))
		if err != nil {
			return nil, fmt.Errorf("%w: CHID %q: %v", ErrBadPixelMap, rec[chidCol], err)
		}
		if c < 0 || c >= NumPixels {
			return nil, fmt.Errorf("%w: CHID %d out of range", ErrNotPermutation, c)
		}
		if soft[c] != -1 {
			return nil, fmt.Errorf("%w: CHID %d listed twice", ErrNotPermutation, c)
		}
		soft[c] = s
		rows++
	}
	if rows != NumPixels {
		return nil, fmt.Errorf("%w: got %d pixels", ErrNotPermutation, rows)
	}
	return New(soft)
}

// SoftID returns the softID of hardware channel chid.
func (m *Map) SoftID(chid int) int {
	return m.chidToSoft[chid]
}

// CHID returns the hardware channel of softID soft.
func (m *Map) CHID(soft int) int {
	return m.softToChid[soft]
}

// SoftIDs returns a copy of the softID of every CHID.
func (m *Map) SoftIDs() []int {
	out := make([]int, NumPixels)
	copy(out, m.chidToSoft[:])
	return out
}

// ToCHID writes src, stored in softID order, into dst in CHID order.
func ToCHID[T any](m *Map, dst, src []T) error {
	if len(dst) != NumPixels || len(src) != NumPixels {
		return fmt.Errorf("%w: dst %d, src %d", ErrLength, len(dst), len(src))
	}
	for chid := range dst {
		dst[chid] = src[m.chidToSoft[chid]]
	}
	return nil
}

// ToSoftID is the inverse of ToCHID.
func ToSoftID[T any](m *Map, dst, src []T) error {
	if len(dst) != NumPixels || len(src) != NumPixels {
		return fmt.Errorf("%w: dst %d, src %d", ErrLength, len(dst), len(src))
	}
	for soft := range dst {
		dst[soft] = src[m.softToChid[soft]]
	}
	return nil
}

// ToCHIDRows permutes every 1440-wide row of a row-major buffer into CHID order.
// One scratch row is allocated for the whole buffer.
func ToCHIDRows[T any](m *Map, rows []T) error {
	if len(rows)%NumPixels != 0 {
		return fmt.Errorf("%w: %d values is not a multiple of %d", ErrLength, len(rows), NumPixels)
	}
	scratch := make([]T, NumPixels)
	for off := 0; off < len(rows); off += NumPixels {
		row := rows[off : off+NumPixels]
		copy(scratch, row)
		for chid := range row {
			row[chid] = scratch[m.chidToSoft[chid]]
		}
	}
	return nil
}
