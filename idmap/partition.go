package idmap

import (
	"fmt"
	"sort"
)

type RangeKind int

const (
	// Filler ranges cover container IDs the administrator never
	// mentioned, mapped wholesale to an offset host range.
	Filler RangeKind = iota

	// Exact records map one explicitly requested container ID to its
	// requested host ID. Their length is always 1.
	Exact
)

// RangeRecord is one contiguous slice of a namespace's container-ID axis.
// A namespace's full sequence of records partitions [0, MaxID): sorted by
// ContainerStart, contiguous, starting at 0 and ending at MaxID.
type RangeRecord struct {
	Kind           RangeKind
	ContainerStart int
	HostStart      int
	Length         int
}

type OutOfRangeError struct {
	Namespace   Namespace
	ContainerID int
	MaxID       int
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("%s container ID %d is outside the ID space [0, %d)", e.Namespace, e.ContainerID, e.MaxID)
}

// Partitioner expands a sparse set of explicit mappings into a total
// partition of the container-ID space [0, MaxID). Every ID the
// administrator never mentioned lands in a filler range mapped to
// FillerBase plus the container ID, which cannot collide with any other
// range as long as FillerBase exceeds MaxID and explicit host IDs stay
// below FillerBase.
type Partitioner struct {
	MaxID      int
	FillerBase int
}

// Partition walks the container-ID axis from 0 to MaxID, emitting an
// exact record for each explicit mapping and a filler record for each gap
// between them. The result is deterministic for a given mapping set.
func (p Partitioner) Partition(namespace Namespace, mappings []ExplicitMapping) ([]RangeRecord, error) {
	sorted := make([]ExplicitMapping, len(mappings))
	copy(sorted, mappings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ContainerID < sorted[j].ContainerID
	})

	for _, mapping := range sorted {
		if mapping.ContainerID >= p.MaxID {
			return nil, OutOfRangeError{
				Namespace:   namespace,
				ContainerID: mapping.ContainerID,
				MaxID:       p.MaxID,
			}
		}
	}

	records := []RangeRecord{}

	cursor := 0
	for _, mapping := range sorted {
		if gap := mapping.ContainerID - cursor; gap > 0 {
			records = append(records, RangeRecord{
				Kind:           Filler,
				ContainerStart: cursor,
				HostStart:      p.FillerBase + cursor,
				Length:         gap,
			})
			cursor += gap
		}

		records = append(records, RangeRecord{
			Kind:           Exact,
			ContainerStart: mapping.ContainerID,
			HostStart:      mapping.HostID,
			Length:         1,
		})
		cursor++
	}

	if cursor < p.MaxID {
		records = append(records, RangeRecord{
			Kind:           Filler,
			ContainerStart: cursor,
			HostStart:      p.FillerBase + cursor,
			Length:         p.MaxID - cursor,
		})
	}

	return records, nil
}
