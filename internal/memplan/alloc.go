package memplan

import (
	"sort"

	"github.com/honorpeter/onnc-memplan/internal/graph"
	"github.com/honorpeter/onnc-memplan/internal/liveness"
	"github.com/honorpeter/onnc-memplan/internal/sizeinfo"
)

// MemAllocEntry is spec §3's allocator decision: a value, the offset and
// size it was given, and the live interval that justified the placement.
type MemAllocEntry struct {
	Value     *graph.Value
	StartAddr uint64
	Size      uint64
	Live      liveness.LiveInterval
}

// End returns the exclusive end of this entry's address range.
func (e *MemAllocEntry) End() uint64 { return e.StartAddr + e.Size }

// memRegion is the transient conflict record spec §3 calls MemRegion:
// (start, size), sorted by start ascending once collected.
type memRegion struct {
	start, size uint64
}

func (r memRegion) end() uint64 { return r.start + r.size }

// hasConflict is spec §4.2's overlap test on half-open byte ranges:
// ¬(endA ≤ startB ∨ endB ≤ startA).
func hasConflict(startA, sizeA, startB, sizeB uint64) bool {
	endA, endB := startA+sizeA, startB+sizeB
	return !(endA <= startB || endB <= startA)
}

// Allocator assigns every live value a disjoint offset in a single
// contiguous arena via first-fit over sorted conflicting regions — spec
// §4.2's algorithm, except that a conflicting region lying wholly below
// the cursor is stepped over rather than ending the scan, so a later
// region that overlaps the candidate range is still seen. It has no
// retries and no backtracking: one
// linear scan per interval, and it always succeeds (overflow is a
// property of the result, checked by the caller against the device's
// local memory size, not a failure mode of the allocator itself).
type Allocator struct {
	entries []*MemAllocEntry
	peak    uint64
}

// NewAllocator returns an allocator with no placements yet.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Entries returns every placement made by the most recent Run.
func (a *Allocator) Entries() []*MemAllocEntry { return a.entries }

// Peak returns max(start_addr + size) across every placement — the
// tightest arena size this allocation achieved.
func (a *Allocator) Peak() uint64 { return a.peak }

// Run places every interval in intervals, in the order given (spec §4.2
// requires the allocator process intervals in exactly the order C3
// supplies), sizing each placement from sizes. Run clears any prior state
// first, so re-invoking Run on the same Allocator is safe (spec §5).
func (a *Allocator) Run(intervals []liveness.LiveInterval, sizes sizeinfo.Oracle) {
	a.entries = nil
	a.peak = 0

	for _, iv := range intervals {
		size := uint64(sizes.ValueMemorySize(iv.Value))

		conflicts := usedRegions(a.entries, iv)
		sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].start < conflicts[j].start })

		cursor := uint64(0)
		for _, r := range conflicts {
			if !hasConflict(cursor, size, r.start, r.size) {
				if r.start >= cursor+size {
					break
				}
				// r lies wholly below cursor; a later region may still
				// overlap the candidate range.
				continue
			}
			cursor = r.end()
		}

		entry := &MemAllocEntry{Value: iv.Value, StartAddr: cursor, Size: size, Live: iv}
		a.entries = append(a.entries, entry)
		if end := entry.End(); end > a.peak {
			a.peak = end
		}
	}
}

// usedRegions collects the placed regions whose live interval intersects
// iv — the conflicts a new placement must dodge.
func usedRegions(entries []*MemAllocEntry, iv liveness.LiveInterval) []memRegion {
	var regions []memRegion
	for _, e := range entries {
		if !e.Live.Intersects(iv) {
			continue
		}
		regions = append(regions, memRegion{start: e.StartAddr, size: e.Size})
	}
	return regions
}
