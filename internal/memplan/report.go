package memplan

import (
	"fmt"
	"io"
	"sort"
)

const bytesPerMiB = 1024.0 * 1024.0

// Report is spec §6's produced artifact: the allocation record list (the
// `print` surface) plus the peak/sum summary line.
type Report struct {
	Entries []*MemAllocEntry
	Peak    uint64
	Sum     uint64
}

// NewReport orders entries by start address (then by value name, for a
// deterministic tiebreak — spec §8 property 5) and computes the summary
// figures.
func NewReport(entries []*MemAllocEntry, sum uint64) *Report {
	sorted := append([]*MemAllocEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartAddr != sorted[j].StartAddr {
			return sorted[i].StartAddr < sorted[j].StartAddr
		}
		return sorted[i].Value.Name < sorted[j].Value.Name
	})

	var peak uint64
	for _, e := range sorted {
		if end := e.End(); end > peak {
			peak = end
		}
	}

	return &Report{Entries: sorted, Peak: peak, Sum: sum}
}

// WriteEntries writes the `print` surface, one record per line:
// "<name>: [<start>, <end_addr>) (total: <size>) [<live_start>, <live_end>]"
func (r *Report) WriteEntries(w io.Writer) error {
	for _, e := range r.Entries {
		_, err := fmt.Fprintf(w, "%s: [%d, %d) (total: %d) [%d, %d]\n",
			e.Value.Name, e.StartAddr, e.End(), e.Size, e.Live.Start, e.Live.End)
		if err != nil {
			return err
		}
	}
	return nil
}

// SummaryLine is spec §6's summary text:
// "Size req. Min = <peak>(<peak_MiB> mb) Max = <sum>(<sum_MiB> mb)"
func (r *Report) SummaryLine() string {
	peakMiB := float64(r.Peak) / bytesPerMiB
	sumMiB := float64(r.Sum) / bytesPerMiB
	return fmt.Sprintf("Size req. Min = %d(%v mb) Max = %d(%v mb)", r.Peak, peakMiB, r.Sum, sumMiB)
}

// WriteSummary writes SummaryLine followed by a newline.
func (r *Report) WriteSummary(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.SummaryLine())
	return err
}
