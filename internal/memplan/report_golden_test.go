package memplan

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/honorpeter/onnc-memplan/internal/graph"
	"github.com/honorpeter/onnc-memplan/internal/liveness"
)

// TestReportGoldenS1 pins the print surface and summary line text
// byte-for-byte (spec §8 property 5) against a scenario shaped like S1:
// two non-overlapping, identically-sized values sharing an offset.
// Sizes are chosen as exact MiB multiples so the summary's MiB figures
// are small integers, not approximations.
func TestReportGoldenS1(t *testing.T) {
	const oneMiB = 1 << 20

	a := graph.NewValue("a", nil, graph.UnknownDType)
	b := graph.NewValue("b", nil, graph.UnknownDType)

	entries := []*MemAllocEntry{
		{Value: a, StartAddr: 0, Size: oneMiB, Live: liveness.LiveInterval{Value: a, Start: 0, End: 5}},
		{Value: b, StartAddr: 0, Size: oneMiB, Live: liveness.LiveInterval{Value: b, Start: 5, End: 10}},
	}

	report := NewReport(entries, 2*oneMiB)
	require.EqualValues(t, oneMiB, report.Peak)

	var buf bytes.Buffer
	require.NoError(t, report.WriteEntries(&buf))
	require.NoError(t, report.WriteSummary(&buf))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "report_s1", buf.Bytes())
}
