package memplan

import "github.com/honorpeter/onnc-memplan/internal/graph"

// InsertLoadStore is C4: for every graph input value, insert a Load before
// its first use and redirect every use onto the Load's output; for every
// graph output value, insert a Store (which reads the value, produces
// nothing) before its last use.
//
// Ordering is the graph's program order (Node.IsBefore); ties — which
// can't actually occur, since program-order positions are unique — are
// broken toward whichever use is encountered first while scanning
// Value.Uses(), per spec §4.1.
//
// Values with no uses are skipped rather than treated as an error — this
// also makes re-running the pass on graph inputs a no-op (once every use
// has been redirected to a Load's output, Value.Uses() is empty and
// firstUse returns nil). Store insertion is not idempotent this way: a
// second run would insert a second Store ahead of the same last use,
// since creating a Store is itself a new use of the value. This mirrors
// the original pass, which is scheduled to run exactly once per module;
// this module documents the same run-once contract rather than adding
// bookkeeping the original never had.
func InsertLoadStore(g *graph.Graph) error {
	for _, v := range g.Inputs() {
		first := firstUse(v)
		if first == nil {
			continue
		}

		loadN := g.Create(graph.KindLoad, nil, 1)
		loadN.Output().CopyMetadata(v)
		if err := g.InsertBefore(first, loadN); err != nil {
			return err
		}
		v.ReplaceAllUsesWith(loadN.Output())
	}

	for _, v := range g.Outputs() {
		last := lastUse(v)
		if last == nil {
			continue
		}

		storeN := g.Create(graph.KindStore, []*graph.Value{v}, 0)
		if err := g.InsertBefore(last, storeN); err != nil {
			return err
		}
	}

	return nil
}

func firstUse(v *graph.Value) *graph.Node {
	var first *graph.Node
	for _, u := range v.Uses() {
		if first == nil {
			first = u.User
			continue
		}
		if !first.IsBefore(u.User) {
			first = u.User
		}
	}
	return first
}

func lastUse(v *graph.Value) *graph.Node {
	var last *graph.Node
	for _, u := range v.Uses() {
		if last == nil {
			last = u.User
			continue
		}
		if last.IsBefore(u.User) {
			last = u.User
		}
	}
	return last
}
