// Package indirect resolves a fixed set of mutually-referential fields.
//
// Each field is given as a definition function that receives a [View] of all
// fields and returns its own value. A definition may read any other field
// through the view, including fields declared after it; the view evaluates
// the referenced field on demand and memoizes the result. Every definition
// runs at most once per resolution, whatever the declaration order and
// however many other fields read it.
//
// # Basic Usage
//
//	r := indirect.New[string, int]().
//	    Define("area", func(v *indirect.View[string, int]) (int, error) {
//	        w, err := v.Get("width")
//	        if err != nil {
//	            return 0, err
//	        }
//	        return w * v.MustGet("height"), nil
//	    }).
//	    Define("width", indirect.Const[string](4)).
//	    Define("height", indirect.Const[string](3))
//
//	rec, err := r.Resolve() // map[area:12 height:3 width:4]
//
// # Evaluation
//
// Resolution builds one memo cell per field, then forces every field in
// declaration order. A cell moves from unevaluated to evaluating when its
// definition starts and to evaluated (or failed) when it returns. Reads of an
// evaluated cell are O(1) and have no side effects. Reads of a failed cell
// return the original error without running the definition again.
//
// # Cycles
//
// A read that reaches a cell still in the evaluating state is a dependency
// cycle. The read fails with a [*CycleError] whose Path lists the fields
// involved (for example a → b → a), and the whole resolution fails with it.
// Definitions must therefore form an acyclic dependency relation.
//
// # Errors
//
// Resolution is all-or-nothing: the first error aborts the call and no
// partial record is returned. Errors returned by a definition are wrapped
// once in a [*FieldError] naming the innermost failing field. Reading a key
// outside the definition set yields an [*UnknownFieldError]. All error types
// unwrap to the package sentinels, so errors.Is works:
//
//	if errors.Is(err, indirect.ErrCycle) {
//	    // fix the definitions
//	}
//
// # Concurrency
//
// A single resolution is synchronous and single-threaded; a View must not
// escape the definition it was passed to. Separate Resolve calls share no
// state and may run concurrently, even on the same [Resolver].
package indirect
