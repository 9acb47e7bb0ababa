// Package dynamo defines the capability set shared by every simulated body
// and the errors reported around it.
//
//   - [Body]: PreSolve / Solve / PostSolve stepping contract
//   - [Grabbable]: vertex pinning and probing used by grab controllers
//   - [Kind]: explicit tag naming the variant behind a Body
//   - [SimulationError]: error annotated with the failing tick
//
// # Example
//
//	body, _ := softbody.New(mesh.Box(4, 1, 1, 1), nil, softbody.DefaultOptions())
//	w, _ := world.New(world.DefaultConfig())
//	w.Add(body)
//	_ = w.Step(1.0 / 60)
//
// # Thread Safety
//
// Bodies are NOT thread-safe. A World steps its bodies sequentially and
// grabs must be issued from the same goroutine.
package dynamo
