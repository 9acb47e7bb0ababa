// Package world advances a set of bodies under shared gravity and a shared
// axis-aligned box.
//
// A tick of length dt is split into Config.Substeps substeps. Each substep
// runs three barriers: PreSolve on every body, then Solve on every body,
// then PostSolve on every body.
//
//	w, _ := world.New(world.DefaultConfig(), world.WithLogger(log))
//	_ = w.Add(body)
//	for {
//		if err := w.Step(1.0 / 60); err != nil {
//			break
//		}
//	}
package world
