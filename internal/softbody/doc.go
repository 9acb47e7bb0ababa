// Package softbody implements a tetrahedral soft body advanced with
// compliant position-based constraints.
//
//   - [Body]: particle store, edge and volume constraints, grab state and
//     the skinned display mesh
//   - [Options]: compliance, formulation, scale and pinning
//   - [GrabbedVertex]: a held vertex and the inverse mass to restore
//
// Each substep runs PreSolve (integrate and clamp into the world box),
// Solve (Gauss-Seidel edge pass then volume pass) and PostSolve (velocity
// from displacement, skin refresh). Particles with zero inverse mass are
// never integrated and never get a velocity.
//
// # Thread Safety
//
// A Body is NOT thread-safe. Grab calls must come from the goroutine that
// steps the body.
package softbody
