// Package world defines the simulation-side data model consumed by the
// visualization sessions: articulated skeletons, joints, flat state
// vectors, and recorded trajectories.
//
// The [World], [Skeleton] and [Joint] interfaces describe the surface the
// sessions need from an external simulation engine. [Basic] provides a
// self-contained in-memory implementation used by the CLI and tests; real
// engine bindings can satisfy the same interfaces.
//
// State vectors follow the engine convention that the full state is
// 2×DOF long, positions first, velocities second. Only the position half
// is ever rendered.
package world
