// Package geom provides the vector and frame primitives shared by the
// navigation computer and the simulation lab.
//
// Vectors are [r3.Vector] values. A [Matrix] is an orthonormal orientation
// stored as three rows:
//
//   - row 0: Right
//   - row 1: Up
//   - row 2: Backward
//
// so the local forward axis of any frame is -Backward, or (0, 0, -1) in
// local coordinates. Vectors are treated as row vectors: [Rotate] maps local
// coordinates into the parent (world) space and [RotateInverse] maps world
// coordinates back into the frame through the transpose.
//
// # Example
//
//	body := geom.FromForwardUp(r3.Vector{X: 1}, r3.Vector{Y: 1})
//	local := geom.RotateInverse(target, body)
package geom
