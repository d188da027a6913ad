// Package nav implements the navigation computer: an attitude controller that
// turns a desired facing direction into per-actuator angular-rate commands.
//
// One control tick runs the following pipeline:
//
//   - [Computer.Update]: refresh the up-vector from the [AlignMode]
//   - [Computer.AlignToHorizon]: optionally derive a level forward vector
//   - [RotationError]: rotation from the body's forward axis onto the target
//   - [ShapeRate]: per-axis angular-rate command (PID plus near-target coast)
//   - [GyroBank.Apply]: re-express the command in every gyroscope's own frame
//
// [Computer.Tick] runs all of it and notifies the registered [Observer]s.
//
// # Sign convention
//
// Rotation and rate vectors are (pitch, yaw, roll) triples in the body's
// local (right, up, backward) axes. Their direction follows the actuator
// convention: a positive component turns the body clockwise when looking
// down the matching positive axis. Rotating the local forward axis by the
// negated rotation vector (right-handed) lands on the target.
//
// # Thread Safety
//
// A Computer is driven by a single external scheduler and is NOT safe for
// concurrent use.
package nav
