// Package viz renders a nav computer run as a live terminal dashboard.
//
// The dashboard is a Bubble Tea program. Each frame advances the closed loop
// by one controller tick and redraws:
//
//   - a Braille attitude view with the body axes and the target forward vector
//   - the diagnostic block printed by the computer every tick
//   - an asciigraph plot of the attitude error magnitude
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Switch the computer on/off
//	A     - Cycle the alignment mode
//	L     - Toggle auto-level
//	R     - Restart from the initial config
//	←→↑↓  - Orbit the camera
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
