// Package viz hosts the arena in a terminal using Bubble Tea.
//
// Bodies are drawn as filled discs on a braille [Canvas] (2x4 dots per
// cell), and each cell is colored by the body that last painted it. A
// [Viewport] scales the arena onto the canvas and maps mouse cells back to
// arena coordinates.
//
// # Pointer
//
// Moving the mouse over the arena starts the animation; leaving the arena
// or the terminal losing focus stops it and drops any grabbed body. Press
// the left button over a body to grab it and drag it around.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reseed the world
//	T     - Cycle color themes
//	?     - Show help
//	Q     - Quit
package viz
