// Package viz draws running systems in the terminal.
//
//   - [Model]: live Bubble Tea view that steps a system on a timer
//   - [Picker]: scenario menu that starts a [Model]
//   - [Canvas]: braille canvas, 2x4 sub-pixels per character
//   - [Viewport]: metres to sub-pixels, with pan, zoom and a 3-D [Camera]
//
// # Key Bindings
//
//	Space - Pause/Resume
//	.     - Single step while paused
//	R     - Reset to the initial system
//	+/-   - Zoom
//	F     - Fit all bodies
//	[ ]   - Halve/double steps per frame
//	xyz   - Rotate 3-D view
package viz
