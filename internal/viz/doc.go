// Package viz renders pursuit runs in the terminal.
//
// The live view is a Bubble Tea program that advances one planning cycle per
// tick and draws the target path, tracker trails, and the formation circle on
// a Braille pixel canvas, with a stats panel alongside.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to initial state
//	Q     - Quit
package viz
