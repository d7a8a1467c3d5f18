// Package viz renders reaction trajectories in the terminal.
//
//   - [PlotSpecies]: asciigraph concentration charts, one per species or combined
//   - [PhasePortrait]: Braille canvas of one species against another
//   - [Summary]: lipgloss panels for run and verification summaries
//   - [Playback]: a Bubble Tea model replaying a stored run
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	[ ]   - Step back/forward
//	+ -   - Playback speed
//	R     - Restart
//	T     - Cycle color themes
//	?     - Show help
package viz
