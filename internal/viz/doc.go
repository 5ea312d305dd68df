// Package viz renders simulation results for the terminal.
//
//   - [Report]: lipgloss panel of labelled metrics
//   - [PathPlot]: flight path drawn on a Braille [Canvas], target marked
//   - [HeightPlot]: asciigraph chart of height over the flight
package viz
