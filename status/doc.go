// Package status renders zuul job progress for gerrit reviews and
// drives the optional watch loop that refreshes the display until
// interrupted.
package status
