// Package timecode converts between frame counts and HH:MM:SS:FF strings.
// Frames go in on tool inputs, timecodes come out on tool outputs.
package timecode

import "fmt"

// DefaultFPS matches the project default used when the engine does not
// report a frame rate.
const DefaultFPS = 25.0

// FromFrames renders a frame count as HH:MM:SS:FF at the given frame rate.
// Non-positive rates fall back to DefaultFPS.
func FromFrames(frames int, fps float64) string {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if frames < 0 {
		frames = 0
	}
	fpsInt := int(fps + 0.5)
	if fpsInt < 1 {
		fpsInt = 1
	}
	ff := frames % fpsInt
	totalSeconds := frames / fpsInt
	ss := totalSeconds % 60
	mm := (totalSeconds / 60) % 60
	hh := totalSeconds / 3600
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hh, mm, ss, ff)
}
