// Package timeline assembles coarse transcription segments and forced
// alignment output into one time-ordered transcript that animation code can
// consume without further checks.
//
// The work happens in three forward-only stages:
//
//   - Normalize validates coarse segments: drops empty or inverted spans,
//     clamps to the audio duration and sorts by start.
//   - Merge assigns aligned words to segments by greatest temporal overlap,
//     keeps untimed words in text order, repairs overlaps and widens segment
//     envelopes so every word is contained.
//   - Assemble sorts, clips overlaps between segments and produces the
//     immutable Transcript.
//
// None of the stages fail. Everything they repair or discard is counted in
// Diagnostics, which a caller may use as a quality gate.
//
// A word or character without timing has nil Start and End. Consumers must
// treat nil as "no timing available", which is different from a time of 0.
//
// The package holds no state between calls and is safe for concurrent use.
package timeline
