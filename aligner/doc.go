// Package aligner runs the full lip-sync pipeline for audio files: it picks a
// transcription and an alignment backend, calls them, and hands their output
// to timeline.Build.
//
// Backends sharing a name with a combined implementation (WhisperX) are
// called once for both stages. Already-produced WhisperX documents can be
// assembled without any backend through AssembleDocument.
package aligner
