// Package alignment defines the provider interface and types for the
// forced-alignment step that assigns fine-grained timestamps to words and
// characters.
//
// Every timing field is optional. A nil Start or End means the aligner could
// not place the token; it never means zero.
package alignment
