// Package validation checks request bodies and configuration.
//
// Validate runs go-playground struct tags and reports fields by their JSON
// path, so a bad unit inside a request reads "units[3].score". Validator is
// a small fluent checker for hand-written rules such as config sections.
//
// Both return *errors.AppError with code INVALID_INPUT and the individual
// field errors under the "fields" detail.
package validation
