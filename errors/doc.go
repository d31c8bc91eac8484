// Package errors defines the validation errors returned while a pipeline is being set up.
// These are never subject to an ErrorMode: they always abort the operation that raised them.
package errors
