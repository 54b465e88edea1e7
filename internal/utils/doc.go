// Package utils contains small internal helpers shared across packages:
// pointer construction for optional wire fields, lenient JSON decoding for
// model-emitted documents, and string truncation for log-safe previews.
package utils
