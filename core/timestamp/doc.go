// Package timestamp provides a bidirectional codec for the date fields of the
// invoicing dataset.
//
// The dataset accumulated three different on-disk timestamp representations
// over its history: RFC3339 strings, epoch second/nanosecond objects (with
// plain or underscore-prefixed keys), and the tagged wrapper emitted by the
// document-database export tooling. The codec recognizes the full closed set
// on decode and emits exactly one representation on encode, selected by a
// Format tag rather than by shape-sniffing at each call site.
//
// A Value remembers the representation it was decoded from, so collections
// that are loaded and written back without an explicit conversion keep their
// original wire form.
package timestamp
