// Package action holds the catalog of field actions and the pipeline that
// applies a field's action chain.
//
// Every action declares the type it consumes, the type it produces and its
// multiplicity. One-to-one actions transform a single value and run
// element by element over a sequence. One-to-many actions turn a value into
// a sequence (Split, Repeat). Many-to-one actions reduce a sequence to a
// single value (Concatenate, Sum, Count).
//
// The pipeline converts each value to the consumed type before a step, so
// "42" can feed AbsoluteValue. When the chain changes a field's cardinality
// the pipeline reshapes the field: a scalar field becomes a FieldGroup and
// a group collapses to a single field.
package action
