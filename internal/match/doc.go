// Package match scores names and field types for "did you mean" hints.
//
// Key functions:
//   - NormalizeIdent: folds case and separators so names compare by words
//   - Levenshtein: rune-based edit distance
//   - ScoreTypeCompatibility: classifies a FieldType conversion route
//   - Suggest: near-miss names for unknown actions and lookup tables
package match
