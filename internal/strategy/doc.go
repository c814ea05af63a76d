// Package strategy joins and splits string values for combine and separate
// mappings. Delimiters are named (comma, multi_space, ...) or literal.
package strategy
