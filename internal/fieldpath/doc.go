// Package fieldpath parses and manipulates field addresses.
//
// # Path Syntax
//
//	/seg1/seg2[n]/seg3<n>/seg4{key}/@attr
//
//   - "[n]" addresses element n of an array
//   - "<n>" addresses element n of an ordered list
//   - "{key}" addresses entry key of a map
//   - "@" marks an attribute
//   - "ns:" prefixes a namespace; it is kept in the expression but not in the name
//
// Empty brackets ("items[]") denote a vacant collection slot: the path
// addresses every element and the index is bound later. Persisted mapping
// definitions store paths as plain strings, so the syntax is stable.
package fieldpath
