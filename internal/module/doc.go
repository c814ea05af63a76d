// Package module defines the document module capability the engine reads
// source values from and writes target values to, plus the built-in
// modules.
//
// Built-in modules:
//
//   - Tree addresses decoded JSON or YAML documents (map[string]any and
//     []any nodes). Reading a vacant collection segment such as items[]
//     expands into a FieldGroup whose leaves carry concrete paths.
//     Writing creates missing maps and grows slices up to the index.
//   - Constant resolves constant fields to their literal.
//   - Property resolves property fields from the session, the definition
//     or the process environment.
//
// A module may also implement TargetPopulator to replace the engine's
// default conversion and lookup for target fields, and Lifecycle to run
// hooks around source and target processing.
package module
