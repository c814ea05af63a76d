// Package mapping provides the mapping definition model, its YAML form,
// deep cloning and structural validation.
//
// # Model
//
// A Definition holds an ordered list of Mappings. Each Mapping has a type
// (map, combine, separate, lookup or collection), input fields and output
// fields. A Field addresses a value in a document by path, or carries a
// constant, or names a property. At runtime a collection-valued read yields
// a FieldGroup; FieldValue is the sum of the two shapes:
//
//	switch v := value.(type) {
//	case *mapping.Field:      // one value
//	case *mapping.FieldGroup: // ordered items, each a FieldValue
//	}
//
// # Schema Overview
//
//	name: orders
//	documents:
//	  - {id: src, name: Order JSON, role: source}
//	  - {id: tgt, role: target}
//	properties:
//	  - {name: region, value: eu, type: string}
//	lookup_tables:
//	  - name: colors
//	    entries:
//	      - {source: R, target: red}
//	      - {source: "1", target: "true", target_type: boolean}
//	mappings:
//	  - id: title
//	    inputs:  [{doc: src, path: /order/items[]/name, actions: [Trim, Uppercase]}]
//	    outputs: [{doc: tgt, path: /lines[]/title}]
//	  - id: full-name
//	    type: combine
//	    delimiter: space
//	    inputs:
//	      - {doc: src, path: /first, index: 0}
//	      - {doc: src, path: /last, index: 1}
//	    outputs: [{doc: tgt, path: /name}]
//	  - id: color
//	    lookup_table: colors
//	    inputs:  [{doc: src, path: /code}]
//	    outputs: [{doc: tgt, path: /color}]
//	  - type: collection
//	    mappings: [...]
//
// # Field forms
//
//	/order/id                                  # document field, path only
//	{doc: src, path: /a, type: long, index: 2} # full form
//	{value: 42, type: integer}                 # constant
//	{name: region, scope: definition}          # property
//
// Actions are written as a name, a single-key map with parameters, or a
// list of both:
//
//	actions: [Trim, {Split: {delimiter: ";"}}, {Append: "-x"}]
//
// # Validation
//
// Validate reports structural problems as diagnostic.Diagnostics. Error
// findings block execution of a session; warnings describe fields the
// engine will skip.
package mapping
