// Package collection binds the collection segments of target paths to
// concrete indices.
//
// A target path such as /lines[]/sku names a collection without saying
// which element to write. The Correlator derives the element from the
// source field: indices the source path carries are copied across, excess
// target collections are padded with index 0, and collections with no
// source counterpart continue from the previous write to the same target
// collection. The last rule lets a one-to-many action such as Split fill a
// target array from a scalar source.
package collection
