// Package resolve maps the properties of a schema onto a source tree.
//
// A Scope resolves a list of declared properties against one dictionary:
// each property is found by key or alias, parsed by its type and memoized,
// so defaults and expressions referring to other properties see their
// parsed values. Afterwards, property nodes no declared property consumed
// are reported as unknown. Root applies this to a whole file, with the
// Metadata and Asset sections handled separately.
//
// Breadcrumbs record the path to a value and Virtualize maps any node of a
// tree back to the property owning it.
package resolve
