// Package archon implements a high-performance, archetype-based Entity
// Component System for Go.
//
// Entities are grouped by their exact set of component types ("archetypes").
// Each archetype stores its components in fixed-capacity, cache-aligned
// chunks using structure-of-arrays layout, and queries return a
// zero-allocation enumerator over the chunks that match a with/without
// signature filter.
//
// archon is a library: it owns entity/archetype/chunk storage and the query
// engine, and nothing else. Scheduling, serialization, and domain components
// are the caller's concern.
package archon
