// Package loader composes the TTL cache with caller-supplied fetch
// functions and projects every read into a DataState the UI layer can
// render directly. An EntityLoader serves single-entity lookups keyed
// per call; a ListLoader serves one collection under a fixed key and
// owns the entity-then-list invalidation that follows a mutation.
package loader
