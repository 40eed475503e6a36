// Package domain contains the core entities of the knowledge base:
// genes, researchers, articles, conferences, notes, and tags. Entities
// validate themselves; persistence and caching concerns live elsewhere.
package domain
