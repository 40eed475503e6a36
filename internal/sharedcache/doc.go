// Package sharedcache is the client for the server-side shared API
// cache: one table, shared across all users, holding the results of
// expensive external lookups (NCBI, UniProt, Crossref, PubMed). Access
// goes through two SQL functions, get_api_cache and set_api_cache, and
// entries are addressed by the compact hashed keys keyhash derives.
package sharedcache
