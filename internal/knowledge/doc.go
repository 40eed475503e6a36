// Package knowledge wires the generic cache/loader machinery to the
// concrete data domains of the app: gene lookups, the researcher,
// article, conference, and tag collections, and the offline outbox for
// writes that failed to reach the backend.
package knowledge
