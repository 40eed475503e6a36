// Package api exposes the sync status surface over HTTP: the pending
// queue snapshot the UI's indicator polls, plus the manual retry and
// dismiss actions. It renders state; all queue semantics live in the
// syncer and outbox packages.
package api
