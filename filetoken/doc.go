// Package filetoken caches the short lived token required to download
// protected files.
//
// Cache.Get returns the stored token while it stays valid for longer than a
// safety margin and otherwise fetches a new one. Concurrent callers that find
// the token missing or about to expire share one fetch: the first caller
// starts it, the others wait for its result, and the in-flight slot is
// released whether the fetch succeeds or fails.
package filetoken
