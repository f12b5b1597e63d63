// Package storage defines the durable key/value storage used to persist the
// session record and the protected file token across process restarts.
//
// It ships with an in-memory implementation for tests and short lived tools,
// an afs backed implementation (local files or any afs supported URL) and a
// Redis backed implementation for hosts sharing one session.
package storage
