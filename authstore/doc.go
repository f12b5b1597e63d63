// Package authstore persists the client session (token plus auth record) and
// keeps the superuser projection in step with it.
//
// LocalStore is the base store writing the session as one JSON document into
// durable storage. AppStore wraps any base store and publishes the superuser
// record to a superuser.Sink after every save or clear, so readers of the
// projection never observe a value older than the stored session.
package authstore
