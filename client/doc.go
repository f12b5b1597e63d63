// Package client implements a thin Go client for the record API used by the
// admin application.
//
// It provides:
//   - request execution with JSON encoding and structured `*Error` values carrying
//     the HTTP status and the decoded response body;
//   - per-collection record auth (`AuthWithPassword`, `AuthRefresh`) whose results are
//     saved through the pluggable `AuthStore`;
//   - the protected file token endpoint and file URL helper;
//   - bookkeeping of in-flight requests so that all of them can be cancelled at once.
//
// Example:
//
//	cli := client.New("https://api.example.com", client.WithAuthStore(store))
//	if _, err := cli.Collection("_superusers").AuthWithPassword(ctx, "admin@example.com", "secret"); err != nil {
//		dispatcher.Handle(err, true, "")
//	}
//	fileToken, _ := cli.Files().GetToken(ctx)
package client
