// Package authsession wires the client side session components of the admin
// application: the persisted auth store and its superuser projection, the API
// error dispatcher, the protected file token cache and the startup refresh.
//
// The components live in their own packages and can be used directly; App
// connects them the way the application does:
//
//	options, _ := authsession.LoadOptions(ctx)
//	app, err := authsession.New(ctx, options, authsession.NewLogger(nil, options.LogLevel))
//	if err != nil {
//		return err
//	}
//	defer app.Close()
//	_ = app.Start(ctx) // refresh the stored session, if any
//	if _, err = app.Client.Collection("_superusers").AuthWithPassword(ctx, email, password); err != nil {
//		_ = app.HandleError(err, true, "")
//	}
//	fileURL, _ := app.FileURL(ctx, record, "invoice.pdf")
package authsession
