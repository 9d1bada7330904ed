// Package bootstrap assembles the cvedex process: configuration, logger,
// storage backend (MongoDB or an in-memory fixture), the optional Redis
// response cache, the read services and the HTTP API.
//
//	app, err := bootstrap.NewApp(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Shutdown()
//
//	if err := app.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	app.WaitForShutdown()
package bootstrap
