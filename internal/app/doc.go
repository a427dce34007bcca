// Package app wires the catalog dashboard together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, config file, CATALOG_* environment)
//	2. Initialize logging and OpenTelemetry
//	3. Create the WebSocket hub and the dataset and health services
//	4. Set up HTTP handlers and middleware
//	5. Serve until the context is cancelled or SIGINT/SIGTERM arrives
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Stop drains in-flight requests, closes WebSocket clients and flushes
// the telemetry providers. The app never calls os.Exit itself.
package app
