// Package services implements the business logic layer of the catalog
// dashboard. It sits between the HTTP handlers and the pure loader and
// aggregator packages.
//
// # Available Services
//
//	- DatasetService: loads uploads into normalized tables, keeps them in
//	  an in-memory store, and computes previews, statistics and charts
//	- HealthService: liveness, readiness and version information
//
// # Error Handling
//
// Services return sentinel errors that handlers map to API errors with
// errors.Is and errors.As:
//
//	- ErrDatasetNotFound for an unknown dataset ID
//	- catalog.ErrUnreadableFile when an upload is not a table
//	- catalog.ErrMissingColumn when a chart needs an absent column
//	- charts.ErrUnknownKind for a chart key outside the catalogue
//
// Failures affect only the request that caused them; stored datasets are
// immutable and never left half-written.
package services
