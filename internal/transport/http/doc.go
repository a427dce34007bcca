// Package http implements the REST handlers of the catalog dashboard.
// Handlers are a thin layer over the services package: they parse and
// validate requests, call the service, and map service errors to RFC 7807
// problem responses.
//
// # Routes
//
//	POST   /api/datasets                        upload a CSV or Excel file
//	GET    /api/datasets                        list stored datasets
//	GET    /api/datasets/{id}                   dataset info
//	DELETE /api/datasets/{id}                   discard a dataset
//	GET    /api/datasets/{id}/preview?rows=n    first n rows (configured default and maximum)
//	GET    /api/datasets/{id}/summary           shape and describe block
//	GET    /api/datasets/{id}/charts/{kind}     chart data
//	GET    /api/datasets/{id}/charts/{kind}/csv chart data as CSV
//	GET    /api/charts                          chart catalogue
//
// # Error Mapping
//
// Service errors map to problem types as follows:
//
//	catalog.ErrUnreadableFile   422 /errors/dataset/unreadable-file
//	catalog.MissingColumnError  422 /errors/chart/missing-column
//	charts.ErrUnknownKind       400 /errors/chart/unknown-kind
//	services.ErrDatasetNotFound 404 /errors/dataset/not-found
//	*http.MaxBytesError         413 /errors/payload-too-large
package http
