// Package config loads the service configuration.
//
// # Sources
//
// Values are resolved in this order, later sources winning:
//
//	1. Default()
//	2. A YAML file: $CATALOG_CONFIG_FILE, ./config.yaml or ./configs/config.yaml
//	3. CATALOG_* environment variables
//
// # Environment Variables
//
// Nested sections map to underscore-joined names:
//
//	CATALOG_SERVER_PORT=8080
//	CATALOG_LOGGING_LEVEL=debug
//	CATALOG_DATASETS_MAX_UPLOAD_BYTES=67108864
//	CATALOG_DATASETS_MAX_DATASETS=16
//	CATALOG_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Example File
//
//	server:
//	  port: 9090
//	datasets:
//	  preview_rows: 10
//	telemetry:
//	  environment: production
//
// Load validates the result and returns an error describing the first
// invalid setting.
package config
