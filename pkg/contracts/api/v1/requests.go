// Package api contains API contract definitions for the catalog dashboard.
// Version v1 represents the current stable API version.
package api

// Preview bounds used when no server configuration applies
const (
	DefaultPreviewRows = 5
	MaxPreviewRows     = 100
)

// Dataset API Requests

// UploadRequest describes the file part of a dataset upload
type UploadRequest struct {
	FileName string `json:"file_name" validate:"required,filename"`
	Size     int64  `json:"size" validate:"gte=0"`
}

// DatasetRequest addresses one stored dataset
type DatasetRequest struct {
	DatasetID string `json:"dataset_id" param:"id" validate:"required"`
}

// PreviewRequest asks for the first rows of a dataset
type PreviewRequest struct {
	DatasetRequest
	Rows int `json:"rows" query:"rows" validate:"min=1"`
}

// Chart API Requests

// ChartRequest asks for one chart of a dataset
type ChartRequest struct {
	DatasetRequest
	Kind string `json:"kind" param:"kind" validate:"required,chartkind"`
}

// ChartExportRequest asks for a chart's data as CSV
type ChartExportRequest struct {
	ChartRequest
	BOM bool `json:"bom" query:"bom"`
}
