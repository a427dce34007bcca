package api

import "time"

// DatasetInfo describes a stored dataset
type DatasetInfo struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Rows     int       `json:"rows"`
	Columns  []string  `json:"columns"`
	LoadedAt time.Time `json:"loaded_at"`
}

// ChartOption is one entry of the chart dropdown
type ChartOption struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// DatasetListResponse lists stored datasets, oldest first
type DatasetListResponse struct {
	Datasets []DatasetInfo `json:"datasets"`
	Count    int           `json:"count"`
}

// ChartOptionsResponse lists the chart dropdown in menu order
type ChartOptionsResponse struct {
	Charts []ChartOption `json:"charts"`
}
