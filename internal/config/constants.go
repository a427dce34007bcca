package config

// Application info
const (
	AppName    = "catalogdash"
	AppVersion = "1.0.0"
)

// UploadField is the multipart form field carrying an uploaded file.
const UploadField = "file"
