package main

// ResponseOk is the result document of a capture that produced a template.
type ResponseOk struct {
	Fingerprint string `json:"Fingerprint"`
}

// ResponseError is the result document of a failed capture.
type ResponseError struct {
	Error string `json:"Error"`
}

type CaptureRequest struct {
	// Timeout is the inactivity timeout in seconds. Zero uses the
	// configured timeout.
	Timeout int `json:"timeout"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Device string `json:"device"`
	Serial string `json:"serial"`
	Mock   bool   `json:"mock"`
}
