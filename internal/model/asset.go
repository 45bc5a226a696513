package model

import "time"

// ImageBundle is the media bundle accepted by the background image picker.
const ImageBundle = "mj_mt_image"

// Asset is a stored media file referenced by id.
type Asset struct {
	ID        string    `json:"id"`
	Bundle    string    `json:"bundle"`
	Filename  string    `json:"filename"` // Original upload name
	URI       string    `json:"uri"`      // Storage location, e.g. "public://bg.png"
	MimeType  string    `json:"mimeType,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileHandle is what a media lookup hands back to the block.
type FileHandle struct {
	URI      string
	Filename string
	MimeType string
}

// Handle returns the file handle for the asset.
func (a *Asset) Handle() FileHandle {
	return FileHandle{URI: a.URI, Filename: a.Filename, MimeType: a.MimeType}
}
