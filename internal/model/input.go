package model

import "strings"

// TextInput is article text handed to a text analyzer
type TextInput struct {
	Text      string
	SourceURL string // Empty for pasted text
	Title     string
}

// MediaFile describes a selected upload
type MediaFile struct {
	Path        string // Local path of the payload
	Name        string // Base name sent to the remote service
	ContentType string
	Size        int64
}

// MediaType reports whether the file is an image or a video
func (f MediaFile) MediaType() MediaType {
	if strings.HasPrefix(f.ContentType, "video/") {
		return MediaVideo
	}
	return MediaImage
}
