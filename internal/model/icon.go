package model

import "net/url"

// Icon is one <icon> entry from a device description document.
type Icon struct {
	Mimetype string
	Width    int
	Height   int
	Depth    int
	URL      *url.URL
}
