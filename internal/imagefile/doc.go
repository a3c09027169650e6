// Package imagefile loads code screenshots, builds terminal previews for them,
// and recognizes files dropped onto the terminal.
package imagefile
