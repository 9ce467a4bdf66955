package datatable

import "io"

// Renderer describes the template renderer contract used for the print
// document.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}
