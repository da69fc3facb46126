// Package modkit wires API modules from shared deps and build options
package modkit

import "mixtape/internal/modkit/httpkit"

// Module is a named route group the api mounts under /api/v1
type Module interface {
	Name() string
	MountRoutes(r httpkit.Router)
}
