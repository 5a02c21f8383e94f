package ports

// Gateway is a long-running request surface (the HTTP API, the SMTP filter).
type Gateway interface {
	// Start starts serving requests
	Start() error

	// Stop shuts the surface down
	Stop() error
}
