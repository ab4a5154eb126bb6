package service_registry

// Service is the interface for all long-running services.
type Service interface {
	Start() error
	Stop() error
}
