package books

import "log/slog"

// Service groups the domain operations around a shared API gateway.
type Service struct {
	api    API
	logger *slog.Logger
}

// NewService wires the domain functions to an API gateway.
func NewService(api API, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}
