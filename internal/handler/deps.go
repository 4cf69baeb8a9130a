package handler

import (
	"github.com/prometheus/client_golang/prometheus"

	"goroda/internal/app/chat"
	"goroda/internal/configs"
)

// AppDeps bundles the shared dependencies the HTTP handlers need.
type AppDeps struct {
	Hub      *chat.Hub
	Config   *configs.AppConfig
	Registry *prometheus.Registry
}
