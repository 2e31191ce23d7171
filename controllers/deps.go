package controllers

import (
	"scanbridge-backend/database"
	"scanbridge-backend/delivery"
	"scanbridge-backend/pipeline"
)

// Shared handler dependencies, wired once from main.
var (
	Pipeline *pipeline.Orchestrator
	Engine   *delivery.Engine
	Config   *database.ConfigStore
)

// Configure hands the controllers their collaborators. Must run before any
// route is served.
func Configure(p *pipeline.Orchestrator, e *delivery.Engine, cfg *database.ConfigStore) {
	Pipeline = p
	Engine = e
	Config = cfg
}
