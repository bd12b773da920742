package main

import (
	"k8s.io/klog/v2"

	"github.com/lantern-labs/beacon-backend/cmd/beacon/helper"
)

// @title						Beacon API
// @version					1.0.0
// @description				Backend for the Beacon landing page: waitlist signup and self-monitoring.
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description				Scheduler endpoints require 'Bearer ${SECRET}' with the shared cron secret
func main() {
	// Initialize configuration
	configInit := helper.NewConfigInitializer()
	backendConfig := configInit.GetBackendConfig()

	// Load debug environment if needed
	if err := configInit.LoadDebugEnvironment(); err != nil {
		klog.Fatalf("Failed to load env: %s", err)
	}

	// Initialize register config and dependencies
	registerConfig, err := configInit.InitializeRegisterConfig()
	if err != nil {
		klog.Fatalf("Failed to register config: %s\n", err)
	}

	serverRunner := helper.NewServerRunner(backendConfig)

	// Start the in-process scheduler, then serve until shutdown
	serverRunner.StartCron(registerConfig)
	serverRunner.StartServer(registerConfig)
}
