package registry

// Core keys for GlobalRegistry.
const (
	// Extension registries (cmd, cron, snapshot sources)
	KeyRegistryCmd    = "registry:cmd"
	KeyRegistryCron   = "registry:cron"
	KeyRegistrySource = "registry:source"
)
