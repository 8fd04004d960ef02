package version

var (
	// Version is the current application version
	Version = "0.2.0"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)
