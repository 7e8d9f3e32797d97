package types

// Version is the application version, overwritten at build time with -ldflags.
var Version = "dev"

// UserAgent is sent with every request to the release API.
func UserAgent() string {
	return "ghrelease/" + Version
}
