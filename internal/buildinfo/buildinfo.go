package buildinfo

// These values are injected via ldflags when building release binaries.
// They default to empty for local/dev builds, which fall back to the
// module's VCS build info instead.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
