package types

// Version is the application version, overwritten at build time with -ldflags.
var Version = "dev"

const (
	// DefaultAPIRoot is the REST API root of public GitHub. Custom roots must
	// end with a trailing slash because request URLs are built by prefixing it.
	DefaultAPIRoot = "https://api.github.com/"

	// UserAgent is sent with every request to the GitHub API.
	UserAgent = "github.com/m-mizutani/releasecheck"

	// AcceptHeader pins the GitHub REST API media type.
	AcceptHeader = "application/vnd.github.v3+json"

	// ReleasesPerPage is the page size requested from the releases endpoint.
	ReleasesPerPage = 100
)
