package model

import "net/http"

// Release is one entry of the repository releases endpoint. Timestamps and
// URLs are kept as the API sent them.
type Release struct {
	ID              int64  `json:"id"`
	TagName         string `json:"tag_name"`
	Name            string `json:"name"`
	Draft           bool   `json:"draft"`
	Prerelease      bool   `json:"prerelease"`
	CreatedAt       string `json:"created_at"`
	PublishedAt     string `json:"published_at"`
	Body            string `json:"body"`
	TargetCommitish string `json:"target_commitish"`
	URL             string `json:"url"`
	HTMLURL         string `json:"html_url"`
	AssetsURL       string `json:"assets_url"`
	UploadURL       string `json:"upload_url"`
	TarballURL      string `json:"tarball_url"`
	ZipballURL      string `json:"zipball_url"`
}

// ReleasesResponse is the result of requesting a single page of releases.
// Releases is only populated when StatusCode is in the 2xx range.
type ReleasesResponse struct {
	StatusCode int
	Header     http.Header
	Releases   []*Release
}

// IsSuccess reports whether the status code is in the 2xx range
func (r *ReleasesResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ReleaseFilter narrows the releases considered when resolving the latest
// version. The zero value considers every release.
type ReleaseFilter struct {
	ExcludeDrafts      bool
	ExcludePrereleases bool
}

// LatestVersion is the resolved latest version of a repository
type LatestVersion struct {
	Repository string `json:"repository"`
	Version    string `json:"version"`
}
