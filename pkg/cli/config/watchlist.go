package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// WatchList is the set of repositories checked by the check command.
//
//	[[repository]]
//	name = "m-mizutani/goerr"
//	current = "v2.0.0"
//	exclude_prereleases = true
type WatchList struct {
	Repositories []WatchedRepository `toml:"repository"`
}

// WatchedRepository is one entry of a WatchList
type WatchedRepository struct {
	Name               string `toml:"name"`
	Current            string `toml:"current"`
	ExcludeDrafts      bool   `toml:"exclude_drafts"`
	ExcludePrereleases bool   `toml:"exclude_prereleases"`
}

// LoadWatchList reads a watch list from a TOML file
func LoadWatchList(path string) (*WatchList, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read watch list", goerr.V("path", path))
	}

	var list WatchList
	if err := toml.Unmarshal(raw, &list); err != nil {
		return nil, goerr.Wrap(err, "failed to parse watch list", goerr.V("path", path))
	}

	for i, repo := range list.Repositories {
		if repo.Name == "" {
			return nil, goerr.New("repository name is empty", goerr.V("path", path), goerr.V("index", i))
		}
	}

	return &list, nil
}
