package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasecheck/pkg/cli/config"
	"github.com/m-mizutani/releasecheck/pkg/domain/interfaces"
	"github.com/m-mizutani/releasecheck/pkg/domain/model"
	"github.com/m-mizutani/releasecheck/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func newReleaseUseCase(githubCfg *config.GitHub) (interfaces.ReleaseUseCase, error) {
	client, err := githubCfg.NewClient()
	if err != nil {
		return nil, err
	}
	return usecase.NewRelease(client), nil
}

func repositoryArg(c *cli.Command) (string, error) {
	if c.Args().Len() != 1 {
		return "", goerr.New("exactly one repository (owner/repo) is required", goerr.V("args", c.Args().Slice()))
	}
	return c.Args().First(), nil
}

func filterFlags(filter *model.ReleaseFilter) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "exclude-drafts",
			Usage:       "Ignore draft releases",
			Destination: &filter.ExcludeDrafts,
		},
		&cli.BoolFlag{
			Name:        "exclude-prereleases",
			Usage:       "Ignore releases flagged as prerelease and versions with a pre-release part",
			Destination: &filter.ExcludePrereleases,
		},
	}
}

func cmdReleases() *cli.Command {
	var (
		githubCfg config.GitHub
		asJSON    bool
	)

	flags := append(githubCfg.Flags(), &cli.BoolFlag{
		Name:        "json",
		Usage:       "Output releases as JSON",
		Destination: &asJSON,
	})

	return &cli.Command{
		Name:      "releases",
		Usage:     "List all releases of a repository",
		ArgsUsage: "<owner/repo>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repository, err := repositoryArg(c)
			if err != nil {
				return err
			}

			uc, err := newReleaseUseCase(&githubCfg)
			if err != nil {
				return err
			}

			releases, err := uc.ListReleases(ctx, repository)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if asJSON {
				if releases == nil {
					releases = []*model.Release{}
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(releases); err != nil {
					return goerr.Wrap(err, "failed to encode releases")
				}
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TAG\tNAME\tFLAGS\tPUBLISHED")
			for _, r := range releases {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.TagName, r.Name, releaseFlags(r), r.PublishedAt)
			}
			if err := tw.Flush(); err != nil {
				return goerr.Wrap(err, "failed to write releases")
			}
			return nil
		},
	}
}

func releaseFlags(r *model.Release) string {
	var flags []string
	if r.Draft {
		flags = append(flags, "draft")
	}
	if r.Prerelease {
		flags = append(flags, "prerelease")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func cmdTags() *cli.Command {
	var githubCfg config.GitHub

	return &cli.Command{
		Name:      "tags",
		Usage:     "List tag names of all releases of a repository",
		ArgsUsage: "<owner/repo>",
		Flags:     githubCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			repository, err := repositoryArg(c)
			if err != nil {
				return err
			}

			uc, err := newReleaseUseCase(&githubCfg)
			if err != nil {
				return err
			}

			versions, err := uc.ListVersions(ctx, repository)
			if err != nil {
				return err
			}

			for _, v := range versions {
				fmt.Fprintln(c.Root().Writer, v)
			}
			return nil
		},
	}
}

func cmdLatest() *cli.Command {
	var (
		githubCfg config.GitHub
		filter    model.ReleaseFilter
	)

	return &cli.Command{
		Name:      "latest",
		Usage:     "Show the latest semantic version of a repository",
		ArgsUsage: "<owner/repo>",
		Flags:     append(githubCfg.Flags(), filterFlags(&filter)...),
		Action: func(ctx context.Context, c *cli.Command) error {
			repository, err := repositoryArg(c)
			if err != nil {
				return err
			}

			uc, err := newReleaseUseCase(&githubCfg)
			if err != nil {
				return err
			}

			version, err := uc.LatestVersion(ctx, repository, filter)
			if err != nil {
				return err
			}

			_, _ = color.New(color.FgGreen).Fprintln(c.Root().Writer, version)
			return nil
		},
	}
}
