package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasecheck/pkg/cli/config"
	"github.com/m-mizutani/releasecheck/pkg/domain/interfaces"
	"github.com/m-mizutani/releasecheck/pkg/domain/model"
	"github.com/m-mizutani/releasecheck/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdCheck() *cli.Command {
	var (
		githubCfg     config.GitHub
		watchListPath string
	)

	flags := append(githubCfg.Flags(), &cli.StringFlag{
		Name:        "watch-list",
		Aliases:     []string{"f"},
		Usage:       "TOML file listing repositories to check",
		Required:    true,
		Destination: &watchListPath,
		Sources:     cli.EnvVars("RELEASECHECK_WATCH_LIST"),
	})

	return &cli.Command{
		Name:  "check",
		Usage: "Resolve the latest version of every repository in a watch list",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			list, err := config.LoadWatchList(watchListPath)
			if err != nil {
				return err
			}

			uc, err := newReleaseUseCase(&githubCfg)
			if err != nil {
				return err
			}

			return checkWatchList(ctx, c.Root().Writer, uc, list)
		},
	}
}

// checkWatchList looks up each repository in turn. A failed lookup is
// reported and does not stop the remaining ones.
func checkWatchList(ctx context.Context, w io.Writer, uc interfaces.ReleaseUseCase, list *config.WatchList) error {
	logger := ctxlog.From(ctx)

	var (
		failed   int
		outdated int
	)

	for _, repo := range list.Repositories {
		filter := model.ReleaseFilter{
			ExcludeDrafts:      repo.ExcludeDrafts,
			ExcludePrereleases: repo.ExcludePrereleases,
		}

		latest, err := uc.LatestVersion(ctx, repo.Name, filter)
		if err != nil {
			failed++
			logger.Warn("Failed to resolve latest version", slog.String("repository", repo.Name), slog.Any("error", err))
			_, _ = color.New(color.FgRed).Fprintf(w, "%s\terror: %v\n", repo.Name, err)
			continue
		}

		status, isOutdated := compareVersion(repo.Current, latest)
		if isOutdated {
			outdated++
		}
		printStatus(w, repo, latest, status, isOutdated)
	}

	logger.Info("Checked watch list",
		slog.Int("repositories", len(list.Repositories)),
		slog.Int("outdated", outdated),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		return goerr.New("failed to check some repositories",
			goerr.V("failed", failed), goerr.V("total", len(list.Repositories)))
	}
	return nil
}

func compareVersion(current, latest string) (status string, outdated bool) {
	if current == "" {
		return "", false
	}

	currentVer, err := usecase.ParseTag(current)
	if err != nil {
		return "current version is not semantic", false
	}
	latestVer, err := usecase.ParseTag(latest)
	if err != nil {
		return "", false
	}

	if latestVer.GreaterThan(currentVer) {
		return "outdated", true
	}
	return "up to date", false
}

func printStatus(w io.Writer, repo config.WatchedRepository, latest, status string, outdated bool) {
	line := fmt.Sprintf("%s\t%s", repo.Name, latest)
	if repo.Current != "" {
		line = fmt.Sprintf("%s\t%s -> %s\t%s", repo.Name, repo.Current, latest, status)
	}

	c := color.New(color.FgGreen)
	if outdated {
		c = color.New(color.FgYellow)
	}
	_, _ = c.Fprintln(w, line)
}
