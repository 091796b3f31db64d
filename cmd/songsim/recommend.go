package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/songsim/internal/adapters/cli"
	service "github.com/okian/songsim/internal/app"
)

type recommendFlags struct {
	k          int
	popularity string
	genre      string
	output     string
	copy       bool
}

func newRecommendCmd(gf *globalFlags) *cobra.Command {
	var rf recommendFlags

	cmd := &cobra.Command{
		Use:   "recommend [song id or name]",
		Short: "Recommend songs similar to a given song",
		Long: `Recommend songs with audio features close to the given song.

Anything not given on the command line is asked for when stdin is a
terminal. Otherwise k falls back to default_k and no filters are applied.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, gf, &rf, strings.Join(args, " "))
		},
	}

	cmd.Flags().IntVarP(&rf.k, "k", "k", 0, "Number of recommendations")
	cmd.Flags().StringVar(&rf.popularity, "popularity", "", "Popularity filter: none, underground, popular")
	cmd.Flags().StringVar(&rf.genre, "genre", "", "Genre filter: none, same, different")
	cmd.Flags().StringVarP(&rf.output, "output", "o", "text", "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&rf.copy, "copy", false, "Copy recommended track ids to the clipboard")

	return cmd
}

func runRecommend(cmd *cobra.Command, gf *globalFlags, rf *recommendFlags, song string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := cli.ParseFormat(rf.output)
	if err != nil {
		return err
	}
	if rf.k < 0 {
		return fmt.Errorf("%w: k=%d", service.ErrInvalidK, rf.k)
	}

	_, svc, err := bootstrap(ctx, gf)
	if err != nil {
		return err
	}

	var prompter cli.Prompter
	if cli.IsInteractive(os.Stdin) {
		prompter = cli.NewSurveyPrompter()
	}

	exists := func(ident string) error {
		_, _, err := svc.Lookup(ctx, ident)
		return err
	}
	q, err := cli.Resolve(cli.Input{
		Song:       song,
		K:          rf.k,
		Popularity: rf.popularity,
		Genre:      rf.genre,
	}, prompter, exists, svc.MaxK(), svc.DefaultK())
	if err != nil {
		return err
	}

	resp, err := svc.RecommendFor(ctx, q.Song, q.K, q.Filters)
	if err != nil {
		return err
	}

	if err := cli.Render(cmd.OutOrStdout(), format, resp); err != nil {
		return fmt.Errorf("render results: %w", err)
	}

	if rf.copy && len(resp.Results) > 0 {
		if err := cli.CopyTrackIDs(resp.Results); err != nil {
			return err
		}
		cli.ShowSuccess(cmd.ErrOrStderr(), fmt.Sprintf("copied %d track ids to the clipboard", len(resp.Results)))
	}
	return nil
}
