package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/type-dot-com/homebrew-linear-branch/internal/app"
	"github.com/type-dot-com/homebrew-linear-branch/internal/config"
	"github.com/type-dot-com/homebrew-linear-branch/internal/gitx"
	"github.com/type-dot-com/homebrew-linear-branch/internal/intent"
	"github.com/type-dot-com/homebrew-linear-branch/internal/linear"
	"github.com/type-dot-com/homebrew-linear-branch/internal/prompt"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "linear-branch [issue-id | search text | new issue title]",
	Short: "Link the current git branch to a Linear issue",
	Long: `linear-branch names your branch after a Linear issue and moves the
issue to In Progress under your name.

With no arguments it shows a menu of your open issues and recent
unassigned ones. An argument that looks like an issue identifier
(ENG-142) links that issue directly; any other text searches for it.

Examples:
  linear-branch              browse issues interactively
  linear-branch ENG-142      link a specific issue
  linear-branch login bug    search issues, then pick one
  linear-branch -c           create a new issue and link it
  linear-branch --auto ENG-1 link without any prompts (CI, scripts)`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := intent.Flags{}
		flags.Auto, _ = cmd.Flags().GetBool("auto")
		flags.Create, _ = cmd.Flags().GetBool("create")
		resetTeam, _ := cmd.Flags().GetBool("team")

		// Prompts need a terminal; without one, behave as if --auto.
		unattended := flags.Auto || !term.IsTerminal(int(os.Stdin.Fd()))

		git := gitx.New("")
		repoRoot, err := git.RepoRoot(cmd.Context())
		if err != nil {
			return err
		}

		apiKey, err := config.APIKey(repoRoot)
		if err != nil {
			return err
		}

		teams, err := config.NewTeamCache("")
		if err != nil {
			return err
		}
		if resetTeam {
			if err := teams.Clear(); err != nil {
				return err
			}
		}

		a := &app.App{
			Tracker:    linear.NewClient(apiKey),
			Git:        git,
			Prompt:     prompt.NewTerminal(),
			Teams:      teams,
			Out:        cmd.OutOrStdout(),
			Unattended: unattended,
		}
		return a.Run(cmd.Context(), intent.Classify(flags, args))
	},
}

func init() {
	rootCmd.Flags().Bool("auto", false, "never prompt; fail instead of waiting for input")
	rootCmd.Flags().BoolP("create", "c", false, "create a new issue (arguments become the title)")
	rootCmd.Flags().Bool("team", false, "forget the cached team and pick again")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// A cancelled prompt is a quiet exit, not a failure.
		if errors.Is(err, prompt.ErrCancelled) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
