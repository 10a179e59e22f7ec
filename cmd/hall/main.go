// Command hall opens the hall of fame: three rooms of top-ten tracks to walk
// through, click and listen to.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"hall-of-fame/internal/config"
)

func main() {
	var (
		envFile    string
		assets     string
		token      string
		fullscreen bool
	)

	cmd := &cobra.Command{
		Use:   "hall",
		Short: "Walk through Spotify's top tracks",
		Long: `hall - Spotify hall of fame

Three halls show the global, Mexican and personal top ten tracks.

Controls:
  Click         - Capture the mouse / play or pause the track in view
  Mouse         - Look around
  W/A/S/D       - Walk (arrow keys work too)
  M             - Stop the music
  Esc           - Release the mouse`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("assets") {
				cfg.AssetBase = assets
			}
			if flags.Changed("token") {
				cfg.Token = token
			}
			if flags.Changed("fullscreen") {
				cfg.Fullscreen = fullscreen
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env", "", "Read settings from this .env file instead of ./.env")
	cmd.Flags().StringVar(&assets, "assets", "", "Asset directory or base URL")
	cmd.Flags().StringVar(&token, "token", "", "Spotify access token (skips the browser login)")
	cmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "Open fullscreen")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Printf("[Hall] %v", err)
		stop()
		os.Exit(1)
	}
}
