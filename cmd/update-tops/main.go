// Command update-tops refreshes the static track documents the hall falls
// back to when no user is logged in.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"hall-of-fame/internal/config"
	"hall-of-fame/internal/spotify"
)

func main() {
	var (
		envFile string
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "update-tops",
		Short: "Fetch the global and regional top ten into JSON documents",
		Long: `update-tops - refresh global.json and regional.json

Reads CLIENT_SECRET from the environment or a .env file, obtains an app
token with the client-credentials grant and writes the first ten tracks of
each chart playlist into the output directory.`,
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
			if cfg.ClientSecret == "" {
				return errors.New("CLIENT_SECRET is not set")
			}
			u := updater{
				tokenURL:  spotify.TokenEndpoint,
				apiBase:   spotify.APIBase,
				clientID:  cfg.ClientID,
				secret:    cfg.ClientSecret,
				outDir:    outDir,
				playlists: defaultPlaylists(),
			}
			return u.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&envFile, "env", "", "Read settings from this .env file instead of ./.env")
	cmd.Flags().StringVarP(&outDir, "out", "o", "assets", "Directory the documents are written to")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Printf("[UpdateTops] %v", err)
		stop()
		os.Exit(1)
	}
}
