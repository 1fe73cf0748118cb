package cmd

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillora/internal/config"
	"github.com/abhisek/skillora/internal/server"
	"github.com/abhisek/skillora/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reporting API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRecorder(cmd, func(ctx context.Context, cfg *config.Config, rec *store.Recorder) error {
			addr := cfg.APIAddr
			if a, _ := cmd.Flags().GetString("addr"); a != "" {
				addr = a
			}

			gin.SetMode(gin.ReleaseMode)
			srv := server.New(rec, server.Options{CORSOrigins: cfg.CORSOrigins})
			return srv.ListenAndServe(ctx, addr, cfg.ShutdownTimeout)
		})
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides SKILLORA_API_ADDR)")
}
