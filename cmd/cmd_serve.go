// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/mapchat/mapchat/web"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat map page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := appConfig.Validate(); err != nil {
			return err
		}

		if cmd.Flags().Changed("addr") {
			appConfig.Server.Addr = serveAddr
		}

		if appConfig.Server.GinMode != "" {
			gin.SetMode(appConfig.Server.GinMode)
		}

		a, err := newApp(cmd.Context(), appConfig, logger)
		if err != nil {
			return err
		}

		if appConfig.Map.JSKey == "" {
			logger.Warn("AMAP_JS_API_KEY is not set, the map will not load")
		}

		return web.NewServer(a.service, appConfig.Map, logger).Run(cmd.Context(), appConfig.Server.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "0.0.0.0:8000", "Address to listen on")
}
