package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	inkwell "github.com/kailas-cloud/inkwell/pkg/sdk"
)

var sitemapOutput string

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Generate sitemap.xml from published posts and categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Site.Hostname == "" {
			return fmt.Errorf("site.hostname is required for the sitemap")
		}
		ctx := cmd.Context()
		client, err := newClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		xml, err := client.Sitemap(ctx, inkwell.SitemapConfig{
			Hostname: cfg.Site.Hostname,
			Name:     cfg.Site.Name,
			Language: cfg.Site.Language,
		})
		if err != nil {
			return err
		}

		if sitemapOutput == "" || sitemapOutput == "-" {
			_, err = cmd.OutOrStdout().Write(xml)
			return err
		}
		if err := os.WriteFile(filepath.Clean(sitemapOutput), xml, 0o600); err != nil {
			return fmt.Errorf("write sitemap: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Sitemap written to %s\n", sitemapOutput)
		return nil
	},
}

func init() {
	sitemapCmd.Flags().StringVarP(&sitemapOutput, "output", "o", "-", "output file, - for stdout")
}
