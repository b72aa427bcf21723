package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var artifactOptions appOptions

var robotsCmd = &cobra.Command{
	Use:   "robots",
	Short: "Print robots.txt",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(ctx context.Context, a *app, out io.Writer) error {
			_, err := fmt.Fprint(out, a.seo.Robots(ctx).String())
			return err
		})(cmd)
	},
}

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Print sitemap.xml",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(ctx context.Context, a *app, out io.Writer) error {
			data, err := a.seo.Sitemap(ctx).Marshal()
			if err != nil {
				return fmt.Errorf("failed to encode sitemap: %w", err)
			}
			_, err = out.Write(data)
			return err
		})(cmd)
	},
}

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Print site.webmanifest",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(ctx context.Context, a *app, out io.Writer) error {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(a.seo.Manifest(ctx))
		})(cmd)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{robotsCmd, sitemapCmd, manifestCmd} {
		artifactOptions.register(cmd)
		rootCmd.AddCommand(cmd)
	}
}

// withApp builds the content stack for an artifact command and closes it afterwards.
func withApp(fn func(ctx context.Context, a *app, out io.Writer) error) func(*cobra.Command) error {
	return func(cmd *cobra.Command) error {
		ctx := context.Background()
		a, err := newApp(ctx, artifactOptions)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(ctx, a, cmd.OutOrStdout())
	}
}
