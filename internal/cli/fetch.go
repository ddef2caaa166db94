package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ppiankov/splitforge/internal/config"
	"github.com/ppiankov/splitforge/internal/fetch"
)

func newFetchCmd() *cobra.Command {
	var (
		outDir      string
		noUnzip     bool
		keepArchive bool
	)

	cmd := &cobra.Command{
		Use:   "fetch REF",
		Short: "Download a dataset archive into a local directory",
		Long: `Fetch downloads a dataset archive and extracts it, ready for splitting.

REF forms:
  kaggle:owner/dataset-name      Kaggle dataset (needs the kaggle CLI)
  kaggle:c/competition-name      Kaggle competition
  s3://bucket/path/archive.zip   object store (fetch.s3 settings or S3_* env)
  https://host/path/archive.zip  direct download`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadSettings(configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Fetch != nil {
				if !cmd.Flags().Changed("out") && cfg.Fetch.OutDir != "" {
					outDir = cfg.Fetch.OutDir
				}
				if !cmd.Flags().Changed("keep-archive") && cfg.Fetch.KeepArchive {
					keepArchive = true
				}
			}
			return runFetch(args[0], outDir, !noUnzip, keepArchive, cfg)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "directory to download into")
	cmd.Flags().BoolVar(&noUnzip, "no-unzip", false, "keep the archive packed")
	cmd.Flags().BoolVar(&keepArchive, "keep-archive", false, "keep the archive after extraction")

	return cmd
}

func runFetch(rawRef, outDir string, unzip, keepArchive bool, cfg *config.Settings) error {
	// credentials for kaggle/s3 may live in a local .env
	_ = godotenv.Load()

	ref, err := fetch.Parse(rawRef)
	if err != nil {
		return err
	}

	f := &fetch.Fetcher{}
	if ref.Scheme == fetch.SchemeS3 {
		s3, err := s3Options(cfg)
		if err != nil {
			return err
		}
		f.S3 = s3
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	archive, err := f.Fetch(ctx, ref, outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Fetched %s\n", archive)

	if unzip && fetch.IsZip(archive) {
		destDir := strings.TrimSuffix(archive, filepath.Ext(archive))
		if err := fetch.Unzip(archive, destDir); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Extracted to %s\n", destDir)
		if !keepArchive {
			if err := os.Remove(archive); err != nil {
				slog.Warn("remove archive", "error", err)
			}
		}
	}
	return nil
}

// s3Options resolves the object-store endpoint from settings, falling
// back to conventional S3_* environment variables.
func s3Options(cfg *config.Settings) (*fetch.S3Options, error) {
	if cfg.Fetch == nil || cfg.Fetch.S3 == nil {
		endpoint := os.Getenv("S3_ENDPOINT")
		if endpoint == "" {
			return nil, fmt.Errorf("s3 ref: configure fetch.s3 in %s or set S3_ENDPOINT", configFile)
		}
		return &fetch.S3Options{
			Endpoint:  endpoint,
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			UseSSL:    true,
		}, nil
	}

	s3 := cfg.Fetch.S3
	access, err := config.ResolveSecret(s3.AccessKey)
	if err != nil {
		return nil, err
	}
	secret, err := config.ResolveSecret(s3.SecretKey)
	if err != nil {
		return nil, err
	}
	return &fetch.S3Options{
		Endpoint:  s3.Endpoint,
		Region:    s3.Region,
		AccessKey: access,
		SecretKey: secret,
		UseSSL:    s3.UseSSL,
	}, nil
}
