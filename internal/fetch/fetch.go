package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Options holds the object-store endpoint for s3:// refs.
type S3Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Fetcher downloads dataset archives into a local directory.
type Fetcher struct {
	Logger *slog.Logger
	S3     *S3Options   // required for s3:// refs
	Client *http.Client // nil = http.DefaultClient
}

// Fetch retrieves the artifact behind ref into destDir and returns the
// local file path. destDir is created if absent.
func (f *Fetcher) Fetch(ctx context.Context, ref *Ref, destDir string) (string, error) {
	if f.Logger == nil {
		f.Logger = slog.Default()
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create dest dir: %w", err)
	}

	dest := filepath.Join(destDir, ref.ArchiveName())
	f.Logger.Info("fetching dataset", "ref", ref.String(), "dest", dest)

	switch ref.Scheme {
	case SchemeKaggle:
		return dest, f.fetchKaggle(ctx, ref, destDir)
	case SchemeS3:
		return dest, f.fetchS3(ctx, ref, dest)
	default:
		return dest, f.fetchHTTP(ctx, ref, dest)
	}
}

// fetchKaggle shells out to the kaggle CLI, which handles auth and
// packaging. Credentials must exist as ~/.kaggle/kaggle.json or the
// KAGGLE_USERNAME/KAGGLE_KEY pair.
func (f *Fetcher) fetchKaggle(ctx context.Context, ref *Ref, destDir string) error {
	if err := checkKaggleCredentials(); err != nil {
		return err
	}

	var args []string
	if ref.Competition {
		args = []string{"competitions", "download", "-c", ref.Name, "-p", destDir}
	} else {
		args = []string{"datasets", "download", "-d", ref.Owner + "/" + ref.Name, "-p", destDir}
	}

	cmd := exec.CommandContext(ctx, "kaggle", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("kaggle download: %w\n%s", err, out)
	}
	return nil
}

func checkKaggleCredentials() error {
	if os.Getenv("KAGGLE_USERNAME") != "" && os.Getenv("KAGGLE_KEY") != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home dir: %w", err)
	}
	path := filepath.Join(home, ".kaggle", "kaggle.json")
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("kaggle credentials not found: set KAGGLE_USERNAME/KAGGLE_KEY or place %s", path)
	}
	return nil
}

func (f *Fetcher) fetchS3(ctx context.Context, ref *Ref, dest string) error {
	if f.S3 == nil || f.S3.Endpoint == "" {
		return fmt.Errorf("s3 ref %s: no s3 endpoint configured", ref)
	}

	client, err := minio.New(f.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(f.S3.AccessKey, f.S3.SecretKey, ""),
		Secure: f.S3.UseSSL,
		Region: f.S3.Region,
	})
	if err != nil {
		return fmt.Errorf("init s3 client: %w", err)
	}

	if err := client.FGetObject(ctx, ref.Bucket, ref.Key, dest, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("s3 get %s: %w", ref, err)
	}
	return nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, ref *Ref, dest string) error {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", ref.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", ref.URL, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return out.Close()
}
