package downloader

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/terratensor/csvhelpers/internal/config"
)

type Downloader struct {
	client     *http.Client
	dataDir    string
	maxRetries int
	progress   io.Writer
	log        logr.Logger
}

// New returns a downloader storing files under cfg.DataDir. Download progress
// is drawn on progress when it is not nil.
func New(cfg *config.Config, progress io.Writer, log logr.Logger) *Downloader {
	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}
	return &Downloader{
		client: &http.Client{
			Timeout: cfg.DownloadTimeout,
		},
		dataDir:    cfg.DataDir,
		maxRetries: retries,
		progress:   progress,
		log:        log,
	}
}

// Fetch downloads rawURL into the data directory and returns the local path.
// A file that is already present is reused. Zip archives are extracted and
// the path of their first file is returned.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %s: %w", rawURL, err)
	}
	filename := path.Base(u.Path)
	if filename == "" || filename == "." || filename == "/" {
		filename = uuid.NewString() + ".csv"
	}

	localPath, err := d.DownloadFile(ctx, rawURL, filename)
	if err != nil {
		return "", err
	}

	if !strings.EqualFold(filepath.Ext(localPath), ".zip") {
		return localPath, nil
	}
	files, err := d.ExtractZip(localPath)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("archive %s contains no files", localPath)
	}
	return files[0], nil
}

// DownloadFile fetches rawURL into dataDir/filename, retrying failed attempts.
func (d *Downloader) DownloadFile(ctx context.Context, rawURL, filename string) (string, error) {
	localPath := filepath.Join(d.dataDir, filename)

	if err := os.MkdirAll(d.dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}

	if _, err := os.Stat(localPath); err == nil {
		d.log.V(4).Info("Using cached download", "path", localPath)
		return localPath, nil
	}

	var lastErr error
	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		lastErr = d.download(ctx, rawURL, localPath, filename)
		if lastErr == nil {
			return localPath, nil
		}
		d.log.Info("Download failed", "url", rawURL, "attempt", attempt, "error", lastErr.Error())
		if attempt < d.maxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}
	}
	return "", fmt.Errorf("failed to download %s after %d attempts: %w", rawURL, d.maxRetries, lastErr)
}

// download writes into a uniquely named temp file and renames it into place
// so an interrupted transfer never leaves a truncated file behind.
func (d *Downloader) download(ctx context.Context, rawURL, localPath, filename string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	tmpPath := filepath.Join(d.dataDir, "."+uuid.NewString()+".part")
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	var dst io.Writer = out
	if d.progress != nil {
		bar := progressbar.NewOptions64(
			resp.ContentLength,
			progressbar.OptionSetWriter(d.progress),
			progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", filename)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(50),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(d.progress)
			}),
			progressbar.OptionSpinnerType(14),
		)
		dst = io.MultiWriter(out, bar)
	}

	_, copyErr := io.Copy(dst, resp.Body)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		if copyErr != nil {
			return fmt.Errorf("failed to save file: %w", copyErr)
		}
		return fmt.Errorf("failed to save file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, localPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move download into place: %w", err)
	}
	return nil
}

// ExtractZip unpacks the archive into the data directory and returns the
// extracted file paths. Entry paths are flattened to their base name.
func (d *Downloader) ExtractZip(zipPath string) ([]string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer reader.Close()

	var extractedFiles []string

	for _, zipFile := range reader.File {
		if zipFile.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(filepath.FromSlash(zipFile.Name))
		if name == "." || name == ".." || name == string(filepath.Separator) {
			continue
		}
		destPath := filepath.Join(d.dataDir, name)

		if _, err := os.Stat(destPath); err == nil {
			extractedFiles = append(extractedFiles, destPath)
			continue
		}

		if err := extractFile(zipFile, destPath); err != nil {
			return nil, err
		}

		extractedFiles = append(extractedFiles, destPath)
		d.log.V(4).Info("Extracted", "path", destPath)
	}

	return extractedFiles, nil
}

func extractFile(zipFile *zip.File, destPath string) error {
	rc, err := zipFile.Open()
	if err != nil {
		return fmt.Errorf("failed to open file %s in zip: %w", zipFile.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", destPath, err)
	}

	_, err = io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(destPath)
		return fmt.Errorf("failed to extract file %s: %w", zipFile.Name, err)
	}
	return nil
}
