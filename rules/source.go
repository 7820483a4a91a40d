package rules

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/desitranslate/desi"
)

//go:embed data/*.json
var embeddedData embed.FS

// maxFileSize bounds a single rule file read from a remote source.
const maxFileSize = 32 << 20

// Source provides raw rule files by name.
type Source interface {
	// ReadFile returns the contents of the named file. A missing file is
	// reported with an error matching fs.ErrNotExist.
	ReadFile(ctx context.Context, name string) ([]byte, error)

	// Location describes where the named file is read from.
	Location(name string) string
}

type fsSource struct {
	fsys fs.FS
	root string
}

// FS returns a Source reading from fsys. root is only used in error messages.
func FS(fsys fs.FS, root string) Source {
	return &fsSource{fsys: fsys, root: root}
}

// Embedded returns the rule tables compiled into the binary.
func Embedded() Source {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		panic(err)
	}
	return &fsSource{fsys: sub, root: "embedded"}
}

// Dir returns a Source reading rule files from a directory.
func Dir(dir string) Source {
	return &fsSource{fsys: os.DirFS(dir), root: dir}
}

func (s *fsSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(s.fsys, name)
}

func (s *fsSource) Location(name string) string {
	if s.root == "embedded" {
		return "embedded:" + name
	}
	return path.Join(s.root, name)
}

// HTTPSource reads rule files from a base URL with GET <base>/<name>.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	retry   desi.RetryConfig
	maxSize int64
}

// HTTP returns a Source fetching rule files over HTTP. A nil client uses a
// client with a 30 second timeout.
func HTTP(baseURL string, client *http.Client, retry desi.RetryConfig) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		retry:   retry,
		maxSize: maxFileSize,
	}
}

func (s *HTTPSource) Location(name string) string {
	return s.baseURL + "/" + name
}

// ReadFile fetches a rule file. 404 is reported as fs.ErrNotExist; server
// errors and transport failures are retried.
func (s *HTTPSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	return desi.WithRetry(ctx, s.retry, func() ([]byte, error) {
		return s.fetch(ctx, name)
	})
}

func (s *HTTPSource) fetch(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Location(name), nil)
	if err != nil {
		return nil, &desi.SourceError{Message: "building request", Cause: err}
	}
	req.Header.Set("User-Agent", desi.UserAgent())
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &desi.SourceError{Message: "request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, &desi.SourceError{
			Message:    fmt.Sprintf("status %d", resp.StatusCode),
			Retryable:  true,
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode != http.StatusOK:
		return nil, &desi.SourceError{Message: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSize+1))
	if err != nil {
		return nil, &desi.SourceError{Message: "reading body", Cause: err, Retryable: true}
	}
	if int64(len(data)) > s.maxSize {
		return nil, &desi.SourceError{Message: fmt.Sprintf("rule file too large: %s exceeds %d bytes", name, s.maxSize)}
	}
	return data, nil
}

// retryAfter parses a Retry-After header given in seconds. HTTP dates and
// malformed values yield zero.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
