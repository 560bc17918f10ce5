package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/jpeg"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxImageBytes bounds how much of a remote evidence image is read.
const maxImageBytes = 20 << 20

// ImageFetcher resolves an evidence image reference (http(s) URL or data URI)
// to PNG bytes ready for embedding.
type ImageFetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// HTTPImageFetcher fetches images over HTTP with a bounded timeout and
// transcodes them to PNG. It also accepts inline data URIs.
type HTTPImageFetcher struct {
	client *http.Client
}

// NewHTTPImageFetcher builds a fetcher whose transport is instrumented for
// tracing and whose requests are bounded by timeout.
func NewHTTPImageFetcher(timeout time.Duration) *HTTPImageFetcher {
	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

func (f *HTTPImageFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	var raw []byte
	switch {
	case strings.HasPrefix(ref, "data:"):
		data, _, err := DecodeDataURI(ref)
		if err != nil {
			return nil, err
		}
		raw = data
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, fmt.Errorf("build image request: %w", err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch image: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
		}
		raw, err = io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
		if err != nil {
			return nil, fmt.Errorf("read image body: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported image reference %q", truncateRef(ref))
	}

	return TranscodeToPNG(raw)
}

// TranscodeToPNG decodes any stdlib-supported image format (PNG, JPEG, GIF)
// and re-encodes it as PNG. Re-encoding even for PNG input keeps the embedded
// bytes predictable and rejects corrupt payloads before they reach the
// document engine, whose errors are sticky.
func TranscodeToPNG(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeDataURI splits a data URI into raw bytes and its MIME type.
// Only base64-encoded payloads are supported.
func DecodeDataURI(uri string) (data []byte, mimeType string, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI: missing payload")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("unsupported data URI encoding (want base64)")
	}
	mimeType = strings.TrimSuffix(meta, ";base64")
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URI payload: %w", err)
	}
	return data, mimeType, nil
}

func truncateRef(ref string) string {
	if len(ref) > 64 {
		return ref[:64] + "..."
	}
	return ref
}
