// Package fetch downloads release archives over HTTP.
package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vtex/netweaver-setup/cache"
	"github.com/vtex/netweaver-setup/ioext"
	"github.com/vtex/netweaver-setup/metrics"
)

const defaultTimeout = 5 * time.Minute

var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// HTTPFetcher streams a GET response into a local file. It does not retry.
type HTTPFetcher struct {
	client  *http.Client
	metrics metrics.Recorder
}

// NewHTTPFetcher builds a fetcher whose client caches responses in memory, so
// asking twice for the same release within a process only downloads it once.
func NewHTTPFetcher(recorder metrics.Recorder) *HTTPFetcher {
	transport := httpcache.NewTransport(cache.HTTP())
	return NewHTTPFetcherWithClient(&http.Client{Transport: transport, Timeout: defaultTimeout}, recorder)
}

func NewHTTPFetcherWithClient(client *http.Client, recorder metrics.Recorder) *HTTPFetcher {
	if recorder == nil {
		recorder = metrics.Nop
	}
	return &HTTPFetcher{client: client, metrics: recorder}
}

// Fetch downloads url to destPath and returns destPath. A partially written
// file is removed on failure.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, destPath string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrapf(err, "build request for %s", url)
	}

	res, err := f.client.Do(req.WithContext(ctx))
	if err != nil {
		return "", errors.Wrapf(err, "download %s", url)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", errors.Wrapf(ErrUnexpectedStatus, "download %s: %s", url, res.Status)
	}

	written, err := writeTo(destPath, res.Body)
	if err != nil {
		os.Remove(destPath)
		return "", errors.Wrapf(err, "save %s", url)
	}

	f.metrics.AddDownloadedBytes(written)
	logrus.WithFields(logrus.Fields{
		"url":       url,
		"path":      destPath,
		"bytes":     written,
		"fromCache": res.Header.Get(httpcache.XFromCache) != "",
	}).Info("Downloaded archive")
	return destPath, nil
}

func writeTo(path string, r io.Reader) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}
	out, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	buf := ioext.BufferPool.GetSlice()
	defer ioext.BufferPool.PutSlice(buf)

	written, err := io.CopyBuffer(out, r, buf)
	if err != nil {
		out.Close()
		return written, err
	}
	return written, out.Close()
}
