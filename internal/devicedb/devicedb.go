package devicedb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/larsks/lutronctl/internal/devicetree"
)

const (
	databasePath    = "/DbXmlInfo.xml"
	integrationPort = "23"
)

// HTTPClient interface for testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options controls where the device database comes from.
type Options struct {
	// Path is the local cache. Files ending in .yaml or .yml hold the
	// YAML format; anything else holds the repeater's XML.
	Path string
	// Address is the repeater host used to fetch the database when the
	// cache is missing or Refresh is set.
	Address string
	Refresh bool
	Client  HTTPClient
}

// Load returns the device tree from the cache, fetching and caching the
// repeater's database when needed.
func Load(ctx context.Context, opts Options) (*devicetree.Tree, error) {
	if !opts.Refresh && opts.Path != "" {
		tree, err := LoadFile(opts.Path)
		if err == nil {
			log.Printf("loaded device database from %s: %s", opts.Path, tree)
			return tree, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if opts.Address == "" {
		return nil, fmt.Errorf("%w: no cached database at %q and no repeater address", ErrNoDatabase, opts.Path)
	}

	data, err := Fetch(ctx, opts.Client, opts.Address)
	if err != nil {
		return nil, err
	}

	tree, err := ParseXML(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	log.Printf("fetched device database from %s: %s", opts.Address, tree)

	if opts.Path != "" {
		if err := writeCache(opts.Path, data, tree); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// LoadFile reads a cached database. The error satisfies os.IsNotExist when
// the file is missing.
func LoadFile(path string) (*devicetree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	if isYAML(path) {
		return ParseYAML(f)
	}
	return ParseXML(f)
}

// Fetch downloads the integration database from the repeater.
func Fetch(ctx context.Context, client HTTPClient, address string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	// The integration port serves telnet, not the database.
	host := address
	if h, port, err := net.SplitHostPort(address); err == nil && port == integrationPort {
		host = h
	}
	url := "http://" + host + databasePath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetchFailed, url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return data, nil
}

func writeCache(path string, data []byte, tree *devicetree.Tree) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}

	if !isYAML(path) {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("%w: %v", ErrCacheWrite, err)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := WriteYAML(&buf, tree); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
