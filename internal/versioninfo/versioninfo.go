// Package versioninfo resolves a target engine version string into the
// pack_format integer a generated datapack's pack.mcmeta must declare.
// It fetches a small JSON manifest over HTTP, validates its shape with
// a JSON Schema, verifies the selected entry with a BLAKE2b digest,
// and caches validated entries on disk as CBOR so repeat builds for
// the same version don't re-fetch.
package versioninfo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cubent-lang/cubent/internal/cerr"
	"github.com/cubent-lang/cubent/internal/token"
	"github.com/fxamacker/cbor/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/mod/semver"
)

// MinVersion is the oldest engine version Cubent's generated command
// set is known to run against; resolving an older version is a
// ConfigError.
const MinVersion = "1.14.1"

// ManifestEntry is one version's metadata, as published by the
// manifest and as cached on disk.
type ManifestEntry struct {
	Version    string `json:"version" cbor:"version"`
	PackFormat int    `json:"pack_format" cbor:"pack_format"`
	Checksum   string `json:"checksum" cbor:"checksum"`
}

const manifestSchema = `{
  "type": "object",
  "required": ["versions"],
  "properties": {
    "versions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["version", "pack_format", "checksum"],
        "properties": {
          "version": {"type": "string"},
          "pack_format": {"type": "integer"},
          "checksum": {"type": "string"}
        }
      }
    }
  }
}`

// Resolver fetches and caches version manifests.
type Resolver struct {
	ManifestURL string
	CacheDir    string
	HTTPClient  *http.Client
	schema      *jsonschema.Schema
}

// NewResolver returns a Resolver reading manifestURL and caching
// validated entries under cacheDir.
func NewResolver(manifestURL, cacheDir string) (*Resolver, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("manifest.json", strings.NewReader(manifestSchema)); err != nil {
		return nil, fmt.Errorf("compiling manifest schema: %w", err)
	}
	schema, err := compiler.Compile("manifest.json")
	if err != nil {
		return nil, fmt.Errorf("compiling manifest schema: %w", err)
	}
	return &Resolver{
		ManifestURL: manifestURL,
		CacheDir:    cacheDir,
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
		schema:      schema,
	}, nil
}

// PackFormat resolves version (an exact "M.N.P" string, or "latest")
// to its pack_format integer.
func (r *Resolver) PackFormat(version string) (int, *cerr.Error) {
	if version != "latest" && normalizeSemver(version) != "" && semver.Compare(normalizeSemver(version), normalizeSemver(MinVersion)) < 0 {
		return 0, cerr.NewConfig("engine version %q is older than the minimum supported version %q", version, MinVersion)
	}

	if entry, ok := r.readCache(version); ok {
		return entry.PackFormat, nil
	}

	entries, ioErr := r.fetchManifest()
	if ioErr != nil {
		return 0, ioErr
	}

	entry, found := selectVersion(entries, version)
	if !found {
		return 0, cerr.NewConfig("no manifest entry found for engine version %q", version)
	}

	if !verifyChecksum(entry) {
		return 0, cerr.NewIO(token.Position{}, nil, "manifest entry for %q failed its checksum", entry.Version)
	}

	r.writeCache(version, entry)
	return entry.PackFormat, nil
}

func normalizeSemver(v string) string {
	v = strings.TrimPrefix(v, "v")
	if !strings.Contains(v, ".") {
		return ""
	}
	parts := strings.SplitN(v, ".", 3)
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	candidate := "v" + strings.Join(parts[:3], ".")
	if !semver.IsValid(candidate) {
		return ""
	}
	return candidate
}

func (r *Resolver) fetchManifest() ([]ManifestEntry, *cerr.Error) {
	resp, err := r.HTTPClient.Get(r.ManifestURL)
	if err != nil {
		return nil, cerr.NewIO(token.Position{}, err, "failed to fetch version manifest from %q", r.ManifestURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cerr.NewIO(token.Position{}, err, "failed to read version manifest body")
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, cerr.NewIO(token.Position{}, err, "version manifest is not valid JSON")
	}
	if err := r.schema.Validate(doc); err != nil {
		return nil, cerr.NewIO(token.Position{}, err, "version manifest failed schema validation")
	}

	var parsed struct {
		Versions []ManifestEntry `json:"versions"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, cerr.NewIO(token.Position{}, err, "failed to decode version manifest")
	}
	return parsed.Versions, nil
}

func selectVersion(entries []ManifestEntry, version string) (ManifestEntry, bool) {
	if version == "latest" {
		var best ManifestEntry
		found := false
		for _, e := range entries {
			ne := normalizeSemver(e.Version)
			if ne == "" {
				continue
			}
			if !found || semver.Compare(ne, normalizeSemver(best.Version)) > 0 {
				best = e
				found = true
			}
		}
		return best, found
	}
	for _, e := range entries {
		if e.Version == version {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

// verifyChecksum recomputes the BLAKE2b-256 digest of entry's
// canonical "<version>:<pack_format>" payload and compares it against
// the manifest-supplied checksum.
func verifyChecksum(entry ManifestEntry) bool {
	payload := fmt.Sprintf("%s:%d", entry.Version, entry.PackFormat)
	sum := blake2b.Sum256([]byte(payload))
	return fmt.Sprintf("%x", sum) == entry.Checksum
}

func (r *Resolver) cachePath(version string) string {
	return filepath.Join(r.CacheDir, version+".cbor")
}

func (r *Resolver) readCache(version string) (ManifestEntry, bool) {
	data, err := os.ReadFile(r.cachePath(version))
	if err != nil {
		return ManifestEntry{}, false
	}
	var entry ManifestEntry
	if err := cbor.Unmarshal(data, &entry); err != nil {
		return ManifestEntry{}, false
	}
	return entry, true
}

func (r *Resolver) writeCache(version string, entry ManifestEntry) {
	if r.CacheDir == "" {
		return
	}
	if err := os.MkdirAll(r.CacheDir, 0o755); err != nil {
		return
	}
	data, err := cbor.Marshal(entry)
	if err != nil {
		return
	}
	_ = os.WriteFile(r.cachePath(version), data, 0o644)
}
