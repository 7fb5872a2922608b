package openapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/blimu-dev/apiblocks/pkg/document"
)

// SupportedVersionPrefix is the only document version accepted by Load.
const SupportedVersionPrefix = "3.1"

// Document is a parsed source document with its identity.
type Document struct {
	Root *document.Node
	// Fingerprint is the first 12 hex characters of the SHA-256 of the raw bytes
	Fingerprint string
	Version     string
	Source      string
	Raw         []byte
}

// LoadOptions tunes remote fetching. Local sources ignore everything but
// Logger.
type LoadOptions struct {
	// CacheDir holds openapi.yml and openapi.etag for conditional fetches
	CacheDir string
	Timeout  time.Duration
	// Retries is the number of attempts after the first one
	Retries int
	// RetryInterval is the initial back-off interval, one second when zero
	RetryInterval time.Duration
	Logger        logrus.FieldLogger
}

// Load reads a document from a local path, a file:// URL or an http(s) URL,
// checks that it is an OpenAPI 3.1 mapping and fingerprints it.
func Load(ctx context.Context, source string, opts LoadOptions) (*Document, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	var (
		raw []byte
		err error
	)
	switch u, perr := url.Parse(source); {
	case perr == nil && (u.Scheme == "http" || u.Scheme == "https"):
		raw, err = newFetcher(source, opts).fetch(ctx)
	case perr == nil && u.Scheme == "file":
		raw, err = readLocal(u.Path)
	default:
		raw, err = readLocal(source)
	}
	if err != nil {
		return nil, err
	}
	return Parse(source, raw)
}

// Parse checks and fingerprints raw document bytes.
func Parse(source string, raw []byte) (*Document, error) {
	root, err := document.Parse(raw)
	if err != nil {
		return nil, errors.NewNotValid(err, fmt.Sprintf("document %s is not valid YAML", source))
	}
	if !root.IsMapping() {
		return nil, errors.NewNotValid(nil, fmt.Sprintf("document %s: root must be a mapping", source))
	}

	version := root.StringField("openapi")
	if !strings.HasPrefix(version, SupportedVersionPrefix) {
		return nil, errors.NotSupportedf("OpenAPI version %q (expected %s.x)", version, SupportedVersionPrefix)
	}

	sum := sha256.Sum256(raw)
	return &Document{
		Root:        root,
		Fingerprint: hex.EncodeToString(sum[:])[:12],
		Version:     version,
		Source:      source,
		Raw:         raw,
	}, nil
}

func readLocal(path string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if os.IsNotExist(err) {
		return nil, errors.NotFoundf("document %s", path)
	}
	if err != nil {
		return nil, errors.Annotatef(err, "failed to read local document %s", path)
	}
	return raw, nil
}

// ValidateDocument validates an OpenAPI document structurally
func ValidateDocument(ctx context.Context, input string) error {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true, Context: ctx}
	var (
		doc *openapi3.T
		err error
	)
	if u, perr := url.Parse(input); perr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		doc, err = loader.LoadFromURI(u)
	} else {
		doc, err = loader.LoadFromFile(input)
	}
	if err != nil {
		return errors.Annotatef(err, "failed to load %s", input)
	}
	return doc.Validate(loader.Context)
}
