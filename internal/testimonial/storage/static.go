package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/herobrain/site/internal/platform/validate"
	"github.com/herobrain/site/internal/testimonial"
)

// StaticStore serves a collection read once from a bundled document.
// The document never changes while the process runs.
type StaticStore struct {
	source string
	data   []testimonial.Testimonial
}

// NewStaticStore reads name from fsys, decoding JSON or YAML by its extension.
// Records with the wrong type in a field are kept with that field empty, a
// document that can't be parsed or isn't a list is a *testimonial.LoadError.
func NewStaticStore(ctx context.Context, fsys fs.FS, name string) (*StaticStore, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, &testimonial.LoadError{Source: name, Err: err}
	}

	data, err := decode(name, b)
	if err != nil {
		return nil, &testimonial.LoadError{Source: name, Err: err}
	}

	warnInvalid(ctx, name, data)

	return &StaticStore{source: name, data: data}, nil
}

// NewStaticStoreFrom serves the passed in testimonials as if they were read from source.
func NewStaticStoreFrom(source string, ts []testimonial.Testimonial) *StaticStore {
	return &StaticStore{source: source, data: slices.Clone(ts)}
}

func (s *StaticStore) All(_ context.Context) ([]testimonial.Testimonial, error) {
	return slices.Clone(s.data), nil
}

func (s *StaticStore) Source() string {
	return s.source
}

var errNotAList = errors.New("testimonials document is not a list")

func decode(name string, b []byte) ([]testimonial.Testimonial, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return decodeYAML(b)
	case ".json", "":
		return decodeJSON(b)
	default:
		return nil, fmt.Errorf("unsupported testimonials format: %q", path.Ext(name))
	}
}

func decodeJSON(b []byte) ([]testimonial.Testimonial, error) {
	var ts []testimonial.Testimonial
	err := json.Unmarshal(b, &ts)

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "" {
		return nil, fmt.Errorf("%w, found %s", errNotAList, typeErr.Value)
	}
	if errors.As(err, &typeErr) {
		// encoding/json has decoded everything else it could, so keep that.
		slog.Warn("testimonial field has the wrong type, leaving it empty", "field", typeErr.Field, "error", err)
		return ts, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}

	return ts, nil
}

type yamlRecord struct {
	ID        string `yaml:"id"`
	Quote     string `yaml:"quote"`
	Author    string `yaml:"author"`
	Role      string `yaml:"role"`
	Company   string `yaml:"company"`
	Rating    int    `yaml:"rating"`
	Color     string `yaml:"color"`
	CreatedAt string `yaml:"createdAt"`
	Status    string `yaml:"status"`
}

func decodeYAML(b []byte) ([]testimonial.Testimonial, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, errNotAList
	}

	var records []yamlRecord
	err := doc.Content[0].Decode(&records)

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		slog.Warn("testimonial field has the wrong type, leaving it empty", "errors", typeErr.Errors)
	} else if err != nil {
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}

	ret := make([]testimonial.Testimonial, 0, len(records))
	for _, r := range records {
		ret = append(ret, testimonial.Testimonial{
			ID:        r.ID,
			Quote:     r.Quote,
			Author:    r.Author,
			Role:      r.Role,
			Company:   r.Company,
			Rating:    r.Rating,
			Color:     r.Color,
			CreatedAt: testimonial.ParseTimestamp(r.CreatedAt),
			Status:    testimonial.Status(r.Status),
		})
	}

	return ret, nil
}

func warnInvalid(ctx context.Context, source string, ts []testimonial.Testimonial) {
	for i, t := range ts {
		if err := validate.Var(ctx, t.ID, "required"); err != nil {
			slog.Warn("testimonial has no id", "source", source, "index", i)
		}
		if err := validate.Struct(ctx, t); err != nil {
			slog.Warn("testimonial is incomplete, showing it anyway", "source", source, "id", t.ID, "error", err)
		}
	}
}
