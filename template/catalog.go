package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/contentkit/internal/fileutil"
)

// Catalog is the on-disk form of a template collection. JSON documents
// decode too, since YAML is a superset.
type Catalog struct {
	Templates []*Template `json:"templates" yaml:"templates" jsonschema:"required"`
}

// LoadCatalog reads and validates a catalog file.
func LoadCatalog(path string) ([]*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes catalog bytes and validates each template.
func ParseCatalog(data []byte) ([]*Template, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %w", ErrTemplateValidation, err)
	}
	for i, t := range c.Templates {
		if t == nil {
			return nil, fmt.Errorf("%w: catalog entry %d is empty", ErrTemplateValidation, i)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d (%s): %w", i, t.Name, err)
		}
	}
	return c.Templates, nil
}

// SaveCatalog writes templates as YAML. The file is replaced atomically.
func SaveCatalog(path string, templates []*Template) error {
	data, err := yaml.Marshal(Catalog{Templates: templates})
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return fileutil.WriteAtomic(path, data)
}

// CatalogSchema returns the JSON Schema describing catalog files.
func CatalogSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := r.Reflect(&Catalog{})
	schema.Title = "contentkit template catalog"
	return json.MarshalIndent(schema, "", "  ")
}
