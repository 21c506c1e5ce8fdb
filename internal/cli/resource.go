package cli

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ResourceDoc is one document of a resource file:
//
//	kind: queries
//	config_id: 23a4...   # optional, the primary configuration when empty
//	spec:
//	  - name: Price
//	    query: price OR cost
//
// spec holds a single item (a mapping) or a list of items.
type ResourceDoc struct {
	Kind     string `yaml:"kind" json:"kind"`
	ConfigID string `yaml:"config_id,omitempty" json:"config_id,omitempty"`
	Spec     any    `yaml:"spec" json:"spec"`
}

// TemplateContext is the data made available to resource file templates.
type TemplateContext struct {
	ENV map[string]string
}

var missingKeyRegex = regexp.MustCompile(`map has no entry for key "(.*?)"`)

// PreprocessYAML replaces {{ .ENV.VAR }} placeholders with values from the
// environment or a .env file in the working directory.
func PreprocessYAML(input []byte) ([]byte, error) {
	_ = godotenv.Load() // no error if .env doesn't exist

	envMap := map[string]string{}
	for _, e := range os.Environ() {
		if k, v, ok := strings.Cut(e, "="); ok {
			envMap[k] = v
		}
	}

	tmpl, err := template.New("yaml").Option("missingkey=error").Parse(string(input))
	if err != nil {
		return nil, errors.Wrap(err, "template error")
	}

	var output bytes.Buffer
	if err := tmpl.Execute(&output, TemplateContext{ENV: envMap}); err != nil {
		if m := missingKeyRegex.FindStringSubmatch(err.Error()); len(m) == 2 {
			return nil, errors.Errorf("missing environment variable: %s (set it in your shell or .env file)", m[1])
		}
		return nil, errors.Wrap(err, "template error")
	}
	return output.Bytes(), nil
}

// ParseResourceDocs splits a multi document YAML stream into resource docs.
// Empty documents are skipped; every other document needs a kind and a spec.
func ParseResourceDocs(data []byte) ([]ResourceDoc, error) {
	content := strings.TrimSpace(string(data))
	if content == "" || strings.Trim(content, "- \n\t") == "" {
		return nil, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	var docs []ResourceDoc
	for i := 0; ; i++ {
		var doc ResourceDoc
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Wrap(err, "failed to decode YAML")
		}
		if doc.Kind == "" && doc.Spec == nil && doc.ConfigID == "" {
			continue
		}
		if doc.Kind == "" {
			return nil, errors.Errorf("document %d: kind is required", i+1)
		}
		if doc.Spec == nil {
			return nil, errors.Errorf("document %d: spec is required for %s", i+1, doc.Kind)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadResourceFile reads, templates and parses a resource file.
func LoadResourceFile(filename string) ([]ResourceDoc, error) {
	data, err := afero.ReadFile(appFS, filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	data, err = PreprocessYAML(replaceTabsWithSpaces(data))
	if err != nil {
		return nil, err
	}
	return ParseResourceDocs(data)
}

// DecodeSpec maps a spec value onto a list of T using T's json field names.
// Unknown fields are rejected.
func DecodeSpec[T any](spec any) ([]T, error) {
	switch v := spec.(type) {
	case map[string]any:
		spec = []any{v}
	case []any:
	default:
		return nil, errors.Errorf("spec must be a mapping or a list, got %T", spec)
	}

	var items []T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &items,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(spec); err != nil {
		return nil, errors.Wrap(err, "invalid spec")
	}
	return items, nil
}

func replaceTabsWithSpaces(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\t"), []byte("    "))
}
