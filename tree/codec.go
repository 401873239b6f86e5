package tree

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec decodes the raw state documents a Feed receives into the map it
// commits to the tree.
type Codec interface {
	// Unmarshal decodes one state document into v.
	Unmarshal(data []byte, v any) error

	// ContentType names the document format in feed signals.
	ContentType() string
}

// JSONCodec reads JSON state documents. It is the Feed default.
type JSONCodec struct{}

// Unmarshal decodes a JSON document into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (JSONCodec) ContentType() string {
	return "application/json"
}

// YAMLCodec reads YAML state documents, as written by hand-edited state
// files.
type YAMLCodec struct{}

// Unmarshal decodes a YAML document into v. Nested mappings decode as
// map[string]any, so paths resolve the same way as for JSON.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
)

// CodecFor picks a codec from a format name ("json", "yaml", "yml") or,
// failing that, from the extension of path. JSON is the default.
func CodecFor(format, path string) Codec {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return YAMLCodec{}
	default:
		return JSONCodec{}
	}
}
