package mapping

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roleflow/roleflow/internal/errors"
)

// FallbackEnvVar selects the minimal line-oriented YAML codec instead of the
// yaml.v3 engine. The fallback covers only the subset the template format
// uses and is the documented compatibility surface for it.
const FallbackEnvVar = "ROLEFLOW_YAML_FALLBACK"

// yamlCodec converts between YAML bytes and flat records. Two
// implementations exist: the yaml.v3 engine and the minimal line codec.
type yamlCodec interface {
	unmarshal(path string, data []byte) (*Record, error)
	marshal(record *Record) ([]byte, error)
}

var activeCodec yamlCodec = selectCodec()

func selectCodec() yamlCodec {
	if os.Getenv(FallbackEnvVar) == "1" {
		return fallbackCodec{}
	}
	return engineCodec{}
}

// engineCodec is the yaml.v3 backed implementation.
type engineCodec struct{}

func (engineCodec) unmarshal(path string, data []byte) (*Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(errors.CodeMalformedMapping, err, "invalid YAML in %s: %v", path, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, errors.Newf(errors.CodeNotAMapping, "file %s must contain an object/map", path)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.CodeNotAMapping, "file %s must contain an object/map", path)
	}

	record := NewRecord()
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valueNode := root.Content[i+1]
		var key string
		if err := keyNode.Decode(&key); err != nil {
			return nil, errors.Wrapf(errors.CodeMalformedMapping, err, "invalid YAML key in %s: %v", path, err)
		}
		var value any
		if err := valueNode.Decode(&value); err != nil {
			return nil, errors.Wrapf(errors.CodeMalformedMapping, err, "invalid YAML value in %s: %v", path, err)
		}
		record.Set(key, value)
	}
	return record, nil
}

func (engineCodec) marshal(record *Record) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range record.Keys() {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}

		value, _ := record.Get(key)
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(value); err != nil {
			return nil, fmt.Errorf("encode value for key %q: %w", key, err)
		}
		if s, ok := value.(string); ok && strings.Contains(s, "\n") {
			valueNode.Style = yaml.LiteralStyle
		}
		root.Content = append(root.Content, keyNode, valueNode)
	}
	return yaml.Marshal(root)
}
