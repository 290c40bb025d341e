package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// groupsKey is the top-level key holding the group map in the config file.
const groupsKey = "file_groups"

// The config file is a single object whose file_groups member maps group
// names to path lists:
//
//	{"file_groups": {"sales": ["/data/a.csv", "/data/b.rowout"]}}
//
// Files ending in .yaml or .yml hold the same structure as YAML. Both codecs
// keep group order, which a plain map would lose.

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func encodeGroups(path string, order []string, groups map[string][]string) ([]byte, error) {
	if isYAML(path) {
		return encodeGroupsYAML(order, groups)
	}
	return encodeGroupsJSON(order, groups)
}

func decodeGroups(path string, data []byte) ([]string, map[string][]string, error) {
	if isYAML(path) {
		return decodeGroupsYAML(data)
	}
	return decodeGroupsJSON(data)
}

func encodeGroupsJSON(order []string, groups map[string][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"` + groupsKey + `":{`)
	for i, name := range order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		paths := groups[name]
		if paths == nil {
			paths = []string{}
		}
		val, err := json.Marshal(paths)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString(`}}`)

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func decodeGroupsJSON(data []byte) ([]string, map[string][]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}

	order := []string{}
	groups := make(map[string][]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		if key, _ := tok.(string); key != groupsKey {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, nil, err
			}
			continue
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, nil, err
		}
		if tok == nil {
			continue
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, nil, fmt.Errorf("%s must be an object", groupsKey)
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, nil, err
			}
			name, _ := tok.(string)
			var paths []string
			if err := dec.Decode(&paths); err != nil {
				return nil, nil, fmt.Errorf("group %q: %w", name, err)
			}
			if paths == nil {
				paths = []string{}
			}
			if _, dup := groups[name]; !dup {
				order = append(order, name)
			}
			groups[name] = paths
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return order, groups, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func encodeGroupsYAML(order []string, groups map[string][]string) ([]byte, error) {
	groupsNode := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range order {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, p := range groups[name] {
			seq.Content = append(seq.Content, strNode(p))
		}
		groupsNode.Content = append(groupsNode.Content, strNode(name), seq)
	}
	root := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{strNode(groupsKey), groupsNode}}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	return yaml.Marshal(doc)
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func decodeGroupsYAML(data []byte) ([]string, map[string][]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}

	order := []string{}
	groups := make(map[string][]string)
	if len(doc.Content) == 0 {
		return order, groups, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, errors.New("config must be a mapping")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != groupsKey {
			continue
		}
		node := root.Content[i+1]
		if node.Tag == "!!null" {
			continue
		}
		if node.Kind != yaml.MappingNode {
			return nil, nil, fmt.Errorf("%s must be a mapping", groupsKey)
		}
		for j := 0; j+1 < len(node.Content); j += 2 {
			name := node.Content[j].Value
			var paths []string
			if err := node.Content[j+1].Decode(&paths); err != nil {
				return nil, nil, fmt.Errorf("group %q: %w", name, err)
			}
			if paths == nil {
				paths = []string{}
			}
			if _, dup := groups[name]; !dup {
				order = append(order, name)
			}
			groups[name] = paths
		}
	}
	return order, groups, nil
}
