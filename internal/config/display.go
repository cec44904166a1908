package config

import (
	"gopkg.in/yaml.v3"
)

// YAML renders the effective settings as a flat YAML document, in the
// same key order and format Load accepts. Secrets are masked.
func (c Config) YAML() ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for i, e := range c.Entries() {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: settings[i].key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Value, Style: scalarStyle(e.Value)},
		)
	}
	return yaml.Marshal(doc)
}

func scalarStyle(value string) yaml.Style {
	if value == "" {
		return yaml.DoubleQuotedStyle
	}
	return 0
}
