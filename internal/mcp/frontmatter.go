package mcp

import (
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// yamlMatter decodes "---" delimited YAML with yaml.v3, which yields
// map[string]any for nested mappings so the result encodes as JSON.
var yamlMatter = &frontmatter.Format{
	Start:     "---",
	End:       "---",
	Unmarshal: yaml.Unmarshal,
}

// splitFrontmatter separates YAML frontmatter from a note's body.
//
// Notes without frontmatter return a nil map and the content unchanged.
// Malformed frontmatter is reported as an error.
func splitFrontmatter(content string) (map[string]any, string, error) {
	var matter map[string]any
	body, err := frontmatter.Parse(strings.NewReader(content), &matter, yamlMatter)
	if err != nil {
		return nil, content, err
	}
	return matter, string(body), nil
}
