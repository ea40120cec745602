package layout

import (
	fixedwidth "github.com/reoring/fixedwidth"
	"gopkg.in/yaml.v3"
)

// LoadYAML decodes a YAML layout document and compiles it.
func LoadYAML(data []byte) (*fixedwidth.Registry, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fixedwidth.Issues{{
			Path:    "/",
			Code:    fixedwidth.CodeSchema,
			Message: "invalid YAML layout document",
			Cause:   err,
			Offset:  -1,
		}}
	}
	return Compile(doc)
}
