package layout

import (
	gojson "github.com/goccy/go-json"
	fixedwidth "github.com/reoring/fixedwidth"
)

// LoadJSON decodes a JSON layout document and compiles it.
func LoadJSON(data []byte) (*fixedwidth.Registry, error) {
	var doc Document
	if err := gojson.Unmarshal(data, &doc); err != nil {
		return nil, fixedwidth.Issues{{
			Path:    "/",
			Code:    fixedwidth.CodeSchema,
			Message: "invalid JSON layout document",
			Cause:   err,
			Offset:  -1,
		}}
	}
	return Compile(doc)
}
