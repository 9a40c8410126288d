package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// encode writes v to w in the requested format ("json" or "yaml").
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "", "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("unknown format %q (want json or yaml)", format)
}
