package bank

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/statement-parser/constants"
)

// profilesSchema validates external profile files before they are merged
// over the built-in set.
const profilesSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["profiles"],
  "additionalProperties": false,
  "properties": {
    "profiles": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["bank", "markers", "fields"],
        "additionalProperties": false,
        "properties": {
          "bank": {"type": "string", "minLength": 1},
          "markers": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "additionalProperties": false,
              "properties": {
                "literal": {"type": "string"},
                "pattern": {"type": "string"}
              }
            }
          },
          "fields": {
            "type": "object",
            "additionalProperties": false,
            "patternProperties": {
              "^(due_date|last_4_digits|credit_limit|available_credit|statement_date)$": {
                "type": "array",
                "minItems": 1,
                "items": {
                  "type": "object",
                  "required": ["pattern"],
                  "additionalProperties": false,
                  "properties": {
                    "pattern": {"type": "string", "minLength": 1},
                    "group": {"type": "integer", "minimum": 1}
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

type profilesFile struct {
	Profiles []*Profile `json:"profiles"`
}

// LoadProfiles returns the built-in profiles, optionally overlaid with a
// JSON profiles file. A file profile whose bank id matches a built-in
// replaces it in place (keeping its priority); new banks are appended after
// the built-ins.
func LoadProfiles(path string, logger *slog.Logger) ([]*Profile, error) {
	if logger == nil {
		logger = slog.Default()
	}
	profiles := BuiltinProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}
	overlay, err := parseProfiles(data)
	if err != nil {
		return nil, fmt.Errorf("profiles file %s: %w", path, err)
	}

	for _, p := range overlay {
		replaced := false
		for i, builtin := range profiles {
			if builtin.Bank == p.Bank {
				profiles[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			profiles = append(profiles, p)
		}
		logger.Info("loaded bank profile", "bank", p.Bank, "replaced_builtin", replaced)
	}
	return profiles, nil
}

func parseProfiles(data []byte) ([]*Profile, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("profiles.schema.json", strings.NewReader(profilesSchema)); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	schema, err := compiler.Compile("profiles.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	var file profilesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	for _, p := range file.Profiles {
		p.Bank = constants.Bank(strings.ToUpper(string(p.Bank)))
	}
	return file.Profiles, nil
}
