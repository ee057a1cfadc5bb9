package settings

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// settingsSchema guards the shape of the externally supplied settings file
// before it is committed. Unknown keys are rejected by the strict decoder,
// so the schema focuses on types, ranges and the layout enum.
const settingsSchema = `{
  "type": "object",
  "properties": {
    "enabled": {"type": "boolean"},
    "showDelay": {"type": "integer", "minimum": 0},
    "showOnExit": {"type": "boolean"},
    "cookieExpiryDays": {"type": "integer", "minimum": 0, "maximum": 365},
    "layout": {
      "type": "string",
      "enum": ["image-left", "image-right", "image-top", "image-bottom", "content-only"]
    },
    "maxWidth": {"type": "integer", "minimum": 0},
    "minHeight": {"type": "integer", "minimum": 0},
    "padding": {"type": "integer", "minimum": 0},
    "gap": {"type": "integer", "minimum": 0},
    "showLogo": {"type": "boolean"},
    "logoUrl": {"type": "string"},
    "logoSize": {"type": "integer", "minimum": 0},
    "showImage": {"type": "boolean"},
    "imageUrl": {"type": "string"},
    "imageWidth": {"type": "integer", "minimum": 0},
    "mobileBgOpacity": {"type": "integer", "minimum": 0, "maximum": 100},
    "title": {"type": "string"},
    "subtitle": {"type": "string"},
    "buttonText": {"type": "string"},
    "successTitle": {"type": "string"},
    "successMessage": {"type": "string"},
    "borderRadius": {"type": "integer", "minimum": 0},
    "overlayOpacity": {"type": "number", "minimum": 0, "maximum": 1},
    "titleSize": {"type": "integer", "minimum": 0},
    "titleColor": {"type": "string"},
    "titleWeight": {"type": "integer", "minimum": 100, "maximum": 900},
    "subtitleSize": {"type": "integer", "minimum": 0},
    "subtitleColor": {"type": "string"},
    "buttonBgColor": {"type": "string"},
    "buttonTextColor": {"type": "string"},
    "buttonRadius": {"type": "integer", "minimum": 0},
    "buttonSize": {"type": "integer", "minimum": 0},
    "successColor": {"type": "string"}
  }
}`

var compiledSchema = jsonschema.MustCompileString("popup-settings.json", settingsSchema)

// validateSchema checks raw settings JSON against the schema.
func validateSchema(raw []byte) error {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("parse settings: %w", err)
	}
	if err := compiledSchema.Validate(payload); err != nil {
		return fmt.Errorf("settings failed schema validation: %w", err)
	}
	return nil
}
