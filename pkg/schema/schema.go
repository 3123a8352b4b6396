package schema

import (
	"github.com/invopop/jsonschema"
)

func generateSchema[T any]() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

// CharacterRequestSchema describes the wizard payload for clients that
// build their forms from it.
var CharacterRequestSchema = generateSchema[CharacterRequest]()

var GenerateImageRequestSchema = generateSchema[GenerateImageRequest]()
