package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var ScriptSchema = generateSchema[Script]()

// ScriptResponseFormat constrains OpenAI chat completions to the Script
// shape so the story generator gets directly machine-parseable output.
func ScriptResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "comic_script",
		Description: openai.String("Comic story title and ordered panels with captions, dialogue, and illustration prompts"),
		Schema:      ScriptSchema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
