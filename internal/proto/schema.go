// Package proto describes the server's wire contracts with JSON Schema,
// the way the teacher's effects/catalog package documents its designer-
// authored catalog format with github.com/invopop/jsonschema. Here the
// reflected types are the unit catalog entry and the post-match result
// record — the two structs that cross a process boundary as plain JSON
// rather than going over the room's own typed command/broadcast path.
package proto

import (
	"reflect"

	"github.com/invopop/jsonschema"

	"castlerush/internal/catalog"
	"castlerush/internal/sink"
)

// BuildUnitDefinitionSchema reflects the catalog entry shape consumed from
// internal/catalog/data/units.json.
func BuildUnitDefinitionSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{RequiredFromJSONSchemaTags: true, DoNotReference: true}
	schema := reflector.ReflectFromType(reflect.TypeOf(catalog.UnitDefinition{}))
	schema.Version = jsonschema.Version
	schema.Title = "Castle Rush Unit Definition"
	schema.Description = "Catalog entry describing one summonable unit type."
	return schema
}

// BuildResultRecordSchema reflects the post-match record handed to a
// sink.Sink implementation.
func BuildResultRecordSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{RequiredFromJSONSchemaTags: true, DoNotReference: true}
	schema := reflector.ReflectFromType(reflect.TypeOf(sink.Record{}))
	schema.Version = jsonschema.Version
	schema.Title = "Castle Rush Match Result"
	schema.Description = "Record persisted by a sink.Sink implementation after a room finishes."
	return schema
}
