package data

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSON Schemas for the reference data files. Validation runs before
// decoding so a malformed file fails with a schema error naming the
// offending path instead of a half-populated store.

const itemDefs = `
	"item": {
		"type": "object",
		"required": ["kind"],
		"properties": {
			"kind": {"enum": ["CUBES", "DONATION_CUBES", "COLONY", "SPECIFIC_COLONY", "TOKEN"]},
			"cube": {"type": "string"},
			"qty": {"type": "integer", "minimum": 0},
			"biome": {"type": "string"},
			"colony": {"type": "integer"},
			"token": {"type": "object"}
		}
	},
	"converter": {
		"properties": {
			"color": {"enum": ["WHITE", "PURPLE", "RED"]},
			"input": {"type": "array", "items": {"$ref": "#/$defs/item"}},
			"output": {"type": "array", "items": {"$ref": "#/$defs/item"}}
		},
		"required": ["color"]
	}`

var colonySchema = jsonschema.MustCompileString("colony.json", `{
	"$defs": {`+itemDefs+`},
	"type": "array",
	"items": {
		"type": "object",
		"allOf": [{"$ref": "#/$defs/converter"}],
		"required": ["name", "id", "type"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"id": {"type": "integer", "minimum": 0},
			"type": {"enum": ["DESERT", "ICE", "JUNGLE", "OCEAN", "ANY"]},
			"up_cost": {"type": "array", "items": {"$ref": "#/$defs/item"}}
		}
	}
}`)

var technologySchema = jsonschema.MustCompileString("technology.json", `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "cost", "name", "tier"],
		"properties": {
			"id": {"type": "integer", "minimum": 0},
			"name": {"type": "string", "minLength": 1},
			"invents": {"type": "string"},
			"tier": {"type": "integer", "minimum": 1, "maximum": 4},
			"invent_reward": {"type": "integer", "minimum": 0},
			"cost": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["type", "qty"],
					"properties": {
						"type": {"type": "string"},
						"qty": {"type": "integer", "minimum": 1}
					}
				}
			}
		}
	}
}`)

var prototypeSchema = jsonschema.MustCompileString("prototypes.json", `{
	"$defs": {`+itemDefs+`},
	"type": "array",
	"items": {
		"type": "object",
		"allOf": [{"$ref": "#/$defs/converter"}],
		"required": ["id", "name"],
		"properties": {
			"id": {"type": "integer", "minimum": 0},
			"name": {"type": "string", "minLength": 1}
		}
	}
}`)

var startSchema = jsonschema.MustCompileString("startResources.json", `{
	"$defs": {`+itemDefs+`},
	"type": "array",
	"items": {
		"type": "object",
		"required": ["faction", "items"],
		"properties": {
			"faction": {"type": "string"},
			"items": {"type": "array", "items": {"$ref": "#/$defs/item"}}
		}
	}
}`)
