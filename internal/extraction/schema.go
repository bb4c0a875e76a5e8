package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// shipmentSchema guards the boundary between untyped model output and the
// typed shipment model. It checks structure and types, not business rules;
// unknown extra keys are tolerated and dropped during decoding.
const shipmentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["receptor", "ubicaciones", "mercancias"],
  "properties": {
    "receptor": {
      "type": "object",
      "properties": {
        "rfc": {"type": "string"},
        "nombre": {"type": "string"},
        "codigoPostal": {"type": "string"},
        "regimenFiscal": {"type": "string"}
      }
    },
    "ubicaciones": {
      "type": "object",
      "required": ["origen", "destino"],
      "properties": {
        "origen": {"$ref": "#/$defs/ubicacion"},
        "destino": {"$ref": "#/$defs/ubicacion"}
      }
    },
    "mercancias": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "descripcion": {"type": "string"},
          "cantidad": {"type": "number"},
          "unidad": {"type": "string"},
          "claveUnidad": {"type": "string"},
          "claveProdServ": {"type": "string"},
          "pesoKg": {"type": "number"},
          "valorMercancia": {"type": "number"},
          "moneda": {"type": "string"},
          "materialPeligroso": {"type": "string"},
          "cveMaterialPeligroso": {"type": "string"},
          "tipoEmbalaje": {"type": "string"},
          "descripEmbalaje": {"type": "string"}
        }
      }
    },
    "mercanciasTotales": {
      "type": "object",
      "properties": {
        "unidadPeso": {"type": "string"},
        "pesoBrutoTotal": {"type": "number"},
        "numTotalMercancias": {"type": "integer"}
      }
    },
    "autotransporte": {
      "type": "object",
      "properties": {
        "placaVehiculo": {"type": "string"},
        "modeloAnio": {"type": "integer"},
        "configVehicular": {"type": "string"},
        "permSCT": {"type": "string"},
        "numPermisoSCT": {"type": "string"},
        "aseguraRespCivil": {"type": "string"},
        "polizaRespCivil": {"type": "string"},
        "aseguraCarga": {"type": "string"},
        "polizaCarga": {"type": "string"},
        "primaSeguro": {"type": "number"}
      }
    },
    "operador": {
      "type": "object",
      "properties": {
        "nombre": {"type": "string"},
        "rfc": {"type": "string"},
        "licencia": {"type": "string"},
        "domicilio": {"$ref": "#/$defs/domicilio"}
      }
    },
    "remolques": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "subTipo": {"type": "string"},
          "placa": {"type": "string"}
        }
      }
    },
    "confidence": {
      "type": "object",
      "additionalProperties": {"type": "number", "minimum": 0, "maximum": 1}
    }
  },
  "$defs": {
    "ubicacion": {
      "type": "object",
      "properties": {
        "nombre": {"type": "string"},
        "rfc": {"type": "string"},
        "codigoPostal": {"type": "string"},
        "domicilio": {"$ref": "#/$defs/domicilio"},
        "distanciaKm": {"type": "number"},
        "fechaHora": {"type": "string"}
      }
    },
    "domicilio": {
      "type": "object",
      "properties": {
        "calle": {"type": "string"},
        "numeroExterior": {"type": "string"},
        "numeroInterior": {"type": "string"},
        "colonia": {"type": "string"},
        "localidad": {"type": "string"},
        "municipio": {"type": "string"},
        "estado": {"type": "string"}
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("shipment.schema.json", strings.NewReader(shipmentSchema)); err != nil {
		panic(fmt.Sprintf("add shipment schema: %v", err))
	}
	return c.MustCompile("shipment.schema.json")
}

// validateShipmentJSON checks the raw model output against the schema before
// it is decoded into the typed model.
func validateShipmentJSON(raw json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("model output is not valid JSON: %w", err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return fmt.Errorf("model output failed schema validation: %w", err)
	}
	return nil
}
