package shipment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SetField applies one review edit to the model. path is a dotted field path
// ("receptor.rfc", "ubicaciones.origen.domicilio.calle") or a section path
// ("mercancias", "remolques") whose value replaces the whole slice. Values
// arrive as raw JSON from the review form; numbers are accepted either as
// JSON numbers or as numeric strings. Unknown paths are rejected so a typo in
// a client never silently drops an edit.
func (d *ShipmentData) SetField(path string, value json.RawMessage) error {
	switch {
	case path == "mercancias":
		var items []Mercancia
		if err := decodeJSON(value, &items); err != nil {
			return fmt.Errorf("field %q: %w", path, err)
		}
		d.Mercancias = items
		return nil
	case path == "remolques":
		var items []Remolque
		if err := decodeJSON(value, &items); err != nil {
			return fmt.Errorf("field %q: %w", path, err)
		}
		d.Remolques = items
		return nil
	case strings.HasPrefix(path, "receptor."):
		return d.setReceptorField(path, strings.TrimPrefix(path, "receptor."), value)
	case strings.HasPrefix(path, "ubicaciones.origen."):
		return setUbicacionField(&d.Ubicaciones.Origen, path, strings.TrimPrefix(path, "ubicaciones.origen."), value)
	case strings.HasPrefix(path, "ubicaciones.destino."):
		return setUbicacionField(&d.Ubicaciones.Destino, path, strings.TrimPrefix(path, "ubicaciones.destino."), value)
	case strings.HasPrefix(path, "mercancias."):
		return d.setMercanciaField(path, strings.TrimPrefix(path, "mercancias."), value)
	case strings.HasPrefix(path, "mercanciasTotales."):
		return d.setTotalesField(path, strings.TrimPrefix(path, "mercanciasTotales."), value)
	case strings.HasPrefix(path, "autotransporte."):
		return d.setAutotransporteField(path, strings.TrimPrefix(path, "autotransporte."), value)
	case strings.HasPrefix(path, "operador."):
		return d.setOperadorField(path, strings.TrimPrefix(path, "operador."), value)
	}
	return fmt.Errorf("unknown field path %q", path)
}

// SectionOf maps a field path to the review section whose confidence the edit
// affects. Returns "" for paths outside any review section.
func SectionOf(path string) string {
	switch {
	case path == "receptor" || strings.HasPrefix(path, "receptor."):
		return "receptor"
	case strings.HasPrefix(path, "ubicaciones.origen"):
		return "ubicaciones.origen"
	case strings.HasPrefix(path, "ubicaciones.destino"):
		return "ubicaciones.destino"
	case path == "mercancias" || strings.HasPrefix(path, "mercancias.") || strings.HasPrefix(path, "mercanciasTotales."):
		return "mercancias"
	case path == "remolques" || strings.HasPrefix(path, "autotransporte."):
		return "autotransporte"
	case strings.HasPrefix(path, "operador."):
		return "operador"
	}
	return ""
}

func (d *ShipmentData) setReceptorField(path, leaf string, value json.RawMessage) error {
	switch leaf {
	case "rfc":
		return setString(&d.Receptor.RFC, path, value)
	case "nombre":
		return setString(&d.Receptor.Nombre, path, value)
	case "codigoPostal":
		return setString(&d.Receptor.CodigoPostal, path, value)
	case "regimenFiscal":
		return setString(&d.Receptor.RegimenFiscal, path, value)
	}
	return fmt.Errorf("unknown field path %q", path)
}

func setUbicacionField(u *Ubicacion, path, leaf string, value json.RawMessage) error {
	if rest, ok := strings.CutPrefix(leaf, "domicilio."); ok {
		return setDomicilioField(&u.Domicilio, path, rest, value)
	}
	switch leaf {
	case "nombre":
		return setString(&u.Nombre, path, value)
	case "rfc":
		return setString(&u.RFC, path, value)
	case "codigoPostal":
		return setString(&u.CodigoPostal, path, value)
	case "distanciaKm":
		return setFloat(&u.DistanciaKm, path, value)
	case "fechaHora":
		return setString(&u.FechaHora, path, value)
	}
	return fmt.Errorf("unknown field path %q", path)
}

func setDomicilioField(dom *Domicilio, path, leaf string, value json.RawMessage) error {
	switch leaf {
	case "calle":
		return setString(&dom.Calle, path, value)
	case "numeroExterior":
		return setString(&dom.NumeroExterior, path, value)
	case "numeroInterior":
		return setString(&dom.NumeroInterior, path, value)
	case "colonia":
		return setString(&dom.Colonia, path, value)
	case "localidad":
		return setString(&dom.Localidad, path, value)
	case "municipio":
		return setString(&dom.Municipio, path, value)
	case "estado":
		return setString(&dom.Estado, path, value)
	}
	return fmt.Errorf("unknown field path %q", path)
}

func (d *ShipmentData) setMercanciaField(path, rest string, value json.RawMessage) error {
	idxStr, leaf, ok := strings.Cut(rest, ".")
	if !ok {
		return fmt.Errorf("unknown field path %q", path)
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= len(d.Mercancias) {
		return fmt.Errorf("field %q: no merchandise line %q", path, idxStr)
	}
	m := &d.Mercancias[idx]
	switch leaf {
	case "descripcion":
		return setString(&m.Descripcion, path, value)
	case "cantidad":
		return setFloat(&m.Cantidad, path, value)
	case "unidad":
		return setString(&m.Unidad, path, value)
	case "claveUnidad":
		return setString(&m.ClaveUnidad, path, value)
	case "claveProdServ":
		return setString(&m.ClaveProdServ, path, value)
	case "pesoKg":
		return setFloat(&m.PesoKg, path, value)
	case "valorMercancia":
		return setFloat(&m.ValorMercancia, path, value)
	case "moneda":
		return setString(&m.Moneda, path, value)
	case "materialPeligroso":
		return setString(&m.MaterialPeligroso, path, value)
	case "cveMaterialPeligroso":
		return setString(&m.CveMaterialPeligroso, path, value)
	case "tipoEmbalaje":
		return setString(&m.TipoEmbalaje, path, value)
	case "descripEmbalaje":
		return setString(&m.DescripEmbalaje, path, value)
	}
	return fmt.Errorf("unknown field path %q", path)
}

func (d *ShipmentData) setTotalesField(path, leaf string, value json.RawMessage) error {
	switch leaf {
	case "unidadPeso":
		return setString(&d.Totales.UnidadPeso, path, value)
	case "pesoBrutoTotal":
		return setFloat(&d.Totales.PesoBrutoTotal, path, value)
	case "numTotalMercancias":
		return setInt(&d.Totales.NumTotalMercancias, path, value)
	}
	return fmt.Errorf("unknown field path %q", path)
}

func (d *ShipmentData) setAutotransporteField(path, leaf string, value json.RawMessage) error {
	a := &d.Autotransporte
	switch leaf {
	case "placaVehiculo":
		return setString(&a.PlacaVehiculo, path, value)
	case "modeloAnio":
		return setInt(&a.ModeloAnio, path, value)
	case "configVehicular":
		return setString(&a.ConfigVehicular, path, value)
	case "permSCT":
		return setString(&a.PermSCT, path, value)
	case "numPermisoSCT":
		return setString(&a.NumPermisoSCT, path, value)
	case "aseguraRespCivil":
		return setString(&a.AseguraRespCivil, path, value)
	case "polizaRespCivil":
		return setString(&a.PolizaRespCivil, path, value)
	case "aseguraCarga":
		return setString(&a.AseguraCarga, path, value)
	case "polizaCarga":
		return setString(&a.PolizaCarga, path, value)
	case "primaSeguro":
		return setFloat(&a.PrimaSeguro, path, value)
	}
	return fmt.Errorf("unknown field path %q", path)
}

func (d *ShipmentData) setOperadorField(path, leaf string, value json.RawMessage) error {
	if rest, ok := strings.CutPrefix(leaf, "domicilio."); ok {
		return setDomicilioField(&d.Operador.Domicilio, path, rest, value)
	}
	switch leaf {
	case "nombre":
		return setString(&d.Operador.Nombre, path, value)
	case "rfc":
		return setString(&d.Operador.RFC, path, value)
	case "licencia":
		return setString(&d.Operador.Licencia, path, value)
	}
	return fmt.Errorf("unknown field path %q", path)
}

func setString(dst *string, path string, value json.RawMessage) error {
	var s string
	if err := decodeJSON(value, &s); err != nil {
		return fmt.Errorf("field %q: expected string: %w", path, err)
	}
	*dst = strings.TrimSpace(s)
	return nil
}

func setFloat(dst *float64, path string, value json.RawMessage) error {
	f, err := coerceFloat(value)
	if err != nil {
		return fmt.Errorf("field %q: %w", path, err)
	}
	*dst = f
	return nil
}

func setInt(dst *int, path string, value json.RawMessage) error {
	f, err := coerceFloat(value)
	if err != nil {
		return fmt.Errorf("field %q: %w", path, err)
	}
	if f != float64(int(f)) {
		return fmt.Errorf("field %q: expected integer, got %v", path, f)
	}
	*dst = int(f)
	return nil
}

// coerceFloat accepts a JSON number or a numeric string. Review forms post
// numbers both ways depending on the input widget.
func coerceFloat(value json.RawMessage) (float64, error) {
	var f float64
	if err := decodeJSON(value, &f); err == nil {
		return f, nil
	}
	var s string
	if err := decodeJSON(value, &s); err != nil {
		return 0, fmt.Errorf("expected number")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("expected number, got %q", s)
	}
	return f, nil
}

func decodeJSON(value json.RawMessage, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
