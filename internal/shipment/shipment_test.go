package shipment

import (
	"encoding/json"
	"testing"
)

func TestEmptyDefaults(t *testing.T) {
	d := Empty()
	if d.Receptor.RegimenFiscal != DefaultRegimenFiscal {
		t.Fatalf("regimenFiscal = %q, want %q", d.Receptor.RegimenFiscal, DefaultRegimenFiscal)
	}
	if len(d.Mercancias) != 1 {
		t.Fatalf("mercancias length = %d, want 1 blank line", len(d.Mercancias))
	}
	for _, section := range ReviewSections {
		v, ok := d.Confidence[section]
		if !ok {
			t.Errorf("confidence missing section %q", section)
		}
		if v != 0.0 {
			t.Errorf("confidence[%q] = %v, want 0.0", section, v)
		}
	}
}

func TestConfidenceForMissingEntry(t *testing.T) {
	var d ShipmentData
	if got := d.ConfidenceFor("receptor"); got != 0.0 {
		t.Fatalf("nil map confidence = %v, want 0.0", got)
	}
	d.Confidence = map[string]float64{"receptor": 0.9}
	if got := d.ConfidenceFor("operador"); got != 0.0 {
		t.Fatalf("absent entry confidence = %v, want 0.0", got)
	}
	if got := d.ConfidenceFor("receptor"); got != 0.9 {
		t.Fatalf("confidence = %v, want 0.9", got)
	}
}

func TestSetFieldLeaves(t *testing.T) {
	d := Empty()

	cases := []struct {
		path  string
		value string
	}{
		{"receptor.rfc", `"XAXX010101000"`},
		{"receptor.nombre", `"  Comercial del Norte SA  "`},
		{"ubicaciones.origen.codigoPostal", `"64000"`},
		{"ubicaciones.origen.distanciaKm", `125.5`},
		{"ubicaciones.destino.domicilio.municipio", `"Guadalajara"`},
		{"mercancias.0.pesoKg", `"850.5"`},
		{"mercancias.0.descripcion", `"Cajas de cartón"`},
		{"mercanciasTotales.numTotalMercancias", `1`},
		{"autotransporte.placaVehiculo", `"ABC1234"`},
		{"autotransporte.modeloAnio", `"2020"`},
		{"operador.nombre", `"Juan Pérez"`},
		{"operador.domicilio.estado", `"Nuevo León"`},
	}
	for _, tc := range cases {
		if err := d.SetField(tc.path, json.RawMessage(tc.value)); err != nil {
			t.Fatalf("SetField(%q, %s): %v", tc.path, tc.value, err)
		}
	}

	if d.Receptor.RFC != "XAXX010101000" {
		t.Errorf("receptor.rfc = %q", d.Receptor.RFC)
	}
	if d.Receptor.Nombre != "Comercial del Norte SA" {
		t.Errorf("receptor.nombre not trimmed: %q", d.Receptor.Nombre)
	}
	if d.Ubicaciones.Origen.DistanciaKm != 125.5 {
		t.Errorf("origen.distanciaKm = %v", d.Ubicaciones.Origen.DistanciaKm)
	}
	if d.Ubicaciones.Destino.Domicilio.Municipio != "Guadalajara" {
		t.Errorf("destino municipio = %q", d.Ubicaciones.Destino.Domicilio.Municipio)
	}
	if d.Mercancias[0].PesoKg != 850.5 {
		t.Errorf("pesoKg from string = %v", d.Mercancias[0].PesoKg)
	}
	if d.Totales.NumTotalMercancias != 1 {
		t.Errorf("numTotalMercancias = %d", d.Totales.NumTotalMercancias)
	}
	if d.Autotransporte.ModeloAnio != 2020 {
		t.Errorf("modeloAnio from string = %d", d.Autotransporte.ModeloAnio)
	}
}

func TestSetFieldSectionReplacement(t *testing.T) {
	d := Empty()

	merc := `[{"descripcion":"Tarimas","cantidad":10,"unidad":"pieza","claveUnidad":"H87","claveProdServ":"24101500","pesoKg":40,"valorMercancia":500,"moneda":"MXN","materialPeligroso":"No","cveMaterialPeligroso":"","tipoEmbalaje":"","descripEmbalaje":""}]`
	if err := d.SetField("mercancias", json.RawMessage(merc)); err != nil {
		t.Fatalf("replace mercancias: %v", err)
	}
	if len(d.Mercancias) != 1 || d.Mercancias[0].Descripcion != "Tarimas" {
		t.Fatalf("mercancias not replaced: %+v", d.Mercancias)
	}

	rem := `[{"subTipo":"CTR004","placa":"XYZ987"}]`
	if err := d.SetField("remolques", json.RawMessage(rem)); err != nil {
		t.Fatalf("replace remolques: %v", err)
	}
	if len(d.Remolques) != 1 || d.Remolques[0].Placa != "XYZ987" {
		t.Fatalf("remolques not replaced: %+v", d.Remolques)
	}
}

func TestSetFieldRejectsUnknownPaths(t *testing.T) {
	d := Empty()

	bad := []string{
		"receptor.curp",
		"ubicaciones.intermedia.codigoPostal",
		"mercancias.5.pesoKg",
		"mercancias.x.pesoKg",
		"autotransporte",
		"",
		"confidence.receptor",
	}
	for _, path := range bad {
		if err := d.SetField(path, json.RawMessage(`"x"`)); err == nil {
			t.Errorf("SetField(%q) accepted, want error", path)
		}
	}
}

func TestSetFieldRejectsWrongTypes(t *testing.T) {
	d := Empty()
	if err := d.SetField("receptor.rfc", json.RawMessage(`42`)); err == nil {
		t.Error("number accepted for string field")
	}
	if err := d.SetField("ubicaciones.origen.distanciaKm", json.RawMessage(`"abc"`)); err == nil {
		t.Error("non-numeric string accepted for float field")
	}
	if err := d.SetField("mercanciasTotales.numTotalMercancias", json.RawMessage(`1.5`)); err == nil {
		t.Error("fractional value accepted for int field")
	}
}

func TestSectionOf(t *testing.T) {
	cases := map[string]string{
		"receptor.rfc":                          "receptor",
		"ubicaciones.origen.distanciaKm":        "ubicaciones.origen",
		"ubicaciones.destino.domicilio.colonia": "ubicaciones.destino",
		"mercancias":                            "mercancias",
		"mercancias.0.pesoKg":                   "mercancias",
		"mercanciasTotales.pesoBrutoTotal":      "mercancias",
		"remolques":                             "autotransporte",
		"autotransporte.placaVehiculo":          "autotransporte",
		"operador.licencia":                     "operador",
		"nonsense":                              "",
	}
	for path, want := range cases {
		if got := SectionOf(path); got != want {
			t.Errorf("SectionOf(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestCheckTotals(t *testing.T) {
	base := func() ShipmentData {
		return ShipmentData{
			Mercancias: []Mercancia{{PesoKg: 100}, {PesoKg: 50.5}},
			Totales:    MercanciasTotales{UnidadPeso: "KGM", PesoBrutoTotal: 150.5, NumTotalMercancias: 2},
		}
	}

	d := base()
	if err := d.CheckTotals(); err != nil {
		t.Fatalf("consistent totals rejected: %v", err)
	}

	d = base()
	d.Totales.NumTotalMercancias = 3
	if err := d.CheckTotals(); err == nil {
		t.Error("line count mismatch accepted")
	}

	d = base()
	d.Totales.PesoBrutoTotal = 200
	if err := d.CheckTotals(); err == nil {
		t.Error("weight mismatch accepted")
	}

	d = base()
	d.Mercancias = nil
	if err := d.CheckTotals(); err == nil {
		t.Error("empty merchandise accepted")
	}
}
