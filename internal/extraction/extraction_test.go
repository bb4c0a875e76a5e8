package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"cartaporte-backend/internal/llm"
	"cartaporte-backend/internal/shipment"
)

type fakeStore struct {
	data map[string][]byte
}

func (s *fakeStore) Save(ctx context.Context, fileName string, r io.Reader) (string, int64, string, error) {
	return "", 0, "", fmt.Errorf("not implemented")
}

func (s *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := s.data[storageKey]
	if !ok {
		return nil, fmt.Errorf("no such object %q", storageKey)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fakeLLM struct {
	response json.RawMessage
	err      error
	gotInput llm.ExtractInput
}

func (f *fakeLLM) ExtractShipment(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	f.gotInput = input
	return f.response, f.err
}

const goodModelOutput = `{
  "receptor": {"rfc": "CNO980520XY1", "nombre": "Comercial del Norte", "codigoPostal": "44100", "regimenFiscal": ""},
  "ubicaciones": {
    "origen": {"nombre": "Almacén MTY", "rfc": "", "codigoPostal": "64000", "domicilio": {"calle": "Av. Industria", "numeroExterior": "100", "numeroInterior": "", "colonia": "Centro", "localidad": "", "municipio": "Monterrey", "estado": "Nuevo León"}, "distanciaKm": 0, "fechaHora": "2024-01-15T08:00:00"},
    "destino": {"nombre": "CEDIS GDL", "rfc": "", "codigoPostal": "44100", "domicilio": {"calle": "Calz. Lázaro Cárdenas", "numeroExterior": "2300", "numeroInterior": "", "colonia": "Las Torres", "localidad": "", "municipio": "Guadalajara", "estado": "Jalisco"}, "distanciaKm": 780, "fechaHora": "2024-01-16T14:00:00"}
  },
  "mercancias": [{"descripcion": "Cajas de cartón corrugado", "cantidad": 500, "unidad": "cajas", "claveUnidad": "", "claveProdServ": "14111500", "pesoKg": 850, "valorMercancia": 120000, "moneda": "MXN", "materialPeligroso": "", "cveMaterialPeligroso": "", "tipoEmbalaje": "", "descripEmbalaje": ""}],
  "mercanciasTotales": {"unidadPeso": "", "pesoBrutoTotal": 0, "numTotalMercancias": 0},
  "autotransporte": {"placaVehiculo": "ABC1234", "modeloAnio": 2020, "configVehicular": "C2", "permSCT": "TPAF01", "numPermisoSCT": "123456", "aseguraRespCivil": "Qualitas", "polizaRespCivil": "POL-555", "aseguraCarga": "", "polizaCarga": "", "primaSeguro": 0},
  "operador": {"nombre": "Juan Pérez", "rfc": "PEJJ800101AB2", "licencia": "LIC-9988", "domicilio": {"calle": "", "numeroExterior": "", "numeroInterior": "", "colonia": "", "localidad": "", "municipio": "", "estado": ""}},
  "remolques": [],
  "confidence": {"receptor": 0.95, "ubicaciones.origen": 0.9, "ubicaciones.destino": 0.9, "mercancias": 0.85, "autotransporte": 0.8}
}`

func TestExtractHappyPath(t *testing.T) {
	store := &fakeStore{data: map[string][]byte{
		"doc.txt": []byte("Carta porte: embarque de cajas de Monterrey a Guadalajara"),
	}}
	client := &fakeLLM{response: json.RawMessage(goodModelOutput)}

	d, err := New(store, client).Extract(context.Background(), "doc.txt", "text/plain")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if !strings.Contains(client.gotInput.Text, "Monterrey a Guadalajara") {
		t.Errorf("document text not forwarded: %q", client.gotInput.Text)
	}
	if d.Receptor.RFC != "CNO980520XY1" {
		t.Errorf("receptor.rfc = %q", d.Receptor.RFC)
	}
	if d.Receptor.RegimenFiscal != "601" {
		t.Errorf("empty regimenFiscal not defaulted: %q", d.Receptor.RegimenFiscal)
	}
	if d.Mercancias[0].ClaveUnidad != "XBX" {
		t.Errorf("claveUnidad not derived from %q: %q", d.Mercancias[0].Unidad, d.Mercancias[0].ClaveUnidad)
	}
	if d.Mercancias[0].MaterialPeligroso != "No" {
		t.Errorf("materialPeligroso not defaulted: %q", d.Mercancias[0].MaterialPeligroso)
	}
	if d.Totales.PesoBrutoTotal != 850 {
		t.Errorf("pesoBrutoTotal not summed: %v", d.Totales.PesoBrutoTotal)
	}
	if d.Totales.NumTotalMercancias != 1 {
		t.Errorf("numTotalMercancias not counted: %d", d.Totales.NumTotalMercancias)
	}
	if got := d.ConfidenceFor("operador"); got != 0.0 {
		t.Errorf("missing confidence section should read 0.0, got %v", got)
	}
	if got := d.ConfidenceFor("receptor"); got != 0.95 {
		t.Errorf("confidence[receptor] = %v", got)
	}
}

func TestExtractDegradesToEmptyModel(t *testing.T) {
	store := &fakeStore{data: map[string][]byte{
		"doc.txt": []byte("contenido"),
	}}

	cases := []struct {
		name   string
		key    string
		ftype  string
		client *fakeLLM
	}{
		{"missing object", "nope.txt", "text/plain", &fakeLLM{response: json.RawMessage(goodModelOutput)}},
		{"unsupported type", "doc.txt", "application/zip", &fakeLLM{response: json.RawMessage(goodModelOutput)}},
		{"model error", "doc.txt", "text/plain", &fakeLLM{err: fmt.Errorf("rate limited")}},
		{"invalid json", "doc.txt", "text/plain", &fakeLLM{response: json.RawMessage(`not json`)}},
		{"schema violation", "doc.txt", "text/plain", &fakeLLM{response: json.RawMessage(`{"receptor": "wrong shape", "ubicaciones": {}, "mercancias": []}`)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := New(store, tc.client).Extract(context.Background(), tc.key, tc.ftype)
			if err == nil {
				t.Fatal("expected error")
			}
			want := shipment.Empty()
			if d.Receptor.RegimenFiscal != want.Receptor.RegimenFiscal {
				t.Errorf("degraded model regimenFiscal = %q", d.Receptor.RegimenFiscal)
			}
			if len(d.Mercancias) != 1 {
				t.Errorf("degraded model mercancias = %+v", d.Mercancias)
			}
			for _, section := range shipment.ReviewSections {
				if d.ConfidenceFor(section) != 0.0 {
					t.Errorf("degraded model confidence[%q] = %v", section, d.ConfidenceFor(section))
				}
			}
		})
	}
}

func TestPrepareContentImage(t *testing.T) {
	p, err := prepareContent("image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	if err != nil {
		t.Fatalf("prepareContent: %v", err)
	}
	if p.text != "" {
		t.Errorf("image produced text %q", p.text)
	}
	if p.mediaType != "image/png" || p.base64 == "" {
		t.Errorf("image not prepared for vision: %+v", p)
	}
}

func TestPrepareContentSpreadsheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Descripción", "Peso"}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	if err := f.SetSheetRow(sheet, "A2", &[]any{"Tarimas", 850}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	p, err := prepareContent("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	if err != nil {
		t.Fatalf("prepareContent: %v", err)
	}
	if !strings.Contains(p.text, "Descripción\tPeso") {
		t.Errorf("header row not flattened: %q", p.text)
	}
	if !strings.Contains(p.text, "Tarimas\t850") {
		t.Errorf("data row not flattened: %q", p.text)
	}
}

func TestPrepareContentUnsupported(t *testing.T) {
	if _, err := prepareContent("application/zip", []byte("PK")); err == nil {
		t.Fatal("zip accepted")
	}
	if _, err := prepareContent("application/msword", []byte("doc")); err == nil {
		t.Fatal("doc accepted")
	}
}

func TestNormalizeDerivesUnitCodes(t *testing.T) {
	cases := []struct {
		unidad string
		preset string
		want   string
	}{
		{"kg", "", "KGM"},
		{"Kilogramos", "", "KGM"},
		{" tonelada ", "", "TNE"},
		{"pieza", "", "H87"},
		{"cajas", "", "XBX"},
		{"tarimas", "", "XPX"},
		{"servicio", "", "E48"},
		{"fardos", "", ""},
		// A key the model already set wins over the derived one.
		{"kg", "TNE", "TNE"},
	}

	for _, tc := range cases {
		d := shipment.Empty()
		d.Mercancias = []shipment.Mercancia{{Unidad: tc.unidad, ClaveUnidad: tc.preset, PesoKg: 10}}
		normalize(&d)
		if got := d.Mercancias[0].ClaveUnidad; got != tc.want {
			t.Errorf("unidad %q (preset %q): claveUnidad = %q, want %q", tc.unidad, tc.preset, got, tc.want)
		}
	}
}

func TestNormalizeClearsHazmatCodeWhenNotHazardous(t *testing.T) {
	d := shipment.Empty()
	d.Mercancias = []shipment.Mercancia{{
		MaterialPeligroso:    "No",
		CveMaterialPeligroso: "M0035",
		PesoKg:               10,
	}}
	normalize(&d)
	if d.Mercancias[0].CveMaterialPeligroso != "" {
		t.Fatalf("hazmat code kept on non-hazardous line: %q", d.Mercancias[0].CveMaterialPeligroso)
	}
}

func TestValidateShipmentJSON(t *testing.T) {
	if err := validateShipmentJSON(json.RawMessage(goodModelOutput)); err != nil {
		t.Fatalf("good output rejected: %v", err)
	}
	bad := []string{
		`[]`,
		`{"receptor": {}, "mercancias": []}`,
		`{"receptor": {}, "ubicaciones": {"origen": {}, "destino": {}}, "mercancias": [{"pesoKg": "850"}]}`,
		`{"receptor": {}, "ubicaciones": {"origen": {}, "destino": {}}, "mercancias": [], "confidence": {"receptor": 2}}`,
	}
	for _, raw := range bad {
		if err := validateShipmentJSON(json.RawMessage(raw)); err == nil {
			t.Errorf("accepted invalid output: %s", raw)
		}
	}
}
