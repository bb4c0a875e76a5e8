package shipment

// DefaultRegimenFiscal is the SAT generic fiscal regime used when extraction
// finds nothing better ("General de Ley Personas Morales").
const DefaultRegimenFiscal = "601"

// ReviewSections are the top-level sections the review UI surfaces. Every one
// of them must carry a confidence entry; a missing entry reads as 0.0 and
// forces review.
var ReviewSections = []string{
	"receptor",
	"ubicaciones.origen",
	"ubicaciones.destino",
	"mercancias",
	"autotransporte",
	"operador",
}

// ShipmentData is the confidence-annotated extraction result shared between
// the extraction orchestrator, human review, and the Carta Porte transformer.
// Unknown values are zero values: empty strings and zeros, never nulls or
// sentinel text. Absence is expressed by the zero value plus a low confidence
// score.
type ShipmentData struct {
	Receptor       Receptor           `json:"receptor"`
	Ubicaciones    Ubicaciones        `json:"ubicaciones"`
	Mercancias     []Mercancia        `json:"mercancias"`
	Totales        MercanciasTotales  `json:"mercanciasTotales"`
	Autotransporte Autotransporte     `json:"autotransporte"`
	Operador       Operador           `json:"operador"`
	Remolques      []Remolque         `json:"remolques"`
	Confidence     map[string]float64 `json:"confidence"`
}

// Receptor is the fiscal identity of the goods recipient.
type Receptor struct {
	RFC           string `json:"rfc"`
	Nombre        string `json:"nombre"`
	CodigoPostal  string `json:"codigoPostal"`
	RegimenFiscal string `json:"regimenFiscal"`
}

// Ubicaciones groups the origin and destination of the transport leg.
type Ubicaciones struct {
	Origen  Ubicacion `json:"origen"`
	Destino Ubicacion `json:"destino"`
}

// Ubicacion is one end of the transport leg. FechaHora is the departure
// timestamp for the origin and the arrival timestamp for the destination.
type Ubicacion struct {
	Nombre       string    `json:"nombre"`
	RFC          string    `json:"rfc"`
	CodigoPostal string    `json:"codigoPostal"`
	Domicilio    Domicilio `json:"domicilio"`
	DistanciaKm  float64   `json:"distanciaKm"`
	FechaHora    string    `json:"fechaHora"`
}

// Domicilio is a postal address without the postal code (kept on the parent).
type Domicilio struct {
	Calle          string `json:"calle"`
	NumeroExterior string `json:"numeroExterior"`
	NumeroInterior string `json:"numeroInterior"`
	Colonia        string `json:"colonia"`
	Localidad      string `json:"localidad"`
	Municipio      string `json:"municipio"`
	Estado         string `json:"estado"`
}

// IsEmpty reports whether every address field is blank.
func (d Domicilio) IsEmpty() bool {
	return d.Calle == "" && d.NumeroExterior == "" && d.NumeroInterior == "" &&
		d.Colonia == "" && d.Localidad == "" && d.Municipio == "" && d.Estado == ""
}

// Mercancia is one merchandise line item. MaterialPeligroso holds the literal
// "Sí"/"No" answer from the document; the hazardous code block is only emitted
// downstream when it is affirmative.
type Mercancia struct {
	Descripcion          string  `json:"descripcion"`
	Cantidad             float64 `json:"cantidad"`
	Unidad               string  `json:"unidad"`
	ClaveUnidad          string  `json:"claveUnidad"`
	ClaveProdServ        string  `json:"claveProdServ"`
	PesoKg               float64 `json:"pesoKg"`
	ValorMercancia       float64 `json:"valorMercancia"`
	Moneda               string  `json:"moneda"`
	MaterialPeligroso    string  `json:"materialPeligroso"`
	CveMaterialPeligroso string  `json:"cveMaterialPeligroso"`
	TipoEmbalaje         string  `json:"tipoEmbalaje"`
	DescripEmbalaje      string  `json:"descripEmbalaje"`
}

// MercanciasTotales are reviewer-visible aggregates. They are copied into the
// wire document as-is, so reviewer overrides survive, but they must stay
// consistent with the line items when data leaves review (see CheckTotals).
type MercanciasTotales struct {
	UnidadPeso         string  `json:"unidadPeso"`
	PesoBrutoTotal     float64 `json:"pesoBrutoTotal"`
	NumTotalMercancias int     `json:"numTotalMercancias"`
}

// Autotransporte is the vehicle, permit, and insurance data.
type Autotransporte struct {
	PlacaVehiculo    string  `json:"placaVehiculo"`
	ModeloAnio       int     `json:"modeloAnio"`
	ConfigVehicular  string  `json:"configVehicular"`
	PermSCT          string  `json:"permSCT"`
	NumPermisoSCT    string  `json:"numPermisoSCT"`
	AseguraRespCivil string  `json:"aseguraRespCivil"`
	PolizaRespCivil  string  `json:"polizaRespCivil"`
	AseguraCarga     string  `json:"aseguraCarga"`
	PolizaCarga      string  `json:"polizaCarga"`
	PrimaSeguro      float64 `json:"primaSeguro"`
}

// HasSeguros reports whether any insurance field is populated.
func (a Autotransporte) HasSeguros() bool {
	return a.AseguraRespCivil != "" || a.PolizaRespCivil != "" ||
		a.AseguraCarga != "" || a.PolizaCarga != "" || a.PrimaSeguro != 0
}

// Operador is the driver behind the wheel.
type Operador struct {
	Nombre    string    `json:"nombre"`
	RFC       string    `json:"rfc"`
	Licencia  string    `json:"licencia"`
	Domicilio Domicilio `json:"domicilio"`
}

// Remolque is a trailer sub-type code + plate pair.
type Remolque struct {
	SubTipo string `json:"subTipo"`
	Placa   string `json:"placa"`
}

// ConfidenceFor returns the confidence score recorded for a section path.
// Absent entries read as 0.0: lowest trust, forces review.
func (d *ShipmentData) ConfidenceFor(section string) float64 {
	if d.Confidence == nil {
		return 0.0
	}
	return d.Confidence[section]
}

// Clone returns a deep copy. Slices and the confidence map are copied so
// edits on the clone never reach the original.
func (d ShipmentData) Clone() ShipmentData {
	cp := d
	if d.Mercancias != nil {
		cp.Mercancias = make([]Mercancia, len(d.Mercancias))
		copy(cp.Mercancias, d.Mercancias)
	}
	if d.Remolques != nil {
		cp.Remolques = make([]Remolque, len(d.Remolques))
		copy(cp.Remolques, d.Remolques)
	}
	if d.Confidence != nil {
		cp.Confidence = make(map[string]float64, len(d.Confidence))
		for k, v := range d.Confidence {
			cp.Confidence[k] = v
		}
	}
	return cp
}

// Empty returns the zero-valued fallback model: every string empty, every
// number zero, the fiscal regime defaulted, one blank merchandise line so the
// review form has a row to fill, and every review section at confidence 0.0.
func Empty() ShipmentData {
	conf := make(map[string]float64, len(ReviewSections))
	for _, s := range ReviewSections {
		conf[s] = 0.0
	}
	return ShipmentData{
		Receptor:   Receptor{RegimenFiscal: DefaultRegimenFiscal},
		Mercancias: []Mercancia{{}},
		Confidence: conf,
	}
}
