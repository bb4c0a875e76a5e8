package cartaporte

// Fixed CFDI values for a transport-type document. The invoice carries no
// monetary operation of its own, so payment fields use the SAT codes for
// "to be defined" and the generic transport use.
const (
	Serie         = "CP"
	Currency      = "MXN"
	PaymentForm   = "99"
	PaymentMethod = "PUE"
	CfdiType      = "T"
	CfdiUse       = "S01"

	// Single invoice line describing the transport service.
	ProductCode = "78101800"
	Unit        = "E48"

	// Fallbacks for fields the complement requires but documents often omit.
	GenericRFC             = "XAXX010101000"
	DefaultBienesTransp    = "01010101"
	DefaultPermSCT         = "TPAF01"
	DefaultConfigVehicular = "C2"
)

// Document is the invoicing-provider wire format: a CFDI of type T carrying
// the Carta Porte complement. Field names follow the provider's API casing.
type Document struct {
	Serie           string     `json:"Serie"`
	Currency        string     `json:"Currency"`
	ExpeditionPlace string     `json:"ExpeditionPlace"`
	PaymentForm     string     `json:"PaymentForm"`
	PaymentMethod   string     `json:"PaymentMethod"`
	CfdiType        string     `json:"CfdiType"`
	Receiver        Receiver   `json:"Receiver"`
	Items           []Item     `json:"Items"`
	Complemento     Complement `json:"Complemento"`
}

type Receiver struct {
	Rfc          string `json:"Rfc"`
	Name         string `json:"Name"`
	CfdiUse      string `json:"CfdiUse"`
	FiscalRegime string `json:"FiscalRegime"`
	TaxZipCode   string `json:"TaxZipCode"`
}

type Item struct {
	ProductCode string  `json:"ProductCode"`
	Description string  `json:"Description"`
	Unit        string  `json:"Unit"`
	UnitCode    string  `json:"UnitCode"`
	Quantity    float64 `json:"Quantity"`
	UnitPrice   float64 `json:"UnitPrice"`
	Subtotal    float64 `json:"Subtotal"`
	Total       float64 `json:"Total"`
	TaxObject   string  `json:"TaxObject"`
}

type Complement struct {
	CartaPorte CartaPorte `json:"CartaPorte30"`
}

type CartaPorte struct {
	TranspInternac   string            `json:"TranspInternac"`
	TotalDistRec     float64           `json:"TotalDistRec"`
	Ubicaciones      []Ubicacion       `json:"Ubicaciones"`
	Mercancias       Mercancias        `json:"Mercancias"`
	FiguraTransporte []FiguraTransport `json:"FiguraTransporte"`
}

type Ubicacion struct {
	TipoUbicacion               string    `json:"TipoUbicacion"`
	IDUbicacion                 string    `json:"IDUbicacion"`
	RFCRemitenteDestinatario    string    `json:"RFCRemitenteDestinatario"`
	NombreRemitenteDestinatario string    `json:"NombreRemitenteDestinatario,omitempty"`
	FechaHoraSalidaLlegada      string    `json:"FechaHoraSalidaLlegada"`
	DistanciaRecorrida          *float64  `json:"DistanciaRecorrida,omitempty"`
	Domicilio                   Domicilio `json:"Domicilio"`
}

type Domicilio struct {
	Calle          string `json:"Calle,omitempty"`
	NumeroExterior string `json:"NumeroExterior,omitempty"`
	NumeroInterior string `json:"NumeroInterior,omitempty"`
	Colonia        string `json:"Colonia,omitempty"`
	Localidad      string `json:"Localidad,omitempty"`
	Municipio      string `json:"Municipio,omitempty"`
	Estado         string `json:"Estado"`
	Pais           string `json:"Pais"`
	CodigoPostal   string `json:"CodigoPostal"`
}

type Mercancias struct {
	UnidadPeso         string         `json:"UnidadPeso"`
	PesoBrutoTotal     float64        `json:"PesoBrutoTotal"`
	NumTotalMercancias int            `json:"NumTotalMercancias"`
	Mercancia          []Mercancia    `json:"Mercancia"`
	Autotransporte     Autotransporte `json:"Autotransporte"`
}

type Mercancia struct {
	BienesTransp         string               `json:"BienesTransp"`
	Descripcion          string               `json:"Descripcion"`
	Cantidad             float64              `json:"Cantidad"`
	ClaveUnidad          string               `json:"ClaveUnidad"`
	PesoEnKg             float64              `json:"PesoEnKg"`
	ValorMercancia       float64              `json:"ValorMercancia"`
	Moneda               string               `json:"Moneda"`
	MaterialPeligroso    string               `json:"MaterialPeligroso,omitempty"`
	CveMaterialPeligroso string               `json:"CveMaterialPeligroso,omitempty"`
	Embalaje             string               `json:"Embalaje,omitempty"`
	DescripEmbalaje      string               `json:"DescripEmbalaje,omitempty"`
	CantidadTransporta   []CantidadTransporta `json:"CantidadTransporta"`
}

// CantidadTransporta cross-references a transported quantity to the synthetic
// location IDs of the leg it travels.
type CantidadTransporta struct {
	Cantidad  float64 `json:"Cantidad"`
	IDOrigen  string  `json:"IDOrigen"`
	IDDestino string  `json:"IDDestino"`
}

type Autotransporte struct {
	PermSCT                 string                  `json:"PermSCT"`
	NumPermisoSCT           string                  `json:"NumPermisoSCT"`
	IdentificacionVehicular IdentificacionVehicular `json:"IdentificacionVehicular"`
	Seguros                 *Seguros                `json:"Seguros,omitempty"`
	Remolques               []Remolque              `json:"Remolques,omitempty"`
}

type IdentificacionVehicular struct {
	ConfigVehicular string `json:"ConfigVehicular"`
	PlacaVM         string `json:"PlacaVM"`
	AnioModeloVM    int    `json:"AnioModeloVM"`
}

type Seguros struct {
	AseguraRespCivil string  `json:"AseguraRespCivil,omitempty"`
	PolizaRespCivil  string  `json:"PolizaRespCivil,omitempty"`
	AseguraCarga     string  `json:"AseguraCarga,omitempty"`
	PolizaCarga      string  `json:"PolizaCarga,omitempty"`
	PrimaSeguro      float64 `json:"PrimaSeguro,omitempty"`
}

type Remolque struct {
	SubTipoRem string `json:"SubTipoRem"`
	Placa      string `json:"Placa"`
}

type FiguraTransport struct {
	TipoFigura   string     `json:"TipoFigura"`
	RFCFigura    string     `json:"RFCFigura,omitempty"`
	NumLicencia  string     `json:"NumLicencia,omitempty"`
	NombreFigura string     `json:"NombreFigura"`
	Domicilio    *Domicilio `json:"Domicilio,omitempty"`
}
