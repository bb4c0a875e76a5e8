package catalogs

// Entry is one code/description pair from a SAT catalog.
type Entry struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

// regimenFiscal is the SAT fiscal regime catalog, served locally so the
// review form works without provider credentials.
var regimenFiscal = []Entry{
	{Value: "601", Name: "General de Ley Personas Morales"},
	{Value: "603", Name: "Personas Morales con Fines no Lucrativos"},
	{Value: "605", Name: "Sueldos y Salarios e Ingresos Asimilados a Salarios"},
	{Value: "606", Name: "Arrendamiento"},
	{Value: "607", Name: "Régimen de Enajenación o Adquisición de Bienes"},
	{Value: "608", Name: "Demás ingresos"},
	{Value: "610", Name: "Residentes en el Extranjero sin Establecimiento Permanente en México"},
	{Value: "611", Name: "Ingresos por Dividendos (socios y accionistas)"},
	{Value: "612", Name: "Personas Físicas con Actividades Empresariales y Profesionales"},
	{Value: "614", Name: "Ingresos por intereses"},
	{Value: "615", Name: "Régimen de los ingresos por obtención de premios"},
	{Value: "616", Name: "Sin obligaciones fiscales"},
	{Value: "620", Name: "Sociedades Cooperativas de Producción que optan por diferir sus ingresos"},
	{Value: "621", Name: "Incorporación Fiscal"},
	{Value: "622", Name: "Actividades Agrícolas, Ganaderas, Silvícolas y Pesqueras"},
	{Value: "623", Name: "Opcional para Grupos de Sociedades"},
	{Value: "625", Name: "Régimen de las Actividades Empresariales con ingresos a través de Plataformas Tecnológicas"},
	{Value: "626", Name: "Régimen Simplificado de Confianza"},
}

// claveUnidad are the SAT unit keys the pipeline emits.
var claveUnidad = []Entry{
	{Value: "KGM", Name: "Kilogramo"},
	{Value: "TNE", Name: "Tonelada"},
	{Value: "LTR", Name: "Litro"},
	{Value: "H87", Name: "Pieza"},
	{Value: "XBX", Name: "Caja"},
	{Value: "XPX", Name: "Tarima"},
	{Value: "E48", Name: "Unidad de servicio"},
}

// configVehicular are the common motor carrier configurations.
var configVehicular = []Entry{
	{Value: "C2", Name: "Camión Unitario (2 llantas en el eje delantero y 4 llantas en el eje trasero)"},
	{Value: "C3", Name: "Camión Unitario (2 llantas en el eje delantero y 6 o 8 llantas en los dos ejes traseros)"},
	{Value: "T3S2", Name: "Tractocamión Articulado (3 ejes en el tractocamión y 2 ejes en el semirremolque)"},
	{Value: "T3S3", Name: "Tractocamión Articulado (3 ejes en el tractocamión y 3 ejes en el semirremolque)"},
	{Value: "VL", Name: "Vehículo ligero de carga (2 llantas en el eje delantero y 2 llantas en el eje trasero)"},
}

// local maps catalog names to locally served entries.
var local = map[string][]Entry{
	"regimen-fiscal":   regimenFiscal,
	"clave-unidad":     claveUnidad,
	"config-vehicular": configVehicular,
}

// Local returns the locally embedded catalog for name, or nil when the
// catalog has to come from the provider.
func Local(name string) []Entry {
	return local[name]
}
