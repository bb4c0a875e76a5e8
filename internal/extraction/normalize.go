package extraction

import (
	"strings"

	"cartaporte-backend/internal/shipment"
)

// satUnitCodes maps unit names as they appear on transport documents to SAT
// unit keys. Matching is case-insensitive on the trimmed name.
var satUnitCodes = map[string]string{
	"kg":         "KGM",
	"kgs":        "KGM",
	"kilo":       "KGM",
	"kilos":      "KGM",
	"kilogramo":  "KGM",
	"kilogramos": "KGM",
	"ton":        "TNE",
	"tons":       "TNE",
	"tonelada":   "TNE",
	"toneladas":  "TNE",
	"lt":         "LTR",
	"lts":        "LTR",
	"litro":      "LTR",
	"litros":     "LTR",
	"pza":        "H87",
	"pzas":       "H87",
	"pieza":      "H87",
	"piezas":     "H87",
	"unidad":     "H87",
	"unidades":   "H87",
	"caja":       "XBX",
	"cajas":      "XBX",
	"tarima":     "XPX",
	"tarimas":    "XPX",
	"pallet":     "XPX",
	"pallets":    "XPX",
	"servicio":   "E48",
}

// normalize fills the gaps the model is allowed to leave: SAT unit keys
// derived from free-text units, the default fiscal regime, the hazardous
// material answer, and confidence entries for every review section. It never
// overwrites a value the model set.
func normalize(d *shipment.ShipmentData) {
	if d.Receptor.RegimenFiscal == "" {
		d.Receptor.RegimenFiscal = shipment.DefaultRegimenFiscal
	}

	if len(d.Mercancias) == 0 {
		d.Mercancias = []shipment.Mercancia{{}}
	}
	for i := range d.Mercancias {
		m := &d.Mercancias[i]
		if m.ClaveUnidad == "" {
			if code, ok := satUnitCodes[strings.ToLower(strings.TrimSpace(m.Unidad))]; ok {
				m.ClaveUnidad = code
			}
		}
		if m.MaterialPeligroso == "" {
			m.MaterialPeligroso = "No"
		}
		if m.MaterialPeligroso != "Sí" {
			m.CveMaterialPeligroso = ""
		}
	}

	if d.Totales.UnidadPeso == "" {
		d.Totales.UnidadPeso = "KGM"
	}
	if d.Totales.NumTotalMercancias == 0 {
		d.Totales.NumTotalMercancias = len(d.Mercancias)
	}
	if d.Totales.PesoBrutoTotal == 0 {
		var sum float64
		for _, m := range d.Mercancias {
			sum += m.PesoKg
		}
		d.Totales.PesoBrutoTotal = sum
	}

	if d.Confidence == nil {
		d.Confidence = make(map[string]float64, len(shipment.ReviewSections))
	}
	for _, section := range shipment.ReviewSections {
		if _, ok := d.Confidence[section]; !ok {
			d.Confidence[section] = 0.0
		}
	}
}
