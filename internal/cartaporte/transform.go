package cartaporte

import "cartaporte-backend/internal/shipment"

// Transform builds the provider wire document from a reviewed shipment model.
// It is a pure function of its inputs: no clock, no randomness, no lookups.
// Transforming the same model twice yields the same document, so a retried
// emission sends exactly the bytes of the first attempt.
//
// Reviewer-approved values are copied verbatim. In particular the merchandise
// totals are NOT recomputed from the line items here; consistency is enforced
// before the job leaves review.
func Transform(d shipment.ShipmentData, expeditionPlace string) Document {
	origen := buildUbicacion("Origen", "OR", d.Ubicaciones.Origen)
	destino := buildUbicacion("Destino", "DE", d.Ubicaciones.Destino)
	if d.Ubicaciones.Destino.DistanciaKm > 0 {
		dist := d.Ubicaciones.Destino.DistanciaKm
		destino.DistanciaRecorrida = &dist
	}

	return Document{
		Serie:           Serie,
		Currency:        Currency,
		ExpeditionPlace: expeditionPlace,
		PaymentForm:     PaymentForm,
		PaymentMethod:   PaymentMethod,
		CfdiType:        CfdiType,
		Receiver: Receiver{
			Rfc:          orDefault(d.Receptor.RFC, GenericRFC),
			Name:         d.Receptor.Nombre,
			CfdiUse:      CfdiUse,
			FiscalRegime: orDefault(d.Receptor.RegimenFiscal, shipment.DefaultRegimenFiscal),
			TaxZipCode:   orDefault(d.Receptor.CodigoPostal, expeditionPlace),
		},
		Items: []Item{{
			ProductCode: ProductCode,
			Description: "Servicio de transporte de carga",
			Unit:        "Unidad de servicio",
			UnitCode:    Unit,
			Quantity:    1,
			UnitPrice:   0,
			Subtotal:    0,
			Total:       0,
			TaxObject:   "01",
		}},
		Complemento: Complement{CartaPorte: CartaPorte{
			TranspInternac:   "No",
			TotalDistRec:     d.Ubicaciones.Origen.DistanciaKm + d.Ubicaciones.Destino.DistanciaKm,
			Ubicaciones:      []Ubicacion{origen, destino},
			Mercancias:       buildMercancias(d, origen.IDUbicacion, destino.IDUbicacion),
			FiguraTransporte: buildFiguras(d.Operador),
		}},
	}
}

// buildUbicacion derives the synthetic location ID from the prefix and postal
// code, per the complement's ID format (two letters then digits).
func buildUbicacion(tipo, prefix string, u shipment.Ubicacion) Ubicacion {
	return Ubicacion{
		TipoUbicacion:               tipo,
		IDUbicacion:                 prefix + u.CodigoPostal,
		RFCRemitenteDestinatario:    orDefault(u.RFC, GenericRFC),
		NombreRemitenteDestinatario: u.Nombre,
		FechaHoraSalidaLlegada:      u.FechaHora,
		Domicilio: Domicilio{
			Calle:          u.Domicilio.Calle,
			NumeroExterior: u.Domicilio.NumeroExterior,
			NumeroInterior: u.Domicilio.NumeroInterior,
			Colonia:        u.Domicilio.Colonia,
			Localidad:      u.Domicilio.Localidad,
			Municipio:      u.Domicilio.Municipio,
			Estado:         u.Domicilio.Estado,
			Pais:           "MEX",
			CodigoPostal:   u.CodigoPostal,
		},
	}
}

func buildMercancias(d shipment.ShipmentData, idOrigen, idDestino string) Mercancias {
	lines := make([]Mercancia, 0, len(d.Mercancias))
	for _, m := range d.Mercancias {
		line := Mercancia{
			BienesTransp:   orDefault(m.ClaveProdServ, DefaultBienesTransp),
			Descripcion:    m.Descripcion,
			Cantidad:       m.Cantidad,
			ClaveUnidad:    m.ClaveUnidad,
			PesoEnKg:       m.PesoKg,
			ValorMercancia: m.ValorMercancia,
			Moneda:         orDefault(m.Moneda, Currency),
			CantidadTransporta: []CantidadTransporta{{
				Cantidad:  m.Cantidad,
				IDOrigen:  idOrigen,
				IDDestino: idDestino,
			}},
		}
		if m.MaterialPeligroso == "Sí" {
			line.MaterialPeligroso = "Sí"
			line.CveMaterialPeligroso = m.CveMaterialPeligroso
		}
		if m.TipoEmbalaje != "" {
			line.Embalaje = m.TipoEmbalaje
			line.DescripEmbalaje = m.DescripEmbalaje
		}
		lines = append(lines, line)
	}

	auto := Autotransporte{
		PermSCT:       orDefault(d.Autotransporte.PermSCT, DefaultPermSCT),
		NumPermisoSCT: d.Autotransporte.NumPermisoSCT,
		IdentificacionVehicular: IdentificacionVehicular{
			ConfigVehicular: orDefault(d.Autotransporte.ConfigVehicular, DefaultConfigVehicular),
			PlacaVM:         d.Autotransporte.PlacaVehiculo,
			AnioModeloVM:    d.Autotransporte.ModeloAnio,
		},
	}
	if d.Autotransporte.HasSeguros() {
		auto.Seguros = &Seguros{
			AseguraRespCivil: d.Autotransporte.AseguraRespCivil,
			PolizaRespCivil:  d.Autotransporte.PolizaRespCivil,
			AseguraCarga:     d.Autotransporte.AseguraCarga,
			PolizaCarga:      d.Autotransporte.PolizaCarga,
			PrimaSeguro:      d.Autotransporte.PrimaSeguro,
		}
	}
	if len(d.Remolques) > 0 {
		auto.Remolques = make([]Remolque, 0, len(d.Remolques))
		for _, r := range d.Remolques {
			auto.Remolques = append(auto.Remolques, Remolque{SubTipoRem: r.SubTipo, Placa: r.Placa})
		}
	}

	return Mercancias{
		UnidadPeso:         d.Totales.UnidadPeso,
		PesoBrutoTotal:     d.Totales.PesoBrutoTotal,
		NumTotalMercancias: d.Totales.NumTotalMercancias,
		Mercancia:          lines,
		Autotransporte:     auto,
	}
}

// buildFiguras emits the driver as figure type 01 (operator). The address
// block is optional in the complement and only sent when something is in it.
func buildFiguras(op shipment.Operador) []FiguraTransport {
	fig := FiguraTransport{
		TipoFigura:   "01",
		RFCFigura:    op.RFC,
		NumLicencia:  op.Licencia,
		NombreFigura: op.Nombre,
	}
	if !op.Domicilio.IsEmpty() {
		fig.Domicilio = &Domicilio{
			Calle:          op.Domicilio.Calle,
			NumeroExterior: op.Domicilio.NumeroExterior,
			NumeroInterior: op.Domicilio.NumeroInterior,
			Colonia:        op.Domicilio.Colonia,
			Localidad:      op.Domicilio.Localidad,
			Municipio:      op.Domicilio.Municipio,
			Estado:         op.Domicilio.Estado,
			Pais:           "MEX",
		}
	}
	return []FiguraTransport{fig}
}

func orDefault(val, def string) string {
	if val == "" {
		return def
	}
	return val
}
