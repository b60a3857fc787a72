package model

import "time"

// Offer é uma oferta de venda de petróleo já normalizada.
// Campos opcionais (datas, pdf, vigente) ficam nil quando o feed não traz o dado.
type Offer struct {
	ID               int
	PublishedAt      *time.Time
	Company          string
	Product          string
	Volume           string
	DeliveryStart    *time.Time // solo fecha
	DeliveryEnd      *time.Time // solo fecha
	PriceFormula     string
	NCM              string
	DeliveryLocation string
	Notes            string
	Basin            string
	PDFURL           *string
	Vigente          *string
}
