package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bucket estado de calidad del stock.
type Bucket string

const (
	BucketGood      Bucket = "good"
	BucketDefective Bucket = "defective"
	BucketFaulty    Bucket = "faulty"
	BucketScrap     Bucket = "scrap"
)

// Buckets en orden de presentación.
var Buckets = []Bucket{BucketGood, BucketDefective, BucketFaulty, BucketScrap}

// Valid indica si el bucket es conocido.
func (b Bucket) Valid() bool {
	switch b {
	case BucketGood, BucketDefective, BucketFaulty, BucketScrap:
		return true
	}
	return false
}

// StockPosition cantidades de un SKU en un holder, separadas por bucket.
// Se crea de forma perezosa y nunca se elimina; cero es un estado válido.
type StockPosition struct {
	Holder    HolderRef
	SKUCodeID string
	Good      int64
	Defective int64
	Faulty    int64
	Scrap     int64
	AvgPrice  decimal.Decimal // promedio ponderado, solo cambia con entradas a good
	UpdatedAt time.Time
}

// Quantity devuelve la cantidad del bucket indicado.
func (p *StockPosition) Quantity(b Bucket) int64 {
	switch b {
	case BucketGood:
		return p.Good
	case BucketDefective:
		return p.Defective
	case BucketFaulty:
		return p.Faulty
	case BucketScrap:
		return p.Scrap
	}
	return 0
}

// SetQuantity asigna la cantidad del bucket indicado.
func (p *StockPosition) SetQuantity(b Bucket, qty int64) {
	switch b {
	case BucketGood:
		p.Good = qty
	case BucketDefective:
		p.Defective = qty
	case BucketFaulty:
		p.Faulty = qty
	case BucketScrap:
		p.Scrap = qty
	}
}

// Total suma los cuatro buckets.
func (p *StockPosition) Total() int64 {
	return p.Good + p.Defective + p.Faulty + p.Scrap
}
