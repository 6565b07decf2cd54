package billing

import (
	"time"

	"github.com/jhoicas/billing-api/internal/domain/entity"
)

// numberTimestampLayout YYYYMMDDHHMMSS.
const numberTimestampLayout = "20060102150405"

// DefaultPrefix prefijo para tipos desconocidos.
const DefaultPrefix = "DOC"

var documentPrefixes = map[entity.BillingType]string{
	entity.BillingTypeAdvanceInvoice:  "ADV",
	entity.BillingTypeStandardInvoice: "INV",
	entity.BillingTypeReceipt:         "RCT",
	entity.BillingTypeCreditNote:      "CN",
	entity.BillingTypeProformaInvoice: "PRO",
}

// Prefix devuelve el prefijo de numeración del tipo.
func Prefix(t entity.BillingType) string {
	if p, ok := documentPrefixes[t]; ok {
		return p
	}
	return DefaultPrefix
}

// DocumentNumber genera "{PREFIX}-{YYYYMMDDHHMMSS}" con la hora local de now.
// Dos documentos del mismo tipo en el mismo segundo colisionan; el store rechaza el duplicado.
func DocumentNumber(t entity.BillingType, now time.Time) string {
	return Prefix(t) + "-" + now.Format(numberTimestampLayout)
}
