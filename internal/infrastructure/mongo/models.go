package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/jhoicas/billing-api/internal/domain/entity"
)

// documentModel forma BSON de un documento; los ítems van embebidos.
type documentModel struct {
	ID                  string          `bson:"_id"`
	DocumentNumber      string          `bson:"document_number"`
	BillingType         string          `bson:"billing_type"`
	BillingDate         time.Time       `bson:"billing_date"`
	PricingDate         *time.Time      `bson:"pricing_date"`
	ServiceRenderedDate *time.Time      `bson:"service_rendered_date"`
	DueDate             *time.Time      `bson:"due_date"`
	CustomerName        *string         `bson:"customer_name"`
	CustomerEmail       *string         `bson:"customer_email"`
	CustomerAddress     *string         `bson:"customer_address"`
	Items               []itemModel     `bson:"items"`
	Subtotal            bson.Decimal128 `bson:"subtotal"`
	TotalTax            bson.Decimal128 `bson:"total_tax"`
	TotalAmount         bson.Decimal128 `bson:"total_amount"`
	Status              string          `bson:"status"`
	Notes               *string         `bson:"notes"`
	CreatedAt           time.Time       `bson:"created_at"`
	UpdatedAt           time.Time       `bson:"updated_at"`
}

type itemModel struct {
	ID          string          `bson:"id"`
	Name        string          `bson:"item_name"`
	Description *string         `bson:"description"`
	Category    string          `bson:"category"`
	Quantity    bson.Decimal128 `bson:"quantity"`
	UnitPrice   bson.Decimal128 `bson:"unit_price"`
	TaxRate     bson.Decimal128 `bson:"tax_rate"`
	TotalPrice  bson.Decimal128 `bson:"total_price"`
	TaxAmount   bson.Decimal128 `bson:"tax_amount"`
}

// ── entity → model ────────────────────────────────────────────────────────────

func toDocumentModel(doc *entity.BillingDocument) (*documentModel, error) {
	items, err := toItemModels(doc.Items)
	if err != nil {
		return nil, err
	}
	m := &documentModel{
		ID:                  doc.ID,
		DocumentNumber:      doc.DocumentNumber,
		BillingType:         string(doc.BillingType),
		BillingDate:         doc.BillingDate,
		PricingDate:         doc.PricingDate,
		ServiceRenderedDate: doc.ServiceRenderedDate,
		DueDate:             doc.DueDate,
		CustomerName:        doc.CustomerName,
		CustomerEmail:       doc.CustomerEmail,
		CustomerAddress:     doc.CustomerAddress,
		Items:               items,
		Status:              string(doc.Status),
		Notes:               doc.Notes,
		CreatedAt:           doc.CreatedAt,
		UpdatedAt:           doc.UpdatedAt,
	}
	if m.Subtotal, err = toDecimal128(doc.Subtotal); err != nil {
		return nil, err
	}
	if m.TotalTax, err = toDecimal128(doc.TotalTax); err != nil {
		return nil, err
	}
	if m.TotalAmount, err = toDecimal128(doc.TotalAmount); err != nil {
		return nil, err
	}
	return m, nil
}

func toItemModels(items []entity.BillingItem) ([]itemModel, error) {
	out := make([]itemModel, 0, len(items))
	for _, it := range items {
		m := itemModel{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Category:    string(it.Category),
		}
		var err error
		if m.Quantity, err = toDecimal128(it.Quantity); err != nil {
			return nil, err
		}
		if m.UnitPrice, err = toDecimal128(it.UnitPrice); err != nil {
			return nil, err
		}
		if m.TaxRate, err = toDecimal128(it.TaxRate); err != nil {
			return nil, err
		}
		if m.TotalPrice, err = toDecimal128(it.TotalPrice); err != nil {
			return nil, err
		}
		if m.TaxAmount, err = toDecimal128(it.TaxAmount); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ── model → entity ────────────────────────────────────────────────────────────

func fromDocumentModel(m *documentModel) (*entity.BillingDocument, error) {
	doc := &entity.BillingDocument{
		ID:                  m.ID,
		DocumentNumber:      m.DocumentNumber,
		BillingType:         entity.BillingType(m.BillingType),
		BillingDate:         m.BillingDate.UTC(),
		PricingDate:         utcPtr(m.PricingDate),
		ServiceRenderedDate: utcPtr(m.ServiceRenderedDate),
		DueDate:             utcPtr(m.DueDate),
		CustomerName:        m.CustomerName,
		CustomerEmail:       m.CustomerEmail,
		CustomerAddress:     m.CustomerAddress,
		Items:               make([]entity.BillingItem, 0, len(m.Items)),
		Status:              entity.DocumentStatus(m.Status),
		Notes:               m.Notes,
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
	}
	var err error
	if doc.Subtotal, err = fromDecimal128(m.Subtotal); err != nil {
		return nil, err
	}
	if doc.TotalTax, err = fromDecimal128(m.TotalTax); err != nil {
		return nil, err
	}
	if doc.TotalAmount, err = fromDecimal128(m.TotalAmount); err != nil {
		return nil, err
	}
	for _, im := range m.Items {
		it := entity.BillingItem{
			ID:          im.ID,
			Name:        im.Name,
			Description: im.Description,
			Category:    entity.ItemCategory(im.Category),
		}
		if it.Quantity, err = fromDecimal128(im.Quantity); err != nil {
			return nil, err
		}
		if it.UnitPrice, err = fromDecimal128(im.UnitPrice); err != nil {
			return nil, err
		}
		if it.TaxRate, err = fromDecimal128(im.TaxRate); err != nil {
			return nil, err
		}
		if it.TotalPrice, err = fromDecimal128(im.TotalPrice); err != nil {
			return nil, err
		}
		if it.TaxAmount, err = fromDecimal128(im.TaxAmount); err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, it)
	}
	return doc, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func toDecimal128(d decimal.Decimal) (bson.Decimal128, error) {
	v, err := bson.ParseDecimal128(d.String())
	if err != nil {
		return bson.Decimal128{}, fmt.Errorf("decimal128 %s: %w", d, err)
	}
	return v, nil
}

// fromDecimal128 un Decimal128 vacío (campo ausente) se lee como cero.
func fromDecimal128(v bson.Decimal128) (decimal.Decimal, error) {
	if v == (bson.Decimal128{}) {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimal128 %s: %w", v, err)
	}
	return d, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
