package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
)

var _ repository.BillingDocumentRepository = (*BillingDocumentRepo)(nil)

const documentColumns = `
	id, document_number, billing_type, billing_date, pricing_date, service_rendered_date, due_date,
	customer_name, customer_email, customer_address, items, subtotal, total_tax, total_amount,
	status, notes, created_at, updated_at`

// BillingDocumentRepo implementación de BillingDocumentRepository sobre PostgreSQL.
// Los ítems se guardan embebidos en una columna JSONB: se leen y escriben siempre junto al documento.
type BillingDocumentRepo struct {
	q Querier
}

// NewBillingDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillingDocumentRepository(q Querier) *BillingDocumentRepo {
	return &BillingDocumentRepo{q: q}
}

// itemRecord forma JSON de un ítem dentro de la columna items.
type itemRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"item_name"`
	Description *string         `json:"description"`
	Category    string          `json:"category"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}

func (r *BillingDocumentRepo) Insert(ctx context.Context, doc *entity.BillingDocument) error {
	items, err := encodeItems(doc.Items)
	if err != nil {
		return err
	}
	query := `INSERT INTO billing_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err = r.q.Exec(ctx, query,
		doc.ID, doc.DocumentNumber, string(doc.BillingType), doc.BillingDate,
		doc.PricingDate, doc.ServiceRenderedDate, doc.DueDate,
		doc.CustomerName, doc.CustomerEmail, doc.CustomerAddress,
		items, doc.Subtotal, doc.TotalTax, doc.TotalAmount,
		string(doc.Status), doc.Notes, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("billing document %s: %w", doc.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert billing document: %w", err)
	}
	return nil
}

func (r *BillingDocumentRepo) FindByID(ctx context.Context, id string) (*entity.BillingDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM billing_documents WHERE id = $1`
	doc, err := scanDocument(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get billing document: %w", err)
	}
	return doc, nil
}

func (r *BillingDocumentRepo) FindMany(ctx context.Context, filter repository.BillingDocumentFilter, limit int) ([]*entity.BillingDocument, error) {
	where, args := whereClause(filter)
	query := `SELECT ` + documentColumns + ` FROM billing_documents` + where + ` ORDER BY seq`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list billing documents: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.BillingDocument, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan billing document: %w", err)
		}
		list = append(list, doc)
	}
	return list, rows.Err()
}

func (r *BillingDocumentRepo) UpdateFields(ctx context.Context, id string, fields repository.Fields) error {
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, 0, len(fields))
	args := []any{id}
	for field, value := range fields {
		v, err := columnValue(field, value)
		if err != nil {
			return fmt.Errorf("update billing document: %w", err)
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", field, len(args)))
	}
	query := `UPDATE billing_documents SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update billing document: %w", err)
	}
	return nil
}

func (r *BillingDocumentRepo) Delete(ctx context.Context, id string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM billing_documents WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete billing document: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *BillingDocumentRepo) Count(ctx context.Context, filter repository.BillingDocumentFilter) (int64, error) {
	where, args := whereClause(filter)
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM billing_documents`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count billing documents: %w", err)
	}
	return n, nil
}

func (r *BillingDocumentRepo) CountBy(ctx context.Context, field string) (map[string]int64, error) {
	if !repository.GroupableField(field) {
		return nil, fmt.Errorf("count by %q: campo no agrupable", field)
	}
	// field viene de la lista blanca de GroupableField.
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM billing_documents GROUP BY %s`, field, field)
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count billing documents by %s: %w", field, err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		out[key] = n
	}
	return out, rows.Err()
}

func (r *BillingDocumentRepo) SumTotalAmount(ctx context.Context, filter repository.BillingDocumentFilter) (decimal.Decimal, error) {
	where, args := whereClause(filter)
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(total_amount), 0) FROM billing_documents` + where
	if err := r.q.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum billing documents: %w", err)
	}
	return sum, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func whereClause(f repository.BillingDocumentFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.BillingType != "" {
		args = append(args, string(f.BillingType))
		conds = append(conds, fmt.Sprintf("billing_type = $%d", len(args)))
	}
	if f.DocumentNumber != "" {
		args = append(args, f.DocumentNumber)
		conds = append(conds, fmt.Sprintf("document_number = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// columnValue valida el tipo esperado del campo y lo convierte al valor de la columna.
func columnValue(field string, value any) (any, error) {
	switch field {
	case repository.FieldBillingType:
		if v, ok := value.(entity.BillingType); ok {
			return string(v), nil
		}
	case repository.FieldStatus:
		if v, ok := value.(entity.DocumentStatus); ok {
			return string(v), nil
		}
	case repository.FieldBillingDate, repository.FieldUpdatedAt:
		if v, ok := value.(time.Time); ok {
			return v, nil
		}
	case repository.FieldPricingDate, repository.FieldServiceRenderedDate, repository.FieldDueDate:
		if v, ok := value.(*time.Time); ok {
			return v, nil
		}
	case repository.FieldCustomerName, repository.FieldCustomerEmail, repository.FieldCustomerAddress, repository.FieldNotes:
		if v, ok := value.(*string); ok {
			return v, nil
		}
	case repository.FieldItems:
		if v, ok := value.([]entity.BillingItem); ok {
			return encodeItems(v)
		}
	case repository.FieldSubtotal, repository.FieldTotalTax, repository.FieldTotalAmount:
		if v, ok := value.(decimal.Decimal); ok {
			return v, nil
		}
	default:
		return nil, fmt.Errorf("campo desconocido %q", field)
	}
	return nil, fmt.Errorf("campo %q: tipo inesperado %T", field, value)
}

func encodeItems(items []entity.BillingItem) ([]byte, error) {
	records := make([]itemRecord, 0, len(items))
	for _, it := range items {
		records = append(records, itemRecord{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Category:    string(it.Category),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			TotalPrice:  it.TotalPrice,
			TaxAmount:   it.TaxAmount,
		})
	}
	b, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return b, nil
}

func decodeItems(raw []byte) ([]entity.BillingItem, error) {
	var records []itemRecord
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
	}
	items := make([]entity.BillingItem, 0, len(records))
	for _, rec := range records {
		items = append(items, entity.BillingItem{
			ID:          rec.ID,
			Name:        rec.Name,
			Description: rec.Description,
			Category:    entity.ItemCategory(rec.Category),
			Quantity:    rec.Quantity,
			UnitPrice:   rec.UnitPrice,
			TaxRate:     rec.TaxRate,
			TotalPrice:  rec.TotalPrice,
			TaxAmount:   rec.TaxAmount,
		})
	}
	return items, nil
}

func scanDocument(row pgx.Row) (*entity.BillingDocument, error) {
	var doc entity.BillingDocument
	var billingType, status string
	var items []byte
	err := row.Scan(
		&doc.ID, &doc.DocumentNumber, &billingType, &doc.BillingDate,
		&doc.PricingDate, &doc.ServiceRenderedDate, &doc.DueDate,
		&doc.CustomerName, &doc.CustomerEmail, &doc.CustomerAddress,
		&items, &doc.Subtotal, &doc.TotalTax, &doc.TotalAmount,
		&status, &doc.Notes, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.BillingType = entity.BillingType(billingType)
	doc.Status = entity.DocumentStatus(status)
	doc.CreatedAt = doc.CreatedAt.UTC()
	doc.UpdatedAt = doc.UpdatedAt.UTC()
	if doc.Items, err = decodeItems(items); err != nil {
		return nil, err
	}
	return &doc, nil
}
