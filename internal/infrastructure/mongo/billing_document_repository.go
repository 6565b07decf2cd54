package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
)

var _ repository.BillingDocumentRepository = (*BillingDocumentRepo)(nil)

// BillingDocumentRepo implementación de BillingDocumentRepository sobre MongoDB.
type BillingDocumentRepo struct {
	col *mongo.Collection
}

// NewBillingDocumentRepository construye el adaptador sobre la base indicada.
func NewBillingDocumentRepository(db *mongo.Database) *BillingDocumentRepo {
	return &BillingDocumentRepo{col: db.Collection(CollectionBillingDocuments)}
}

// legacyNumberIndex índice único sobre document_number de versiones anteriores.
const legacyNumberIndex = "ux_document_number"

// Migrate crea los índices de la colección. Es idempotente. El número de documento
// no es único: si existe el índice único anterior se elimina antes de crear el nuevo.
func (r *BillingDocumentRepo) Migrate(ctx context.Context) error {
	specs, err := r.col.Indexes().ListSpecifications(ctx)
	if err != nil {
		return fmt.Errorf("mongo migrate: listar índices: %w", err)
	}
	for _, spec := range specs {
		if spec.Name == legacyNumberIndex {
			if err := r.col.Indexes().DropOne(ctx, legacyNumberIndex); err != nil {
				return fmt.Errorf("mongo migrate: eliminar %s: %w", legacyNumberIndex, err)
			}
		}
	}

	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "document_number", Value: 1}}, Options: options.Index().SetName("ix_document_number")},
		{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index().SetName("ix_status")},
		{Keys: bson.D{{Key: "billing_type", Value: 1}}, Options: options.Index().SetName("ix_billing_type")},
		{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}, Options: options.Index().SetName("ix_created_at")},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("mongo migrate: %w", err)
	}
	return nil
}

func (r *BillingDocumentRepo) Insert(ctx context.Context, doc *entity.BillingDocument) error {
	m, err := toDocumentModel(doc)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("billing document %s: %w", doc.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert billing document: %w", err)
	}
	return nil
}

func (r *BillingDocumentRepo) FindByID(ctx context.Context, id string) (*entity.BillingDocument, error) {
	var m documentModel
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get billing document: %w", err)
	}
	return fromDocumentModel(&m)
}

func (r *BillingDocumentRepo) FindMany(ctx context.Context, filter repository.BillingDocumentFilter, limit int) ([]*entity.BillingDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.col.Find(ctx, matchFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list billing documents: %w", err)
	}
	var models []documentModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("decode billing documents: %w", err)
	}
	list := make([]*entity.BillingDocument, 0, len(models))
	for i := range models {
		doc, err := fromDocumentModel(&models[i])
		if err != nil {
			return nil, err
		}
		list = append(list, doc)
	}
	return list, nil
}

func (r *BillingDocumentRepo) UpdateFields(ctx context.Context, id string, fields repository.Fields) error {
	if len(fields) == 0 {
		return nil
	}
	set := bson.M{}
	for field, value := range fields {
		v, err := fieldValue(field, value)
		if err != nil {
			return fmt.Errorf("update billing document: %w", err)
		}
		set[field] = v
	}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("update billing document: %w", err)
	}
	return nil
}

func (r *BillingDocumentRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete billing document: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *BillingDocumentRepo) Count(ctx context.Context, filter repository.BillingDocumentFilter) (int64, error) {
	n, err := r.col.CountDocuments(ctx, matchFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count billing documents: %w", err)
	}
	return n, nil
}

func (r *BillingDocumentRepo) CountBy(ctx context.Context, field string) (map[string]int64, error) {
	if !repository.GroupableField(field) {
		return nil, fmt.Errorf("count by %q: campo no agrupable", field)
	}
	pipeline := bson.A{
		bson.M{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count billing documents by %s: %w", field, err)
	}
	var groups []struct {
		Key   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decode groups: %w", err)
	}
	out := make(map[string]int64, len(groups))
	for _, g := range groups {
		out[g.Key] = g.Count
	}
	return out, nil
}

func (r *BillingDocumentRepo) SumTotalAmount(ctx context.Context, filter repository.BillingDocumentFilter) (decimal.Decimal, error) {
	pipeline := bson.A{
		bson.M{"$match": matchFilter(filter)},
		bson.M{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$total_amount"}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum billing documents: %w", err)
	}
	var results []struct {
		Total bson.Decimal128 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return decimal.Zero, fmt.Errorf("decode sum: %w", err)
	}
	if len(results) == 0 {
		return decimal.Zero, nil
	}
	return fromDecimal128(results[0].Total)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func matchFilter(f repository.BillingDocumentFilter) bson.M {
	m := bson.M{}
	if f.Status != "" {
		m["status"] = string(f.Status)
	}
	if f.BillingType != "" {
		m["billing_type"] = string(f.BillingType)
	}
	if f.DocumentNumber != "" {
		m["document_number"] = f.DocumentNumber
	}
	return m
}

// fieldValue valida el tipo esperado del campo y lo convierte a su forma BSON.
func fieldValue(field string, value any) (any, error) {
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
			if v == nil {
				return nil, nil
			}
			return *v, nil
		}
	case repository.FieldCustomerName, repository.FieldCustomerEmail, repository.FieldCustomerAddress, repository.FieldNotes:
		if v, ok := value.(*string); ok {
			if v == nil {
				return nil, nil
			}
			return *v, nil
		}
	case repository.FieldItems:
		if v, ok := value.([]entity.BillingItem); ok {
			return toItemModels(v)
		}
	case repository.FieldSubtotal, repository.FieldTotalTax, repository.FieldTotalAmount:
		if v, ok := value.(decimal.Decimal); ok {
			return toDecimal128(v)
		}
	default:
		return nil, fmt.Errorf("campo desconocido %q", field)
	}
	return nil, fmt.Errorf("campo %q: tipo inesperado %T", field, value)
}
