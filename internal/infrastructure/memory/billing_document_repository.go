// Package memory implementa el store de documentos en memoria del proceso.
// Se usa con STORE_DRIVER=memory y como doble en los tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
)

var _ repository.BillingDocumentRepository = (*BillingDocumentRepo)(nil)

// BillingDocumentRepo guarda copias de los documentos; nunca entrega punteros internos.
// El orden de listado es el de inserción.
type BillingDocumentRepo struct {
	mu    sync.RWMutex
	docs  map[string]*entity.BillingDocument
	order []string
}

// NewBillingDocumentRepository construye un store vacío.
func NewBillingDocumentRepository() *BillingDocumentRepo {
	return &BillingDocumentRepo{docs: make(map[string]*entity.BillingDocument)}
}

func (r *BillingDocumentRepo) Insert(_ context.Context, doc *entity.BillingDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[doc.ID]; exists {
		return fmt.Errorf("documento %s: %w", doc.ID, domain.ErrDuplicate)
	}
	r.docs[doc.ID] = doc.Clone()
	r.order = append(r.order, doc.ID)
	return nil
}

func (r *BillingDocumentRepo) FindByID(_ context.Context, id string) (*entity.BillingDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	return doc.Clone(), nil
}

func (r *BillingDocumentRepo) FindMany(_ context.Context, filter repository.BillingDocumentFilter, limit int) ([]*entity.BillingDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*entity.BillingDocument, 0)
	for _, id := range r.order {
		if limit > 0 && len(list) >= limit {
			break
		}
		doc := r.docs[id]
		if matches(doc, filter) {
			list = append(list, doc.Clone())
		}
	}
	return list, nil
}

func (r *BillingDocumentRepo) UpdateFields(_ context.Context, id string, fields repository.Fields) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil
	}
	// Se aplica sobre una copia para que un campo inválido no deje el documento a medias.
	updated := doc.Clone()
	if err := repository.ApplyFields(updated, fields); err != nil {
		return fmt.Errorf("update billing document: %w", err)
	}
	r.docs[id] = updated
	return nil
}

func (r *BillingDocumentRepo) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return 0, nil
	}
	delete(r.docs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (r *BillingDocumentRepo) Count(_ context.Context, filter repository.BillingDocumentFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, doc := range r.docs {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (r *BillingDocumentRepo) CountBy(_ context.Context, field string) (map[string]int64, error) {
	if !repository.GroupableField(field) {
		return nil, fmt.Errorf("count by %q: campo no agrupable", field)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int64)
	for _, doc := range r.docs {
		key := string(doc.Status)
		if field == repository.FieldBillingType {
			key = string(doc.BillingType)
		}
		out[key]++
	}
	return out, nil
}

func (r *BillingDocumentRepo) SumTotalAmount(_ context.Context, filter repository.BillingDocumentFilter) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum := decimal.Zero
	for _, doc := range r.docs {
		if matches(doc, filter) {
			sum = sum.Add(doc.TotalAmount)
		}
	}
	return sum, nil
}

func matches(doc *entity.BillingDocument, f repository.BillingDocumentFilter) bool {
	if f.Status != "" && doc.Status != f.Status {
		return false
	}
	if f.BillingType != "" && doc.BillingType != f.BillingType {
		return false
	}
	if f.DocumentNumber != "" && doc.DocumentNumber != f.DocumentNumber {
		return false
	}
	return true
}
