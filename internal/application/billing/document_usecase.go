package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain"
	domainbilling "github.com/jhoicas/billing-api/internal/domain/billing"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
)

// DocumentConfig opciones del ciclo de vida de documentos.
type DocumentConfig struct {
	DefaultListLimit int              // 0 = dto.DefaultListLimit
	StrictStatus     bool             // aplica la tabla de transiciones de estado
	SerializeWrites  bool             // serializa mutaciones por documento dentro del proceso
	Now              func() time.Time // reloj; nil = time.Now
	Logger           zerolog.Logger   // valor cero = sin logs
}

// DocumentUseCase orquesta creación, parches, operaciones sobre ítems y borrado.
// Tras cada mutación de ítems recalcula la línea y los totales del documento y
// refresca updated_at. Leer y escribir son dos operaciones del store: sin
// SerializeWrites, dos escrituras concurrentes sobre el mismo documento resuelven
// con "gana el último".
type DocumentUseCase struct {
	repo         repository.BillingDocumentRepository
	statusPolicy domainbilling.StatusPolicy
	locks        *documentLocks
	listLimit    int
	now          func() time.Time
	log          zerolog.Logger
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(repo repository.BillingDocumentRepository, cfg DocumentConfig) *DocumentUseCase {
	uc := &DocumentUseCase{
		repo:         repo,
		statusPolicy: domainbilling.FreeStatusPolicy{},
		listLimit:    cfg.DefaultListLimit,
		now:          cfg.Now,
		log:          cfg.Logger,
	}
	if cfg.StrictStatus {
		uc.statusPolicy = domainbilling.StrictStatusPolicy{}
	}
	if cfg.SerializeWrites {
		uc.locks = newDocumentLocks()
	}
	if uc.listLimit <= 0 {
		uc.listLimit = dto.DefaultListLimit
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// timestamp instante de la mutación, en UTC y truncado a milisegundos (precisión común de los stores).
func (uc *DocumentUseCase) timestamp() (local, utc time.Time) {
	local = uc.now()
	return local, local.UTC().Truncate(time.Millisecond)
}

// Create crea un documento en Draft, sin ítems y con totales en cero.
func (uc *DocumentUseCase) Create(ctx context.Context, in dto.CreateBillingDocumentRequest) (*dto.BillingDocumentResponse, error) {
	billingType, err := parseBillingType("billing_type", in.BillingType)
	if err != nil {
		return nil, err
	}
	billingDate, err := parseDate("billing_date", in.BillingDate)
	if err != nil {
		return nil, err
	}
	pricingDate, err := parseOptionalDate("pricing_date", in.PricingDate)
	if err != nil {
		return nil, err
	}
	serviceDate, err := parseOptionalDate("service_rendered_date", in.ServiceRenderedDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseOptionalDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}

	local, now := uc.timestamp()
	doc := &entity.BillingDocument{
		ID:                  uuid.New().String(),
		DocumentNumber:      domainbilling.DocumentNumber(billingType, local),
		BillingType:         billingType,
		BillingDate:         billingDate,
		PricingDate:         pricingDate,
		ServiceRenderedDate: serviceDate,
		DueDate:             dueDate,
		CustomerName:        in.CustomerName,
		CustomerEmail:       in.CustomerEmail,
		CustomerAddress:     in.CustomerAddress,
		Items:               []entity.BillingItem{},
		Status:              entity.StatusDraft,
		CreatedAt:           now,
		UpdatedAt:           now,
		Notes:               in.Notes,
	}
	domainbilling.ApplyTotals(doc)

	uc.warnNumberCollision(ctx, doc)
	if err := uc.repo.Insert(ctx, doc); err != nil {
		return nil, domain.Internal("insertar documento", err)
	}
	return toDocumentResponse(doc), nil
}

// warnNumberCollision registra un aviso si el número ya fue asignado a otro documento
// (mismo tipo creado en el mismo segundo). El documento se crea igual.
func (uc *DocumentUseCase) warnNumberCollision(ctx context.Context, doc *entity.BillingDocument) {
	n, err := uc.repo.Count(ctx, repository.BillingDocumentFilter{DocumentNumber: doc.DocumentNumber})
	if err != nil {
		uc.log.Debug().Err(err).Str("document_number", doc.DocumentNumber).Msg("no se pudo verificar el número de documento")
		return
	}
	if n > 0 {
		uc.log.Warn().
			Str("document_number", doc.DocumentNumber).
			Str("id", doc.ID).
			Int64("existentes", n).
			Msg("número de documento repetido")
	}
}

// Get obtiene un documento por ID.
func (uc *DocumentUseCase) Get(ctx context.Context, id string) (*dto.BillingDocumentResponse, error) {
	doc, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// List lista documentos filtrando opcionalmente por estado y tipo, truncado a limit (100 por defecto).
func (uc *DocumentUseCase) List(ctx context.Context, q dto.ListBillingDocumentsQuery) ([]*dto.BillingDocumentResponse, error) {
	filter, err := parseFilter(q)
	if err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = uc.listLimit
	}
	list, err := uc.repo.FindMany(ctx, filter, limit)
	if err != nil {
		return nil, domain.Internal("listar documentos", err)
	}
	out := make([]*dto.BillingDocumentResponse, 0, len(list))
	for _, doc := range list {
		out = append(out, toDocumentResponse(doc))
	}
	return out, nil
}

// Update aplica un parche parcial a la cabecera. Ítems y totales no se tocan.
func (uc *DocumentUseCase) Update(ctx context.Context, id string, in dto.UpdateBillingDocumentRequest) (*dto.BillingDocumentResponse, error) {
	fields, err := documentChanges(in)
	if err != nil {
		return nil, err
	}

	unlock := uc.locks.lock(id)
	defer unlock()

	doc, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if status, ok := fields[repository.FieldStatus].(entity.DocumentStatus); ok {
		if err := domainbilling.CheckTransition(uc.statusPolicy, doc.Status, status); err != nil {
			return nil, err
		}
	}

	_, now := uc.timestamp()
	fields[repository.FieldUpdatedAt] = now
	if err := uc.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, domain.Internal("actualizar documento", err)
	}
	if err := repository.ApplyFields(doc, fields); err != nil {
		return nil, domain.Internal("actualizar documento", err)
	}
	return toDocumentResponse(doc), nil
}

// AddItem agrega una línea al final del documento y recalcula totales.
func (uc *DocumentUseCase) AddItem(ctx context.Context, documentID string, in dto.AddBillingItemRequest) (*dto.BillingDocumentResponse, error) {
	item, err := newItem(in)
	if err != nil {
		return nil, err
	}

	unlock := uc.locks.lock(documentID)
	defer unlock()

	doc, err := uc.find(ctx, documentID)
	if err != nil {
		return nil, err
	}
	doc.Items = append(doc.Items, item)
	return uc.saveItems(ctx, doc, "agregar ítem")
}

// UpdateItem aplica un parche parcial a la línea y recalcula línea y documento.
func (uc *DocumentUseCase) UpdateItem(ctx context.Context, documentID, itemID string, in dto.UpdateBillingItemRequest) (*dto.BillingDocumentResponse, error) {
	if err := validateItemChanges(in); err != nil {
		return nil, err
	}

	unlock := uc.locks.lock(documentID)
	defer unlock()

	doc, err := uc.find(ctx, documentID)
	if err != nil {
		return nil, err
	}
	idx := doc.ItemIndex(itemID)
	if idx < 0 {
		return nil, domain.ErrItemNotFound
	}
	applyItemChanges(&doc.Items[idx], in)
	domainbilling.ApplyItem(&doc.Items[idx])
	return uc.saveItems(ctx, doc, "actualizar ítem")
}

// RemoveItem elimina la línea indicada y recalcula totales.
func (uc *DocumentUseCase) RemoveItem(ctx context.Context, documentID, itemID string) (*dto.BillingDocumentResponse, error) {
	unlock := uc.locks.lock(documentID)
	defer unlock()

	doc, err := uc.find(ctx, documentID)
	if err != nil {
		return nil, err
	}
	idx := doc.ItemIndex(itemID)
	if idx < 0 {
		return nil, domain.ErrItemNotFound
	}
	doc.Items = append(doc.Items[:idx], doc.Items[idx+1:]...)
	return uc.saveItems(ctx, doc, "eliminar ítem")
}

// Delete elimina el documento y, con él, sus ítems.
func (uc *DocumentUseCase) Delete(ctx context.Context, id string) (*dto.MessageResponse, error) {
	unlock := uc.locks.lock(id)
	defer unlock()

	if _, err := uc.find(ctx, id); err != nil {
		return nil, err
	}
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, domain.Internal("eliminar documento", err)
	}
	if deleted == 0 {
		return nil, domain.ErrDocumentNotFound
	}
	return &dto.MessageResponse{Message: "Document deleted successfully"}, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (uc *DocumentUseCase) find(ctx context.Context, id string) (*entity.BillingDocument, error) {
	doc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("obtener documento", err)
	}
	if doc == nil {
		return nil, domain.ErrDocumentNotFound
	}
	return doc, nil
}

// saveItems recalcula los totales desde la secuencia completa y persiste ítems, totales y updated_at.
func (uc *DocumentUseCase) saveItems(ctx context.Context, doc *entity.BillingDocument, op string) (*dto.BillingDocumentResponse, error) {
	domainbilling.ApplyTotals(doc)
	_, doc.UpdatedAt = uc.timestamp()

	fields := repository.Fields{
		repository.FieldItems:       doc.Items,
		repository.FieldSubtotal:    doc.Subtotal,
		repository.FieldTotalTax:    doc.TotalTax,
		repository.FieldTotalAmount: doc.TotalAmount,
		repository.FieldUpdatedAt:   doc.UpdatedAt,
	}
	if err := uc.repo.UpdateFields(ctx, doc.ID, fields); err != nil {
		return nil, domain.Internal(op, err)
	}
	return toDocumentResponse(doc), nil
}

func parseFilter(q dto.ListBillingDocumentsQuery) (repository.BillingDocumentFilter, error) {
	var f repository.BillingDocumentFilter
	if q.Status != "" {
		st, err := parseStatus("status", q.Status)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	if q.BillingType != "" {
		t, err := parseBillingType("billing_type", q.BillingType)
		if err != nil {
			return f, err
		}
		f.BillingType = t
	}
	return f, nil
}

// documentChanges traduce el parche del cliente a campos del store.
// null en un campo requerido es un error de validación; en uno opcional lo limpia.
func documentChanges(in dto.UpdateBillingDocumentRequest) (repository.Fields, error) {
	fields := repository.Fields{}

	if in.BillingType.Set {
		if in.BillingType.Null {
			return nil, domain.NewValidationError("billing_type", "no puede ser null")
		}
		t, err := parseBillingType("billing_type", in.BillingType.Value)
		if err != nil {
			return nil, err
		}
		fields[repository.FieldBillingType] = t
	}
	if in.BillingDate.Set {
		if in.BillingDate.Null {
			return nil, domain.NewValidationError("billing_date", "no puede ser null")
		}
		date, err := parseDate("billing_date", in.BillingDate.Value)
		if err != nil {
			return nil, err
		}
		fields[repository.FieldBillingDate] = date
	}
	if in.Status.Set {
		if in.Status.Null {
			return nil, domain.NewValidationError("status", "no puede ser null")
		}
		st, err := parseStatus("status", in.Status.Value)
		if err != nil {
			return nil, err
		}
		fields[repository.FieldStatus] = st
	}

	optionalDates := []struct {
		field string
		value dto.Optional[string]
	}{
		{repository.FieldPricingDate, in.PricingDate},
		{repository.FieldServiceRenderedDate, in.ServiceRenderedDate},
		{repository.FieldDueDate, in.DueDate},
	}
	for _, od := range optionalDates {
		if !od.value.Set {
			continue
		}
		date, err := parseOptionalDate(od.field, od.value.Ptr())
		if err != nil {
			return nil, err
		}
		fields[od.field] = date
	}

	optionalStrings := []struct {
		field string
		value dto.Optional[string]
	}{
		{repository.FieldCustomerName, in.CustomerName},
		{repository.FieldCustomerEmail, in.CustomerEmail},
		{repository.FieldCustomerAddress, in.CustomerAddress},
		{repository.FieldNotes, in.Notes},
	}
	for _, opt := range optionalStrings {
		if opt.value.Set {
			fields[opt.field] = opt.value.Ptr()
		}
	}
	return fields, nil
}

func newItem(in dto.AddBillingItemRequest) (entity.BillingItem, error) {
	name, err := requiredName("item_name", in.ItemName)
	if err != nil {
		return entity.BillingItem{}, err
	}
	category, err := parseCategory("category", in.Category)
	if err != nil {
		return entity.BillingItem{}, err
	}
	item := entity.BillingItem{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Category:    category,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.Zero,
		TaxRate:     decimal.Zero,
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.UnitPrice != nil {
		item.UnitPrice = *in.UnitPrice
	}
	if in.TaxRate != nil {
		item.TaxRate = *in.TaxRate
	}
	if err := validateAmounts(item.Quantity, item.UnitPrice, item.TaxRate); err != nil {
		return entity.BillingItem{}, err
	}
	domainbilling.ApplyItem(&item)
	return item, nil
}

func validateAmounts(quantity, unitPrice, taxRate decimal.Decimal) error {
	if err := nonNegative("quantity", quantity); err != nil {
		return err
	}
	if err := nonNegative("unit_price", unitPrice); err != nil {
		return err
	}
	return nonNegative("tax_rate", taxRate)
}

func validateItemChanges(in dto.UpdateBillingItemRequest) error {
	if in.ItemName.Set {
		if in.ItemName.Null {
			return domain.NewValidationError("item_name", "no puede ser null")
		}
		if _, err := requiredName("item_name", in.ItemName.Value); err != nil {
			return err
		}
	}
	if in.Category.Set {
		if in.Category.Null {
			return domain.NewValidationError("category", "no puede ser null")
		}
		if _, err := parseCategory("category", in.Category.Value); err != nil {
			return err
		}
	}
	amounts := []struct {
		field string
		value dto.Optional[decimal.Decimal]
	}{
		{"quantity", in.Quantity},
		{"unit_price", in.UnitPrice},
		{"tax_rate", in.TaxRate},
	}
	for _, a := range amounts {
		if !a.value.Set {
			continue
		}
		if a.value.Null {
			return domain.NewValidationError(a.field, "no puede ser null")
		}
		if err := nonNegative(a.field, a.value.Value); err != nil {
			return err
		}
	}
	return nil
}

// applyItemChanges asume que validateItemChanges ya aceptó el parche.
func applyItemChanges(item *entity.BillingItem, in dto.UpdateBillingItemRequest) {
	if in.ItemName.Set {
		item.Name = in.ItemName.Value
	}
	if in.Description.Set {
		item.Description = in.Description.Ptr()
	}
	if in.Category.Set {
		item.Category, _ = parseCategory("category", in.Category.Value)
	}
	if in.Quantity.Set {
		item.Quantity = in.Quantity.Value
	}
	if in.UnitPrice.Set {
		item.UnitPrice = in.UnitPrice.Value
	}
	if in.TaxRate.Set {
		item.TaxRate = in.TaxRate.Value
	}
}
