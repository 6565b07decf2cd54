package http_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Rutas de servicio
// ──────────────────────────────────────────────────────────────────────────────

func TestBanner(t *testing.T) {
	app := buildTestApp(t, nil)
	r := do(t, app, http.MethodGet, "/api/", "")

	assert.Equal(t, http.StatusOK, r.resp.StatusCode)
	assert.Equal(t, "Billing System API", r.object(t)["message"])
}

func TestHealth(t *testing.T) {
	app := buildTestApp(t, nil)
	r := do(t, app, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, r.resp.StatusCode)
	body := r.object(t)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["store"])
}

func TestRutaInexistente_Retorna404(t *testing.T) {
	app := buildTestApp(t, nil)
	r := do(t, app, http.MethodGet, "/no-existe", "")

	assert.Equal(t, http.StatusNotFound, r.resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", r.object(t)["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos e ítems
// ──────────────────────────────────────────────────────────────────────────────

func TestCrear_DevuelveDocumentoEnDraft(t *testing.T) {
	app := buildTestApp(t, nil)
	r := do(t, app, http.MethodPost, "/api/billing-documents",
		`{"billing_type":"Receipt","billing_date":"2024-05-10T15:04:05Z","notes":"n"}`)

	require.Equal(t, http.StatusCreated, r.resp.StatusCode, "cuerpo: %s", r.raw)
	body := r.object(t)
	assert.Equal(t, "Draft", body["status"])
	assert.Equal(t, "2024-05-10", body["billing_date"], "RFC 3339 se trunca a la fecha")
	assert.Regexp(t, `^RCT-\d{14}$`, body["document_number"])
	assert.Equal(t, float64(0), body["total_amount"], "los montos viajan como número JSON")
	assert.Equal(t, []any{}, body["items"])
	assert.Nil(t, body["customer_name"])
}

func TestCrear_TipoInvalido_Retorna400(t *testing.T) {
	app := buildTestApp(t, nil)
	r := do(t, app, http.MethodPost, "/api/billing-documents",
		`{"billing_type":"Factura","billing_date":"2024-05-10"}`)

	assert.Equal(t, http.StatusBadRequest, r.resp.StatusCode)
	body := r.object(t)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Equal(t, "billing_type", body["field"])
}

func TestCrear_JSONMalformado_Retorna400(t *testing.T) {
	app := buildTestApp(t, nil)
	r := do(t, app, http.MethodPost, "/api/billing-documents", `{"billing_type":`)

	assert.Equal(t, http.StatusBadRequest, r.resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", r.object(t)["code"])
}

func TestFlujoCompletoDeItems(t *testing.T) {
	app := buildTestApp(t, nil)
	id := createDocument(t, app)
	base := "/api/billing-documents/" + id

	r := do(t, app, http.MethodPost, base+"/items",
		`{"item_name":"Consultoría","category":"Service","quantity":2,"unit_price":100,"tax_rate":10}`)
	require.Equal(t, http.StatusOK, r.resp.StatusCode, "cuerpo: %s", r.raw)
	body := r.object(t)
	assert.Equal(t, float64(220), body["total_amount"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	itemID := items[0].(map[string]any)["id"].(string)

	r = do(t, app, http.MethodPut, base+"/items/"+itemID, `{"quantity":3,"unit_price":75}`)
	require.Equal(t, http.StatusOK, r.resp.StatusCode, "cuerpo: %s", r.raw)
	body = r.object(t)
	assert.Equal(t, float64(225), body["subtotal"])
	assert.Equal(t, 22.5, body["total_tax"])
	assert.Equal(t, 247.5, body["total_amount"])

	r = do(t, app, http.MethodPut, base+"/items/"+itemID, `{"quantity":null}`)
	assert.Equal(t, http.StatusBadRequest, r.resp.StatusCode, "null en campo requerido")

	r = do(t, app, http.MethodPut, base+"/items/no-existe", `{"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, r.resp.StatusCode)

	r = do(t, app, http.MethodDelete, base+"/items/"+itemID, "")
	require.Equal(t, http.StatusOK, r.resp.StatusCode)
	body = r.object(t)
	assert.Equal(t, float64(0), body["total_amount"])
	assert.Empty(t, body["items"])
}

func TestActualizar_NullLimpiaOpcionales(t *testing.T) {
	app := buildTestApp(t, nil)
	id := createDocument(t, app)

	r := do(t, app, http.MethodPut, "/api/billing-documents/"+id,
		`{"customer_name":null,"status":"Pending","due_date":"2024-06-01"}`)

	require.Equal(t, http.StatusOK, r.resp.StatusCode, "cuerpo: %s", r.raw)
	body := r.object(t)
	assert.Nil(t, body["customer_name"])
	assert.Equal(t, "Pending", body["status"])
	assert.Equal(t, "2024-06-01", body["due_date"])
	assert.Equal(t, "Standard invoice", body["billing_type"], "campo ausente no cambia")
}

func TestActualizar_StatusNull_Retorna400(t *testing.T) {
	app := buildTestApp(t, nil)
	id := createDocument(t, app)

	r := do(t, app, http.MethodPut, "/api/billing-documents/"+id, `{"status":null}`)

	assert.Equal(t, http.StatusBadRequest, r.resp.StatusCode)
	assert.Equal(t, "status", r.object(t)["field"])
}

func TestListar_FiltrosYLimite(t *testing.T) {
	app := buildTestApp(t, nil)
	createDocument(t, app)
	createDocument(t, app)
	do(t, app, http.MethodPost, "/api/billing-documents", `{"billing_type":"Receipt","billing_date":"2024-05-10"}`)

	var all []map[string]any
	do(t, app, http.MethodGet, "/api/billing-documents", "").decode(t, &all)
	assert.Len(t, all, 3)

	var receipts []map[string]any
	do(t, app, http.MethodGet, "/api/billing-documents?billing_type=Receipt", "").decode(t, &receipts)
	require.Len(t, receipts, 1)
	assert.Equal(t, "Receipt", receipts[0]["billing_type"])

	var limited []map[string]any
	do(t, app, http.MethodGet, "/api/billing-documents?limit=2", "").decode(t, &limited)
	assert.Len(t, limited, 2)

	r := do(t, app, http.MethodGet, "/api/billing-documents?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, r.resp.StatusCode)

	r = do(t, app, http.MethodGet, "/api/billing-documents?status=Borrador", "")
	assert.Equal(t, http.StatusBadRequest, r.resp.StatusCode)
}

func TestEliminar(t *testing.T) {
	app := buildTestApp(t, nil)
	id := createDocument(t, app)

	r := do(t, app, http.MethodDelete, "/api/billing-documents/"+id, "")
	require.Equal(t, http.StatusOK, r.resp.StatusCode)
	assert.Equal(t, "Document deleted successfully", r.object(t)["message"])

	r = do(t, app, http.MethodGet, "/api/billing-documents/"+id, "")
	assert.Equal(t, http.StatusNotFound, r.resp.StatusCode)

	r = do(t, app, http.MethodDelete, "/api/billing-documents/"+id, "")
	assert.Equal(t, http.StatusNotFound, r.resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_Stats(t *testing.T) {
	app := buildTestApp(t, nil)
	id := createDocument(t, app)
	do(t, app, http.MethodPost, "/api/billing-documents/"+id+"/items", `{"item_name":"A","quantity":1,"unit_price":100,"tax_rate":10}`)
	do(t, app, http.MethodPut, "/api/billing-documents/"+id, `{"status":"Completed"}`)
	createDocument(t, app)

	r := do(t, app, http.MethodGet, "/api/dashboard/stats", "")
	require.Equal(t, http.StatusOK, r.resp.StatusCode)
	body := r.object(t)

	assert.Equal(t, float64(2), body["total_documents"])
	assert.Equal(t, float64(110), body["total_amount"])
	statuses := body["status_counts"].(map[string]any)
	assert.Len(t, statuses, 5)
	assert.Equal(t, float64(1), statuses["Completed"])
	assert.Equal(t, float64(1), statuses["Draft"])
	assert.Equal(t, float64(0), statuses["Cancelled"])
	types := body["type_counts"].(map[string]any)
	assert.Equal(t, float64(2), types["Standard invoice"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestExportaciones(t *testing.T) {
	app := buildTestApp(t, nil)
	id := createDocument(t, app)

	r := do(t, app, http.MethodGet, "/api/billing-documents/"+id+"/pdf", "")
	require.Equal(t, http.StatusOK, r.resp.StatusCode)
	assert.Equal(t, "application/pdf", r.resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(r.raw, []byte("%PDF")))

	r = do(t, app, http.MethodGet, "/api/billing-documents/"+id+"/xml", "")
	require.Equal(t, http.StatusOK, r.resp.StatusCode)
	assert.Regexp(t, `^sha-256=[0-9a-f]{64}$`, r.resp.Header.Get("X-Content-Digest"))
	assert.Contains(t, string(r.raw), "<BillingDocument")

	r = do(t, app, http.MethodGet, "/api/billing-documents/export.xlsx", "")
	require.Equal(t, http.StatusOK, r.resp.StatusCode, "export.xlsx no debe resolverse como /:id")
	assert.Contains(t, r.resp.Header.Get("Content-Disposition"), "billing-documents-")
	assert.True(t, bytes.HasPrefix(r.raw, []byte("PK")), "un XLSX es un ZIP")

	r = do(t, app, http.MethodGet, "/api/billing-documents/no-existe/pdf", "")
	assert.Equal(t, http.StatusNotFound, r.resp.StatusCode)
}
