// Package xmldoc exporta documentos de facturación a XML y calcula el digest
// SHA-256 de su forma canónica (C14N), que viaja en el header X-Content-Digest.
package xmldoc

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	appbilling "github.com/jhoicas/billing-api/internal/application/billing"
	"github.com/jhoicas/billing-api/internal/domain/entity"
)

// Namespace del documento exportado.
const Namespace = "urn:billing-api:billing-document:1"

const dateLayout = "2006-01-02"

var _ appbilling.DocumentXMLExporter = (*Exporter)(nil)

// Exporter construye el XML con etree.
type Exporter struct{}

// NewExporter crea el servicio.
func NewExporter() *Exporter { return &Exporter{} }

// ExportDocumentXML genera el XML indentado y el digest hex de su forma canónica.
func (e *Exporter) ExportDocumentXML(doc *entity.BillingDocument) ([]byte, string, error) {
	if doc == nil {
		return nil, "", fmt.Errorf("xml: documento nil")
	}
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := out.CreateElement("BillingDocument")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("Id", doc.ID)

	root.CreateElement("DocumentNumber").SetText(doc.DocumentNumber)
	root.CreateElement("BillingType").SetText(string(doc.BillingType))
	root.CreateElement("Status").SetText(string(doc.Status))

	dates := root.CreateElement("Dates")
	dates.CreateElement("BillingDate").SetText(doc.BillingDate.Format(dateLayout))
	optionalDate(dates, "PricingDate", doc.PricingDate)
	optionalDate(dates, "ServiceRenderedDate", doc.ServiceRenderedDate)
	optionalDate(dates, "DueDate", doc.DueDate)

	if doc.CustomerName != nil || doc.CustomerEmail != nil || doc.CustomerAddress != nil {
		customer := root.CreateElement("Customer")
		optionalText(customer, "Name", doc.CustomerName)
		optionalText(customer, "Email", doc.CustomerEmail)
		optionalText(customer, "Address", doc.CustomerAddress)
	}

	items := root.CreateElement("Items")
	items.CreateAttr("count", fmt.Sprint(len(doc.Items)))
	for _, it := range doc.Items {
		item := items.CreateElement("Item")
		item.CreateAttr("Id", it.ID)
		item.CreateElement("Name").SetText(it.Name)
		optionalText(item, "Description", it.Description)
		item.CreateElement("Category").SetText(string(it.Category))
		amount(item, "Quantity", it.Quantity)
		amount(item, "UnitPrice", it.UnitPrice)
		amount(item, "TaxRate", it.TaxRate)
		amount(item, "TotalPrice", it.TotalPrice)
		amount(item, "TaxAmount", it.TaxAmount)
	}

	totals := root.CreateElement("Totals")
	amount(totals, "Subtotal", doc.Subtotal)
	amount(totals, "TotalTax", doc.TotalTax)
	amount(totals, "TotalAmount", doc.TotalAmount)

	optionalText(root, "Notes", doc.Notes)
	root.CreateElement("CreatedAt").SetText(doc.CreatedAt.UTC().Format(time.RFC3339Nano))
	root.CreateElement("UpdatedAt").SetText(doc.UpdatedAt.UTC().Format(time.RFC3339Nano))

	out.Indent(2)
	xmlBytes, err := out.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xml: serializar: %w", err)
	}
	digest, err := Digest(xmlBytes)
	if err != nil {
		return nil, "", err
	}
	return xmlBytes, digest, nil
}

// Digest devuelve el SHA-256 hex de la forma canónica (C14N) del XML.
func Digest(xmlBytes []byte) (string, error) {
	canonical, err := canonicalizeXML(xmlBytes)
	if err != nil {
		return "", fmt.Errorf("xml: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalizeXML descarta la declaración XML, que no forma parte de la forma canónica.
func canonicalizeXML(data []byte) ([]byte, error) {
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("<?xml")) {
		if end := bytes.Index(data, []byte("?>")); end >= 0 {
			data = bytes.TrimSpace(data[end+2:])
		}
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func optionalText(parent *etree.Element, tag string, v *string) {
	if v != nil {
		parent.CreateElement(tag).SetText(*v)
	}
}

func optionalDate(parent *etree.Element, tag string, v *time.Time) {
	if v != nil {
		parent.CreateElement(tag).SetText(v.Format(dateLayout))
	}
}

func amount(parent *etree.Element, tag string, v decimal.Decimal) {
	parent.CreateElement(tag).SetText(v.String())
}
