package main

import (
	"context"

	"github.com/jhoicas/billing-api/internal/application/billing"
	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
	"github.com/jhoicas/billing-api/internal/infrastructure/spreadsheet"
)

type importError struct {
	Ref string
	Row int
	Err error
}

type importReport struct {
	Created int
	Errors  []importError
}

type importer struct {
	tx  billing.DocumentTxRunner
	cfg billing.DocumentConfig
}

func newImporter(tx billing.DocumentTxRunner, cfg billing.DocumentConfig) *importer {
	return &importer{tx: tx, cfg: cfg}
}

// run importa cada documento en su propia transacción. Un documento con error se
// reporta y no detiene el resto.
func (im *importer) run(ctx context.Context, docs []spreadsheet.ImportedDocument) importReport {
	var report importReport
	for _, d := range docs {
		err := im.tx.RunDocuments(ctx, func(repo repository.BillingDocumentRepository) error {
			return importOne(ctx, billing.NewDocumentUseCase(repo, im.cfg), d)
		})
		if err != nil {
			report.Errors = append(report.Errors, importError{Ref: d.Ref, Row: d.Row, Err: err})
			continue
		}
		report.Created++
	}
	return report
}

// importOne crea el documento, le agrega sus ítems en orden y aplica el estado leído.
func importOne(ctx context.Context, uc *billing.DocumentUseCase, d spreadsheet.ImportedDocument) error {
	created, err := uc.Create(ctx, d.Document)
	if err != nil {
		return err
	}
	for _, item := range d.Items {
		if _, err := uc.AddItem(ctx, created.ID, item); err != nil {
			return err
		}
	}
	if d.Status != "" && d.Status != string(entity.StatusDraft) {
		if _, err := uc.Update(ctx, created.ID, dto.UpdateBillingDocumentRequest{Status: dto.Some(d.Status)}); err != nil {
			return err
		}
	}
	return nil
}
