package query

import (
	"context"

	"github.com/nguyenthanhduc0901/clinic-app/internal/model"
)

func (q *Queries) ListInvoices(ctx context.Context, params model.ListInvoicesParams) (*model.ListInvoicesResult, error) {
	key := NewKey(ResourceInvoices, OpList, params)
	var result model.ListInvoicesResult
	err := q.cache.Do(ctx, key, ResourceInvoices, q.cfg.ListStaleness, &result, func(ctx context.Context) (interface{}, error) {
		return q.invoices.List(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (q *Queries) RefetchInvoices(ctx context.Context, params model.ListInvoicesParams) (*model.ListInvoicesResult, error) {
	q.cache.Invalidate(NewKey(ResourceInvoices, OpList, params).String())
	return q.ListInvoices(ctx, params)
}

func (q *Queries) InvoiceDetail(ctx context.Context, id int64) (*model.InvoiceDetail, error) {
	key := DetailKey(ResourceInvoices, OpDetail, id)
	var detail model.InvoiceDetail
	err := q.cache.Do(ctx, key, ResourceInvoices, q.cfg.ListStaleness, &detail, func(ctx context.Context) (interface{}, error) {
		return q.invoices.Detail(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (q *Queries) InvoiceByMedicalRecord(ctx context.Context, recordID int64) (*model.Invoice, error) {
	key := DetailKey(ResourceInvoices, OpByRecord, recordID)
	var inv model.Invoice
	err := q.cache.Do(ctx, key, ResourceInvoices, q.cfg.ListStaleness, &inv, func(ctx context.Context) (interface{}, error) {
		return q.invoices.ByMedicalRecord(ctx, recordID)
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ExportInvoicePDF is uncached: the payload is binary and single-use.
func (q *Queries) ExportInvoicePDF(ctx context.Context, id int64) ([]byte, error) {
	return q.invoices.ExportPDF(ctx, id)
}

func (q *Queries) InvoicePDFURL(id int64) string {
	return q.invoices.PDFURL(id)
}
