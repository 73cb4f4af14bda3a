package invoice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/nguyenthanhduc0901/clinic-app/internal/api"
	"github.com/nguyenthanhduc0901/clinic-app/internal/client/listshape"
	"github.com/nguyenthanhduc0901/clinic-app/internal/model"
)

// pdfTimeout bounds server-side PDF generation; exports are synchronous
// request/response, not background jobs.
const pdfTimeout = 30 * time.Second

// Client issues invoice calls. All invoice endpoints live on the stable
// self-service family, so no fallback logic exists here.
type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) List(ctx context.Context, params model.ListInvoicesParams) (*model.ListInvoicesResult, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Status != "" {
		query.Set("status", string(params.Status))
	}
	if params.Date != "" {
		query.Set("date", params.Date)
	}

	var raw json.RawMessage
	if err := c.api.Get(ctx, "/me/invoices", query, &raw); err != nil {
		return nil, err
	}

	data, total, err := listshape.Normalize[model.Invoice](raw)
	if err != nil {
		return nil, err
	}
	return &model.ListInvoicesResult{Data: data, Total: total}, nil
}

func (c *Client) Detail(ctx context.Context, id int64) (*model.InvoiceDetail, error) {
	var detail model.InvoiceDetail
	if err := c.api.Get(ctx, fmt.Sprintf("/me/invoices/%d", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) ByMedicalRecord(ctx context.Context, recordID int64) (*model.Invoice, error) {
	var inv model.Invoice
	if err := c.api.Get(ctx, fmt.Sprintf("/me/invoices/by-medical-record/%d", recordID), nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// PDFURL returns the absolute export URL for handing to an external viewer.
func (c *Client) PDFURL(id int64) string {
	return fmt.Sprintf("%s/me/invoices/%d/export.pdf", c.api.BaseURL(), id)
}

// ExportPDF downloads the rendered invoice. An empty body fails even when
// the transport succeeded.
func (c *Client) ExportPDF(ctx context.Context, id int64) ([]byte, error) {
	return c.api.GetBinary(ctx, fmt.Sprintf("/me/invoices/%d/export.pdf", id),
		api.WithAccept("application/pdf"), api.WithTimeout(pdfTimeout))
}
