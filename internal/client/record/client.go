package record

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

const pdfTimeout = 30 * time.Second

// Client issues medical-record calls on the stable self-service family.
type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) List(ctx context.Context, params model.ListMedicalRecordsParams) (*model.ListMedicalRecordsResult, error) {
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
	if params.DateFrom != "" {
		query.Set("dateFrom", params.DateFrom)
	}
	if params.DateTo != "" {
		query.Set("dateTo", params.DateTo)
	}

	var raw json.RawMessage
	if err := c.api.Get(ctx, "/me/medical-records", query, &raw); err != nil {
		return nil, err
	}

	data, total, err := listshape.Normalize[model.MedicalRecord](raw)
	if err != nil {
		return nil, err
	}
	return &model.ListMedicalRecordsResult{Data: data, Total: total}, nil
}

func (c *Client) Detail(ctx context.Context, id int64) (*model.MedicalRecordDetail, error) {
	var detail model.MedicalRecordDetail
	if err := c.api.Get(ctx, fmt.Sprintf("/me/medical-records/%d", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) Attachments(ctx context.Context, id int64) (*model.ListAttachmentsResult, error) {
	var result model.ListAttachmentsResult
	if err := c.api.Get(ctx, fmt.Sprintf("/me/medical-records/%d/attachments", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadAttachment fetches one attachment's bytes. This is the one call
// that does not go through the self-service family: the download route is
// authorized by record ownership on the generic path. Keep it that way.
func (c *Client) DownloadAttachment(ctx context.Context, recordID, attachmentID int64) ([]byte, error) {
	return c.api.GetBinary(ctx, fmt.Sprintf("/medical-records/%d/attachments/%d/download", recordID, attachmentID))
}

// PDFURL returns the absolute export URL for handing to an external viewer.
func (c *Client) PDFURL(id int64) string {
	return fmt.Sprintf("%s/me/medical-records/%d/export.pdf", c.api.BaseURL(), id)
}

func (c *Client) ExportPDF(ctx context.Context, id int64) ([]byte, error) {
	return c.api.GetBinary(ctx, fmt.Sprintf("/me/medical-records/%d/export.pdf", id),
		api.WithAccept("application/pdf"), api.WithTimeout(pdfTimeout))
}
