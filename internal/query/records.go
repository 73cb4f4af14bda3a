package query

import (
	"context"

	"github.com/nguyenthanhduc0901/clinic-app/internal/model"
)

func (q *Queries) ListMedicalRecords(ctx context.Context, params model.ListMedicalRecordsParams) (*model.ListMedicalRecordsResult, error) {
	key := NewKey(ResourceRecords, OpList, params)
	var result model.ListMedicalRecordsResult
	err := q.cache.Do(ctx, key, ResourceRecords, q.cfg.ListStaleness, &result, func(ctx context.Context) (interface{}, error) {
		return q.records.List(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (q *Queries) RefetchMedicalRecords(ctx context.Context, params model.ListMedicalRecordsParams) (*model.ListMedicalRecordsResult, error) {
	q.cache.Invalidate(NewKey(ResourceRecords, OpList, params).String())
	return q.ListMedicalRecords(ctx, params)
}

func (q *Queries) MedicalRecordDetail(ctx context.Context, id int64) (*model.MedicalRecordDetail, error) {
	key := DetailKey(ResourceRecords, OpDetail, id)
	var detail model.MedicalRecordDetail
	err := q.cache.Do(ctx, key, ResourceRecords, q.cfg.ListStaleness, &detail, func(ctx context.Context) (interface{}, error) {
		return q.records.Detail(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (q *Queries) MedicalRecordAttachments(ctx context.Context, recordID int64) (*model.ListAttachmentsResult, error) {
	key := DetailKey(ResourceRecords, OpAttachments, recordID)
	var result model.ListAttachmentsResult
	err := q.cache.Do(ctx, key, ResourceRecords, q.cfg.ListStaleness, &result, func(ctx context.Context) (interface{}, error) {
		return q.records.Attachments(ctx, recordID)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Binary operations are uncached.

func (q *Queries) DownloadAttachment(ctx context.Context, recordID, attachmentID int64) ([]byte, error) {
	return q.records.DownloadAttachment(ctx, recordID, attachmentID)
}

func (q *Queries) ExportMedicalRecordPDF(ctx context.Context, id int64) ([]byte, error) {
	return q.records.ExportPDF(ctx, id)
}

func (q *Queries) MedicalRecordPDFURL(id int64) string {
	return q.records.PDFURL(id)
}
