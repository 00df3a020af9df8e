package service

import (
	"context"
	"strings"

	"padelcourt/cmd/internal/domain/database/repository"
	"padelcourt/cmd/internal/export"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

type ExportQuery struct {
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	Format    string `query:"format"`
}

// ExportResult carries either Rows (json) or a rendered File.
type ExportResult struct {
	Format string
	Rows   []export.Row
	File   *export.File
}

type DefaultExportService struct {
	BookingRepo BookingRepository
}

func NewExportService(bookingRepo BookingRepository) *DefaultExportService {
	return &DefaultExportService{BookingRepo: bookingRepo}
}

func (e *DefaultExportService) ExportBookings(ctx context.Context, q *ExportQuery) (*ExportResult, apierror.ErrorResponse) {
	utils.Sanitize(q)
	format := strings.ToLower(q.Format)
	if format == "" {
		format = export.FormatJSON
	}
	if !export.ValidFormat(format) {
		return nil, apierror.ExportFormatError
	}

	filter := repository.BookingFilter{}
	var err error
	if q.StartDate != "" {
		if filter.From, err = utils.ParseDate(q.StartDate); err != nil {
			return nil, apierror.NewInvalidParamError("startDate", "expected YYYY-MM-DD")
		}
	}
	if q.EndDate != "" {
		if filter.To, err = utils.ParseDate(q.EndDate); err != nil {
			return nil, apierror.NewInvalidParamError("endDate", "expected YYYY-MM-DD")
		}
	}
	if filter.From != "" && filter.To != "" && filter.From > filter.To {
		return nil, apierror.ExportDateRangeError
	}

	bookings, err := e.BookingRepo.FindNewestFirst(ctx, filter)
	if err != nil {
		log.Errorf("failed to fetch bookings for export: %v", err)
		return nil, apierror.InternalServerError
	}

	result := &ExportResult{Format: format, Rows: export.Rows(bookings)}
	if format == export.FormatJSON {
		return result, nil
	}

	result.File, err = export.Render(format, result.Rows, utils.NowUTC())
	if err != nil {
		log.Errorf("failed to render %s export: %v", format, err)
		return nil, apierror.InternalServerError
	}
	return result, nil
}
