package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
)

type ReportServiceInterface interface {
	ExportRequests(ctx context.Context, filter dto.RequestFilterDTO) (*bytes.Buffer, string, error)
}

type ReportService struct {
	requestRepo repositories.RequestRepositoryInterface
	logger      *zap.Logger
}

func NewReportService(requestRepo repositories.RequestRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{requestRepo: requestRepo, logger: logger}
}

var reportHeaders = []string{"ID", "Тип", "Тема", "Статус", "Оборудование", "Категория", "Команда", "Техник", "Плановая дата", "Часы", "Просрочена", "Создана"}

// ExportRequests выгружает заявки в xlsx. Доступно только ADMIN и MANAGER.
func (s *ReportService) ExportRequests(ctx context.Context, filter dto.RequestFilterDTO) (*bytes.Buffer, string, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, "", err
	}
	if err := authz.RequireRole(principal, authz.RoleAdmin, authz.RoleManager); err != nil {
		return nil, "", err
	}

	requests, err := s.requestRepo.GetRequests(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("ReportService: ошибка закрытия файла", zap.Error(err))
		}
	}()

	const sheet = "Заявки"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", apperrors.ErrInternalServer
		}
	}

	for i := range requests {
		r := &requests[i]
		row := []interface{}{
			r.ID,
			r.Type,
			r.Subject,
			r.Status,
			r.EquipmentID,
			r.EquipmentCategory.String,
			r.TeamID,
			nullUint64Cell(r.TechnicianID),
			nullTimeCell(r.ScheduledDate),
			nullFloatCell(r.DurationHours),
			boolCell(r.IsOverdue),
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", apperrors.ErrInternalServer
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("ReportService: ошибка записи отчёта", zap.Error(err))
		return nil, "", apperrors.ErrInternalServer
	}

	filename := fmt.Sprintf("requests_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf, filename, nil
}

func nullUint64Cell(v null.Uint64) interface{} {
	if !v.Valid {
		return ""
	}
	return v.Uint64
}

func nullTimeCell(v null.Time) interface{} {
	if !v.Valid {
		return ""
	}
	return v.Time.Format("2006-01-02 15:04")
}

func nullFloatCell(v null.Float64) interface{} {
	if !v.Valid {
		return ""
	}
	return v.Float64
}

func boolCell(v bool) string {
	if v {
		return "да"
	}
	return "нет"
}
