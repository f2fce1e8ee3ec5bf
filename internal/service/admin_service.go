package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"stayhub/internal/domain"
	"stayhub/internal/models"
)

// AdminService backs the admin dashboard: aggregate stats, booking
// exports, and on-demand database backups.
type AdminService struct {
	stats      domain.StatsStore
	bookings   domain.BookingStore
	properties domain.PropertyStore
	backuper   domain.Backuper
	exportPath string
	logger     *zerolog.Logger
}

func NewAdminService(stats domain.StatsStore, bookings domain.BookingStore, properties domain.PropertyStore, backuper domain.Backuper, exportPath string, logger *zerolog.Logger) *AdminService {
	return &AdminService{
		stats:      stats,
		bookings:   bookings,
		properties: properties,
		backuper:   backuper,
		exportPath: exportPath,
		logger:     logger,
	}
}

func (s *AdminService) GetDashboardStats(ctx context.Context, id models.Identity) (*models.DashboardStats, error) {
	if !id.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.stats.GetDashboardStats(ctx)
}

func (s *AdminService) GetTopProperties(ctx context.Context, id models.Identity, limit int) ([]*models.Property, error) {
	if !id.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.properties.GetTopProperties(ctx, limit)
}

func (s *AdminService) GetRecentBookings(ctx context.Context, id models.Identity, limit int) ([]*models.Booking, error) {
	if !id.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.bookings.GetRecentBookings(ctx, limit)
}

// ExportBookings writes all bookings intersecting the period to an
// XLSX file and returns its path.
func (s *AdminService) ExportBookings(ctx context.Context, id models.Identity, start, end time.Time) (string, error) {
	if !id.IsAdmin() {
		return "", ErrForbidden
	}

	if err := os.MkdirAll(s.exportPath, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	bookings, err := s.bookings.GetBookingsByDateRange(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Period: %s - %s",
		start.Format(models.DateLayout), end.Format(models.DateLayout)))

	headers := []string{
		"ID", "Guest", "Email", "Property", "Location", "Check-in", "Check-out",
		"Guests", "Amount", "Status", "Payment", "Created",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 2)
	_ = f.SetCellStyle(sheetName, "A2", lastHeader, headerStyle)

	for i, b := range bookings {
		row := i + 3
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), b.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), b.UserName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), b.UserEmail)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), b.PropertyTitle)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), b.PropertyLocation)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), b.StartDate.Format(models.DateLayout))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), b.EndDate.Format(models.DateLayout))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), b.Guests)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), b.TotalAmount)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), b.Status)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("K%d", row), b.PaymentStatus)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("L%d", row), b.CreatedAt.Format("2006-01-02 15:04"))
	}

	_ = f.SetColWidth(sheetName, "B", "E", 22)
	_ = f.SetColWidth(sheetName, "F", "G", 12)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		start.Format(models.DateLayout), end.Format(models.DateLayout))
	filePath := filepath.Join(s.exportPath, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	s.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel export created")
	return filePath, nil
}

// SystemHealth reports datastore reachability for the admin panel.
func (s *AdminService) SystemHealth(ctx context.Context, id models.Identity) (*models.SystemHealth, error) {
	if !id.IsAdmin() {
		return nil, ErrForbidden
	}

	health := &models.SystemHealth{Status: "ok", Database: "up", CheckedAt: time.Now().UTC()}
	if err := s.stats.Ping(ctx); err != nil {
		s.logger.Error().Err(err).Msg("database ping failed")
		health.Status = "degraded"
		health.Database = "down"
	}
	return health, nil
}

// Backup snapshots the database to the backup directory.
func (s *AdminService) Backup(ctx context.Context, id models.Identity) (string, error) {
	if !id.IsAdmin() {
		return "", ErrForbidden
	}
	return s.backuper.Backup(ctx)
}
