package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// ReportExportService renders an analytics report as a downloadable workbook
type ReportExportService interface {
	ExportScorecardToExcel(ctx context.Context, studentID string) ([]byte, error)
}

type reportExportService struct {
	analytics AnalyticsService
	logger    *slog.Logger
}

func NewReportExportService(analytics AnalyticsService, logger *slog.Logger) ReportExportService {
	return &reportExportService{
		analytics: analytics,
		logger:    logger,
	}
}

func (s *reportExportService) ExportScorecardToExcel(ctx context.Context, studentID string) ([]byte, error) {
	report, err := s.analytics.GetReport(ctx, studentID, TimeRange{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Scorecard"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	// Scorecard section
	f.SetCellValue(sheetName, "A1", "Student ID")
	f.SetCellValue(sheetName, "B1", report.StudentID)
	f.SetCellValue(sheetName, "A2", "Generated At")
	f.SetCellValue(sheetName, "B2", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	f.SetCellValue(sheetName, "A3", "Overall Score")
	f.SetCellValue(sheetName, "B3", report.Scorecard.Overall)
	f.SetCellValue(sheetName, "A4", "Overall Grade")
	f.SetCellValue(sheetName, "B4", report.Scorecard.Grade)
	f.SetCellValue(sheetName, "A5", "Streak (days)")
	f.SetCellValue(sheetName, "B5", report.Scorecard.StreakDays)

	headers := []string{"Category", "Score", "Grade", "Trend"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c7", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}
	for rowIndex, cat := range report.Scorecard.Categories {
		row := rowIndex + 8
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), cat.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), cat.Score)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), cat.Grade)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), string(cat.Trend))
	}

	// Subject breakdown sheet
	subjectSheet := "Subjects"
	if _, err := f.NewSheet(subjectSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	subjectHeaders := []string{"Subject", "Average Score", "Events", "Knowledge Level"}
	for i, header := range subjectHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(subjectSheet, cell, header)
	}
	for rowIndex, subject := range report.Subjects {
		row := rowIndex + 2
		f.SetCellValue(subjectSheet, fmt.Sprintf("A%d", row), subject.Subject)
		f.SetCellValue(subjectSheet, fmt.Sprintf("B%d", row), subject.AverageScore)
		f.SetCellValue(subjectSheet, fmt.Sprintf("C%d", row), subject.Events)
		f.SetCellValue(subjectSheet, fmt.Sprintf("D%d", row), subject.KnowledgeLevel)
	}

	// Recommendations sheet
	recSheet := "Recommendations"
	if _, err := f.NewSheet(recSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	recHeaders := []string{"Type", "Priority", "Message"}
	for i, header := range recHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(recSheet, cell, header)
	}
	for rowIndex, rec := range report.Recommendations {
		row := rowIndex + 2
		f.SetCellValue(recSheet, fmt.Sprintf("A%d", row), string(rec.Type))
		f.SetCellValue(recSheet, fmt.Sprintf("B%d", row), string(rec.Priority))
		f.SetCellValue(recSheet, fmt.Sprintf("C%d", row), rec.Message)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported scorecard workbook",
		"student_id", studentID,
		"bytes", buf.Len())
	return buf.Bytes(), nil
}
