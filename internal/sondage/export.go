package sondage

import (
	"context"
	"fmt"
	"strings"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Responses"

// ExportXLSX renders the result view of one sondage as a spreadsheet: one
// column per question after the respondent profile columns, one row per
// response.
func (s *Service) ExportXLSX(ctx context.Context, id uuid.UUID) (*excelize.File, error) {
	ctx, span := s.tracer.Start(ctx, "ExportXLSX")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	view, err := s.Result(ctx, id)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	index, err := file.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	header := []string{"Email", "Phone number", "First name", "Last name"}
	questionColumn := make(map[uuid.UUID]int, len(view.Questions))
	for _, q := range view.Questions {
		questionColumn[q.ID] = len(header)
		header = append(header, q.Title)
	}
	if err := setRow(file, 1, header); err != nil {
		return nil, err
	}

	for rowIndex, r := range view.Responses {
		row := make([]string, len(header))
		row[0] = r.Person.Email
		row[1] = r.Person.PhoneNumber
		row[2] = r.Person.FirstName
		row[3] = r.Person.LastName

		for _, a := range r.Answers {
			answer, ok := a.(answerView)
			if !ok {
				continue
			}
			column, ok := questionColumn[answer.QuestionID]
			if !ok {
				continue
			}
			row[column] = displayCell(answer.Value)
		}

		if err := setRow(file, rowIndex+2, row); err != nil {
			return nil, err
		}
	}

	logger.Info("exported sondage results",
		zap.String("sondage_id", id.String()),
		zap.Int("responses", len(view.Responses)))

	return file, nil
}

func setRow(file *excelize.File, row int, values []string) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(exportSheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

func displayCell(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case int64:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprint(v)
	}
}
