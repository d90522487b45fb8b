package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/adpablos/expense-tracker-backend/internal/entity"
)

type fakeLister struct {
	expenses []*entity.Expense
	err      error

	from, to *time.Time
}

func (f *fakeLister) ListByHousehold(_ context.Context, _ uuid.UUID, from, to *time.Time) ([]*entity.Expense, error) {
	f.from, f.to = from, to
	return f.expenses, f.err
}

func TestExportWritesRows(t *testing.T) {
	lister := &fakeLister{expenses: []*entity.Expense{
		{Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), Amount: 12.50, Category: "Casa", Subcategory: "Alquiler", Description: "marzo"},
		{Date: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), Amount: 7.80, Category: "Ocio"},
	}}
	svc := NewService(lister, nil)

	data, err := svc.ExportExpensesXLSX(context.Background(), uuid.New(), nil, nil)
	if err != nil {
		t.Fatalf("ExportExpensesXLSX returned error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Expenses")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][2] != "Category" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][0] != "2026-03-05" || rows[1][2] != "Casa" || rows[1][3] != "Alquiler" {
		t.Errorf("first data row = %v", rows[1])
	}
	if rows[2][2] != "Ocio" {
		t.Errorf("second data row = %v", rows[2])
	}
}

func TestExportEmptyHousehold(t *testing.T) {
	svc := NewService(&fakeLister{}, nil)

	data, err := svc.ExportExpensesXLSX(context.Background(), uuid.New(), nil, nil)
	if err != nil {
		t.Fatalf("ExportExpensesXLSX returned error: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Expenses")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}

func TestExportNormalizesDateWindow(t *testing.T) {
	lister := &fakeLister{}
	svc := NewService(lister, nil)

	from := time.Date(2026, 3, 5, 14, 30, 0, 0, time.Local)
	to := time.Date(2026, 3, 20, 9, 15, 0, 0, time.Local)
	if _, err := svc.ExportExpensesXLSX(context.Background(), uuid.New(), &from, &to); err != nil {
		t.Fatal(err)
	}

	wantFrom := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2026, 3, 20, 23, 59, 59, 0, time.UTC)
	if lister.from == nil || !lister.from.Equal(wantFrom) {
		t.Errorf("from = %v, want %v", lister.from, wantFrom)
	}
	if lister.to == nil || !lister.to.Equal(wantTo) {
		t.Errorf("to = %v, want %v", lister.to, wantTo)
	}
}

func TestExportFromOnlyDefaultsToToday(t *testing.T) {
	lister := &fakeLister{}
	svc := NewService(lister, nil)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.ExportExpensesXLSX(context.Background(), uuid.New(), &from, nil); err != nil {
		t.Fatal(err)
	}
	if lister.to == nil {
		t.Fatal("to was not defaulted")
	}
	now := time.Now().UTC()
	if lister.to.Year() != now.Year() || lister.to.Month() != now.Month() || lister.to.Day() != now.Day() {
		t.Errorf("to = %v, want end of today", lister.to)
	}
}

func TestExportQueryError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(&fakeLister{err: boom}, nil)

	_, err := svc.ExportExpensesXLSX(context.Background(), uuid.New(), nil, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped query error", err)
	}
}
