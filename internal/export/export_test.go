package export_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/roster/internal/export"
	"github.com/hotelops/roster/internal/forecast"
	"github.com/hotelops/roster/internal/model"
)

// xlsx files are zip archives; pdf files start with "%PDF". Both are
// sufficient to confirm the renderer produced a well-formed document
// without depending on either library's internal layout.
func assertIsXLSX(t *testing.T, data []byte) {
	t.Helper()
	require.GreaterOrEqual(t, len(data), 4)
	assert.Equal(t, []byte("PK\x03\x04"), data[:4])
}

func assertIsPDF(t *testing.T, data []byte) {
	t.Helper()
	require.GreaterOrEqual(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExecutiveSummaryWorkbook(t *testing.T) {
	items := []forecast.ExecutiveSummaryItem{
		{
			TargetDate:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			BaselineAdj:    62,
			LatestAdj:      68,
			DeltaPP:        6,
			Recommendation: "review staffing for upcoming week",
		},
	}
	data, err := export.ExecutiveSummaryWorkbook(items)
	require.NoError(t, err)
	assertIsXLSX(t, data)
}

func TestExecutiveSummaryWorkbook_Empty(t *testing.T) {
	data, err := export.ExecutiveSummaryWorkbook(nil)
	require.NoError(t, err)
	assertIsXLSX(t, data)
}

func TestSchedulePlanWorkbook(t *testing.T) {
	employeeID := uuid.New()
	plan := &model.HousekeepingSchedulePlan{ID: uuid.New()}
	slots := []model.ShiftSlot{
		{
			TargetDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			TemplateName: "morning",
			StartTime:    480,
			EndTime:      960,
			HoursWorked:  decimal.NewFromFloat(8),
			EmployeeID:   &employeeID,
			IsAssigned:   true,
		},
		{
			TargetDate:   time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
			TemplateName: "afternoon",
			StartTime:    780,
			EndTime:      1260,
			HoursWorked:  decimal.NewFromFloat(8),
			IsAssigned:   false,
		},
	}
	data, err := export.SchedulePlanWorkbook(plan, slots)
	require.NoError(t, err)
	assertIsXLSX(t, data)
}

func TestDailyAgendaPDF(t *testing.T) {
	agenda := &model.EmployeeDailyAgenda{
		TargetDate:            time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalMinutesAllocated: 240,
		TotalMinutesAvailable: 480,
		Employee:              &model.Employee{FirstName: "Jane", LastName: "Doe"},
		Items: []model.EmployeeDailyAgendaItem{
			{ActivityID: uuid.New(), Order: 1, Minutes: 30, Quantity: 2, IsPending: false},
			{ActivityID: uuid.New(), Order: 2, Minutes: 45, Quantity: 1, IsPending: true},
		},
	}
	data, err := export.DailyAgendaPDF(agenda)
	require.NoError(t, err)
	assertIsPDF(t, data)
}

func TestDailyAgendaPDF_NoEmployeePreloaded(t *testing.T) {
	agenda := &model.EmployeeDailyAgenda{
		TargetDate:            time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalMinutesAllocated: 0,
		TotalMinutesAvailable: 480,
	}
	data, err := export.DailyAgendaPDF(agenda)
	require.NoError(t, err)
	assertIsPDF(t, data)
}

func TestWeeklyConvocationSummaryPDF(t *testing.T) {
	convos := []model.Convocation{
		{
			Date:       time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			StartTime:  480,
			EndTime:    960,
			TotalHours: decimal.NewFromFloat(8),
			Status:     model.ConvocationAccepted,
			Origin:     model.OriginBaseline,
			SentAt:     time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC),
		},
	}
	data, err := export.WeeklyConvocationSummaryPDF(nil, convos)
	require.NoError(t, err)
	assertIsPDF(t, data)
}

func TestWeeklyConvocationSummaryPDF_WithEmployee(t *testing.T) {
	employee := &model.Employee{FirstName: "Jane", LastName: "Doe"}
	data, err := export.WeeklyConvocationSummaryPDF(employee, nil)
	require.NoError(t, err)
	assertIsPDF(t, data)
}
