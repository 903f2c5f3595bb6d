package service

import (
	"testing"
	"time"

	"github.com/flexprice/billing-engine/internal/api/dto"
	"github.com/flexprice/billing-engine/internal/domain/billing"
	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/testutil"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service BillingService
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewBillingService(NewServiceParams(s.GetLogger(), s.GetConfig(), s.GetCache()))
}

func monthly(anchor types.BillingAnchor) billing.Config {
	return billing.Config{
		Interval:      types.BillingIntervalMonth,
		IntervalCount: 1,
		Anchor:        anchor,
		PlanType:      types.PlanTypeRecurring,
	}
}

func (s *BillingServiceSuite) TestComputeCycleForConfig() {
	tests := []struct {
		name           string
		req            dto.CycleRequest
		expectedStart  time.Time
		expectedEnd    time.Time
		expectedFactor string
	}{
		{
			name:           "full_month_on_anchor",
			req:            dto.CycleRequest{StartAt: testutil.Date(2024, 1, 1)},
			expectedStart:  testutil.Date(2024, 1, 1),
			expectedEnd:    time.Date(2024, 1, 31, 23, 59, 59, 999000000, time.UTC),
			expectedFactor: "1",
		},
		{
			name:           "leap_february",
			req:            dto.CycleRequest{StartAt: testutil.Date(2024, 2, 1)},
			expectedStart:  testutil.Date(2024, 2, 1),
			expectedEnd:    time.Date(2024, 2, 29, 23, 59, 59, 999000000, time.UTC),
			expectedFactor: "1",
		},
		{
			name:           "mid_month_start_is_prorated",
			req:            dto.CycleRequest{StartAt: testutil.Date(2024, 1, 16)},
			expectedStart:  testutil.Date(2024, 1, 16),
			expectedEnd:    time.Date(2024, 1, 31, 23, 59, 59, 999000000, time.UTC),
			expectedFactor: "0.5161290322580645",
		},
		{
			name: "cancelled_mid_month_end_aligned",
			req: dto.CycleRequest{
				StartAt:  testutil.Date(2024, 1, 1),
				CancelAt: lo.ToPtr(time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)),
			},
			expectedStart: testutil.Date(2024, 1, 1),
			// end alignment moves the last billable instant to the end of the day
			expectedEnd:    time.Date(2024, 1, 10, 23, 59, 59, 999000000, time.UTC),
			expectedFactor: "0.3225806451612903",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			cycle, err := s.service.ComputeCycleForConfig(s.GetContext(), monthly(1), tt.req)
			s.NoError(err)
			s.Equal(tt.expectedStart, cycle.CycleStart)
			s.Equal(tt.expectedEnd, cycle.CycleEnd)
			s.Equal(tt.expectedFactor, cycle.ProrationFactor.String())
		})
	}
}

func (s *BillingServiceSuite) TestComputeCycle_Cached() {
	params := billing.CycleParams{
		CurrentCycleStartAt: testutil.Date(2024, 3, 1),
		Config:              monthly(1),
		Alignment:           billing.DefaultAlignment(),
	}

	first, err := s.service.ComputeCycle(s.GetContext(), params)
	s.NoError(err)
	s.Equal(1, s.GetCache().ItemCount())

	second, err := s.service.ComputeCycle(s.GetContext(), params)
	s.NoError(err)
	s.Equal(first.CycleEnd, second.CycleEnd)
	s.True(first.ProrationFactor.Equal(second.ProrationFactor))
	s.Equal(1, s.GetCache().ItemCount())

	params.TrialDays = 7
	trial, err := s.service.ComputeCycle(s.GetContext(), params)
	s.NoError(err)
	s.True(trial.IsTrial())
	s.Equal(2, s.GetCache().ItemCount())
}

func (s *BillingServiceSuite) TestComputeCycle_Errors() {
	s.Run("missing_start", func() {
		_, err := s.service.ComputeCycleForConfig(s.GetContext(), monthly(1), dto.CycleRequest{})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})

	s.Run("end_before_start", func() {
		_, err := s.service.ComputeCycleForConfig(s.GetContext(), monthly(1), dto.CycleRequest{
			StartAt: testutil.Date(2024, 1, 10),
			EndAt:   lo.ToPtr(testutil.Date(2024, 1, 5)),
		})
		s.Error(err)
		s.True(ierr.IsCalculation(err))
	})
}
