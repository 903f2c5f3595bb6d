package service

import (
	"strings"
	"testing"

	"github.com/flexprice/billing-engine/internal/api/dto"
	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/testutil"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/stretchr/testify/suite"
)

type QuoteServiceSuite struct {
	testutil.BaseServiceTestSuite
	service QuoteService
}

func TestQuoteService(t *testing.T) {
	suite.Run(t, new(QuoteServiceSuite))
}

func (s *QuoteServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := NewServiceParams(s.GetLogger(), s.GetConfig(), s.GetCache())
	billingService := NewBillingService(params)
	s.service = NewQuoteService(
		params,
		NewPlanService(params),
		billingService,
		NewProrationService(params, billingService),
	)
}

func (s *QuoteServiceSuite) TestCreateQuote() {
	tests := []struct {
		name          string
		startAt       dto.CycleRequest
		expectedTotal string
		expectedFlat  string
	}{
		{
			name:          "full_cycle",
			startAt:       dto.CycleRequest{StartAt: testutil.Date(2024, 1, 1)},
			expectedTotal: "$44.00",
			expectedFlat:  "$30.00",
		},
		{
			name:    "mid_cycle_start",
			startAt: dto.CycleRequest{StartAt: testutil.Date(2024, 1, 16)},
			// fixed fees cover 16 of 31 days, usage is billed in full
			expectedTotal: "$24.64",
			expectedFlat:  "$15.48",
		},
		{
			name:          "trial",
			startAt:       dto.CycleRequest{StartAt: testutil.Date(2024, 1, 1), TrialDays: 15},
			expectedTotal: "$4.00",
			expectedFlat:  "$0.00",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.CreateQuote(s.GetContext(), dto.QuoteRequest{
				Plan:       testutil.StarterPlanRequest(),
				Cycle:      tt.startAt,
				Quantities: map[string]int64{"api_calls": 3000},
			})
			s.NoError(err)
			s.True(strings.HasPrefix(resp.ID, types.UUID_PREFIX_QUOTE+"_"))
			s.True(strings.HasPrefix(resp.Number, types.SHORT_ID_PREFIX_QUOTE))
			s.Equal("pv_starter", resp.PlanVersionID)
			s.Equal(tt.expectedTotal, resp.Quote.Total.Display)
			s.Equal(tt.expectedFlat, resp.FlatPrice.Display)
			s.Nil(resp.Proration)
		})
	}
}

func (s *QuoteServiceSuite) TestCreateQuote_WithUpgrade() {
	next := testutil.GrowthPlanRequest()
	resp, err := s.service.CreateQuote(s.GetContext(), dto.QuoteRequest{
		Plan:  testutil.StarterPlanRequest(),
		Cycle: dto.CycleRequest{StartAt: testutil.Date(2024, 1, 1)},
		Change: &dto.PlanChangeRequest{
			Action:             types.ProrationActionUpgrade,
			EffectiveAt:        testutil.Date(2024, 1, 16),
			NextPlan:           &next,
			OriginalAmountPaid: "30.00",
		},
	})
	s.NoError(err)
	s.Require().NotNil(resp.Proration)
	s.Equal("16.52", resp.Proration.NetAmount.String())
}

func (s *QuoteServiceSuite) TestCreateQuote_Invalid() {
	s.Run("negative_quantity", func() {
		_, err := s.service.CreateQuote(s.GetContext(), dto.QuoteRequest{
			Plan:       testutil.StarterPlanRequest(),
			Cycle:      dto.CycleRequest{StartAt: testutil.Date(2024, 1, 1)},
			Quantities: map[string]int64{"api_calls": -1},
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})

	s.Run("malformed_paid_amount", func() {
		next := testutil.GrowthPlanRequest()
		_, err := s.service.CreateQuote(s.GetContext(), dto.QuoteRequest{
			Plan:  testutil.StarterPlanRequest(),
			Cycle: dto.CycleRequest{StartAt: testutil.Date(2024, 1, 1)},
			Change: &dto.PlanChangeRequest{
				Action:             types.ProrationActionUpgrade,
				EffectiveAt:        testutil.Date(2024, 1, 16),
				NextPlan:           &next,
				OriginalAmountPaid: "thirty",
			},
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})

	s.Run("missing_start", func() {
		_, err := s.service.CreateQuote(s.GetContext(), dto.QuoteRequest{
			Plan: testutil.StarterPlanRequest(),
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})

	s.Run("quantity_for_unknown_feature_is_ignored", func() {
		resp, err := s.service.CreateQuote(s.GetContext(), dto.QuoteRequest{
			Plan:       testutil.StarterPlanRequest(),
			Cycle:      dto.CycleRequest{StartAt: testutil.Date(2024, 1, 1)},
			Quantities: map[string]int64{"unknown": 10},
		})
		s.NoError(err)
		s.Equal("$40.00", resp.Quote.Total.Display)
	})
}
