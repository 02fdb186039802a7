package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seafreight/ocean_rates_api/internal/apperrors"
	"github.com/seafreight/ocean_rates_api/internal/core/domain"
	ports "github.com/seafreight/ocean_rates_api/internal/core/ports/repositories"
	"github.com/seafreight/ocean_rates_api/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RatesRepository ---
type MockRatesRepository struct {
	mock.Mock
}

func (m *MockRatesRepository) ListDailyAverages(ctx context.Context, origin, destination domain.RouteEndpoint, dateFrom, dateTo time.Time, minSamples int) ([]domain.DailyRate, error) {
	args := m.Called(ctx, origin, destination, dateFrom, dateTo, minSamples)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyRate), args.Error(1)
}

var _ ports.RatesRepository = (*MockRatesRepository)(nil)

// --- Mock RegionRepository ---
type MockRegionRepository struct {
	mock.Mock
}

func (m *MockRegionRepository) RegionExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockRegionRepository) ListChildSlugs(ctx context.Context, slug string) ([]string, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ ports.RegionRepository = (*MockRegionRepository)(nil)

// --- Mock PortRepository ---
type MockPortRepository struct {
	mock.Mock
}

func (m *MockPortRepository) PortExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

var _ ports.PortRepository = (*MockPortRepository)(nil)

// --- Test Suite ---
type RatesServiceTestSuite struct {
	suite.Suite
	mockRatesRepo  *MockRatesRepository
	mockRegionRepo *MockRegionRepository
	mockPortRepo   *MockPortRepository
	service        *services.RatesService
}

func (suite *RatesServiceTestSuite) SetupTest() {
	suite.mockRatesRepo = new(MockRatesRepository)
	suite.mockRegionRepo = new(MockRegionRepository)
	suite.mockPortRepo = new(MockPortRepository)
	suite.service = services.NewRatesService(suite.mockRatesRepo, suite.mockRegionRepo, suite.mockPortRepo, 3, 5*time.Second)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func avg(value string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(value), Valid: true}
}

// expectPortCodes wires both route endpoints to resolve as plain port codes.
func (suite *RatesServiceTestSuite) expectPortCodes(origin, destination string) {
	suite.mockRegionRepo.On("RegionExists", mock.Anything, origin).Return(false, nil).Once()
	suite.mockRegionRepo.On("RegionExists", mock.Anything, destination).Return(false, nil).Once()
	suite.mockPortRepo.On("PortExists", mock.Anything, origin).Return(true, nil).Once()
	suite.mockPortRepo.On("PortExists", mock.Anything, destination).Return(true, nil).Once()
}

func (suite *RatesServiceTestSuite) validQuery() domain.RateQuery {
	return domain.RateQuery{
		Origin:      "CNSHA",
		Destination: "NLRTM",
		DateFrom:    day(2016, time.March, 1),
		DateTo:      day(2016, time.March, 4),
	}
}

// --- Test Cases ---

func (suite *RatesServiceTestSuite) TestGetAverageRate_MeansSurvivingDailyAverages() {
	q := suite.validQuery()
	suite.expectPortCodes("cnsha", "nlrtm")

	daily := []domain.DailyRate{
		{Day: day(2016, time.March, 1), AveragePrice: avg("1112")},
		{Day: day(2016, time.March, 2), AveragePrice: avg("1112")},
		{Day: day(2016, time.March, 3)},
		{Day: day(2016, time.March, 4)},
	}
	suite.mockRatesRepo.On("ListDailyAverages", mock.Anything,
		domain.RouteEndpoint{Code: "cnsha"}, domain.RouteEndpoint{Code: "nlrtm"},
		q.DateFrom, q.DateTo, 3,
	).Return(daily, nil).Once()

	average, err := suite.service.GetAverageRate(context.Background(), q)

	suite.Require().NoError(err)
	suite.Require().True(average.Valid)
	suite.True(average.Decimal.Equal(decimal.RequireFromString("1112")), "got %s", average.Decimal)
	suite.mockRatesRepo.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestGetAverageRate_RoundsToPricePrecision() {
	q := suite.validQuery()
	suite.expectPortCodes("cnsha", "nlrtm")

	daily := []domain.DailyRate{
		{Day: day(2016, time.March, 1), AveragePrice: avg("1112.33")},
		{Day: day(2016, time.March, 2), AveragePrice: avg("1112.34")},
	}
	suite.mockRatesRepo.On("ListDailyAverages", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(daily, nil).Once()

	average, err := suite.service.GetAverageRate(context.Background(), q)

	suite.Require().NoError(err)
	suite.Require().True(average.Valid)
	// (1112.33 + 1112.34) / 2 = 1112.335, rounded to two places
	suite.True(average.Decimal.Equal(decimal.RequireFromString("1112.34")), "got %s", average.Decimal)
}

func (suite *RatesServiceTestSuite) TestGetAverageRate_AllDaysSuppressedIsAbsent() {
	q := suite.validQuery()
	suite.expectPortCodes("cnsha", "nlrtm")

	daily := []domain.DailyRate{
		{Day: day(2016, time.March, 1)},
		{Day: day(2016, time.March, 2)},
	}
	suite.mockRatesRepo.On("ListDailyAverages", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(daily, nil).Once()

	average, err := suite.service.GetAverageRate(context.Background(), q)

	suite.Require().NoError(err)
	suite.False(average.Valid, "expected an absent average, got %s", average.Decimal)
}

func (suite *RatesServiceTestSuite) TestListDailyRates_DateToBeforeDateFrom() {
	q := suite.validQuery()
	q.DateFrom = day(2016, time.March, 31)
	q.DateTo = day(2016, time.March, 1)

	_, err := suite.service.ListDailyRates(context.Background(), q)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	var fieldErr *apperrors.FieldError
	suite.Require().True(errors.As(err, &fieldErr))
	suite.Equal("date_to", fieldErr.Field)
	suite.mockRatesRepo.AssertNotCalled(suite.T(), "ListDailyAverages")
}

func (suite *RatesServiceTestSuite) TestListDailyRates_DateBeforeCalendarStart() {
	q := suite.validQuery()
	q.DateFrom = day(1899, time.December, 31)

	_, err := suite.service.ListDailyRates(context.Background(), q)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	var fieldErr *apperrors.FieldError
	suite.Require().True(errors.As(err, &fieldErr))
	suite.Equal("date_from", fieldErr.Field)
}

func (suite *RatesServiceTestSuite) TestListDailyRates_DateAfterCalendarEnd() {
	q := suite.validQuery()
	q.DateTo = day(2100, time.January, 1)

	_, err := suite.service.ListDailyRates(context.Background(), q)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	var fieldErr *apperrors.FieldError
	suite.Require().True(errors.As(err, &fieldErr))
	suite.Equal("date_to", fieldErr.Field)
}

func (suite *RatesServiceTestSuite) TestListDailyRates_RegionSlugExpandsTransitively() {
	q := suite.validQuery()
	q.Origin = "North_Europe_Main"

	// north_europe_main contains norway_main and uk_main; norway_main in turn
	// contains norway_south_east, which must be picked up as well.
	suite.mockRegionRepo.On("RegionExists", mock.Anything, "north_europe_main").Return(true, nil).Once()
	suite.mockRegionRepo.On("ListChildSlugs", mock.Anything, "north_europe_main").Return([]string{"norway_main", "uk_main"}, nil).Once()
	suite.mockRegionRepo.On("ListChildSlugs", mock.Anything, "norway_main").Return([]string{"norway_south_east"}, nil).Once()
	suite.mockRegionRepo.On("ListChildSlugs", mock.Anything, "uk_main").Return([]string{}, nil).Once()
	suite.mockRegionRepo.On("ListChildSlugs", mock.Anything, "norway_south_east").Return([]string{}, nil).Once()

	suite.mockRegionRepo.On("RegionExists", mock.Anything, "nlrtm").Return(false, nil).Once()
	suite.mockPortRepo.On("PortExists", mock.Anything, "nlrtm").Return(true, nil).Once()

	expectedOrigin := domain.RouteEndpoint{
		Regions: []string{"north_europe_main", "norway_main", "uk_main", "norway_south_east"},
	}
	suite.mockRatesRepo.On("ListDailyAverages", mock.Anything,
		expectedOrigin, domain.RouteEndpoint{Code: "nlrtm"},
		q.DateFrom, q.DateTo, 3,
	).Return([]domain.DailyRate{}, nil).Once()

	_, err := suite.service.ListDailyRates(context.Background(), q)

	suite.Require().NoError(err)
	suite.mockRatesRepo.AssertExpectations(suite.T())
	suite.mockRegionRepo.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestGetAverageRate_UnknownCodeIsAbsentNotError() {
	q := suite.validQuery()
	q.Origin = "ZZZZZZ"

	suite.mockRegionRepo.On("RegionExists", mock.Anything, "zzzzzz").Return(false, nil).Once()
	suite.mockPortRepo.On("PortExists", mock.Anything, "zzzzzz").Return(false, nil).Once()
	suite.mockRegionRepo.On("RegionExists", mock.Anything, "nlrtm").Return(false, nil).Once()
	suite.mockPortRepo.On("PortExists", mock.Anything, "nlrtm").Return(true, nil).Once()

	daily := []domain.DailyRate{
		{Day: day(2016, time.March, 1)},
		{Day: day(2016, time.March, 2)},
		{Day: day(2016, time.March, 3)},
		{Day: day(2016, time.March, 4)},
	}
	suite.mockRatesRepo.On("ListDailyAverages", mock.Anything,
		domain.RouteEndpoint{Code: "zzzzzz"}, domain.RouteEndpoint{Code: "nlrtm"},
		q.DateFrom, q.DateTo, 3,
	).Return(daily, nil).Once()

	average, err := suite.service.GetAverageRate(context.Background(), q)

	suite.Require().NoError(err)
	suite.False(average.Valid)
}

func (suite *RatesServiceTestSuite) TestListDailyRates_RepositoryFailureIsDataStoreError() {
	q := suite.validQuery()
	suite.expectPortCodes("cnsha", "nlrtm")

	suite.mockRatesRepo.On("ListDailyAverages", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	_, err := suite.service.ListDailyRates(context.Background(), q)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDataStore)
	suite.NotErrorIs(err, apperrors.ErrValidation)
}

func TestRatesServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RatesServiceTestSuite))
}
