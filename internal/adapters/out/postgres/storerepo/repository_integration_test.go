package storerepo_test

import (
	"context"
	"testing"
	"time"

	"orderwatch/internal/adapters/out/postgres/pgtest"
	"orderwatch/internal/adapters/out/postgres/storerepo"
	"orderwatch/internal/core/domain/model/kernel"
	"orderwatch/internal/core/domain/model/store"
	"orderwatch/internal/core/domain/services"
	"orderwatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type StoreRepositoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	stores    *storerepo.GormStoreRepository
	schedules *storerepo.GormScheduleRepository
}

func (suite *StoreRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
	suite.stores = storerepo.NewGormStoreRepository(db)
	suite.schedules = storerepo.NewGormScheduleRepository(db)
}

func (suite *StoreRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE " + pgtest.Tables).Error)
}

func (suite *StoreRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *StoreRepositoryIntegrationTestSuite) newStore(name string) *store.Store {
	s, err := store.NewStore(uuid.New(), name, "")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.stores.Add(suite.T().Context(), s))
	return s
}

func (suite *StoreRepositoryIntegrationTestSuite) clock(h, m int) kernel.ClockTime {
	c, err := kernel.NewClockTime(h, m)
	suite.Require().NoError(err)
	return c
}

func (suite *StoreRepositoryIntegrationTestSuite) TestAddIsIdempotentByName() {
	ctx := suite.T().Context()
	first := suite.newStore("Altamira")
	second, err := store.NewStore(uuid.New(), "Altamira", "")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.stores.Add(ctx, second))

	got, err := suite.stores.GetByName(ctx, "Altamira ")
	suite.Require().NoError(err)
	suite.Equal(first.ID(), got.ID())
	suite.Equal("store_altamira", got.ExternalRef())
}

func (suite *StoreRepositoryIntegrationTestSuite) TestUpdateLearnsLocationAndCommission() {
	ctx := suite.T().Context()
	s := suite.newStore("Chacao")
	p, err := kernel.NewGeoPoint(10.49, -66.85)
	suite.Require().NoError(err)
	suite.Require().True(s.LearnLocation(p))
	suite.Require().NoError(s.SetCommissionRate(decimal.RequireFromString("0.15")))
	suite.Require().NoError(suite.stores.Update(ctx, s))

	got, err := suite.stores.GetByName(ctx, "Chacao")
	suite.Require().NoError(err)
	suite.Require().NotNil(got.Location())
	suite.InDelta(10.49, got.Location().Lat(), 1e-9)
	suite.True(decimal.RequireFromString("0.15").Equal(got.CommissionRate()))
}

func (suite *StoreRepositoryIntegrationTestSuite) TestGetByName_NotFound() {
	_, err := suite.stores.GetByName(suite.T().Context(), "Nowhere")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *StoreRepositoryIntegrationTestSuite) TestRulesAndHolidaysDriveClosure() {
	ctx := suite.T().Context()
	altamira := suite.newStore("Altamira")
	chacao := suite.newStore("Chacao")

	rule, err := store.NewScheduleRule(altamira.ID(), time.Friday, suite.clock(8, 0), suite.clock(22, 0), 30, true)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.schedules.SaveRule(ctx, rule))
	rule.BufferMinutes = 60
	suite.Require().NoError(suite.schedules.SaveRule(ctx, rule), "saving again replaces the rule")

	friday := time.Date(2025, 3, 14, 21, 15, 0, 0, time.UTC)
	rules, err := suite.schedules.ListRules(ctx, time.Friday)
	suite.Require().NoError(err)
	suite.Require().Len(rules, 1)
	suite.Equal(60, rules[0].BufferMinutes)
	suite.True(services.ShouldBeClosed(altamira.ID(), friday, rules, nil))

	open, closeAt := suite.clock(10, 0), suite.clock(23, 0)
	storeID := chacao.ID()
	global, err := store.NewHolidayOverride(friday, nil, true, nil, nil)
	suite.Require().NoError(err)
	special, err := store.NewHolidayOverride(friday, &storeID, false, &open, &closeAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.schedules.AddHoliday(ctx, global))
	suite.Require().NoError(suite.schedules.AddHoliday(ctx, special))
	suite.Require().NoError(suite.schedules.AddHoliday(ctx, special), "adding again replaces the override")

	holidays, err := suite.schedules.ListHolidays(ctx, friday)
	suite.Require().NoError(err)
	suite.Require().Len(holidays, 2)

	suite.True(services.ShouldBeClosed(altamira.ID(), friday, rules, holidays), "global holiday closes all day")
	decision := services.EvaluateClosure(chacao.ID(), friday, rules, holidays)
	suite.Equal(services.SourceStoreHoliday, decision.Source)
	suite.False(decision.Closed, "21:15 is inside 10:00-23:00 minus the holiday buffer")
}

func TestStoreRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(StoreRepositoryIntegrationTestSuite))
}
