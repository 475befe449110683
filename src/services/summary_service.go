// backend/src/services/summary_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/centavo/backend/src/database"
	"github.com/username/centavo/backend/src/logger"
	"github.com/username/centavo/backend/src/model"
	"github.com/username/centavo/backend/src/models"
	"github.com/username/centavo/backend/src/utils"
)

const (
	ckDashboardSummary     = "agg_dashboard_summary_user_%d_month_%s"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
	recentImportsLimit     = 5
)

type summaryServiceImpl struct {
	reportCache *cache.Cache
}

func NewSummaryService(reportCache *cache.Cache) SummaryService {
	return &summaryServiceImpl{reportCache: reportCache}
}

func (s *summaryServiceImpl) GetSummary(ctx context.Context, userID int64, month string) (*models.DashboardSummary, error) {
	cacheKey := fmt.Sprintf(ckDashboardSummary, userID, month)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*models.DashboardSummary), nil
	}

	db := database.DB
	income, expenses, err := model.MonthTotals(db, userID, month)
	if err != nil {
		return nil, fmt.Errorf("fetching month totals: %w", err)
	}
	byCategory, err := model.SumByCategory(db, userID, month)
	if err != nil {
		return nil, fmt.Errorf("fetching category totals: %w", err)
	}
	budgets, err := model.ListBudgets(db, userID, month)
	if err != nil {
		return nil, fmt.Errorf("fetching budgets: %w", err)
	}
	goals, err := model.ListGoals(db, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching goals: %w", err)
	}
	imports, err := model.ListRecentImports(db, userID, recentImportsLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching import history: %w", err)
	}
	stats, err := model.GetUserStats(db, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching user stats: %w", err)
	}
	badgeCount, err := model.CountBadgesEarned(db, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching badge count: %w", err)
	}
	txnCount, err := model.CountTransactions(db, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching transaction count: %w", err)
	}

	categories := make(map[string]float64, len(byCategory))
	for category, sum := range byCategory {
		f, _ := sum.Abs().Float64()
		categories[category] = utils.RoundFloat(f, 2)
	}

	summary := &models.DashboardSummary{
		Month:          month,
		TotalIncome:    income,
		TotalExpenses:  expenses,
		Net:            income.Sub(expenses),
		ByCategory:     categories,
		Budgets:        budgets,
		Goals:          goals,
		RecentImports:  imports,
		Points:         stats.Points,
		Level:          stats.Level,
		BadgesEarned:   badgeCount,
		TransactionCnt: txnCount,
	}
	s.reportCache.Set(cacheKey, summary, cache.DefaultExpiration)
	logger.FromContext(ctx).Debug("dashboard summary built", "userID", userID, "month", month)
	return summary, nil
}

// InvalidateUser drops every cached summary for the user. Keys embed the
// month, so the cache is scanned rather than hit directly.
func (s *summaryServiceImpl) InvalidateUser(userID int64) {
	prefix := fmt.Sprintf("agg_dashboard_summary_user_%d_month_", userID)
	for key := range s.reportCache.Items() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			s.reportCache.Delete(key)
		}
	}
}
