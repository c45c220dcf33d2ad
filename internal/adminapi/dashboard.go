package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/webserver"
	"github.com/talkincode/toughstore/pkg/metrics"
)

func registerDashboardRoutes() {
	webserver.AdminGET("/dashboard", getDashboard)
	webserver.AdminGET("/dashboard/metrics/:name", getDashboardMetric)
}

func getDashboard(c echo.Context) error {
	db := GetDB(c)

	var productCount, collectionCount, customerCount, cartCount, orderCount int64
	db.Model(&domain.Product{}).Count(&productCount)
	db.Model(&domain.Collection{}).Count(&collectionCount)
	db.Model(&domain.Customer{}).Count(&customerCount)
	db.Model(&domain.Cart{}).Count(&cartCount)
	db.Model(&domain.Order{}).Count(&orderCount)

	var pendingOrders int64
	db.Model(&domain.Order{}).Where("payment_status = ?", domain.PaymentStatusPending).Count(&pendingOrders)

	var orders []domain.Order
	if err := db.Preload("Items").
		Where("placed_at >= ?", time.Now().AddDate(0, 0, -30)).
		Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	revenue := decimal.Zero
	totals := make([]float64, 0, len(orders))
	for _, order := range orders {
		t := order.TotalPrice()
		revenue = revenue.Add(t)
		tf, _ := t.Float64()
		totals = append(totals, tf)
	}

	meanTotal, _ := stats.Mean(totals)
	medianTotal, _ := stats.Median(totals)

	return ok(c, map[string]interface{}{
		"products":           productCount,
		"collections":        collectionCount,
		"customers":          customerCount,
		"carts":              cartCount,
		"orders":             orderCount,
		"pending_orders":     pendingOrders,
		"revenue_30d":        revenue.StringFixed(2),
		"mean_order_total":   meanTotal,
		"median_order_total": medianTotal,
	})
}

// metric name whitelist keyed by the :name route parameter
var dashboardMetrics = map[string]string{
	"api_request":  metrics.MetricApiRequest,
	"order_placed": metrics.MetricOrderPlaced,
	"cart_created": metrics.MetricCartCreated,
	"cpuuse":       metrics.MetricSystemCpuuse,
	"memuse":       metrics.MetricSystemMemuse,
}

func getDashboardMetric(c echo.Context) error {
	metric, found := dashboardMetrics[c.Param("name")]
	if !found {
		return fail(c, http.StatusNotFound, "METRIC_NOT_FOUND", "Unknown metric", nil)
	}
	end := time.Now().Unix()
	start := end - 24*3600
	points, err := metrics.Select(metric, start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metric", err.Error())
	}
	type point struct {
		Timestamp int64   `json:"timestamp"`
		Value     float64 `json:"value"`
	}
	out := make([]point, 0, len(points))
	for _, p := range points {
		out = append(out, point{Timestamp: p.Timestamp, Value: p.Value})
	}
	return ok(c, out)
}
