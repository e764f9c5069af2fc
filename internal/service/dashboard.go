package service

import "sort"

const topCategoryCount = 5

// CategoryCount is one NTEE code's share of the dataset.
type CategoryCount struct {
	Code         string `json:"code"`
	Description  string `json:"description"`
	Count        int    `json:"count"`
	TotalRevenue int64  `json:"total_revenue"`
}

// CategoryRevenue is the summed revenue of one NTEE code.
type CategoryRevenue struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Revenue     int64  `json:"revenue"`
}

// DashboardStats aggregates the whole store.
type DashboardStats struct {
	TotalNonprofits   int               `json:"total_nonprofits"`
	TotalRevenue      int64             `json:"total_revenue"`
	TotalExpenses     int64             `json:"total_expenses"`
	TotalAssets       int64             `json:"total_assets"`
	AverageRevenue    float64           `json:"average_revenue"`
	NTEEDistribution  []CategoryCount   `json:"ntee_distribution"`
	TopCategories     []CategoryCount   `json:"top_categories"`
	RevenueByCategory []CategoryRevenue `json:"revenue_by_category"`
}

// Dashboard computes totals and per-category breakdowns. Revenue by category
// always sums to TotalRevenue.
func (s *Service) Dashboard() DashboardStats {
	records := s.store.LoadAll()
	stats := DashboardStats{TotalNonprofits: len(records)}

	byCode := map[string]*CategoryCount{}
	for _, r := range records {
		stats.TotalRevenue += r.TotalRevenue
		stats.TotalExpenses += r.TotalExpenses
		stats.TotalAssets += r.NetAssets

		c, ok := byCode[r.NTEECode]
		if !ok {
			c = &CategoryCount{Code: r.NTEECode}
			byCode[r.NTEECode] = c
		}
		if c.Description == "" {
			c.Description = r.NTEEDescription
		}
		c.Count++
		c.TotalRevenue += r.TotalRevenue
	}
	if len(records) > 0 {
		stats.AverageRevenue = float64(stats.TotalRevenue) / float64(len(records))
	}

	dist := make([]CategoryCount, 0, len(byCode))
	for _, c := range byCode {
		if c.Description == "" {
			c.Description = "Uncategorized"
		}
		dist = append(dist, *c)
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Code < dist[j].Code
	})
	stats.NTEEDistribution = dist
	stats.TopCategories = dist[:min(topCategoryCount, len(dist))]

	revenue := make([]CategoryRevenue, len(dist))
	for i, c := range dist {
		revenue[i] = CategoryRevenue{Code: c.Code, Description: c.Description, Revenue: c.TotalRevenue}
	}
	sort.Slice(revenue, func(i, j int) bool {
		if revenue[i].Revenue != revenue[j].Revenue {
			return revenue[i].Revenue > revenue[j].Revenue
		}
		return revenue[i].Code < revenue[j].Code
	})
	stats.RevenueByCategory = revenue
	return stats
}
