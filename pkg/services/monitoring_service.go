package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// maxLogEntries 保持するリクエストログの上限（古いものから破棄）
const maxLogEntries = 10000

// LogEntry は単一のリクエストログを表します。
type LogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Route        string        `json:"route"` // gin のルートテンプレート (例: /api/v1/inventory/forecast/:productId)
	Method       string        `json:"method"`
	StatusCode   int           `json:"statusCode"`
	ResponseTime time.Duration `json:"responseTime"`
}

// MonitoringService はAPIのモニタリング機能を提供します。
type MonitoringService struct {
	logs         []LogEntry
	mu           sync.RWMutex
	skipPrefixes []string
	now          func() time.Time
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
// skipPrefixes に一致するパスは記録しません。
func NewMonitoringService(skipPrefixes ...string) *MonitoringService {
	return &MonitoringService{
		logs:         make([]LogEntry, 0, 256),
		skipPrefixes: skipPrefixes,
		now:          time.Now,
	}
}

// LogRequest はリクエストを記録します。
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.logs) >= maxLogEntries {
		s.logs = append(s.logs[:0], s.logs[len(s.logs)-maxLogEntries+1:]...)
	}
	s.logs = append(s.logs, entry)
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.now()
		c.Next()

		path := c.Request.URL.Path
		for _, prefix := range s.skipPrefixes {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.LogRequest(LogEntry{
			Timestamp:    start,
			Route:        route,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: s.now().Sub(start),
		})
	}
}

// RouteStats はルートごとの集計値です。
type RouteStats struct {
	Route          string `json:"route"`
	Requests       int    `json:"requests"`
	Errors         int    `json:"errors"`
	AvgResponseMs  int64  `json:"avgResponseMs"`
	MaxResponseMs  int64  `json:"maxResponseMs"`
	totalResponses time.Duration
}

// DashboardData はダッシュボードに表示するための集計済みデータです。
type DashboardData struct {
	PeriodHours      int            `json:"periodHours"`
	TotalRequests    int            `json:"totalRequests"`
	RequestsOverTime []HourlyCount  `json:"requestsOverTime"`
	StatusClasses    map[string]int `json:"statusClasses"`
	Routes           []RouteStats   `json:"routes"`
	RecentErrors     []LogEntry     `json:"recentErrors"`
}

// HourlyCount は1時間あたりのリクエスト数です。
type HourlyCount struct {
	Hour     time.Time `json:"hour"`
	Requests int       `json:"requests"`
}

// GetDashboardData は指定された期間のログを集計してダッシュボード用データを返します。
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	if periodHours <= 0 {
		periodHours = 24
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now().UTC()
	currentHour := now.Truncate(time.Hour)
	firstHour := currentHour.Add(-time.Duration(periodHours-1) * time.Hour)

	data := DashboardData{
		PeriodHours:      periodHours,
		RequestsOverTime: make([]HourlyCount, periodHours),
		StatusClasses:    map[string]int{"2xx": 0, "4xx": 0, "5xx": 0},
		Routes:           make([]RouteStats, 0),
		RecentErrors:     make([]LogEntry, 0),
	}
	for i := range data.RequestsOverTime {
		data.RequestsOverTime[i].Hour = firstHour.Add(time.Duration(i) * time.Hour)
	}

	routes := make(map[string]*RouteStats)
	for _, entry := range s.logs {
		ts := entry.Timestamp.UTC()
		if ts.Before(firstHour) {
			continue
		}
		data.TotalRequests++

		if idx := int(ts.Truncate(time.Hour).Sub(firstHour) / time.Hour); idx >= 0 && idx < periodHours {
			data.RequestsOverTime[idx].Requests++
		}

		switch {
		case entry.StatusCode >= 500:
			data.StatusClasses["5xx"]++
		case entry.StatusCode >= 400:
			data.StatusClasses["4xx"]++
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			data.StatusClasses["2xx"]++
		}

		rs, ok := routes[entry.Route]
		if !ok {
			rs = &RouteStats{Route: entry.Route}
			routes[entry.Route] = rs
		}
		rs.Requests++
		rs.totalResponses += entry.ResponseTime
		if ms := entry.ResponseTime.Milliseconds(); ms > rs.MaxResponseMs {
			rs.MaxResponseMs = ms
		}
		if entry.StatusCode >= 500 {
			rs.Errors++
		}
	}

	for _, rs := range routes {
		rs.AvgResponseMs = rs.totalResponses.Milliseconds() / int64(rs.Requests)
		data.Routes = append(data.Routes, *rs)
	}
	sort.Slice(data.Routes, func(i, j int) bool {
		if data.Routes[i].Requests != data.Routes[j].Requests {
			return data.Routes[i].Requests > data.Routes[j].Requests
		}
		return data.Routes[i].Route < data.Routes[j].Route
	})

	// 直近の5xxを新しい順に最大10件
	for i := len(s.logs) - 1; i >= 0 && len(data.RecentErrors) < 10; i-- {
		if s.logs[i].StatusCode >= 500 && !s.logs[i].Timestamp.UTC().Before(firstHour) {
			data.RecentErrors = append(data.RecentErrors, s.logs[i])
		}
	}
	return data
}
