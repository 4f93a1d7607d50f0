package stats

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"vending-console/internal/apiclient"
	"vending-console/internal/models"
	"vending-console/internal/notice"
)

var (
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
)

// Periods accepted by the summary endpoint
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

const dateLayout = "2006-01-02"

const (
	msgFetchFailed    = "获取统计数据失败"
	msgGenerated      = "日结统计生成成功"
	msgGenerateFailed = "生成日结统计失败"
	noticeResource    = "stats"
)

// Client is the part of the upstream client statistics need
type Client interface {
	ListQuery(ctx context.Context, endpoint string, query url.Values, out any) error
	Post(ctx context.Context, path string, body any, out any) error
}

// Snapshot is the current statistics view state
type Snapshot struct {
	Period       string                 `json:"period"`
	Report       *models.StatReport     `json:"report,omitempty"`
	Loading      bool                   `json:"loading"`
	Generating   bool                   `json:"generating"`
	LastGenerate *models.GenerateResult `json:"last_generate,omitempty"`
}

// View holds the selected period and the last fetched report
type View struct {
	client   Client
	notifier notice.Notifier

	mu           sync.RWMutex
	period       string
	report       *models.StatReport
	loading      int
	generating   bool
	lastGenerate *models.GenerateResult
}

// New creates a view on the default month period
func New(client Client, notifier notice.Notifier) *View {
	if notifier == nil {
		notifier = notice.Discard
	}
	return &View{client: client, notifier: notifier, period: PeriodMonth}
}

// ValidPeriod reports whether p is accepted by the summary endpoint
func ValidPeriod(p string) bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodAll:
		return true
	}
	return false
}

// Fetch requests the summary of the selected period. A failure keeps the previous report.
func (v *View) Fetch(ctx context.Context) (models.StatReport, error) {
	v.mu.Lock()
	period := v.period
	v.loading++
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.loading--
		v.mu.Unlock()
	}()

	var report models.StatReport
	if err := v.client.ListQuery(ctx, apiclient.StatSummary, url.Values{"period": {period}}, &report); err != nil {
		if ctx.Err() == nil {
			v.notify(ctx, notice.LevelError, "fetch", msgFetchFailed)
		}
		return models.StatReport{}, err
	}

	v.mu.Lock()
	// a period change while in flight wins
	if v.period == period {
		v.report = &report
	}
	v.mu.Unlock()
	return report, nil
}

// SetPeriod selects a period and fetches it
func (v *View) SetPeriod(ctx context.Context, period string) (models.StatReport, error) {
	period = strings.TrimSpace(period)
	if !ValidPeriod(period) {
		return models.StatReport{}, fmt.Errorf("%q: %w", period, ErrInvalidPeriod)
	}
	v.mu.Lock()
	v.period = period
	v.mu.Unlock()
	return v.Fetch(ctx)
}

// Generate asks the server to compute the daily rollup of date, or of its default day
// when date is empty, then refreshes the report.
func (v *View) Generate(ctx context.Context, date string) (models.GenerateResult, error) {
	body := map[string]string{}
	if date = strings.TrimSpace(date); date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return models.GenerateResult{}, fmt.Errorf("%q: %w", date, ErrInvalidDate)
		}
		body["date"] = date
	}

	v.mu.Lock()
	v.generating = true
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.generating = false
		v.mu.Unlock()
	}()

	var result models.GenerateResult
	if err := v.client.Post(ctx, apiclient.StatGenerate, body, &result); err != nil {
		v.notify(ctx, notice.LevelError, "generate", msgGenerateFailed)
		return models.GenerateResult{}, err
	}
	v.mu.Lock()
	v.lastGenerate = &result
	v.mu.Unlock()
	v.notify(ctx, notice.LevelSuccess, "generate", msgGenerated)

	// the refresh reports its own failure
	_, _ = v.Fetch(ctx)
	return result, nil
}

// Snapshot returns the current state
func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	s := Snapshot{
		Period:     v.period,
		Loading:    v.loading > 0,
		Generating: v.generating,
	}
	if v.report != nil {
		r := *v.report
		s.Report = &r
	}
	if v.lastGenerate != nil {
		g := *v.lastGenerate
		s.LastGenerate = &g
	}
	return s
}

func (v *View) notify(ctx context.Context, level notice.Level, op, message string) {
	v.notifier.Notify(ctx, notice.New(level, noticeResource, op, message))
}
