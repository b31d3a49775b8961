package domain

import "time"

// Threshold is one alert moment relative to a TODO's deadline.
// Lead is how long before the deadline the alert fires; zero means the
// deadline itself has passed. Each threshold maps to one notified_* flag
// and fires at most once per TODO.
type Threshold struct {
	Name  string        // flag suffix, e.g. "1day" -> notified_1day
	Label string        // human label used in mail subjects (残り時間)
	Lead  time.Duration
}

var (
	ThresholdOverdue = Threshold{Name: "overdue", Label: "期限超過"}
	Threshold1Day    = Threshold{Name: "1day", Label: "残り1日", Lead: 24 * time.Hour}
	Threshold6Hour   = Threshold{Name: "6hour", Label: "残り6時間", Lead: 6 * time.Hour}
	Threshold2Hour   = Threshold{Name: "2hour", Label: "残り2時間", Lead: 2 * time.Hour}
	Threshold1Hour   = Threshold{Name: "1hour", Label: "残り1時間", Lead: time.Hour}
	Threshold30Min   = Threshold{Name: "30min", Label: "残り30分", Lead: 30 * time.Minute}
)

// Thresholds lists every alert threshold, longest lead first so a sweep
// reports reminders before the overdue alert.
var Thresholds = []Threshold{
	Threshold1Day,
	Threshold6Hour,
	Threshold2Hour,
	Threshold1Hour,
	Threshold30Min,
	ThresholdOverdue,
}
