package hours

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Day 周一为一周的第一天
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayAbbr = [...]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

var (
	DaysWeekday = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}
	DaysWeekend = []Day{Saturday, Sunday}
	DaysAll     = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
)

func (d Day) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayAbbr[d]
}

// Clock 距午夜的分钟数, 取值 0..1440 (1440 即 24:00)
type Clock int

const EndOfDay Clock = 24 * 60

// ParseClock 按 layout 解析时间，额外接受 "24:00"
func ParseClock(token, layout string) (Clock, error) {
	token = strings.TrimSpace(token)
	if token == "24:00" {
		return EndOfDay, nil
	}
	t, err := time.Parse(layout, token)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", token, err)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Interval 一个营业时段。不校验 Open < Close
type Interval struct {
	Open  Clock
	Close Clock
}

func (i Interval) String() string {
	return i.Open.String() + "-" + i.Close.String()
}

// OpeningHours 每周营业时间表。map 中不存在的日期视为全天关闭
type OpeningHours struct {
	days map[Day][]Interval
}

func New() *OpeningHours {
	return &OpeningHours{days: make(map[Day][]Interval)}
}

// AddRange 为某一天增加一个时段，时段按开门时间排序，完全相同的时段只保留一个
func (oh *OpeningHours) AddRange(day Day, open, close string, layout string) error {
	if day < Monday || day > Sunday {
		return fmt.Errorf("invalid day %d", int(day))
	}
	o, err := ParseClock(open, layout)
	if err != nil {
		return err
	}
	c, err := ParseClock(close, layout)
	if err != nil {
		return err
	}
	oh.add(day, Interval{Open: o, Close: c})
	return nil
}

// AddDaysRange 将同一个时段应用到多天；任何一个时间无法解析时不做任何修改
func (oh *OpeningHours) AddDaysRange(days []Day, open, close string, layout string) error {
	o, err := ParseClock(open, layout)
	if err != nil {
		return err
	}
	c, err := ParseClock(close, layout)
	if err != nil {
		return err
	}
	for _, d := range days {
		if d < Monday || d > Sunday {
			return fmt.Errorf("invalid day %d", int(d))
		}
	}
	for _, d := range days {
		oh.add(d, Interval{Open: o, Close: c})
	}
	return nil
}

func (oh *OpeningHours) add(day Day, in Interval) {
	if oh.days == nil {
		oh.days = make(map[Day][]Interval)
	}
	for _, existing := range oh.days[day] {
		if existing == in {
			return
		}
	}
	list := append(oh.days[day], in)
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Open != list[j].Open {
			return list[i].Open < list[j].Open
		}
		return list[i].Close < list[j].Close
	})
	oh.days[day] = list
}

// Day 返回某一天的时段副本
func (oh *OpeningHours) Day(d Day) []Interval {
	list := oh.days[d]
	if len(list) == 0 {
		return nil
	}
	out := make([]Interval, len(list))
	copy(out, list)
	return out
}

func (oh *OpeningHours) IsClosed(d Day) bool {
	return len(oh.days[d]) == 0
}

// Days 返回有营业时段的日期，按周一到周日排序
func (oh *OpeningHours) Days() []Day {
	var out []Day
	for _, d := range DaysAll {
		if !oh.IsClosed(d) {
			out = append(out, d)
		}
	}
	return out
}

func (oh *OpeningHours) Equal(other *OpeningHours) bool {
	for _, d := range DaysAll {
		if !sameIntervals(oh.days[d], other.days[d]) {
			return false
		}
	}
	return true
}

func sameIntervals(a, b []Interval) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// AsOpeningHours 序列化为 OSM opening_hours 语法，如 "Mo-Fr 09:00-12:00,13:00-17:00; Sa 09:00-13:00"
func (oh *OpeningHours) AsOpeningHours() string {
	if oh.isAlwaysOpen() {
		return "24/7"
	}

	var groups []string
	for i := 0; i < len(DaysAll); {
		start := DaysAll[i]
		if oh.IsClosed(start) {
			i++
			continue
		}
		j := i
		for j+1 < len(DaysAll) && sameIntervals(oh.days[DaysAll[j+1]], oh.days[start]) {
			j++
		}

		ranges := make([]string, 0, len(oh.days[start]))
		for _, in := range oh.days[start] {
			ranges = append(ranges, in.String())
		}

		label := start.String()
		if j > i {
			label += "-" + DaysAll[j].String()
		}
		groups = append(groups, label+" "+strings.Join(ranges, ","))
		i = j + 1
	}
	return strings.Join(groups, "; ")
}

func (oh *OpeningHours) isAlwaysOpen() bool {
	full := []Interval{{Open: 0, Close: EndOfDay}}
	for _, d := range DaysAll {
		if !sameIntervals(oh.days[d], full) {
			return false
		}
	}
	return true
}
