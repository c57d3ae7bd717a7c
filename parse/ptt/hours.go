package ptt

import (
	"strings"

	"github.com/Nrich-sunny/ptt-crawler/hours"
	"github.com/Nrich-sunny/ptt-crawler/location"
)

// Closed 表示该组日期全天关闭，区分大小写
const Closed = "KAPALI"

const clockLayout = "15:04"

// ParseOpeningHours 将周一至周五、周六、周日三段营业时间文本转换为每周时间表。
// 每段文本为 Closed 或以 "/" 分隔的若干 "HH:MM-HH:MM"。
// 格式不对的片段直接丢弃，不返回错误
func ParseOpeningHours(weekday, saturday, sunday string) *hours.OpeningHours {
	oh := hours.New()
	weekday = strings.TrimSpace(weekday)
	saturday = strings.TrimSpace(saturday)
	sunday = strings.TrimSpace(sunday)

	if weekday != Closed {
		parseHoursStr(weekday, oh, hours.DaysWeekday)
	}
	if saturday != Closed {
		parseHoursStr(saturday, oh, []hours.Day{hours.Saturday})
	}
	if sunday != Closed {
		parseHoursStr(sunday, oh, []hours.Day{hours.Sunday})
	}

	return oh
}

func parseHoursStr(hourStr string, oh *hours.OpeningHours, days []hours.Day) {
	for _, hourRangeStr := range strings.Split(hourStr, "/") {
		elements := strings.Split(strings.TrimSpace(hourRangeStr), "-")
		if len(elements) != 2 {
			continue
		}
		// 时间无法解析时同样丢弃该片段
		_ = oh.AddDaysRange(days, elements[0], elements[1], clockLayout)
	}
}

// FacilityOpeningHours 读取网点对象中的 HaftaIci、Cumartesi、Pazar 字段
func FacilityOpeningHours(item map[string]interface{}) *hours.OpeningHours {
	return ParseOpeningHours(
		location.ToString(item["HaftaIci"]),
		location.ToString(item["Cumartesi"]),
		location.ToString(item["Pazar"]),
	)
}
