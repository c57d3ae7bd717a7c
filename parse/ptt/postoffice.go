package ptt

import (
	"github.com/Nrich-sunny/ptt-crawler/collect"
	"github.com/Nrich-sunny/ptt-crawler/location"
)

const PostOfficeTaskName = "ptt_tr"

const postOfficesPath = "/EnYakinPTT/Home/getirIsyerleri"

// NewPostOfficeTask 爬取 PTT 邮局，输出包含电话与营业时间
func NewPostOfficeTask(opts ...collect.Option) *collect.Task {
	return newTask(PostOfficeTaskName, postOfficesPath, location.PostOffice, mapPostOffice, opts...)
}

func mapPostOffice(item map[string]interface{}, f *location.Feature) {
	f.Phone = location.ToString(item["Telefon"])
	f.OpeningHours = FacilityOpeningHours(item).AsOpeningHours()
}
