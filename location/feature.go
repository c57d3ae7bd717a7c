// Package location 定义统一的地点输出记录，以及从原始 JSON 对象到记录的通用映射
package location

import (
	"strconv"
)

// Feature 一个实体地点的标准化记录
type Feature struct {
	Ref           string
	Name          string
	AddrFull      string
	StreetAddress string
	City          string
	State         string
	Postcode      string
	Country       string
	Phone         string
	Email         string
	Website       string
	Lat           *float64
	Lon           *float64
	OpeningHours  string
	Brand         string
	BrandWikidata string
	Extras        map[string]string // 分类标签等 OSM 风格的附加属性
}

// 输出字段顺序，同时作为建表的列
var fields = []string{
	"ref",
	"name",
	"addr_full",
	"street_address",
	"city",
	"state",
	"postcode",
	"country",
	"phone",
	"email",
	"website",
	"lat",
	"lon",
	"opening_hours",
	"brand",
	"brand_wikidata",
	"extras",
}

// Fields 返回输出字段名
func Fields() []string {
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// AsMap 转为输出数据，坐标缺失时为空字符串
func (f *Feature) AsMap() map[string]interface{} {
	extras := make(map[string]string, len(f.Extras))
	for k, v := range f.Extras {
		extras[k] = v
	}
	return map[string]interface{}{
		"ref":            f.Ref,
		"name":           f.Name,
		"addr_full":      f.AddrFull,
		"street_address": f.StreetAddress,
		"city":           f.City,
		"state":          f.State,
		"postcode":       f.Postcode,
		"country":        f.Country,
		"phone":          f.Phone,
		"email":          f.Email,
		"website":        f.Website,
		"lat":            formatCoord(f.Lat),
		"lon":            formatCoord(f.Lon),
		"opening_hours":  f.OpeningHours,
		"brand":          f.Brand,
		"brand_wikidata": f.BrandWikidata,
		"extras":         extras,
	}
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// SetExtra 设置附加属性
func (f *Feature) SetExtra(key, value string) {
	if f.Extras == nil {
		f.Extras = make(map[string]string)
	}
	f.Extras[key] = value
}
