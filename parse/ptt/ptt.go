// Package ptt 爬取土耳其邮政 (PTT) "最近网点" 接口，按 省 → 区 → 街区 → 网点 逐级发现邮局与快递柜
package ptt

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/Nrich-sunny/ptt-crawler/collect"
	"github.com/Nrich-sunny/ptt-crawler/location"
	"go.uber.org/zap"
)

const BaseURL = "https://enyakinptt.ptt.gov.tr"

const (
	provincesPath     = "/EnYakinPTT/Home/getirTumIller"
	districtsPath     = "/EnYakinPTT/Home/getirIlcelerIlIDden"
	neighborhoodsPath = "/EnYakinPTT/Home/getirMahKoyIlceden"
)

// 规则名
const (
	RuleProvinces     = "provinces"
	RuleDistricts     = "districts"
	RuleNeighborhoods = "neighborhoods"
	RuleFacilities    = "facilities"
)

const (
	keyProvince     = "ilID"
	keyDistrict     = "ilceID"
	keyNeighborhood = "mahKoyID"
)

const (
	Brand         = "PTT"
	BrandWikidata = "Q3079259"
)

// Node 行政区划节点。省的 Kod 与土耳其车牌省份编号一致 (0-81)
type Node struct {
	Kod json.Number `json:"Kod"`
	Ad  string      `json:"Ad"`
}

// CleanStr 合并连续空白并去掉首尾空白
func CleanStr(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// facilityMapper 在通用映射之后补充网点类型特有的字段
type facilityMapper func(item map[string]interface{}, f *location.Feature)

// walker 按行政区划逐级发出请求，每个任务实例拥有独立的 Directory
type walker struct {
	dir          *Directory
	facilityPath string
	category     location.Category
	mapFacility  facilityMapper
}

func newTask(name, facilityPath string, category location.Category, mapFacility facilityMapper, opts ...collect.Option) *collect.Task {
	opts = append([]collect.Option{collect.WithName(name), collect.WithUrl(BaseURL)}, opts...)
	task := collect.NewTask(opts...)

	w := &walker{
		dir:          NewDirectory(),
		facilityPath: facilityPath,
		category:     category,
		mapFacility:  mapFacility,
	}
	task.Rule = collect.RuleTree{
		Root: func() ([]*collect.Request, error) {
			return []*collect.Request{{
				Url:      strings.TrimRight(task.Url, "/") + provincesPath,
				Method:   "GET",
				RuleName: RuleProvinces,
				Reload:   task.Reload,
			}}, nil
		},
		Trunk: map[string]*collect.Rule{
			RuleProvinces:     {ParseFunc: w.parseProvinces},
			RuleDistricts:     {ParseFunc: w.parseDistricts},
			RuleNeighborhoods: {ParseFunc: w.parseNeighborhoods},
			RuleFacilities: {
				ItemFields: location.Fields(),
				ParseFunc:  w.parseFacilities,
			},
		},
	}
	return task
}

func endpoint(req *collect.Request, path string) string {
	return strings.TrimRight(req.Task.Url, "/") + path
}

func parseNodes(ctx *collect.Context) ([]Node, error) {
	var nodes []Node
	if err := ctx.JSON(&nodes); err != nil {
		return nil, err
	}
	valid := nodes[:0]
	for _, n := range nodes {
		if n.Kod.String() == "" {
			zap.L().Warn("node without id", zap.String("rule", ctx.Req.RuleName), zap.String("name", n.Ad))
			continue
		}
		valid = append(valid, n)
	}
	return valid, nil
}

func (w *walker) parseProvinces(ctx *collect.Context) (collect.ParseResult, error) {
	nodes, err := parseNodes(ctx)
	if err != nil {
		return collect.ParseResult{}, err
	}

	result := collect.ParseResult{}
	for _, n := range nodes {
		provinceID := n.Kod.String()
		w.dir.AddProvince(provinceID, CleanStr(n.Ad))

		req := ctx.Req.Child(RuleDistricts, endpoint(ctx.Req, districtsPath), url.Values{keyProvince: {provinceID}})
		req.TempData.Set(keyProvince, provinceID)
		result.Requests = append(result.Requests, req)
	}
	zap.S().Debugln("parse provinces, count:", len(result.Requests))
	return result, nil
}

func (w *walker) parseDistricts(ctx *collect.Context) (collect.ParseResult, error) {
	nodes, err := parseNodes(ctx)
	if err != nil {
		return collect.ParseResult{}, err
	}

	provinceID := ctx.Req.TempData.GetString(keyProvince)
	result := collect.ParseResult{}
	for _, n := range nodes {
		districtID := n.Kod.String()
		w.dir.AddDistrict(provinceID, districtID, CleanStr(n.Ad))

		req := ctx.Req.Child(RuleNeighborhoods, endpoint(ctx.Req, neighborhoodsPath), url.Values{
			keyProvince: {provinceID},
			keyDistrict: {districtID},
		})
		req.TempData.Set(keyProvince, provinceID)
		req.TempData.Set(keyDistrict, districtID)
		result.Requests = append(result.Requests, req)
	}
	zap.S().Debugln("parse districts, province:", provinceID, "count:", len(result.Requests))
	return result, nil
}

func (w *walker) parseNeighborhoods(ctx *collect.Context) (collect.ParseResult, error) {
	nodes, err := parseNodes(ctx)
	if err != nil {
		return collect.ParseResult{}, err
	}

	provinceID := ctx.Req.TempData.GetString(keyProvince)
	districtID := ctx.Req.TempData.GetString(keyDistrict)
	result := collect.ParseResult{}
	for _, n := range nodes {
		neighborhoodID := n.Kod.String()
		req := ctx.Req.Child(RuleFacilities, endpoint(ctx.Req, w.facilityPath), url.Values{
			keyProvince:     {provinceID},
			keyDistrict:     {districtID},
			keyNeighborhood: {neighborhoodID},
		})
		// 网点请求优先处理，尽早产出数据
		req.Priority = 1
		req.TempData.Set(keyProvince, provinceID)
		req.TempData.Set(keyDistrict, districtID)
		req.TempData.Set(keyNeighborhood, neighborhoodID)
		result.Requests = append(result.Requests, req)
	}
	return result, nil
}

func (w *walker) parseFacilities(ctx *collect.Context) (collect.ParseResult, error) {
	var items []map[string]interface{}
	if err := ctx.JSON(&items); err != nil {
		return collect.ParseResult{}, err
	}

	provinceID := ctx.Req.TempData.GetString(keyProvince)
	districtID := ctx.Req.TempData.GetString(keyDistrict)
	state, ok := w.dir.Province(provinceID)
	if !ok {
		ctx.Req.Task.Logger.Warn("unknown province", zap.String("ilID", provinceID))
	}
	city, ok := w.dir.District(provinceID, districtID)
	if !ok {
		ctx.Req.Task.Logger.Warn("unknown district", zap.String("ilID", provinceID), zap.String("ilceID", districtID))
	}

	result := collect.ParseResult{}
	for _, item := range items {
		f := location.DictParse(item)
		f.Ref = location.ToString(item["Sira"])
		f.Name = CleanStr(location.ToString(item["Ad"]))
		f.AddrFull = location.ToString(item["Adres"])
		f.State = state
		f.City = city
		f.Country = "TR"
		f.Brand = Brand
		f.BrandWikidata = BrandWikidata
		if w.mapFacility != nil {
			w.mapFacility(item, f)
		}
		location.ApplyCategory(w.category, f)

		result.Items = append(result.Items, ctx.Output(f.AsMap()))
	}
	return result, nil
}
