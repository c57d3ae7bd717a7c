package ptt

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Nrich-sunny/ptt-crawler/collect"
	"github.com/Nrich-sunny/ptt-crawler/engine"
	"github.com/Nrich-sunny/ptt-crawler/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI 模拟两个省、各一个区、各一个街区的接口
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(provincesPath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"Kod":34,"Ad":"  İSTANBUL "},{"Kod":6,"Ad":"ANKARA"},{"Ad":"NO ID"}]`)
	})
	mux.HandleFunc(districtsPath, func(w http.ResponseWriter, r *http.Request) {
		switch r.PostFormValue(keyProvince) {
		case "34":
			fmt.Fprint(w, `[{"Kod":1421,"Ad":"KADIKÖY"}]`)
		case "6":
			fmt.Fprint(w, `[{"Kod":1231,"Ad":"ÇANKAYA"}]`)
		default:
			fmt.Fprint(w, `[]`)
		}
	})
	mux.HandleFunc(neighborhoodsPath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"Kod":%s0,"Ad":"MERKEZ"}]`, r.PostFormValue(keyDistrict))
	})
	mux.HandleFunc(postOfficesPath, func(w http.ResponseWriter, r *http.Request) {
		if r.PostFormValue(keyNeighborhood) == "" {
			http.Error(w, "missing mahKoyID", http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `[
			{"Sira":%[1]s1,"Ad":"MERKEZ   PTT","Adres":"Adres %[1]s","Telefon":"0312 000","HaftaIci":"08:30-12:30/13:30-17:30","Cumartesi":"KAPALI","Pazar":"KAPALI"},
			{"Sira":%[1]s2,"Ad":"ŞUBE PTT","Adres":"Adres %[1]s","Telefon":"0312 001","HaftaIci":"09:00-17:00","Cumartesi":"09:00-12:00","Pazar":"KAPALI"}
		]`, r.PostFormValue(keyDistrict))
	})
	mux.HandleFunc(parcelLockersPath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"Sira":"K%s","Ad":"KARGOMAT","Adres":"AVM"}]`, r.PostFormValue(keyNeighborhood))
	})
	return httptest.NewServer(mux)
}

type memStorage struct {
	mu    sync.Mutex
	cells []*storage.DataCell
}

func (m *memStorage) Save(datas ...*storage.DataCell) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cells = append(m.cells, datas...)
	return nil
}

func (m *memStorage) Flush() error { return nil }

func (m *memStorage) byRef() map[string]map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]map[string]interface{})
	for _, c := range m.cells {
		fields := c.Fields()
		out[fields["ref"].(string)] = fields
	}
	return out
}

func crawl(t *testing.T, tasks ...*collect.Task) {
	t.Helper()
	c := engine.NewEngine(
		engine.WithFetcher(collect.BrowserFetch{Timeout: 2 * time.Second}),
		engine.WithWorkCount(4),
		engine.WithSeeds(tasks),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, c.Run(ctx))
}

func TestPostOfficeCrawl(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	store := &memStorage{}
	crawl(t, NewPostOfficeTask(collect.WithUrl(srv.URL), collect.WithStorage(store)))

	items := store.byRef()
	require.Len(t, items, 4, "every facility in a response is emitted")

	kadikoy := items["14211"]
	require.NotNil(t, kadikoy)
	assert.Equal(t, "MERKEZ PTT", kadikoy["name"])
	assert.Equal(t, "İSTANBUL", kadikoy["state"])
	assert.Equal(t, "KADIKÖY", kadikoy["city"])
	assert.Equal(t, "Adres 1421", kadikoy["addr_full"])
	assert.Equal(t, "0312 000", kadikoy["phone"])
	assert.Equal(t, "Mo-Fr 08:30-12:30,13:30-17:30", kadikoy["opening_hours"])
	assert.Equal(t, Brand, kadikoy["brand"])
	assert.Equal(t, BrandWikidata, kadikoy["brand_wikidata"])
	assert.Equal(t, map[string]string{"amenity": "post_office"}, kadikoy["extras"])

	cankaya := items["12312"]
	require.NotNil(t, cankaya)
	assert.Equal(t, "ANKARA", cankaya["state"])
	assert.Equal(t, "ÇANKAYA", cankaya["city"])
	assert.Equal(t, "Mo-Fr 09:00-17:00; Sa 09:00-12:00", cankaya["opening_hours"])
}

func TestParcelLockerCrawl(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	store := &memStorage{}
	crawl(t, NewParcelLockerTask(collect.WithUrl(srv.URL), collect.WithStorage(store)))

	items := store.byRef()
	var refs []string
	for ref := range items {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	assert.Equal(t, []string{"K12310", "K14210"}, refs)

	locker := items["K14210"]
	assert.Equal(t, "KARGOMAT", locker["name"])
	assert.Equal(t, "İSTANBUL", locker["state"])
	assert.Equal(t, "", locker["phone"])
	assert.Equal(t, "", locker["opening_hours"])
	assert.Equal(t, map[string]string{"amenity": "parcel_locker"}, locker["extras"])
}

func TestBothSpidersShareOneEngine(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	offices, lockers := &memStorage{}, &memStorage{}
	crawl(t,
		NewPostOfficeTask(collect.WithUrl(srv.URL), collect.WithStorage(offices)),
		NewParcelLockerTask(collect.WithUrl(srv.URL), collect.WithStorage(lockers)),
	)

	assert.Len(t, offices.byRef(), 4, "post offices")
	assert.Len(t, lockers.byRef(), 2, "parcel lockers")
	assert.Equal(t, "İSTANBUL", lockers.byRef()["K14210"]["state"])
}

func TestTasksHaveIndependentDirectories(t *testing.T) {
	a := NewPostOfficeTask()
	b := NewPostOfficeTask()

	ctx := &collect.Context{
		Body: []byte(`[{"Kod":34,"Ad":"İSTANBUL"}]`),
		Req:  &collect.Request{Task: a, RuleName: RuleProvinces},
	}
	res, err := a.Rule.Trunk[RuleProvinces].ParseFunc(ctx)
	require.NoError(t, err)
	require.Len(t, res.Requests, 1)

	districtReq := res.Requests[0]
	assert.Equal(t, BaseURL+districtsPath, districtReq.Url)
	assert.Equal(t, "POST", districtReq.Method)
	assert.Equal(t, "34", districtReq.Form.Get(keyProvince))
	assert.Equal(t, "34", districtReq.TempData.GetString(keyProvince))

	// 另一个任务没有见过该省份，网点的 state 为空
	facilityReq := &collect.Request{Task: b, RuleName: RuleFacilities, TempData: &collect.Temp{}}
	facilityReq.TempData.Set(keyProvince, "34")
	facilityReq.TempData.Set(keyDistrict, "1421")
	res, err = b.Rule.Trunk[RuleFacilities].ParseFunc(&collect.Context{
		Body: []byte(`[{"Sira":1,"Ad":"PTT"}]`),
		Req:  facilityReq,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	fields := res.Items[0].(*storage.DataCell).Fields()
	assert.Equal(t, "", fields["state"])
	assert.Equal(t, "", fields["city"])
}

func TestFacilitiesRejectsNonJSON(t *testing.T) {
	task := NewParcelLockerTask()
	_, err := task.Rule.Trunk[RuleFacilities].ParseFunc(&collect.Context{
		Body: []byte(`<html>maintenance</html>`),
		Req:  &collect.Request{Task: task, RuleName: RuleFacilities, TempData: &collect.Temp{}},
	})
	assert.Error(t, err)
}

func TestDirectoryConcurrentAccess(t *testing.T) {
	dir := NewDirectory()
	var wg sync.WaitGroup
	for p := 0; p < 10; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			provinceID := fmt.Sprint(p)
			dir.AddProvince(provinceID, "P"+provinceID)
			for d := 0; d < 20; d++ {
				dir.AddDistrict(provinceID, fmt.Sprint(d), fmt.Sprintf("D%d-%d", p, d))
				dir.District(provinceID, fmt.Sprint(d))
			}
		}(p)
	}
	wg.Wait()

	provinces, districts := dir.Len()
	assert.Equal(t, 10, provinces)
	assert.Equal(t, 200, districts)

	name, ok := dir.District("3", "7")
	assert.True(t, ok)
	assert.Equal(t, "D3-7", name)

	_, ok = dir.Province("99")
	assert.False(t, ok)
}

func TestDistrictBeforeProvince(t *testing.T) {
	dir := NewDirectory()
	dir.AddDistrict("34", "1421", "KADIKÖY")

	_, ok := dir.Province("34")
	assert.False(t, ok)

	dir.AddProvince("34", "İSTANBUL")
	name, ok := dir.District("34", "1421")
	assert.True(t, ok)
	assert.Equal(t, "KADIKÖY", name)
}

func TestCleanStr(t *testing.T) {
	assert.Equal(t, "KADIKÖY MERKEZ PTT", CleanStr("  KADIKÖY\t MERKEZ\n PTT "))
	assert.Equal(t, "", CleanStr("   "))
}
