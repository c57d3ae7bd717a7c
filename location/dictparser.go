package location

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// 各字段可接受的键名（小写），包括常见的土耳其语键名
var (
	refKeys      = []string{"ref", "id", "store_id", "storeid", "kod", "sira"}
	nameKeys     = []string{"name", "title", "ad", "adi"}
	addrKeys     = []string{"address", "addr_full", "full_address", "adres"}
	streetKeys   = []string{"street_address", "street", "address1", "sokak", "cadde"}
	cityKeys     = []string{"city", "town", "ilce", "ilce_adi"}
	stateKeys    = []string{"state", "province", "region", "il", "il_adi"}
	postcodeKeys = []string{"postcode", "postal_code", "zip", "zipcode", "postakodu", "posta_kodu"}
	countryKeys  = []string{"country", "country_code", "ulke"}
	phoneKeys    = []string{"phone", "telephone", "tel", "phone_number", "telefon"}
	emailKeys    = []string{"email", "e_mail", "mail", "eposta", "e_posta"}
	websiteKeys  = []string{"website", "url", "web", "web_site"}
	latKeys      = []string{"lat", "latitude", "enlem"}
	lonKeys      = []string{"lon", "lng", "long", "longitude", "boylam"}
)

// DictParse 按字段名把原始对象映射为 Feature，类型尽量转换，无法转换的字段留空
func DictParse(obj map[string]interface{}) *Feature {
	lookup := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		lookup[normalizeKey(k)] = v
	}

	f := &Feature{
		Ref:           getString(lookup, refKeys),
		Name:          getString(lookup, nameKeys),
		AddrFull:      getString(lookup, addrKeys),
		StreetAddress: getString(lookup, streetKeys),
		City:          getString(lookup, cityKeys),
		State:         getString(lookup, stateKeys),
		Postcode:      getString(lookup, postcodeKeys),
		Country:       getString(lookup, countryKeys),
		Phone:         getString(lookup, phoneKeys),
		Email:         getString(lookup, emailKeys),
		Website:       getString(lookup, websiteKeys),
		Lat:           getFloat(lookup, latKeys),
		Lon:           getFloat(lookup, lonKeys),
	}
	return f
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.NewReplacer("-", "_", " ", "_").Replace(k)
	return k
}

func getString(lookup map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if v, ok := lookup[k]; ok {
			if s := toString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func getFloat(lookup map[string]interface{}, keys []string) *float64 {
	for _, k := range keys {
		v, ok := lookup[k]
		if !ok {
			continue
		}
		s := strings.Replace(toString(v), ",", ".", 1)
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		return &f
	}
	return nil
}

// ToString 尽力把 JSON 值转换为字符串
func ToString(v interface{}) string {
	return toString(v)
}

func toString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case json.Number:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	case map[string]interface{}, []interface{}:
		return ""
	default:
		return fmt.Sprint(value)
	}
}
