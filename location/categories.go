package location

// Category 一组 OSM 标签
type Category map[string]string

var (
	PostOffice   = Category{"amenity": "post_office"}
	ParcelLocker = Category{"amenity": "parcel_locker"}
)

// ApplyCategory 把分类标签写入记录的附加属性，已有的同名标签会被覆盖
func ApplyCategory(cat Category, f *Feature) {
	for k, v := range cat {
		f.SetExtra(k, v)
	}
}
