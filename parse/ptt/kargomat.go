package ptt

import (
	"github.com/Nrich-sunny/ptt-crawler/collect"
	"github.com/Nrich-sunny/ptt-crawler/location"
)

const ParcelLockerTaskName = "ptt_kargomat_tr"

const parcelLockersPath = "/EnYakinPTT/Home/getirKargomat"

// NewParcelLockerTask 爬取 PTT Kargomat 快递柜
func NewParcelLockerTask(opts ...collect.Option) *collect.Task {
	return newTask(ParcelLockerTaskName, parcelLockersPath, location.ParcelLocker, nil, opts...)
}
