package ptt

import "sync"

// Directory 记录爬取过程中发现的省、区名称，按编号索引。
// 各级响应可能由不同 worker 并发处理，因此读写都需要加锁；条目在任务生命周期内不会被删除
type Directory struct {
	mu        sync.RWMutex
	provinces map[string]*province
}

type province struct {
	name      string
	districts map[string]string
}

func NewDirectory() *Directory {
	return &Directory{provinces: make(map[string]*province)}
}

func (d *Directory) AddProvince(id, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.provinces[id]
	if !ok {
		p = &province{districts: make(map[string]string)}
		d.provinces[id] = p
	}
	p.name = name
}

// AddDistrict 省份尚未登记时也会创建占位条目
func (d *Directory) AddDistrict(provinceID, id, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.provinces[provinceID]
	if !ok {
		p = &province{districts: make(map[string]string)}
		d.provinces[provinceID] = p
	}
	p.districts[id] = name
}

func (d *Directory) Province(id string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.provinces[id]
	if !ok || p.name == "" {
		return "", false
	}
	return p.name, true
}

func (d *Directory) District(provinceID, id string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.provinces[provinceID]
	if !ok {
		return "", false
	}
	name, ok := p.districts[id]
	return name, ok
}

// Len 返回已登记的省份与区的数量
func (d *Directory) Len() (provinces, districts int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.provinces {
		provinces++
		districts += len(p.districts)
	}
	return provinces, districts
}
