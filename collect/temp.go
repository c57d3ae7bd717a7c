package collect

// Temp 请求之间传递的临时数据
type Temp struct {
	data map[string]interface{}
}

// Get 返回临时缓存数据，不存在时返回 nil
func (t *Temp) Get(key string) interface{} {
	if t == nil || t.data == nil {
		return nil
	}
	return t.data[key]
}

// GetString 以字符串形式读取
func (t *Temp) GetString(key string) string {
	s, _ := t.Get(key).(string)
	return s
}

func (t *Temp) Set(key string, value interface{}) error {
	if t.data == nil {
		t.data = make(map[string]interface{}, 8)
	}
	t.data[key] = value
	return nil
}
