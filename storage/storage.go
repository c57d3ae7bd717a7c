package storage

// DataCell 一条输出数据。Data 中固定包含 Task、Rule、Data、Url、Time 等键
type DataCell struct {
	Columns []string // 条目字段名，来自 Rule.ItemFields，决定建表的列
	Data    map[string]interface{}
}

// GetTableName 以任务名作为表名
func (d *DataCell) GetTableName() string {
	return d.GetTaskName()
}

func (d *DataCell) GetTaskName() string {
	name, _ := d.Data["Task"].(string)
	return name
}

func (d *DataCell) GetRuleName() string {
	name, _ := d.Data["Rule"].(string)
	return name
}

// Fields 返回实际的条目数据
func (d *DataCell) Fields() map[string]interface{} {
	fields, _ := d.Data["Data"].(map[string]interface{})
	return fields
}

type Storage interface {
	Save(datas ...*DataCell) error
	Flush() error // 将缓冲中的数据全部写出
}
