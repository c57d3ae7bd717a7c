package collect

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Nrich-sunny/ptt-crawler/storage"
)

type Context struct {
	Body []byte
	Req  *Request
}

// JSON 将响应体解码到 v，数字保留为 json.Number
func (c *Context) JSON(v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", c.Req.RuleName, err)
	}
	return nil
}

// Output 将解析出的条目包装为 DataCell，附带任务名、规则名、请求地址和抓取时间
func (c *Context) Output(data interface{}) *storage.DataCell {
	res := &storage.DataCell{}
	res.Data = make(map[string]interface{})
	res.Data["Task"] = c.Req.Task.Name
	res.Data["Rule"] = c.Req.RuleName
	res.Data["Data"] = data
	res.Data["Url"] = c.Req.Url
	res.Data["Time"] = time.Now().Format("2006-01-02 15:04:05")
	res.Data["CrawlID"] = c.Req.Task.CrawlID
	if rule, ok := c.Req.Task.Rule.Trunk[c.Req.RuleName]; ok {
		res.Columns = rule.ItemFields
	}
	return res
}

// Request 单个请求
type Request struct {
	Task     *Task
	Url      string     // 这里存的是单个请求对应的 url
	Method   string
	Form     url.Values // 非空时以表单形式 POST
	Depth    int        // 该请求对应的深度
	Priority int        // 请求的优先级, 值越大优先级越高（目前只有两个优先级：0 和 大于0）
	RuleName string     // 该请求对应的规则名
	TempData *Temp      // 在父子请求之间传递的上下文
	Reload   bool       // 是否可以重复请求
	Retries  int        // 已重试次数
}

type ParseResult struct {
	Requests []*Request    // 进一步要爬取的 Requests 列表
	Items    []interface{} // 获取到的数据
}

func (r *Request) Check() error {
	if r.Task.MaxDepth > 0 && r.Depth > r.Task.MaxDepth {
		return errors.New("max depth limit reached")
	}
	return nil
}

// Unique 请求的唯一标识码，任务名与表单参数也参与计算。
// 不同任务发出的相同请求互不去重
func (r *Request) Unique() string {
	var task string
	if r.Task != nil {
		task = r.Task.Name
	}
	block := md5.Sum([]byte(task + "\x00" + r.Method + r.Url + r.Form.Encode()))
	return hex.EncodeToString(block[:])
}

// Child 基于当前请求派生下一层请求，继承任务与深度
func (r *Request) Child(ruleName, u string, form url.Values) *Request {
	return &Request{
		Task:     r.Task,
		Url:      u,
		Method:   methodFor(form),
		Form:     form,
		Depth:    r.Depth + 1,
		RuleName: ruleName,
		Reload:   r.Task.Reload,
		TempData: &Temp{},
	}
}

func methodFor(form url.Values) string {
	if form != nil {
		return "POST"
	}
	return "GET"
}
