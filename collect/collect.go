package collect

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Nrich-sunny/ptt-crawler/extensions"
	"github.com/Nrich-sunny/ptt-crawler/proxy"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type Fetcher interface {
	Get(req *Request) ([]byte, error)
}

// BrowserFetch 模拟浏览器访问，支持 GET 与表单 POST
type BrowserFetch struct {
	Timeout time.Duration
	Proxy   proxy.ProxyFunc // 是 Transport 结构体中的函数
	Logger  *zap.Logger
}

func (b BrowserFetch) Get(request *Request) ([]byte, error) {
	client := &http.Client{
		Timeout: b.Timeout,
	}

	if b.Proxy != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = b.Proxy // 将其替换为自定义的代理函数
		client.Transport = transport
	}

	method := request.Method
	if method == "" {
		method = methodFor(request.Form)
	}

	var body io.Reader
	if request.Form != nil {
		body = strings.NewReader(request.Form.Encode())
	}

	req, err := http.NewRequest(method, request.Url, body)
	if err != nil {
		return nil, fmt.Errorf("get url failed:%w", err)
	}
	if request.Form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	}
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if request.Task != nil && len(request.Task.Cookie) > 0 {
		req.Header.Set("Cookie", request.Task.Cookie)
	}
	req.Header.Set("User-Agent", extensions.GenerateRandomUA())

	resp, err := client.Do(req)
	if err != nil {
		b.logger().Error("fetch failed", zap.String("url", request.Url), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch %s %s: unexpected status code %d", method, request.Url, resp.StatusCode)
	}

	bodyReader := bufio.NewReader(resp.Body)
	e := DetermineEncoding(bodyReader, resp.Header.Get("Content-Type"))
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())
	return io.ReadAll(utf8Reader)
}

func (b BrowserFetch) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// DetermineEncoding 根据前 1024 字节和 Content-Type 推断编码
func DetermineEncoding(r *bufio.Reader, contentType string) encoding.Encoding {
	bytes, err := r.Peek(1024)

	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		zap.L().Debug("peek body failed", zap.Error(err))
		return unicode.UTF8
	}

	e, _, _ := charset.DetermineEncoding(bytes, contentType)
	return e
}
