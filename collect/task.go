package collect

// Task 整个任务实例，所有请求共享的参数
type Task struct {
	Rule RuleTree // 任务中的规则
	Options
}

type TaskConfig struct {
	Name     string
	Url      string
	Cookie   string
	WaitTime int64
	Reload   bool
	MaxDepth int
	Retry    int
	Fetcher  string
	Limits   []LimitConfig
}

type LimitConfig struct {
	EventCount int
	EventDur   int // 秒
	Bucket     int // 桶大小
}

func NewTask(opts ...Option) *Task {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	t := &Task{}
	t.Options = options

	return t
}
