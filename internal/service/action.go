package service

// Action 用户行为信号的封闭枚举。
// 新增行为时扩展枚举和增量表，不做字符串散装匹配
type Action int8

const (
	ActionUnknown Action = iota
	ActionView
	ActionLike
	ActionUnlike
)

// ParseAction 转换传输层的字符串行为，未知行为返回 ActionUnknown
func ParseAction(s string) Action {
	switch s {
	case "view":
		return ActionView
	case "like":
		return ActionLike
	case "unlike":
		return ActionUnlike
	default:
		return ActionUnknown
	}
}

func (a Action) String() string {
	switch a {
	case ActionView:
		return "view"
	case ActionLike:
		return "like"
	case ActionUnlike:
		return "unlike"
	default:
		return "unknown"
	}
}

// Increment 行为对应的兴趣分增量表，base 为配置的基础增量
func (a Action) Increment(base float64) float64 {
	switch a {
	case ActionLike:
		return base
	case ActionView:
		return base * 0.5
	case ActionUnlike:
		return -base
	default:
		return 0
	}
}
