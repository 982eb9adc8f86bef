package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/footrule/core"
	"github.com/rushteam/footrule/pkg/conv"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Expr 是编译后的 CEL 表达式，编译一次、对每个 item 求值，可并发使用。
//
// 可用变量：
//   - item.id / item.score / item.features / item.meta
//   - label.<key>：对应 Label 的 Value
//
// 示例：
//   - 指标表达式：`item.features.ctr * 100.0`、`item.features.price * item.features.sales`
//   - 过滤表达式：`item.features.ctr < 0.01`、`label.recall_source == "redis"`
//
// 注意 CEL 不做 int/double 隐式转换，与 double 特征运算时常量要写成 100.0；
// 访问不存在的 key 会报错，可用 `"ctr" in item.features` 先判断。
type Expr struct {
	src string
	prg cel.Program
}

// Compile 编译表达式。
func Compile(expr string) (*Expr, error) {
	if expr == "" {
		return nil, fmt.Errorf("dsl: empty expression")
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: init cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}
	return &Expr{src: expr, prg: prg}, nil
}

// String 返回表达式源码。
func (e *Expr) String() string { return e.src }

// EvalBool 求值并要求结果为 bool。
func (e *Expr) EvalBool(item *core.Item) (bool, error) {
	out, err := e.eval(item)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("dsl: %q must return bool, got %T", e.src, out)
	}
	return b, nil
}

// EvalFloat 求值并要求结果为数值（int/uint/double 都会转为 float64）。
func (e *Expr) EvalFloat(item *core.Item) (float64, error) {
	out, err := e.eval(item)
	if err != nil {
		return 0, err
	}
	f, ok := conv.ToFloat64(out)
	if !ok {
		return 0, fmt.Errorf("dsl: %q must return a number, got %T", e.src, out)
	}
	return f, nil
}

func (e *Expr) eval(item *core.Item) (any, error) {
	if item == nil {
		return nil, fmt.Errorf("dsl: nil item")
	}
	out, _, err := e.prg.Eval(buildInput(item))
	if err != nil {
		return nil, fmt.Errorf("dsl: eval %q on item %s: %w", e.src, item.ID, err)
	}
	return out.Value(), nil
}

func buildInput(item *core.Item) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = v.Value
	}
	features := item.Features
	if features == nil {
		features = map[string]float64{}
	}
	meta := item.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	return map[string]any{
		"item": map[string]any{
			"id":       item.ID,
			"score":    item.Score,
			"features": features,
			"meta":     meta,
		},
		"label": labels,
	}
}
