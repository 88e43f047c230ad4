package errx

import (
	"errors"
	"fmt"
	"testing"
)

type testReason string

func (r testReason) ReasonCode() string { return string(r) }

func TestError_Is_同code视为同一语义(t *testing.T) {
	a := NewBiz("RAID_X", "a").WithData("k", 1).WithCause(errors.New("c1"))
	b := NewBiz("RAID_X", "b")
	if !errors.Is(a, b) {
		t.Fatalf("期望 errors.Is 只按 code 判断，a=%v b=%v", a, b)
	}
	if errors.Is(a, NewBiz("RAID_Y", "a")) {
		t.Fatalf("期望不同 code 不相等")
	}
}

func TestError_业务错误不带栈(t *testing.T) {
	cause := errors.New("roster missing")
	err := NewBiz("RAID_EMPTY_ARMY", "没有可出战的部队").WithCause(cause)
	if err.Stack() != nil {
		t.Fatalf("期望业务错误不捕获栈")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望 cause 链可追溯，err=%v", err)
	}
	if !err.IsBiz() {
		t.Fatalf("期望 IsBiz()==true")
	}
}

func TestError_系统错误只在最底层捕获一次栈(t *testing.T) {
	inner := NewSys("SYS_MYSQL", "存储不可用").WithCause(errors.New("conn refused"))
	if len(inner.Stack()) == 0 {
		t.Fatalf("期望系统错误首次挂 cause 时捕获栈")
	}
	outer := ErrUnavailable.WithCause(inner)
	if outer.Stack() != nil {
		t.Fatalf("期望外层不重复捕获栈，got=%d 帧", len(outer.Stack()))
	}
}

func TestError_哨兵派生不污染原对象(t *testing.T) {
	derived := ErrInvalidParam.WithData("field", "x").WithReason(testReason("BAD_TILE"))
	if ErrInvalidParam.Data() != nil {
		t.Fatalf("期望哨兵错误 data 保持为空，got=%v", ErrInvalidParam.Data())
	}
	if derived.Reason() != "BAD_TILE" {
		t.Fatalf("期望 reason=BAD_TILE，got=%q", derived.Reason())
	}
	m := map[string]any{"k": "v"}
	e := NewBiz("X", "").WithDataMap(m)
	m["k"] = "changed"
	if e.Data()["k"] != "v" {
		t.Fatalf("期望 WithDataMap 复制入参")
	}
}

func TestFromError_能穿透fmt包装(t *testing.T) {
	wrapped := fmt.Errorf("start raid: %w", ErrUnauthorized)
	e, ok := FromError(wrapped)
	if !ok || e.Code() != CodeUnauthorized {
		t.Fatalf("期望取到 UNAUTHORIZED，got=%v ok=%v", e, ok)
	}
	if _, ok := FromError(errors.New("plain")); ok {
		t.Fatalf("期望普通错误取不到 *Error")
	}
}
