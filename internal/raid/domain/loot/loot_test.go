package loot

import "testing"

func TestFor_区间公式(t *testing.T) {
	e := For(3)
	if e.Gold != (Range{Min: 170, Max: 340}) {
		t.Fatalf("期望金币 [170,340]，got=%+v", e.Gold)
	}
	if e.Wood != (Range{Min: 105, Max: 210}) {
		t.Fatalf("期望木材 [105,210]，got=%+v", e.Wood)
	}
	if e.Stone != (Range{Min: 65, Max: 130}) {
		t.Fatalf("期望石料 [65,130]，got=%+v", e.Stone)
	}
}

func TestFor_奇数基数向下取整(t *testing.T) {
	// d=1: stone base = 70 -> min 35; wood base 110 -> 55
	e := For(1)
	if e.Stone.Min != 35 || e.Wood.Min != 55 {
		t.Fatalf("got=%+v", e)
	}
	for d := 1; d <= 10; d++ {
		e := For(d)
		for _, r := range []Range{e.Gold, e.Wood, e.Stone} {
			if r.Min > r.Max || r.Min != r.Max/2 {
				t.Fatalf("d=%d 区间非法 %+v", d, r)
			}
		}
	}
}

func TestAt_按比例插值(t *testing.T) {
	e := For(1) // gold [90,180]
	if got := e.At(0).Gold; got != 90 {
		t.Fatalf("pct=0 期望 90，got=%d", got)
	}
	if got := e.At(1).Gold; got != 180 {
		t.Fatalf("pct=1 期望 180，got=%d", got)
	}
	if got := e.At(0.5).Gold; got != 135 {
		t.Fatalf("pct=0.5 期望 135，got=%d", got)
	}
	if got := e.At(0.25).Gold; got != 112 {
		t.Fatalf("pct=0.25 期望 floor(112.5)=112，got=%d", got)
	}
	if got := e.At(2).Gold; got != 180 {
		t.Fatalf("pct 超过 1 按 1 计，got=%d", got)
	}
}
