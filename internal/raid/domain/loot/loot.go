// Package loot 估算一座村庄可掠夺的资源区间。
package loot

import "math"

type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Lerp 按比例在 [Min,Max] 之间插值并向下取整。
func (r Range) Lerp(pct float64) int {
	pct = math.Min(math.Max(pct, 0), 1)
	return int(math.Floor(float64(r.Min) + float64(r.Max-r.Min)*pct))
}

type Estimate struct {
	Gold  Range `json:"gold"`
	Wood  Range `json:"wood"`
	Stone Range `json:"stone"`
}

// Amount 是实际结算的资源。
type Amount struct {
	Gold  int `json:"gold"`
	Wood  int `json:"wood"`
	Stone int `json:"stone"`
}

func (a Amount) IsZero() bool {
	return a == Amount{}
}

// For 返回难度对应的掠夺区间：min = floor(base*0.5)，max = base。
func For(difficulty int) Estimate {
	return Estimate{
		Gold:  span(100 + difficulty*80),
		Wood:  span(60 + difficulty*50),
		Stone: span(40 + difficulty*30),
	}
}

func span(base int) Range {
	return Range{Min: base / 2, Max: base}
}

// At 按摧毁比例结算。
func (e Estimate) At(pct float64) Amount {
	return Amount{
		Gold:  e.Gold.Lerp(pct),
		Wood:  e.Wood.Lerp(pct),
		Stone: e.Stone.Lerp(pct),
	}
}
