package troop

import "testing"

func TestLoad_内置兵种表有效(t *testing.T) {
	tbl, err := Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if len(tbl.All()) < 6 {
		t.Fatalf("期望至少 6 个兵种，got=%d", len(tbl.All()))
	}
	if tbl.HousingCapacity() != 240 {
		t.Fatalf("期望人口上限 240，got=%d", tbl.HousingCapacity())
	}
	all := tbl.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("期望按 id 升序，got=%s,%s", all[i-1].ID, all[i].ID)
		}
	}
}

func TestUpToTier_按阶过滤(t *testing.T) {
	tbl := MustLoad()
	for _, tr := range tbl.UpToTier(1) {
		if tr.Tier > 1 {
			t.Fatalf("期望只有 1 阶兵种，got=%s tier=%d", tr.ID, tr.Tier)
		}
	}
	if len(tbl.UpToTier(1)) == 0 {
		t.Fatalf("期望 1 阶兵种非空")
	}
	if len(tbl.UpToTier(5)) != len(tbl.All()) {
		t.Fatalf("期望 5 阶包含全部兵种")
	}
}

func TestHousing_累计人口与未知兵种(t *testing.T) {
	tbl := MustLoad()
	got, ok := tbl.Housing(map[string]int{"warrior": 10, "giant": 2})
	if !ok || got != 10*1+2*5 {
		t.Fatalf("期望人口 20，got=%d ok=%v", got, ok)
	}
	if _, ok := tbl.Housing(map[string]int{"unicorn": 1}); ok {
		t.Fatalf("期望未知兵种返回 false")
	}
}

func TestParse_重复id报错(t *testing.T) {
	data := []byte("troops:\n  - {id: a, tier: 1, hp: 1, housing: 1}\n  - {id: a, tier: 1, hp: 1, housing: 1}\n")
	if _, err := Parse(data); err == nil {
		t.Fatalf("期望重复 id 报错")
	}
}
