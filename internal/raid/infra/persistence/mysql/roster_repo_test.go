package mysql

import (
	"testing"
	"time"

	"VillageRaid/internal/raid/infra/persistence/model"
)

func TestToArmy_模型转换(t *testing.T) {
	p := &model.RaidPlayer{Rid: 9, RaidLevel: 4, Gold: 100, Wood: 50, Stone: 7, UpdatedAt: time.Now()}
	a := toArmy(p, []model.RaidTroop{{Rid: 9, TroopID: "warrior", Count: 12}, {Rid: 9, TroopID: "archer", Count: 0}})
	if a.PlayerID != 9 || a.RaidLevel != 4 {
		t.Fatalf("期望 player_id=9 raid_level=4，got=%+v", a)
	}
	if a.Resources.Gold != 100 || a.Resources.Wood != 50 || a.Resources.Stone != 7 {
		t.Fatalf("期望资源原样转换，got=%+v", a.Resources)
	}
	if a.Troops["warrior"] != 12 || len(a.Troops) != 2 {
		t.Fatalf("期望兵力按兵种展开，got=%v", a.Troops)
	}
}

func TestSortedKeys_固定顺序(t *testing.T) {
	got := sortedKeys(map[string]int{"wizard": 1, "archer": 2, "giant": 3})
	if len(got) != 3 || got[0] != "archer" || got[1] != "giant" || got[2] != "wizard" {
		t.Fatalf("期望按字典序，got=%v", got)
	}
}

func TestTableName_表名(t *testing.T) {
	if (&model.RaidPlayer{}).TableName() != "raid_player" || (&model.RaidTroop{}).TableName() != "raid_troop" {
		t.Fatalf("期望表名 raid_player/raid_troop")
	}
}
