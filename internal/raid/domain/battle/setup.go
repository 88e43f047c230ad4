package battle

import (
	"fmt"
	"math/rand"

	"VillageRaid/internal/raid/domain/deploy"
	"VillageRaid/internal/raid/domain/village"
	"VillageRaid/internal/shared/gameconfig/building"
	"VillageRaid/internal/shared/gameconfig/troop"
)

// defenderSpread 防守兵出生点相对主堡中心的最大偏移
const defenderSpread = 2.0

// Setup 由村庄和部署结果构造一场新的战斗输入。
// 防守兵在主堡附近随机落点，rng 由调用方持有；配置表里查不到的兵种直接跳过。
func Setup(v *village.Village, units []deploy.Unit, troops *troop.Table, buildings *building.Table, rng *rand.Rand) Input {
	in := Input{CoreIndex: -1}

	for _, vb := range v.Buildings {
		cx, cy := vb.Center()
		b := Building{
			Base: Base{
				ID:    buildingID(vb.Index),
				Pos:   Vec{X: cx, Y: cy},
				HP:    vb.HP,
				MaxHP: vb.MaxHP,
				Alive: vb.HP > 0,
			},
			Index:  vb.Index,
			TypeID: vb.TypeID,
			IsCore: vb.Category == building.CategoryCore,
		}
		if b.IsCore {
			in.CoreIndex = len(in.Buildings)
		}
		if def, ok := buildings.Get(vb.TypeID); ok {
			if w, ok := def.Weapon(vb.Level); ok {
				in.Structures = append(in.Structures, Structure{
					ID:         b.ID,
					Pos:        b.Pos,
					Building:   len(in.Buildings),
					TypeID:     vb.TypeID,
					Damage:     w.Damage,
					Range:      w.Range,
					FireRate:   max(w.FireRateTicks, 1),
					Splash:     def.SplashRadius,
					Mode:       ParseMode(def.Special),
					Color:      def.ProjectileColor,
					ChainColor: def.ChainColor,
				})
			}
		}
		in.Buildings = append(in.Buildings, b)
	}

	for _, u := range units {
		t, ok := troops.Get(u.TroopID)
		if !ok {
			continue
		}
		id := fmt.Sprintf("a%d", len(in.Attackers))
		pos := Vec{X: float64(u.X) + 0.5, Y: float64(u.Y) + 0.5}
		in.Attackers = append(in.Attackers, Attacker{Fighter: newFighter(id, t, pos)})
	}

	var core Vec
	if in.CoreIndex >= 0 {
		core = in.Buildings[in.CoreIndex].Pos
	}
	for _, troopID := range v.Defenders {
		t, ok := troops.Get(troopID)
		if !ok {
			continue
		}
		id := fmt.Sprintf("d%d", len(in.Defenders))
		pos := Vec{
			X: core.X + (rng.Float64()*2-1)*defenderSpread,
			Y: core.Y + (rng.Float64()*2-1)*defenderSpread,
		}
		in.Defenders = append(in.Defenders, Defender{Fighter: newFighter(id, t, pos)})
	}
	return in
}

func newFighter(id string, t troop.Troop, pos Vec) Fighter {
	return Fighter{
		Base: Base{
			ID:    id,
			Pos:   pos,
			HP:    t.HP,
			MaxHP: t.HP,
			Alive: t.HP > 0,
		},
		TroopID: t.ID,
		Icon:    t.Icon,
		Atk:     t.Atk,
		Speed:   t.Speed,
		Range:   t.Range,
		Target:  -1,
	}
}

func buildingID(index int) string {
	return fmt.Sprintf("b%d", index)
}
