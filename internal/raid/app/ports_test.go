package app

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRaidRecord_大整数ID按字符串输出(t *testing.T) {
	// 雪花 ID 超过 2^53，按数字输出在 JS 端会丢精度
	rec := RaidRecord{RaidID: 1<<62 + 1, Seed: 1<<60 + 3}
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"raid_id":"4611686018427387905"`) || !strings.Contains(s, `"seed":"1152921504606846979"`) {
		t.Fatalf("期望 raid_id 与 seed 为字符串，got=%s", s)
	}

	var back RaidRecord
	if err := json.Unmarshal(b, &back); err != nil || back.RaidID != rec.RaidID {
		t.Fatalf("期望能原样读回，got=%d err=%v", back.RaidID, err)
	}
}
