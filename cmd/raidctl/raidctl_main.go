// raidctl 是联调用的 ws 客户端：签发 token、登录、开局，按参数手动部署或等倒计时自动结算。
package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"VillageRaid/internal/shared/logs"
	"VillageRaid/internal/shared/security"
	"VillageRaid/internal/shared/serverconfig"
	"VillageRaid/internal/shared/transport"
	"VillageRaid/internal/shared/transport/ws"

	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", "ws://127.0.0.1:8080/ws", "raid ws 地址")
	pid := flag.Int64("pid", 1, "玩家 id")
	seed := flag.Int64("seed", 0, "村庄种子，0 为随机")
	units := flag.String("deploy", "", "手动部署，如 warrior:0:0,archer:23:1；为空则等待自动部署")
	flag.Parse()

	if err := serverconfig.Load(); err != nil {
		panic(err)
	}
	serverconfig.Conf.Log.FileDir = ""
	if err := logs.Init("raidctl", serverconfig.Conf.Log); err != nil {
		panic(err)
	}

	if err := run(*addr, *pid, *seed, *units); err != nil {
		logs.Fatal("raidctl failed", zap.Error(err))
	}
}

func run(addr string, pid, seed int64, units string) error {
	token, err := security.Award(pid)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), serverconfig.Conf.Raid.DeployBudget()+10*time.Second)
	defer cancel()

	c, err := ws.Dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer c.Close()

	if _, err := call(ctx, c, "raid.login", map[string]any{"token": token}); err != nil {
		return err
	}
	view, err := call(ctx, c, "raid.start", map[string]any{"seed": seed})
	if err != nil {
		return err
	}
	logs.Info("raid started", zap.Any("view", view))

	if units == "" {
		logs.Info("waiting for countdown")
		for {
			select {
			case p, ok := <-c.Pushes():
				if !ok {
					return ws.ErrClientClosed
				}
				if p.Name == "raid.result" {
					logs.Info("raid settled", zap.Any("result", p.Msg))
					return nil
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	list, err := parseUnits(units)
	if err != nil {
		return err
	}
	for _, u := range list {
		if _, err := call(ctx, c, "raid.deploy", u); err != nil {
			logs.Warn("deploy rejected", zap.Any("unit", u), zap.Error(err))
		}
	}
	result, err := call(ctx, c, "raid.begin", nil)
	if err != nil {
		return err
	}
	logs.Info("raid settled", zap.Any("result", result))
	return nil
}

func call(ctx context.Context, c *ws.Client, name string, msg any) (any, error) {
	resp, err := c.Call(ctx, name, msg)
	if err != nil {
		return nil, err
	}
	if resp.Code != transport.OK {
		return nil, fmt.Errorf("%s: code=%d msg=%v", name, resp.Code, resp.Msg)
	}
	return resp.Msg, nil
}

// parseUnits 解析 troop:x:y 列表。
func parseUnits(s string) ([]map[string]any, error) {
	var out []map[string]any
	for _, part := range strings.Split(s, ",") {
		f := strings.Split(strings.TrimSpace(part), ":")
		if len(f) != 3 {
			return nil, fmt.Errorf("bad unit %q, want troop:x:y", part)
		}
		x, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, fmt.Errorf("bad x in %q: %w", part, err)
		}
		y, err := strconv.Atoi(f[2])
		if err != nil {
			return nil, fmt.Errorf("bad y in %q: %w", part, err)
		}
		out = append(out, map[string]any{"troop_id": f[0], "x": x, "y": y})
	}
	return out, nil
}
