package ai

import (
	"sort"

	"sudooom.rummy/internal/game/rummy/core"
)

// FindValueSets 按点数分组，每个至少有 3 张的点数取手牌顺序中的前 3 张
//
// 结果按点数升序。
func FindValueSets(hand []core.Tile) [][]core.Tile {
	groups := core.GroupByValue(hand)
	values := make([]int, 0, len(groups))
	for v, tiles := range groups {
		if len(tiles) >= 3 {
			values = append(values, v)
		}
	}
	sort.Ints(values)

	sets := make([][]core.Tile, 0, len(values))
	for _, v := range values {
		sets = append(sets, core.CloneTiles(groups[v][:3]))
	}
	return sets
}

// FindRuns 找出每种颜色中最长的连续点数段 (至少 3 张)
//
// 同色同点的第二张牌不参与；结果按颜色、起始点数排序。
func FindRuns(hand []core.Tile) [][]core.Tile {
	byColor := core.GroupByColor(hand)
	runs := [][]core.Tile{}

	for _, color := range core.Colors {
		byValue := map[int]core.Tile{}
		for _, t := range byColor[color] {
			if _, ok := byValue[t.Value]; !ok {
				byValue[t.Value] = t
			}
		}

		var run []core.Tile
		flush := func() {
			if len(run) >= 3 {
				runs = append(runs, run)
			}
			run = nil
		}
		for v := core.MinValue; v <= core.MaxValue; v++ {
			t, ok := byValue[v]
			if !ok {
				flush()
				continue
			}
			run = append(run, t)
		}
		flush()
	}
	return runs
}
