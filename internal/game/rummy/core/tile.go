package core

import "sort"

// SortTiles 按颜色、点数排序，百搭牌排在最后
func SortTiles(tiles []Tile) {
	sort.SliceStable(tiles, func(i, j int) bool {
		if tiles[i].Joker != tiles[j].Joker {
			return !tiles[i].Joker
		}
		if tiles[i].Color != tiles[j].Color {
			return tiles[i].Color < tiles[j].Color
		}
		if tiles[i].Value != tiles[j].Value {
			return tiles[i].Value < tiles[j].Value
		}
		return tiles[i].ID < tiles[j].ID
	})
}

// IndexOfTile 查找牌在牌组中的位置，不存在返回 -1
func IndexOfTile(tiles []Tile, id TileID) int {
	for i, t := range tiles {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ContainsTile 检查牌组是否包含某张牌
func ContainsTile(tiles []Tile, id TileID) bool {
	return IndexOfTile(tiles, id) >= 0
}

// RemoveTileAt 移除指定位置的牌，返回新切片
func RemoveTileAt(tiles []Tile, idx int) []Tile {
	out := make([]Tile, 0, len(tiles)-1)
	out = append(out, tiles[:idx]...)
	return append(out, tiles[idx+1:]...)
}

// CloneTiles 克隆牌组
func CloneTiles(tiles []Tile) []Tile {
	result := make([]Tile, len(tiles))
	copy(result, tiles)
	return result
}

// MeldValue 统计首次出牌点数，百搭牌计 0
func MeldValue(tiles []Tile) int {
	sum := 0
	for _, t := range tiles {
		sum += t.MeldValue()
	}
	return sum
}

// PenaltyValue 统计手牌罚分，百搭牌计 30
func PenaltyValue(tiles []Tile) int {
	sum := 0
	for _, t := range tiles {
		sum += t.Penalty()
	}
	return sum
}

// TileIDs 提取牌的 ID
func TileIDs(tiles []Tile) []TileID {
	ids := make([]TileID, len(tiles))
	for i, t := range tiles {
		ids[i] = t.ID
	}
	return ids
}

// GroupByValue 按点数分组 (忽略百搭牌)，组内保持手牌顺序
func GroupByValue(tiles []Tile) map[int][]Tile {
	groups := make(map[int][]Tile)
	for _, t := range tiles {
		if t.Joker {
			continue
		}
		groups[t.Value] = append(groups[t.Value], t)
	}
	return groups
}

// GroupByColor 按颜色分组 (忽略百搭牌)
func GroupByColor(tiles []Tile) map[Color][]Tile {
	groups := make(map[Color][]Tile)
	for _, t := range tiles {
		if t.Joker {
			continue
		}
		groups[t.Color] = append(groups[t.Color], t)
	}
	return groups
}

// IsSameValueSet 检查是否为同点数不同颜色的组合 (3-4 张)
func IsSameValueSet(tiles []Tile) bool {
	if len(tiles) < 3 || len(tiles) > 4 {
		return false
	}
	seen := make(map[Color]bool)
	for _, t := range tiles {
		if t.Joker || t.Value != tiles[0].Value || seen[t.Color] {
			return false
		}
		seen[t.Color] = true
	}
	return true
}

// IsRun 检查是否为同色连续点数 (至少 3 张)
func IsRun(tiles []Tile) bool {
	if len(tiles) < 3 {
		return false
	}
	sorted := CloneTiles(tiles)
	SortTiles(sorted)
	for i, t := range sorted {
		if t.Joker || t.Color != sorted[0].Color {
			return false
		}
		if i > 0 && t.Value != sorted[i-1].Value+1 {
			return false
		}
	}
	return true
}
