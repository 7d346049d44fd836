package main

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"tiler/pyramid"
)

// TileMap 瓦片地图类型
type TileMap struct {
	Name   string
	Format string
	URL    string
	Proxy  string

	memo *lru.Cache[pyramid.Coordinate, string]
}

func NewTileMap(c TileMapConf, memoSize int) (*TileMap, error) {
	memo, err := lru.New[pyramid.Coordinate, string](memoSize)
	if err != nil {
		return nil, err
	}
	return &TileMap{
		Name:   c.Name,
		Format: c.Format,
		URL:    c.URL,
		Proxy:  c.Proxy,
		memo:   memo,
	}, nil
}

// TileURL 获取瓦片URL, 支持 {x} {y} {z} {-y} 以及 {row} {column} {level}
func (m *TileMap) TileURL(level, row, column uint32) string {
	key := pyramid.NewCoordinate(level, row, column)
	if m.memo != nil {
		if url, ok := m.memo.Get(key); ok {
			return url
		}
	}
	x := strconv.FormatUint(uint64(column), 10)
	y := strconv.FormatUint(uint64(row), 10)
	z := strconv.FormatUint(uint64(level), 10)
	flipY := strconv.FormatUint(uint64(uint32(1)<<level-1-row), 10)
	url := strings.NewReplacer(
		"{x}", x, "{column}", x,
		"{-y}", flipY,
		"{y}", y, "{row}", y,
		"{z}", z, "{level}", z,
	).Replace(m.URL)
	url = m.wrapURLWithProxy(url)
	if m.memo != nil {
		m.memo.Add(key, url)
	}
	return url
}

func (m *TileMap) wrapURLWithProxy(url string) string {
	if m.Proxy == "" {
		return url
	}
	return m.Proxy + "?" + url
}
