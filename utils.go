package main

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func tilePath(rootdir, format string, tile TileData) string {
	return filepath.Join(rootdir,
		fmt.Sprintf(`%d`, tile.T.Level),
		fmt.Sprintf(`%d`, tile.T.Column),
		fmt.Sprintf(`%d.%s`, tile.T.Row, format))
}

func saveToFiles(rootdir, format string, tile TileData) error {
	fileName := tilePath(rootdir, format, tile)
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return err
	}
	data := tile.C
	if format == PBF {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	return os.WriteFile(fileName, data, 0o644)
}

func readFromFiles(rootdir, format string, tile TileData) ([]byte, error) {
	data, err := os.ReadFile(tilePath(rootdir, format, tile))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("nil tile %s", tile.T)
	}
	return data, nil
}

// loadFlightPath 读取 geojson, 按要素顺序拼接出相机飞行路径
func loadFlightPath(path string) (orb.LineString, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("unable to unmarshal feature: %w", err)
	}

	var ls orb.LineString
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Point:
			ls = append(ls, g)
		case orb.MultiPoint:
			ls = append(ls, g...)
		case orb.LineString:
			ls = append(ls, g...)
		case orb.MultiLineString:
			for _, l := range g {
				ls = append(ls, l...)
			}
		}
	}
	if len(ls) == 0 {
		return nil, fmt.Errorf("no points in %s", path)
	}
	return ls, nil
}
