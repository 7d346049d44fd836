package main

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/teris-io/shortid"
	pb "gopkg.in/cheggaaa/pb.v1"

	"tiler/pyramid"
)

// Viewer 按帧驱动瓦片金字塔: 移动相机, 刷新, 绘制
type Viewer struct {
	ID       string
	Name     string
	camera   *FlightCamera
	engine   *pyramid.Engine
	renderer *headlessRenderer
	fetcher  *Fetcher
	frames   int
	interval time.Duration
	logEvery int
}

func InitViewer(ctx context.Context) error {
	start := time.Now()

	path := orb.LineString{{conf.Flight.Center[0], conf.Flight.Center[1]}}
	if conf.Flight.Path != "" {
		var err error
		if path, err = loadFlightPath(conf.Flight.Path); err != nil {
			return err
		}
	}
	tm, err := NewTileMap(conf.Tm, conf.Task.URLMemo)
	if err != nil {
		return err
	}
	fetcher, err := NewFetcher(tm, BreakPointInst, FetcherOptions{
		Workers:   conf.Task.Workers,
		TimeDelay: time.Duration(conf.Task.Timedelay) * time.Millisecond,
		Timeout:   time.Duration(conf.Task.Timeout) * time.Millisecond,
		CacheSize: int64(conf.Task.CacheSize) << 20,
		Directory: conf.Output.Directory,
	})
	if err != nil {
		return err
	}
	// 注册安全退出
	SafeExitInst.Register(fetcher.AbortFun)

	v := NewViewer(tm.Name, NewFlightCamera(path, conf.Flight), tm, fetcher, conf.Globe, conf.Flight)
	err = v.Run(ctx)

	log.Printf("%.3fs finished...", time.Since(start).Seconds())
	return err
}

func NewViewer(name string, camera *FlightCamera, urls pyramid.URLResolver, fetcher *Fetcher, g GlobeConf, f FlightConf) *Viewer {
	id, _ := shortid.Generate()
	engine := pyramid.New(camera, camera, urls, fetcher,
		pyramid.WithDeltaLevel(g.DeltaLevel),
		pyramid.WithFullOverlapLevel(g.FullOverlapLevel),
		pyramid.WithThreshold(g.Threshold),
		pyramid.WithLogger(log.WithField("viewer", id)),
	)
	return &Viewer{
		ID:       id,
		Name:     name,
		camera:   camera,
		engine:   engine,
		renderer: newHeadlessRenderer(),
		fetcher:  fetcher,
		frames:   f.Frames,
		interval: time.Second / time.Duration(f.FPS),
		logEvery: f.LogEvery,
	}
}

// Run 逐帧刷新直到飞行结束或被取消
func (v *Viewer) Run(ctx context.Context) error {
	log.Infof("Viewer %s (%s) starting, %d frames", v.ID, v.Name, v.frames)
	bar := pb.New(v.frames).Prefix(fmt.Sprintf("%s : ", v.Name)).Postfix("\n")
	bar.SetRefreshRate(time.Second)
	bar.Start()

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for frame := 0; frame < v.frames; frame++ {
		if frame > 0 {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				log.Infof("Viewer %s got canceled at frame %d.", v.ID, frame)
				bar.Finish()
				return ctx.Err()
			}
		}
		v.frame(frame)
		bar.Increment()
	}
	bar.FinishPrint(fmt.Sprintf("Viewer %s finished %d frames ~", v.ID, v.frames))
	v.engine.LogVisibleTiles()
	return nil
}

func (v *Viewer) frame(frame int) pyramid.DrawStats {
	v.camera.Advance(frame)
	v.engine.Refresh()
	// 着色器程序在第一帧之后才就绪
	if frame == 0 {
		defer v.renderer.Init()
	}
	stats := v.engine.Draw(v.renderer)
	if v.logEvery > 0 && frame%v.logEvery == 0 {
		log.WithField("frame", frame).Debugf("zoom %.2f at %v, drew %d tiles", v.camera.Zoom(), v.camera.Center(), stats.Tiles)
		v.engine.LogVisibleTiles()
	}
	return stats
}
