package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/dustin/go-humanize"

	"tiler/pyramid"
)

// FetcherOptions 下载器参数
type FetcherOptions struct {
	Workers   int
	TimeDelay time.Duration
	Timeout   time.Duration
	CacheSize int64 // bytes
	Directory string
}

// Fetcher loads tile images over http for the pyramid. Load returns at once;
// a bounded pool of workers downloads and flips the tile to loaded.
type Fetcher struct {
	tm        *TileMap
	bp        *BreakPoint
	client    *http.Client
	cache     *ristretto.Cache[string, []byte]
	directory string
	timeDelay time.Duration

	workers chan struct{}
	ctx     context.Context
	abort   context.CancelFunc
	tileWG  sync.WaitGroup

	Fetched atomic.Int64
	Hits    atomic.Int64
	Failed  atomic.Int64
	Dropped atomic.Int64
}

func NewFetcher(tm *TileMap, bp *BreakPoint, opts FetcherOptions) (*Fetcher, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 100_000,
		MaxCost:     opts.CacheSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Fetcher{
		tm:        tm,
		bp:        bp,
		client:    &http.Client{Timeout: opts.Timeout},
		cache:     cache,
		directory: opts.Directory,
		timeDelay: opts.TimeDelay,
		workers:   make(chan struct{}, opts.Workers),
		ctx:       ctx,
		abort:     cancel,
	}, nil
}

func (f *Fetcher) Load(t *pyramid.Tile) {
	f.tileWG.Add(1)
	go f.tileFetcher(t)
}

// tileFetcher 瓦片加载器
func (f *Fetcher) tileFetcher(t *pyramid.Tile) {
	defer f.tileWG.Done()
	start := time.Now()
	coord := t.Coordinate()
	key := coord.String()

	if _, ok := f.cache.Get(key); ok {
		f.Hits.Add(1)
		t.SetLoaded(true)
		return
	}
	if f.loadFromDisk(t) {
		return
	}

	select {
	case f.workers <- struct{}{}:
	case <-f.ctx.Done():
		return
	}
	//workers完成并清退
	defer func() { <-f.workers }()

	// 排队期间已被移除的瓦片不再请求
	if t.Released() {
		f.Dropped.Add(1)
		return
	}
	if f.timeDelay > 0 {
		select {
		case <-time.After(f.timeDelay):
		case <-f.ctx.Done():
			return
		}
	}

	body, err := f.download(t.URL())
	if err != nil {
		f.Failed.Add(1)
		log.Debugf("fetch %s error, details: %s ~", t.URL(), err)
		return
	}

	if f.directory != "" {
		if err := saveToFiles(f.directory, f.tm.Format, TileData{T: coord, C: body}); err != nil {
			log.Errorf("create %s tile file error ~ %s", coord, err)
		} else if f.bp != nil {
			f.bp.SetSuccessed(coord)
		}
	}
	f.cache.Set(key, body, int64(len(body)))
	f.Fetched.Add(1)

	if t.Released() {
		f.Dropped.Add(1)
		log.Debugf("tile %s released before load finished, dropped", coord)
		return
	}
	t.SetLoaded(true)
	log.Debugf("tile(z:%d, x:%d, y:%d), %dms , %s, %s ...", coord.Level, coord.Column, coord.Row,
		time.Since(start).Milliseconds(), humanize.Bytes(uint64(len(body))), t.URL())
}

func (f *Fetcher) loadFromDisk(t *pyramid.Tile) bool {
	coord := t.Coordinate()
	if f.bp == nil || f.directory == "" || !f.bp.IsSuccessed(coord) {
		return false
	}
	body, err := readFromFiles(f.directory, f.tm.Format, TileData{T: coord})
	if err != nil {
		log.Debugf("read %s tile from disk error ~ %s", coord, err)
		return false
	}
	f.cache.Set(coord.String(), body, int64(len(body)))
	f.Hits.Add(1)
	t.SetLoaded(true)
	return true
}

func (f *Fetcher) download(url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(f.ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("zero byte tile")
	}
	return body, nil
}

// AbortFun 结束任务, 等待正在进行的请求退出
func (f *Fetcher) AbortFun() {
	f.abort()
	f.tileWG.Wait()
	f.cache.Close()
	log.Infof("fetched: %d, hits: %d, failed: %d, dropped: %d",
		f.Fetched.Load(), f.Hits.Load(), f.Failed.Load(), f.Dropped.Load())
}

// Wait blocks until every requested tile finished or was given up.
func (f *Fetcher) Wait() {
	f.tileWG.Wait()
}
