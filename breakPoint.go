package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tiler/pyramid"
)

var BreakPointInst *BreakPoint

func InitBreakPoint() error {
	bp, err := OpenBreakPoint(conf.BreakPoint.SaveFilePath, conf.Tm.Name, conf.Task.Workers)
	if err != nil {
		return err
	}
	BreakPointInst = bp
	SafeExitInst.Register(BreakPointInst.BreakPointSafeFun)
	return nil
}

// BreakPoint 记录已下载成功的瓦片, 重启后直接从磁盘加载
type BreakPoint struct {
	file       *os.File
	saveChan   chan pyramid.Coordinate
	mu         sync.RWMutex
	successMap map[string]struct{}
	isClose    bool
	done       chan struct{}
}

// OpenBreakPoint opens (or creates) dir/name.log and starts the writer.
func OpenBreakPoint(dir, name string, bufSize int) (*BreakPoint, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.log", name))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("break point file open is error: %w", err)
	}

	// 获取断点记录
	successMap, err := getBackPoint(file)
	if err != nil {
		file.Close()
		return nil, err
	}

	b := &BreakPoint{
		file:       file,
		saveChan:   make(chan pyramid.Coordinate, bufSize),
		successMap: successMap,
		done:       make(chan struct{}),
	}
	// 开始断点任务
	go b.Start()
	return b, nil
}

// 初始化断点文件
func getBackPoint(file *os.File) (map[string]struct{}, error) {
	res := make(map[string]struct{})
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			res[line] = struct{}{}
		}
	}
	return res, sc.Err()
}

func breakPointKey(c pyramid.Coordinate) string {
	return fmt.Sprintf("%d-%d-%d", c.Column, c.Row, c.Level)
}

func (b *BreakPoint) IsSuccessed(c pyramid.Coordinate) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.successMap[breakPointKey(c)]
	return ok
}

func (b *BreakPoint) SetSuccessed(c pyramid.Coordinate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.isClose {
		return
	}
	key := breakPointKey(c)
	if _, ok := b.successMap[key]; ok {
		return
	}
	b.successMap[key] = struct{}{}
	b.saveChan <- c
}

func (b *BreakPoint) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.successMap)
}

func (b *BreakPoint) Start() {
	defer close(b.done)
	log.Debugf("断点记录任务已开始")
	for c := range b.saveChan {
		if _, err := b.file.WriteString(breakPointKey(c) + "\n"); err != nil {
			log.Errorf("write break point %s error ~ %s", c, err)
		}
	}
}

func (b *BreakPoint) BreakPointSafeFun() {
	b.mu.Lock()
	if b.isClose {
		b.mu.Unlock()
		return
	}
	b.isClose = true
	close(b.saveChan)
	b.mu.Unlock()

	<-b.done
	b.file.Close()
	log.Infof("断点记录任务已安全退出")
}
