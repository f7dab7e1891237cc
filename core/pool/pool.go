// Package pool 提供一个有界的通用工作池。
// 解析一次歌词要对多个源做两轮并发请求，池由调用方显式持有，
// 构造时启动、Shutdown 时回收，避免隐式的进程级全局状态。
package pool

import (
	"runtime"
	"sync"
)

// Pool 固定大小的工作池
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

// New 创建并启动工作池，workers 非正数时按 CPU 数取值
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > 8 {
			workers = 8
		}
	}

	p := &Pool{
		tasks: make(chan func(), workers*4),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
	return p
}

// Submit 提交一个任务，队列满时阻塞。
// Shutdown 之后不得再调用。
func (p *Pool) Submit(task func()) {
	p.tasks <- task
}

// Shutdown 停止接收新任务并等待在队任务全部执行完
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.tasks)
		p.wg.Wait()
	})
}
