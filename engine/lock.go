package engine

import "sync"

// userLocks 实现按用户串行化的写入纪律（single-writer-per-user）：
// 同一用户的 TrackInteraction 互斥，避免读-改-写竞态丢更新；
// 不同用户互不阻塞。
//
// 锁对象按需创建后驻留内存，规模与活跃用户数同阶。
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock 获取某用户的写锁，返回解锁函数。
func (l *userLocks) Lock(userID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
