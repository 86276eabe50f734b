// Package cache 提供进程内的行为/特征缓存，采用 TTL + LRU 策略。
// 用于在单次推荐请求内与相邻请求间减少对存储的往返。
package cache

import (
	"sync"
	"time"

	"github.com/rushteam/shoprec/core"
)

// MemoryCache 是内存缓存实现：
//   - userID -> UserBehavior
//   - itemID -> ItemFeatures
//
// 写路径（TrackInteraction）对受影响用户做定点失效；
// 目录更新信号可对物品做定点失效。有界：超过 maxSize 时按 LRU 淘汰。
type MemoryCache struct {
	mu        sync.RWMutex
	behaviors map[string]*behaviorEntry
	features  map[string]*featureEntry

	maxSize         int
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	cleanupTicker   *time.Ticker
	stopCleanup     chan struct{}
}

type behaviorEntry struct {
	behavior   *core.UserBehavior
	expireTime time.Time
	accessTime time.Time
}

type featureEntry struct {
	features   *core.ItemFeatures
	expireTime time.Time
	accessTime time.Time
}

// NewMemoryCache 创建内存缓存。
func NewMemoryCache(maxSize int, defaultTTL time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1024
	}
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	c := &MemoryCache{
		behaviors:       make(map[string]*behaviorEntry),
		features:        make(map[string]*featureEntry),
		maxSize:         maxSize,
		defaultTTL:      defaultTTL,
		cleanupInterval: 1 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	// 启动清理协程
	c.cleanupTicker = time.NewTicker(c.cleanupInterval)
	go c.cleanup()

	return c
}

func (c *MemoryCache) cleanup() {
	for {
		select {
		case <-c.cleanupTicker.C:
			c.cleanExpired()
		case <-c.stopCleanup:
			c.cleanupTicker.Stop()
			return
		}
	}
}

func (c *MemoryCache) cleanExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	for userID, entry := range c.behaviors {
		if now.After(entry.expireTime) {
			delete(c.behaviors, userID)
		}
	}
	for itemID, entry := range c.features {
		if now.After(entry.expireTime) {
			delete(c.features, itemID)
		}
	}
}

// evictOldestBehavior 淘汰最久未访问的行为条目（持锁调用）。
func (c *MemoryCache) evictOldestBehavior() {
	var oldestKey string
	var oldestTime time.Time
	first := true
	for key, entry := range c.behaviors {
		if first || entry.accessTime.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.accessTime
			first = false
		}
	}
	if !first {
		delete(c.behaviors, oldestKey)
	}
}

func (c *MemoryCache) evictOldestFeature() {
	var oldestKey string
	var oldestTime time.Time
	first := true
	for key, entry := range c.features {
		if first || entry.accessTime.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.accessTime
			first = false
		}
	}
	if !first {
		delete(c.features, oldestKey)
	}
}

// GetBehavior 读取用户行为缓存。
// 读取更新 accessTime（LRU 依据），因此持写锁。
func (c *MemoryCache) GetBehavior(userID string) (*core.UserBehavior, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.behaviors[userID]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expireTime) {
		return nil, false
	}
	entry.accessTime = time.Now()
	return entry.behavior, true
}

// SetBehavior 写入用户行为缓存。
func (c *MemoryCache) SetBehavior(userID string, behavior *core.UserBehavior) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.behaviors) >= c.maxSize {
		c.evictOldestBehavior()
	}
	c.behaviors[userID] = &behaviorEntry{
		behavior:   behavior,
		expireTime: time.Now().Add(c.defaultTTL),
		accessTime: time.Now(),
	}
}

// GetFeatures 读取物品特征缓存。
func (c *MemoryCache) GetFeatures(itemID string) (*core.ItemFeatures, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.features[itemID]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expireTime) {
		return nil, false
	}
	entry.accessTime = time.Now()
	return entry.features, true
}

// SetFeatures 写入物品特征缓存。
func (c *MemoryCache) SetFeatures(itemID string, features *core.ItemFeatures) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.features) >= c.maxSize {
		c.evictOldestFeature()
	}
	c.features[itemID] = &featureEntry{
		features:   features,
		expireTime: time.Now().Add(c.defaultTTL),
		accessTime: time.Now(),
	}
}

// InvalidateBehavior 定点失效某用户的行为缓存（TrackInteraction 写路径调用）。
func (c *MemoryCache) InvalidateBehavior(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.behaviors, userID)
}

// InvalidateFeatures 定点失效某物品的特征缓存（目录更新信号调用）。
func (c *MemoryCache) InvalidateFeatures(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.features, itemID)
}

// Clear 清空缓存。
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.behaviors = make(map[string]*behaviorEntry)
	c.features = make(map[string]*featureEntry)
}

// Close 关闭缓存，停止清理协程
func (c *MemoryCache) Close() {
	close(c.stopCleanup)
}
