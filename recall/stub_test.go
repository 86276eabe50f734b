package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// stubBehaviors 是测试用的内存行为存储。
type stubBehaviors struct {
	users []*core.UserBehavior
	err   error
}

func (s *stubBehaviors) Get(_ context.Context, userID string) (*core.UserBehavior, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.UserID == userID {
			return u, nil
		}
	}
	return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound, "stub: no such user")
}

func (s *stubBehaviors) Put(_ context.Context, behavior *core.UserBehavior) error {
	s.users = append(s.users, behavior)
	return nil
}

func (s *stubBehaviors) Sample(_ context.Context, excludeUserID string, limit int) ([]*core.UserBehavior, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.UserBehavior, 0, len(s.users))
	for _, u := range s.users {
		if u.UserID == excludeUserID || len(out) >= limit {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// stubFeatures 是测试用的内存特征存储。
type stubFeatures struct {
	items map[string]*core.ItemFeatures
	err   error
}

func newStubFeatures(items ...*core.ItemFeatures) *stubFeatures {
	s := &stubFeatures{items: make(map[string]*core.ItemFeatures)}
	for _, it := range items {
		s.items[it.ItemID] = it
	}
	return s
}

func (s *stubFeatures) Get(_ context.Context, itemID string) (*core.ItemFeatures, error) {
	if s.err != nil {
		return nil, s.err
	}
	if f, ok := s.items[itemID]; ok {
		return f, nil
	}
	return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotFound, "stub: no such item")
}

func (s *stubFeatures) QueryByCategory(_ context.Context, category string, limit int) ([]*core.ItemFeatures, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.ItemFeatures, 0)
	for _, f := range s.items {
		if f.Category == category && len(out) < limit {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *stubFeatures) QueryActive(_ context.Context, limit int) ([]*core.ItemFeatures, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.ItemFeatures, 0)
	for _, f := range s.items {
		if f.Available() {
			out = append(out, f)
		}
	}
	// 调用方负责排序语义时，这里按热度降序模拟索引行为
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Popularity > out[i].Popularity ||
				(out[j].Popularity == out[i].Popularity && out[j].ItemID < out[i].ItemID) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
