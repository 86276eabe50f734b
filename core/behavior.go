package core

import "time"

// Action 是用户交互类型。
type Action string

const (
	ActionView     Action = "view"
	ActionClick    Action = "click"
	ActionCart     Action = "cart"
	ActionPurchase Action = "purchase"
	ActionWishlist Action = "wishlist"
)

// ValidAction 检查交互类型是否受支持。
func ValidAction(a Action) bool {
	switch a {
	case ActionView, ActionClick, ActionCart, ActionPurchase, ActionWishlist:
		return true
	}
	return false
}

// DefaultViewedWindow 是 ViewedItems 保留的尾部窗口大小（最近 N 条）。
const DefaultViewedWindow = 100

// UserBehavior 是每用户一份的交互聚合，是推荐链路的"全局上下文 + 决策信号"。
//
// 它不属于某一个召回源，而是：
//   - 被协同/内容召回共享
//   - 驱动 Hybrid 融合的行为加权（wishlist/clickThrough/cartAbandoned）
//   - 通过 TrackInteraction 持续演进（Online Learning 信号）
//
// 约束：
//   - PurchasedItems / Wishlist / CartAbandoned 是集合（无重复）
//   - ClickThrough 取值非负
//   - ViewedItems 按时间顺序追加，仅保留尾部窗口以限制内存
//   - 仅通过 TrackInteraction 变更；本引擎从不删除用户聚合
type UserBehavior struct {
	UserID string `json:"user_id"`

	// 行为序列（短期）
	ViewedItems   []string `json:"viewed_items,omitempty"`
	SearchQueries []string `json:"search_queries,omitempty"` // 仅描述性，不参与打分

	// 集合型信号
	PurchasedItems map[string]bool `json:"purchased_items,omitempty"`
	CartAbandoned  map[string]bool `json:"cart_abandoned,omitempty"`
	Wishlist       map[string]bool `json:"wishlist,omitempty"`

	// 计数与时间戳
	ClickThrough map[string]int       `json:"click_through,omitempty"`
	DwellTime    map[string]time.Time `json:"dwell_time,omitempty"` // 最近一次观察到的停留起点

	// 元数据
	UpdateTime time.Time `json:"update_time"`
}

// NewUserBehavior 创建一个空聚合（首次交互时惰性创建）。
func NewUserBehavior(userID string) *UserBehavior {
	return &UserBehavior{
		UserID:         userID,
		ViewedItems:    make([]string, 0),
		SearchQueries:  make([]string, 0),
		PurchasedItems: make(map[string]bool),
		CartAbandoned:  make(map[string]bool),
		Wishlist:       make(map[string]bool),
		ClickThrough:   make(map[string]int),
		DwellTime:      make(map[string]time.Time),
		UpdateTime:     time.Now(),
	}
}

// AddView 追加一次浏览（允许重复，append-only），并盖停留时间戳。
// 超过窗口时只保留最近 window 条。
func (b *UserBehavior) AddView(itemID string, window int) {
	b.ViewedItems = append(b.ViewedItems, itemID)
	if window > 0 && len(b.ViewedItems) > window {
		b.ViewedItems = b.ViewedItems[len(b.ViewedItems)-window:]
	}
	if b.DwellTime == nil {
		b.DwellTime = make(map[string]time.Time)
	}
	b.DwellTime[itemID] = time.Now()
	b.UpdateTime = time.Now()
}

// AddClick 点击计数 +1。
func (b *UserBehavior) AddClick(itemID string) {
	if b.ClickThrough == nil {
		b.ClickThrough = make(map[string]int)
	}
	b.ClickThrough[itemID]++
	b.UpdateTime = time.Now()
}

// AddCart 记录加购（用于后续与购买比对得出弃购）。
func (b *UserBehavior) AddCart(itemID string) {
	if b.CartAbandoned == nil {
		b.CartAbandoned = make(map[string]bool)
	}
	b.CartAbandoned[itemID] = true
	b.UpdateTime = time.Now()
}

// AddPurchase 记录购买；购买单调增长、从不回退。
// 同时清除该物品的弃购标记（已购即非弃购）。
func (b *UserBehavior) AddPurchase(itemID string) {
	if b.PurchasedItems == nil {
		b.PurchasedItems = make(map[string]bool)
	}
	b.PurchasedItems[itemID] = true
	delete(b.CartAbandoned, itemID)
	b.UpdateTime = time.Now()
}

// AddWishlist 加入心愿单。
func (b *UserBehavior) AddWishlist(itemID string) {
	if b.Wishlist == nil {
		b.Wishlist = make(map[string]bool)
	}
	b.Wishlist[itemID] = true
	b.UpdateTime = time.Now()
}

// AddSearchQuery 记录检索词（仅描述性）。
func (b *UserBehavior) AddSearchQuery(query string) {
	if query == "" {
		return
	}
	b.SearchQueries = append(b.SearchQueries, query)
	b.UpdateTime = time.Now()
}

// Apply 按交互类型分派到对应字段的变更。
func (b *UserBehavior) Apply(action Action, itemID string) {
	switch action {
	case ActionView:
		b.AddView(itemID, DefaultViewedWindow)
	case ActionClick:
		b.AddClick(itemID)
	case ActionCart:
		b.AddCart(itemID)
	case ActionPurchase:
		b.AddPurchase(itemID)
	case ActionWishlist:
		b.AddWishlist(itemID)
	}
}

// HasPurchased 检查是否已购。
func (b *UserBehavior) HasPurchased(itemID string) bool {
	return b.PurchasedItems[itemID]
}

// ViewedSet 返回浏览序列的去重集合。
func (b *UserBehavior) ViewedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(b.ViewedItems))
	for _, id := range b.ViewedItems {
		set[id] = struct{}{}
	}
	return set
}

// Empty 表示该用户尚无任何可用于个性化的行为。
func (b *UserBehavior) Empty() bool {
	return len(b.ViewedItems) == 0 &&
		len(b.PurchasedItems) == 0 &&
		len(b.Wishlist) == 0 &&
		len(b.CartAbandoned) == 0 &&
		len(b.ClickThrough) == 0
}
