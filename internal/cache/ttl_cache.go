package cache

import (
	"container/list"
	"sync"
	"time"
)

type cacheItem[K comparable, V any] struct {
	key      K
	value    V
	deadline time.Time
}

// TTLCache 는 항목별 만료 시간과 최대 크기를 갖는 LRU 캐시다.
// 만료 검사는 접근 시점에 게으르게 수행된다.
type TTLCache[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	order   *list.List
	items   map[K]*list.Element

	// 테스트에서 교체할 수 있는 시계
	nowFunc func() time.Time
}

// NewTTLCache 는 만료 시간과 최대 크기를 갖는 TTLCache 를 생성한다.
func NewTTLCache[K comparable, V any](maxSize int, ttl time.Duration) *TTLCache[K, V] {
	if maxSize <= 0 {
		maxSize = 1
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	return &TTLCache[K, V]{
		ttl:     ttl,
		maxSize: maxSize,
		order:   list.New(),
		items:   make(map[K]*list.Element, maxSize),
		nowFunc: time.Now,
	}
}

// Get 은 키에 해당하는 값을 반환한다. 만료된 항목은 제거하고 miss 로 처리한다.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[key]
	if !ok {
		return zero, false
	}

	item := element.Value.(*cacheItem[K, V])
	if c.nowFunc().After(item.deadline) {
		c.removeElement(element)
		return zero, false
	}

	c.order.MoveToFront(element)
	return item.value, true
}

// Set 은 값을 저장하고 만료 시간을 갱신한다. 크기 초과 시 LRU 항목부터 밀어낸다.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := c.nowFunc().Add(c.ttl)

	if element, ok := c.items[key]; ok {
		item := element.Value.(*cacheItem[K, V])
		item.value = value
		item.deadline = deadline
		c.order.MoveToFront(element)
		return
	}

	element := c.order.PushFront(&cacheItem[K, V]{
		key:      key,
		value:    value,
		deadline: deadline,
	})
	c.items[key] = element
	c.evictLocked()
}

// Modify 는 락을 잡은 채 현재 값에 fn 을 적용해 저장한다. 키가 없으면
// fn 은 제로 값과 exists=false 로 호출된다. 반환 값은 저장된 새 값이다.
// 카운터 증가처럼 읽기-수정-쓰기를 원자적으로 해야 할 때 쓴다.
func (c *TTLCache[K, V]) Modify(key K, fn func(current V, exists bool) V) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()
	if element, ok := c.items[key]; ok {
		item := element.Value.(*cacheItem[K, V])
		if now.After(item.deadline) {
			c.removeElement(element)
		} else {
			item.value = fn(item.value, true)
			item.deadline = now.Add(c.ttl)
			c.order.MoveToFront(element)
			return item.value, true
		}
	}

	value := fn(zero, false)
	element := c.order.PushFront(&cacheItem[K, V]{
		key:      key,
		value:    value,
		deadline: now.Add(c.ttl),
	})
	c.items[key] = element
	c.evictLocked()
	return value, true
}

// Delete 는 키를 제거한다. 키가 없으면 무시한다.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.items[key]; ok {
		c.removeElement(element)
	}
}

// Len 은 만료 여부와 무관하게 현재 보관 중인 항목 수를 반환한다.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLCache[K, V]) evictLocked() {
	for len(c.items) > c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		c.removeElement(oldest)
	}
}

func (c *TTLCache[K, V]) removeElement(element *list.Element) {
	c.order.Remove(element)
	item := element.Value.(*cacheItem[K, V])
	delete(c.items, item.key)
}
