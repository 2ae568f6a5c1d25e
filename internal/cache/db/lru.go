package db

import "container/list"

// EvictionPolicy picks the entry to drop under memory pressure.
// Implementations are not synchronized: the store calls them under its own lock.
type EvictionPolicy interface {
	OnInsert(key string)
	OnAccess(key string)
	OnRemove(key string)
	// Victim returns the next key to evict without removing it.
	Victim() (key string, ok bool)
	Len() int
	Reset()
}

// lruPolicy keeps keys ordered by access time: front is the most recently
// accessed, back is the least. Every operation is O(1).
//
// Two entries touched at the same clock reading keep their relative access
// order, so ties are broken by whoever was accessed (or inserted) first.
type lruPolicy struct {
	lru  *list.List
	lidx map[string]*list.Element
}

func newLRUPolicy() *lruPolicy {
	return &lruPolicy{
		lru:  list.New(),
		lidx: make(map[string]*list.Element),
	}
}

func (p *lruPolicy) OnInsert(key string) {
	if el := p.lidx[key]; el != nil {
		p.lru.MoveToFront(el)
		return
	}
	p.lidx[key] = p.lru.PushFront(key)
}

func (p *lruPolicy) OnAccess(key string) {
	if el := p.lidx[key]; el != nil {
		p.lru.MoveToFront(el)
	}
}

func (p *lruPolicy) OnRemove(key string) {
	if el := p.lidx[key]; el != nil {
		p.lru.Remove(el)
		delete(p.lidx, key)
	}
}

func (p *lruPolicy) Victim() (key string, ok bool) {
	el := p.lru.Back()
	if el == nil {
		return "", false
	}
	return el.Value.(string), true
}

func (p *lruPolicy) Len() int { return p.lru.Len() }

func (p *lruPolicy) Reset() {
	p.lru.Init()
	clear(p.lidx)
}
