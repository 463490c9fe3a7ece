package cache

import (
	"sync"
	"time"
)

// entry é um valor cacheado com seu instante de expiração
type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache é um cache em memória com expiração por item, usado para dados de
// leitura frequente e escrita rara (perguntas de template, por exemplo)
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	stop    chan struct{}
}

// New cria um cache com limpeza de itens expirados a cada minuto
func New() *Cache {
	return NewWithInterval(time.Minute)
}

// NewWithInterval cria um cache com intervalo de limpeza customizado
func NewWithInterval(cleanupInterval time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.DeleteExpired()
			case <-c.stop:
				return
			}
		}
	}()

	return c
}

// Set grava um valor com o TTL informado
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Get busca um valor não expirado; o booleano indica se foi encontrado
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, found := c.entries[key]
	if !found || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Delete remove um item do cache
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// DeleteExpired remove todos os itens expirados
func (c *Cache) DeleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// Len retorna a quantidade de itens armazenados, expirados inclusos
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Clear remove todos os itens do cache
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// Close encerra a rotina de limpeza em background
func (c *Cache) Close() {
	close(c.stop)
}
