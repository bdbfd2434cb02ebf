package store

import (
	"context"
	"sync"
)

type InMemoryAnswerCache struct {
	lock    *sync.RWMutex
	answers map[string]cachedAnswer
}

func InitInMemoryAnswerCache() *InMemoryAnswerCache {
	return &InMemoryAnswerCache{
		lock:    new(sync.RWMutex),
		answers: make(map[string]cachedAnswer),
	}
}

func (store *InMemoryAnswerCache) GetAnswer(ctx context.Context, question string) (string, []string, bool) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	cached, found := store.answers[answerKey(question)]
	if !found {
		return "", nil, false
	}
	return cached.Answer, cached.Sources, true
}

func (store *InMemoryAnswerCache) SaveAnswer(ctx context.Context, question string, answer string, sources []string) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.answers[answerKey(question)] = cachedAnswer{Question: question, Answer: answer, Sources: sources}
	return nil
}
