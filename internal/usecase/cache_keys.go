package usecase

import "fmt"

// Cache keys are namespaced "<entity>:<id>" with "<entity>:list" for
// aggregates. Every mutation enumerates all keys it can stale, including
// the list-level aggregate.
const articleListCacheKey = "article:list"

func articleCacheKey(id uint) string {
	return fmt.Sprintf("article:%d", id)
}

func profileCacheKey(email string) string {
	return "profile:" + email
}
