package catalog

import (
	"context"

	"storefront/internal/cache"
)

// Webhook topics that change cached catalog data.
var (
	collectionTopics = map[string]bool{
		"collections/create": true,
		"collections/delete": true,
		"collections/update": true,
	}
	productTopics = map[string]bool{
		"products/create": true,
		"products/delete": true,
		"products/update": true,
	}
)

// RevalidateResult reports what a webhook invalidated.
type RevalidateResult struct {
	Revalidated bool
	Tags        []string
	Now         int64
}

// Revalidate drops cached entries affected by a platform webhook topic.
// Unrelated topics are a no-op.
func (s *Service) Revalidate(ctx context.Context, topic string) (RevalidateResult, error) {
	var tags []string
	if collectionTopics[topic] {
		tags = append(tags, cache.TagCollections)
	}
	if productTopics[topic] {
		tags = append(tags, cache.TagProducts)
	}
	if len(tags) == 0 {
		s.logger.V(1).Info("ignoring webhook topic", "topic", topic)
		return RevalidateResult{}, nil
	}

	for _, tag := range tags {
		if err := s.cache.Invalidate(ctx, tag); err != nil {
			return RevalidateResult{}, err
		}
	}
	return RevalidateResult{Revalidated: true, Tags: tags, Now: s.now().UnixMilli()}, nil
}
